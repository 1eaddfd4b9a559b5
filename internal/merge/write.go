package merge

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Output is one file produced by a run.
type Output struct {
	Path string
	Data []byte
}

// WriteFiles stages every output in a temporary file next to its target and
// renames them into place only after all of them were written. A failed
// staging step leaves every target, and its previous content, untouched.
func WriteFiles(outputs ...Output) (err error) {
	staged := make([]string, 0, len(outputs))
	defer func() {
		if err != nil {
			// временные файлы нужны только при неудаче
			for _, tmp := range staged {
				_ = os.Remove(tmp)
			}
		}
	}()

	for _, out := range outputs {
		tmp, err := stage(out)
		if err != nil {
			return err
		}
		staged = append(staged, tmp)
	}
	for i, out := range outputs {
		// Атомарная замена
		if err = os.Rename(staged[i], out.Path); err != nil {
			return fmt.Errorf("failed to rename %s: %w", staged[i], err)
		}
	}
	return nil
}

// stage writes out.Data to a fresh temporary file and returns its name.
func stage(out Output) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(out.Path), "."+filepath.Base(out.Path)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmp := f.Name()
	_, err = f.Write(out.Data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmp, 0o644)
	}
	if err != nil {
		return "", errors.Join(fmt.Errorf("failed to write %s: %w", tmp, err), os.Remove(tmp))
	}
	return tmp, nil
}
