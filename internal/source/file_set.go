package source

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
)

// FileSet is the registry of loaded files. Files are resolved by base name.
type FileSet struct {
	files []*File
	index map[string]int // base name -> position in files

	// normalize включает удаление BOM и замену CRLF при Load.
	normalize bool
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]*File, 0),
		index: make(map[string]int),
	}
}

// SetNormalize toggles BOM stripping and CRLF normalization for Load.
// Off by default: the merge reproduces input bytes as they are.
func (fileSet *FileSet) SetNormalize(on bool) {
	fileSet.normalize = on
}

// Add stores a file built from content and returns it.
// A file whose base name is already registered replaces the index entry;
// base names are expected to be unique across the tree.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) *File {
	name := BaseName(path)
	f := &File{
		Name:  name,
		Path:  normalizePath(path),
		Lines: splitLines(name, content),
		Hash:  sha256.Sum256(content),
		Flags: flags,
	}
	// Всегда обновляем индекс на последнюю версию файла
	fileSet.index[name] = len(fileSet.files)
	fileSet.files = append(fileSet.files, f)
	return f
}

// AddVirtual adds a virtual file (stdin, test, or generated) with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) *File {
	return fileSet.Add(name, content, FileVirtual)
}

// Load reads a file from disk and calls Add.
func (fileSet *FileSet) Load(path string) (*File, error) {
	content, flags, err := fileSet.read(path)
	if err != nil {
		return nil, err
	}
	return fileSet.Add(path, content, flags), nil
}

func (fileSet *FileSet) read(path string) ([]byte, FileFlags, error) {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", path, err)
	}
	if !fileSet.normalize {
		return content, 0, nil
	}

	content, hadBOM, err := removeBOM(content)
	if err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return content, flags, nil
}

// Lookup returns the file registered under the given base name.
func (fileSet *FileSet) Lookup(name string) (*File, bool) {
	if i, ok := fileSet.index[name]; ok {
		return fileSet.files[i], true
	}
	return nil, false
}

// Replace swaps the registered file with the same base name for f.
// It reports false when no such file exists.
func (fileSet *FileSet) Replace(f *File) bool {
	i, ok := fileSet.index[f.Name]
	if !ok {
		return false
	}
	fileSet.files[i] = f
	return true
}

// Files returns files in insertion order.
// ВАЖНО: не модифицируйте возвращаемый срез.
func (fileSet *FileSet) Files() []*File {
	return fileSet.files
}

// Len returns the number of loaded files.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Headers returns the base names of all header files in insertion order.
func (fileSet *FileSet) Headers() []string {
	out := make([]string, 0, len(fileSet.files))
	for _, f := range fileSet.files {
		if f.IsHeader() {
			out = append(out, f.Name)
		}
	}
	return out
}

// Bodies returns the base names of all non-header files in insertion order.
func (fileSet *FileSet) Bodies() []string {
	out := make([]string, 0, len(fileSet.files))
	for _, f := range fileSet.files {
		if !f.IsHeader() {
			out = append(out, f.Name)
		}
	}
	return out
}
