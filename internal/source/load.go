package source

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/sync/errgroup"
)

// DefaultExtensions are the file kinds that take part in a merge.
var DefaultExtensions = []string{".c", ".h"}

// ListDir returns the paths of regular files in dir whose extension is one of
// exts, sorted by base name.
func ListDir(dir string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !slices.Contains(exts, filepath.Ext(e.Name())) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	slices.SortFunc(out, func(a, b string) int {
		return cmp.Compare(filepath.Base(a), filepath.Base(b))
	})
	return out, nil
}

// LoadAll reads every path and adds it to the set in the order of paths.
// Up to jobs files are read at once; jobs <= 1 reads them one by one.
// The resulting FileSet does not depend on jobs.
func (fileSet *FileSet) LoadAll(ctx context.Context, paths []string, jobs int) error {
	type loaded struct {
		content []byte
		flags   FileFlags
	}
	results := make([]loaded, len(paths))

	if jobs < 1 {
		jobs = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, flags, err := fileSet.read(path)
			if err != nil {
				return err
			}
			results[i] = loaded{content: content, flags: flags}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// регистрация строго в порядке paths
	for i, path := range paths {
		fileSet.Add(path, results[i].content, results[i].flags)
	}
	return nil
}
