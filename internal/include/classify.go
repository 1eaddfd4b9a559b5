package include

import (
	"fmt"
	"slices"

	"amalgam/internal/source"
)

// ParseError reports a line that starts with #include but matches neither
// recognized form.
type ParseError struct {
	Pos  source.Pos
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: cannot parse include directive: %s", e.Pos, e.Text)
}

// FileIncludes lists the directives of one file, each name once, in order of
// first appearance.
type FileIncludes struct {
	File     string
	External []string
	Internal []string
}

// Classify scans f and splits its include directives by kind.
// The first malformed directive aborts the scan.
func (c *Classifier) Classify(f *source.File) (FileIncludes, error) {
	out := FileIncludes{File: f.Name}
	for _, line := range f.Lines {
		if !IsDirective(line.Text) {
			continue
		}
		d, ok := c.Match(line)
		if !ok {
			return FileIncludes{}, &ParseError{Pos: line.Pos(), Text: line.Text}
		}
		switch d.Kind {
		case KindExternal:
			out.External = appendUnique(out.External, d.Name)
		case KindInternal:
			out.Internal = appendUnique(out.Internal, d.Name)
		}
	}
	return out, nil
}

// Set accumulates include names over a whole run. Both lists are
// duplicate-free and ordered by first appearance.
type Set struct {
	External []string
	Internal []string
	PerFile  []FileIncludes
}

// Add merges the includes of one file.
func (s *Set) Add(fi FileIncludes) {
	s.PerFile = append(s.PerFile, fi)
	for _, name := range fi.External {
		s.External = appendUnique(s.External, name)
	}
	for _, name := range fi.Internal {
		s.Internal = appendUnique(s.Internal, name)
	}
}

// Collect classifies every file in order.
func Collect(c *Classifier, files []*source.File) (*Set, error) {
	set := &Set{}
	for _, f := range files {
		fi, err := c.Classify(f)
		if err != nil {
			return nil, err
		}
		set.Add(fi)
	}
	return set, nil
}

func appendUnique(list []string, name string) []string {
	if slices.Contains(list, name) {
		return list
	}
	return append(list, name)
}
