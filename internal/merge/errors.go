package merge

import (
	"errors"
	"fmt"

	"amalgam/internal/include"
	"amalgam/internal/source"
)

// ErrRootNotFound is returned when the root header is not among the inputs.
var ErrRootNotFound = errors.New("root header not found")

// ParseError is a malformed include directive; see include.ParseError.
type ParseError = include.ParseError

// ResolutionError reports an internal include naming a file that was not loaded.
type ResolutionError struct {
	Pos  source.Pos // the include directive
	Name string     // header named by the directive
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s: internal include %q does not name a known file", e.Pos, e.Name)
}
