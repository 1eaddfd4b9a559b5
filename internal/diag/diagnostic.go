package diag

import (
	"fmt"

	"amalgam/internal/source"
)

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Pos      source.Pos
}

// Format renders d as a single line: <file>:<line>: <SEV> <ID>: <message>.
// A diagnostic without a position omits the location prefix.
func (d Diagnostic) Format() string {
	if d.Pos.File == "" {
		return fmt.Sprintf("%s %s: %s", d.Severity, d.Code.ID(), d.Message)
	}
	return fmt.Sprintf("%s: %s %s: %s", d.Pos, d.Severity, d.Code.ID(), d.Message)
}
