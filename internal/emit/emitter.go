// Package emit builds the merged output and keeps it traceable to the inputs.
//
// The Emitter inserts a #line marker in front of a line only when that line
// does not directly follow the previously emitted one in the same file, so
// markers appear at real discontinuities only: header boundaries, skipped
// duplicates and file boundaries.
package emit

import (
	"fmt"
	"strings"

	"amalgam/internal/source"
)

// Sink receives merged content. The header expander and the merge driver
// write through it.
type Sink interface {
	// EmitLine appends a line of input, anchoring it when needed.
	EmitLine(l source.Line)
	// EmitText appends a synthetic line that has no origin.
	EmitText(s string)
}

// markerEscaper escapes a file name for a C string literal.
var markerEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// FormatMarker renders the location marker for pos.
func FormatMarker(pos source.Pos) string {
	return fmt.Sprintf("#line %d \"%s\"", pos.Line, markerEscaper.Replace(pos.File))
}

// Stats summarizes what an Emitter produced.
type Stats struct {
	Lines     int // всего строк вывода, включая маркеры
	Markers   int
	Synthetic int
}

// Emitter is the output buffer plus the emission cursor.
// The zero value is not usable; call New.
type Emitter struct {
	lines   []string
	origins []source.Pos // parallel to lines; zero Pos for markers and synthetic lines

	cursor   source.Pos // next position that needs no marker
	anchored bool       // false means the cursor matches nothing

	markers   int
	synthetic int
}

// New returns an empty Emitter whose cursor matches no line.
func New() *Emitter {
	return &Emitter{
		lines:   make([]string, 0, 1024),
		origins: make([]source.Pos, 0, 1024),
	}
}

// EmitLine appends l, preceded by a marker unless l is the immediate
// successor of the previous emitted line.
func (e *Emitter) EmitLine(l source.Line) {
	pos := l.Pos()
	if !e.anchored || pos != e.cursor {
		e.push(FormatMarker(pos), source.Pos{})
		e.markers++
	}
	e.push(l.Text, pos)
	e.cursor = pos.Next()
	e.anchored = true
}

// EmitText appends a synthetic line. The next EmitLine always re-anchors.
func (e *Emitter) EmitText(s string) {
	e.push(s, source.Pos{})
	e.synthetic++
	e.anchored = false
}

// EmitTexts appends several synthetic lines.
func (e *Emitter) EmitTexts(ss ...string) {
	for _, s := range ss {
		e.EmitText(s)
	}
}

func (e *Emitter) push(text string, origin source.Pos) {
	e.lines = append(e.lines, text)
	e.origins = append(e.origins, origin)
}

// Lines returns the emitted lines.
// ВАЖНО: срез общий с Emitter, не модифицируйте его.
func (e *Emitter) Lines() []string {
	return e.lines
}

// Origins returns, for every emitted line, the input position it came from.
// Markers and synthetic lines have a zero Pos.
func (e *Emitter) Origins() []source.Pos {
	return e.origins
}

// Stats returns counters for the emitted content.
func (e *Emitter) Stats() Stats {
	return Stats{Lines: len(e.lines), Markers: e.markers, Synthetic: e.synthetic}
}

// Bytes joins the output with '\n' and terminates it with a trailing newline.
func (e *Emitter) Bytes() []byte {
	var sb strings.Builder
	for _, l := range e.lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	if len(e.lines) == 0 {
		sb.WriteByte('\n')
	}
	return []byte(sb.String())
}
