package source

import (
	"fmt"
	"path/filepath"
)

// FileFlags encodes metadata about a source file.
type FileFlags uint8 // метаданные

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	FileHadBOM
	FileNormalizedCRLF
)

// Pos identifies an origin line: file base name and 1-based line number.
type Pos struct {
	File string
	Line uint32 // 1-based
}

// String renders file:line, or just the file for file-level positions (Line 0).
func (p Pos) String() string {
	if p.Line == 0 {
		return p.File
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// Next returns the position of the line that directly follows p.
func (p Pos) Next() Pos {
	return Pos{File: p.File, Line: p.Line + 1}
}

// Line is a single line of input with its origin. Lines are never split or
// merged, and a Line is not modified after it has been created.
type Line struct {
	File string // base name of the origin file
	Num  uint32 // 1-based
	Text string // без завершающего \n
}

// Pos returns the origin of the line.
func (l Line) Pos() Pos {
	return Pos{File: l.File, Line: l.Num}
}

// File captures identity and content of a single input file.
//
// Identity is the base name: two files with the same base name in different
// directories are the same file for the merge. The input tree is expected to
// keep base names unique.
type File struct {
	Name  string // base name
	Path  string // full path, used for loading and messages
	Lines []Line
	Hash  [32]byte
	Flags FileFlags
}

// Ext returns the file extension including the leading dot.
func (f *File) Ext() string {
	return filepath.Ext(f.Name)
}

// IsHeader reports whether the file is a header (.h).
func (f *File) IsHeader() bool {
	return f.Ext() == ".h"
}

// WithLines returns a copy of f whose lines are replaced by lines.
// The receiver is left untouched.
func (f *File) WithLines(lines []Line) *File {
	out := *f
	out.Lines = lines
	return &out
}
