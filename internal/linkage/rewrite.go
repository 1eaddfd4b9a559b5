// Package linkage rewrites top-level declarations to file-local linkage.
//
// In a single translation unit every symbol that is not part of the public
// API can be static. Rewriter recognizes declarations structurally on a
// token stream instead of matching line prefixes: a candidate line starts at
// file scope, holds at least one type token before the declared name, and the
// name is followed by '(', ';', '=', '[' or ','.
//
// The pass is off unless enabled in the configuration.
package linkage

import (
	"fmt"
	"strings"

	"amalgam/internal/diag"
	"amalgam/internal/source"
)

// storage classes and statements that never start a rewritable declaration
var stopWords = map[string]struct{}{
	"static": {}, "typedef": {}, "return": {}, "if": {}, "else": {}, "while": {},
	"for": {}, "do": {}, "switch": {}, "case": {}, "default": {}, "goto": {},
	"break": {}, "continue": {}, "sizeof": {}, "register": {}, "auto": {},
}

// tag keywords whose following identifier is part of the type
var tagWords = map[string]struct{}{
	"struct": {}, "union": {}, "enum": {},
}

// Rewriter holds the set of exported symbols. It is stateless between files.
type Rewriter struct {
	exported map[string]struct{}
	reporter diag.Reporter
}

// New returns a Rewriter keeping exported symbols public.
func New(exported []string, r diag.Reporter) *Rewriter {
	set := make(map[string]struct{}, len(exported))
	for _, name := range exported {
		set[name] = struct{}{}
	}
	if r == nil {
		r = diag.NopReporter{}
	}
	return &Rewriter{exported: set, reporter: r}
}

// Decl describes a recognized declaration.
type Decl struct {
	Name   string
	Extern bool
}

// detect checks whether toks form the head of a file-scope declaration.
func detect(toks []token) (Decl, bool) {
	if len(toks) < 2 || toks[0].kind != tokIdent || toks[0].off != 0 {
		return Decl{}, false
	}
	if _, stop := stopWords[toks[0].text]; stop {
		return Decl{}, false
	}

	i := 0
	decl := Decl{}
	if toks[0].text == "extern" {
		decl.Extern = true
		i++
		// extern "C" { ... }
		if i < len(toks) && toks[i].kind == tokString {
			return Decl{}, false
		}
	}

	typeToks := 0
	lastIdent := -1
	for ; i < len(toks); i++ {
		t := toks[i]
		if t.kind == tokIdent {
			if _, stop := stopWords[t.text]; stop {
				return Decl{}, false
			}
			if lastIdent >= 0 {
				typeToks++
			}
			lastIdent = i
			if _, tag := tagWords[t.text]; tag && i+1 < len(toks) && toks[i+1].kind == tokIdent {
				// "struct foo" counts as a single type token
				i++
				lastIdent = i
			}
			continue
		}
		if t.kind == tokPunct && t.text == "*" {
			if lastIdent >= 0 {
				typeToks++
				lastIdent = -1
			}
			continue
		}
		break
	}
	if i >= len(toks) || lastIdent < 0 || lastIdent != i-1 || typeToks == 0 {
		return Decl{}, false
	}
	switch toks[i].text {
	case "(", ";", "=", "[", ",":
	default:
		return Decl{}, false
	}
	decl.Name = toks[lastIdent].text
	return decl, true
}

// line rewrites a single line when it is a non-exported declaration.
// It returns the new text, the declaration and whether anything changed.
func (r *Rewriter) line(text string, st *scanState) (string, Decl, bool) {
	topLevel := !st.inComment && !st.continued && st.braceDepth == 0 && st.parenDepth == 0
	toks := tokenize(text, st)
	if !topLevel {
		return text, Decl{}, false
	}
	decl, ok := detect(toks)
	if !ok {
		return text, Decl{}, false
	}
	if _, pub := r.exported[decl.Name]; pub {
		return text, decl, false
	}
	if decl.Extern {
		return "static" + strings.TrimPrefix(text, "extern"), decl, true
	}
	return "static " + text, decl, true
}

// RewriteFile returns f with non-exported file-scope declarations made
// static. When nothing changes, f itself is returned.
func (r *Rewriter) RewriteFile(f *source.File) *source.File {
	var st scanState
	var out []source.Line
	for i, l := range f.Lines {
		text, decl, changed := r.line(l.Text, &st)
		if !changed {
			continue
		}
		if out == nil {
			out = make([]source.Line, len(f.Lines))
			copy(out, f.Lines)
		}
		out[i] = source.Line{File: l.File, Num: l.Num, Text: text}
		r.reporter.Report(diag.LinkLocalized, diag.SevInfo, l.Pos(), fmt.Sprintf("%q made static", decl.Name))
	}
	if out == nil {
		return f
	}
	return f.WithLines(out)
}
