package include

import (
	"regexp"
	"strings"

	"amalgam/internal/source"
)

// Marker is the text every include directive line starts with.
const Marker = "#include"

// DefaultPrefix is the naming convention of internal headers.
const DefaultPrefix = "duk"

// Kind is the directive variant.
type Kind uint8

const (
	KindExternal Kind = iota + 1 // #include <name>
	KindInternal                 // #include "prefix..."
)

func (k Kind) String() string {
	switch k {
	case KindExternal:
		return "external"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Directive is a recognized include line.
type Directive struct {
	Kind Kind
	Name string
	Pos  source.Pos
}

type variant struct {
	kind Kind
	re   *regexp.Regexp
}

var externalRe = regexp.MustCompile(`^#include <(.*?)>.*$`)

// Classifier holds the closed set of directive recognizers for one naming
// convention. It has no mutable state and may be shared.
type Classifier struct {
	prefix   string
	variants [2]variant
}

// NewClassifier returns a classifier treating quoted includes whose name
// starts with prefix as internal.
func NewClassifier(prefix string) *Classifier {
	internalRe := regexp.MustCompile(`^#include "(` + regexp.QuoteMeta(prefix) + `.*?)".*$`)
	return &Classifier{
		prefix: prefix,
		variants: [2]variant{
			{kind: KindExternal, re: externalRe},
			{kind: KindInternal, re: internalRe},
		},
	}
}

// Prefix returns the internal naming convention.
func (c *Classifier) Prefix() string {
	return c.prefix
}

// IsDirective reports whether text looks like an include directive at all.
func IsDirective(text string) bool {
	return strings.HasPrefix(text, Marker)
}

// Match tries every variant in order and returns the first match.
// A line that starts with Marker but matches no variant is not a valid
// directive; Classify turns it into a *ParseError.
func (c *Classifier) Match(line source.Line) (Directive, bool) {
	for _, v := range c.variants {
		if m := v.re.FindStringSubmatch(line.Text); m != nil {
			return Directive{Kind: v.kind, Name: m[1], Pos: line.Pos()}, true
		}
	}
	return Directive{}, false
}

// Internal returns the header name when line is an internal include.
func (c *Classifier) Internal(line source.Line) (string, bool) {
	m := c.variants[1].re.FindStringSubmatch(line.Text)
	if m == nil {
		return "", false
	}
	return m[1], true
}
