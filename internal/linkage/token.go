package linkage

import "strings"

// tokKind is the coarse class of a C token; only what declaration
// detection needs is distinguished.
type tokKind uint8

const (
	tokIdent tokKind = iota + 1
	tokNumber
	tokString
	tokPunct
)

type token struct {
	kind tokKind
	text string
	off  int // byte offset in the line
}

// scanState carries lexical context between lines.
type scanState struct {
	inComment  bool // внутри /* ... */
	continued  bool // предыдущая строка закончилась на '\'
	braceDepth int
	parenDepth int
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

// tokenize splits one line into tokens, skipping comments and updating st.
// Preprocessor lines and their continuations produce no tokens.
func tokenize(line string, st *scanState) []token {
	wasContinued := st.continued
	st.continued = len(line) > 0 && line[len(line)-1] == '\\'
	if wasContinued {
		return nil
	}

	var toks []token
	i := 0
	if !st.inComment {
		j := 0
		for j < len(line) && (line[j] == ' ' || line[j] == '\t') {
			j++
		}
		if j < len(line) && line[j] == '#' {
			return nil
		}
	}
	for i < len(line) {
		if st.inComment {
			end := strings.Index(line[i:], "*/")
			if end < 0 {
				return toks
			}
			st.inComment = false
			i += end + 2
			continue
		}
		c := line[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			i++
		case c == '/' && i+1 < len(line) && line[i+1] == '/':
			return toks
		case c == '/' && i+1 < len(line) && line[i+1] == '*':
			st.inComment = true
			i += 2
		case isIdentStart(c):
			j := i + 1
			for j < len(line) && isIdentPart(line[j]) {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: line[i:j], off: i})
			i = j
		case c >= '0' && c <= '9':
			j := i + 1
			for j < len(line) && (isIdentPart(line[j]) || line[j] == '.') {
				j++
			}
			toks = append(toks, token{kind: tokNumber, text: line[i:j], off: i})
			i = j
		case c == '"' || c == '\'':
			j := i + 1
			for j < len(line) && line[j] != c {
				if line[j] == '\\' {
					j++
				}
				j++
			}
			if j > len(line) {
				j = len(line)
			} else if j < len(line) {
				j++
			}
			toks = append(toks, token{kind: tokString, text: line[i:j], off: i})
			i = j
		default:
			switch c {
			case '{':
				st.braceDepth++
			case '}':
				if st.braceDepth > 0 {
					st.braceDepth--
				}
			case '(':
				st.parenDepth++
			case ')':
				if st.parenDepth > 0 {
					st.parenDepth--
				}
			}
			toks = append(toks, token{kind: tokPunct, text: line[i : i+1], off: i})
			i++
		}
	}
	return toks
}
