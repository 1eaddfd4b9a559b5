// Package sourcemap persists the origin of every line of a merged output so
// that positions in the output can be mapped back to the input tree.
package sourcemap

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"amalgam/internal/source"
)

// Current schema version - increment when Map format changes
const schemaVersion uint16 = 1

// ErrSchema is returned when a map was written by an incompatible version.
var ErrSchema = errors.New("unsupported source map schema")

// Run maps Count consecutive output lines starting at Out to consecutive
// input lines starting at File:Line.
type Run struct {
	Out   uint32
	File  string
	Line  uint32
	Count uint32
}

// Map is the persisted form of an emitter origin map.
type Map struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Output string   // base name of the merged file
	Digest [32]byte // sha256 of the merged content
	Lines  uint32   // total output lines
	Runs   []Run    // sorted by Out, non-overlapping
}

// Build compresses origins, one per output line, into runs. Zero origins
// (markers, banner, placeholders) are not mapped.
func Build(output string, content []byte, origins []source.Pos) (*Map, error) {
	total, err := safecast.Conv[uint32](len(origins))
	if err != nil {
		return nil, fmt.Errorf("too many output lines: %w", err)
	}
	m := &Map{
		Schema: schemaVersion,
		Output: output,
		Digest: sha256.Sum256(content),
		Lines:  total,
	}
	for i, origin := range origins {
		if origin == (source.Pos{}) {
			continue
		}
		out := uint32(i) + 1 // i < total
		if n := len(m.Runs); n > 0 {
			last := &m.Runs[n-1]
			if last.File == origin.File &&
				last.Out+last.Count == out &&
				last.Line+last.Count == origin.Line {
				last.Count++
				continue
			}
		}
		m.Runs = append(m.Runs, Run{Out: out, File: origin.File, Line: origin.Line, Count: 1})
	}
	return m, nil
}

// Lookup returns the input position of the 1-based output line.
// Markers and synthetic lines have no origin.
func (m *Map) Lookup(out uint32) (source.Pos, bool) {
	i := sort.Search(len(m.Runs), func(i int) bool {
		r := m.Runs[i]
		return r.Out+r.Count > out
	})
	if i == len(m.Runs) || m.Runs[i].Out > out {
		return source.Pos{}, false
	}
	r := m.Runs[i]
	return source.Pos{File: r.File, Line: r.Line + (out - r.Out)}, true
}

// Matches reports whether content is the output this map was built for.
func (m *Map) Matches(content []byte) bool {
	return m.Digest == sha256.Sum256(content)
}

// Encode writes m as msgpack.
func (m *Map) Encode(w io.Writer) error {
	return msgpack.NewEncoder(w).Encode(m)
}

// Marshal returns the msgpack encoding of m.
func (m *Map) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a map written by Encode.
func Decode(r io.Reader) (*Map, error) {
	var m Map
	if err := msgpack.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode source map: %w", err)
	}
	if m.Schema != schemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrSchema, m.Schema)
	}
	return &m, nil
}

// Load reads a map from path.
func Load(path string) (m *Map, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return Decode(f)
}
