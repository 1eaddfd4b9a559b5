// Package banner renders the preamble of a merged file: a short header with
// version and git information followed by the license and authors text.
// The merge engine treats these lines as opaque.
package banner

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Version is a numeric version encoded as major*10000 + minor*100 + patch.
type Version uint32

func (v Version) Major() uint32 { return uint32(v) / 10000 }
func (v Version) Minor() uint32 { return uint32(v) / 100 % 100 }
func (v Version) Patch() uint32 { return uint32(v) % 100 }

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}

// ParseVersion accepts either the numeric form ("10203") or a dotted
// triple ("1.2.3").
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty version")
	}
	if !strings.Contains(s, ".") {
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid version %q: %w", s, err)
		}
		return Version(n), nil
	}
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid version %q (expected major.minor.patch)", s)
	}
	var nums [3]uint64
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid version %q: %w", s, err)
		}
		if i > 0 && n > 99 {
			return 0, fmt.Errorf("invalid version %q: component %d out of range", s, n)
		}
		nums[i] = n
	}
	return Version(nums[0]*10000 + nums[1]*100 + nums[2]), nil
}

// Info is everything the preamble needs.
type Info struct {
	Project     string // e.g. "Duktape"
	Version     Version
	GitCommit   string
	GitDescribe string

	LicenseName string // heading of the license block, e.g. "LICENSE.txt"
	License     []string
	AuthorsName string // heading of the authors block, e.g. "AUTHORS.rst"
	Authors     []string
}

// Lines renders the preamble. A text block whose name is empty is omitted.
func (i Info) Lines() []string {
	out := []string{
		"/*",
		fmt.Sprintf(" *  Single file autogenerated distributable for %s %s.", i.Project, i.Version),
		fmt.Sprintf(" *  Git commit %s (%s).", i.GitCommit, i.GitDescribe),
		" *",
	}
	if i.AuthorsName != "" || i.LicenseName != "" {
		out = append(out,
			fmt.Sprintf(" *  See %s %s for copyright and", i.Project, seeAlso(i.AuthorsName, i.LicenseName)),
			" *  licensing information.",
		)
	}
	out = append(out, " */", "")

	if i.LicenseName != "" {
		out = append(out, fmt.Sprintf("/* %s */", i.LicenseName))
		out = append(out, i.License...)
	}
	if i.AuthorsName != "" {
		out = append(out, fmt.Sprintf("/* %s */", i.AuthorsName))
		out = append(out, i.Authors...)
	}
	return out
}

func seeAlso(authors, license string) string {
	switch {
	case authors != "" && license != "":
		return authors + " and " + license
	case authors != "":
		return authors
	default:
		return license
	}
}

// ReadText reads a text file and returns its lines with surrounding
// whitespace trimmed.
func ReadText(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}
