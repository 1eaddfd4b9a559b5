package diag

import (
	"testing"

	"amalgam/internal/source"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	r := BagReporter{Bag: b}
	r.Report(IncStrayInternal, SevWarning, source.Pos{File: "a.c", Line: 1}, "one")
	r.Report(IncStrayInternal, SevWarning, source.Pos{File: "a.c", Line: 2}, "two")
	r.Report(IncStrayInternal, SevWarning, source.Pos{File: "a.c", Line: 3}, "three")

	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}
	if !b.HasWarnings() || b.HasErrors() {
		t.Fatalf("unexpected severity summary: warnings=%v errors=%v", b.HasWarnings(), b.HasErrors())
	}
}

func TestBagSortIsDeterministic(t *testing.T) {
	b := NewBag(0)
	b.Add(Diagnostic{Severity: SevInfo, Code: LinkLocalized, Pos: source.Pos{File: "b.c", Line: 1}})
	b.Add(Diagnostic{Severity: SevWarning, Code: IncStrayInternal, Pos: source.Pos{File: "a.c", Line: 9}})
	b.Add(Diagnostic{Severity: SevInfo, Code: IncAlreadyIncluded, Pos: source.Pos{File: "a.c", Line: 2}})
	b.Add(Diagnostic{Severity: SevWarning, Code: IncStrayInternal, Pos: source.Pos{File: "a.c", Line: 2}})
	b.Sort()

	want := []string{"a.c:2 WARNING", "a.c:2 INFO", "a.c:9 WARNING", "b.c:1 INFO"}
	for i, d := range b.Items() {
		got := d.Pos.String() + " " + d.Severity.String()
		if got != want[i] {
			t.Fatalf("item %d = %q, want %q", i, got, want[i])
		}
	}
}

func TestFilter(t *testing.T) {
	b := NewBag(0)
	b.Add(Diagnostic{Severity: SevInfo})
	b.Add(Diagnostic{Severity: SevWarning})
	b.Add(Diagnostic{Severity: SevError})
	if got := len(b.Filter(SevWarning)); got != 2 {
		t.Fatalf("Filter(SevWarning) = %d items, want 2", got)
	}
}

func TestFormat(t *testing.T) {
	d := Diagnostic{
		Severity: SevWarning,
		Code:     IncStrayInternal,
		Message:  `include removed: "duk_foo.h"`,
		Pos:      source.Pos{File: "duk_api.c", Line: 12},
	}
	want := `duk_api.c:12: WARNING INC1001: include removed: "duk_foo.h"`
	if got := d.Format(); got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}

	d.Pos = source.Pos{}
	if got := d.Format(); got != `WARNING INC1001: include removed: "duk_foo.h"` {
		t.Fatalf("Format() without pos = %q", got)
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		IncStrayInternal: "INC1001",
		LinkLocalized:    "LNK2001",
		IOEmptyFile:      "IO4001",
		UnknownCode:      "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
}

func TestParseSeverity(t *testing.T) {
	for _, sev := range []Severity{SevInfo, SevWarning, SevError} {
		got, err := ParseSeverity(" " + sev.String() + " ")
		if err != nil || got != sev {
			t.Fatalf("ParseSeverity(%q) = %v, %v", sev.String(), got, err)
		}
	}
	if got, err := ParseSeverity("warning"); err != nil || got != SevWarning {
		t.Fatalf("lower case: %v, %v", got, err)
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Fatal("expected error for unknown severity")
	}
	if Severity(9).String() != "UNKNOWN" {
		t.Fatal("out of range severity must render as UNKNOWN")
	}
}
