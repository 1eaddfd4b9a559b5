package incgraph

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"amalgam/internal/diag"
	"amalgam/internal/include"
)

func set(files ...include.FileIncludes) *include.Set {
	s := &include.Set{}
	for _, fi := range files {
		s.Add(fi)
	}
	return s
}

func TestBuildIndexIncludesMentions(t *testing.T) {
	idx := BuildIndex([]include.FileIncludes{
		{File: "duk_x.c", Internal: []string{"duktape.h", "duk_a.h"}},
		{File: "duk_a.h"},
	})
	want := []string{"duk_a.h", "duk_x.c", "duktape.h"}
	if diff := cmp.Diff(want, idx.IDToName); diff != "" {
		t.Fatalf("index mismatch (-want +got):\n%s", diff)
	}
	for i, name := range want {
		if id, ok := idx.NameToID[name]; !ok || int(id) != i {
			t.Fatalf("NameToID[%q] = %v, want %d", name, id, i)
		}
	}
}

func TestLevelsAcyclic(t *testing.T) {
	a := Analyze(set(
		include.FileIncludes{File: "l.h"},
		include.FileIncludes{File: "m.h", Internal: []string{"l.h"}},
		include.FileIncludes{File: "r.h", Internal: []string{"m.h", "duktape.h", "l.h"}},
	), nil)

	want := [][]string{{"r.h"}, {"m.h"}, {"l.h"}}
	if diff := cmp.Diff(want, a.Levels()); diff != "" {
		t.Fatalf("levels mismatch (-want +got):\n%s", diff)
	}
	if a.Topo.Cyclic || len(a.Cycles()) != 0 {
		t.Fatalf("unexpected cycle: %v", a.Cycles())
	}
	if diff := cmp.Diff([]string{"l.h", "m.h"}, a.Includes("r.h")); diff != "" {
		t.Fatalf("edges mismatch (-want +got):\n%s", diff)
	}
	if got := a.Includes("nope.h"); got != nil {
		t.Fatalf("Includes(unknown) = %v", got)
	}
}

func TestCyclesReported(t *testing.T) {
	bag := diag.NewBag(0)
	a := Analyze(set(
		include.FileIncludes{File: "duk_a.h", Internal: []string{"duk_b.h"}},
		include.FileIncludes{File: "duk_b.h", Internal: []string{"duk_a.h"}},
		include.FileIncludes{File: "duk_c.h", Internal: []string{"duk_b.h"}},
		include.FileIncludes{File: "duk_internal.h", Internal: []string{"duk_a.h", "duk_c.h"}},
		include.FileIncludes{File: "duk_x.c", Internal: []string{"duk_a.h"}},
	), diag.BagReporter{Bag: bag})

	wantLevels := [][]string{{"duk_internal.h", "duk_x.c"}, {"duk_c.h"}}
	if diff := cmp.Diff(wantLevels, a.Levels()); diff != "" {
		t.Fatalf("levels mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"duk_a.h", "duk_b.h"}, a.Cycles()); diff != "" {
		t.Fatalf("cycles mismatch (-want +got):\n%s", diff)
	}

	if bag.Len() != 2 {
		t.Fatalf("diagnostics = %d, want 2", bag.Len())
	}
	for _, d := range bag.Items() {
		if d.Code != diag.IncCycle || d.Severity != diag.SevInfo {
			t.Fatalf("unexpected diagnostic %+v", d)
		}
	}
}

func TestSelfInclude(t *testing.T) {
	bag := diag.NewBag(0)
	a := Analyze(set(
		include.FileIncludes{File: "s.h", Internal: []string{"s.h"}},
	), diag.BagReporter{Bag: bag})

	if a.Topo.Cyclic {
		t.Fatal("self include must not count as a cycle")
	}
	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.IncSelfInclude {
		t.Fatalf("diagnostics = %+v, want one self include", items)
	}
}
