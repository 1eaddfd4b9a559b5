package merge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"amalgam/internal/diag"
	"amalgam/internal/include"
	"amalgam/internal/observ"
	"amalgam/internal/order"
	"amalgam/internal/source"
)

type fixture map[string]string

// fileSet registers files in name order, the way ListDir would.
func (fx fixture) fileSet() *source.FileSet {
	names := make([]string, 0, len(fx))
	for name := range fx {
		names = append(names, name)
	}
	slices.Sort(names)
	fs := source.NewFileSet()
	for _, name := range names {
		fs.AddVirtual(name, []byte(fx[name]))
	}
	return fs
}

func (fx fixture) write(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range fx {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func cyclicTree() fixture {
	return fixture{
		"duk_internal.h": "#include <stdio.h>\n#include \"duk_a.h\"\n#include \"duk_c.h\"\nint root;\n",
		"duk_a.h":        "int a;\n#include \"duk_b.h\"\n",
		"duk_b.h":        "int b;\n#include \"duk_a.h\"\n",
		"duk_c.h":        "#include \"duk_b.h\"\nint c;\n",
		"duk_x.c":        "#include <stdio.h>\n#include \"duk_a.h\"\nint x;\n",
	}
}

func TestMergeCyclicTree(t *testing.T) {
	bag := diag.NewBag(0)
	res, err := Merge(context.Background(), cyclicTree().fileSet(), Options{
		Reporter: diag.BagReporter{Bag: bag},
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	want := []string{
		`#line 1 "duk_internal.h"`,
		`#include <stdio.h>`,
		`#line 1 "duk_a.h"`,
		`int a;`,
		`#line 1 "duk_b.h"`,
		`int b;`,
		`/* already included: duk_a.h */`,
		`/* already included: duk_b.h */`,
		`#line 2 "duk_c.h"`,
		`int c;`,
		`#line 4 "duk_internal.h"`,
		`int root;`,
		`#line 1 "duk_x.c"`,
		`#include <stdio.h>`,
		`/* include removed: duk_a.h */`,
		`#line 3 "duk_x.c"`,
		`int x;`,
	}
	if diff := cmp.Diff(want, res.Lines); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if got := string(res.Output); got != strings.Join(want, "\n")+"\n" {
		t.Fatalf("Output bytes do not match lines:\n%s", got)
	}
	if diff := cmp.Diff([]string{"duk_internal.h", "duk_a.h", "duk_b.h", "duk_c.h"}, res.Headers); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"duk_x.c"}, res.Order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"duk_a.h", "duk_b.h"}, res.Graph.Cycles()); diff != "" {
		t.Fatalf("cycles mismatch (-want +got):\n%s", diff)
	}

	warnings := bag.Filter(diag.SevWarning)
	if len(warnings) != 1 || warnings[0].Code != diag.IncStrayInternal {
		t.Fatalf("warnings = %+v, want one stray include", warnings)
	}
	if warnings[0].Pos != (source.Pos{File: "duk_x.c", Line: 2}) {
		t.Fatalf("stray include pos = %v", warnings[0].Pos)
	}
}

func TestHeaderContentAtMostOnce(t *testing.T) {
	res, err := Merge(context.Background(), cyclicTree().fileSet(), Options{})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	seen := make(map[source.Pos]bool)
	for _, origin := range res.Origins {
		if origin == (source.Pos{}) {
			continue
		}
		if seen[origin] {
			t.Fatalf("line %v emitted twice", origin)
		}
		seen[origin] = true
	}
}

func TestExternalIncludesNotDeduplicated(t *testing.T) {
	res, err := Merge(context.Background(), cyclicTree().fileSet(), Options{})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	count := 0
	for _, l := range res.Lines {
		if l == "#include <stdio.h>" {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("external include emitted %d times, want 2", count)
	}
	if diff := cmp.Diff([]string{"stdio.h"}, res.Includes.External); diff != "" {
		t.Fatalf("external set mismatch (-want +got):\n%s", diff)
	}
}

func TestRootIncludedAgain(t *testing.T) {
	fx := fixture{
		"duk_internal.h": "int root;\n#include \"duk_a.h\"\n",
		"duk_a.h":        "#include \"duk_internal.h\"\nint a;\n",
	}
	res, err := Merge(context.Background(), fx.fileSet(), Options{})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	want := []string{
		`#line 1 "duk_internal.h"`,
		`int root;`,
		`/* already included: duk_internal.h */`,
		`#line 2 "duk_a.h"`,
		`int a;`,
	}
	if diff := cmp.Diff(want, res.Lines); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestKeepListEmitsDirective(t *testing.T) {
	fx := fixture{
		"duk_internal.h": "#include \"duktape.h\"\n#include \"duk_custom.h\"\nint root;\n",
		"duktape.h":      "int api;\n",
	}
	bag := diag.NewBag(0)
	res, err := Merge(context.Background(), fx.fileSet(), Options{
		Reporter: diag.BagReporter{Bag: bag},
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	want := []string{
		`#line 1 "duk_internal.h"`,
		`#include "duktape.h"`,
		`#include "duk_custom.h"`,
		`int root;`,
	}
	if diff := cmp.Diff(want, res.Lines); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if bag.HasWarnings() {
		t.Fatalf("kept header must not be reported as unreached: %+v", bag.Items())
	}
}

func TestUnreachedHeaderWarning(t *testing.T) {
	fx := fixture{
		"duk_internal.h": "int root;\n",
		"duk_orphan.h":   "int orphan;\n",
		"duk_x.c":        "int x;\n",
	}
	bag := diag.NewBag(0)
	res, err := Merge(context.Background(), fx.fileSet(), Options{
		Reporter: diag.BagReporter{Bag: bag},
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	for _, l := range res.Lines {
		if l == "int orphan;" {
			t.Fatal("unreached header content must not be emitted")
		}
	}
	warnings := bag.Filter(diag.SevWarning)
	if len(warnings) != 1 || warnings[0].Code != diag.IncUnreachedHeader || warnings[0].Pos.File != "duk_orphan.h" {
		t.Fatalf("warnings = %+v, want one unreached header", warnings)
	}
}

func TestResolutionError(t *testing.T) {
	fx := fixture{
		"duk_internal.h": "#include \"duk_missing.h\"\n",
	}
	_, err := Merge(context.Background(), fx.fileSet(), Options{})
	var re *ResolutionError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want *ResolutionError", err)
	}
	if re.Name != "duk_missing.h" || re.Pos != (source.Pos{File: "duk_internal.h", Line: 1}) {
		t.Fatalf("ResolutionError = %+v", re)
	}
}

func TestMalformedIncludeFailsFast(t *testing.T) {
	fx := fixture{
		"duk_internal.h": "int root;\n",
		"duk_x.c":        "int x;\n#include \"other.h\"\n",
	}
	_, err := Merge(context.Background(), fx.fileSet(), Options{})
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
	if pe.Pos != (source.Pos{File: "duk_x.c", Line: 2}) || pe.Text != `#include "other.h"` {
		t.Fatalf("ParseError = %+v", pe)
	}
	var ipe *include.ParseError
	if !errors.As(err, &ipe) {
		t.Fatal("ParseError must be the include package type")
	}
}

func TestRootNotFound(t *testing.T) {
	fx := fixture{"duk_x.c": "int x;\n"}
	_, err := Merge(context.Background(), fx.fileSet(), Options{})
	if !errors.Is(err, ErrRootNotFound) {
		t.Fatalf("err = %v, want ErrRootNotFound", err)
	}
}

func TestPriorityOrder(t *testing.T) {
	fx := fixture{
		"duk_internal.h": "",
		"b.c":            "int b;\n",
		"a.c":            "int a;\n",
		"z.c":            "int z;\n",
	}
	res, err := Merge(context.Background(), fx.fileSet(), Options{Priority: []string{"z.c"}})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if diff := cmp.Diff([]string{"z.c", "a.c", "b.c"}, res.Order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	_, err = Merge(context.Background(), fx.fileSet(), Options{Priority: []string{"nope.c"}})
	if !errors.Is(err, order.ErrUnknownPriority) {
		t.Fatalf("err = %v, want ErrUnknownPriority", err)
	}
}

func TestBannerThenReanchor(t *testing.T) {
	fx := fixture{"duk_internal.h": "int root;\n"}
	res, err := Merge(context.Background(), fx.fileSet(), Options{
		Banner: []string{"/* banner */", ""},
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	want := "/* banner */\n\n#line 1 \"duk_internal.h\"\nint root;\n"
	if got := string(res.Output); got != want {
		t.Fatalf("Output = %q, want %q", got, want)
	}
}

func TestLocalizePass(t *testing.T) {
	fx := fixture{
		"duk_internal.h": "",
		"duk_x.c":        "int duk_public(void);\nint duk_private(void);\n",
	}
	res, err := Merge(context.Background(), fx.fileSet(), Options{
		Localize: true,
		Exported: []string{"duk_public"},
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	want := []string{
		`#line 1 "duk_x.c"`,
		`int duk_public(void);`,
		`static int duk_private(void);`,
	}
	if diff := cmp.Diff(want, res.Lines); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunDeterministic(t *testing.T) {
	dir := cyclicTree().write(t)

	first, err := Run(context.Background(), Options{Dir: dir, Jobs: 1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, jobs := range []int{1, 4} {
		again, err := Run(context.Background(), Options{Dir: dir, Jobs: jobs})
		if err != nil {
			t.Fatalf("Run(jobs=%d): %v", jobs, err)
		}
		if string(again.Output) != string(first.Output) {
			t.Fatalf("output differs between runs (jobs=%d)", jobs)
		}
	}
	if first.Files != 5 {
		t.Fatalf("Files = %d, want 5", first.Files)
	}
}

func TestRunIgnoresOtherExtensions(t *testing.T) {
	fx := cyclicTree()
	fx["README.txt"] = "#include garbage\n"
	dir := fx.write(t)

	if _, err := Run(context.Background(), Options{Dir: dir}); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunRecordsPhases(t *testing.T) {
	dir := cyclicTree().write(t)
	timer := observ.NewTimer()
	if _, err := Run(context.Background(), Options{Dir: dir, Timer: timer}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	var names []string
	for _, p := range timer.Phases() {
		names = append(names, p.Name)
	}
	if diff := cmp.Diff([]string{"load", "classify", "expand", "bodies"}, names); diff != "" {
		t.Fatalf("phases mismatch (-want +got):\n%s", diff)
	}
}

func TestFailedRunWritesNothing(t *testing.T) {
	fx := cyclicTree()
	fx["duk_y.c"] = "#include \"broken\n"
	dir := fx.write(t)
	out := filepath.Join(t.TempDir(), "duktape.c")

	res, err := Run(context.Background(), Options{Dir: dir})
	if err == nil {
		t.Fatal("expected parse error")
	}
	if res != nil {
		if err := WriteFiles(Output{Path: out, Data: res.Output}); err != nil {
			t.Fatal(err)
		}
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Fatalf("output must not exist after a failed run: %v", statErr)
	}
}
