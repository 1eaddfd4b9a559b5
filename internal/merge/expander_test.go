package merge

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"amalgam/internal/emit"
	"amalgam/internal/include"
)

func TestSeededHeaderGetsPlaceholder(t *testing.T) {
	fx := fixture{
		"duk_internal.h": "#include \"duk_a.h\"\n#include \"duk_b.h\"\nint root;\n",
		"duk_a.h":        "int a;\n",
		"duk_b.h":        "int b;\n",
	}
	fs := fx.fileSet()
	root, _ := fs.Lookup("duk_internal.h")

	out := emit.New()
	x := NewExpander(fs, include.NewClassifier("duk"), nil, out, nil)
	x.Seed("duk_a.h")
	if err := x.Expand(root); err != nil {
		t.Fatalf("Expand: %v", err)
	}

	want := []string{
		`/* already included: duk_a.h */`,
		`#line 1 "duk_b.h"`,
		`int b;`,
		`#line 3 "duk_internal.h"`,
		`int root;`,
	}
	if diff := cmp.Diff(want, out.Lines()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	// посеянный заголовок не попадает в порядок развёртки
	if diff := cmp.Diff([]string{"duk_internal.h", "duk_b.h"}, x.Flattened()); diff != "" {
		t.Fatalf("flattened mismatch (-want +got):\n%s", diff)
	}
	if !x.Processed("duk_a.h") {
		t.Fatal("seeded header must count as processed")
	}
}

func TestSeededRootIsNotExpanded(t *testing.T) {
	fx := fixture{"duk_internal.h": "int root;\n"}
	fs := fx.fileSet()
	root, _ := fs.Lookup("duk_internal.h")

	out := emit.New()
	x := NewExpander(fs, include.NewClassifier("duk"), nil, out, nil)
	x.Seed(root.Name)
	if err := x.Expand(root); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if diff := cmp.Diff([]string{`/* already included: duk_internal.h */`}, out.Lines()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}
