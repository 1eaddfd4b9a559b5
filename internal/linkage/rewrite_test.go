package linkage

import (
	"testing"

	"amalgam/internal/diag"
	"amalgam/internal/source"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		text   string
		ok     bool
		name   string
		extern bool
	}{
		{"int duk_foo(void);", true, "duk_foo", false},
		{"void duk_bar(duk_context *ctx) {", true, "duk_bar", false},
		{"extern int duk_count;", true, "duk_count", true},
		{"const char *duk_str_x = \"x\";", true, "duk_str_x", false},
		{"struct duk_heap *duk_heap_alloc(void);", true, "duk_heap_alloc", false},
		{"unsigned int a, b;", true, "a", false},
		{"duk_uint8_t duk_table[256] = {", true, "duk_table", false},
		{"static int already;", false, "", false},
		{"typedef int duk_int;", false, "", false},
		{"struct duk_hobject;", false, "", false},
		{"struct duk_hobject {", false, "", false},
		{"foo(bar);", false, "", false},
		{"x = 1;", false, "", false},
		{"  int indented;", false, "", false},
		{"int (*fp)(void);", false, "", false},
		{"return x;", false, "", false},
		{"extern \"C\" {", false, "", false},
		{"label:", false, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			var st scanState
			decl, ok := detect(tokenize(tc.text, &st))
			if ok != tc.ok {
				t.Fatalf("detect ok = %v, want %v", ok, tc.ok)
			}
			if ok && (decl.Name != tc.name || decl.Extern != tc.extern) {
				t.Fatalf("decl = %+v, want name=%q extern=%v", decl, tc.name, tc.extern)
			}
		})
	}
}

func TestRewriteFile(t *testing.T) {
	f := source.NewFileSet().AddVirtual("duk_api.c", []byte(`/* int commented_out(void);
int still_comment(void); */
#define DUK_X(a) \
int in_macro(void);
int duk_public(void);
int duk_private(void) {
int inside_body;
}
extern int duk_counter;
int duk_long(int a,
int b);
`))

	bag := diag.NewBag(0)
	r := New([]string{"duk_public"}, diag.BagReporter{Bag: bag})
	out := r.RewriteFile(f)

	want := []string{
		"/* int commented_out(void);",
		"int still_comment(void); */",
		"#define DUK_X(a) \\",
		"int in_macro(void);",
		"int duk_public(void);",
		"static int duk_private(void) {",
		"int inside_body;",
		"}",
		"static int duk_counter;",
		"static int duk_long(int a,",
		"int b);",
	}
	if len(out.Lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(out.Lines), len(want))
	}
	for i, l := range out.Lines {
		if l.Text != want[i] {
			t.Errorf("line %d = %q, want %q", i+1, l.Text, want[i])
		}
		if l.Num != uint32(i+1) || l.File != "duk_api.c" {
			t.Errorf("line %d lost its origin: %+v", i+1, l)
		}
	}
	if bag.Len() != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", bag.Len())
	}
	if f.Lines[5].Text != "int duk_private(void) {" {
		t.Fatal("input file must not be modified")
	}
}

func TestRewriteFileUnchangedReturnsSame(t *testing.T) {
	f := source.NewFileSet().AddVirtual("a.c", []byte("static int x;\n"))
	if got := New(nil, nil).RewriteFile(f); got != f {
		t.Fatal("expected the same file back when nothing changes")
	}
}
