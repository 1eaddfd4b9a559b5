package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeManifest(t, root, "")
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, ok, err := FindManifest(nested)
	if err != nil || !ok {
		t.Fatalf("FindManifest = %q, %v, %v", got, ok, err)
	}
	if got != path {
		t.Fatalf("FindManifest = %q, want %q", got, path)
	}
}

func TestFindManifestStopsAtRepository(t *testing.T) {
	outer := t.TempDir()
	writeManifest(t, outer, "")
	repo := filepath.Join(outer, "checkout")
	nested := filepath.Join(repo, "src")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	if path, ok, err := FindManifest(nested); err != nil || ok {
		t.Fatalf("FindManifest = %q, %v, %v; want no manifest past .git", path, ok, err)
	}
	m, ok, err := LoadManifest(nested)
	if err != nil || ok || m != nil {
		t.Fatalf("LoadManifest = %v, %v, %v", m, ok, err)
	}

	// манифест в самом репозитории находится
	path := writeManifest(t, repo, "")
	if got, ok, err := FindManifest(nested); err != nil || !ok || got != path {
		t.Fatalf("FindManifest = %q, %v, %v, want %q", got, ok, err, path)
	}
}

func TestEmptyManifestKeepsDefaults(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[source]
dir = "src"
jobs = 4

[merge]
root = "my_internal.h"
internal_prefix = "my"
keep = ["my_api.h"]
priority = ["my_first.c"]
localize = true
exported = ["my_open"]

[banner]
project = "MyLib"
license = "LICENSE"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	want := Default()
	want.Source.Dir = "src"
	want.Source.Jobs = 4
	want.Merge = MergeConfig{
		Root:           "my_internal.h",
		InternalPrefix: "my",
		Keep:           []string{"my_api.h"},
		Priority:       []string{"my_first.c"},
		Localize:       true,
		Exported:       []string{"my_open"},
	}
	want.Banner = BannerConfig{Project: "MyLib", License: "LICENSE"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[merge\n", "failed to parse TOML"},
		{"unknown key", "[merge]\nroots = \"x.h\"\n", "unknown key merge.roots"},
		{"empty root", "[merge]\nroot = \"\"\n", "[merge].root"},
		{"empty prefix", "[merge]\ninternal_prefix = \" \"\n", "[merge].internal_prefix"},
		{"bad extension", "[source]\nextensions = [\"c\"]\n", "must start with"},
		{"no extensions", "[source]\nextensions = []\n", "[source].extensions"},
		{"negative jobs", "[source]\njobs = -1\n", "[source].jobs"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tc.content)
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want containing %q", err, tc.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	m := &Manifest{Root: filepath.FromSlash("/work/duktape")}
	if got, want := m.Resolve("src/dist"), filepath.Join("/work/duktape", "src", "dist"); got != want {
		t.Fatalf("Resolve = %q, want %q", got, want)
	}
	if got := m.Resolve(""); got != "" {
		t.Fatalf("Resolve(\"\") = %q", got)
	}
	abs := filepath.Join(string(filepath.Separator), "abs")
	if got := m.Resolve(abs); got != abs {
		t.Fatalf("Resolve(abs) = %q", got)
	}
	var nilManifest *Manifest
	if got := nilManifest.Resolve("x"); got != "x" {
		t.Fatalf("nil Resolve = %q", got)
	}
}
