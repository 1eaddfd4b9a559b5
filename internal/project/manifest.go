package project

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"amalgam/internal/include"
	"amalgam/internal/merge"
	"amalgam/internal/order"
	"amalgam/internal/source"
)

// Manifest is a decoded amalgam.toml together with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors amalgam.toml. Keys missing from the file keep the values
// from Default.
type Config struct {
	Source SourceConfig `toml:"source"`
	Merge  MergeConfig  `toml:"merge"`
	Banner BannerConfig `toml:"banner"`
}

type SourceConfig struct {
	Dir        string   `toml:"dir"`
	Extensions []string `toml:"extensions"`
	Normalize  bool     `toml:"normalize"`
	Jobs       int      `toml:"jobs"`
}

type MergeConfig struct {
	Root           string   `toml:"root"`
	InternalPrefix string   `toml:"internal_prefix"`
	Keep           []string `toml:"keep"`
	Priority       []string `toml:"priority"`
	Localize       bool     `toml:"localize"`
	Exported       []string `toml:"exported"`
}

type BannerConfig struct {
	Project string `toml:"project"`
	License string `toml:"license"`
	Authors string `toml:"authors"`
}

// Default returns the settings used to build Duktape.
func Default() Config {
	return Config{
		Source: SourceConfig{
			Extensions: slices.Clone(source.DefaultExtensions),
			Jobs:       1,
		},
		Merge: MergeConfig{
			Root:           merge.DefaultRoot,
			InternalPrefix: include.DefaultPrefix,
			Keep:           slices.Clone(merge.DefaultKeep),
			Priority:       slices.Clone(order.DefaultPriority),
		},
		Banner: BannerConfig{
			Project: "Duktape",
		},
	}
}

// LoadManifest finds amalgam.toml above startDir and decodes it.
// ok is false when there is no manifest.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := ReadManifest(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// ReadManifest decodes the manifest at path.
func ReadManifest(path string) (*Manifest, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, nil
}

// LoadConfig decodes path on top of Default and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if meta.IsDefined("merge", "root") && strings.TrimSpace(cfg.Merge.Root) == "" {
		return Config{}, fmt.Errorf("%s: [merge].root must not be empty", path)
	}
	if meta.IsDefined("merge", "internal_prefix") && strings.TrimSpace(cfg.Merge.InternalPrefix) == "" {
		return Config{}, fmt.Errorf("%s: [merge].internal_prefix must not be empty", path)
	}
	if meta.IsDefined("source", "extensions") {
		if len(cfg.Source.Extensions) == 0 {
			return Config{}, fmt.Errorf("%s: [source].extensions must not be empty", path)
		}
		for _, ext := range cfg.Source.Extensions {
			if !strings.HasPrefix(ext, ".") {
				return Config{}, fmt.Errorf("%s: [source].extensions: %q must start with '.'", path, ext)
			}
		}
	}
	if cfg.Source.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [source].jobs must not be negative", path)
	}
	return cfg, nil
}

// Resolve interprets p relative to the manifest directory.
// Empty and absolute paths are returned unchanged.
func (m *Manifest) Resolve(p string) string {
	if m == nil || p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, filepath.FromSlash(p))
}
