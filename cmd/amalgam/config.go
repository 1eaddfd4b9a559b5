package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"amalgam/internal/project"
)

// settings are the effective amalgam.toml values before flag overrides.
type settings struct {
	manifest *project.Manifest // nil without amalgam.toml
	cfg      project.Config
}

// loadSettings reads --config or, when it is empty, the nearest amalgam.toml.
// Without a manifest the built-in defaults are used.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	var manifest *project.Manifest
	if configPath != "" {
		manifest, err = project.ReadManifest(configPath)
		if err != nil {
			return nil, err
		}
	} else {
		var ok bool
		manifest, ok, err = project.LoadManifest(".")
		if err != nil {
			return nil, err
		}
		if !ok {
			return &settings{cfg: project.Default()}, nil
		}
	}
	return &settings{manifest: manifest, cfg: manifest.Config}, nil
}

// sourceDir picks the positional directory when given, [source].dir otherwise.
func (s *settings) sourceDir(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if s.cfg.Source.Dir == "" {
		return "", fmt.Errorf("no source directory: pass one or set [source].dir in %s", project.ManifestName)
	}
	return s.manifest.Resolve(s.cfg.Source.Dir), nil
}

// resolve interprets a path taken from the manifest.
func (s *settings) resolve(p string) string {
	return s.manifest.Resolve(p)
}

func overrideString(cmd *cobra.Command, name string, dst *string) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	*dst = v
	return nil
}

func overrideStrings(cmd *cobra.Command, name string, dst *[]string) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		return fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	*dst = v
	return nil
}

func overrideBool(cmd *cobra.Command, name string, dst *bool) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	*dst = v
	return nil
}

func overrideInt(cmd *cobra.Command, name string, dst *int) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	*dst = v
	return nil
}

// registerMergeFlags adds the flags that override [source] and [merge].
func registerMergeFlags(cmd *cobra.Command) {
	cmd.Flags().String("root", "", "root header (default duk_internal.h)")
	cmd.Flags().String("prefix", "", "internal include prefix (default duk)")
	cmd.Flags().StringSlice("keep", nil, "headers whose include directives are kept as is")
	cmd.Flags().StringSlice("priority", nil, "body files emitted first, in order")
	cmd.Flags().StringSlice("extensions", nil, "file extensions to load (default .c,.h)")
}

// applyMergeFlags overrides cfg with the flags set on cmd.
func applyMergeFlags(cmd *cobra.Command, cfg *project.Config) error {
	if err := overrideString(cmd, "root", &cfg.Merge.Root); err != nil {
		return err
	}
	if err := overrideString(cmd, "prefix", &cfg.Merge.InternalPrefix); err != nil {
		return err
	}
	if err := overrideStrings(cmd, "keep", &cfg.Merge.Keep); err != nil {
		return err
	}
	if err := overrideStrings(cmd, "priority", &cfg.Merge.Priority); err != nil {
		return err
	}
	return overrideStrings(cmd, "extensions", &cfg.Source.Extensions)
}
