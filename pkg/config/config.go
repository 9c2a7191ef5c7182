// Package config loads the optional slate.hcl project file.
package config

import (
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/slatelang/slate/pkg/lexer"
	"gitlab.com/tozd/go/errors"
)

// DefaultFilename is the project file name the CLI looks for when no
// --config flag is given.
const DefaultFilename = "slate.hcl"

// Config is the decoded project file.
//
//	source_globs = ["src/**/*.sl"]
//	tab_width    = 8
type Config struct {
	SourceGlobs []string `hcl:"source_globs,optional"`
	TabWidth    int      `hcl:"tab_width,optional"`
}

// Default returns the configuration used when no project file exists.
func Default() *Config {
	return &Config{
		SourceGlobs: []string{"**/*.sl"},
		TabWidth:    lexer.DefaultTabWidth,
	}
}

// Load decodes the project file at path, filling unset fields with
// defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := hclsimple.DecodeFile(path, nil, cfg); err != nil {
		return nil, errors.Errorf("loading config %s: %w", path, err)
	}
	if len(cfg.SourceGlobs) == 0 {
		cfg.SourceGlobs = Default().SourceGlobs
	}
	if cfg.TabWidth <= 0 {
		cfg.TabWidth = Default().TabWidth
	}
	return cfg, nil
}
