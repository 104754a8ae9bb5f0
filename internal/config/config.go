// Package config loads cmd/lazylrdemo's optional TOML configuration
// file, in the style of the teacher's own TQW file format: a thin
// struct decoded directly by BurntSushi/toml, with no custom
// unmarshaling logic.
package config

import "github.com/BurntSushi/toml"

// Config overrides cmd/lazylrdemo's default fixture and trace
// settings. Every field is optional; the zero value changes nothing.
type Config struct {
	// Grammar names the fixture to run, overriding -grammar/-g.
	Grammar string `toml:"grammar"`

	// Trace enables the engine's trace sink, logging every interned
	// state, GOTO, and resolved action to the demo's logger.
	Trace bool `toml:"trace"`
}

// Load reads and decodes the TOML document at path.
func Load(path string) (Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}
