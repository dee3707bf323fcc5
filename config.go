package qdx

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional file-backed configuration layer described in §12.
// It only ever supplies *defaults*: CLI flags always win over the config
// file, which always wins over these zero values, mirroring the teacher's
// own "o *Options; if o != nil { ... }" precedence in Encode (writer.go).
type Config struct {
	LayerHeight int        `yaml:"layer_height"`
	LogFormat   string     `yaml:"log_format"` // "console" or "json"
	LogFile     string     `yaml:"log_file"`
	Geometry    *Geometry  `yaml:"geometry"`
}

// Geometry overrides the Galaxy 1 canvas profile. Present so a config file
// can be explicit about the profile it targets; LoadConfig rejects any
// value that does not match the hard-coded Galaxy 1 constants, per spec.md's
// Non-goal "support for canvas sizes other than the documented Galaxy 1
// geometry" — this is validated, not silently accepted.
type Geometry struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// LoadConfig reads and validates a qdx.yaml-shaped config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "load config", Err: err}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("qdx: parse config %s: %w", path, err)
	}
	if cfg.Geometry != nil && (cfg.Geometry.X != X || cfg.Geometry.Y != Y) {
		return nil, fmt.Errorf("qdx: config %s requests canvas %dx%d, only the Galaxy 1 profile (%dx%d) is supported",
			path, cfg.Geometry.X, cfg.Geometry.Y, X, Y)
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
	}
	return &cfg, nil
}
