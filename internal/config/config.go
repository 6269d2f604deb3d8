// Package config holds the settings the tracking core reads. The
// values are owned by the embedding application; they can come from a
// YAML file, from the environment, or be built in code. The same
// structure round-trips inside graph exports as the settings block.
package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	// Exclude patterns are substring-matched against the full identity
	// string (declaring file + name), so excluding a file path excludes
	// every function in that file.
	Exclude []string `json:"exclude,omitempty" yaml:"exclude" env:"FLOWTRACE_EXCLUDE" env-separator:","`

	// ReduceOverhead enables discounting the calibrated per-read cost
	// of the time source from measured durations. OverheadMean is the
	// calibrated scalar; zero means not calibrated yet. In YAML it is
	// a nanosecond count, in the environment a Go duration string.
	ReduceOverhead bool          `json:"reduce_overhead,omitempty" yaml:"reduce_overhead" env:"FLOWTRACE_REDUCE_OVERHEAD"`
	OverheadMean   time.Duration `json:"overhead_mean,omitempty" yaml:"overhead_mean" env:"FLOWTRACE_OVERHEAD_MEAN"`

	// VerifyThreshold is the maximum tolerated relative deviation per
	// function when verifying a run against a baseline.
	VerifyThreshold float64 `json:"verify_threshold,omitempty" yaml:"verify_threshold" env:"FLOWTRACE_VERIFY_THRESHOLD" env-default:"0.1"`

	// StrictLoad turns unresolved child references in a loaded graph
	// into an error instead of a warning.
	StrictLoad bool `json:"strict_load,omitempty" yaml:"strict_load" env:"FLOWTRACE_STRICT_LOAD"`

	// Rendering options, consumed by renderers only.
	GraphTitle    string `json:"graph_title,omitempty" yaml:"graph_title" env:"FLOWTRACE_GRAPH_TITLE" env-default:"flowtrace"`
	ShowFileName  bool   `json:"show_file_name,omitempty" yaml:"show_file_name" env:"FLOWTRACE_SHOW_FILE_NAME"`
	ShowCallCount bool   `json:"show_call_count,omitempty" yaml:"show_call_count" env:"FLOWTRACE_SHOW_CALL_COUNT"`
	ShowAvgTime   bool   `json:"show_avg_time,omitempty" yaml:"show_avg_time" env:"FLOWTRACE_SHOW_AVG_TIME"`
	GroupNodes    bool   `json:"group_nodes,omitempty" yaml:"group_nodes" env:"FLOWTRACE_GROUP_NODES"`
}

// Default returns the configuration used when the host supplies
// nothing.
func Default() Config {
	return Config{
		VerifyThreshold: 0.1,
		GraphTitle:      "flowtrace",
		ShowCallCount:   true,
		GroupNodes:      true,
	}
}

// Load reads a YAML configuration file, with environment variables
// overriding file values.
func Load(path string) (Config, error) {
	c := Default()
	if err := cleanenv.ReadConfig(path, &c); err != nil {
		return c, err
	}
	return c, nil
}

// FromEnv builds a configuration from environment variables alone.
func FromEnv() (Config, error) {
	c := Default()
	if err := cleanenv.ReadEnv(&c); err != nil {
		return c, err
	}
	return c, nil
}
