package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.VerifyThreshold != 0.1 {
		t.Errorf("verify threshold: got %v, want 0.1", c.VerifyThreshold)
	}
	if c.ReduceOverhead || c.OverheadMean != 0 {
		t.Error("overhead reduction must default to off")
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowtrace.yaml")
	content := `
exclude:
  - bank.go
  - vendor/
reduce_overhead: true
overhead_mean: 120
verify_threshold: 0.25
graph_title: bank run
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Exclude) != 2 || c.Exclude[0] != "bank.go" {
		t.Errorf("exclude: got %v", c.Exclude)
	}
	if !c.ReduceOverhead || c.OverheadMean != 120*time.Nanosecond {
		t.Errorf("overhead: got %v/%v", c.ReduceOverhead, c.OverheadMean)
	}
	if c.VerifyThreshold != 0.25 {
		t.Errorf("threshold: got %v", c.VerifyThreshold)
	}
	if c.GraphTitle != "bank run" {
		t.Errorf("title: got %q", c.GraphTitle)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("FLOWTRACE_EXCLUDE", "bank.go,vendor/")
	t.Setenv("FLOWTRACE_VERIFY_THRESHOLD", "0.3")
	t.Setenv("FLOWTRACE_OVERHEAD_MEAN", "120ns")

	c, err := FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if len(c.Exclude) != 2 || c.Exclude[1] != "vendor/" {
		t.Errorf("exclude: got %v", c.Exclude)
	}
	if c.VerifyThreshold != 0.3 {
		t.Errorf("threshold: got %v", c.VerifyThreshold)
	}
	if c.OverheadMean != 120*time.Nanosecond {
		t.Errorf("overhead mean: got %v", c.OverheadMean)
	}
}
