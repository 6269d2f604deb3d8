package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/flowtrace/flowtrace/internal/config"
	"github.com/flowtrace/flowtrace/internal/nodetree"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{3 * time.Second, "3s"},
		{1500 * time.Millisecond, "1s"},
		{2 * time.Millisecond, "2ms"},
		{1500 * time.Microsecond, "1ms"},
		{42 * time.Microsecond, "42µs"},
		{999 * time.Nanosecond, "999ns"},
		{0, "<1ns"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("%v: got %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestHeatColor(t *testing.T) {
	light := [3]uint8{0x00, 0x00, 0x00}
	dark := [3]uint8{0xFF, 0xFF, 0xFF}

	if got := HeatColor(0, time.Second, light, dark); got != "#000000" {
		t.Errorf("zero value: got %q", got)
	}
	if got := HeatColor(time.Second, time.Second, light, dark); got != "#FFFFFF" {
		t.Errorf("max value: got %q", got)
	}
	// values are clamped into [0, max]
	if got := HeatColor(2*time.Second, time.Second, light, dark); got != "#FFFFFF" {
		t.Errorf("above max: got %q", got)
	}
	if got := HeatColor(-time.Second, time.Second, light, dark); got != "#000000" {
		t.Errorf("below zero: got %q", got)
	}
	if got := HeatColor(time.Second, 0, light, dark); got != "#000000" {
		t.Errorf("zero max falls back to the light anchor: got %q", got)
	}
}

func buildGraph() []*nodetree.Node {
	main := nodetree.NewNode(nodetree.Ident{File: "/srv/bank/main.go", Name: "main"})
	transfer := nodetree.NewNode(nodetree.Ident{File: "/srv/bank/bank.go", Name: "transfer"})
	idle := nodetree.NewNode(nodetree.Ident{File: "/srv/bank/bank.go", Name: "idle"})
	main.Record(10 * time.Millisecond)
	transfer.Record(8 * time.Millisecond)
	main.AddChild(transfer)
	main.AddChild(idle)
	return []*nodetree.Node{main, transfer, idle}
}

func TestWriteDOT(t *testing.T) {
	nodes := buildGraph()
	cfg := config.Default()
	cfg.GraphTitle = "bank"
	cfg.ShowFileName = true

	var buf bytes.Buffer
	if err := WriteDOT(&buf, nodes, cfg); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"digraph flowtrace",
		"rankdir=LR",
		`label="bank"`,
		"subgraph cluster_0",
		"main.go",
		"bank.go",
		"transfer",
		" -> ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "idle") {
		t.Error("nodes that never completed a call must not be rendered")
	}
	if strings.Count(out, " -> ") != 1 {
		t.Errorf("want exactly one edge, output:\n%s", out)
	}
}

func TestWriteDOTCachesHandles(t *testing.T) {
	nodes := buildGraph()
	var buf bytes.Buffer
	if err := WriteDOT(&buf, nodes, config.Default()); err != nil {
		t.Fatalf("render: %v", err)
	}
	first := nodes[0].RenderHandle()
	if first == nil {
		t.Fatal("rendering should cache a handle on the node")
	}
	if err := WriteDOT(&buf, nodes, config.Default()); err != nil {
		t.Fatalf("render: %v", err)
	}
	if nodes[0].RenderHandle() != first {
		t.Fatal("repeated renders should reuse the cached handle")
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, buildGraph())
	out := buf.String()
	for _, want := range []string{"Function", "Calls", "Inclusive", "Exclusive", "main", "transfer", "10ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("table should contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "idle") {
		t.Error("uncalled nodes must not appear in the summary")
	}
}
