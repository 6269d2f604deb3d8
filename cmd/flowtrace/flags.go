package main

var opts struct {
	Summary   bool    `short:"s" long:"summary" description:"Print a per-function summary table of the graph"`
	Dot       string  `short:"d" long:"dot" description:"Write a Graphviz rendering of the graph to a file"`
	Verify    string  `long:"verify" description:"Verify the graph's timings against a baseline file"`
	Baseline  string  `short:"b" long:"baseline" description:"Render baseline mean times instead of the graph's own"`
	Threshold float64 `long:"threshold" default:"0.1" description:"Maximum tolerated relative deviation per function when verifying"`
	Strict    bool    `long:"strict" description:"Fail on unresolved child references instead of warning"`
	Config    string  `short:"c" long:"config" description:"Read settings from a YAML configuration file"`
	Verbose   bool    `short:"V" long:"verbose" description:"Show verbose debug information"`
	Version   bool    `short:"v" long:"version" description:"Show version information"`
	Help      bool    `short:"h" long:"help" description:"Show this help message"`
}
