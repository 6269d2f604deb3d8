// Package tracker turns function enter/exit events into a call graph
// with aggregated timing. A Tracker is an explicit context object owned
// by the embedding application; it assumes one active call chain, so
// concurrent hosts run one Tracker per logical execution context.
package tracker

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/flowtrace/flowtrace/internal/config"
	"github.com/flowtrace/flowtrace/internal/graphstore"
	"github.com/flowtrace/flowtrace/internal/nodetree"
	"github.com/flowtrace/flowtrace/internal/timing"
)

// Mode selects what a run's results are for. The two modes are mutually
// exclusive for a given Tracker: a recording run feeds the baseline, a
// normal run can be exported, rendered or verified.
type Mode int

const (
	ModeNormal Mode = iota
	ModeRecording
)

type frame struct {
	node  *nodetree.Node
	timer uint64
}

type Tracker struct {
	cfg    config.Config
	log    zerolog.Logger
	store  graphstore.Store
	clock  *timing.Clock
	timers *timing.Registry

	nodes []*nodetree.Node
	byID  map[nodetree.FuncID]*nodetree.Node
	roots []*nodetree.Node
	stack []frame

	exclude  []string
	mode     Mode
	disabled bool
}

// New creates a tracker. A nil store defaults to the working-directory
// filesystem.
func New(cfg config.Config, store graphstore.Store, logger zerolog.Logger) *Tracker {
	if store == nil {
		store = &graphstore.FileStore{}
	}
	clock := timing.NewClock()
	if cfg.ReduceOverhead && cfg.OverheadMean > 0 {
		clock.SetOverhead(cfg.OverheadMean)
	}
	return &Tracker{
		cfg:     cfg,
		log:     logger,
		store:   store,
		clock:   clock,
		timers:  timing.NewRegistry(clock),
		byID:    make(map[nodetree.FuncID]*nodetree.Node),
		exclude: append([]string(nil), cfg.Exclude...),
	}
}

// Disable turns all instrumentation into a pass-through.
func (t *Tracker) Disable() { t.disabled = true }

// Enable re-enables instrumentation after Disable.
func (t *Tracker) Enable() { t.disabled = false }

func (t *Tracker) Disabled() bool { return t.disabled }

func (t *Tracker) Mode() Mode { return t.mode }

// Exclude adds a pattern to the exclusion list. Patterns are substring
// matched against the full identity string, so a file path excludes
// every function declared in that file.
func (t *Tracker) Exclude(pattern string) {
	t.exclude = append(t.exclude, pattern)
}

func (t *Tracker) isExcluded(id nodetree.FuncID) bool {
	for _, pattern := range t.exclude {
		if strings.Contains(string(id), pattern) {
			return true
		}
	}
	return false
}

// CalibrateOverhead samples the time source to estimate its per-read
// cost and discounts it from subsequent measurements.
func (t *Tracker) CalibrateOverhead() time.Duration {
	mean := t.clock.Calibrate(timing.CalibrationSamples)
	t.cfg.ReduceOverhead = true
	t.cfg.OverheadMean = mean
	t.log.Info().Dur("mean", mean).Msg("calibrated time source overhead")
	return mean
}

// DisableOverheadReduction clears the calibrated mean and stops
// discounting.
func (t *Tracker) DisableOverheadReduction() {
	t.clock.DisableOverhead()
	t.cfg.ReduceOverhead = false
	t.cfg.OverheadMean = 0
}

// FunctionCalled records that the watched function identified by ident
// was entered. Excluded identities are ignored entirely. The node is
// created on first sight, registered as a root when the stack is empty,
// attached as a child of the current stack top otherwise, and pushed.
func (t *Tracker) FunctionCalled(ident nodetree.Ident) {
	id := ident.Key()
	if t.isExcluded(id) {
		return
	}
	node, ok := t.byID[id]
	if !ok {
		node = nodetree.NewNode(ident)
		t.byID[id] = node
		t.nodes = append(t.nodes, node)
	}
	if len(t.stack) == 0 {
		t.addRoot(node)
	} else {
		t.stack[len(t.stack)-1].node.AddChild(node)
	}
	t.stack = append(t.stack, frame{node: node})
}

func (t *Tracker) addRoot(node *nodetree.Node) {
	for _, root := range t.roots {
		if root.ID == node.ID {
			return
		}
	}
	t.roots = append(t.roots, node)
}

// FunctionReturned records that the watched function identified by
// ident returned after running for d. A return with an empty stack is a
// silent no-op: it means instrumentation was applied inconsistently and
// there is nothing sensible to attribute. A return whose identity does
// not match the stack top is reported and then processed as a plain
// pop.
func (t *Tracker) FunctionReturned(ident nodetree.Ident, d time.Duration) {
	if len(t.stack) == 0 {
		return
	}
	id := ident.Key()
	if t.isExcluded(id) {
		return
	}
	top := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	if top.node.ID != id {
		t.log.Warn().
			Str("expected", string(top.node.ID)).
			Str("got", string(id)).
			Msg("call/return identity mismatch on the stack")
	}
	if len(t.stack) > 0 {
		t.stack[len(t.stack)-1].node.ChildTime += d
	}
	top.node.Record(d)
}

// Nodes returns every node seen this run, in first-seen order.
func (t *Tracker) Nodes() []*nodetree.Node { return t.nodes }

// Roots returns the nodes that were observed with an empty stack
// beneath them.
func (t *Tracker) Roots() []*nodetree.Node { return t.roots }

// CalledNodes returns the nodes with at least one completed call.
func (t *Tracker) CalledNodes() []*nodetree.Node {
	return nodetree.CalledNodes(t.nodes)
}

// StackDepth reports how many watched calls are currently active.
func (t *Tracker) StackDepth() int { return len(t.stack) }

// Config returns the settings the tracker is running with.
func (t *Tracker) Config() config.Config { return t.cfg }

// SetConfig replaces the tracker's settings. Loading a persisted graph
// restores the settings it was exported with; hosts call this
// afterwards to override them.
func (t *Tracker) SetConfig(cfg config.Config) {
	t.cfg = cfg
	t.exclude = append([]string(nil), cfg.Exclude...)
	if cfg.ReduceOverhead && cfg.OverheadMean > 0 {
		t.clock.SetOverhead(cfg.OverheadMean)
	} else {
		t.clock.DisableOverhead()
	}
}
