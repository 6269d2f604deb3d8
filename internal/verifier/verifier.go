// Package verifier persists per-function timing baselines and compares
// later runs against them to flag drift.
package verifier

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/flowtrace/flowtrace/internal/graphstore"
	"github.com/flowtrace/flowtrace/internal/nodetree"
)

type (
	// Entry is one recorded identity with its measured inclusive
	// duration in seconds.
	Entry struct {
		ID   string  `json:"id"`
		Time float64 `json:"time"`
	}

	// Baseline is the persisted record of one or more recording runs.
	// Count is how many runs were merged into the running means.
	Baseline struct {
		Count int     `json:"count"`
		Data  []Entry `json:"data"`
	}

	// Deviation reports one identity whose measured time drifted
	// beyond the tolerated threshold.
	Deviation struct {
		ID       string
		Baseline float64
		Current  float64
		Relative float64
	}
)

func (b Baseline) index() map[string]float64 {
	m := make(map[string]float64, len(b.Data))
	for _, e := range b.Data {
		m[e.ID] = e.Time
	}
	return m
}

// Load reads a baseline. A missing object is not an error; it returns
// an empty baseline so recording can start from scratch.
func Load(ctx context.Context, s graphstore.Store, name string) (Baseline, error) {
	var b Baseline
	err := graphstore.Read(ctx, s, name, graphstore.EncodingJSON, &b)
	if err != nil {
		if errors.Is(err, graphstore.ErrObjectNotFound) {
			return Baseline{}, nil
		}
		return Baseline{}, fmt.Errorf("loading baseline %q: %w", name, err)
	}
	return b, nil
}

// Count returns how many recording runs the persisted baseline has
// merged, zero when the baseline does not exist yet.
func Count(ctx context.Context, s graphstore.Store, name string) (int, error) {
	b, err := Load(ctx, s, name)
	if err != nil {
		return 0, err
	}
	return b.Count, nil
}

// Export merges the current run's inclusive durations into the
// persisted baseline as a running mean and writes it back. Identities
// never seen before enter at their current value.
func Export(ctx context.Context, s graphstore.Store, name string, nodes []*nodetree.Node) error {
	prev, err := Load(ctx, s, name)
	if err != nil {
		return err
	}
	times := prev.index()
	for _, n := range nodetree.CalledNodes(nodes) {
		cur := n.Duration.Seconds()
		if old, ok := times[string(n.ID)]; ok {
			times[string(n.ID)] = (old*float64(prev.Count) + cur) / float64(prev.Count+1)
		} else {
			times[string(n.ID)] = cur
		}
	}
	next := Baseline{Count: prev.Count + 1}
	// keep previous entry order, then append new identities in node order
	seen := make(map[string]bool, len(times))
	for _, e := range prev.Data {
		next.Data = append(next.Data, Entry{ID: e.ID, Time: times[e.ID]})
		seen[e.ID] = true
	}
	for _, n := range nodetree.CalledNodes(nodes) {
		if !seen[string(n.ID)] {
			next.Data = append(next.Data, Entry{ID: string(n.ID), Time: times[string(n.ID)]})
			seen[string(n.ID)] = true
		}
	}
	if err := graphstore.Write(ctx, s, name, graphstore.EncodingJSON, next); err != nil {
		return fmt.Errorf("writing baseline %q: %w", name, err)
	}
	return nil
}

// Verify compares the current run against the persisted baseline. Every
// identity present on both sides must stay within threshold relative
// deviation for the run to pass; identities present on only one side
// are ignored so new instrumentation points do not break old baselines.
// The returned deviations are the offenders.
func Verify(ctx context.Context, s graphstore.Store, name string, nodes []*nodetree.Node, threshold float64) (bool, []Deviation, error) {
	b, err := Load(ctx, s, name)
	if err != nil {
		return false, nil, err
	}
	if len(b.Data) == 0 {
		return false, nil, fmt.Errorf("baseline %q is missing or empty", name)
	}
	times := b.index()
	var offenders []Deviation
	for _, n := range nodetree.CalledNodes(nodes) {
		base, ok := times[string(n.ID)]
		if !ok {
			continue
		}
		cur := n.Duration.Seconds()
		var rel float64
		switch {
		case base == 0 && cur == 0:
			rel = 0
		case base == 0:
			rel = math.Inf(1)
		default:
			rel = math.Abs(cur-base) / base
		}
		if rel > threshold {
			offenders = append(offenders, Deviation{
				ID:       string(n.ID),
				Baseline: base,
				Current:  cur,
				Relative: rel,
			})
		}
	}
	return len(offenders) == 0, offenders, nil
}
