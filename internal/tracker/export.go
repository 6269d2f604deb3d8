package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/flowtrace/flowtrace/internal/config"
	"github.com/flowtrace/flowtrace/internal/graphstore"
	"github.com/flowtrace/flowtrace/internal/nodetree"
	"github.com/flowtrace/flowtrace/internal/sysinfo"
)

// document is the logical schema of a full graph export. It is
// identical for both physical encodings.
type document struct {
	Data     []nodetree.Record `json:"data"`
	Settings *config.Config    `json:"settings,omitempty"`
	SysInfo  *sysinfo.Info     `json:"sys-info,omitempty"`
}

// Export persists the run's node graph under name, with the settings
// and environment blocks alongside. The extension picks the encoding:
// .bin/.lz4 for the compact form, anything else for indented JSON.
// Export is refused while disabled or in recording mode.
func (t *Tracker) Export(ctx context.Context, name string) error {
	if t.disabled {
		t.log.Warn().Msg("cannot export while disabled")
		return nil
	}
	if t.mode == ModeRecording {
		t.log.Warn().Msg("cannot export a graph in recording mode")
		return nil
	}
	doc := document{
		Settings: &t.cfg,
	}
	for _, n := range t.nodes {
		doc.Data = append(doc.Data, n.ToRecord(false))
	}
	info := sysinfo.Collect()
	doc.SysInfo = &info
	enc := graphstore.EncodingForName(name)
	if err := graphstore.Write(ctx, t.store, name, enc, doc); err != nil {
		return fmt.Errorf("exporting graph %q: %w", name, err)
	}
	return nil
}

// Load reconstructs a previously exported graph into this tracker.
// Documents with or without the top-level data wrapper are accepted.
// Child references are resolved against the full registry once all
// nodes are in; unresolved references are reported as warnings, or as
// an error when strict loading is configured.
func (t *Tracker) Load(ctx context.Context, name string) error {
	enc := graphstore.EncodingForName(name)
	var doc document
	if err := graphstore.Read(ctx, t.store, name, enc, &doc); err != nil {
		if errors.Is(err, graphstore.ErrObjectNotFound) {
			return fmt.Errorf("loading graph %q: %w", name, err)
		}
		// bare record array without the document wrapper
		var records []nodetree.Record
		if err2 := graphstore.Read(ctx, t.store, name, enc, &records); err2 != nil {
			return fmt.Errorf("loading graph %q: %w", name, err)
		}
		doc.Data = records
	}
	strict := t.cfg.StrictLoad
	if doc.Settings != nil {
		t.cfg = *doc.Settings
		t.cfg.StrictLoad = t.cfg.StrictLoad || strict
	}
	for _, r := range doc.Data {
		node := nodetree.FromRecord(r)
		if _, ok := t.byID[node.ID]; ok {
			continue
		}
		t.byID[node.ID] = node
		t.nodes = append(t.nodes, node)
	}
	var unresolved []string
	for _, n := range t.nodes {
		unresolved = append(unresolved, n.ResolveChildren(t.nodes)...)
	}
	if len(unresolved) > 0 {
		if t.cfg.StrictLoad {
			return fmt.Errorf("graph %q references %d unknown child nodes: %v", name, len(unresolved), unresolved)
		}
		t.log.Warn().
			Strs("instance_ids", unresolved).
			Msg("dropped unresolvable child references")
	}
	return nil
}
