package tracker

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/flowtrace/flowtrace/internal/nodetree"
	"github.com/flowtrace/flowtrace/internal/verifier"
)

// EnableRecording switches the tracker into baseline-recording mode.
// Calls are still counted and timed, but the run's purpose becomes
// feeding the baseline rather than producing a graph. With force set
// the switch happens even while disabled.
func (t *Tracker) EnableRecording(force bool) {
	if t.disabled && !force {
		t.log.Warn().Msg("cannot enable recording while disabled")
		return
	}
	t.mode = ModeRecording
	t.log.Info().Msg("running in baseline recording mode")
}

// AutoRecord enables recording mode while the persisted baseline has
// merged fewer than limit runs, so a fleet of runs builds a statistical
// baseline before verification starts.
func (t *Tracker) AutoRecord(ctx context.Context, limit int, name string) error {
	count, err := verifier.Count(ctx, t.store, name)
	if err != nil {
		return err
	}
	if count < limit {
		t.EnableRecording(false)
		return nil
	}
	t.log.Info().
		Int("count", count).
		Int("limit", limit).
		Msg("baseline complete, staying in normal mode")
	return nil
}

// ExportBaseline merges this run's timings into the persisted baseline.
// Only meaningful in recording mode; anything else warns and no-ops.
func (t *Tracker) ExportBaseline(ctx context.Context, name string) error {
	if t.disabled {
		t.log.Warn().Msg("cannot export a baseline while disabled")
		return nil
	}
	if t.mode != ModeRecording {
		t.log.Warn().Msg("cannot export a baseline outside recording mode")
		return nil
	}
	return verifier.Export(ctx, t.store, name, t.nodes)
}

// ApplyBaselineTimes replaces the inclusive duration of every node
// present in the persisted baseline with the baseline's mean, so a
// loaded graph renders the established timings instead of a single
// run's. Nodes absent from the baseline keep their measured times.
func (t *Tracker) ApplyBaselineTimes(ctx context.Context, name string) error {
	b, err := verifier.Load(ctx, t.store, name)
	if err != nil {
		return err
	}
	if len(b.Data) == 0 {
		return fmt.Errorf("baseline %q is missing or empty", name)
	}
	for _, e := range b.Data {
		if n, ok := t.byID[nodetree.FuncID(e.ID)]; ok {
			n.Duration = time.Duration(math.Round(e.Time * float64(time.Second)))
		}
	}
	return nil
}

// Verify compares this run's timings against the persisted baseline
// using the configured threshold. While disabled or in recording mode
// it warns and reports failure.
func (t *Tracker) Verify(ctx context.Context, name string) (bool, []verifier.Deviation, error) {
	if t.disabled {
		t.log.Warn().Msg("cannot verify while disabled")
		return false, nil, nil
	}
	if t.mode == ModeRecording {
		t.log.Warn().Msg("cannot verify in recording mode")
		return false, nil, nil
	}
	return verifier.Verify(ctx, t.store, name, t.nodes, t.cfg.VerifyThreshold)
}
