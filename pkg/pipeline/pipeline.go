// Package pipeline runs ordered analysis stages over an immutable,
// progressively enriched project snapshot.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/auspexhq/auspex/pkg/models"
)

// Progress is the capability handed to a stage for reporting scan
// progress. The detail argument names a subphase and may be empty.
type Progress func(detail string, current, total int)

// NopProgress discards all progress events.
func NopProgress(string, int, int) {}

// Stage is one analysis layer. Process receives a frozen snapshot of
// all state accumulated by earlier stages and returns the delta it
// contributes. A stage must never write a namespace another stage owns.
type Stage interface {
	Name() string
	Process(ctx context.Context, snap *models.Snapshot, pc models.ProjectContext, progress Progress) (*models.Delta, error)
}

// ProgressFunc receives forwarded progress events from the engine. The
// engine does not interpret them.
type ProgressFunc func(stage string, current, total int, detail string)

// Engine owns stage ordering, snapshot construction, delta merging,
// per-stage failure isolation, and progress forwarding.
type Engine struct {
	stages   []Stage
	progress ProgressFunc
}

// Option configures the Engine.
type Option func(*Engine)

// WithProgress sets the progress sink events are forwarded to.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}

// New creates an engine running the given stages in order.
func New(stages []Stage, opts ...Option) *Engine {
	e := &Engine{stages: stages}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes all stages against the project and returns the final
// report. A missing or unreadable root aborts before any stage runs;
// any other stage failure is recorded in metadata and the pipeline
// continues with state unchanged.
func (e *Engine) Run(ctx context.Context, pc models.ProjectContext) (*models.Report, error) {
	info, err := os.Stat(pc.Root)
	if err != nil {
		return nil, fmt.Errorf("project root %q: %w", pc.Root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %q is not a directory", pc.Root)
	}

	meta := models.RunMeta{StartedAt: time.Now().UTC()}
	state := &models.Snapshot{}

	for _, stage := range e.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		frozen := state.Clone()
		start := time.Now()
		delta, err := stage.Process(ctx, frozen, pc, e.stageProgress(stage.Name()))
		elapsed := time.Since(start)

		if err == nil {
			err = checkDelta(state, delta)
		}
		if err != nil {
			meta.LayersExecuted = append(meta.LayersExecuted, models.StageMeta{
				Stage:    stage.Name(),
				Status:   models.StageFailed,
				Duration: elapsed,
				Error:    err.Error(),
			})
			continue
		}

		state.Merge(delta)
		meta.LayersExecuted = append(meta.LayersExecuted, models.StageMeta{
			Stage:    stage.Name(),
			Status:   models.StageOK,
			Duration: elapsed,
		})
	}

	meta.FinishedAt = time.Now().UTC()
	return models.BuildReport(state, meta), nil
}

// stageProgress wraps the engine sink with the stage name. Events are
// forwarded as-is; the default detail is the stage name itself.
func (e *Engine) stageProgress(stage string) Progress {
	if e.progress == nil {
		return NopProgress
	}
	return func(detail string, current, total int) {
		e.progress(stage, current, total, detail)
	}
}

// checkDelta rejects deltas that overwrite a namespace an earlier stage
// already committed. Stages only ever add their own namespace; a
// violation is a design bug surfaced as a stage failure.
func checkDelta(state *models.Snapshot, delta *models.Delta) error {
	if delta == nil {
		return nil
	}
	switch {
	case delta.Files != nil && state.Files != nil:
		return fmt.Errorf("delta overwrites committed namespace files")
	case delta.Stack != nil && state.Stack != nil:
		return fmt.Errorf("delta overwrites committed namespace stack")
	case delta.Structure != nil && state.Structure != nil:
		return fmt.Errorf("delta overwrites committed namespace structure")
	case delta.Quality != nil && state.Quality != nil:
		return fmt.Errorf("delta overwrites committed namespace quality")
	case delta.Locations != nil && state.Locations != nil:
		return fmt.Errorf("delta overwrites committed namespace locations")
	case delta.Score != nil && state.Score != nil:
		return fmt.Errorf("delta overwrites committed namespace score")
	}
	return nil
}
