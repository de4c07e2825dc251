package pipeline

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auspexhq/auspex/pkg/models"
)

// fakeStage returns a canned delta or error and records what it saw.
type fakeStage struct {
	name  string
	delta *models.Delta
	err   error
	seen  *models.Snapshot
}

func (f *fakeStage) Name() string { return f.name }

func (f *fakeStage) Process(_ context.Context, snap *models.Snapshot, _ models.ProjectContext, _ Progress) (*models.Delta, error) {
	f.seen = snap
	return f.delta, f.err
}

func inventoryDelta(paths ...string) *models.Delta {
	inv := &models.Inventory{}
	for _, p := range paths {
		inv.Records = append(inv.Records, models.FileRecord{Path: p})
	}
	inv.TotalFiles = len(inv.Records)
	return &models.Delta{Files: inv}
}

func TestRunMergesDeltasInOrder(t *testing.T) {
	first := &fakeStage{name: "catalog", delta: inventoryDelta("a.php")}
	second := &fakeStage{name: "stack", delta: &models.Delta{Stack: &models.StackProfile{ProjectType: "php"}}}

	engine := New([]Stage{first, second})
	report, err := engine.Run(context.Background(), models.ProjectContext{Root: t.TempDir()})
	require.NoError(t, err)

	require.NotNil(t, second.seen.Files, "later stage sees earlier delta")
	assert.Equal(t, 1, second.seen.Files.TotalFiles)
	assert.Nil(t, first.seen.Files, "first stage sees empty state")

	require.NotNil(t, report.Files)
	require.NotNil(t, report.Stack)
	require.Len(t, report.Meta.LayersExecuted, 2)
	assert.Equal(t, models.StageOK, report.Meta.LayersExecuted[0].Status)
	assert.False(t, report.Meta.FinishedAt.Before(report.Meta.StartedAt))
}

func TestRunMissingRootAborts(t *testing.T) {
	engine := New([]Stage{&fakeStage{name: "catalog"}})
	_, err := engine.Run(context.Background(), models.ProjectContext{Root: "/does/not/exist"})
	assert.Error(t, err)
}

func TestRunRootMustBeDirectory(t *testing.T) {
	dir := t.TempDir()
	file := dir + "/f.txt"
	require.NoError(t, writeFile(file))

	engine := New(nil)
	_, err := engine.Run(context.Background(), models.ProjectContext{Root: file})
	assert.Error(t, err)
}

func TestStageFailureIsIsolated(t *testing.T) {
	boom := errors.New("boom")
	failing := &fakeStage{name: "stack", err: boom}
	after := &fakeStage{name: "structure", delta: &models.Delta{Structure: &models.Extraction{}}}

	engine := New([]Stage{
		&fakeStage{name: "catalog", delta: inventoryDelta("a.php")},
		failing,
		after,
	})

	report, err := engine.Run(context.Background(), models.ProjectContext{Root: t.TempDir()})
	require.NoError(t, err, "stage failures do not abort the run")

	require.Len(t, report.Meta.LayersExecuted, 3)
	assert.Equal(t, models.StageFailed, report.Meta.LayersExecuted[1].Status)
	assert.Equal(t, "boom", report.Meta.LayersExecuted[1].Error)
	assert.Equal(t, models.StageOK, report.Meta.LayersExecuted[2].Status)

	assert.Nil(t, report.Stack, "failed stage contributes nothing")
	require.NotNil(t, after.seen.Files, "state before the failure is intact")
}

func TestDeltaMayNotOverwriteCommittedNamespace(t *testing.T) {
	engine := New([]Stage{
		&fakeStage{name: "catalog", delta: inventoryDelta("a.php")},
		&fakeStage{name: "rogue", delta: inventoryDelta("b.php")},
	})

	report, err := engine.Run(context.Background(), models.ProjectContext{Root: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, models.StageFailed, report.Meta.LayersExecuted[1].Status)
	require.NotNil(t, report.Files)
	assert.Equal(t, "a.php", report.Files.Records[0].Path, "committed state unchanged")
}

func TestStageMutationDoesNotLeak(t *testing.T) {
	mutator := &stageFunc{name: "stack", fn: func(snap *models.Snapshot) (*models.Delta, error) {
		snap.Files.Records[0].Path = "mutated.php"
		return nil, nil
	}}

	engine := New([]Stage{
		&fakeStage{name: "catalog", delta: inventoryDelta("a.php")},
		mutator,
	})

	report, err := engine.Run(context.Background(), models.ProjectContext{Root: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "a.php", report.Files.Records[0].Path, "stages work on a frozen copy")
}

func TestProgressForwardedWithStageName(t *testing.T) {
	var events []string
	reporter := &stageFunc{name: "catalog", progress: func(p Progress) {
		p("walk", 1, 2)
	}}

	engine := New([]Stage{reporter}, WithProgress(func(stage string, current, total int, detail string) {
		events = append(events, stage+"/"+detail)
	}))

	_, err := engine.Run(context.Background(), models.ProjectContext{Root: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, []string{"catalog/walk"}, events)
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := New([]Stage{&fakeStage{name: "catalog"}})
	_, err := engine.Run(ctx, models.ProjectContext{Root: t.TempDir()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReportStripsContent(t *testing.T) {
	delta := inventoryDelta("a.php")
	delta.Files.Records[0].Content = "<?php echo 1;"

	engine := New([]Stage{&fakeStage{name: "catalog", delta: delta}})
	report, err := engine.Run(context.Background(), models.ProjectContext{Root: t.TempDir()})
	require.NoError(t, err)

	assert.Empty(t, report.Files.Records[0].Content)
}

func writeFile(path string) error {
	return os.WriteFile(path, []byte("x"), 0o644)
}

// stageFunc adapts a closure into a Stage.
type stageFunc struct {
	name     string
	fn       func(*models.Snapshot) (*models.Delta, error)
	progress func(Progress)
}

func (s *stageFunc) Name() string { return s.name }

func (s *stageFunc) Process(_ context.Context, snap *models.Snapshot, _ models.ProjectContext, p Progress) (*models.Delta, error) {
	if s.progress != nil {
		s.progress(p)
	}
	if s.fn != nil {
		return s.fn(snap)
	}
	return nil, nil
}
