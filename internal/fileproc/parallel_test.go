package fileproc

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEachFileCollectsResults(t *testing.T) {
	files := []string{"a", "b", "c"}
	results := ForEachFile(files, func(path string) (string, error) {
		return strings.ToUpper(path), nil
	})

	sort.Strings(results)
	assert.Equal(t, []string{"A", "B", "C"}, results)
}

func TestForEachFileSkipsErrors(t *testing.T) {
	files := []string{"a", "bad", "c"}
	results := ForEachFile(files, func(path string) (string, error) {
		if path == "bad" {
			return "", errors.New("nope")
		}
		return path, nil
	})

	sort.Strings(results)
	assert.Equal(t, []string{"a", "c"}, results)
}

func TestForEachFileWithProgress(t *testing.T) {
	var ticks atomic.Int64
	ForEachFileWithProgress([]string{"a", "b", "c"}, func(path string) (int, error) {
		return 0, nil
	}, func() {
		ticks.Add(1)
	})

	assert.Equal(t, int64(3), ticks.Load())
}

func TestForEachFileEmptyInput(t *testing.T) {
	assert.Nil(t, ForEachFile(nil, func(string) (int, error) { return 0, nil }))
}

func TestForEachFileWithContextCollectsErrors(t *testing.T) {
	files := []string{"a", "bad", "c"}
	results, errs := ForEachFileWithContext(context.Background(), files, func(path string) (string, error) {
		if path == "bad" {
			return "", errors.New("unreadable")
		}
		return path, nil
	}, nil)

	sort.Strings(results)
	assert.Equal(t, []string{"a", "c"}, results)
	require.NotNil(t, errs)
	require.Len(t, errs.Errors, 1)
	assert.Equal(t, "bad", errs.Errors[0].Path)
}

func TestForEachFileWithContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := make([]string, 100)
	for i := range files {
		files[i] = "f"
	}

	var processed atomic.Int64
	_, errs := ForEachFileWithContext(ctx, files, func(path string) (int, error) {
		processed.Add(1)
		return 0, nil
	}, nil)

	require.NotNil(t, errs)
	assert.True(t, errs.HasErrors())
	assert.Less(t, processed.Load(), int64(100))
}
