package aggregate

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liquidityCore/internal/model"
	"liquidityCore/internal/storage"
)

type memWriter struct {
	metrics []model.PoolWindowMetrics
}

func (w *memWriter) UpsertWindowMetrics(_ context.Context, metrics []model.PoolWindowMetrics) error {
	w.metrics = append(w.metrics, metrics...)
	return nil
}

func (w *memWriter) find(poolID, start uint64) *model.PoolWindowMetrics {
	for i := range w.metrics {
		if w.metrics[i].PoolID == poolID && w.metrics[i].WindowStart == start {
			return &w.metrics[i]
		}
	}
	return nil
}

func swapEvent(height, poolID uint64, xForY bool, in, out, fee, resX, resY string) model.Event {
	return model.Event{
		Height:    height,
		EventName: model.EventSwap,
		PoolID:    poolID,
		Caller:    "0x0000000000000000000000000000000000000001",
		Decoded: model.SwapEventData{
			XForY:     xForY,
			AmountIn:  in,
			AmountOut: out,
			FeeAmount: fee,
			ReserveX:  resX,
			ReserveY:  resY,
		},
	}
}

func writeEvents(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.jsonl")
	events := []model.Event{
		{Height: 5, EventName: model.EventMint, PoolID: 1, Decoded: model.MintEventData{Amount: "100"}},
		swapEvent(12, 1, true, "100", "90", "1", "1100", "910"),
		swapEvent(15, 1, false, "50", "40", "2", "1060", "960"),
		swapEvent(17, 2, true, "10", "9", "0", "10", "9"),
		swapEvent(23, 1, true, "10", "8", "0", "1070", "952"),
	}
	require.NoError(t, storage.NewJsonlStorage(path).PutEventBatch(events))
	return path
}

func TestAggregateWindows(t *testing.T) {
	input := writeEvents(t)
	writer := &memWriter{}

	agg := NewAggregator(Config{WindowBlocks: 10}, writer, nil)
	stats, err := agg.Run(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 5, Windows: 3, Skipped: 1}, stats)
	require.Len(t, writer.metrics, 3)

	first := writer.find(1, 10)
	require.NotNil(t, first)
	assert.Equal(t, uint64(20), first.WindowEnd)
	assert.Equal(t, uint64(10), first.WindowSizeBlocks)
	assert.Equal(t, uint64(2), first.SwapCount)
	assert.Equal(t, "140", first.VolumeX)
	assert.Equal(t, "140", first.VolumeY)
	assert.Equal(t, "1", first.FeeX)
	assert.Equal(t, "2", first.FeeY)
	assert.Equal(t, "1060", first.ReserveX)
	assert.Equal(t, "960", first.ReserveY)
	assert.Equal(t, uint64(15), first.LastHeight)
	require.NotNil(t, first.FeeRateX)
	require.NotNil(t, first.FeeRateY)

	second := writer.find(1, 20)
	require.NotNil(t, second)
	assert.Equal(t, uint64(1), second.SwapCount)
	assert.Equal(t, "10", second.VolumeX)
	assert.Equal(t, "0", second.FeeY)
	assert.Nil(t, second.FeeRateX)

	other := writer.find(2, 10)
	require.NotNil(t, other)
	assert.Equal(t, "9", other.VolumeY)
}

func TestAggregateResumesFromState(t *testing.T) {
	input := writeEvents(t)
	state := &FileStateStore{Path: filepath.Join(t.TempDir(), "state.json"), WindowBlocks: 10}

	writer := &memWriter{}
	_, err := NewAggregator(Config{WindowBlocks: 10, StateStore: state}, writer, nil).Run(context.Background(), input)
	require.NoError(t, err)

	last, ok, err := state.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(23), last)

	again := &memWriter{}
	stats, err := NewAggregator(Config{WindowBlocks: 10, StateStore: state}, again, nil).Run(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Windows)
	assert.Equal(t, 5, stats.Skipped)
	assert.Empty(t, again.metrics)

	// an explicit recompute height overrides the saved state
	redo := &memWriter{}
	stats, err = NewAggregator(Config{WindowBlocks: 10, StateStore: state, RecomputeFrom: 20}, redo, nil).Run(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Windows)
	require.NotNil(t, redo.find(1, 20))
}

func TestAggregateSkipsBadLines(t *testing.T) {
	input := writeEvents(t)
	f, err := os.OpenFile(input, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{broken\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	stats, err := NewAggregator(Config{WindowBlocks: 10}, &memWriter{}, nil).Run(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 3, stats.Windows)
}

func TestAggregateRequiresWindow(t *testing.T) {
	_, err := NewAggregator(Config{}, &memWriter{}, nil).Run(context.Background(), "unused")
	require.Error(t, err)
}

func TestComputeRate(t *testing.T) {
	assert.Equal(t, "0.250000000000000000", computeRateFromInt(big.NewInt(1), big.NewInt(4)))
	assert.Equal(t, "", computeRateFromInt(big.NewInt(1), big.NewInt(0)))
	assert.Equal(t, "", computeRateFromInt(big.NewInt(0), big.NewInt(4)))
}

func TestFileStateIgnoresOtherWindow(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	require.NoError(t, (&FileStateStore{Path: path, WindowBlocks: 10}).Save(ctx, 42))

	last, ok, err := (&FileStateStore{Path: path, WindowBlocks: 10}).Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(42), last)

	_, ok, err = (&FileStateStore{Path: path, WindowBlocks: 100}).Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

type memProgress map[string]uint64

func (m memProgress) LoadState(_ context.Context, name string) (uint64, bool, error) {
	h, ok := m[name]
	return h, ok, nil
}

func (m memProgress) SaveState(_ context.Context, name string, height uint64) error {
	m[name] = height
	return nil
}

func TestDBStateKeyedByWindow(t *testing.T) {
	input := writeEvents(t)
	table := memProgress{}

	_, err := NewAggregator(Config{WindowBlocks: 10, StateStore: NewDBStateStore(table, 10)}, &memWriter{}, nil).Run(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, memProgress{"stats:10": 23}, table)

	_, ok, err := NewDBStateStore(table, 20).Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}
