package storage

import (
	"os"
	"path/filepath"
	"testing"

	"liquidityCore/internal/model"
)

func TestJsonlStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "events.jsonl")
	sink := NewJsonlStorage(path)

	first := []model.Event{{Height: 1, EventName: model.EventPoolCreated, PoolID: 1}}
	second := []model.Event{{Height: 2, EventName: model.EventSwap, PoolID: 1, Decoded: model.SwapEventData{AmountIn: "10"}}}
	if err := sink.PutEventBatch(first); err != nil {
		t.Fatalf("put first: %v", err)
	}
	if err := sink.PutEventBatch(second); err != nil {
		t.Fatalf("put second: %v", err)
	}

	// a broken line in the middle is reported and skipped
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := f.WriteString("{not json\n\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	f.Close()
	if err := sink.PutEventBatch([]model.Event{{Height: 3, EventName: model.EventCollect, PositionID: 4}}); err != nil {
		t.Fatalf("put third: %v", err)
	}

	var records []model.EventRecord
	var badLines []int
	err = ReadEvents(path, func(r model.EventRecord) error {
		records = append(records, r)
		return nil
	}, func(line int, err error) {
		badLines = append(badLines, line)
	})
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("records: got %d, want 3", len(records))
	}
	if records[1].EventName != model.EventSwap || records[2].PositionID != 4 {
		t.Fatalf("unexpected records: %+v", records)
	}
	if len(badLines) != 1 || badLines[0] != 3 {
		t.Fatalf("bad lines: got %v, want [3]", badLines)
	}
}

func TestMemorySink(t *testing.T) {
	var sink Memory
	if err := sink.PutEventBatch([]model.Event{{EventName: model.EventMint}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if len(sink.Events) != 1 {
		t.Fatalf("events: got %d", len(sink.Events))
	}
}
