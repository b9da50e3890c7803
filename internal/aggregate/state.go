package aggregate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StateStore persists the height below which every window has been written.
type StateStore interface {
	Load(ctx context.Context) (uint64, bool, error)
	Save(ctx context.Context, height uint64) error
}

// FileStateStore keeps progress in a local JSON file. Progress recorded for a
// different window size does not apply and is reported as absent.
type FileStateStore struct {
	Path         string
	WindowBlocks uint64
}

type progress struct {
	LastHeight   uint64 `json:"last_height"`
	WindowBlocks uint64 `json:"window_blocks"`
	UpdatedAt    string `json:"updated_at"`
}

func (s *FileStateStore) Load(_ context.Context) (uint64, bool, error) {
	if s == nil || s.Path == "" {
		return 0, false, nil
	}
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read stats state: %w", err)
	}

	var p progress
	if err := json.Unmarshal(data, &p); err != nil {
		return 0, false, fmt.Errorf("parse stats state %s: %w", s.Path, err)
	}
	if p.WindowBlocks != s.WindowBlocks {
		return 0, false, nil
	}
	return p.LastHeight, true, nil
}

func (s *FileStateStore) Save(_ context.Context, height uint64) error {
	if s == nil || s.Path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("create stats state dir: %w", err)
	}

	data, err := json.Marshal(progress{
		LastHeight:   height,
		WindowBlocks: s.WindowBlocks,
		UpdatedAt:    time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write stats state: %w", err)
	}
	return os.Rename(tmp, s.Path)
}
