package aggregate

import (
	"context"
	"fmt"
)

// ProgressTable is the named height table of the Postgres store.
type ProgressTable interface {
	LoadState(ctx context.Context, name string) (uint64, bool, error)
	SaveState(ctx context.Context, name string, height uint64) error
}

// DBStateStore keeps progress in a ProgressTable row per window size.
type DBStateStore struct {
	table ProgressTable
	name  string
}

func NewDBStateStore(table ProgressTable, windowBlocks uint64) *DBStateStore {
	return &DBStateStore{table: table, name: fmt.Sprintf("stats:%d", windowBlocks)}
}

func (s *DBStateStore) Load(ctx context.Context) (uint64, bool, error) {
	return s.table.LoadState(ctx, s.name)
}

func (s *DBStateStore) Save(ctx context.Context, height uint64) error {
	return s.table.SaveState(ctx, s.name, height)
}
