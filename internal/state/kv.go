package state

import (
	"context"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/ethdb/leveldb"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
)

const (
	levelDBCache   = 16
	levelDBHandles = 16
)

// KVStore adapts an ethdb key-value database to Store.
type KVStore struct {
	db ethdb.KeyValueStore
}

// NewKVStore wraps db.
func NewKVStore(db ethdb.KeyValueStore) *KVStore {
	return &KVStore{db: db}
}

// NewMemoryStore returns a store that lives for the process lifetime.
func NewMemoryStore() *KVStore {
	return NewKVStore(memorydb.New())
}

// OpenLevelDB opens (or creates) an on-disk store at dir.
func OpenLevelDB(dir string) (*KVStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("data dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := leveldb.New(dir, levelDBCache, levelDBHandles, "amm/", false)
	if err != nil {
		return nil, fmt.Errorf("open leveldb: %w", err)
	}
	return NewKVStore(db), nil
}

func (s *KVStore) Get(_ context.Context, key []byte) ([]byte, bool, error) {
	ok, err := s.db.Has(key)
	if err != nil {
		return nil, false, fmt.Errorf("has %x: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	value, err := s.db.Get(key)
	if err != nil {
		return nil, false, fmt.Errorf("get %x: %w", key, err)
	}
	return value, true, nil
}

// Commit applies writes as one batch.
func (s *KVStore) Commit(ctx context.Context, writes []Write) error {
	if len(writes) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	batch := s.db.NewBatch()
	for _, w := range writes {
		var err error
		if w.Value == nil {
			err = batch.Delete(w.Key)
		} else {
			err = batch.Put(w.Key, w.Value)
		}
		if err != nil {
			return fmt.Errorf("stage %x: %w", w.Key, err)
		}
	}
	if err := batch.Write(); err != nil {
		return fmt.Errorf("write batch: %w", err)
	}
	return nil
}

func (s *KVStore) Close() error {
	return s.db.Close()
}
