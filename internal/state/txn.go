package state

import (
	"context"
	"encoding/json"
	"fmt"
)

type pending struct {
	value   []byte
	deleted bool
}

// Txn buffers the writes of one operation on top of a Store. Reads see the
// buffered writes. Nothing reaches the store before Commit.
type Txn struct {
	store  Store
	writes map[string]pending
	order  []string
}

// NewTxn starts a transaction over store.
func NewTxn(store Store) *Txn {
	return &Txn{
		store:  store,
		writes: make(map[string]pending),
	}
}

func (t *Txn) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	if p, ok := t.writes[string(key)]; ok {
		if p.deleted {
			return nil, false, nil
		}
		return p.value, true, nil
	}
	return t.store.Get(ctx, key)
}

func (t *Txn) Put(key, value []byte) {
	t.stage(key, pending{value: value})
}

func (t *Txn) Delete(key []byte) {
	t.stage(key, pending{deleted: true})
}

func (t *Txn) stage(key []byte, p pending) {
	k := string(key)
	if _, ok := t.writes[k]; !ok {
		t.order = append(t.order, k)
	}
	t.writes[k] = p
}

// GetJSON decodes the value at key into v.
func (t *Txn) GetJSON(ctx context.Context, key []byte, v interface{}) (bool, error) {
	data, ok, err := t.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %q: %w", key, err)
	}
	return true, nil
}

// PutJSON stages v encoded as JSON at key.
func (t *Txn) PutJSON(key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	t.Put(key, data)
	return nil
}

// Pending returns the number of staged keys.
func (t *Txn) Pending() int {
	return len(t.order)
}

// Commit flushes the staged writes in staging order.
func (t *Txn) Commit(ctx context.Context) error {
	if len(t.order) == 0 {
		return nil
	}
	writes := make([]Write, 0, len(t.order))
	for _, k := range t.order {
		p := t.writes[k]
		w := Write{Key: []byte(k)}
		if !p.deleted {
			w.Value = p.value
		}
		writes = append(writes, w)
	}
	if err := t.store.Commit(ctx, writes); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	t.writes = make(map[string]pending)
	t.order = nil
	return nil
}
