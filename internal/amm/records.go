package amm

import (
	"github.com/holiman/uint256"

	"liquidityCore/internal/model"
	"liquidityCore/internal/state"
)

func (o *op) pool(id uint64) (*model.Pool, bool, error) {
	var p model.Pool
	ok, err := o.txn.GetJSON(o.ctx, state.PoolKey(id), &p)
	if err != nil || !ok {
		return nil, false, err
	}
	return p.Clone(), true, nil
}

func (o *op) putPool(p *model.Pool) error {
	return o.txn.PutJSON(state.PoolKey(p.ID), p)
}

func (o *op) position(id uint64) (*model.Position, bool, error) {
	var p model.Position
	ok, err := o.txn.GetJSON(o.ctx, state.PositionKey(id), &p)
	if err != nil || !ok {
		return nil, false, err
	}
	return p.Clone(), true, nil
}

func (o *op) putPosition(p *model.Position) error {
	return o.txn.PutJSON(state.PositionKey(p.ID), p)
}

func (o *op) tick(poolID uint64, index int32) (*model.Tick, bool, error) {
	var t model.Tick
	ok, err := o.txn.GetJSON(o.ctx, state.TickKey(poolID, index), &t)
	if err != nil || !ok {
		return nil, false, err
	}
	return &t, true, nil
}

func (o *op) putTick(t *model.Tick) error {
	if !t.Initialized() {
		o.txn.Delete(state.TickKey(t.PoolID, t.Index))
		return nil
	}
	return o.txn.PutJSON(state.TickKey(t.PoolID, t.Index), t)
}

func (o *op) bitmapWord(poolID uint64, word int16) (*model.TickBitmapWord, error) {
	w := model.TickBitmapWord{PoolID: poolID, WordIndex: word}
	ok, err := o.txn.GetJSON(o.ctx, state.BitmapKey(poolID, word), &w)
	if err != nil {
		return nil, err
	}
	if !ok || w.Bits == nil {
		w.Bits = new(uint256.Int)
	}
	return &w, nil
}

func (o *op) putBitmapWord(w *model.TickBitmapWord) error {
	if w.Bits.IsZero() {
		o.txn.Delete(state.BitmapKey(w.PoolID, w.WordIndex))
		return nil
	}
	return o.txn.PutJSON(state.BitmapKey(w.PoolID, w.WordIndex), w)
}

func (o *op) oracleSample(poolID uint64) (*model.OracleSample, bool, error) {
	var s model.OracleSample
	ok, err := o.txn.GetJSON(o.ctx, state.OracleKey(poolID), &s)
	if err != nil || !ok {
		return nil, false, err
	}
	return &s, true, nil
}

func (o *op) putOracleSample(s *model.OracleSample) error {
	return o.txn.PutJSON(state.OracleKey(s.PoolID), s)
}

func (o *op) flags() (model.Flags, error) {
	var f model.Flags
	_, err := o.txn.GetJSON(o.ctx, state.FlagsKey(), &f)
	return f, err
}

func (o *op) putFlags(f model.Flags) error {
	return o.txn.PutJSON(state.FlagsKey(), f)
}

func (o *op) counters() (model.Counters, error) {
	var c model.Counters
	_, err := o.txn.GetJSON(o.ctx, state.CountersKey(), &c)
	return c, err
}

func (o *op) putCounters(c model.Counters) error {
	return o.txn.PutJSON(state.CountersKey(), c)
}
