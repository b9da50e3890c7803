// Package amm is the pool, position and swap engine of a concentrated-liquidity
// market maker.
package amm

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"liquidityCore/internal/chain"
	"liquidityCore/internal/model"
	"liquidityCore/internal/state"
	"liquidityCore/internal/storage"
)

// MinLiquidity is the smallest liquidity a position may hold, other than zero
// after a full withdrawal.
const MinLiquidity uint64 = 1_000_000

// Options configures an Engine.
type Options struct {
	// Owner may toggle the global flags and collect protocol fees.
	Owner  common.Address
	Sink   storage.Sink
	Logger *zap.Logger
}

// Engine runs every operation under one lock against a transactional view of
// the store. An operation either commits all of its writes or none.
type Engine struct {
	mu sync.Mutex

	store  state.Store
	clock  chain.Clock
	sink   storage.Sink
	owner  common.Address
	logger *zap.Logger
}

func NewEngine(store state.Store, clock chain.Clock, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sink := opts.Sink
	if sink == nil {
		sink = storage.Nop{}
	}

	return &Engine{
		store:  store,
		clock:  clock,
		sink:   sink,
		owner:  opts.Owner,
		logger: logger,
	}
}

// Owner returns the system owner identity.
func (e *Engine) Owner() common.Address {
	return e.owner
}

// op is the context of one operation.
type op struct {
	ctx    context.Context
	txn    *state.Txn
	now    uint64
	caller common.Address
	owner  common.Address
	events []model.Event
}

func (o *op) emit(name string, poolID, positionID uint64, decoded interface{}) {
	o.events = append(o.events, model.Event{
		Height:     o.now,
		EventName:  name,
		PoolID:     poolID,
		PositionID: positionID,
		Caller:     o.caller.Hex(),
		Decoded:    decoded,
	})
}

// exec runs fn under the engine lock and commits its writes when it succeeds.
func (e *Engine) exec(ctx context.Context, name string, caller common.Address, fn func(*op) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now, err := e.clock.Now(ctx)
	if err != nil {
		return fmt.Errorf("read clock: %w", err)
	}

	o := &op{
		ctx:    ctx,
		txn:    state.NewTxn(e.store),
		now:    now,
		caller: caller,
		owner:  e.owner,
	}
	if err := fn(o); err != nil {
		e.logger.Debug("operation rejected",
			zap.String("op", name),
			zap.String("caller", caller.Hex()),
			zap.Stringer("code", CodeOf(err)),
			zap.Error(err),
		)
		return err
	}

	if err := o.txn.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	if err := e.sink.PutEventBatch(o.events); err != nil {
		// state is already committed
		e.logger.Warn("emit events", zap.String("op", name), zap.Error(err))
	}
	return nil
}

// view runs fn under the engine lock without committing.
func (e *Engine) view(ctx context.Context, fn func(*op) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return fn(&op{ctx: ctx, txn: state.NewTxn(e.store), owner: e.owner})
}
