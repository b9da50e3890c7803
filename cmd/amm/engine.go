package main

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"liquidityCore/internal/amm"
	"liquidityCore/internal/chain"
	"liquidityCore/internal/config"
	"liquidityCore/internal/replay"
	"liquidityCore/internal/state"
	"liquidityCore/internal/storage"
	"liquidityCore/internal/storage/postgres"
)

// engineHandle bundles an engine with the resources it holds open.
type engineHandle struct {
	engine *amm.Engine
	// manual is nil when heights come from an RPC node.
	manual  *chain.ManualClock
	closers []func()
}

func (h *engineHandle) Close() {
	for i := len(h.closers) - 1; i >= 0; i-- {
		h.closers[i]()
	}
}

func openEngine(ctx context.Context, cfg config.Config, logger *zap.Logger) (*engineHandle, error) {
	h := &engineHandle{}

	owner := common.Address{}
	if cfg.Owner != "" {
		parsed, err := replay.ParseAddress("owner", cfg.Owner)
		if err != nil {
			return nil, err
		}
		owner = parsed
	} else {
		logger.Warn("owner not set, admin operations are limited to the zero address")
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	h.closers = append(h.closers, func() {
		if err := store.Close(); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	})

	var clock chain.Clock
	switch cfg.Clock {
	case config.ClockRPC:
		if cfg.RPCURL == "" {
			h.Close()
			return nil, fmt.Errorf("rpc url is required for the rpc clock")
		}
		client, err := chain.NewClient(ctx, cfg.RPCURL)
		if err != nil {
			h.Close()
			return nil, fmt.Errorf("connect rpc: %w", err)
		}
		h.closers = append(h.closers, client.Close)
		clock = client
	default:
		h.manual = chain.NewManualClock(cfg.Height)
		clock = h.manual
	}

	var sink storage.Sink = storage.Nop{}
	if cfg.Events != "" {
		sink = storage.NewJsonlStorage(cfg.Events)
	}

	h.engine = amm.NewEngine(store, clock, amm.Options{
		Owner:  owner,
		Sink:   sink,
		Logger: logger,
	})
	return h, nil
}

func openStore(ctx context.Context, cfg config.Config) (state.Store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return state.NewMemoryStore(), nil
	case config.StorePostgres:
		if cfg.PGDSN == "" {
			return nil, fmt.Errorf("pg dsn is required for the postgres store")
		}
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	default:
		store, err := state.OpenLevelDB(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}
