// Package chain provides the block-height clock the engine stamps state with.
package chain

import (
	"context"
	"sync"
)

// Clock reports the current block height.
type Clock interface {
	Now(ctx context.Context) (uint64, error)
}

// ManualClock is a Clock moved by hand.
type ManualClock struct {
	mu     sync.Mutex
	height uint64
}

func NewManualClock(height uint64) *ManualClock {
	return &ManualClock{height: height}
}

func (c *ManualClock) Now(context.Context) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height, nil
}

// Set moves the clock to height. Moving backwards is allowed.
func (c *ManualClock) Set(height uint64) {
	c.mu.Lock()
	c.height = height
	c.mu.Unlock()
}

// Advance moves the clock forward by n blocks and returns the new height.
func (c *ManualClock) Advance(n uint64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.height += n
	return c.height
}
