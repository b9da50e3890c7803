package storage

import "liquidityCore/internal/model"

// Sink receives the events of committed engine operations.
type Sink interface {
	PutEventBatch(events []model.Event) error
}

// Nop discards events.
type Nop struct{}

func (Nop) PutEventBatch([]model.Event) error { return nil }

// Memory keeps events in memory.
type Memory struct {
	Events []model.Event
}

func (m *Memory) PutEventBatch(events []model.Event) error {
	m.Events = append(m.Events, events...)
	return nil
}
