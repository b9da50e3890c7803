package model

import "encoding/json"

// EventRecord is the JSON representation used when reading events back.
type EventRecord struct {
	Height     uint64          `json:"height"`
	EventName  string          `json:"event_name"`
	PoolID     uint64          `json:"pool_id,omitempty"`
	PositionID uint64          `json:"position_id,omitempty"`
	Caller     string          `json:"caller"`
	Decoded    json.RawMessage `json:"decoded"`
}
