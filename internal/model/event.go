package model

// Event is an engine state change emitted after a successful commit.
type Event struct {
	Height     uint64      `json:"height"`
	EventName  string      `json:"event_name"`
	PoolID     uint64      `json:"pool_id,omitempty"`
	PositionID uint64      `json:"position_id,omitempty"`
	Caller     string      `json:"caller"`
	Decoded    interface{} `json:"decoded"`
}
