package model

// Flags are the global switches controlled by the system owner.
type Flags struct {
	EmergencyShutdown bool `json:"emergency_shutdown"`
	ProtocolFee       bool `json:"protocol_fee"`
}

// Counters hold the last allocated ids. Ids are never reused.
type Counters struct {
	LastPoolID     uint64 `json:"last_pool_id"`
	LastPositionID uint64 `json:"last_position_id"`
}
