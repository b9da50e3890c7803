package model

// PoolWindowMetrics stores aggregated swap metrics for a pool over a window of
// block heights [WindowStart, WindowEnd).
type PoolWindowMetrics struct {
	PoolID           uint64  `json:"pool_id"`
	WindowSizeBlocks uint64  `json:"window_size_blocks"`
	WindowStart      uint64  `json:"window_start"`
	WindowEnd        uint64  `json:"window_end"`
	SwapCount        uint64  `json:"swap_count"`
	VolumeX          string  `json:"volume_x"`
	VolumeY          string  `json:"volume_y"`
	FeeX             string  `json:"fee_x"`
	FeeY             string  `json:"fee_y"`
	ReserveX         string  `json:"reserve_x"`
	ReserveY         string  `json:"reserve_y"`
	FeeRateX         *string `json:"fee_rate_x,omitempty"`
	FeeRateY         *string `json:"fee_rate_y,omitempty"`
	LastHeight       uint64  `json:"last_height"`
}
