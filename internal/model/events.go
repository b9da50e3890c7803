package model

// Event names.
const (
	EventPoolCreated        = "PoolCreated"
	EventMint               = "Mint"
	EventBurn               = "Burn"
	EventSwap               = "Swap"
	EventCollect            = "Collect"
	EventShutdownToggled    = "ShutdownToggled"
	EventProtocolFeeToggled = "ProtocolFeeToggled"
)

// PoolCreatedEventData is the PoolCreated payload.
type PoolCreatedEventData struct {
	TokenX      string `json:"token_x"`
	TokenY      string `json:"token_y"`
	SqrtPrice   string `json:"sqrt_price"`
	TickSpacing int32  `json:"tick_spacing"`
	FeeRate     uint64 `json:"fee_rate"`
}

// SwapEventData is the Swap payload.
type SwapEventData struct {
	Sender    string `json:"sender"`
	TokenIn   string `json:"token_in"`
	XForY     bool   `json:"x_for_y"`
	AmountIn  string `json:"amount_in"`
	AmountOut string `json:"amount_out"`
	FeeRate   uint64 `json:"fee_rate"`
	FeeAmount string `json:"fee_amount"`
	ReserveX  string `json:"reserve_x"`
	ReserveY  string `json:"reserve_y"`
}

// MintEventData is the Mint payload.
type MintEventData struct {
	Owner     string `json:"owner"`
	TickLower int32  `json:"tick_lower"`
	TickUpper int32  `json:"tick_upper"`
	Amount    string `json:"amount"`
	Amount0   string `json:"amount0"`
	Amount1   string `json:"amount1"`
}

// BurnEventData is the Burn payload.
type BurnEventData struct {
	Owner     string `json:"owner"`
	TickLower int32  `json:"tick_lower"`
	TickUpper int32  `json:"tick_upper"`
	Amount    string `json:"amount"`
	Amount0   string `json:"amount0"`
	Amount1   string `json:"amount1"`
}

// CollectEventData is the Collect payload.
type CollectEventData struct {
	Owner   string `json:"owner"`
	Amount0 string `json:"amount0"`
	Amount1 string `json:"amount1"`
}

// FlagEventData is the payload of the flag toggle events.
type FlagEventData struct {
	Enabled bool `json:"enabled"`
}
