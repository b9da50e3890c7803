// Package replay applies a JSONL script of engine operations.
package replay

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Operation names.
const (
	OpCreatePool          = "create_pool"
	OpCreatePosition      = "create_position"
	OpDecreaseLiquidity   = "decrease_liquidity"
	OpCollectFees         = "collect_fees"
	OpCollectProtocolFees = "collect_protocol_fees"
	OpSwap                = "swap"
	OpToggleShutdown      = "toggle_shutdown"
	OpToggleProtocolFee   = "toggle_protocol_fee"
)

// Op is one line of a script. Amounts are decimal strings.
type Op struct {
	Op     string `json:"op"`
	Height uint64 `json:"height,omitempty"`
	Caller string `json:"caller"`

	TokenX      string `json:"token_x,omitempty"`
	TokenY      string `json:"token_y,omitempty"`
	SqrtPrice   string `json:"sqrt_price,omitempty"`
	TickSpacing int32  `json:"tick_spacing,omitempty"`

	PoolID     uint64 `json:"pool_id,omitempty"`
	PositionID uint64 `json:"position_id,omitempty"`
	AmountX    string `json:"amount_x,omitempty"`
	AmountY    string `json:"amount_y,omitempty"`
	LowerTick  int32  `json:"lower_tick,omitempty"`
	UpperTick  int32  `json:"upper_tick,omitempty"`
	Liquidity  string `json:"liquidity,omitempty"`

	TokenIn      string `json:"token_in,omitempty"`
	AmountIn     string `json:"amount_in,omitempty"`
	MinAmountOut string `json:"min_amount_out,omitempty"`
}

// ParseOp decodes a script line.
func ParseOp(line []byte) (Op, error) {
	var op Op
	if err := json.Unmarshal(line, &op); err != nil {
		return Op{}, fmt.Errorf("decode op: %w", err)
	}
	op.Op = strings.ToLower(strings.TrimSpace(op.Op))
	if op.Op == "" {
		return Op{}, fmt.Errorf("missing op")
	}
	return op, nil
}

// ParseAddress converts a hex string into common.Address.
func ParseAddress(field, input string) (common.Address, error) {
	input = strings.TrimSpace(input)
	if !common.IsHexAddress(input) {
		return common.Address{}, fmt.Errorf("invalid %s address: %q", field, input)
	}
	return common.HexToAddress(input), nil
}

// ParseAmount converts a decimal string into an amount. Empty is zero when
// optional is set.
func ParseAmount(field, input string, optional bool) (*uint256.Int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		if optional {
			return new(uint256.Int), nil
		}
		return nil, fmt.Errorf("missing %s", field)
	}
	v, err := uint256.FromDecimal(input)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", field, input, err)
	}
	return v, nil
}
