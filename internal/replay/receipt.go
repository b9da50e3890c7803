package replay

import (
	"errors"

	"github.com/holiman/uint256"

	"liquidityCore/internal/amm"
)

// Receipt is the result of an applied line.
type Receipt struct {
	Line       int    `json:"line"`
	Op         string `json:"op"`
	Height     uint64 `json:"height,omitempty"`
	PoolID     uint64 `json:"pool_id,omitempty"`
	PositionID uint64 `json:"position_id,omitempty"`
	AmountOut  string `json:"amount_out,omitempty"`
	Amount0    string `json:"amount0,omitempty"`
	Amount1    string `json:"amount1,omitempty"`
	Enabled    *bool  `json:"enabled,omitempty"`
}

// Failure is a line the engine rejected, or that could not be parsed.
type Failure struct {
	Line     int          `json:"line"`
	Op       string       `json:"op,omitempty"`
	Code     amm.Code     `json:"code"`
	Name     string       `json:"name"`
	Category amm.Category `json:"category,omitempty"`
	Error    string       `json:"error"`
}

func newFailure(line int, op string, err error) Failure {
	code := amm.CodeOf(err)
	f := Failure{
		Line:     line,
		Op:       op,
		Code:     code,
		Name:     code.String(),
		Category: amm.CategoryOf(err),
		Error:    err.Error(),
	}
	if errors.Is(err, errMalformed) {
		f.Name = "Malformed"
		f.Category = amm.CategoryValidation
	}
	return f
}

func decimal(v *uint256.Int) string {
	if v == nil {
		return ""
	}
	return v.Dec()
}
