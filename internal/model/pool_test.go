package model

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

func TestPoolJSONRoundTrip(t *testing.T) {
	original := NewPool()
	original.ID = 9
	original.TokenX = common.HexToAddress("0x1111111111111111111111111111111111111111")
	original.TokenY = common.HexToAddress("0x2222222222222222222222222222222222222222")
	original.ReserveX = uint256.MustFromDecimal("340282366920938463463374607431768211455")
	original.ReserveY = uint256.NewInt(2_000_000)
	original.FeeRate = 100
	original.SqrtPrice = uint256.NewInt(1_000_000)
	original.TickSpacing = 10
	original.LastUpdated = 36000000

	b, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(b), `"reserve_x":"340282366920938463463374607431768211455"`) {
		t.Fatalf("amounts should be decimal strings: %s", b)
	}

	var decoded Pool
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(original, &decoded) {
		t.Fatalf("round-trip mismatch: %+v != %+v", original, decoded)
	}
}

func TestPoolCloneIsDeep(t *testing.T) {
	original := NewPool()
	original.ReserveX.SetUint64(5)

	clone := original.Clone()
	clone.ReserveX.SetUint64(6)

	if original.ReserveX.Uint64() != 5 {
		t.Fatalf("clone shares reserve storage")
	}
}

func TestPoolCloneFillsMissingFeeTotals(t *testing.T) {
	// records written before the uncollected totals existed decode with nil fields
	var decoded Pool
	if err := json.Unmarshal([]byte(`{"id":1,"reserve_x":"10","reserve_y":"10"}`), &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	clone := decoded.Clone()
	if clone.UncollectedFeesX == nil || !clone.UncollectedFeesX.IsZero() || clone.UncollectedFeesY == nil {
		t.Fatalf("uncollected fees should default to zero: %+v", clone)
	}

	clone.UncollectedFeesX.SetUint64(3)
	again := clone.Clone()
	again.UncollectedFeesX.SetUint64(4)
	if clone.UncollectedFeesX.Uint64() != 3 {
		t.Fatalf("clone shares uncollected fee storage")
	}
}
