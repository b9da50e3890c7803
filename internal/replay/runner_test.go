package replay

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"liquidityCore/internal/amm"
	"liquidityCore/internal/chain"
	"liquidityCore/internal/state"
)

type recorder struct {
	values []interface{}
}

func (r *recorder) Write(v interface{}) error {
	r.values = append(r.values, v)
	return nil
}

const ownerHex = "0x00000000000000000000000000000000000000aa"

const script = `{"op":"create_pool","height":10,"caller":"0x00000000000000000000000000000000000000a1","token_x":"0x0000000000000000000000000000000000000001","token_y":"0x0000000000000000000000000000000000000002","sqrt_price":"1000000","tick_spacing":10}
{"op":"create_position","caller":"0x00000000000000000000000000000000000000a1","pool_id":1,"amount_x":"2000000","amount_y":"2000000","lower_tick":-10,"upper_tick":10}

{"op":"swap","height":12,"caller":"0x00000000000000000000000000000000000000b0","pool_id":1,"token_in":"0x0000000000000000000000000000000000000001","amount_in":"100000","min_amount_out":"95229"}
{"op":"swap","height":12,"caller":"0x00000000000000000000000000000000000000b0","pool_id":1,"token_in":"0x0000000000000000000000000000000000000001","amount_in":"100000"}
{"op":"toggle_shutdown","caller":"0x00000000000000000000000000000000000000b0"}
{"op":"collect_fees","caller":"0x00000000000000000000000000000000000000a1","position_id":1}
{"op":"swap","caller":"not-an-address"}
{not json
{"op":"burn_everything","caller":"0x00000000000000000000000000000000000000a1"}
`

func newTestRunner(t *testing.T, cfg RunConfig) (*Runner, *amm.Engine, *recorder, *recorder) {
	t.Helper()
	store := state.NewMemoryStore()
	t.Cleanup(func() { store.Close() })

	clock := chain.NewManualClock(0)
	engine := amm.NewEngine(store, clock, amm.Options{Owner: common.HexToAddress(ownerHex)})
	receipts, failures := &recorder{}, &recorder{}
	return NewRunner(cfg, engine, clock, receipts, failures, nil), engine, receipts, failures
}

func TestRunScript(t *testing.T) {
	ctx := context.Background()
	runner, engine, receipts, failures := newTestRunner(t, RunConfig{Script: "test"})

	stats, err := runner.Run(ctx, strings.NewReader(script))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Total != 9 || stats.Applied != 4 || stats.Failed != 5 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	swap := receipts.values[2].(Receipt)
	if swap.Line != 5 || swap.AmountOut != "95228" || swap.Height != 12 {
		t.Fatalf("unexpected swap receipt: %+v", swap)
	}
	collect := receipts.values[3].(Receipt)
	if collect.Amount0 != "10" || collect.Amount1 != "0" {
		t.Fatalf("unexpected collect receipt: %+v", collect)
	}

	wantNames := []string{"SlippageExceeded", "NotAuthorized", "Malformed", "Malformed", "Malformed"}
	wantLines := []int{4, 6, 8, 9, 10}
	for i, v := range failures.values {
		f := v.(Failure)
		if f.Name != wantNames[i] || f.Line != wantLines[i] {
			t.Fatalf("failure %d: got %s on line %d, want %s on line %d", i, f.Name, f.Line, wantNames[i], wantLines[i])
		}
	}
	if failures.values[0].(Failure).Code != amm.CodeSlippageExceeded {
		t.Fatalf("unexpected code: %+v", failures.values[0])
	}

	pool, err := engine.Pool(ctx, 1)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	if pool.LastUpdated != 12 {
		t.Fatalf("pool stamped at %d, want 12", pool.LastUpdated)
	}
}

func TestRunResumesFromCheckpoint(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	cfg := RunConfig{Script: "test", CheckpointPath: path, CheckpointEnabled: true}

	lines := strings.SplitAfter(script, "\n")
	head := strings.Join(lines[:2], "")

	runner, engine, _, _ := newTestRunner(t, cfg)
	if _, err := runner.Run(ctx, strings.NewReader(head)); err != nil {
		t.Fatalf("first run: %v", err)
	}

	cp, ok, err := NewCheckpointStore(path, true).Load()
	if err != nil || !ok {
		t.Fatalf("load checkpoint: %v %v", ok, err)
	}
	if cp.LastAppliedLine != 2 {
		t.Fatalf("checkpoint line: got %d, want 2", cp.LastAppliedLine)
	}

	// same engine, full script: the first two lines are not applied again
	resumed := NewRunner(cfg, engine, nil, &recorder{}, &recorder{}, nil)
	stats, err := resumed.Run(ctx, strings.NewReader(script))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if stats.Skipped != 2 {
		t.Fatalf("skipped: got %d, want 2", stats.Skipped)
	}
	if _, err := engine.Position(ctx, 2); err == nil {
		t.Fatalf("position created twice")
	}
}

func TestParseAmount(t *testing.T) {
	if v, err := ParseAmount("x", "", true); err != nil || !v.IsZero() {
		t.Fatalf("optional empty: %v %v", v, err)
	}
	if _, err := ParseAmount("x", "", false); err == nil {
		t.Fatalf("expected error for missing amount")
	}
	if _, err := ParseAmount("x", "-5", false); err == nil {
		t.Fatalf("expected error for negative amount")
	}
	v, err := ParseAmount("x", "340282366920938463463374607431768211455", false)
	if err != nil || v.Dec() != "340282366920938463463374607431768211455" {
		t.Fatalf("large amount: %v %v", v, err)
	}
}
