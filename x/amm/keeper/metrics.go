package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// AMMMetrics holds all Prometheus metrics for the amm module
type AMMMetrics struct {
	// Instruction metrics
	InstructionsTotal  *prometheus.CounterVec
	InstructionLatency *prometheus.HistogramVec

	// Swap metrics
	SwapVolume *prometheus.CounterVec
	SwapFees   *prometheus.CounterVec
	SwapOutput *prometheus.CounterVec

	// Liquidity metrics
	LiquidityAdded   *prometheus.CounterVec
	LiquidityRemoved *prometheus.CounterVec
	LpMinted         *prometheus.CounterVec
	LpBurned         *prometheus.CounterVec

	// Pool metrics
	PoolReserves     *prometheus.GaugeVec
	LpSupply         *prometheus.GaugeVec
	PoolsInitialized prometheus.Counter
}

// NewAMMMetrics creates the amm metrics and registers them with reg. A nil
// reg leaves them unregistered.
func NewAMMMetrics(reg prometheus.Registerer) *AMMMetrics {
	factory := promauto.With(reg)
	return &AMMMetrics{
		InstructionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cpamm",
				Subsystem: "amm",
				Name:      "instructions_total",
				Help:      "Total number of instructions processed",
			},
			[]string{"instruction", "status"},
		),
		InstructionLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "cpamm",
				Subsystem: "amm",
				Name:      "instruction_latency_seconds",
				Help:      "Instruction execution latency in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
			},
			[]string{"instruction"},
		),
		SwapVolume: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cpamm",
				Subsystem: "amm",
				Name:      "swap_volume_total",
				Help:      "Total swap input in base units",
			},
			[]string{"pool", "mint_in"},
		),
		SwapFees: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cpamm",
				Subsystem: "amm",
				Name:      "swap_fees_total",
				Help:      "Total swap fees retained by pools in base units",
			},
			[]string{"pool", "mint_in"},
		),
		SwapOutput: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cpamm",
				Subsystem: "amm",
				Name:      "swap_output_total",
				Help:      "Total swap output in base units",
			},
			[]string{"pool", "mint_out"},
		),
		LiquidityAdded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cpamm",
				Subsystem: "amm",
				Name:      "liquidity_added_total",
				Help:      "Total assets deposited into pools",
			},
			[]string{"pool", "asset"},
		),
		LiquidityRemoved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cpamm",
				Subsystem: "amm",
				Name:      "liquidity_removed_total",
				Help:      "Total assets withdrawn from pools",
			},
			[]string{"pool", "asset"},
		),
		LpMinted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cpamm",
				Subsystem: "amm",
				Name:      "lp_minted_total",
				Help:      "Total LP tokens minted",
			},
			[]string{"pool"},
		),
		LpBurned: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cpamm",
				Subsystem: "amm",
				Name:      "lp_burned_total",
				Help:      "Total LP tokens burned",
			},
			[]string{"pool"},
		),
		PoolReserves: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "cpamm",
				Subsystem: "amm",
				Name:      "pool_reserves",
				Help:      "Current pool reserves",
			},
			[]string{"pool", "asset"},
		),
		LpSupply: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "cpamm",
				Subsystem: "amm",
				Name:      "lp_supply",
				Help:      "Current outstanding LP supply",
			},
			[]string{"pool"},
		),
		PoolsInitialized: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "cpamm",
				Subsystem: "amm",
				Name:      "pools_initialized_total",
				Help:      "Total number of pools initialized",
			},
		),
	}
}

type pendingMetricsKey struct{}

// PendingMetrics holds metric updates made under a context until the state
// they describe is committed.
type PendingMetrics struct {
	updates []func()
}

// WithPendingMetrics returns a context whose metric updates are held in the
// returned PendingMetrics instead of being applied.
func WithPendingMetrics(ctx sdk.Context) (sdk.Context, *PendingMetrics) {
	pending := &PendingMetrics{}
	return ctx.WithValue(pendingMetricsKey{}, pending), pending
}

// Flush applies the held updates in the order they were made.
func (p *PendingMetrics) Flush() {
	for _, update := range p.updates {
		update()
	}
	p.updates = nil
}

// Discard drops the held updates.
func (p *PendingMetrics) Discard() {
	p.updates = nil
}

// Len returns the number of held updates.
func (p *PendingMetrics) Len() int {
	return len(p.updates)
}

// release hands the held updates to the PendingMetrics of ctx, or applies
// them when ctx holds none.
func (p *PendingMetrics) release(ctx context.Context) {
	if parent, ok := ctx.Value(pendingMetricsKey{}).(*PendingMetrics); ok {
		parent.updates = append(parent.updates, p.updates...)
		p.updates = nil
		return
	}
	p.Flush()
}

// record applies update to the metrics, or holds it when ctx defers metrics.
func (k Keeper) record(ctx context.Context, update func(m *AMMMetrics)) {
	if k.metrics == nil {
		return
	}
	m := k.metrics
	if pending, ok := ctx.Value(pendingMetricsKey{}).(*PendingMetrics); ok {
		pending.updates = append(pending.updates, func() { update(m) })
		return
	}
	update(m)
}

func (k Keeper) observeLedger(ctx context.Context, config solana.PublicKey, ledger types.VaultLedger) {
	pool := config.String()
	k.record(ctx, func(m *AMMMetrics) {
		m.PoolReserves.WithLabelValues(pool, "x").Set(float64(ledger.ReserveX))
		m.PoolReserves.WithLabelValues(pool, "y").Set(float64(ledger.ReserveY))
		m.LpSupply.WithLabelValues(pool).Set(float64(ledger.LpSupply))
	})
}
