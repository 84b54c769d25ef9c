package keeper

import (
	"context"
	"fmt"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/cpamm/x/amm/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the amm MsgServer interface.
// Every instruction runs in a cached context that is written back only when
// the instruction succeeds.
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// Initialize handles pool creation
func (ms msgServer) Initialize(goCtx context.Context, msg *types.MsgInitialize) (*types.MsgInitializeResponse, error) {
	var addrs types.PoolAddresses
	err := ms.atomic(goCtx, types.TypeMsgInitialize, func(ctx sdk.Context) (err error) {
		addrs, err = ms.Keeper.InitializePool(ctx, msg)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("Initialize: %w", err)
	}
	return &types.MsgInitializeResponse{Addresses: addrs}, nil
}

// Deposit handles adding liquidity
func (ms msgServer) Deposit(goCtx context.Context, msg *types.MsgDeposit) (*types.MsgDepositResponse, error) {
	var quote types.DepositQuote
	err := ms.atomic(goCtx, types.TypeMsgDeposit, func(ctx sdk.Context) (err error) {
		quote, err = ms.Keeper.Deposit(ctx, msg)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("Deposit: %w", err)
	}
	return &types.MsgDepositResponse{Quote: quote}, nil
}

// Withdraw handles removing liquidity
func (ms msgServer) Withdraw(goCtx context.Context, msg *types.MsgWithdraw) (*types.MsgWithdrawResponse, error) {
	var quote types.WithdrawQuote
	err := ms.atomic(goCtx, types.TypeMsgWithdraw, func(ctx sdk.Context) (err error) {
		quote, err = ms.Keeper.Withdraw(ctx, msg)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("Withdraw: %w", err)
	}
	return &types.MsgWithdrawResponse{Quote: quote}, nil
}

// Swap handles token swaps
func (ms msgServer) Swap(goCtx context.Context, msg *types.MsgSwap) (*types.MsgSwapResponse, error) {
	var quote types.SwapQuote
	err := ms.atomic(goCtx, types.TypeMsgSwap, func(ctx sdk.Context) (err error) {
		quote, err = ms.Keeper.Swap(ctx, msg)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("Swap: %w", err)
	}
	return &types.MsgSwapResponse{Quote: quote}, nil
}

// SetLocked handles locking and unlocking a pool
func (ms msgServer) SetLocked(goCtx context.Context, msg *types.MsgSetLocked) (*types.MsgSetLockedResponse, error) {
	var changed bool
	err := ms.atomic(goCtx, types.TypeMsgSetLocked, func(ctx sdk.Context) (err error) {
		changed, err = ms.Keeper.SetLocked(ctx, msg)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("SetLocked: %w", err)
	}
	return &types.MsgSetLockedResponse{Locked: msg.Locked, Changed: changed}, nil
}

// atomic runs fn against a cache of the current state and commits it only
// if fn succeeds, so a rejected instruction leaves no trace.
func (ms msgServer) atomic(goCtx context.Context, instruction string, fn func(ctx sdk.Context) error) error {
	start := time.Now()
	ctx := sdk.UnwrapSDKContext(goCtx)
	cacheCtx, writeFn := ctx.CacheContext()
	cacheCtx, pending := WithPendingMetrics(cacheCtx)

	err := fn(cacheCtx)
	latency := time.Since(start).Seconds()
	if err != nil {
		pending.Discard()
		if ms.metrics != nil {
			ms.metrics.InstructionLatency.WithLabelValues(instruction).Observe(latency)
			ms.metrics.InstructionsTotal.WithLabelValues(instruction, "rejected").Inc()
		}
		ms.Logger(ctx).Debug("instruction rejected", "instruction", instruction, "error", err)
		return err
	}

	writeFn()
	ms.record(cacheCtx, func(m *AMMMetrics) {
		m.InstructionLatency.WithLabelValues(instruction).Observe(latency)
		m.InstructionsTotal.WithLabelValues(instruction, "success").Inc()
	})
	// held until the caller's state is committed, if it defers metrics
	pending.release(ctx)
	return nil
}
