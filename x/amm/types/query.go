package types

import (
	"context"

	"github.com/cosmos/cosmos-sdk/types/query"
	"github.com/gagliardetto/solana-go"
)

// QueryPoolRequest selects a pool by its config address.
type QueryPoolRequest struct {
	Config solana.PublicKey `json:"config"`
}

// QueryPoolBySeedRequest selects a pool by its creation seed.
type QueryPoolBySeedRequest struct {
	Seed uint64 `json:"seed"`
}

// QueryPoolResponse is the state of one pool together with its derived addresses.
type QueryPoolResponse struct {
	Pool      PoolState     `json:"pool"`
	Addresses PoolAddresses `json:"addresses"`
}

// QueryPoolsRequest lists pools page by page.
type QueryPoolsRequest struct {
	Pagination *query.PageRequest `json:"pagination,omitempty"`
}

// QueryPoolsResponse is one page of pools.
type QueryPoolsResponse struct {
	Pools      []PoolState         `json:"pools"`
	Pagination *query.PageResponse `json:"pagination,omitempty"`
}

// QuerySimulateDepositRequest prices a deposit without executing it.
type QuerySimulateDepositRequest struct {
	Config solana.PublicKey `json:"config"`
	Amount uint64           `json:"amount"`
	MaxX   uint64           `json:"max_x"`
	MaxY   uint64           `json:"max_y"`
}

// QuerySimulateDepositResponse is the priced deposit.
type QuerySimulateDepositResponse struct {
	Quote DepositQuote `json:"quote"`
}

// QuerySimulateWithdrawRequest prices a withdrawal without executing it.
type QuerySimulateWithdrawRequest struct {
	Config solana.PublicKey `json:"config"`
	Amount uint64           `json:"amount"`
	MinX   uint64           `json:"min_x"`
	MinY   uint64           `json:"min_y"`
}

// QuerySimulateWithdrawResponse is the priced withdrawal.
type QuerySimulateWithdrawResponse struct {
	Quote WithdrawQuote `json:"quote"`
}

// QuerySimulateSwapRequest prices a swap without executing it.
type QuerySimulateSwapRequest struct {
	Config solana.PublicKey `json:"config"`
	IsX    bool             `json:"is_x"`
	Amount uint64           `json:"amount"`
	Min    uint64           `json:"min"`
}

// QuerySimulateSwapResponse is the priced swap.
type QuerySimulateSwapResponse struct {
	Quote SwapQuote `json:"quote"`
}

// QueryServer is the read-only surface of the module.
type QueryServer interface {
	Pool(context.Context, *QueryPoolRequest) (*QueryPoolResponse, error)
	PoolBySeed(context.Context, *QueryPoolBySeedRequest) (*QueryPoolResponse, error)
	Pools(context.Context, *QueryPoolsRequest) (*QueryPoolsResponse, error)
	SimulateDeposit(context.Context, *QuerySimulateDepositRequest) (*QuerySimulateDepositResponse, error)
	SimulateWithdraw(context.Context, *QuerySimulateWithdrawRequest) (*QuerySimulateWithdrawResponse, error)
	SimulateSwap(context.Context, *QuerySimulateSwapRequest) (*QuerySimulateSwapResponse, error)
}
