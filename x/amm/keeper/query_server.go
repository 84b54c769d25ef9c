package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/store/prefix"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/cosmos/cosmos-sdk/types/query"
	"github.com/gagliardetto/solana-go"

	"github.com/paw-chain/cpamm/x/amm/types"
)

type queryServer struct {
	Keeper
}

const (
	defaultPaginationLimit = 100
	maxPaginationLimit     = 1000
)

// NewQueryServerImpl returns an implementation of the amm QueryServer interface
func NewQueryServerImpl(keeper Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

var _ types.QueryServer = queryServer{}

// Pool returns a pool by its config address
func (qs queryServer) Pool(goCtx context.Context, req *types.QueryPoolRequest) (*types.QueryPoolResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}
	res, err := qs.poolResponse(goCtx, req.Config)
	if err != nil {
		return nil, fmt.Errorf("Pool: get pool %s: %w", req.Config, err)
	}
	return res, nil
}

// PoolBySeed returns the pool created with a seed
func (qs queryServer) PoolBySeed(goCtx context.Context, req *types.QueryPoolBySeedRequest) (*types.QueryPoolResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}
	config, err := types.DeriveConfigAddress(qs.programID, req.Seed)
	if err != nil {
		return nil, fmt.Errorf("PoolBySeed: derive seed %d: %w", req.Seed, err)
	}
	res, err := qs.poolResponse(goCtx, config.Key)
	if err != nil {
		return nil, fmt.Errorf("PoolBySeed: get pool for seed %d: %w", req.Seed, err)
	}
	return res, nil
}

// Pools returns all pools with pagination
func (qs queryServer) Pools(goCtx context.Context, req *types.QueryPoolsRequest) (*types.QueryPoolsResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	if req.Pagination == nil {
		req.Pagination = &query.PageRequest{Limit: defaultPaginationLimit}
	} else {
		if req.Pagination.Limit == 0 {
			req.Pagination.Limit = defaultPaginationLimit
		}
		if req.Pagination.Limit > maxPaginationLimit {
			req.Pagination.Limit = maxPaginationLimit
		}
	}

	pools := make([]types.PoolState, 0, int(req.Pagination.Limit))
	configStore := prefix.NewStore(qs.getStore(goCtx), types.ConfigKeyPrefix)

	pageRes, err := query.Paginate(configStore, req.Pagination, func(key []byte, value []byte) error {
		cfg, err := types.UnmarshalPoolConfig(value)
		if err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		config := solana.PublicKeyFromBytes(key)
		ledger, err := qs.GetVaultLedger(goCtx, config)
		if err != nil {
			return err
		}
		pools = append(pools, types.PoolState{Address: config, Config: cfg, Ledger: ledger})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Pools: paginate: %w", err)
	}

	return &types.QueryPoolsResponse{
		Pools:      pools,
		Pagination: pageRes,
	}, nil
}

// SimulateDeposit prices a deposit against the current reserves
func (qs queryServer) SimulateDeposit(goCtx context.Context, req *types.QuerySimulateDepositRequest) (*types.QuerySimulateDepositResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}
	pool, err := qs.GetPool(goCtx, req.Config)
	if err != nil {
		return nil, fmt.Errorf("SimulateDeposit: %w", err)
	}
	quote, err := types.QuoteDeposit(pool.Ledger, req.Amount, req.MaxX, req.MaxY)
	if err != nil {
		return nil, fmt.Errorf("SimulateDeposit: quote for pool %s: %w", req.Config, err)
	}
	return &types.QuerySimulateDepositResponse{Quote: quote}, nil
}

// SimulateWithdraw prices a withdrawal against the current reserves
func (qs queryServer) SimulateWithdraw(goCtx context.Context, req *types.QuerySimulateWithdrawRequest) (*types.QuerySimulateWithdrawResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}
	pool, err := qs.GetPool(goCtx, req.Config)
	if err != nil {
		return nil, fmt.Errorf("SimulateWithdraw: %w", err)
	}
	quote, err := types.QuoteWithdrawal(pool.Ledger, req.Amount, req.MinX, req.MinY)
	if err != nil {
		return nil, fmt.Errorf("SimulateWithdraw: quote for pool %s: %w", req.Config, err)
	}
	return &types.QuerySimulateWithdrawResponse{Quote: quote}, nil
}

// SimulateSwap simulates a swap without executing it
func (qs queryServer) SimulateSwap(goCtx context.Context, req *types.QuerySimulateSwapRequest) (*types.QuerySimulateSwapResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}
	pool, err := qs.GetPool(goCtx, req.Config)
	if err != nil {
		return nil, fmt.Errorf("SimulateSwap: %w", err)
	}
	reserveIn, reserveOut := pool.Ledger.Reserves(req.IsX)
	quote, err := types.QuoteSwap(reserveIn, reserveOut, req.Amount, pool.Config.Fee, req.Min)
	if err != nil {
		return nil, fmt.Errorf("SimulateSwap: quote for pool %s: %w", req.Config, err)
	}
	return &types.QuerySimulateSwapResponse{Quote: quote}, nil
}

func (qs queryServer) poolResponse(ctx context.Context, config solana.PublicKey) (*types.QueryPoolResponse, error) {
	pool, err := qs.GetPool(ctx, config)
	if err != nil {
		return nil, err
	}
	addrs, err := pool.Config.Addresses(qs.programID)
	if err != nil {
		return nil, err
	}
	return &types.QueryPoolResponse{Pool: pool, Addresses: addrs}, nil
}
