package types_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/cpamm/x/amm/types"
)

func TestMsgInitializeValidateBasic(t *testing.T) {
	initializer := newKey(t)
	mintX, mintY := newKey(t), newKey(t)
	authority := newKey(t)
	var zero solana.PublicKey

	tests := []struct {
		name      string
		mutate    func(msg *types.MsgInitialize)
		expectErr error
	}{
		{"valid", func(msg *types.MsgInitialize) {}, nil},
		{"immutable pool", func(msg *types.MsgInitialize) { msg.Authority = nil }, nil},
		{"zero fee", func(msg *types.MsgInitialize) { msg.Fee = 0 }, nil},
		{"fee above max", func(msg *types.MsgInitialize) { msg.Fee = 10_001 }, types.ErrInvalidFee},
		{"same mints", func(msg *types.MsgInitialize) { msg.Pool.MintY = msg.Pool.MintX }, types.ErrInvalidAssetPair},
		{"empty mint", func(msg *types.MsgInitialize) { msg.Pool.MintX = zero }, types.ErrInvalidAssetPair},
		{"no initializer", func(msg *types.MsgInitialize) { msg.Initializer = zero }, types.ErrUnauthorized},
		{"zero authority", func(msg *types.MsgInitialize) { msg.Authority = &zero }, types.ErrUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := types.NewMsgInitialize(types.DefaultProgramID, initializer, 7, 30, &authority, mintX, mintY)
			require.NoError(t, err)
			tc.mutate(msg)

			err = msg.ValidateBasic()
			if tc.expectErr != nil {
				require.ErrorIs(t, err, tc.expectErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, []solana.PublicKey{initializer}, msg.GetSigners())
		})
	}
}

func TestMsgValidateBasicAmounts(t *testing.T) {
	signer := newKey(t)
	addrs, err := types.DerivePoolAddresses(types.DefaultProgramID, 1, newKey(t), newKey(t))
	require.NoError(t, err)
	pool := types.PoolAccounts{Config: addrs.Config, MintLp: addrs.MintLp, VaultX: addrs.VaultX, VaultY: addrs.VaultY}

	deposit := types.MsgDeposit{Depositor: signer, Pool: pool, Amount: 0, MaxX: 1, MaxY: 1}
	require.ErrorIs(t, deposit.ValidateBasic(), types.ErrInsufficientLiquidity)
	deposit.Amount = 1
	require.NoError(t, deposit.ValidateBasic())
	deposit.Depositor = solana.PublicKey{}
	require.ErrorIs(t, deposit.ValidateBasic(), types.ErrUnauthorized)

	withdraw := types.MsgWithdraw{Withdrawer: signer, Pool: pool}
	require.ErrorIs(t, withdraw.ValidateBasic(), types.ErrInsufficientLiquidity)
	withdraw.Amount = 1
	require.NoError(t, withdraw.ValidateBasic())

	swap := types.MsgSwap{Trader: signer, Pool: pool, IsX: true}
	require.ErrorIs(t, swap.ValidateBasic(), types.ErrInsufficientLiquidity)
	swap.Amount = 1
	require.NoError(t, swap.ValidateBasic())
	require.Equal(t, types.TypeMsgSwap, swap.Type())

	lock := types.MsgSetLocked{Config: addrs.Config, Locked: true}
	require.ErrorIs(t, lock.ValidateBasic(), types.ErrUnauthorized)
	lock.Authority = signer
	require.NoError(t, lock.ValidateBasic())
}

func TestNewMsgUsesAssociatedAccounts(t *testing.T) {
	trader := newKey(t)
	mintX, mintY := newKey(t), newKey(t)
	addrs, err := types.DerivePoolAddresses(types.DefaultProgramID, 9, mintX, mintY)
	require.NoError(t, err)
	pool := types.NewPoolAccounts(addrs, mintX, mintY)

	msg, err := types.NewMsgSwap(trader, pool, true, 100, 1)
	require.NoError(t, err)

	expected, err := types.DeriveUserAccounts(trader, mintX, mintY, addrs.MintLp)
	require.NoError(t, err)
	require.Equal(t, expected, msg.User)
	require.NotEqual(t, msg.User.UserX, msg.User.UserY)
}
