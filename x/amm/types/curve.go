package types

import (
	"cosmossdk.io/math"
)

// MaxFeeBps is the fee denominator: 10000 basis points is 100%.
const MaxFeeBps = 10_000

// DepositQuote is what a deposit moves: assets in, LP minted.
type DepositQuote struct {
	AmountX uint64 `json:"amount_x"`
	AmountY uint64 `json:"amount_y"`
	Lp      uint64 `json:"lp"`
}

// WithdrawQuote is what a withdrawal moves: LP burned, assets out.
type WithdrawQuote struct {
	AmountX uint64 `json:"amount_x"`
	AmountY uint64 `json:"amount_y"`
	Lp      uint64 `json:"lp"`
}

// SwapQuote is what a swap moves. Fee is the part of AmountIn that does not
// count towards pricing but stays in the pool.
type SwapQuote struct {
	AmountIn    uint64 `json:"amount_in"`
	EffectiveIn uint64 `json:"effective_in"`
	Fee         uint64 `json:"fee"`
	AmountOut   uint64 `json:"amount_out"`
}

// ValidateRange rejects zero-magnitude amounts before any pool math runs.
func ValidateRange(name string, amount uint64) error {
	if amount == 0 {
		return ErrInsufficientLiquidity.Wrapf("%s must be positive", name)
	}
	return nil
}

// QuoteDeposit computes the assets required to mint desiredLp.
//
// On an empty pool the depositor sets the price: the reserves become exactly
// maxX and maxY and the LP supply becomes desiredLp. Otherwise the required
// amounts are the pro-rata share of the reserves, rounded up.
func QuoteDeposit(ledger VaultLedger, desiredLp, maxX, maxY uint64) (DepositQuote, error) {
	q, _, err := PlanDeposit(ledger, desiredLp, maxX, maxY)
	return q, err
}

// PlanDeposit is QuoteDeposit that also returns the ledger after the deposit
// lands.
func PlanDeposit(ledger VaultLedger, desiredLp, maxX, maxY uint64) (DepositQuote, VaultLedger, error) {
	if err := ValidateRange("lp amount", desiredLp); err != nil {
		return DepositQuote{}, VaultLedger{}, err
	}
	if err := ledger.Validate(); err != nil {
		return DepositQuote{}, VaultLedger{}, err
	}

	var q DepositQuote
	if ledger.IsEmpty() {
		if err := ValidateRange("initial x amount", maxX); err != nil {
			return DepositQuote{}, VaultLedger{}, err
		}
		if err := ValidateRange("initial y amount", maxY); err != nil {
			return DepositQuote{}, VaultLedger{}, err
		}
		q = DepositQuote{AmountX: maxX, AmountY: maxY, Lp: desiredLp}
	} else {
		x, err := mulDivCeil(desiredLp, ledger.ReserveX, ledger.LpSupply)
		if err != nil {
			return DepositQuote{}, VaultLedger{}, err
		}
		y, err := mulDivCeil(desiredLp, ledger.ReserveY, ledger.LpSupply)
		if err != nil {
			return DepositQuote{}, VaultLedger{}, err
		}
		if x > maxX || y > maxY {
			return DepositQuote{}, VaultLedger{}, ErrSlippageExceeded.Wrapf("deposit requires (%d, %d), max (%d, %d)", x, y, maxX, maxY)
		}
		q = DepositQuote{AmountX: x, AmountY: y, Lp: desiredLp}
	}

	next, err := ledger.ApplyDeposit(q)
	if err != nil {
		return DepositQuote{}, VaultLedger{}, err
	}
	return q, next, nil
}

// QuoteWithdrawal computes the assets released by burning burnLp, rounded down.
func QuoteWithdrawal(ledger VaultLedger, burnLp, minX, minY uint64) (WithdrawQuote, error) {
	if err := ValidateRange("lp amount", burnLp); err != nil {
		return WithdrawQuote{}, err
	}
	if err := ledger.Validate(); err != nil {
		return WithdrawQuote{}, err
	}
	if burnLp > ledger.LpSupply {
		return WithdrawQuote{}, ErrInsufficientLiquidity.Wrapf("burn %d exceeds lp supply %d", burnLp, ledger.LpSupply)
	}

	x, err := mulDivFloor(burnLp, ledger.ReserveX, ledger.LpSupply)
	if err != nil {
		return WithdrawQuote{}, err
	}
	y, err := mulDivFloor(burnLp, ledger.ReserveY, ledger.LpSupply)
	if err != nil {
		return WithdrawQuote{}, err
	}
	if x < minX || y < minY {
		return WithdrawQuote{}, ErrSlippageExceeded.Wrapf("withdrawal yields (%d, %d), min (%d, %d)", x, y, minX, minY)
	}
	return WithdrawQuote{AmountX: x, AmountY: y, Lp: burnLp}, nil
}

// QuoteSwap prices amountIn against the reserves. The fee is taken from the
// input first; the output is rounded down so k = reserveIn * reserveOut never
// decreases.
func QuoteSwap(reserveIn, reserveOut, amountIn uint64, feeBps uint16, minOut uint64) (SwapQuote, error) {
	if feeBps > MaxFeeBps {
		return SwapQuote{}, ErrInvalidFee.Wrapf("fee %d > %d", feeBps, MaxFeeBps)
	}
	if err := ValidateRange("swap amount", amountIn); err != nil {
		return SwapQuote{}, err
	}
	if reserveIn == 0 || reserveOut == 0 {
		return SwapQuote{}, ErrInsufficientLiquidity.Wrapf("reserves (%d, %d) are empty", reserveIn, reserveOut)
	}
	if _, err := checkedAdd(reserveIn, amountIn); err != nil {
		return SwapQuote{}, err
	}

	effectiveIn, err := mulDivFloor(amountIn, MaxFeeBps-uint64(feeBps), MaxFeeBps)
	if err != nil {
		return SwapQuote{}, err
	}

	// reserveIn + effectiveIn <= reserveIn + amountIn, which fits
	amountOut, err := mulDivFloor(effectiveIn, reserveOut, reserveIn+effectiveIn)
	if err != nil {
		return SwapQuote{}, err
	}
	if amountOut == 0 {
		return SwapQuote{}, ErrInsufficientLiquidity.Wrapf("swap of %d yields no output", amountIn)
	}
	if amountOut < minOut {
		return SwapQuote{}, ErrSlippageExceeded.Wrapf("swap yields %d, min %d", amountOut, minOut)
	}

	kBefore := math.NewIntFromUint64(reserveIn).Mul(math.NewIntFromUint64(reserveOut))
	kAfter := math.NewIntFromUint64(reserveIn + amountIn).Mul(math.NewIntFromUint64(reserveOut - amountOut))
	if kAfter.LT(kBefore) {
		return SwapQuote{}, ErrInvalidPoolState.Wrapf("constant product would decrease from %s to %s", kBefore, kAfter)
	}

	return SwapQuote{
		AmountIn:    amountIn,
		EffectiveIn: effectiveIn,
		Fee:         amountIn - effectiveIn,
		AmountOut:   amountOut,
	}, nil
}
