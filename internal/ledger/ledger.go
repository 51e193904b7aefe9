/**
 * @description
 * This package contains the wallet settlement calculation for the
 * payment-service. It is the single place where a wallet spend is allocated
 * across the three balance buckets and where the cashback credit for a
 * payment is computed.
 *
 * Key features:
 * - Pure computation on int64 paise; no I/O, no hidden state, safe to call
 *   from any goroutine without locks.
 * - Deterministic bucket debit order: owner discount, then cashback, then
 *   referral. The ordering is business policy, not incidental.
 * - The requested wallet usage is clamped into its valid range rather than
 *   rejected, mirroring the bounded slider in the mobile app.
 *
 * @notes
 * - Callers own persistence and exactly-once invocation; Settle itself has
 *   no notion of a payment having already happened.
 */

package ledger

import "errors"

// ErrInvalidAmount is returned when the amount due is zero or negative. The
// API layer only ever submits form-validated positive amounts, so reaching
// this error indicates a programming bug in the caller, not user input.
var ErrInvalidAmount = errors.New("payment amount must be positive")

// Default business rates. The config layer passes these through Options so a
// rate change is an environment edit, not a code change.
const (
	DefaultCapPercent      = 10 // wallet may cover at most 10% of the amount due
	DefaultCashbackPercent = 2  // 2% of the charged amount accrues as cashback
)

// Balance holds the three wallet buckets, in paise. All values must be >= 0.
type Balance struct {
	OwnerDiscount int64
	Cashback      int64
	Referral      int64
}

// Total returns the combined balance across all buckets.
func (b Balance) Total() int64 {
	return b.OwnerDiscount + b.Cashback + b.Referral
}

// Request describes a single payment attempt.
type Request struct {
	// Amount is the gross amount due, in paise. Must be positive.
	Amount int64
	// WalletUsage is the amount the user opted to apply from the wallet.
	// Values outside [0, min(balance total, cap)] are clamped, not rejected.
	WalletUsage int64
}

// Options carries the business rates for a settlement.
type Options struct {
	CapPercent      int64 // max wallet coverage as a percentage of Amount
	CashbackPercent int64 // cashback accrual as a percentage of the charge
}

// DefaultOptions returns the production rates.
func DefaultOptions() Options {
	return Options{CapPercent: DefaultCapPercent, CashbackPercent: DefaultCashbackPercent}
}

// Result is the outcome of a settlement.
type Result struct {
	// Balance is the wallet state after debits and the cashback credit.
	Balance Balance
	// WalletUsed is the clamped amount actually taken from the wallet.
	WalletUsed int64
	// AmountCharged is what the payment method is charged: Amount - WalletUsed.
	AmountCharged int64
	// CashbackEarned is floor(AmountCharged * CashbackPercent / 100), already
	// credited into Balance.Cashback.
	CashbackEarned int64
}

// Settle allocates a wallet spend across buckets and computes the cashback
// credit for one payment.
//
// The debit order is fixed: the owner-discount bucket is drained first, then
// cashback, then referral, carrying the remainder forward at each step. The
// cashback credit is applied after the debits, so a credit earned by this
// payment is never available to offset its own debit.
//
// Invariants on return: every bucket is >= 0 and
// AmountCharged + WalletUsed == req.Amount exactly.
func Settle(bal Balance, req Request, opts Options) (Result, error) {
	if req.Amount <= 0 {
		return Result{}, ErrInvalidAmount
	}
	// Negative rates are treated as zero; a zero cap disables wallet usage
	// and a zero cashback rate disables accrual.
	if opts.CapPercent < 0 {
		opts.CapPercent = 0
	}
	if opts.CashbackPercent < 0 {
		opts.CashbackPercent = 0
	}

	walletToUse := clamp(req.WalletUsage, 0, maxWalletUsage(bal, req.Amount, opts.CapPercent))

	remaining := walletToUse
	fromOwnerDiscount := min64(remaining, bal.OwnerDiscount)
	remaining -= fromOwnerDiscount
	fromCashback := min64(remaining, bal.Cashback)
	remaining -= fromCashback
	fromReferral := min64(remaining, bal.Referral)
	remaining -= fromReferral

	// maxWalletUsage caps the spend at the total balance, so the carry must
	// be fully absorbed by the third bucket.
	if remaining != 0 {
		return Result{}, ErrInvalidAmount
	}

	amountCharged := req.Amount - walletToUse
	// Integer division truncates toward zero; amountCharged is non-negative,
	// so this is the floor the cashback contract requires.
	cashbackEarned := amountCharged * opts.CashbackPercent / 100

	return Result{
		Balance: Balance{
			OwnerDiscount: bal.OwnerDiscount - fromOwnerDiscount,
			Cashback:      bal.Cashback - fromCashback + cashbackEarned,
			Referral:      bal.Referral - fromReferral,
		},
		WalletUsed:     walletToUse,
		AmountCharged:  amountCharged,
		CashbackEarned: cashbackEarned,
	}, nil
}

// MaxWalletUsage returns the upper bound the settlement will clamp a wallet
// usage request to. The API layer uses it to size the slider.
func MaxWalletUsage(bal Balance, amount int64, capPercent int64) int64 {
	if amount <= 0 {
		return 0
	}
	return maxWalletUsage(bal, amount, capPercent)
}

func maxWalletUsage(bal Balance, amount int64, capPercent int64) int64 {
	if capPercent < 0 {
		capPercent = 0
	}
	return min64(bal.Total(), amount*capPercent/100)
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
