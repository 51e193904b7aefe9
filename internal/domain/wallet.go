/**
 * @description
 * This file defines the wallet domain models for the payment-service.
 * A tenant's wallet is composed of three named buckets; all amounts are
 * stored as `int64` in paise (the smallest INR unit) to avoid
 * floating-point inaccuracies with financial data.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Wallet represents a tenant's wallet row in the database. The balance is
// split into three buckets that are debited in a fixed priority order during
// settlement: owner discount first, then cashback, then referral.
type Wallet struct {
	UserID        uuid.UUID `json:"user_id"`
	OwnerDiscount int64     `json:"owner_discount"` // in paise
	Cashback      int64     `json:"cashback"`       // in paise
	Referral      int64     `json:"referral"`       // in paise
	UpdatedAt     time.Time `json:"updated_at"`
}

// Total returns the combined balance across all three buckets.
func (w *Wallet) Total() int64 {
	return w.OwnerDiscount + w.Cashback + w.Referral
}

// WalletCreditBucket identifies which bucket an internal credit targets.
type WalletCreditBucket string

const (
	BucketOwnerDiscount WalletCreditBucket = "owner_discount"
	BucketCashback      WalletCreditBucket = "cashback"
	BucketReferral      WalletCreditBucket = "referral"
)

// Valid reports whether the bucket name is one of the three known buckets.
func (b WalletCreditBucket) Valid() bool {
	switch b {
	case BucketOwnerDiscount, BucketCashback, BucketReferral:
		return true
	}
	return false
}

// WalletCreditRequest is the DTO for internal credit operations (referral
// bonuses, owner discount grants, promotional cashback).
type WalletCreditRequest struct {
	UserID uuid.UUID          `json:"user_id"`
	Bucket WalletCreditBucket `json:"bucket"`
	Amount int64              `json:"amount"` // in paise
	Reason string             `json:"reason"`
}
