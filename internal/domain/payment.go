/**
 * @description
 * This file defines the payment domain models for the payment-service.
 * These structs represent rent and vendor-service payments and the DTOs
 * exchanged with the API layer.
 *
 * @notes
 * - Amounts are stored as `int64` in paise, which avoids floating-point
 *   inaccuracies with financial data.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Payment categories.
const (
	PaymentCategoryRent    = "rent"
	PaymentCategoryService = "service"
)

// Payment represents a settled payment record. This struct maps directly to
// the `payments` table in the database.
type Payment struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	PropertyID      *uuid.UUID `json:"property_id,omitempty"`
	Category        string    `json:"category"` // 'rent' or 'service'
	Amount          int64     `json:"amount"`   // gross amount due, in paise
	WalletUsed      int64     `json:"wallet_used"`
	AmountCharged   int64     `json:"amount_charged"`
	CashbackEarned  int64     `json:"cashback_earned"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"created_at"`
}

// PayRequest is the DTO for incoming payment confirmation API requests.
// WalletUsage mirrors the mobile app's bounded slider and is clamped, not
// rejected, when it falls outside the permitted range.
type PayRequest struct {
	PropertyID  *uuid.UUID `json:"property_id,omitempty"`
	Amount      int64      `json:"amount"`       // in paise
	WalletUsage int64      `json:"wallet_usage"` // in paise
	Description string     `json:"description"`
}

// PayResult is returned to the client after a successful settlement.
type PayResult struct {
	Payment *Payment `json:"payment"`
	Wallet  *Wallet  `json:"wallet"`
}

// PaymentListOptions controls pagination for payment history queries.
type PaymentListOptions struct {
	Limit    int
	Offset   int
	Category string
}

// PaymentSettledEvent is the message payload published to RabbitMQ after a
// settlement has been persisted.
type PaymentSettledEvent struct {
	PaymentID      uuid.UUID `json:"payment_id"`
	UserID         uuid.UUID `json:"user_id"`
	Category       string    `json:"category"`
	Amount         int64     `json:"amount"`
	WalletUsed     int64     `json:"wallet_used"`
	AmountCharged  int64     `json:"amount_charged"`
	CashbackEarned int64     `json:"cashback_earned"`
	Timestamp      time.Time `json:"timestamp"`
}

// WalletCreditedEvent is published when a bucket is credited outside of a
// settlement (referral bonus, owner discount grant).
type WalletCreditedEvent struct {
	UserID    uuid.UUID          `json:"user_id"`
	Bucket    WalletCreditBucket `json:"bucket"`
	Amount    int64              `json:"amount"`
	Reason    string             `json:"reason"`
	Timestamp time.Time          `json:"timestamp"`
}
