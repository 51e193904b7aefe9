/**
 * @description
 * This file defines the `Repository` interface, which specifies the contract
 * for all data access operations required by the payment-service. Defining an
 * interface decouples the business logic from the PostgreSQL implementation
 * and lets the service layer be tested against stubs.
 *
 * @dependencies
 * - context, time: Standard Go libraries.
 * - github.com/google/uuid: For UUID handling.
 * - internal/domain: For the service's domain models.
 */

package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/DeepakTayde/rentpe-v1-sub001/internal/domain"
)

// Repository defines the set of methods for interacting with the database.
type Repository interface {
	// User methods
	// Resolve internal UUID from Clerk user id (e.g., "user_abc123").
	FindUserIDByClerkUserID(ctx context.Context, clerkUserID string) (uuid.UUID, error)

	// Wallet methods
	GetOrCreateWallet(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	// ApplySettlement writes the post-settlement bucket values and inserts the
	// payment row in a single database transaction. Nothing is written if any
	// statement fails.
	ApplySettlement(ctx context.Context, wallet *domain.Wallet, payment *domain.Payment) error
	CreditWalletBucket(ctx context.Context, userID uuid.UUID, bucket domain.WalletCreditBucket, amount int64) (*domain.Wallet, error)

	// Payment history methods
	ListPayments(ctx context.Context, userID uuid.UUID, opts domain.PaymentListOptions) ([]domain.Payment, error)

	// Notification methods
	CreateNotification(ctx context.Context, n *domain.Notification) error
	// CreateNotificationIfAbsent inserts the notification unless a row with
	// the same dedupe key already exists. Returns whether a row was inserted.
	CreateNotificationIfAbsent(ctx context.Context, n *domain.Notification, dedupeKey string) (bool, error)
	ListNotifications(ctx context.Context, userID uuid.UUID, opts domain.NotificationListOptions) ([]domain.Notification, error)
	ListUnreadNotifications(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, userID uuid.UUID, notificationID uuid.UUID) (bool, error)
	MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID, typ *string) (int64, error)
	DeleteNotification(ctx context.Context, userID uuid.UUID, notificationID uuid.UUID) (bool, error)

	// Vendor methods
	ListVendors(ctx context.Context, category string) ([]domain.Vendor, error)

	// Lease methods
	FindRentDueBetween(ctx context.Context, from, to time.Time) ([]domain.RentDue, error)
}
