/**
 * @description
 * This file provides the PostgreSQL implementation of the `Repository`
 * interface. It contains all the SQL queries to interact with the wallets,
 * payments, notifications, vendors and leases tables.
 *
 * @dependencies
 * - context, errors, time: Standard Go libraries.
 * - github.com/jackc/pgx/v5: The PostgreSQL driver for database operations.
 * - internal/domain: Contains the domain models used for data transfer.
 */

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DeepakTayde/rentpe-v1-sub001/internal/domain"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrWalletNotFound       = errors.New("wallet not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidBucket        = errors.New("invalid wallet bucket")
)

// PostgresRepository is a concrete implementation of the Repository interface for PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindUserIDByClerkUserID resolves the internal UUID from a Clerk user id.
func (r *PostgresRepository) FindUserIDByClerkUserID(ctx context.Context, clerkUserID string) (uuid.UUID, error) {
	var id uuid.UUID
	// users table has a clerk_user_id column managed during onboarding.
	err := r.db.QueryRow(ctx, "SELECT id FROM users WHERE clerk_user_id = $1", clerkUserID).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return uuid.Nil, ErrUserNotFound
		}
		return uuid.Nil, err
	}
	return id, nil
}

// GetOrCreateWallet returns the user's wallet, creating an empty one on first
// use. Buckets start at zero for a fresh tenant session.
func (r *PostgresRepository) GetOrCreateWallet(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	query := `
		INSERT INTO wallets (user_id, owner_discount, cashback, referral, updated_at)
		VALUES ($1, 0, 0, 0, NOW())
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING user_id, owner_discount, cashback, referral, updated_at
	`
	var w domain.Wallet
	err := r.db.QueryRow(ctx, query, userID).Scan(&w.UserID, &w.OwnerDiscount, &w.Cashback, &w.Referral, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ApplySettlement persists a settlement atomically: the wallet row takes the
// post-settlement bucket values and the payment row is inserted, in one
// database transaction. There is no compensation path after commit; callers
// rely on this being all-or-nothing.
func (r *PostgresRepository) ApplySettlement(ctx context.Context, wallet *domain.Wallet, payment *domain.Payment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin settlement transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE wallets
		SET owner_discount = $2, cashback = $3, referral = $4, updated_at = NOW()
		WHERE user_id = $1
	`, wallet.UserID, wallet.OwnerDiscount, wallet.Cashback, wallet.Referral)
	if err != nil {
		return fmt.Errorf("failed to update wallet buckets: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrWalletNotFound
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO payments (id, user_id, property_id, category, amount, wallet_used, amount_charged, cashback_earned, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`, payment.ID, payment.UserID, payment.PropertyID, payment.Category, payment.Amount,
		payment.WalletUsed, payment.AmountCharged, payment.CashbackEarned, payment.Description)
	if err != nil {
		return fmt.Errorf("failed to insert payment record: %w", err)
	}

	return tx.Commit(ctx)
}

// CreditWalletBucket adds a positive amount to one named bucket and returns
// the updated wallet.
func (r *PostgresRepository) CreditWalletBucket(ctx context.Context, userID uuid.UUID, bucket domain.WalletCreditBucket, amount int64) (*domain.Wallet, error) {
	var column string
	switch bucket {
	case domain.BucketOwnerDiscount:
		column = "owner_discount"
	case domain.BucketCashback:
		column = "cashback"
	case domain.BucketReferral:
		column = "referral"
	default:
		return nil, ErrInvalidBucket
	}

	query := fmt.Sprintf(`
		UPDATE wallets
		SET %s = %s + $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING user_id, owner_discount, cashback, referral, updated_at
	`, column, column)

	var w domain.Wallet
	err := r.db.QueryRow(ctx, query, userID, amount).Scan(&w.UserID, &w.OwnerDiscount, &w.Cashback, &w.Referral, &w.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return &w, nil
}

// ListPayments returns the user's payment history, newest first.
func (r *PostgresRepository) ListPayments(ctx context.Context, userID uuid.UUID, opts domain.PaymentListOptions) ([]domain.Payment, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, user_id, property_id, category, amount, wallet_used, amount_charged, cashback_earned, description, created_at
		FROM payments
		WHERE user_id = $1
	`
	args := []interface{}{userID}
	if opts.Category != "" {
		args = append(args, opts.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.PropertyID, &p.Category, &p.Amount,
			&p.WalletUsed, &p.AmountCharged, &p.CashbackEarned, &p.Description, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// CreateNotification inserts a notification row.
func (r *PostgresRepository) CreateNotification(ctx context.Context, n *domain.Notification) error {
	return r.insertNotification(ctx, n, nil)
}

// CreateNotificationIfAbsent inserts unless the dedupe key already exists.
func (r *PostgresRepository) CreateNotificationIfAbsent(ctx context.Context, n *domain.Notification, dedupeKey string) (bool, error) {
	key := strings.TrimSpace(dedupeKey)
	if key == "" {
		return true, r.insertNotification(ctx, n, nil)
	}
	tag, err := r.db.Exec(ctx, `
		INSERT INTO notifications (id, user_id, type, title, message, data, link, dedupe_key, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, NOW())
		ON CONFLICT (dedupe_key) DO NOTHING
	`, n.ID, n.UserID, n.Type, n.Title, n.Message, marshalData(n.Data), n.Link, key)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) insertNotification(ctx context.Context, n *domain.Notification, dedupeKey *string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO notifications (id, user_id, type, title, message, data, link, dedupe_key, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, NOW())
	`, n.ID, n.UserID, n.Type, n.Title, n.Message, marshalData(n.Data), n.Link, dedupeKey)
	return err
}

func marshalData(data map[string]interface{}) []byte {
	if len(data) == 0 {
		return nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	return raw
}

// ListNotifications returns the user's inbox, newest first, with optional
// type and read-status filters.
func (r *PostgresRepository) ListNotifications(ctx context.Context, userID uuid.UUID, opts domain.NotificationListOptions) ([]domain.Notification, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, user_id, type, title, message, data, link, is_read, read_at, created_at
		FROM notifications
		WHERE user_id = $1
	`
	args := []interface{}{userID}
	if opts.Type != "" {
		args = append(args, opts.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	switch opts.Status {
	case "read":
		query += " AND is_read = TRUE"
	case "unread":
		query += " AND is_read = FALSE"
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return r.scanNotifications(ctx, query, args...)
}

// ListUnreadNotifications returns every unread notification for the user.
// The service layer derives per-tier badge counts from these, since priority
// is never stored.
func (r *PostgresRepository) ListUnreadNotifications(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, data, link, is_read, read_at, created_at
		FROM notifications
		WHERE user_id = $1 AND is_read = FALSE
		ORDER BY created_at DESC
	`
	return r.scanNotifications(ctx, query, userID)
}

func (r *PostgresRepository) scanNotifications(ctx context.Context, query string, args ...interface{}) ([]domain.Notification, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var raw []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &raw,
			&n.Link, &n.IsRead, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &n.Data); err != nil {
				n.Data = nil
			}
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// MarkNotificationRead marks one notification as read.
func (r *PostgresRepository) MarkNotificationRead(ctx context.Context, userID uuid.UUID, notificationID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE notifications
		SET is_read = TRUE, read_at = NOW()
		WHERE id = $1 AND user_id = $2 AND is_read = FALSE
	`, notificationID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// MarkAllNotificationsRead marks unread notifications as read, optionally
// scoped to one type.
func (r *PostgresRepository) MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID, typ *string) (int64, error) {
	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = NOW()
		WHERE user_id = $1 AND is_read = FALSE
	`
	args := []interface{}{userID}
	if typ != nil && *typ != "" {
		args = append(args, *typ)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteNotification removes one of the user's notifications.
func (r *PostgresRepository) DeleteNotification(ctx context.Context, userID uuid.UUID, notificationID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM notifications WHERE id = $1 AND user_id = $2
	`, notificationID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListVendors returns service vendors, optionally filtered by category. The
// radius filter happens in the service layer on the coordinates.
func (r *PostgresRepository) ListVendors(ctx context.Context, category string) ([]domain.Vendor, error) {
	query := `
		SELECT id, name, category, latitude, longitude, rating, created_at
		FROM vendors
	`
	args := []interface{}{}
	if category != "" {
		args = append(args, category)
		query += " WHERE category = $1"
	}
	query += " ORDER BY rating DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vendors []domain.Vendor
	for rows.Next() {
		var v domain.Vendor
		if err := rows.Scan(&v.ID, &v.Name, &v.Category, &v.Latitude, &v.Longitude, &v.Rating, &v.CreatedAt); err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

// FindRentDueBetween returns rent obligations on active leases whose due date
// falls inside [from, to).
func (r *PostgresRepository) FindRentDueBetween(ctx context.Context, from, to time.Time) ([]domain.RentDue, error) {
	query := `
		SELECT l.id, l.tenant_id, l.property_id, p.name, l.rent_amount, l.next_due_date
		FROM leases l
		JOIN properties p ON p.id = l.property_id
		WHERE l.status = 'active'
		  AND l.next_due_date >= $1
		  AND l.next_due_date < $2
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dues []domain.RentDue
	for rows.Next() {
		var d domain.RentDue
		if err := rows.Scan(&d.LeaseID, &d.TenantID, &d.PropertyID, &d.PropertyName, &d.RentAmount, &d.DueDate); err != nil {
			return nil, err
		}
		dues = append(dues, d)
	}
	return dues, rows.Err()
}
