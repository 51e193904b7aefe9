/**
 * @description
 * This file contains the core business logic for the payment-service. The
 * `Service` struct orchestrates the payment confirmation flow, coordinating
 * between the wallet ledger, the database repository and the message broker.
 *
 * Key features:
 * - Implements the confirm-payment use case for rent and vendor-service
 *   payments: settle against the wallet, persist atomically, create the
 *   cashback notification and publish an event.
 * - Derives notification priority tiers on read; nothing derived is stored.
 * - Optional idempotency guard per payment attempt (see ConfirmPayment).
 *
 * @dependencies
 * - context, errors, fmt, log, time: Standard Go libraries.
 * - github.com/google/uuid: For UUID generation.
 * - internal/classify, internal/domain, internal/geo, internal/ledger,
 *   internal/store, pkg/rabbitmq: Internal packages.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/DeepakTayde/rentpe-v1-sub001/internal/classify"
	"github.com/DeepakTayde/rentpe-v1-sub001/internal/domain"
	"github.com/DeepakTayde/rentpe-v1-sub001/internal/geo"
	"github.com/DeepakTayde/rentpe-v1-sub001/internal/ledger"
	"github.com/DeepakTayde/rentpe-v1-sub001/internal/store"
	"github.com/DeepakTayde/rentpe-v1-sub001/pkg/rabbitmq"
)

var (
	// ErrDuplicatePayment is returned when an idempotency key has already
	// been consumed by a previous confirm call.
	ErrDuplicatePayment = errors.New("payment attempt already processed")
	// ErrInvalidCreditAmount is returned for non-positive internal credits.
	ErrInvalidCreditAmount = errors.New("credit amount must be positive")
)

// SubmitGuard reserves an idempotency key for a payment attempt. Acquire
// returns false when the key was already taken inside its TTL window.
type SubmitGuard interface {
	Acquire(ctx context.Context, scope, key string, ttl time.Duration) (bool, error)
}

// Service provides the core business logic for payments and notifications.
type Service struct {
	repo           store.Repository
	eventProducer  rabbitmq.Publisher
	eventExchange  string
	ledgerOpts     ledger.Options
	submitGuard    SubmitGuard
	idempotencyTTL time.Duration
}

// NewService creates a new payment service instance.
func NewService(repo store.Repository, producer rabbitmq.Publisher, eventExchange string, opts ledger.Options) *Service {
	return &Service{
		repo:           repo,
		eventProducer:  producer,
		eventExchange:  eventExchange,
		ledgerOpts:     opts,
		idempotencyTTL: 24 * time.Hour,
	}
}

// SetSubmitGuard enables the server-side double-submit guard. Without a
// guard, replayed confirm calls are processed again (the upstream app relied
// on the client disabling its confirm button).
func (s *Service) SetSubmitGuard(guard SubmitGuard, ttl time.Duration) {
	s.submitGuard = guard
	if ttl > 0 {
		s.idempotencyTTL = ttl
	}
}

// ResolveInternalUserID converts a Clerk user id string (e.g., "user_abc123")
// into the internal UUID used by our database.
func (s *Service) ResolveInternalUserID(ctx context.Context, clerkUserID string) (uuid.UUID, error) {
	return s.repo.FindUserIDByClerkUserID(ctx, clerkUserID)
}

// WalletView is the wallet balance plus the usage ceiling for a prospective
// amount, used by the app to bound its slider.
type WalletView struct {
	Wallet         *domain.Wallet `json:"wallet"`
	Total          int64          `json:"total"`
	MaxWalletUsage int64          `json:"max_wallet_usage,omitempty"`
}

// GetWallet returns the user's wallet, creating an empty one on first read.
// When amountDue > 0 the view includes the clamp ceiling for that amount.
func (s *Service) GetWallet(ctx context.Context, userID uuid.UUID, amountDue int64) (*WalletView, error) {
	wallet, err := s.repo.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}
	view := &WalletView{Wallet: wallet, Total: wallet.Total()}
	if amountDue > 0 {
		view.MaxWalletUsage = ledger.MaxWalletUsage(balanceOf(wallet), amountDue, s.ledgerOpts.CapPercent)
	}
	return view, nil
}

// ConfirmPayment executes the confirm step of the payment wizard for either
// rent or a vendor service. The settlement is computed in memory, then the
// bucket deltas and the payment row are persisted in a single database
// transaction; once that commits there is no rollback path.
//
// idempotencyKey may be empty: the mobile app's original behavior is a
// fire-once call per confirm click with no server-side replay protection.
// When a key is supplied and a guard is configured, replays inside the TTL
// window fail with ErrDuplicatePayment.
func (s *Service) ConfirmPayment(ctx context.Context, userID uuid.UUID, category string, req domain.PayRequest, idempotencyKey string) (*domain.PayResult, error) {
	if category != domain.PaymentCategoryRent && category != domain.PaymentCategoryService {
		return nil, fmt.Errorf("unknown payment category %q", category)
	}

	if s.submitGuard != nil && idempotencyKey != "" {
		ok, err := s.submitGuard.Acquire(ctx, "payment:"+category, userID.String()+":"+idempotencyKey, s.idempotencyTTL)
		if err != nil {
			// The guard is best-effort hardening; a broken Redis must not
			// block rent payments.
			log.Printf("level=warn component=service msg=\"submit guard unavailable; proceeding without idempotency\" user_id=%s err=%v", userID, err)
		} else if !ok {
			return nil, ErrDuplicatePayment
		}
	}

	wallet, err := s.repo.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}

	result, err := ledger.Settle(balanceOf(wallet), ledger.Request{
		Amount:      req.Amount,
		WalletUsage: req.WalletUsage,
	}, s.ledgerOpts)
	if err != nil {
		return nil, err
	}

	wallet.OwnerDiscount = result.Balance.OwnerDiscount
	wallet.Cashback = result.Balance.Cashback
	wallet.Referral = result.Balance.Referral

	payment := &domain.Payment{
		ID:             uuid.New(),
		UserID:         userID,
		PropertyID:     req.PropertyID,
		Category:       category,
		Amount:         req.Amount,
		WalletUsed:     result.WalletUsed,
		AmountCharged:  result.AmountCharged,
		CashbackEarned: result.CashbackEarned,
		Description:    req.Description,
	}

	if err := s.repo.ApplySettlement(ctx, wallet, payment); err != nil {
		return nil, fmt.Errorf("failed to persist settlement: %w", err)
	}
	payment.CreatedAt = time.Now().UTC()

	// The cashback notification and the event are best-effort side effects;
	// the settlement is already durable.
	if result.CashbackEarned > 0 {
		link := "/tenant/rent-history"
		notification := &domain.Notification{
			ID:      uuid.New(),
			UserID:  userID,
			Type:    domain.NotificationTypePayment,
			Title:   "Cashback earned",
			Message: fmt.Sprintf("You earned ₹%s cashback on your payment of ₹%s.", paiseToRupees(result.CashbackEarned), paiseToRupees(req.Amount)),
			Data: map[string]interface{}{
				"amount":   req.Amount,
				"cashback": result.CashbackEarned,
			},
			Link: &link,
		}
		if err := s.createNotification(ctx, notification); err != nil {
			log.Printf("level=warn component=service msg=\"cashback notification failed\" user_id=%s payment_id=%s err=%v", userID, payment.ID, err)
		}
	}

	event := domain.PaymentSettledEvent{
		PaymentID:      payment.ID,
		UserID:         userID,
		Category:       category,
		Amount:         payment.Amount,
		WalletUsed:     payment.WalletUsed,
		AmountCharged:  payment.AmountCharged,
		CashbackEarned: payment.CashbackEarned,
		Timestamp:      time.Now().UTC(),
	}
	if err := s.eventProducer.Publish(ctx, s.eventExchange, rabbitmq.RoutingKeyPaymentSettled, event); err != nil {
		log.Printf("level=warn component=service msg=\"payment.settled publish failed\" payment_id=%s err=%v", payment.ID, err)
	}

	return &domain.PayResult{Payment: payment, Wallet: wallet}, nil
}

// CreditWallet applies an internal credit (referral bonus, owner discount
// grant) to one bucket and publishes a wallet.credited event.
func (s *Service) CreditWallet(ctx context.Context, req domain.WalletCreditRequest) (*domain.Wallet, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidCreditAmount
	}
	if !req.Bucket.Valid() {
		return nil, store.ErrInvalidBucket
	}

	if _, err := s.repo.GetOrCreateWallet(ctx, req.UserID); err != nil {
		return nil, fmt.Errorf("failed to ensure wallet exists: %w", err)
	}
	wallet, err := s.repo.CreditWalletBucket(ctx, req.UserID, req.Bucket, req.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to credit wallet: %w", err)
	}

	event := domain.WalletCreditedEvent{
		UserID:    req.UserID,
		Bucket:    req.Bucket,
		Amount:    req.Amount,
		Reason:    req.Reason,
		Timestamp: time.Now().UTC(),
	}
	if err := s.eventProducer.Publish(ctx, s.eventExchange, rabbitmq.RoutingKeyWalletCredited, event); err != nil {
		log.Printf("level=warn component=service msg=\"wallet.credited publish failed\" user_id=%s err=%v", req.UserID, err)
	}

	return wallet, nil
}

// ListPayments returns the user's payment history.
func (s *Service) ListPayments(ctx context.Context, userID uuid.UUID, opts domain.PaymentListOptions) ([]domain.Payment, error) {
	return s.repo.ListPayments(ctx, userID, opts)
}

// NotificationView is a stored notification annotated with its derived
// priority tier. The tier exists only in API responses.
type NotificationView struct {
	domain.Notification
	Priority classify.Priority `json:"priority"`
}

// ListNotifications returns the user's inbox with derived priorities.
func (s *Service) ListNotifications(ctx context.Context, userID uuid.UUID, opts domain.NotificationListOptions) ([]NotificationView, error) {
	items, err := s.repo.ListNotifications(ctx, userID, opts)
	if err != nil {
		return nil, err
	}
	views := make([]NotificationView, 0, len(items))
	for _, n := range items {
		views = append(views, NotificationView{
			Notification: n,
			Priority:     classify.Classify(n.Type, n.Title, n.Message),
		})
	}
	return views, nil
}

// UnreadCounts carries badge counts per derived priority tier.
type UnreadCounts struct {
	Total  int64 `json:"total"`
	Urgent int64 `json:"urgent"`
	High   int64 `json:"high"`
	Normal int64 `json:"normal"`
	Low    int64 `json:"low"`
}

// GetUnreadCounts classifies every unread notification and aggregates the
// tiers. Counting happens here, not in SQL, because priority is derived.
func (s *Service) GetUnreadCounts(ctx context.Context, userID uuid.UUID) (*UnreadCounts, error) {
	items, err := s.repo.ListUnreadNotifications(ctx, userID)
	if err != nil {
		return nil, err
	}
	counts := &UnreadCounts{}
	for _, n := range items {
		counts.Total++
		switch classify.Classify(n.Type, n.Title, n.Message) {
		case classify.PriorityUrgent:
			counts.Urgent++
		case classify.PriorityHigh:
			counts.High++
		case classify.PriorityLow:
			counts.Low++
		default:
			counts.Normal++
		}
	}
	return counts, nil
}

// MarkNotificationRead marks one notification as read.
func (s *Service) MarkNotificationRead(ctx context.Context, userID uuid.UUID, notificationID uuid.UUID) (bool, error) {
	return s.repo.MarkNotificationRead(ctx, userID, notificationID)
}

// MarkAllNotificationsRead marks unread notifications as read, optionally
// scoped to one type.
func (s *Service) MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID, typ *string) (int64, error) {
	return s.repo.MarkAllNotificationsRead(ctx, userID, typ)
}

// DeleteNotification removes one of the user's notifications.
func (s *Service) DeleteNotification(ctx context.Context, userID uuid.UUID, notificationID uuid.UUID) (bool, error) {
	return s.repo.DeleteNotification(ctx, userID, notificationID)
}

// NearbyVendorsResult bundles the filtered vendors with the circle polygon
// the map draws for the search radius.
type NearbyVendorsResult struct {
	Vendors []domain.NearbyVendor `json:"vendors"`
	Circle  []geo.Point           `json:"circle"`
}

// NearbyVendors returns vendors within radiusKm of the given point, sorted by
// distance, plus the overlay polygon.
func (s *Service) NearbyVendors(ctx context.Context, center geo.Point, radiusKm float64, category string) (*NearbyVendorsResult, error) {
	vendors, err := s.repo.ListVendors(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}

	nearby := make([]domain.NearbyVendor, 0, len(vendors))
	for _, v := range vendors {
		d := geo.HaversineKm(center, geo.Point{Lat: v.Latitude, Lng: v.Longitude})
		if d <= radiusKm {
			nearby = append(nearby, domain.NearbyVendor{Vendor: v, DistanceKm: d})
		}
	}
	sortByDistance(nearby)

	return &NearbyVendorsResult{
		Vendors: nearby,
		Circle:  geo.CirclePolygon(center, radiusKm, 48),
	}, nil
}

func (s *Service) createNotification(ctx context.Context, n *domain.Notification) error {
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return err
	}
	event := domain.NotificationCreatedEvent{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Type:           n.Type,
		Title:          n.Title,
		Timestamp:      time.Now().UTC(),
	}
	if err := s.eventProducer.Publish(ctx, s.eventExchange, rabbitmq.RoutingKeyNotificationCreated, event); err != nil {
		log.Printf("level=warn component=service msg=\"notification.created publish failed\" notification_id=%s err=%v", n.ID, err)
	}
	return nil
}

func balanceOf(w *domain.Wallet) ledger.Balance {
	return ledger.Balance{
		OwnerDiscount: w.OwnerDiscount,
		Cashback:      w.Cashback,
		Referral:      w.Referral,
	}
}

func sortByDistance(vendors []domain.NearbyVendor) {
	sort.Slice(vendors, func(i, j int) bool {
		return vendors[i].DistanceKm < vendors[j].DistanceKm
	})
}

func paiseToRupees(paise int64) string {
	return fmt.Sprintf("%d.%02d", paise/100, paise%100)
}
