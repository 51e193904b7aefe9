package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/DeepakTayde/rentpe-v1-sub001/internal/domain"
	"github.com/DeepakTayde/rentpe-v1-sub001/internal/geo"
	"github.com/DeepakTayde/rentpe-v1-sub001/internal/ledger"
	"github.com/DeepakTayde/rentpe-v1-sub001/internal/store"
)

type stubRepo struct {
	wallet          *domain.Wallet
	walletErr       error
	settledWallet   *domain.Wallet
	settledPayment  *domain.Payment
	settleErr       error
	creditedBucket  domain.WalletCreditBucket
	creditedAmount  int64
	notifications   []*domain.Notification
	unread          []domain.Notification
	vendors         []domain.Vendor
	dedupeSeen      map[string]bool
	rentDues        []domain.RentDue
	rentDuesErr     error
	createNotifyErr error
}

func (s *stubRepo) FindUserIDByClerkUserID(ctx context.Context, clerkUserID string) (uuid.UUID, error) {
	return uuid.Nil, store.ErrUserNotFound
}

func (s *stubRepo) GetOrCreateWallet(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	if s.walletErr != nil {
		return nil, s.walletErr
	}
	if s.wallet == nil {
		s.wallet = &domain.Wallet{UserID: userID}
	}
	return s.wallet, nil
}

func (s *stubRepo) ApplySettlement(ctx context.Context, wallet *domain.Wallet, payment *domain.Payment) error {
	if s.settleErr != nil {
		return s.settleErr
	}
	w := *wallet
	p := *payment
	s.settledWallet = &w
	s.settledPayment = &p
	return nil
}

func (s *stubRepo) CreditWalletBucket(ctx context.Context, userID uuid.UUID, bucket domain.WalletCreditBucket, amount int64) (*domain.Wallet, error) {
	s.creditedBucket = bucket
	s.creditedAmount = amount
	return &domain.Wallet{UserID: userID, Referral: amount}, nil
}

func (s *stubRepo) ListPayments(ctx context.Context, userID uuid.UUID, opts domain.PaymentListOptions) ([]domain.Payment, error) {
	return nil, nil
}

func (s *stubRepo) CreateNotification(ctx context.Context, n *domain.Notification) error {
	if s.createNotifyErr != nil {
		return s.createNotifyErr
	}
	s.notifications = append(s.notifications, n)
	return nil
}

func (s *stubRepo) CreateNotificationIfAbsent(ctx context.Context, n *domain.Notification, dedupeKey string) (bool, error) {
	if s.createNotifyErr != nil {
		return false, s.createNotifyErr
	}
	if s.dedupeSeen == nil {
		s.dedupeSeen = make(map[string]bool)
	}
	if s.dedupeSeen[dedupeKey] {
		return false, nil
	}
	s.dedupeSeen[dedupeKey] = true
	s.notifications = append(s.notifications, n)
	return true, nil
}

func (s *stubRepo) ListNotifications(ctx context.Context, userID uuid.UUID, opts domain.NotificationListOptions) ([]domain.Notification, error) {
	return s.unread, nil
}

func (s *stubRepo) ListUnreadNotifications(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	return s.unread, nil
}

func (s *stubRepo) MarkNotificationRead(ctx context.Context, userID uuid.UUID, notificationID uuid.UUID) (bool, error) {
	return true, nil
}

func (s *stubRepo) MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID, typ *string) (int64, error) {
	return 0, nil
}

func (s *stubRepo) DeleteNotification(ctx context.Context, userID uuid.UUID, notificationID uuid.UUID) (bool, error) {
	return true, nil
}

func (s *stubRepo) ListVendors(ctx context.Context, category string) ([]domain.Vendor, error) {
	return s.vendors, nil
}

func (s *stubRepo) FindRentDueBetween(ctx context.Context, from, to time.Time) ([]domain.RentDue, error) {
	if s.rentDuesErr != nil {
		return nil, s.rentDuesErr
	}
	return s.rentDues, nil
}

type stubPublisher struct {
	published []string
}

func (p *stubPublisher) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	p.published = append(p.published, routingKey)
	return nil
}

func (p *stubPublisher) Close() {}

type stubGuard struct {
	calls   int
	allow   bool
	failErr error
}

func (g *stubGuard) Acquire(ctx context.Context, scope, key string, ttl time.Duration) (bool, error) {
	g.calls++
	if g.failErr != nil {
		return false, g.failErr
	}
	return g.allow, nil
}

func newTestService(repo *stubRepo, pub *stubPublisher) *Service {
	return NewService(repo, pub, "rentpe.events", ledger.DefaultOptions())
}

func TestConfirmPayment_PersistsSettlement(t *testing.T) {
	userID := uuid.New()
	repo := &stubRepo{wallet: &domain.Wallet{UserID: userID, OwnerDiscount: 10, Cashback: 50, Referral: 100}}
	pub := &stubPublisher{}
	svc := newTestService(repo, pub)

	res, err := svc.ConfirmPayment(context.Background(), userID, domain.PaymentCategoryRent, domain.PayRequest{
		Amount:      10000,
		WalletUsage: 150,
	}, "")
	if err != nil {
		t.Fatalf("ConfirmPayment returned error: %v", err)
	}

	// 150 fits under the 10% cap (1000): owner 10, cashback 50, referral 90.
	// Charged 9850, cashback earned floor(9850*2/100) = 197.
	if repo.settledPayment == nil {
		t.Fatal("expected settlement to be persisted")
	}
	if repo.settledPayment.WalletUsed != 150 {
		t.Fatalf("expected wallet used 150, got %d", repo.settledPayment.WalletUsed)
	}
	if repo.settledPayment.AmountCharged != 9850 {
		t.Fatalf("expected amount charged 9850, got %d", repo.settledPayment.AmountCharged)
	}
	if repo.settledPayment.CashbackEarned != 197 {
		t.Fatalf("expected cashback 197, got %d", repo.settledPayment.CashbackEarned)
	}
	if repo.settledWallet.OwnerDiscount != 0 || repo.settledWallet.Referral != 10 {
		t.Fatalf("unexpected bucket debits: %+v", repo.settledWallet)
	}
	if repo.settledWallet.Cashback != 197 {
		t.Fatalf("expected cashback bucket drained then credited to 197, got %d", repo.settledWallet.Cashback)
	}
	if res.Payment.Category != domain.PaymentCategoryRent {
		t.Fatalf("expected rent category, got %q", res.Payment.Category)
	}

	// Cashback notification with the {amount, cashback} payload.
	if len(repo.notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(repo.notifications))
	}
	n := repo.notifications[0]
	if n.Type != domain.NotificationTypePayment {
		t.Fatalf("expected payment notification, got %q", n.Type)
	}
	if n.Data["cashback"] != int64(197) || n.Data["amount"] != int64(10000) {
		t.Fatalf("unexpected notification payload: %+v", n.Data)
	}
	if n.Link == nil || *n.Link != "/tenant/rent-history" {
		t.Fatal("expected rent-history deep link on cashback notification")
	}

	wantEvents := map[string]bool{"payment.settled": false, "notification.created": false}
	for _, key := range pub.published {
		if _, ok := wantEvents[key]; ok {
			wantEvents[key] = true
		}
	}
	for key, seen := range wantEvents {
		if !seen {
			t.Fatalf("expected %s event to be published", key)
		}
	}
}

func TestConfirmPayment_InvalidAmount(t *testing.T) {
	userID := uuid.New()
	repo := &stubRepo{wallet: &domain.Wallet{UserID: userID}}
	svc := newTestService(repo, &stubPublisher{})

	_, err := svc.ConfirmPayment(context.Background(), userID, domain.PaymentCategoryRent, domain.PayRequest{Amount: 0}, "")
	if !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if repo.settledPayment != nil {
		t.Fatal("expected nothing persisted for invalid amount")
	}
}

func TestConfirmPayment_UnknownCategory(t *testing.T) {
	svc := newTestService(&stubRepo{}, &stubPublisher{})
	_, err := svc.ConfirmPayment(context.Background(), uuid.New(), "subscription", domain.PayRequest{Amount: 100}, "")
	if err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestConfirmPayment_DuplicateRejected(t *testing.T) {
	userID := uuid.New()
	repo := &stubRepo{wallet: &domain.Wallet{UserID: userID, Referral: 500}}
	svc := newTestService(repo, &stubPublisher{})
	guard := &stubGuard{allow: false}
	svc.SetSubmitGuard(guard, time.Hour)

	_, err := svc.ConfirmPayment(context.Background(), userID, domain.PaymentCategoryRent, domain.PayRequest{Amount: 10000}, "attempt-1")
	if !errors.Is(err, ErrDuplicatePayment) {
		t.Fatalf("expected ErrDuplicatePayment, got %v", err)
	}
	if guard.calls != 1 {
		t.Fatalf("expected 1 guard call, got %d", guard.calls)
	}
	if repo.settledPayment != nil {
		t.Fatal("expected replayed attempt not to be persisted")
	}
}

func TestConfirmPayment_NoKeySkipsGuard(t *testing.T) {
	// Without an Idempotency-Key the original fire-once behavior is kept:
	// the guard is never consulted.
	userID := uuid.New()
	repo := &stubRepo{wallet: &domain.Wallet{UserID: userID}}
	svc := newTestService(repo, &stubPublisher{})
	guard := &stubGuard{allow: false}
	svc.SetSubmitGuard(guard, time.Hour)

	_, err := svc.ConfirmPayment(context.Background(), userID, domain.PaymentCategoryService, domain.PayRequest{Amount: 5000}, "")
	if err != nil {
		t.Fatalf("ConfirmPayment returned error: %v", err)
	}
	if guard.calls != 0 {
		t.Fatalf("expected guard to be skipped, got %d calls", guard.calls)
	}
}

func TestConfirmPayment_GuardFailureDoesNotBlock(t *testing.T) {
	userID := uuid.New()
	repo := &stubRepo{wallet: &domain.Wallet{UserID: userID}}
	svc := newTestService(repo, &stubPublisher{})
	guard := &stubGuard{failErr: errors.New("redis down")}
	svc.SetSubmitGuard(guard, time.Hour)

	_, err := svc.ConfirmPayment(context.Background(), userID, domain.PaymentCategoryRent, domain.PayRequest{Amount: 5000}, "attempt-1")
	if err != nil {
		t.Fatalf("expected guard failure to be tolerated, got %v", err)
	}
	if repo.settledPayment == nil {
		t.Fatal("expected settlement despite guard outage")
	}
}

func TestConfirmPayment_PersistFailureHasNoSideEffects(t *testing.T) {
	userID := uuid.New()
	repo := &stubRepo{
		wallet:    &domain.Wallet{UserID: userID, Referral: 100},
		settleErr: errors.New("connection reset"),
	}
	pub := &stubPublisher{}
	svc := newTestService(repo, pub)

	_, err := svc.ConfirmPayment(context.Background(), userID, domain.PaymentCategoryRent, domain.PayRequest{Amount: 10000, WalletUsage: 50}, "")
	if err == nil {
		t.Fatal("expected persistence error to surface")
	}
	if len(repo.notifications) != 0 {
		t.Fatal("expected no notification after failed persistence")
	}
	if len(pub.published) != 0 {
		t.Fatal("expected no events after failed persistence")
	}
}

func TestConfirmPayment_NoCashbackNoNotification(t *testing.T) {
	// A 49-paise charge earns floor(49*2/100) = 0 cashback; no notification
	// should be created for a zero credit.
	userID := uuid.New()
	repo := &stubRepo{wallet: &domain.Wallet{UserID: userID}}
	svc := newTestService(repo, &stubPublisher{})

	res, err := svc.ConfirmPayment(context.Background(), userID, domain.PaymentCategoryRent, domain.PayRequest{Amount: 49}, "")
	if err != nil {
		t.Fatalf("ConfirmPayment returned error: %v", err)
	}
	if res.Payment.CashbackEarned != 0 {
		t.Fatalf("expected zero cashback, got %d", res.Payment.CashbackEarned)
	}
	if len(repo.notifications) != 0 {
		t.Fatal("expected no cashback notification for zero credit")
	}
}

func TestCreditWallet(t *testing.T) {
	repo := &stubRepo{}
	pub := &stubPublisher{}
	svc := newTestService(repo, pub)

	_, err := svc.CreditWallet(context.Background(), domain.WalletCreditRequest{
		UserID: uuid.New(),
		Bucket: domain.BucketReferral,
		Amount: 5000,
		Reason: "referral signup bonus",
	})
	if err != nil {
		t.Fatalf("CreditWallet returned error: %v", err)
	}
	if repo.creditedBucket != domain.BucketReferral || repo.creditedAmount != 5000 {
		t.Fatalf("unexpected credit: bucket=%q amount=%d", repo.creditedBucket, repo.creditedAmount)
	}
	if len(pub.published) != 1 || pub.published[0] != "wallet.credited" {
		t.Fatalf("expected wallet.credited event, got %v", pub.published)
	}
}

func TestCreditWallet_Validation(t *testing.T) {
	svc := newTestService(&stubRepo{}, &stubPublisher{})

	if _, err := svc.CreditWallet(context.Background(), domain.WalletCreditRequest{
		UserID: uuid.New(), Bucket: domain.BucketCashback, Amount: 0,
	}); !errors.Is(err, ErrInvalidCreditAmount) {
		t.Fatalf("expected ErrInvalidCreditAmount, got %v", err)
	}

	if _, err := svc.CreditWallet(context.Background(), domain.WalletCreditRequest{
		UserID: uuid.New(), Bucket: "loyalty", Amount: 100,
	}); !errors.Is(err, store.ErrInvalidBucket) {
		t.Fatalf("expected ErrInvalidBucket, got %v", err)
	}
}

func TestGetWallet_IncludesUsageCeiling(t *testing.T) {
	userID := uuid.New()
	repo := &stubRepo{wallet: &domain.Wallet{UserID: userID, OwnerDiscount: 30, Cashback: 30, Referral: 30}}
	svc := newTestService(repo, &stubPublisher{})

	view, err := svc.GetWallet(context.Background(), userID, 500)
	if err != nil {
		t.Fatalf("GetWallet returned error: %v", err)
	}
	if view.Total != 90 {
		t.Fatalf("expected total 90, got %d", view.Total)
	}
	// 10% of 500 = 50, below the 90 balance.
	if view.MaxWalletUsage != 50 {
		t.Fatalf("expected max usage 50, got %d", view.MaxWalletUsage)
	}
}

func TestGetUnreadCounts(t *testing.T) {
	userID := uuid.New()
	repo := &stubRepo{unread: []domain.Notification{
		{Type: "payment", Title: "Rent Overdue", Message: "pay now"},
		{Type: "booking", Title: "New Booking", Message: "confirmed"},
		{Type: "system", Title: "Maintenance window", Message: ""},
		{Type: "maintenance", Title: "Ticket opened", Message: "technician assigned"},
		{Type: "maintenance", Title: "Ticket update", Message: "parts ordered"},
	}}
	svc := newTestService(repo, &stubPublisher{})

	counts, err := svc.GetUnreadCounts(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetUnreadCounts returned error: %v", err)
	}
	if counts.Total != 5 || counts.Urgent != 1 || counts.High != 1 || counts.Low != 1 || counts.Normal != 2 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}

func TestListNotifications_DerivesPriority(t *testing.T) {
	userID := uuid.New()
	repo := &stubRepo{unread: []domain.Notification{
		{Type: "payment", Title: "Rent Overdue", Message: "pay now"},
	}}
	svc := newTestService(repo, &stubPublisher{})

	views, err := svc.ListNotifications(context.Background(), userID, domain.NotificationListOptions{})
	if err != nil {
		t.Fatalf("ListNotifications returned error: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(views))
	}
	if views[0].Priority != "urgent" {
		t.Fatalf("expected derived urgent priority, got %q", views[0].Priority)
	}
}

func TestNearbyVendors_FiltersAndSorts(t *testing.T) {
	center := geo.Point{Lat: 12.9758, Lng: 77.6045}
	repo := &stubRepo{vendors: []domain.Vendor{
		{ID: uuid.New(), Name: "far plumber", Latitude: 13.1986, Longitude: 77.7066},   // ~30km
		{ID: uuid.New(), Name: "near electrician", Latitude: 12.9800, Longitude: 77.6100}, // <1km
		{ID: uuid.New(), Name: "mid cleaner", Latitude: 13.0100, Longitude: 77.6400},  // ~5km
	}}
	svc := newTestService(repo, &stubPublisher{})

	res, err := svc.NearbyVendors(context.Background(), center, 10, "")
	if err != nil {
		t.Fatalf("NearbyVendors returned error: %v", err)
	}
	if len(res.Vendors) != 2 {
		t.Fatalf("expected 2 vendors inside 10km, got %d", len(res.Vendors))
	}
	if res.Vendors[0].Name != "near electrician" || res.Vendors[1].Name != "mid cleaner" {
		t.Fatalf("expected distance-sorted vendors, got %q then %q", res.Vendors[0].Name, res.Vendors[1].Name)
	}
	if len(res.Circle) == 0 {
		t.Fatal("expected overlay circle points")
	}
}
