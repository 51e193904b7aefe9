/**
 * @description
 * Scheduled job implementations for the payment-service. The rent reminder
 * job is the event producer behind the "payment due" notifications the
 * tenant inbox shows before each due date.
 */
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/DeepakTayde/rentpe-v1-sub001/internal/domain"
)

// JobsRepository defines the database operations needed by the jobs.
type JobsRepository interface {
	FindRentDueBetween(ctx context.Context, from, to time.Time) ([]domain.RentDue, error)
	CreateNotificationIfAbsent(ctx context.Context, n *domain.Notification, dedupeKey string) (bool, error)
}

// Jobs contains the logic for all scheduled tasks.
type Jobs struct {
	repo       JobsRepository
	logger     *slog.Logger
	daysBefore int
	now        func() time.Time
}

// NewJobs creates a new Jobs runner.
func NewJobs(repo JobsRepository, logger *slog.Logger, daysBefore int) *Jobs {
	if daysBefore <= 0 {
		daysBefore = 3
	}
	return &Jobs{
		repo:       repo,
		logger:     logger,
		daysBefore: daysBefore,
		now:        time.Now,
	}
}

// ProcessRentReminders finds leases whose rent falls due within the
// configured window and creates one reminder notification per lease and due
// date. The dedupe key keeps reruns of the job from stacking duplicates.
func (j *Jobs) ProcessRentReminders() {
	j.logger.Info("starting rent reminder job")
	ctx := context.Background()

	now := j.now().UTC()
	from := now.Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, j.daysBefore+1)

	dues, err := j.repo.FindRentDueBetween(ctx, from, to)
	if err != nil {
		j.logger.Error("failed to find upcoming rent dues", "error", err)
		return
	}

	created := 0
	for _, due := range dues {
		link := "/tenant/payments"
		notification := &domain.Notification{
			ID:      uuid.New(),
			UserID:  due.TenantID,
			Type:    domain.NotificationTypePayment,
			Title:   "Rent payment reminder",
			Message: fmt.Sprintf("Rent of ₹%d.%02d for %s is due on %s.", due.RentAmount/100, due.RentAmount%100, due.PropertyName, due.DueDate.Format("2 Jan 2006")),
			Data: map[string]interface{}{
				"lease_id":    due.LeaseID.String(),
				"property_id": due.PropertyID.String(),
				"amount":      due.RentAmount,
				"due_date":    due.DueDate.Format(time.RFC3339),
			},
			Link: &link,
		}
		dedupeKey := fmt.Sprintf("rent-reminder:%s:%s", due.LeaseID, due.DueDate.Format("2006-01-02"))

		inserted, err := j.repo.CreateNotificationIfAbsent(ctx, notification, dedupeKey)
		if err != nil {
			j.logger.Error("failed to create rent reminder", "lease_id", due.LeaseID, "error", err)
			continue
		}
		if inserted {
			created++
		}
	}

	j.logger.Info("rent reminder job finished", "due_count", len(dues), "created", created)
}
