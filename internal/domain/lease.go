/**
 * @description
 * Lease-related models needed by the rent reminder job.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// RentDue is a read model describing an upcoming rent obligation on an
// active lease. The reminder job turns these into payment notifications.
type RentDue struct {
	LeaseID      uuid.UUID `json:"lease_id"`
	TenantID     uuid.UUID `json:"tenant_id"`
	PropertyID   uuid.UUID `json:"property_id"`
	PropertyName string    `json:"property_name"`
	RentAmount   int64     `json:"rent_amount"` // in paise
	DueDate      time.Time `json:"due_date"`
}
