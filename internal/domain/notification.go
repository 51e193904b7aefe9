/**
 * @description
 * This file defines the notification domain models for the payment-service.
 * Notifications are persisted rows; their priority tier is derived on read by
 * the classifier and is never stored.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification types form a closed set shared with the mobile app.
const (
	NotificationTypeVisit       = "visit"
	NotificationTypeBooking     = "booking"
	NotificationTypeMaintenance = "maintenance"
	NotificationTypePayment     = "payment"
	NotificationTypeSystem      = "system"
	NotificationTypeLead        = "lead"
	NotificationTypeCommission  = "commission"
	NotificationTypeProperty    = "property"
	NotificationTypeService     = "service"
	NotificationTypeAgreement   = "agreement"
)

// KnownNotificationType reports whether typ belongs to the closed type set.
func KnownNotificationType(typ string) bool {
	switch typ {
	case NotificationTypeVisit, NotificationTypeBooking, NotificationTypeMaintenance,
		NotificationTypePayment, NotificationTypeSystem, NotificationTypeLead,
		NotificationTypeCommission, NotificationTypeProperty,
		NotificationTypeService, NotificationTypeAgreement:
		return true
	}
	return false
}

// Notification maps to the `notifications` table. Priority is intentionally
// absent: it is recomputed from Type/Title/Message on every read.
type Notification struct {
	ID        uuid.UUID              `json:"id"`
	UserID    uuid.UUID              `json:"user_id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Link      *string                `json:"link,omitempty"`
	IsRead    bool                   `json:"is_read"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// NotificationListOptions controls pagination and filtering for the inbox.
type NotificationListOptions struct {
	Limit  int
	Offset int
	Type   string
	Status string // "", "read" or "unread"
}

// NotificationCreatedEvent is published to RabbitMQ whenever a notification
// row is inserted, so push-delivery workers can fan it out.
type NotificationCreatedEvent struct {
	NotificationID uuid.UUID `json:"notification_id"`
	UserID         uuid.UUID `json:"user_id"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	Timestamp      time.Time `json:"timestamp"`
}
