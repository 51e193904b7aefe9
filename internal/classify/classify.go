/**
 * @description
 * This package derives a display priority tier for notifications. The tier
 * drives badge counts and sort order in the app; it is computed on read and
 * never persisted.
 *
 * The rules are literal case-insensitive substring checks against the
 * free-text title and message, evaluated in order with the first match
 * winning. The rule list and its ordering are part of the product contract
 * with the mobile app and must not be reordered.
 */

package classify

import (
	"strings"

	"github.com/DeepakTayde/rentpe-v1-sub001/internal/domain"
)

// Priority is the derived notification tier.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// Classify maps a notification to exactly one of the four priority tiers.
// It is a total function: every input yields a tier, with "normal" as the
// default when no rule matches. Pure and stateless.
func Classify(typ, title, message string) Priority {
	t := strings.ToLower(title)
	m := strings.ToLower(message)

	// Rule 1: urgent. Short-circuits everything below, so e.g. an overdue
	// payment notification is urgent even though type==payment with "due"
	// in the message would also land here.
	switch {
	case strings.Contains(t, "overdue"),
		strings.Contains(t, "emergency"),
		strings.Contains(m, "urgent"),
		strings.Contains(t, "rejected"),
		typ == domain.NotificationTypePayment && strings.Contains(m, "due"):
		return PriorityUrgent
	}

	// Rule 2: high.
	switch {
	case typ == domain.NotificationTypeBooking,
		typ == domain.NotificationTypeCommission,
		strings.Contains(t, "new match"),
		strings.Contains(t, "price"),
		strings.Contains(t, "approved"),
		strings.Contains(m, "price drop"):
		return PriorityHigh
	}

	// Rule 3: low.
	if typ == domain.NotificationTypeSystem || strings.Contains(t, "reminder") {
		return PriorityLow
	}

	return PriorityNormal
}

// Tiers lists the priority tiers from most to least important, for badge
// aggregation and sorting.
func Tiers() []Priority {
	return []Priority{PriorityUrgent, PriorityHigh, PriorityNormal, PriorityLow}
}
