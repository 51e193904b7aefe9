package classify

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		typ     string
		title   string
		message string
		want    Priority
	}{
		// Rule 1 wins by order, not by falling through to the default.
		{"overdue payment is urgent", "payment", "Rent Overdue", "Your rent for Koramangala flat is pending", PriorityUrgent},
		{"emergency in title", "maintenance", "Emergency: water leak", "technician dispatched", PriorityUrgent},
		{"urgent in message", "visit", "Visit update", "urgent: owner wants to reschedule", PriorityUrgent},
		{"rejected application", "agreement", "Application Rejected", "see details", PriorityUrgent},
		{"payment due in message", "payment", "Payment", "rent is due on the 5th", PriorityUrgent},
		{"due only counts for payment type", "system", "Update", "library book due", PriorityLow},

		{"booking type is high", "booking", "New Booking", "confirmed", PriorityHigh},
		{"commission type is high", "commission", "Payout", "credited", PriorityHigh},
		{"new match in title", "property", "New Match found", "3BHK near you", PriorityHigh},
		{"price in title", "property", "Price updated", "now cheaper", PriorityHigh},
		{"approved in title", "agreement", "Agreement Approved", "sign now", PriorityHigh},
		{"price drop in message", "property", "Listing update", "price drop on saved flat", PriorityHigh},

		{"system type is low", "system", "Maintenance window", "scheduled downtime", PriorityLow},
		{"reminder in title", "visit", "Reminder: site visit", "tomorrow 10am", PriorityLow},

		{"no rule matches", "maintenance", "Ticket opened", "technician assigned", PriorityNormal},
		{"empty strings", "lead", "", "", PriorityNormal},

		// Case-insensitive substring matching.
		{"mixed case overdue", "payment", "RENT OVERDUE", "", PriorityUrgent},
		{"mixed case price drop", "property", "listing", "PRICE DROP alert", PriorityHigh},

		// Rule 1 preempts rule 2 even when both match.
		{"rejected booking stays urgent", "booking", "Booking Rejected", "slot unavailable", PriorityUrgent},
		// Rule 2 preempts rule 3.
		{"approved reminder stays high", "system", "Approved reminder", "", PriorityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.typ, tt.title, tt.message)
			if got != tt.want {
				t.Fatalf("Classify(%q, %q, %q) = %q, want %q", tt.typ, tt.title, tt.message, got, tt.want)
			}
		})
	}
}

func TestClassify_Idempotent(t *testing.T) {
	first := Classify("payment", "Rent Overdue", "pay now")
	second := Classify("payment", "Rent Overdue", "pay now")
	if first != second {
		t.Fatalf("Classify is not idempotent: %q then %q", first, second)
	}
}

func TestTiersOrder(t *testing.T) {
	tiers := Tiers()
	want := []Priority{PriorityUrgent, PriorityHigh, PriorityNormal, PriorityLow}
	if len(tiers) != len(want) {
		t.Fatalf("expected %d tiers, got %d", len(want), len(tiers))
	}
	for i := range want {
		if tiers[i] != want[i] {
			t.Fatalf("tier %d = %q, want %q", i, tiers[i], want[i])
		}
	}
}
