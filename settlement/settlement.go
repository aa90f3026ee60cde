// Package settlement derives a rent schedule's status from a recorded payment
// and generates collision-resistant transaction identifiers.
package settlement

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/propdesk/rental_management_system/backend/models"
)

// DeriveStatus compares one payment's amount against the schedule's full
// amount. Each payment is judged independently; partial payments are not
// accumulated across calls. A zero amount leaves the current status in place.
func DeriveStatus(scheduleAmount, paymentAmount float64, current models.ScheduleStatus) models.ScheduleStatus {
	switch {
	case paymentAmount <= 0:
		return current
	case paymentAmount >= scheduleAmount:
		return models.SchedulePaid
	default:
		return models.SchedulePartial
	}
}

// NewTransactionID returns a time-based identifier with a random suffix.
// Uniqueness is ultimately enforced by the store's unique index; callers
// regenerate on a collision.
func NewTransactionID() string {
	return fmt.Sprintf("TXN-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
