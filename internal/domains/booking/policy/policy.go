// Package policy holds the booking rules that do not need a database: the
// status state machine, billing arithmetic and caller authorization.
package policy

import (
	"slices"
	"time"

	"parking/internal/domains/booking/model"
	spotModel "parking/internal/domains/spot/model"
	"parking/shared/failure"
	"parking/shared/identity"

	"github.com/shopspring/decimal"
)

// validNext lists the statuses reachable from each status. Completed and
// rejected are terminal.
var validNext = map[string][]string{
	model.StatusPending: {model.StatusActive, model.StatusRejected},
	model.StatusActive:  {model.StatusCompleted},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to string) bool {
	return slices.Contains(validNext[from], to)
}

// Transition returns ErrInvalidStateTransition when from -> to is not an edge
// of the state machine.
func Transition(from, to string) error {
	if !CanTransition(from, to) {
		return model.ErrInvalidStateTransition
	}

	return nil
}

// CanCreateWith reports whether a new booking may start in status. Requests
// start pending, walk-ins start active.
func CanCreateWith(status string) bool {
	return status == model.StatusPending || status == model.StatusActive
}

// BillableHours is the parked duration in whole hours, rounded up, never less than one.
func BillableHours(start, end time.Time) int64 {
	duration := end.UTC().Sub(start.UTC())
	if duration <= 0 {
		return 1
	}

	hours := int64(duration / time.Hour)
	if duration%time.Hour != 0 {
		hours++
	}

	return max(hours, 1)
}

// CalculateCost bills every started hour between start and end at pricePerHour.
func CalculateCost(start, end time.Time, pricePerHour decimal.Decimal) decimal.Decimal {
	return pricePerHour.Mul(decimal.NewFromInt(BillableHours(start, end)))
}

// AuthorizeOwner allows admins and the owning user.
func AuthorizeOwner(actor identity.Actor, ownerID string) error {
	if actor.IsAdmin() || actor.Owns(ownerID) {
		return nil
	}

	return model.ErrNotOwner
}

func RequireAdmin(actor identity.Actor) error {
	if !actor.IsAdmin() {
		return failure.ForbiddenError
	}

	return nil
}

// RequireUser refuses admins, who book through walk-ins instead of requests.
func RequireUser(actor identity.Actor) error {
	if actor.IsAdmin() {
		return failure.Forbidden("administrators cannot request bookings")
	}

	return nil
}

// SpotStatusFor is the spot status implied by a booking in status.
func SpotStatusFor(bookingStatus string) string {
	switch bookingStatus {
	case model.StatusPending:
		return spotModel.StatusReserved
	case model.StatusActive:
		return spotModel.StatusOccupied
	default:
		return spotModel.StatusAvailable
	}
}
