package lifecycle

import (
	"fmt"
	"strings"

	"dog-grooming-booking/internal/domain/booking"
	appErrors "dog-grooming-booking/pkg/errors"
)

// State machine for booking status transitions
var validTransitions = map[booking.Status][]booking.Status{
	booking.StatusPending: {
		booking.StatusConfirmed,
		booking.StatusRejected,
	},
	booking.StatusConfirmed: {
		booking.StatusCompleted,
	},
	booking.StatusCompleted: {
		// Terminal state - no transitions
	},
	booking.StatusRejected: {
		// Terminal state - no transitions
	},
}

// ValidateStatusTransition checks if status transition is allowed
func ValidateStatusTransition(currentStatus, newStatus booking.Status) error {
	allowedStatuses, exists := validTransitions[currentStatus]
	if !exists {
		return appErrors.NewAppError(
			appErrors.CodeInvalidTransition,
			fmt.Sprintf("Unknown current status: %s", currentStatus),
			nil,
		)
	}

	for _, allowed := range allowedStatuses {
		if newStatus == allowed {
			return nil
		}
	}

	return appErrors.NewAppError(appErrors.CodeInvalidTransition, transitionMessage(currentStatus), nil)
}

// GetAllowedTransitions returns allowed next statuses
func GetAllowedTransitions(currentStatus booking.Status) []booking.Status {
	return validTransitions[currentStatus]
}

// IsTerminal reports whether no transition leaves the status.
func IsTerminal(status booking.Status) bool {
	next, exists := validTransitions[status]
	return exists && len(next) == 0
}

func transitionMessage(current booking.Status) string {
	if IsTerminal(current) {
		return fmt.Sprintf("A %s booking cannot be changed.", current)
	}

	allowed := GetAllowedTransitions(current)

	quoted := make([]string, len(allowed))
	for i, s := range allowed {
		quoted[i] = fmt.Sprintf("%q", s)
	}

	return fmt.Sprintf("A %s booking can only be changed to %s.", current, strings.Join(quoted, " or "))
}
