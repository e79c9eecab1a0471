// Package lifecycle implements the job phase state machine.
//
// The phase is never stored: it is derived from the progress timestamps and the
// contract's absorbing status. Every transition is a forward fill of a null
// timestamp, so replaying a command that already succeeded is a no-op.
package lifecycle

import (
	"mecanica_jobs/internal/domain/entities"
)

type Phase string

const (
	PhaseQuoteAccepted               Phase = "quote_accepted"
	PhaseMechanicEnRoute             Phase = "mechanic_en_route"
	PhaseAwaitingArrivalConfirmation Phase = "awaiting_arrival_confirmation"
	PhaseReadyToStart                Phase = "ready_to_start"
	PhaseWorkInProgress              Phase = "work_in_progress"
	PhaseAwaitingCompletion          Phase = "awaiting_completion"
	PhaseCompleted                   Phase = "completed"
	PhaseCancelled                   Phase = "cancelled"
	PhaseDisputed                    Phase = "disputed"
)

// ordered lists the regular phases in the only order they may be visited.
var ordered = []Phase{
	PhaseQuoteAccepted,
	PhaseMechanicEnRoute,
	PhaseAwaitingArrivalConfirmation,
	PhaseReadyToStart,
	PhaseWorkInProgress,
	PhaseAwaitingCompletion,
	PhaseCompleted,
}

var labels = map[Phase]string{
	PhaseQuoteAccepted:               "Quote Accepted",
	PhaseMechanicEnRoute:             "Mechanic En Route",
	PhaseAwaitingArrivalConfirmation: "Confirm Arrival",
	PhaseReadyToStart:                "Ready to Start",
	PhaseWorkInProgress:              "Work In Progress",
	PhaseAwaitingCompletion:          "Awaiting Confirmation",
	PhaseCompleted:                   "Completed",
	PhaseCancelled:                   "Cancelled",
	PhaseDisputed:                    "Under Dispute",
}

func (p Phase) Label() string {
	if l, ok := labels[p]; ok {
		return l
	}
	return "Unknown"
}

// Terminal reports whether no further transition can leave p.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseCancelled || p == PhaseDisputed
}

// Index is the position of p in the regular order, or -1 for cancelled/disputed.
func (p Phase) Index() int {
	for i, o := range ordered {
		if o == p {
			return i
		}
	}
	return -1
}

// PhaseOf derives the phase from the immutable progress facts. Absorbing
// contract outcomes take precedence over timestamps.
func PhaseOf(progress entities.JobProgress, status entities.ContractStatus) Phase {
	switch status {
	case entities.ContractStatusCancelled:
		return PhaseCancelled
	case entities.ContractStatusDisputed:
		return PhaseDisputed
	case entities.ContractStatusCompleted:
		return PhaseCompleted
	}

	switch {
	case progress.FinalizedAt != nil:
		return PhaseCompleted
	case progress.MechanicCompletedAt != nil || progress.CustomerCompletedAt != nil:
		return PhaseAwaitingCompletion
	case progress.WorkStartedAt != nil:
		return PhaseWorkInProgress
	case progress.CustomerConfirmedArrivalAt != nil:
		return PhaseReadyToStart
	case progress.MechanicArrivedAt != nil:
		return PhaseAwaitingArrivalConfirmation
	case progress.MechanicDepartedAt != nil:
		return PhaseMechanicEnRoute
	}
	return PhaseQuoteAccepted
}

// IsForward reports whether moving from `from` to `to` respects the machine:
// staying put, moving strictly forward through the regular order, or moving
// sideways into cancelled/disputed from a non-terminal phase.
func IsForward(from, to Phase) bool {
	if from == to {
		return true
	}
	if from.Terminal() {
		return false
	}
	if to == PhaseCancelled || to == PhaseDisputed {
		return true
	}
	return to.Index() > from.Index()
}
