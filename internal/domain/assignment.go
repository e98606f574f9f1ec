package domain

import "time"

type AssignmentStatus string

const (
	AssignmentStatusPending   AssignmentStatus = "PENDING"
	AssignmentStatusApproved  AssignmentStatus = "APPROVED"
	AssignmentStatusRejected  AssignmentStatus = "REJECTED"
	AssignmentStatusWithdrawn AssignmentStatus = "WITHDRAWN"
	AssignmentStatusExpired   AssignmentStatus = "EXPIRED"
)

// assignmentTransitions: PENDING fans out to four terminal states. The owner
// approves or rejects, the driver withdraws, the sweep expires.
var assignmentTransitions = map[AssignmentStatus][]AssignmentStatus{
	AssignmentStatusPending: {
		AssignmentStatusApproved,
		AssignmentStatusRejected,
		AssignmentStatusWithdrawn,
		AssignmentStatusExpired,
	},
	AssignmentStatusApproved:  {},
	AssignmentStatusRejected:  {},
	AssignmentStatusWithdrawn: {},
	AssignmentStatusExpired:   {},
}

// CanTransitionTo reports whether from -> to is an allowed status change.
func (from AssignmentStatus) CanTransitionTo(to AssignmentStatus) bool {
	for _, s := range assignmentTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s AssignmentStatus) IsTerminal() bool {
	return len(assignmentTransitions[s]) == 0
}

// CarAssignmentRequest is a driver's outstanding request to be assigned a
// car. For a (car, driver) pair at most one request is PENDING at a time; a
// driver re-requesting the same car updates the pending row in place.
// Approval does not itself assign the driver to the car; that is a separate,
// idempotent operation.
type CarAssignmentRequest struct {
	ID                 int32  `json:"id"`
	CarID              int32  `json:"car_id"`
	DriverID           int32  `json:"driver_id"`
	OwnerID            int32  `json:"owner_id"`
	AvailableStartDate string `json:"available_start_date"`
	// AvailableEndDate nil means the driver is available indefinitely; such
	// requests are never expired by the sweep.
	AvailableEndDate *string          `json:"available_end_date,omitempty"`
	MaxHoursPerWeek  int32            `json:"max_hours_per_week"`
	DriverNotes      string           `json:"driver_notes,omitempty"`
	Status           AssignmentStatus `json:"status"`
	ReviewedAt       *time.Time       `json:"reviewed_at,omitempty"`
	ReviewedBy       *int32           `json:"reviewed_by,omitempty"`
	RejectionReason  string           `json:"rejection_reason,omitempty"`
	CreatedOn        time.Time        `json:"created_on"`
	UpdatedOn        time.Time        `json:"updated_on"`
}
