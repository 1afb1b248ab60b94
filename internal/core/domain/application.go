package domain

import (
	"errors"
	"time"
)

// ApplicationStatus represents the lifecycle state of an application.
type ApplicationStatus string

const (
	StatusApplied  ApplicationStatus = "Applied"
	StatusAccepted ApplicationStatus = "Accepted"
	StatusRejected ApplicationStatus = "Rejected"
)

// validTransitions defines the allowed state machine transitions.
// Accepted and Rejected are terminal.
var validTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusApplied: {StatusAccepted, StatusRejected},
}

var (
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrApplicationNotFound = errors.New("application not found")
	ErrAlreadyApplied      = errors.New("you have already applied to this listing")
	ErrWorkerLimitReached  = errors.New("worker limit reached")
	ErrApplicationConflict = errors.New("application changed concurrently")
)

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is defined from s.
func (s ApplicationStatus) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// Application is a worker's request to join a listing.
type Application struct {
	Applicant string            `json:"applicant"`
	Status    ApplicationStatus `json:"status"`
	AppliedAt time.Time         `json:"applied_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ApplicationEvent is an audit record for an application change.
type ApplicationEvent struct {
	ListingID string
	WorkerID  string
	ActorID   string
	Status    ApplicationStatus
	At        time.Time
}
