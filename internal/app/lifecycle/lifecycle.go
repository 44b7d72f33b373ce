// Package lifecycle is the authoritative state machine for a request's status.
// It decides which transitions are legal, who may invoke them and which side
// effects a successful transition schedules. The package performs no I/O:
// callers load state, ask for a plan, persist the new status with a conditional
// update and then execute the planned effects.
package lifecycle

import (
	"errors"
	"math"
	"unicode/utf8"

	"processpilot/internal/app/role"

	"github.com/google/uuid"
)

// Status is a request's workflow state.
type Status string

const (
	StatusInReview   Status = "in_review"
	StatusApproved   Status = "approved"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusDenied     Status = "denied"
)

// Validation limits for submissions.
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 5000
)

var (
	ErrValidation        = errors.New("invalid input")
	ErrUnauthorized      = errors.New("operation requires admin role")
	ErrInvalidTransition = errors.New("illegal status transition")
	ErrNotFound          = errors.New("request not found")
	ErrStatusConflict    = errors.New("request status changed concurrently")
	ErrDuplicateInvoice  = errors.New("invoice already issued for request")
	ErrExternalService   = errors.New("external service failure")
)

// transitions is the full edge set. Anything not listed is illegal, including
// re-setting a status to its current value.
var transitions = map[Status][]Status{
	StatusInReview:   {StatusApproved, StatusDenied},
	StatusApproved:   {StatusInProgress},
	StatusInProgress: {StatusCompleted},
}

// Actor identifies who is invoking an operation. Handlers build it from the
// verified JWT; nothing here is ambient state.
type Actor struct {
	UserID uuid.UUID
	Email  string
	Role   role.Role
}

func (a Actor) IsAdmin() bool { return a.Role == role.Admin }

// Effect names a side effect the caller must execute after committing a
// transition. Effects are best-effort: failures are logged, never rolled back
// into the status change.
type Effect string

const (
	EffectNotifyOwner   Effect = "notify_owner"
	EffectCreateInvoice Effect = "create_invoice"
)

// Transition is a validated plan: commit From→To, then run Effects.
type Transition struct {
	From    Status
	To      Status
	Effects []Effect
}

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusInReview, StatusApproved, StatusInProgress, StatusCompleted, StatusDenied:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0 && s.Valid()
}

// Allowed reports whether the edge from→to exists.
func Allowed(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PlanTransition validates that actor may move a request from current to
// target and returns the plan with its side effects. costSet tells the planner
// whether the request has a priced estimate; completion only schedules an
// invoice when it does.
func PlanTransition(actor Actor, current, target Status, costSet bool) (*Transition, error) {
	if !actor.IsAdmin() {
		return nil, ErrUnauthorized
	}
	if !target.Valid() {
		return nil, ErrValidation
	}
	if !Allowed(current, target) {
		return nil, ErrInvalidTransition
	}

	plan := &Transition{
		From:    current,
		To:      target,
		Effects: []Effect{EffectNotifyOwner},
	}
	if target == StatusCompleted && costSet {
		plan.Effects = append(plan.Effects, EffectCreateInvoice)
	}
	return plan, nil
}

// ValidateSubmission checks title and description for a new request.
func ValidateSubmission(title, description string) error {
	if title == "" || description == "" {
		return ErrValidation
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return ErrValidation
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLen {
		return ErrValidation
	}
	return nil
}

// ValidateEstimatedCost accepts nil (unset) or a finite non-negative amount.
func ValidateEstimatedCost(actor Actor, amount *float64) error {
	if !actor.IsAdmin() {
		return ErrUnauthorized
	}
	if amount == nil {
		return nil
	}
	if math.IsNaN(*amount) || math.IsInf(*amount, 0) || *amount < 0 {
		return ErrValidation
	}
	return nil
}

// CanSubmitCredentials reports whether the owner may hand over platform
// credentials in the request's current state.
func CanSubmitCredentials(status Status) bool {
	return status == StatusApproved || status == StatusInProgress
}

// CanPay reports whether the owner may start a card payment.
func CanPay(status Status, paid bool) bool {
	return status == StatusApproved && !paid
}
