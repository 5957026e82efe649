package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure taxonomy. Callers match with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrReferenceNotFound  = errors.New("reference not found")
	ErrHasDependents      = errors.New("has dependents")
	ErrInvariantViolation = errors.New("invariant violation")
)

// ViolationKind classifies a violation for error translation.
type ViolationKind string

// Violation kinds reported by the integrity guard and rules.
const (
	ViolationReferenceNotFound ViolationKind = "reference_not_found"
	ViolationHasDependents     ViolationKind = "has_dependents"
	ViolationInvariant         ViolationKind = "invariant_violation"
)

// Sentinel returns the sentinel error matching the kind.
func (k ViolationKind) Sentinel() error {
	switch k {
	case ViolationReferenceNotFound:
		return ErrReferenceNotFound
	case ViolationHasDependents:
		return ErrHasDependents
	default:
		return ErrInvariantViolation
	}
}

// NotFoundError is returned when a requested id resolves to nothing.
type NotFoundError struct {
	Entity EntityType
	ID     int64
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// Is allows errors.Is(err, ErrNotFound).
func (e NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ViolationError wraps a single blocking violation raised before commit.
type ViolationError struct {
	Violation Violation
}

func (e ViolationError) Error() string {
	v := e.Violation
	return fmt.Sprintf("%s: %s %d: %s", v.Rule, v.Entity, v.EntityID, v.Message)
}

// Is matches the sentinel of the violation kind.
func (e ViolationError) Is(target error) bool {
	return target == e.Violation.Kind.Sentinel()
}

// RuleViolationError is returned when commit-time rules report blocking violations.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	if v, ok := e.Result.FirstBlocking(); ok {
		return fmt.Sprintf("transaction blocked by rule %s: %s", v.Rule, v.Message)
	}
	return "transaction blocked by rules"
}

// Is matches the sentinel of the first blocking violation.
func (e RuleViolationError) Is(target error) bool {
	v, ok := e.Result.FirstBlocking()
	if !ok {
		return false
	}
	return target == v.Kind.Sentinel()
}

// ViolationOf extracts the violation carried by err, if any.
func ViolationOf(err error) (Violation, bool) {
	var ve ViolationError
	if errors.As(err, &ve) {
		return ve.Violation, true
	}
	var re RuleViolationError
	if errors.As(err, &re) {
		return re.Result.FirstBlocking()
	}
	return Violation{}, false
}
