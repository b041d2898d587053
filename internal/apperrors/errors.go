// internal/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies core error conditions
type ErrorCode int

const (
	// No error occurred
	CodeNone ErrorCode = iota
	// Input shape is malformed
	CodeValidation
	// Operation is not legal in the current state machine state
	CodeInvalidState
	// Permission resolver denied the operation
	CodeNotAuthorised
	// Referenced entity is missing
	CodeNotFound
	// Optimistic concurrency violation detected
	CodeConflict
	// Amendment iteration was already submitted
	CodeAlreadySubmitted
	// Target workflow step is not the active step
	CodeNotActiveStep
	// Reviewer is not assigned to the workflow step
	CodeUnknownReviewer
	// Reviewer already recorded a recommendation for the step
	CodeDuplicateRecommendation
)

// ValidationError reports malformed input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error [%s]: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// InvalidStateError reports an operation attempted outside its legal state.
type InvalidStateError struct {
	Code      ErrorCode
	Entity    string
	State     string
	Operation string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid state [%s in %s]: cannot %s", e.Entity, e.State, e.Operation)
}

func NewInvalidStateError(entity, state, operation string) *InvalidStateError {
	return &InvalidStateError{Code: CodeInvalidState, Entity: entity, State: state, Operation: operation}
}

// NotAuthorisedError reports a denied permission check.
type NotAuthorisedError struct {
	UserID    string
	Operation string
}

func (e *NotAuthorisedError) Error() string {
	return fmt.Sprintf("not authorised [%s]: %s", e.UserID, e.Operation)
}

func NewNotAuthorisedError(userID, operation string) *NotAuthorisedError {
	return &NotAuthorisedError{UserID: userID, Operation: operation}
}

// NotFoundError reports a missing referenced entity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError surfaces an optimistic concurrency violation back into the
// core; the caller must re-fetch before retrying.
type ConflictError struct {
	Entity string
	ID     string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s %s: %s", e.Entity, e.ID, e.Reason)
}

func NewConflictError(entity, id, reason string) *ConflictError {
	return &ConflictError{Entity: entity, ID: id, Reason: reason}
}

// AlreadySubmittedError reports a re-submission of a submitted iteration.
type AlreadySubmittedError struct {
	Code  ErrorCode
	Index int
}

func (e *AlreadySubmittedError) Error() string {
	return fmt.Sprintf("amendment iteration %d already submitted", e.Index)
}

func NewAlreadySubmittedError(index int) *AlreadySubmittedError {
	return &AlreadySubmittedError{Code: CodeAlreadySubmitted, Index: index}
}

// NotActiveStepError reports a recommendation against a non-active step.
type NotActiveStepError struct {
	Code      ErrorCode
	StepIndex int
}

func (e *NotActiveStepError) Error() string {
	return fmt.Sprintf("workflow step %d is not active", e.StepIndex)
}

func NewNotActiveStepError(stepIndex int) *NotActiveStepError {
	return &NotActiveStepError{Code: CodeNotActiveStep, StepIndex: stepIndex}
}

// UnknownReviewerError reports a recommendation from an unassigned reviewer.
type UnknownReviewerError struct {
	Code      ErrorCode
	StepIndex int
	Reviewer  string
}

func (e *UnknownReviewerError) Error() string {
	return fmt.Sprintf("reviewer %s is not assigned to workflow step %d", e.Reviewer, e.StepIndex)
}

func NewUnknownReviewerError(stepIndex int, reviewer string) *UnknownReviewerError {
	return &UnknownReviewerError{Code: CodeUnknownReviewer, StepIndex: stepIndex, Reviewer: reviewer}
}

// DuplicateRecommendationError reports a second recommendation by the same
// reviewer on one step.
type DuplicateRecommendationError struct {
	Code      ErrorCode
	StepIndex int
	Reviewer  string
}

func (e *DuplicateRecommendationError) Error() string {
	return fmt.Sprintf("reviewer %s already recorded a recommendation for step %d", e.Reviewer, e.StepIndex)
}

func NewDuplicateRecommendationError(stepIndex int, reviewer string) *DuplicateRecommendationError {
	return &DuplicateRecommendationError{Code: CodeDuplicateRecommendation, StepIndex: stepIndex, Reviewer: reviewer}
}

// IsInvalidState reports whether err is an InvalidStateError.
func IsInvalidState(err error) bool {
	var target *InvalidStateError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsNotAuthorised reports whether err is a NotAuthorisedError.
func IsNotAuthorised(err error) bool {
	var target *NotAuthorisedError
	return errors.As(err, &target)
}
