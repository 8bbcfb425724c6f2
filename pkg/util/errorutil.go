package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// ErrorKind tags a DomainError so callers can branch on kind, not message.
type ErrorKind string

const (
	KindAuthFailed         ErrorKind = "AUTH_FAILED"
	KindForbidden          ErrorKind = "FORBIDDEN"
	KindNotFound           ErrorKind = "NOT_FOUND"
	KindConflict           ErrorKind = "CONFLICT"
	KindViolation          ErrorKind = "VIOLATION"
	KindProtectedAsManager ErrorKind = "PROTECTED_AS_MANAGER"
	KindProtectedAsMember  ErrorKind = "PROTECTED_AS_MEMBER"
	KindValidation         ErrorKind = "VALIDATION_FAILED"
	KindIntegrity          ErrorKind = "INTEGRITY"
)

// ViolationKind narrows a domain-invariant breach.
type ViolationKind string

const (
	ViolationManagerBusy        ViolationKind = "ManagerBusy"
	ViolationInvalidRole        ViolationKind = "InvalidRole"
	ViolationAgentBusy          ViolationKind = "AgentBusy"
	ViolationNameTaken          ViolationKind = "NameTaken"
	ViolationInvalidManagerRole ViolationKind = "InvalidManagerRole"
	ViolationInvalidMemberRole  ViolationKind = "InvalidMemberRole"
	ViolationManagerIsMember    ViolationKind = "ManagerIsMember"
	ViolationInvalidSpecialty   ViolationKind = "InvalidSpecialty"
	ViolationInvalidPayment     ViolationKind = "InvalidPayment"
)

// DomainError standardizes application errors.
type DomainError struct {
	Kind       ErrorKind
	Violation  ViolationKind
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(kind ErrorKind, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Kind: kind, Message: message, HTTPStatus: status, Details: details}
}

func NewAuthFailed(message string) error {
	return NewDomainError(KindAuthFailed, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(KindForbidden, message, http.StatusForbidden, nil)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Kind:       KindNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(KindConflict, message, http.StatusConflict, details)
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(KindValidation, message, http.StatusBadRequest, details)
}

// NewViolation reports a broken domain invariant.
func NewViolation(kind ViolationKind, message string) error {
	return &DomainError{
		Kind:       KindViolation,
		Violation:  kind,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

func NewProtectedAsManager(message string) error {
	return NewDomainError(KindProtectedAsManager, message, http.StatusConflict, nil)
}

func NewProtectedAsMember(message string) error {
	return NewDomainError(KindProtectedAsMember, message, http.StatusConflict, nil)
}

// NewIntegrity wraps a post-guard constraint breach. Fatal for the transaction.
func NewIntegrity(err error) error {
	return &DomainError{
		Kind:       KindIntegrity,
		Message:    "integrity failure",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsKind reports whether err is a DomainError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Kind == kind
}

// IsViolation reports whether err is a Violation of the given narrow kind.
func IsViolation(err error, kind ViolationKind) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Kind == KindViolation && domainErr.Violation == kind
}

// ToDomainError converts generic errors to DomainError. Anything
// unclassified surfaces as an integrity failure.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	if de, ok := NewIntegrity(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Kind:       KindIntegrity,
		Message:    "integrity failure",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError normalizes err to a DomainError, preserving nil.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}
