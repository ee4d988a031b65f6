package services

import (
	"errors"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuth
	KindAuthorization
	KindNotFound
	KindConflict
	KindBackend
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindBackend:
		return "backend"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by every service operation.
// Message is safe to show to the user; Err is the underlying cause and is
// only logged.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

var (
	ErrNotAuthenticated   = &Error{Kind: KindAuth, Message: "You must be logged in."}
	ErrInvalidCredentials = &Error{Kind: KindAuth, Message: "Invalid email or password. Please try again."}
	ErrCaptchaRejected    = &Error{Kind: KindAuth, Message: "reCAPTCHA verification failed."}
	ErrEmailTaken         = &Error{Kind: KindConflict, Message: "This email is already registered."}
	ErrSessionExpired     = &Error{Kind: KindAuth, Message: "Your session has expired. Please sign in again."}

	ErrNotAMember       = &Error{Kind: KindAuthorization, Message: "You are not a member of this cart."}
	ErrNotOwner         = &Error{Kind: KindAuthorization, Message: "Only the cart owner can do this."}
	ErrAlreadyMember    = &Error{Kind: KindConflict, Message: "You are already a member of this cart."}
	ErrOwnerCannotLeave = &Error{Kind: KindConflict, Message: "The cart owner cannot leave the cart. Delete it instead."}

	ErrCartNotFound      = &Error{Kind: KindNotFound, Message: "Group cart not found."}
	ErrProductNotFound   = &Error{Kind: KindNotFound, Message: "Product not found."}
	ErrItemNotFound      = &Error{Kind: KindNotFound, Message: "Item is not in the cart."}
	ErrInvalidInviteCode = &Error{Kind: KindNotFound, Message: "Invalid invite code."}
	ErrUserNotFound      = &Error{Kind: KindNotFound, Message: "User not found."}

	ErrAdvisorDisabled = &Error{Kind: KindBackend, Message: "AI advisor is not configured."}
)

func validationError(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// backendError logs and reports cause and hides it behind message.
func backendError(log *zap.Logger, message string, cause error, fields ...zap.Field) *Error {
	log.Error(message, append(fields, zap.Error(cause))...)
	sentry.CaptureException(cause)
	return &Error{Kind: KindBackend, Message: message, Err: cause}
}

// KindOf returns the Kind of err, KindBackend for errors that are not *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindBackend
}

// PublicMessage returns the user-facing text for err.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "An unexpected error occurred. Please try again."
}

// FieldOf returns the offending input field of a validation error.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}
