package apperrors

import (
	"net/http"
)

/*
Factories and predefined variables for common business-logic and domain
errors. Repositories return their own sentinel errors; services translate
those into AppError via these factories.
*/

// =========================================================================
// Factory functions (wrapping repository errors)
// =========================================================================

// ErrNotFound converts a repository not-found (gorm.ErrRecordNotFound and
// friends) into a 404 AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists converts a uniqueness violation into a 409 AppError.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict is the generic conflict factory.
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// =========================================================================
// Factory functions (new errors)
// =========================================================================

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// =========================================================================
// Predefined variables (frequent, static errors)
// =========================================================================

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// --- Notifications ---

// ErrAmbiguousRecipient rejects a notification addressing both a user and an
// admin, or neither. The recipient XOR invariant is checked before any write.
var ErrAmbiguousRecipient = New(
	CodeValidationFailed,
	"notification",
	"Exactly one of user or admin recipient must be set",
	http.StatusBadRequest,
)

// ErrInvalidNotificationKind rejects kinds outside info/success/warning/error.
var ErrInvalidNotificationKind = New(
	CodeValidationFailed,
	"notification",
	"Invalid notification kind",
	http.StatusBadRequest,
)

// --- Alerts ---

// ErrBudgetRange rejects alert criteria where the minimum budget exceeds the
// maximum. Malformed criteria are refused at creation, never at match time.
var ErrBudgetRange = New(
	CodeValidationFailed,
	"alert",
	"Minimum budget must not exceed maximum budget",
	http.StatusBadRequest,
)

var ErrInvalidListingType = New(
	CodeValidationFailed,
	"alert",
	"Transaction type must be 'sale' or 'rent'",
	http.StatusBadRequest,
)

var ErrInvalidAlertCategory = New(
	CodeValidationFailed,
	"alert",
	"Unknown alert category",
	http.StatusBadRequest,
)

// ErrTooManyAlerts caps the number of saved alerts per account.
var ErrTooManyAlerts = New(
	CodeLimitExceeded,
	"alert",
	"Saved alert limit reached",
	http.StatusUnprocessableEntity,
)

// --- Properties ---

var ErrInvalidPropertyType = New(
	CodeValidationFailed,
	"property",
	"Unknown property type",
	http.StatusBadRequest,
)

// --- Auth & user status ---

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrUserSuspended = New(
	CodeForbidden,
	"auth",
	"Your account has been suspended",
	http.StatusForbidden,
)
