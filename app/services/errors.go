package services

import "errors"

// Sentinel errors returned by the service layer. Controllers map these to
// HTTP statuses; services never touch http.ResponseWriter.
var (
	// ErrNotFound: the record does not exist, or the caller may not know it exists.
	ErrNotFound = errors.New("record not found")

	// ErrForbidden: the caller is authenticated but not allowed.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict: the operation conflicts with current state (already
	// completed, item mid-swap, duplicate email).
	ErrConflict = errors.New("conflict")

	// ErrInvalidTransition: the requested status change is not allowed from
	// the record's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInsufficientBalance: redemption cost exceeds the caller's balance.
	ErrInsufficientBalance = errors.New("insufficient points balance")

	// ErrInvalidCredentials: login failed; deliberately generic.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnsupportedMedia: an uploaded file type is not accepted.
	ErrUnsupportedMedia = errors.New("unsupported media type")
)
