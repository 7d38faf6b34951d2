package driveapp

import (
	"errors"
	"fmt"
	"strings"
)

// AuthReason classifies why a sign-in attempt failed.
type AuthReason int

const (
	// ReasonUnknown covers every failure the flow cannot classify.
	ReasonUnknown AuthReason = iota
	// ReasonPopupClosed means the user abandoned the consent flow before
	// completing it.
	ReasonPopupClosed
	// ReasonPopupBlocked means a browser window could not be opened for the
	// consent flow.
	ReasonPopupBlocked
	// ReasonAccessDenied means the user refused the requested permissions.
	ReasonAccessDenied
)

// AuthError is a failed sign-in attempt. It is always recoverable: the user
// retries by triggering the sign-in action again.
type AuthError struct {
	Reason AuthReason
	Err    error
}

func (e *AuthError) Error() string {
	switch e.Reason {
	case ReasonPopupClosed:
		return "Authentication cancelled. Please try again and complete the sign-in process."
	case ReasonPopupBlocked:
		return "A browser window could not be opened for sign-in. Please open the printed URL manually and try again."
	case ReasonAccessDenied:
		return "You denied the app permission to access your Google account. Please try again and allow access."
	default:
		return "Failed to authenticate with Google."
	}
}

func (e *AuthError) Unwrap() error { return e.Err }

// InitializationError means a required API client could not be constructed.
// It is surfaced as a blocking banner and disables sign-in.
type InitializationError struct {
	Err error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("failed to initialize Google API clients: %v", e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }

// ErrPickerUnavailable is returned when the file picker cannot be offered,
// typically because no API key was configured. Picker cancellation is not an
// error; it resolves with an empty selection.
var ErrPickerUnavailable = errors.New("the file picker is not available; check the application configuration and try again")

// ListingFetchError is a failed remote listing call. The view shows a static
// failure message; retrying means reloading the view.
type ListingFetchError struct {
	Err error
}

func (e *ListingFetchError) Error() string {
	return "Failed to fetch files from Google Drive"
}

func (e *ListingFetchError) Unwrap() error { return e.Err }

// ConfigurationError lists credential problems found before any network call.
// It blocks sign-in but never crashes the application.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}
