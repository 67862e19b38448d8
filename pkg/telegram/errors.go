package telegram

import "errors"

var (
	// ErrNotAuthorized means the account could not complete the login
	// flow. The registry skips the account and keeps starting the rest.
	ErrNotAuthorized = errors.New("telegram: account not authorized")

	// ErrDestinationNotFound means the destination does not resolve to a
	// Telegram user (unknown phone or username).
	ErrDestinationNotFound = errors.New("telegram: destination not found")
)
