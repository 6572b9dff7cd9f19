package identity

import "errors"

var (
	// ErrInvalidCredentials is returned when the identity service rejects an
	// email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrSessionEstablishmentFailed is returned when a nominally successful
	// login never produces a usable session.
	ErrSessionEstablishmentFailed = errors.New("failed to establish session")

	// ErrProfileCreationFailed is returned when neither the signup trigger
	// nor the manual fallback produced a profile row within the retry budget.
	ErrProfileCreationFailed = errors.New("failed to create profile")

	// ErrProfileFetchDegraded marks a resolution that fell back to
	// identity-service metadata. The returned identity is still usable;
	// callers treat this as non-fatal.
	ErrProfileFetchDegraded = errors.New("profile fetch degraded to metadata fallback")

	// ErrOAuthInitiationFailed is returned when the OAuth redirect could not
	// be started. The pending role is always cleared on this path.
	ErrOAuthInitiationFailed = errors.New("failed to initiate oauth flow")

	// ErrProfileNotFound is returned by ProfileStore implementations when no
	// row exists for the given id.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrProfileExists is returned by ProfileStore.Create when a row for the
	// id already exists (the signup trigger won the race).
	ErrProfileExists = errors.New("profile already exists")
)
