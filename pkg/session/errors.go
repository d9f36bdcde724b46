package session

import "errors"

var (
	// ErrNotAuthenticated is returned for any gated operation under an
	// Unauthenticated session. No side effect happens.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrRemoteUnavailableOfflineMode is returned when a local-only session
	// attempts an operation that needs the remote store. Local-only expense
	// creation is the single exception that succeeds offline.
	ErrRemoteUnavailableOfflineMode = errors.New("remote store unavailable in offline mode")

	// ErrRemoteWriteFailed wraps transient remote write failures. There is
	// no silent fallback to the local cache; callers decide.
	ErrRemoteWriteFailed = errors.New("remote write failed")

	// ErrRemoteReadFailed wraps transient remote read failures.
	ErrRemoteReadFailed = errors.New("remote read failed")
)
