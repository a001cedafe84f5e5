package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoEligiblePost signals that an account scan found no single-photo
	// post and no carousel starting with a photo inside the scan window.
	ErrNoEligiblePost = errors.New("no eligible photo post in scan window")
)

// AuthError is a session or login failure. Fatal: the run aborts.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string { return "auth failed: " + e.Err.Error() }
func (e *AuthError) Unwrap() error { return e.Err }

// ResolutionError is a post or account lookup failure. Aborts the current
// target only.
type ResolutionError struct {
	Ref string
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving %q: %v", e.Ref, e.Err)
}
func (e *ResolutionError) Unwrap() error { return e.Err }

// FetchError is an image or comment retrieval failure. Aborts the current
// target only.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %q: %v", e.URL, e.Err)
}
func (e *FetchError) Unwrap() error { return e.Err }

// InferenceError covers a disabled inference client, a failed model call, or
// a malformed response. Non-fatal: the orchestrator shows it and moves on.
type InferenceError struct {
	Reason string
	Err    error
}

func (e *InferenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("inference: %s: %v", e.Reason, e.Err)
	}
	return "inference: " + e.Reason
}
func (e *InferenceError) Unwrap() error { return e.Err }

// PublishError is a comment or reply submission failure. Logged; the run
// continues with the next target.
type PublishError struct {
	Err error
}

func (e *PublishError) Error() string { return "publish failed: " + e.Err.Error() }
func (e *PublishError) Unwrap() error { return e.Err }
