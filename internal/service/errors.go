package service

import (
	"errors"
	"fmt"
)

// ProfileField names the requester attribute that blocks a search.
type ProfileField string

const (
	FieldBirthDate ProfileField = "bdate"
	FieldCity      ProfileField = "city"
)

// IncompleteProfileError is returned when the requester profile lacks data the
// search needs. The user can fix it in their profile settings.
type IncompleteProfileError struct {
	UserID int64
	Field  ProfileField
}

func (e *IncompleteProfileError) Error() string {
	return fmt.Sprintf("user %d: incomplete profile: %s", e.UserID, e.Field)
}

// LookupError wraps a failed directory profile lookup.
type LookupError struct {
	UserID int64
	Err    error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup user %d: %v", e.UserID, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

var (
	// ErrNoCurrentCandidate means nothing has been shown to the user yet.
	ErrNoCurrentCandidate = errors.New("no current candidate")
	// ErrNoCandidates means the directory search came back empty.
	ErrNoCandidates = errors.New("no candidates found")
	errUserNotFound = errors.New("user not found")
)
