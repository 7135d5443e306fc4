package iclass

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotLoggedIn is returned by operations that need the resolved user id
	// before `login` has ever succeeded.
	ErrNotLoggedIn = errors.New("no user id stored, run `login` first")

	// ErrNoSchedules is returned when a schedule query succeeds but comes
	// back empty at fire time, so there is nothing to check in to.
	ErrNoSchedules = errors.New("no matching schedule at deadline")
)

// AuthError reports a failure of the authentication handshake or of the
// identity-resolution step that follows it.
type AuthError struct {
	Step string // "sso" or "platform"
	Err  error
}

func (e *AuthError) Error() string { return fmt.Sprintf("%s login: %v", e.Step, e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }

// QueryError reports a failed remote listing.
type QueryError struct {
	Op  string // "courses" or "schedules"
	Err error
}

func (e *QueryError) Error() string { return fmt.Sprintf("querying %s: %v", e.Op, e.Err) }
func (e *QueryError) Unwrap() error { return e.Err }

// CheckinError reports a rejected check-in call.
type CheckinError struct {
	ScheduleID string
	Err        error
}

func (e *CheckinError) Error() string {
	return fmt.Sprintf("checkin to schedule %s: %v", e.ScheduleID, e.Err)
}
func (e *CheckinError) Unwrap() error { return e.Err }
