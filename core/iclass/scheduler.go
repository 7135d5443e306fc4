package iclass

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/zhaoyk/iclass-cli/core"
)

// Outcome is the terminal state of a timed check-in run.
type Outcome int

const (
	OutcomeSucceeded Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// ClockTime is a wall-clock time of day parsed from the 4-digit "HHMM" form.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses "HHMM" into a ClockTime, rejecting anything that is
// not exactly 4 digits with hour in [00,23] and minute in [00,59].
func ParseClockTime(s string) (ClockTime, error) {
	invalid := func() error {
		return core.NewValidationError(
			errors.Errorf("invalid time %q", s),
			core.FieldError{Field: "time", Error: "must be a 4-digit 24-hour time, eg. '0800'"},
		)
	}
	if len(s) != 4 {
		return ClockTime{}, invalid()
	}
	// Atoi tolerates sign characters, so digits are enforced up front.
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return ClockTime{}, invalid()
		}
	}
	hour, _ := strconv.Atoi(s[:2])
	if hour > 23 {
		return ClockTime{}, invalid()
	}
	minute, _ := strconv.Atoi(s[2:])
	if minute > 59 {
		return ClockTime{}, invalid()
	}
	return ClockTime{Hour: hour, Minute: minute}, nil
}

// Deadline combines now's calendar date with t at zero seconds, in now's
// location.
func Deadline(now time.Time, t ClockTime) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), t.Hour, t.Minute, 0, 0, now.Location())
}

// PickLatest selects the last schedule of the returned sequence; the
// platform orders schedules so the last one is the next relevant session.
func PickLatest(schedules []Schedule) Schedule {
	return schedules[len(schedules)-1]
}

// TimedCheckin arms the deadline scheduler: it computes today's deadline
// from hhmm in the platform timezone, waits for it and only then resolves
// which schedule of the course to check in to.
//
// The schedule id is deliberately not resolved up front. The session to act
// on may not exist yet when the tool is invoked; querying fresh on wake acts
// on whichever instance is current at the deadline.
func (svc *Service) TimedCheckin(ctx context.Context, courseID, hhmm string) (Outcome, error) {
	if svc.config.UserID == "" {
		return OutcomeFailed, ErrNotLoggedIn
	}
	ct, err := ParseClockTime(hhmm)
	if err != nil {
		return OutcomeFailed, err
	}

	now := svc.now().In(core.Timezone())
	target := Deadline(now, ct)
	// Bias the wait to end slightly after the nominal deadline, never
	// before; the platform clock may run ahead of ours.
	remaining := target.Sub(now) + core.Conf.GetDuration("checkinMargin")

	// Deadlines already past are skipped outright, they are not fired late.
	if remaining <= 0 {
		svc.logger.Info(fmt.Sprintf("%s is already past, nothing to do", target.Format("15:04")))
		return OutcomeSkipped, nil
	}

	svc.logger.Info(fmt.Sprintf("waiting %d seconds", int(remaining/time.Second)))
	if err := svc.sleep(ctx, remaining); err != nil {
		return OutcomeFailed, err
	}

	schedules, err := svc.session.QuerySchedules(ctx, courseID, svc.config.UserID)
	if err != nil {
		return OutcomeFailed, err
	}
	if len(schedules) == 0 {
		return OutcomeFailed, &QueryError{Op: "schedules", Err: ErrNoSchedules}
	}
	sched := svc.pick(schedules)

	if err := svc.session.CheckIn(ctx, sched.ID, svc.config.UserID); err != nil {
		return OutcomeFailed, err
	}
	svc.logger.Info(fmt.Sprintf("checked in to schedule %s", sched.ID))
	return OutcomeSucceeded, nil
}

// sleepContext waits for d unless ctx is cancelled first. This is the only
// suspension point in the whole program.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
