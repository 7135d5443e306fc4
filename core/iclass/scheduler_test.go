package iclass

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zhaoyk/iclass-cli/core"
)

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		in      string
		want    ClockTime
		wantErr bool
	}{
		{in: "0000", want: ClockTime{0, 0}},
		{in: "0800", want: ClockTime{8, 0}},
		{in: "2359", want: ClockTime{23, 59}},
		{in: "1230", want: ClockTime{12, 30}},
		{in: "2400", wantErr: true},
		{in: "0960", wantErr: true},
		{in: "800", wantErr: true},
		{in: "08000", wantErr: true},
		{in: "ab00", wantErr: true},
		{in: "08:0", wantErr: true},
		{in: "", wantErr: true},
		{in: "-100", wantErr: true},
		{in: "-040", wantErr: true},
		{in: "08-0", wantErr: true},
		{in: "+800", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClockTime(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseClockTime(%q) error = nil, want error", tt.in)
				}
				var vErr *core.ValidationError
				if !errors.As(err, &vErr) {
					t.Errorf("ParseClockTime(%q) error = %T, want *core.ValidationError", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClockTime(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseClockTime(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDeadline(t *testing.T) {
	tz := core.Timezone()
	now := time.Date(2025, 3, 14, 7, 59, 50, 123, tz)

	got := Deadline(now, ClockTime{Hour: 8, Minute: 0})

	if got.Hour() != 8 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Errorf("Deadline() = %v, want 08:00:00.0", got)
	}
	if got.Year() != 2025 || got.Month() != time.March || got.Day() != 14 {
		t.Errorf("Deadline() date = %v, want today (2025-03-14)", got)
	}
	if got.Location() != tz {
		t.Errorf("Deadline() location = %v, want %v", got.Location(), tz)
	}
}

func TestPickLatest(t *testing.T) {
	schedules := []Schedule{{ID: "s1"}, {ID: "s2"}, {ID: "s3"}}
	if got := PickLatest(schedules); got.ID != "s3" {
		t.Errorf("PickLatest() = %s, want s3", got.ID)
	}
}

func TestService_TimedCheckin_waitsThenFires(t *testing.T) {
	// 07:59:50 against an 08:00 deadline: 10s remaining + 5s margin = 15s.
	now := time.Date(2025, 3, 14, 7, 59, 50, 0, core.Timezone())
	sess := &fakeSession{schedules: []Schedule{{ID: "s1"}, {ID: "s2"}, {ID: "s3"}}}
	var slept time.Duration
	svc := newTestService(&Config{UserID: "u1"}, sess, now, &slept)

	outcome, err := svc.TimedCheckin(context.Background(), "c1", "0800")

	if err != nil {
		t.Fatalf("TimedCheckin() error = %v", err)
	}
	if outcome != OutcomeSucceeded {
		t.Errorf("outcome = %v, want succeeded", outcome)
	}
	if want := 15 * time.Second; slept != want {
		t.Errorf("slept %v, want %v", slept, want)
	}
	// the schedule is resolved fresh after the wait and the last entry wins
	if want := []string{"schedules", "checkin"}; len(sess.calls) != 2 || sess.calls[0] != want[0] || sess.calls[1] != want[1] {
		t.Errorf("calls = %v, want %v", sess.calls, want)
	}
	if len(sess.checkedIn) != 1 || sess.checkedIn[0] != "s3" {
		t.Errorf("checkedIn = %v, want [s3]", sess.checkedIn)
	}
	if len(sess.queriedFor) != 1 || sess.queriedFor[0] != "c1" {
		t.Errorf("queriedFor = %v, want [c1]", sess.queriedFor)
	}
}

func TestService_TimedCheckin_pastDeadlineSkips(t *testing.T) {
	// 08:00:10 against an 08:00 deadline: -10s + 5s margin <= 0, skip.
	now := time.Date(2025, 3, 14, 8, 0, 10, 0, core.Timezone())
	sess := &fakeSession{schedules: []Schedule{{ID: "s1"}}}
	var slept time.Duration
	svc := newTestService(&Config{UserID: "u1"}, sess, now, &slept)

	outcome, err := svc.TimedCheckin(context.Background(), "c1", "0800")

	if err != nil {
		t.Fatalf("TimedCheckin() error = %v", err)
	}
	if outcome != OutcomeSkipped {
		t.Errorf("outcome = %v, want skipped", outcome)
	}
	if slept != 0 {
		t.Errorf("slept %v, want no wait at all", slept)
	}
	if len(sess.calls) != 0 {
		t.Errorf("calls = %v, want zero remote calls", sess.calls)
	}
}

func TestService_TimedCheckin_marginCoversJustPast(t *testing.T) {
	// 08:00:04 is past the deadline but within the 5s margin: still waits.
	now := time.Date(2025, 3, 14, 8, 0, 4, 0, core.Timezone())
	sess := &fakeSession{schedules: []Schedule{{ID: "s1"}}}
	var slept time.Duration
	svc := newTestService(&Config{UserID: "u1"}, sess, now, &slept)

	outcome, err := svc.TimedCheckin(context.Background(), "c1", "0800")

	if err != nil {
		t.Fatalf("TimedCheckin() error = %v", err)
	}
	if outcome != OutcomeSucceeded {
		t.Errorf("outcome = %v, want succeeded", outcome)
	}
	if want := 1 * time.Second; slept != want {
		t.Errorf("slept %v, want %v", slept, want)
	}
}

func TestService_TimedCheckin_failures(t *testing.T) {
	now := time.Date(2025, 3, 14, 7, 59, 50, 0, core.Timezone())
	queryErr := &QueryError{Op: "schedules", Err: errors.New("boom")}
	checkinErr := &CheckinError{ScheduleID: "s1", Err: errors.New("rejected")}

	tests := []struct {
		name    string
		cfg     Config
		sess    *fakeSession
		hhmm    string
		wantErr error
	}{
		{
			name:    "not logged in",
			cfg:     Config{},
			sess:    &fakeSession{},
			hhmm:    "0800",
			wantErr: ErrNotLoggedIn,
		},
		{
			name:    "query fails",
			cfg:     Config{UserID: "u1"},
			sess:    &fakeSession{schedulesErr: queryErr},
			hhmm:    "0800",
			wantErr: queryErr,
		},
		{
			name:    "no schedules at deadline",
			cfg:     Config{UserID: "u1"},
			sess:    &fakeSession{schedules: []Schedule{}},
			hhmm:    "0800",
			wantErr: ErrNoSchedules,
		},
		{
			name:    "checkin rejected",
			cfg:     Config{UserID: "u1"},
			sess:    &fakeSession{schedules: []Schedule{{ID: "s1"}}, checkinErr: checkinErr},
			hhmm:    "0800",
			wantErr: checkinErr,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&tt.cfg, tt.sess, now, nil)

			outcome, err := svc.TimedCheckin(context.Background(), "c1", tt.hhmm)

			if outcome != OutcomeFailed {
				t.Errorf("outcome = %v, want failed", outcome)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_TimedCheckin_invalidTime(t *testing.T) {
	now := time.Date(2025, 3, 14, 7, 0, 0, 0, core.Timezone())
	sess := &fakeSession{}
	svc := newTestService(&Config{UserID: "u1"}, sess, now, nil)

	outcome, err := svc.TimedCheckin(context.Background(), "c1", "2500")

	if outcome != OutcomeFailed {
		t.Errorf("outcome = %v, want failed", outcome)
	}
	var vErr *core.ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("error = %T, want *core.ValidationError", err)
	}
	if len(sess.calls) != 0 {
		t.Errorf("calls = %v, want none", sess.calls)
	}
}

func TestService_TimedCheckin_cancelledWait(t *testing.T) {
	now := time.Date(2025, 3, 14, 7, 59, 50, 0, core.Timezone())
	sess := &fakeSession{schedules: []Schedule{{ID: "s1"}}}
	svc := newTestService(&Config{UserID: "u1"}, sess, now, nil)
	svc.sleep = sleepContext // real cancellable wait

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := svc.TimedCheckin(ctx, "c1", "0800")

	if outcome != OutcomeFailed {
		t.Errorf("outcome = %v, want failed", outcome)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if len(sess.calls) != 0 {
		t.Errorf("calls = %v, want none after cancellation", sess.calls)
	}
}
