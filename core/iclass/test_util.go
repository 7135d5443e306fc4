package iclass

import (
	"context"
	"time"
)

// fakeSession records remote calls and plays back canned results.
type fakeSession struct {
	authErr      error
	identity     string
	identityErr  error
	courses      []Course
	coursesErr   error
	schedules    []Schedule
	schedulesErr error
	checkinErr   error

	calls      []string
	checkedIn  []string
	queriedFor []string
}

func (f *fakeSession) Authenticate(_ context.Context, _, _ string) error {
	f.calls = append(f.calls, "authenticate")
	return f.authErr
}

func (f *fakeSession) ResolveIdentity(_ context.Context) (string, error) {
	f.calls = append(f.calls, "identity")
	return f.identity, f.identityErr
}

func (f *fakeSession) QueryCourses(_ context.Context, _, _ string) ([]Course, error) {
	f.calls = append(f.calls, "courses")
	return f.courses, f.coursesErr
}

func (f *fakeSession) QuerySchedules(_ context.Context, courseID, _ string) ([]Schedule, error) {
	f.calls = append(f.calls, "schedules")
	f.queriedFor = append(f.queriedFor, courseID)
	return f.schedules, f.schedulesErr
}

func (f *fakeSession) CheckIn(_ context.Context, scheduleID, _ string) error {
	f.calls = append(f.calls, "checkin")
	f.checkedIn = append(f.checkedIn, scheduleID)
	return f.checkinErr
}

// nopLogger discards everything.
type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// newTestService wires a Service over fakes, freezing the clock at now and
// recording sleeps instead of performing them.
func newTestService(cfg *Config, sess *fakeSession, now time.Time, slept *time.Duration) *Service {
	svc := NewService(cfg, sess, nopLogger{})
	svc.now = func() time.Time { return now }
	svc.sleep = func(_ context.Context, d time.Duration) error {
		if slept != nil {
			*slept = d
		}
		return nil
	}
	return svc
}
