package iclass

import (
	"context"
	"fmt"
	"time"

	"github.com/zhaoyk/iclass-cli/core"
)

type (
	// Session is the remote collaborator: an authenticated transport that
	// can log in and issue query/check-in calls. Its own persisted state
	// (cookies, tokens) is opaque to this package.
	Session interface {
		Authenticate(ctx context.Context, username, password string) error
		ResolveIdentity(ctx context.Context) (string, error)
		QueryCourses(ctx context.Context, term, userID string) ([]Course, error)
		QuerySchedules(ctx context.Context, courseID, userID string) ([]Schedule, error)
		CheckIn(ctx context.Context, scheduleID, userID string) error
	}

	// LoadResult tells a ConfigStore caller how Load arrived at the Config
	// it returned.
	LoadResult int

	// ConfigStore loads and persists the Config document.
	ConfigStore interface {
		// Load never fails over a bad document: absence and corruption both
		// degrade to a default Config, distinguished by the LoadResult.
		Load() (Config, LoadResult, error)
		// Save serializes the full document and overwrites the old one.
		Save(Config) error
	}

	Service struct {
		config  *Config
		session Session
		logger  core.Logger

		// seams for the deadline scheduler
		now   func() time.Time
		sleep func(ctx context.Context, d time.Duration) error
		pick  func([]Schedule) Schedule
	}
)

const (
	ConfigLoaded LoadResult = iota
	ConfigDefaultedAbsent
	ConfigDefaultedCorrupt
)

func (r LoadResult) String() string {
	switch r {
	case ConfigLoaded:
		return "loaded"
	case ConfigDefaultedAbsent:
		return "defaulted (absent)"
	case ConfigDefaultedCorrupt:
		return "defaulted (corrupt)"
	}
	return "unknown"
}

func NewService(config *Config, session Session, logger core.Logger) *Service {
	return &Service{
		config:  config,
		session: session,
		logger:  logger,
		now:     time.Now,
		sleep:   sleepContext,
		pick:    PickLatest,
	}
}

// Login merges any supplied credentials into the stored ones, runs the SSO
// handshake and then the platform login that resolves the user id. A failed
// SSO step is reported but does not abort the platform step: session cookies
// from a previous run may still be accepted there.
func (svc *Service) Login(ctx context.Context, upd ConfigUpdate) error {
	svc.config.Apply(upd)
	svc.config.Username = core.CleanString(svc.config.Username)

	if err := svc.session.Authenticate(ctx, svc.config.Username, svc.config.Password); err != nil {
		svc.logger.Warn(fmt.Sprintf("sso login failed: %v", err), err)
	} else {
		svc.logger.Info("sso login ok")
	}

	id, err := svc.session.ResolveIdentity(ctx)
	if err != nil {
		return err
	}
	svc.config.UserID = id
	svc.logger.Info("platform login ok", map[string]interface{}{"user_id": id})
	return nil
}

// HasStoredPassword reports whether a password is already cached locally.
func (svc *Service) HasStoredPassword() bool {
	return svc.config.Password != ""
}

// Courses returns the cached course list.
func (svc *Service) Courses() []Course {
	return svc.config.Courses
}

// RemoveCourse prunes the cached course list; no remote call is made.
func (svc *Service) RemoveCourse(id string) int {
	return svc.config.RemoveCourse(id)
}

// QueryTerm fetches the term's course list and replaces the cache with it.
func (svc *Service) QueryTerm(ctx context.Context, term string) ([]Course, error) {
	if svc.config.UserID == "" {
		return nil, ErrNotLoggedIn
	}
	courses, err := svc.session.QueryCourses(ctx, term, svc.config.UserID)
	if err != nil {
		return nil, err
	}
	svc.config.ReplaceCourses(courses)
	return courses, nil
}

// QuerySchedules fetches a course's schedule list; nothing is persisted.
func (svc *Service) QuerySchedules(ctx context.Context, courseID string) ([]Schedule, error) {
	if svc.config.UserID == "" {
		return nil, ErrNotLoggedIn
	}
	return svc.session.QuerySchedules(ctx, courseID, svc.config.UserID)
}

// Checkin checks in to a schedule known by id.
func (svc *Service) Checkin(ctx context.Context, scheduleID string) error {
	if svc.config.UserID == "" {
		return ErrNotLoggedIn
	}
	if err := svc.session.CheckIn(ctx, scheduleID, svc.config.UserID); err != nil {
		return err
	}
	svc.logger.Info(fmt.Sprintf("checked in to schedule %s", scheduleID))
	return nil
}
