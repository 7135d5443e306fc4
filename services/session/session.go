// Package session implements the remote collaborator: the campus SSO
// handshake and the class-attendance platform API, over a cookie-carrying
// HTTP client whose state persists between runs.
package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/zhaoyk/iclass-cli/core"
	"github.com/zhaoyk/iclass-cli/core/iclass"
)

const (
	ssoLoginPath = "/login"

	platformLoginPath = "/app/user/login.action"
	courseListPath    = "/app/choosecourse/get_myall_course.action"
	scheduleListPath  = "/app/my/get_my_course_sign_detail.action"
	checkinPath       = "/app/course/stu_scan_sign.action"

	statusOK = "0"
)

var executionRegex = regexp.MustCompile(`name="execution" value="([^"]+)"`)

type Session struct {
	client    *rest.Client
	jar       http.CookieJar
	logger    core.Logger
	ssoBase   string
	apiBase   string
	statePath string

	username string
	state    state
}

var _ iclass.Session = (*Session)(nil)

func New(logger core.Logger) (*Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating cookie jar")
	}
	s := &Session{
		client: &rest.Client{HTTPClient: &http.Client{
			Jar:     jar,
			Timeout: core.Conf.GetDuration("httpTimeout"),
		}},
		jar:       jar,
		logger:    logger,
		ssoBase:   core.Conf.GetString("ssoBaseURL"),
		apiBase:   core.Conf.GetString("apiBaseURL"),
		statePath: core.Conf.GetString("cookieFile"),
	}
	s.restore()
	return s, nil
}

// Authenticate runs the SSO form login. When the stored platform token still
// carries a future expiry the round-trip is skipped entirely.
func (s *Session) Authenticate(ctx context.Context, username, password string) error {
	s.username = username

	if s.tokenValid() {
		s.logger.Debug("stored token still valid, skipping sso")
		return nil
	}

	form, err := s.client.SendWithContext(ctx, rest.Request{
		Method:  rest.Get,
		BaseURL: s.ssoBase + ssoLoginPath,
	})
	if err != nil {
		return &iclass.AuthError{Step: "sso", Err: err}
	}
	m := executionRegex.FindStringSubmatch(form.Body)
	if m == nil {
		return &iclass.AuthError{Step: "sso", Err: errors.New("login form not recognized")}
	}

	payload := url.Values{}
	payload.Set("username", username)
	payload.Set("password", password)
	payload.Set("execution", m[1])
	payload.Set("_eventId", "submit")
	resp, err := s.client.SendWithContext(ctx, rest.Request{
		Method:  rest.Post,
		BaseURL: s.ssoBase + ssoLoginPath,
		Headers: map[string]string{
			"Content-Type": "application/x-www-form-urlencoded",
			"X-Request-Id": uuid.New().String(),
		},
		Body: []byte(payload.Encode()),
	})
	if err != nil {
		return &iclass.AuthError{Step: "sso", Err: err}
	}
	switch resp.StatusCode {
	case http.StatusOK, http.StatusFound:
		return nil
	case http.StatusUnauthorized:
		return &iclass.AuthError{Step: "sso", Err: errors.New("bad username or password")}
	default:
		return &iclass.AuthError{Step: "sso", Err: errors.Errorf("unexpected http %d", resp.StatusCode)}
	}
}

// ResolveIdentity runs the platform login that rides on the SSO cookies and
// returns the platform's user id for the authenticated account.
func (s *Session) ResolveIdentity(ctx context.Context) (string, error) {
	raw, err := s.call(ctx, platformLoginPath, map[string]string{
		"phone":     s.username,
		"userLevel": "1",
	})
	if err != nil {
		return "", &iclass.AuthError{Step: "platform", Err: err}
	}
	var ident struct {
		ID           string `json:"id"`
		SessionToken string `json:"sessionToken"`
	}
	if err := json.Unmarshal(raw, &ident); err != nil {
		return "", &iclass.AuthError{Step: "platform", Err: errors.Wrap(err, "decoding identity")}
	}
	if ident.ID == "" {
		return "", &iclass.AuthError{Step: "platform", Err: errors.New("no user id in response")}
	}
	if ident.SessionToken != "" {
		s.state.Token = ident.SessionToken
	}
	return ident.ID, nil
}

func (s *Session) QueryCourses(ctx context.Context, term, userID string) ([]iclass.Course, error) {
	raw, err := s.call(ctx, courseListPath, map[string]string{
		"user_type": "1",
		"id":        userID,
		"xq_code":   term,
	})
	if err != nil {
		return nil, &iclass.QueryError{Op: "courses", Err: err}
	}
	var records []courseRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, &iclass.QueryError{Op: "courses", Err: errors.Wrap(err, "decoding course list")}
	}
	courses := make([]iclass.Course, 0, len(records))
	for _, rec := range records {
		courses = append(courses, iclass.Course{
			ID:       rec.CourseID,
			Name:     rec.CourseName,
			Teachers: rec.TeacherName,
			Term:     rec.SemesterID,
		})
	}
	return courses, nil
}

func (s *Session) QuerySchedules(ctx context.Context, courseID, userID string) ([]iclass.Schedule, error) {
	raw, err := s.call(ctx, scheduleListPath, map[string]string{
		"id":      courseID,
		"user_id": userID,
	})
	if err != nil {
		return nil, &iclass.QueryError{Op: "schedules", Err: err}
	}
	var records []scheduleRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, &iclass.QueryError{Op: "schedules", Err: errors.Wrap(err, "decoding schedule list")}
	}
	schedules := make([]iclass.Schedule, 0, len(records))
	for _, rec := range records {
		schedules = append(schedules, iclass.Schedule{
			ID:         rec.ID,
			CourseID:   rec.CourseID,
			BeginTime:  rec.ClassBeginTime,
			EndTime:    rec.ClassEndTime,
			SignStatus: rec.SignStatus,
		})
	}
	return schedules, nil
}

func (s *Session) CheckIn(ctx context.Context, scheduleID, userID string) error {
	millis := time.Now().UnixNano() / int64(time.Millisecond)
	if _, err := s.call(ctx, checkinPath, map[string]string{
		"courseSchedId": scheduleID,
		"id":            userID,
		"timestamp":     strconv.FormatInt(millis, 10),
	}); err != nil {
		return &iclass.CheckinError{ScheduleID: scheduleID, Err: err}
	}
	return nil
}

// call issues a platform API request and unwraps its STATUS/result envelope.
func (s *Session) call(ctx context.Context, path string, params map[string]string) (json.RawMessage, error) {
	headers := map[string]string{"X-Request-Id": uuid.New().String()}
	if s.state.Token != "" {
		headers["sessionToken"] = s.state.Token
	}
	resp, err := s.client.SendWithContext(ctx, rest.Request{
		Method:      rest.Get,
		BaseURL:     s.apiBase + path,
		Headers:     headers,
		QueryParams: params,
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected http %d", resp.StatusCode)
	}
	var env envelope
	if err := json.Unmarshal([]byte(resp.Body), &env); err != nil {
		return nil, errors.Wrap(err, "decoding response")
	}
	if env.Status != statusOK {
		if env.ErrMsg != "" {
			return nil, errors.Errorf("platform status %s: %s", env.Status, env.ErrMsg)
		}
		return nil, errors.Errorf("platform status %s", env.Status)
	}
	return env.Result, nil
}

type (
	// envelope is the platform's uniform response wrapper.
	envelope struct {
		Status string          `json:"STATUS"`
		ErrMsg string          `json:"ERRMSG"`
		Result json.RawMessage `json:"result"`
	}

	// wire records; the platform keeps everything stringly typed
	courseRecord struct {
		CourseID    string `json:"course_id"`
		CourseName  string `json:"course_name"`
		TeacherName string `json:"teacher_name"`
		SemesterID  string `json:"xq_code"`
	}

	scheduleRecord struct {
		ID             string `json:"courseSchedId"`
		CourseID       string `json:"courseId"`
		ClassBeginTime string `json:"classBeginTime"`
		ClassEndTime   string `json:"classEndTime"`
		SignStatus     string `json:"signStatus"`
	}
)
