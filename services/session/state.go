package session

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

type (
	// state is the opaque persisted half of the session: the platform token
	// plus the cookies of both hosts, keyed by base URL.
	state struct {
		Token   string              `json:"token,omitempty"`
		Cookies map[string][]cookie `json:"cookies,omitempty"`
	}

	cookie struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
)

// restore loads the persisted state into the jar; a missing or unreadable
// file just means a fresh session.
func (s *Session) restore() {
	data, err := os.ReadFile(s.statePath)
	if err != nil {
		return
	}
	if err := json.Unmarshal(data, &s.state); err != nil {
		s.logger.Debug(fmt.Sprintf("session state unreadable, starting fresh: %v", err))
		s.state = state{}
		return
	}
	for base, cookies := range s.state.Cookies {
		u, err := url.Parse(base)
		if err != nil {
			continue
		}
		restored := make([]*http.Cookie, 0, len(cookies))
		for _, c := range cookies {
			restored = append(restored, &http.Cookie{Name: c.Name, Value: c.Value})
		}
		s.jar.SetCookies(u, restored)
	}
}

// Save persists the cookie and token state. It is triggered once, at
// shutdown; nothing else ever writes the file.
func (s *Session) Save() error {
	s.state.Cookies = make(map[string][]cookie, 2)
	for _, base := range []string{s.ssoBase, s.apiBase} {
		u, err := url.Parse(base)
		if err != nil {
			continue
		}
		saved := make([]cookie, 0, 4)
		for _, c := range s.jar.Cookies(u) {
			saved = append(saved, cookie{Name: c.Name, Value: c.Value})
		}
		if len(saved) > 0 {
			s.state.Cookies[base] = saved
		}
	}

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding session state")
	}
	if err := os.WriteFile(s.statePath, data, 0600); err != nil {
		return errors.Wrapf(err, "writing %s", s.statePath)
	}
	return nil
}

// tokenValid reports whether the stored platform token carries a future
// expiry. Claims are read unverified; this only avoids round-trips the
// platform is certain to reject anyway.
func (s *Session) tokenValid() bool {
	if s.state.Token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(s.state.Token, claims); err != nil {
		return false
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return false
	}
	return time.Now().Before(time.Unix(int64(exp), 0))
}
