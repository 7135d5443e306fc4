package iclass

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/volatiletech/null/v8"
)

type (
	// Course is a course the platform knows the user is enrolled in.
	Course struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Teachers string `json:"teachers"`
		Term     string `json:"term"`
	}

	// Schedule is a specific time-bound session of a Course, identified
	// remotely. Schedules are never persisted; they only exist as query
	// results. The platform orders them so that the last element is the
	// next relevant session.
	Schedule struct {
		ID         string `json:"id"`
		CourseID   string `json:"course_id"`
		BeginTime  string `json:"begin_time"`
		EndTime    string `json:"end_time"`
		SignStatus string `json:"sign_status"`
	}

	// Config is the locally persisted account state: credentials, the user
	// id resolved at login and the course list cached by term queries. It is
	// loaded once at start, mutated in place by the running command and
	// written back once at normal exit.
	Config struct {
		Username string   `json:"username"`
		Password string   `json:"password"`
		UserID   string   `json:"user_id"`
		Courses  []Course `json:"courses"`
	}

	// ConfigUpdate carries optionally-supplied fields for a field-wise merge
	// into Config. Only fields whose null.String is valid overwrite; unset
	// fields keep whatever was loaded.
	ConfigUpdate struct {
		Username null.String
		Password null.String
	}
)

// Apply merges upd into c field by field.
func (c *Config) Apply(upd ConfigUpdate) {
	if upd.Username.Valid {
		c.Username = upd.Username.String
	}
	if upd.Password.Valid {
		c.Password = upd.Password.String
	}
}

// RemoveCourse drops every cached course matching id, preserving the order
// of the survivors, and returns how many were dropped.
func (c *Config) RemoveCourse(id string) int {
	kept := c.Courses[:0]
	var removed int
	for _, crs := range c.Courses {
		if crs.ID == id {
			removed++
			continue
		}
		kept = append(kept, crs)
	}
	c.Courses = kept
	return removed
}

// ReplaceCourses swaps the cached course list wholesale; a successful term
// query is the only path that calls it.
func (c *Config) ReplaceCourses(courses []Course) {
	c.Courses = courses
}

// CourseTable renders courses as a plain text table.
func CourseTable(courses []Course) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTEACHERS\tTERM")
	for _, crs := range courses {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", crs.ID, crs.Name, crs.Teachers, crs.Term)
	}
	_ = w.Flush()
	return b.String()
}

// ScheduleTable renders schedules as a plain text table.
func ScheduleTable(schedules []Schedule) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tBEGIN\tEND\tSTATUS")
	for _, sched := range schedules {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", sched.ID, sched.BeginTime, sched.EndTime, sched.SignStatus)
	}
	_ = w.Flush()
	return b.String()
}
