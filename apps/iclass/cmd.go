package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/volatiletech/null/v8"

	"github.com/zhaoyk/iclass-cli/core"
	"github.com/zhaoyk/iclass-cli/core/iclass"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

// service is the slice of iclass.Service the CLI needs.
type service interface {
	Login(ctx context.Context, upd iclass.ConfigUpdate) error
	HasStoredPassword() bool
	Courses() []iclass.Course
	RemoveCourse(id string) int
	QueryTerm(ctx context.Context, term string) ([]iclass.Course, error)
	QuerySchedules(ctx context.Context, courseID string) ([]iclass.Schedule, error)
	Checkin(ctx context.Context, scheduleID string) error
	TimedCheckin(ctx context.Context, courseID, hhmm string) (iclass.Outcome, error)
}

type commandLine struct {
	svc    service
	logger core.Logger
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  login [-username USERNAME] [-password PASSWORD] - log in and store the resolved user id")
	fmt.Println("  list [-remove COURSE_ID] - show the cached course list, or prune an entry from it")
	fmt.Println("  query [-term TERM_ID] [-course COURSE_ID] - fetch a term's courses and/or a course's schedules")
	fmt.Println("  checkin [-schedule SCHEDULE_ID] [-course COURSE_ID -time HHMM] - check in now, or at HHMM")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginUname := loginCmd.String("username", "", "The account's username. Saved for later runs.")
	loginPwd := loginCmd.String("password", "", "The account's password. Prompted for when absent and none is saved.")

	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	listRemove := listCmd.String("remove", "", "Remove a cached course by its ID; some cached courses go stale.")

	queryCmd := flag.NewFlagSet("query", flag.ExitOnError)
	queryTerm := queryCmd.String("term", "", "Term ID, eg. '202420251' for the 2024 autumn term. The result replaces the cached course list.")
	queryCourse := queryCmd.String("course", "", "Course ID whose schedules to fetch.")

	checkinCmd := flag.NewFlagSet("checkin", flag.ExitOnError)
	checkinSchedule := checkinCmd.String("schedule", "", "Check in directly by schedule ID.")
	checkinCourse := checkinCmd.String("course", "", "Course ID to check in to at -time.")
	checkinTime := checkinCmd.String("time", "", "Check-in time as 4 digits, eg. '0800' for 8:00.")

	ctx := context.Background()
	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		upd := iclass.ConfigUpdate{}
		loginCmd.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "username":
				upd.Username = null.StringFrom(*loginUname)
			case "password":
				upd.Password = null.StringFrom(*loginPwd)
			}
		})
		return cli.login(ctx, upd)
	case "list":
		if err := listCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.list(*listRemove)
	case "query":
		if err := queryCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.query(ctx, *queryTerm, *queryCourse)
	case "checkin":
		if err := checkinCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.checkin(ctx, checkinInput{
			Schedule: *checkinSchedule,
			Course:   *checkinCourse,
			Time:     *checkinTime,
		})
	default:
		cli.printUsage()
		return errHelp
	}
}
