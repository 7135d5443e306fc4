package main

import (
	"context"
	"fmt"

	"github.com/zhaoyk/iclass-cli/core"
)

type checkinInput struct {
	Schedule string `json:"schedule"`
	Course   string `json:"course"`
	Time     string `json:"time" validate:"omitempty,hhmm"`
}

// checkin handles -schedule and -course/-time independently, like the query
// subcommand does its flags.
func (cli *commandLine) checkin(ctx context.Context, in checkinInput) error {
	if err := core.Validate.Struct(in); err != nil {
		return core.TranslateError(err)
	}

	var firstErr error

	if in.Schedule != "" {
		if err := cli.svc.Checkin(ctx, in.Schedule); err != nil {
			cli.logger.Error(fmt.Sprintf("checkin failed: %v", err), err)
			firstErr = err
		}
	}

	switch {
	case in.Course != "" && in.Time != "":
		if _, err := cli.svc.TimedCheckin(ctx, in.Course, in.Time); err != nil {
			cli.logger.Error(fmt.Sprintf("timed checkin failed: %v", err), err)
			if firstErr == nil {
				firstErr = err
			}
		}
	case in.Course != "":
		cli.logger.Warn("-course given without -time; nothing to do")
	case in.Time != "":
		cli.logger.Warn("-time given without -course; nothing to do")
	}

	return firstErr
}
