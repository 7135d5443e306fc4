package main

import (
	"context"
	"fmt"

	"github.com/zhaoyk/iclass-cli/core/iclass"
)

// query handles -term and -course independently; either, both or neither may
// be given. A failure in one part is reported and does not stop the other.
func (cli *commandLine) query(ctx context.Context, term, course string) error {
	var firstErr error

	if term != "" {
		courses, err := cli.svc.QueryTerm(ctx, term)
		if err != nil {
			cli.logger.Error(fmt.Sprintf("querying term %s: %v", term, err), err)
			firstErr = err
		} else {
			fmt.Fprint(cli.out, iclass.CourseTable(courses))
		}
	}

	if course != "" {
		schedules, err := cli.svc.QuerySchedules(ctx, course)
		if err != nil {
			cli.logger.Error(fmt.Sprintf("querying schedules of %s: %v", course, err), err)
			if firstErr == nil {
				firstErr = err
			}
		} else {
			fmt.Fprint(cli.out, iclass.ScheduleTable(schedules))
		}
	}

	return firstErr
}
