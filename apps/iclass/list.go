package main

import (
	"fmt"

	"github.com/zhaoyk/iclass-cli/core/iclass"
)

func (cli *commandLine) list(removeID string) error {
	if removeID != "" {
		n := cli.svc.RemoveCourse(removeID)
		cli.logger.Info(fmt.Sprintf("removed %d course(s)", n))
		return nil
	}
	fmt.Fprint(cli.out, iclass.CourseTable(cli.svc.Courses()))
	return nil
}
