package main

import (
	"context"
	"fmt"
	"syscall"

	"github.com/volatiletech/null/v8"

	"github.com/zhaoyk/iclass-cli/core/iclass"
)

func (cli *commandLine) login(ctx context.Context, upd iclass.ConfigUpdate) error {
	// no password given and none saved: prompt instead of failing remotely
	if !upd.Password.Valid && !cli.svc.HasStoredPassword() {
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			return errHelp
		}
		upd.Password = null.StringFrom(string(pwd))
	}
	return cli.svc.Login(ctx, upd)
}
