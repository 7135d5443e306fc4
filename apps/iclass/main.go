package main

import (
	"os"

	"github.com/zhaoyk/iclass-cli/core"
	"github.com/zhaoyk/iclass-cli/core/iclass"
	logsvc "github.com/zhaoyk/iclass-cli/services/logger"
	sessionsvc "github.com/zhaoyk/iclass-cli/services/session"
	"github.com/zhaoyk/iclass-cli/storage/configfile"
)

func main() {
	logger := logsvc.NewLogger(core.Conf.GetBool("debug"))

	// load local state
	store := configfile.NewStore(core.Conf.GetString("configFile"))
	config, loadRes, err := store.Load()
	if err != nil {
		logger.Fatal("loading config", err)
	}
	if loadRes == iclass.ConfigDefaultedCorrupt {
		logger.Warn("config file unreadable, starting from defaults")
	}

	sess, err := sessionsvc.New(logger)
	if err != nil {
		logger.Fatal("setting up session", err)
	}

	// start CLI
	cli := &commandLine{
		svc:    iclass.NewService(&config, sess, logger),
		logger: logger,
		out:    os.Stdout,
	}
	runErr := cli.run(os.Args)

	// Local and session state are persisted exactly once, here, whatever the
	// command outcome was. A killed process loses everything since start.
	if err := sess.Save(); err != nil {
		logger.Error("saving session state", err)
	}
	if err := store.Save(config); err != nil {
		logger.Error("saving config", err)
	}

	if runErr != nil {
		if runErr != errHelp {
			logger.Error(runErr.Error(), runErr)
		}
		os.Exit(1)
	}
}
