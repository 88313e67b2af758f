package main

import (
	"context"
	"fmt"
	"os"

	"github.com/verident/mediasync/constants"
	"github.com/verident/mediasync/models/common"
	"github.com/verident/mediasync/util"
	"github.com/verident/mediasync/util/cli"
	"github.com/verident/mediasync/workers"
)

func main() {
	cli.Init()
	cli.InitMaxKeys()
	opts := cli.ParseOpts()
	if opts.PrintHelp {
		printHelp()
		cli.PrintDefaults()
		os.Exit(0)
	}

	ctx := common.NewContext()
	pidFile := ctx.Config.PidFilePath(ctx.Config.OriginDir)
	if util.IsRunningInOtherProcess(pidFile) {
		fmt.Fprintf(os.Stderr, "Another fetcher is already working %s (pid file %s)\n",
			ctx.Config.OriginDir, pidFile)
		os.Exit(1)
	}
	if err := util.WritePidFile(pidFile); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot write pid file %s: %v\n", pidFile, err)
		os.Exit(1)
	}
	defer util.DeletePidFile(pidFile)

	ctx.Logger.Info("Starting with config settings:")
	ctx.Logger.Info(ctx.Config.ToJSON())

	maxKeys := ctx.Config.MaxKeys
	if opts.MaxKeys != constants.UseConfigMaxKeys {
		maxKeys = opts.MaxKeys
	}

	coordinator := workers.NewCoordinator(ctx)
	summary, err := coordinator.RunTransferPass(context.Background(), maxKeys, opts.NumWorkers)
	fmt.Println(summary.String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Transfer pass aborted: %v\n", err)
		util.DeletePidFile(pidFile)
		os.Exit(1)
	}
}

func printHelp() {
	message := `
origin_fetcher lists the verification records under SOURCE_BUCKET/SOURCE_PREFIX
and downloads each object into ORIGIN_DIR. Objects whose local copy already
exists are skipped, so interrupted runs can simply be restarted.

Use -limit to bound how many objects to process (-1 means no limit) and
-workers to override the TRANSFER_WORKERS setting.

`
	fmt.Println(message)
	fmt.Println(cli.EnvMessage)
}
