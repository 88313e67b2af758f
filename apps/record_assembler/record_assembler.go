package main

import (
	"context"
	"fmt"
	"os"

	"github.com/verident/mediasync/models/common"
	"github.com/verident/mediasync/util"
	"github.com/verident/mediasync/util/cli"
	"github.com/verident/mediasync/workers"
)

func main() {
	cli.Init()
	opts := cli.ParseOpts()
	if opts.PrintHelp {
		printHelp()
		cli.PrintDefaults()
		os.Exit(0)
	}

	ctx := common.NewContext()
	pidFile := ctx.Config.PidFilePath(ctx.Config.DestinationDir)
	if util.IsRunningInOtherProcess(pidFile) {
		fmt.Fprintf(os.Stderr, "Another assembler is already working %s (pid file %s)\n",
			ctx.Config.DestinationDir, pidFile)
		os.Exit(1)
	}
	if err := util.WritePidFile(pidFile); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot write pid file %s: %v\n", pidFile, err)
		os.Exit(1)
	}
	defer util.DeletePidFile(pidFile)

	ctx.Logger.Info("Starting with config settings:")
	ctx.Logger.Info(ctx.Config.ToJSON())

	coordinator := workers.NewCoordinator(ctx)
	summary, err := coordinator.RunAssemblyPass(context.Background(), opts.NumWorkers)
	fmt.Println(summary.String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Assembly pass aborted: %v\n", err)
		util.DeletePidFile(pidFile)
		os.Exit(1)
	}
}

func printHelp() {
	message := `
record_assembler scans ORIGIN_DIR for verification record files named
<prefix>-<id>.json and assembles each into DESTINATION_DIR/<id>/: the
referenced document photos, selfie, sprite and video assets, plus a
normalized data.json. Records whose destination directory already exists
are skipped entirely.

Use -workers to override the ASSEMBLY_WORKERS setting.

`
	fmt.Println(message)
	fmt.Println(cli.EnvMessage)
}
