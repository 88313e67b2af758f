package cli

import (
	"flag"

	"github.com/verident/mediasync/constants"
)

type Options struct {
	MaxKeys    int
	NumWorkers int
	PrintHelp  bool
}

var opts = Options{MaxKeys: constants.UseConfigMaxKeys}

var EnvMessage = `This requires the following environment vars:

MEDIASYNC_CONFIG_DIR - Path to the directory containing the .env settings file.

MEDIASYNC_ENV - Name of the configuration to load. For example:
    test - Loads .env.test from MEDIASYNC_CONFIG_DIR
    demo - Loads .env.demo from MEDIASYNC_CONFIG_DIR
`

// Init registers the flags every app takes.
func Init() {
	flag.IntVar(&opts.NumWorkers, "workers", 0, "Number of go routines to handle main processing work. Defaults to the config setting.")
	flag.BoolVar(&opts.PrintHelp, "help", false, "Print help message")
}

// InitMaxKeys registers the -limit flag. Only apps that list remote
// objects take it; the others never register it, so it can't be
// passed and silently ignored.
func InitMaxKeys() {
	flag.IntVar(&opts.MaxKeys, "limit", constants.UseConfigMaxKeys, "Maximum number of objects to process. -1 means no limit. Defaults to the MAX_KEYS config setting.")
}

func ParseOpts() Options {
	flag.Parse()
	return opts
}

func PrintDefaults() {
	flag.PrintDefaults()
}
