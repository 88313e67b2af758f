package logger

import (
	"fmt"
	stdlog "log"
	"os"
	"path"
	"path/filepath"

	"github.com/op/go-logging"
)

// InitLogger sets up the process-wide log file under logDir, named
// after the running binary (origin_fetcher.log, record_assembler.log).
// Returns the logger and the path of the file it writes to. A log dir
// we cannot write to is a fatal startup error.
func InitLogger(logDir string, logLevel logging.Level) (*logging.Logger, string) {
	procName := path.Base(os.Args[0])
	logFile := filepath.Join(logDir, procName+".log")
	writer, err := os.OpenFile(logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open log file '%s': %v\n", logFile, err)
		os.Exit(1)
	}
	log := logging.MustGetLogger(procName)
	logging.SetFormatter(logging.MustStringFormatter("[%{level}] %{message}"))
	logging.SetLevel(logLevel, procName)
	logging.SetBackend(logging.NewLogBackend(writer, "", stdlog.LstdFlags|stdlog.LUTC))
	return log, logFile
}
