package util

import (
	"os"
	"strconv"

	ps "github.com/mitchellh/go-ps"
)

// The transfer pipeline assumes a single writer per data directory.
// Its idempotency checks are plain check-then-write, which is not safe
// against a second process working the same origin or destination dir.
// Each app writes a pid file into its data dir at startup and refuses
// to run while another live process holds it.

// IsRunningInOtherProcess returns true if the pid file at pathToFile
// contains a pid belonging to another live process.
func IsRunningInOtherProcess(pathToFile string) bool {
	if !FileExists(pathToFile) {
		return false
	}
	pid := ReadPidFile(pathToFile)
	return pid != 0 && pid != os.Getpid() && ProcessIsRunning(pid)
}

// ReadPidFile returns the pid from the specified file.
func ReadPidFile(pathToFile string) int {
	if data, err := os.ReadFile(pathToFile); err == nil {
		if pid, err := strconv.Atoi(string(data)); err == nil {
			return pid
		}
	}
	return 0
}

// WritePidFile writes this process' pid to the specified file.
func WritePidFile(pathToFile string) error {
	pidStr := strconv.Itoa(os.Getpid())
	return os.WriteFile(pathToFile, []byte(pidStr), 0664)
}

// DeletePidFile deletes the specified pid file.
func DeletePidFile(pathToFile string) error {
	return os.Remove(pathToFile)
}

// ProcessIsRunning returns true if the process with pid is running.
// This uses go-ps internally because golang's os.FindProcess always
// returns a process on *nix, even when no process with that pid is
// running.
func ProcessIsRunning(pid int) bool {
	proc, _ := ps.FindProcess(pid)
	return proc != nil
}
