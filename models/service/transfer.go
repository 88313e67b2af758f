package service

import (
	"time"

	"github.com/verident/mediasync/constants"
)

// ObjectDescriptor describes one remote object yielded by the lister.
// Descriptors are ephemeral: each is consumed once by a transfer
// worker and never persisted. A listing failure arrives as a
// descriptor with a non-nil Err; items yielded before the failure
// remain valid.
type ObjectDescriptor struct {
	Key          string
	Size         int64
	LastModified time.Time
	Err          error
}

// TransferTask tells a worker to download one remote object to one
// local path. Its lifecycle ends when the worker emits a
// TransferResult.
type TransferTask struct {
	RemoteKey string
	LocalPath string
}

// TransferResult records the outcome of one TransferTask. Action is
// one of constants.ActionDownloaded, ActionSkipped, ActionFailed.
// Results are never mutated after creation.
type TransferResult struct {
	RemoteKey string `json:"remote_key"`
	LocalPath string `json:"local_path"`
	Action    string `json:"action"`
	Err       error  `json:"-"`
}

func Downloaded(task TransferTask) TransferResult {
	return TransferResult{
		RemoteKey: task.RemoteKey,
		LocalPath: task.LocalPath,
		Action:    constants.ActionDownloaded,
	}
}

func SkippedTransfer(task TransferTask) TransferResult {
	return TransferResult{
		RemoteKey: task.RemoteKey,
		LocalPath: task.LocalPath,
		Action:    constants.ActionSkipped,
	}
}

func FailedTransfer(task TransferTask, err error) TransferResult {
	return TransferResult{
		RemoteKey: task.RemoteKey,
		LocalPath: task.LocalPath,
		Action:    constants.ActionFailed,
		Err:       err,
	}
}
