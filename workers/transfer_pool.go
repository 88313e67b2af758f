package workers

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/op/go-logging"
	"github.com/verident/mediasync/constants"
	"github.com/verident/mediasync/models/service"
	"github.com/verident/mediasync/util"
)

// ObjectFetcher fetches one remote object to a local path. The S3
// broker satisfies this; tests supply stubs. Defining the interface
// here keeps the pool testable without a live object store.
type ObjectFetcher interface {
	FetchObject(ctx context.Context, bucket, key, localPath string) error
}

// TransferPool downloads remote objects to local paths across a fixed
// number of concurrent workers. Each task is independent: a failing
// task never cancels its siblings, and existing local files are never
// deleted or overwritten.
type TransferPool struct {
	Fetcher     ObjectFetcher
	Bucket      string
	TargetDir   string
	NumWorkers  int
	TaskTimeout time.Duration
	Logger      *logging.Logger
}

func NewTransferPool(fetcher ObjectFetcher, bucket, targetDir string, numWorkers int, taskTimeout time.Duration, logger *logging.Logger) *TransferPool {
	if numWorkers <= 0 {
		numWorkers = constants.DefaultTransferWorkers
	}
	return &TransferPool{
		Fetcher:     fetcher,
		Bucket:      bucket,
		TargetDir:   targetDir,
		NumWorkers:  numWorkers,
		TaskTimeout: taskTimeout,
		Logger:      logger,
	}
}

// DownloadAll runs every task from the channel through the pool and
// returns one result per task, in completion order. Tasks whose
// remote key has no final path segment (directory placeholders) are
// dropped and produce no result. If ctx is cancelled, tasks not yet
// started are recorded as failed rather than silently dropped, so
// cardinality still holds.
func (p *TransferPool) DownloadAll(ctx context.Context, tasks <-chan service.TransferTask) []service.TransferResult {
	results := make(chan service.TransferResult)
	collected := make([]service.TransferResult, 0)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for result := range results {
			collected = append(collected, result)
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < p.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range tasks {
				result, ok := p.runTask(ctx, task)
				if ok {
					results <- result
				}
			}
		}()
	}
	wg.Wait()
	close(results)
	<-done
	return collected
}

// runTask handles one transfer. Errors are converted to result values
// here, at the unit boundary; nothing propagates to the collection
// loop. The second return value is false for dropped tasks.
func (p *TransferPool) runTask(ctx context.Context, task service.TransferTask) (service.TransferResult, bool) {
	baseName := util.BaseNameFromKey(task.RemoteKey)
	if baseName == "" {
		if p.Logger != nil {
			p.Logger.Infof("Dropping %s: key denotes a directory placeholder", task.RemoteKey)
		}
		return service.TransferResult{}, false
	}
	if task.LocalPath == "" {
		task.LocalPath = filepath.Join(p.TargetDir, baseName)
	}

	// The local filesystem is the single source of idempotency
	// truth: no checksum or ETag comparison, so a stale partial
	// file from an earlier run is never re-fetched.
	if util.FileExists(task.LocalPath) {
		return service.SkippedTransfer(task), true
	}

	if err := ctx.Err(); err != nil {
		return service.FailedTransfer(task, service.NewTransferError(task.RemoteKey, task.LocalPath, err)), true
	}

	fetchCtx := ctx
	if p.TaskTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, p.TaskTimeout)
		defer cancel()
	}
	err := p.Fetcher.FetchObject(fetchCtx, p.Bucket, task.RemoteKey, task.LocalPath)
	if err != nil {
		if p.Logger != nil {
			p.Logger.Errorf("Download of %s failed: %v", task.RemoteKey, err)
		}
		return service.FailedTransfer(task, service.NewTransferError(task.RemoteKey, task.LocalPath, err)), true
	}
	return service.Downloaded(task), true
}
