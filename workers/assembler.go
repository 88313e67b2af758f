package workers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/op/go-logging"
	"github.com/verident/mediasync/constants"
	"github.com/verident/mediasync/models/service"
	"github.com/verident/mediasync/util"
)

// AssetFetcher downloads one media asset URL to a local path.
// network.HTTPClient satisfies this; tests supply stubs.
type AssetFetcher interface {
	FetchToFile(ctx context.Context, url, localPath string) error
}

// Assembler turns verification record files from the origin directory
// into per-record directories under the destination directory: the
// record's media assets plus a normalized data.json.
type Assembler struct {
	Fetcher        AssetFetcher
	DestinationDir string
	NumWorkers     int
	TaskTimeout    time.Duration
	Logger         *logging.Logger
}

func NewAssembler(fetcher AssetFetcher, destinationDir string, numWorkers int, taskTimeout time.Duration, logger *logging.Logger) *Assembler {
	if numWorkers <= 0 {
		numWorkers = constants.DefaultAssemblyWorkers
	}
	return &Assembler{
		Fetcher:        fetcher,
		DestinationDir: destinationDir,
		NumWorkers:     numWorkers,
		TaskTimeout:    taskTimeout,
		Logger:         logger,
	}
}

// AssembleAll processes the given record files across the pool,
// returning one outcome per file in completion order.
func (a *Assembler) AssembleAll(ctx context.Context, sourceFiles []string) []service.RecordOutcome {
	files := make(chan string)
	go func() {
		defer close(files)
		for _, f := range sourceFiles {
			files <- f
		}
	}()

	outcomes := make(chan service.RecordOutcome)
	collected := make([]service.RecordOutcome, 0, len(sourceFiles))
	done := make(chan struct{})
	go func() {
		defer close(done)
		for outcome := range outcomes {
			collected = append(collected, outcome)
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < a.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range files {
				outcomes <- a.ProcessRecord(ctx, file)
			}
		}()
	}
	wg.Wait()
	close(outcomes)
	<-done
	return collected
}

// ProcessRecord assembles one verification record. Every failure is
// converted to an outcome here; nothing propagates to the pool.
//
// The record directory doubles as the idempotency gate: if it already
// exists, the whole record was handled by an earlier run and is
// skipped with no further work. The gate is coarse-grained; there is
// no partial resume inside an existing directory. To keep a parse
// failure from permanently poisoning that gate, the directory is
// created only after the source file parses cleanly.
func (a *Assembler) ProcessRecord(ctx context.Context, sourceFile string) service.RecordOutcome {
	verificationID, err := util.VerificationIDFromFilename(sourceFile)
	if err != nil {
		return a.recordFailure("", sourceFile, "invalid filename", nil)
	}

	recordDir := filepath.Join(a.DestinationDir, verificationID)
	if util.FileExists(recordDir) {
		return service.RecordSkipped(verificationID, sourceFile, "record directory already exists")
	}

	jsonData, err := os.ReadFile(sourceFile)
	if err != nil {
		return a.recordFailure(verificationID, sourceFile, "cannot read source file", err)
	}
	record, err := service.VerificationRecordFromJSON(jsonData, verificationID)
	if err != nil {
		return a.recordFailure(verificationID, sourceFile, "cannot parse source file", err)
	}

	if err = os.Mkdir(recordDir, 0755); err != nil {
		return a.recordFailure(verificationID, sourceFile, "cannot create record directory", err)
	}

	failedAssets := a.downloadAssets(ctx, record, recordDir)

	// Committing the normalized record is the final step. If it
	// fails, the record is an error even when every asset landed.
	normalized, err := record.NormalizedJSON()
	if err != nil {
		return a.recordFailure(verificationID, sourceFile, "cannot serialize record", err)
	}
	dataPath := filepath.Join(recordDir, constants.FileRecordJSON)
	if err = os.WriteFile(dataPath, normalized, 0644); err != nil {
		return a.recordFailure(verificationID, sourceFile, fmt.Sprintf("cannot write %s", constants.FileRecordJSON), err)
	}

	if len(failedAssets) > 0 {
		reason := fmt.Sprintf("failed assets: %s", strings.Join(failedAssets, ", "))
		return service.RecordPartialSuccess(verificationID, sourceFile, reason, failedAssets)
	}
	return service.RecordSuccess(verificationID, sourceFile)
}

// recordFailure logs the failure and returns the matching outcome.
// The cause, when present, is folded into the outcome reason so the
// summary alone explains what went wrong.
func (a *Assembler) recordFailure(verificationID, sourceFile, reason string, cause error) service.RecordOutcome {
	if a.Logger != nil {
		a.Logger.Errorf("%v", service.NewRecordError(sourceFile, reason, cause))
	}
	if cause != nil {
		reason = fmt.Sprintf("%s: %v", reason, cause)
	}
	return service.RecordFailed(verificationID, sourceFile, reason)
}

// downloadAssets fetches every asset the record references into
// recordDir. Each fetch is independent and best-effort: a failure is
// recorded and the remaining assets still download. Returns the
// classes of the assets that failed.
func (a *Assembler) downloadAssets(ctx context.Context, record *service.VerificationRecord, recordDir string) []string {
	failed := make([]string, 0)
	fail := func(class, url string, err error) {
		failed = append(failed, class)
		if a.Logger != nil {
			assetErr := service.NewAssetError(class, url, err)
			a.Logger.Warningf("Record %s: %v", record.VerificationID, assetErr)
		}
	}

	for _, doc := range record.Documents {
		if len(doc.Photos) == 0 {
			continue
		}
		if err := a.fetchAsset(ctx, doc.Photos[0], filepath.Join(recordDir, constants.FileDocFront)); err != nil {
			fail(constants.AssetDocFront, doc.Photos[0], err)
		}
		if len(doc.Photos) > 1 {
			if err := a.fetchAsset(ctx, doc.Photos[1], filepath.Join(recordDir, constants.FileDocBack)); err != nil {
				fail(constants.AssetDocBack, doc.Photos[1], err)
			}
		}
	}

	for _, step := range record.Steps {
		if step.SelfieURL != "" {
			if err := a.fetchAsset(ctx, step.SelfieURL, filepath.Join(recordDir, constants.FileSelfie)); err != nil {
				fail(constants.AssetSelfie, step.SelfieURL, err)
			}
		}
		if step.SpriteURL != "" {
			if err := a.fetchAsset(ctx, step.SpriteURL, filepath.Join(recordDir, constants.FileSprite)); err != nil {
				fail(constants.AssetSprite, step.SpriteURL, err)
			}
		}
		if step.VideoURL != "" {
			videoPath := filepath.Join(recordDir, util.VideoFileName(step.VideoURL))
			if err := a.fetchAsset(ctx, step.VideoURL, videoPath); err != nil {
				fail(constants.AssetVideo, step.VideoURL, err)
			}
		}
	}
	return failed
}

func (a *Assembler) fetchAsset(ctx context.Context, url, localPath string) error {
	fetchCtx := ctx
	if a.TaskTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, a.TaskTimeout)
		defer cancel()
	}
	return a.Fetcher.FetchToFile(fetchCtx, url, localPath)
}
