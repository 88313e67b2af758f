package workers

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/verident/mediasync/models/common"
	"github.com/verident/mediasync/models/service"
)

const (
	OpTransfer = "transfer"
	OpAssembly = "assembly"
)

// ObjectSource yields descriptors for the objects a transfer pass
// should download. network.ObjectLister satisfies this; tests supply
// fakes.
type ObjectSource interface {
	List(ctx context.Context, bucket, prefix string, limit int) <-chan service.ObjectDescriptor
}

// Coordinator drives one full pass: enumerate inputs, dispatch to the
// worker pool, collect every per-unit outcome, and aggregate counts
// and elapsed time into a RunSummary. Per-unit failures never abort a
// pass; only credential and listing failures do.
type Coordinator struct {
	Context *common.Context

	// Source and Fetcher feed the transfer pass. NewCoordinator
	// wires them to the context's lister and S3 broker.
	Source  ObjectSource
	Fetcher ObjectFetcher

	// RunID keys this run's outcomes in the Redis mirror.
	RunID string
}

func NewCoordinator(context *common.Context) *Coordinator {
	c := &Coordinator{
		Context: context,
		RunID:   uuid.New().String(),
	}
	if context.Lister != nil {
		c.Source = context.Lister
	}
	if context.S3Broker != nil {
		c.Fetcher = context.S3Broker
	}
	return c
}

// RunTransferPass lists the source bucket under the configured prefix
// and downloads each object into the origin directory. maxKeys bounds
// the listing (constants.UnlimitedKeys for no bound); numWorkers <= 0
// means the configured default. The returned summary is complete even
// when the pass aborts on a listing error: items collected before the
// failure keep their results.
func (c *Coordinator) RunTransferPass(ctx context.Context, maxKeys, numWorkers int) (*service.RunSummary, error) {
	cfg := c.Context.Config
	if numWorkers <= 0 {
		numWorkers = cfg.TransferWorkers
	}
	summary := service.NewRunSummary(OpTransfer)
	summary.Start()
	c.Context.Logger.Infof("Starting transfer pass %s: bucket=%s prefix=%s maxKeys=%d workers=%d",
		c.RunID, cfg.SourceBucket, cfg.SourcePrefix, maxKeys, numWorkers)

	poolCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var listErr error
	tasks := make(chan service.TransferTask)
	go func() {
		defer close(tasks)
		for desc := range c.Source.List(poolCtx, cfg.SourceBucket, cfg.SourcePrefix, maxKeys) {
			if desc.Err != nil {
				// Fatal for the pass, but results already
				// in flight remain valid and get counted.
				listErr = desc.Err
				cancel()
				return
			}
			tasks <- service.TransferTask{RemoteKey: desc.Key}
		}
	}()

	pool := NewTransferPool(
		c.Fetcher,
		cfg.SourceBucket,
		cfg.OriginDir,
		numWorkers,
		cfg.TaskTimeout,
		c.Context.Logger)
	results := pool.DownloadAll(poolCtx, tasks)
	for _, result := range results {
		summary.AddOutcome(result.Action)
	}

	summary.Finish()
	c.finishPass(summary, listErr)
	return summary, listErr
}

// RunAssemblyPass scans the origin directory for record files and
// assembles each into its per-record destination directory. A pass
// over an empty origin directory completes immediately with a
// "nothing to do" summary.
func (c *Coordinator) RunAssemblyPass(ctx context.Context, numWorkers int) (*service.RunSummary, error) {
	cfg := c.Context.Config
	if numWorkers <= 0 {
		numWorkers = cfg.AssemblyWorkers
	}
	summary := service.NewRunSummary(OpAssembly)
	summary.Start()

	sourceFiles, err := filepath.Glob(filepath.Join(cfg.OriginDir, "*.json"))
	if err != nil {
		summary.Finish()
		return summary, err
	}
	c.Context.Logger.Infof("Starting assembly pass %s: %d record files, workers=%d",
		c.RunID, len(sourceFiles), numWorkers)

	assembler := NewAssembler(
		c.Context.HTTPClient,
		cfg.DestinationDir,
		numWorkers,
		cfg.TaskTimeout,
		c.Context.Logger)
	outcomes := assembler.AssembleAll(ctx, sourceFiles)
	for _, outcome := range outcomes {
		summary.AddOutcome(outcome.Status)
		c.mirrorOutcome(outcome)
	}

	summary.Finish()
	c.finishPass(summary, nil)
	return summary, nil
}

// finishPass logs the human-readable report every run ends with,
// regardless of how many units failed, and mirrors the summary to
// Redis when a client is configured.
func (c *Coordinator) finishPass(summary *service.RunSummary, passErr error) {
	if passErr != nil {
		c.Context.Logger.Errorf("Pass %s aborted: %v", c.RunID, passErr)
	}
	c.Context.Logger.Info(summary.String())
	if c.Context.RedisClient == nil {
		return
	}
	if err := c.Context.RedisClient.RunSummarySave(c.RunID, summary); err != nil {
		c.Context.Logger.Errorf("Could not save run summary %s to Redis: %v", c.RunID, err)
	}
}

func (c *Coordinator) mirrorOutcome(outcome service.RecordOutcome) {
	if c.Context.RedisClient == nil || outcome.VerificationID == "" {
		return
	}
	if err := c.Context.RedisClient.RecordOutcomeSave(c.RunID, outcome); err != nil {
		c.Context.Logger.Errorf("Could not save outcome for record %s to Redis: %v",
			outcome.VerificationID, err)
	}
}
