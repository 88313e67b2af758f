package service_test

import (
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verident/mediasync/constants"
	"github.com/verident/mediasync/models/service"
)

func TestNewRunSummary(t *testing.T) {
	hostname, _ := os.Hostname()
	summary := service.NewRunSummary("transfer")
	assert.Equal(t, "transfer", summary.Operation)
	assert.Equal(t, hostname, summary.Host)
	assert.Equal(t, os.Getpid(), summary.Pid)
	assert.True(t, summary.NothingToDo())
	assert.Equal(t, 0, summary.Total())
}

func TestRunSummaryCounts(t *testing.T) {
	summary := service.NewRunSummary("transfer")
	summary.AddOutcome(constants.ActionDownloaded)
	summary.AddOutcome(constants.ActionDownloaded)
	summary.AddOutcome(constants.ActionSkipped)
	summary.AddOutcome(constants.ActionFailed)

	assert.Equal(t, 2, summary.Count(constants.ActionDownloaded))
	assert.Equal(t, 1, summary.Count(constants.ActionSkipped))
	assert.Equal(t, 1, summary.Count(constants.ActionFailed))
	assert.Equal(t, 4, summary.Total())
	assert.False(t, summary.NothingToDo())
}

// The aggregation step is pure counting, so results may arrive in
// any order from any number of workers.
func TestRunSummaryConcurrentAdds(t *testing.T) {
	summary := service.NewRunSummary("assembly")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			summary.AddOutcome(constants.StatusSuccess)
			summary.AddOutcome(constants.StatusPartialSuccess)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, summary.Count(constants.StatusSuccess))
	assert.Equal(t, 50, summary.Count(constants.StatusPartialSuccess))
	assert.Equal(t, 100, summary.Total())
}

func TestRunSummaryRunTime(t *testing.T) {
	summary := service.NewRunSummary("transfer")
	assert.Equal(t, int64(0), summary.RunTime().Nanoseconds())
	summary.Start()
	summary.Finish()
	assert.False(t, summary.StartedAt.IsZero())
	assert.False(t, summary.FinishedAt.IsZero())
	assert.True(t, summary.RunTime() >= 0)
}

func TestRunSummaryString(t *testing.T) {
	summary := service.NewRunSummary("transfer")
	summary.Start()
	summary.Finish()
	assert.Contains(t, summary.String(), "nothing to do")

	summary.AddOutcome(constants.ActionDownloaded)
	summary.AddOutcome(constants.ActionSkipped)
	str := summary.String()
	assert.Contains(t, str, "downloaded=1")
	assert.Contains(t, str, "skipped=1")
	assert.Contains(t, str, "2 items")
}

func TestRunSummaryJSON(t *testing.T) {
	summary := service.NewRunSummary("assembly")
	summary.Start()
	summary.AddOutcome(constants.StatusError)
	summary.Finish()

	jsonData, err := summary.ToJSON()
	require.NoError(t, err)

	restored, err := service.RunSummaryFromJSON(jsonData)
	require.NoError(t, err)
	assert.Equal(t, "assembly", restored.Operation)
	assert.Equal(t, 1, restored.Count(constants.StatusError))

	// The restored summary must have a live mutex.
	restored.AddOutcome(constants.StatusError)
	assert.Equal(t, 2, restored.Count(constants.StatusError))
}
