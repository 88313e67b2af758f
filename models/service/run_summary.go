package service

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// RunSummary tallies the outcomes of one full pass. Workers complete
// in any order, so the tally is pure order-independent counting.
// Add methods are safe for concurrent use; access to Counts is locked
// internally with a mutex. Counts is public only so the summary can
// be serialized to JSON.
type RunSummary struct {
	// Operation is the name of the pass: transfer or assembly.
	Operation string `json:"operation"`

	// Host is the name of the host on which the pass ran.
	Host string `json:"host"`

	// Pid is the pid of the process that ran the pass.
	Pid int `json:"pid"`

	// StartedAt is when the pass started. If StartedAt.IsZero(),
	// the pass has not started.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the pass completed. Completion says nothing
	// about success; check the counts.
	FinishedAt time.Time `json:"finished_at"`

	// Counts maps outcome kind (downloaded, skipped, failed, success,
	// partial_success, error) to the number of units that ended in
	// that kind.
	Counts map[string]int `json:"counts"`

	mutex *sync.RWMutex
}

func NewRunSummary(operation string) *RunSummary {
	hostname, _ := os.Hostname()
	return &RunSummary{
		Operation: operation,
		Host:      hostname,
		Pid:       os.Getpid(),
		Counts:    make(map[string]int),
		mutex:     &sync.RWMutex{},
	}
}

func (summary *RunSummary) Start() {
	summary.StartedAt = time.Now().UTC()
}

func (summary *RunSummary) Finish() {
	summary.FinishedAt = time.Now().UTC()
}

func (summary *RunSummary) RunTime() time.Duration {
	startTime := summary.StartedAt
	if startTime.IsZero() {
		return time.Duration(0)
	}
	endTime := summary.FinishedAt
	if endTime.IsZero() {
		endTime = time.Now()
	}
	return endTime.Sub(startTime)
}

// AddOutcome counts one unit outcome of the given kind.
func (summary *RunSummary) AddOutcome(kind string) {
	summary.mutex.Lock()
	summary.Counts[kind]++
	summary.mutex.Unlock()
}

func (summary *RunSummary) Count(kind string) int {
	summary.mutex.RLock()
	count := summary.Counts[kind]
	summary.mutex.RUnlock()
	return count
}

// Total returns the number of units counted. Zero means the pass
// found nothing to do.
func (summary *RunSummary) Total() int {
	summary.mutex.RLock()
	total := 0
	for _, count := range summary.Counts {
		total += count
	}
	summary.mutex.RUnlock()
	return total
}

func (summary *RunSummary) NothingToDo() bool {
	return summary.Total() == 0
}

// String returns the human-readable report printed at the end of
// every run, no matter how many units failed.
func (summary *RunSummary) String() string {
	if summary.NothingToDo() {
		return fmt.Sprintf("%s pass: nothing to do (elapsed %s)",
			summary.Operation, summary.RunTime().Round(time.Millisecond))
	}
	summary.mutex.RLock()
	kinds := make([]string, 0, len(summary.Counts))
	for kind := range summary.Counts {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		parts = append(parts, fmt.Sprintf("%s=%d", kind, summary.Counts[kind]))
	}
	summary.mutex.RUnlock()
	return fmt.Sprintf("%s pass: %d items (%s), elapsed %s",
		summary.Operation, summary.Total(), strings.Join(parts, ", "),
		summary.RunTime().Round(time.Millisecond))
}

func (summary *RunSummary) ToJSON() (string, error) {
	summary.mutex.RLock()
	data, err := json.Marshal(summary)
	summary.mutex.RUnlock()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// RunSummaryFromJSON converts the JSON representation of a RunSummary
// into a full-fledged object. This initializes the internal mutex;
// deserializing without it leads to nil pointer panics on the Add
// methods.
func RunSummaryFromJSON(jsonData string) (*RunSummary, error) {
	summary := &RunSummary{}
	err := json.Unmarshal([]byte(jsonData), summary)
	if err != nil {
		return nil, err
	}
	summary.mutex = &sync.RWMutex{}
	if summary.Counts == nil {
		summary.Counts = make(map[string]int)
	}
	return summary, nil
}
