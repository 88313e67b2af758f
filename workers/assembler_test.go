package workers_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verident/mediasync/constants"
	"github.com/verident/mediasync/network"
	"github.com/verident/mediasync/testutil"
	"github.com/verident/mediasync/workers"
)

// assetServer serves fake media bytes. Paths containing "missing"
// return 404 so tests can force per-asset failures.
func assetServer(t *testing.T) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "missing") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, "asset bytes for %s", r.URL.Path)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestAssembler(destinationDir string) *workers.Assembler {
	return workers.NewAssembler(network.NewHTTPClient(), destinationDir, 2, 10*time.Second, nil)
}

func TestProcessRecordSuccess(t *testing.T) {
	server := assetServer(t)
	originDir := t.TempDir()
	destinationDir := t.TempDir()

	recordJSON := testutil.RecordJSON(testutil.RecordSpec{
		DocPhotos: []string{server.URL + "/docs/front.jpg", server.URL + "/docs/back.jpg"},
		SelfieURL: server.URL + "/media/selfie.jpg",
	})
	sourceFile := testutil.WriteRecordFile(t, originDir, "verify-abc123.json", recordJSON)

	outcome := newTestAssembler(destinationDir).ProcessRecord(context.Background(), sourceFile)
	assert.Equal(t, constants.StatusSuccess, outcome.Status)
	assert.Equal(t, "abc123", outcome.VerificationID)

	recordDir := filepath.Join(destinationDir, "abc123")
	assert.FileExists(t, filepath.Join(recordDir, constants.FileDocFront))
	assert.FileExists(t, filepath.Join(recordDir, constants.FileDocBack))
	assert.FileExists(t, filepath.Join(recordDir, constants.FileSelfie))

	data, err := os.ReadFile(filepath.Join(recordDir, constants.FileRecordJSON))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "\n")
	assert.Contains(t, string(data), "selfie.jpg")
}

func TestProcessRecordSingleDocPhoto(t *testing.T) {
	server := assetServer(t)
	originDir := t.TempDir()
	destinationDir := t.TempDir()

	recordJSON := testutil.RecordJSON(testutil.RecordSpec{
		DocPhotos: []string{server.URL + "/docs/front.jpg"},
	})
	sourceFile := testutil.WriteRecordFile(t, originDir, "verify-one1.json", recordJSON)

	outcome := newTestAssembler(destinationDir).ProcessRecord(context.Background(), sourceFile)
	assert.Equal(t, constants.StatusSuccess, outcome.Status)

	recordDir := filepath.Join(destinationDir, "one1")
	assert.FileExists(t, filepath.Join(recordDir, constants.FileDocFront))
	assert.NoFileExists(t, filepath.Join(recordDir, constants.FileDocBack))
}

func TestProcessRecordVideoExtension(t *testing.T) {
	server := assetServer(t)
	originDir := t.TempDir()
	destinationDir := t.TempDir()

	tests := []struct {
		name      string
		videoPath string
		wantFile  string
	}{
		{"verify-mov1.json", "/media/clip.mov", "video.mov"},
		{"verify-noext1.json", "/media/clip", "video.mp4"},
	}
	for _, test := range tests {
		recordJSON := testutil.RecordJSON(testutil.RecordSpec{
			VideoURL: server.URL + test.videoPath,
		})
		sourceFile := testutil.WriteRecordFile(t, originDir, test.name, recordJSON)
		outcome := newTestAssembler(destinationDir).ProcessRecord(context.Background(), sourceFile)
		require.Equal(t, constants.StatusSuccess, outcome.Status, test.name)
		assert.FileExists(t, filepath.Join(destinationDir, outcome.VerificationID, test.wantFile))
	}
}

// One failed asset downgrades the record to partial success but never
// stops the remaining assets or the data.json commit.
func TestProcessRecordPartialSuccess(t *testing.T) {
	server := assetServer(t)
	originDir := t.TempDir()
	destinationDir := t.TempDir()

	recordJSON := testutil.RecordJSON(testutil.RecordSpec{
		DocPhotos: []string{server.URL + "/docs/front.jpg", server.URL + "/docs/back.jpg"},
		SelfieURL: server.URL + "/media/missing-selfie.jpg",
	})
	sourceFile := testutil.WriteRecordFile(t, originDir, "verify-part1.json", recordJSON)

	outcome := newTestAssembler(destinationDir).ProcessRecord(context.Background(), sourceFile)
	assert.Equal(t, constants.StatusPartialSuccess, outcome.Status)
	assert.Equal(t, []string{constants.AssetSelfie}, outcome.FailedAssets)
	assert.Contains(t, outcome.Reason, "selfie")

	recordDir := filepath.Join(destinationDir, "part1")
	assert.FileExists(t, filepath.Join(recordDir, constants.FileDocFront))
	assert.FileExists(t, filepath.Join(recordDir, constants.FileDocBack))
	assert.NoFileExists(t, filepath.Join(recordDir, constants.FileSelfie))
	assert.FileExists(t, filepath.Join(recordDir, constants.FileRecordJSON))
}

func TestProcessRecordInvalidFilename(t *testing.T) {
	originDir := t.TempDir()
	destinationDir := t.TempDir()
	sourceFile := testutil.WriteRecordFile(t, originDir, "malformed.json", `{"documents": []}`)

	outcome := newTestAssembler(destinationDir).ProcessRecord(context.Background(), sourceFile)
	assert.Equal(t, constants.StatusError, outcome.Status)
	assert.Equal(t, "invalid filename", outcome.Reason)

	entries, err := os.ReadDir(destinationDir)
	require.NoError(t, err)
	assert.Equal(t, 0, len(entries))
}

// The record directory is the idempotency gate: if it exists, the
// record was handled by an earlier run and nothing is written.
func TestProcessRecordSkipsExistingDirectory(t *testing.T) {
	originDir := t.TempDir()
	destinationDir := t.TempDir()
	recordDir := filepath.Join(destinationDir, "done1")
	require.NoError(t, os.Mkdir(recordDir, 0755))

	sourceFile := testutil.WriteRecordFile(t, originDir, "verify-done1.json",
		testutil.RecordJSON(testutil.RecordSpec{SelfieURL: "http://127.0.0.1:1/unreachable.jpg"}))

	outcome := newTestAssembler(destinationDir).ProcessRecord(context.Background(), sourceFile)
	assert.Equal(t, constants.StatusSkipped, outcome.Status)

	entries, err := os.ReadDir(recordDir)
	require.NoError(t, err)
	assert.Equal(t, 0, len(entries))
}

// A parse failure must not leave a directory behind: the directory is
// created only after the source parses, so a later retry isn't
// permanently skipped by the idempotency gate.
func TestProcessRecordParseFailureLeavesNoDirectory(t *testing.T) {
	originDir := t.TempDir()
	destinationDir := t.TempDir()
	sourceFile := testutil.WriteRecordFile(t, originDir, "verify-bad1.json", "this is not json")

	outcome := newTestAssembler(destinationDir).ProcessRecord(context.Background(), sourceFile)
	assert.Equal(t, constants.StatusError, outcome.Status)
	assert.Contains(t, outcome.Reason, "parse")
	assert.NoDirExists(t, filepath.Join(destinationDir, "bad1"))
}

func TestProcessRecordUnreadableSource(t *testing.T) {
	destinationDir := t.TempDir()
	missingFile := filepath.Join(t.TempDir(), "verify-gone1.json")

	outcome := newTestAssembler(destinationDir).ProcessRecord(context.Background(), missingFile)
	assert.Equal(t, constants.StatusError, outcome.Status)
	assert.Contains(t, outcome.Reason, "read")
	assert.NoDirExists(t, filepath.Join(destinationDir, "gone1"))
}

func TestAssembleAllCardinality(t *testing.T) {
	server := assetServer(t)
	originDir := t.TempDir()
	destinationDir := t.TempDir()

	sourceFiles := make([]string, 0)
	for i := 0; i < 6; i++ {
		name := fmt.Sprintf("verify-batch%d.json", i)
		recordJSON := testutil.RecordJSON(testutil.RecordSpec{
			SelfieURL: server.URL + "/media/selfie.jpg",
		})
		sourceFiles = append(sourceFiles, testutil.WriteRecordFile(t, originDir, name, recordJSON))
	}
	sourceFiles = append(sourceFiles, testutil.WriteRecordFile(t, originDir, "malformed.json", "{}"))

	outcomes := newTestAssembler(destinationDir).AssembleAll(context.Background(), sourceFiles)
	require.Equal(t, 7, len(outcomes))

	counts := make(map[string]int)
	for _, outcome := range outcomes {
		counts[outcome.Status]++
	}
	assert.Equal(t, 6, counts[constants.StatusSuccess])
	assert.Equal(t, 1, counts[constants.StatusError])
}
