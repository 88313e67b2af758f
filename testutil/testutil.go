package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// RecordSpec describes the verification record fixture to generate.
// Empty fields are omitted from the generated document.
type RecordSpec struct {
	DocPhotos []string
	SelfieURL string
	SpriteURL string
	VideoURL  string
}

// RecordJSON builds a verification record document for tests.
func RecordJSON(spec RecordSpec) string {
	doc := map[string]interface{}{
		"status": "approved",
	}
	if len(spec.DocPhotos) > 0 {
		doc["documents"] = []map[string]interface{}{
			{"photos": spec.DocPhotos},
		}
	}
	step := map[string]interface{}{}
	if spec.SelfieURL != "" {
		step["selfieUrl"] = spec.SelfieURL
	}
	if spec.SpriteURL != "" {
		step["spriteUrl"] = spec.SpriteURL
	}
	if spec.VideoURL != "" {
		step["videoUrl"] = spec.VideoURL
	}
	if len(step) > 0 {
		doc["steps"] = []map[string]interface{}{step}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		panic(err)
	}
	return string(data)
}

// WriteRecordFile writes content to dir/name and returns the full
// path.
func WriteRecordFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Cannot write record fixture %s: %v", path, err)
	}
	return path
}
