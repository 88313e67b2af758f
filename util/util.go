package util

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/verident/mediasync/constants"
)

// FileExists returns true unless path is known not to exist. A stat
// error other than "not exist" (permission denied, say) reports true:
// callers use this as a skip-if-exists gate, and a file we merely
// cannot stat must never be overwritten.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

// BaseNameFromKey returns the final path segment of an S3 key.
// Keys that denote directory placeholders ("photos/2021/") have no
// final segment, so this returns an empty string for them.
func BaseNameFromKey(key string) string {
	if key == "" || strings.HasSuffix(key, "/") {
		return ""
	}
	return path.Base(key)
}

// VerificationIDFromFilename extracts the verification ID from a
// record filename of the form <prefix>-<id>.<ext>. For example,
// "verify-abc123.json" returns "abc123". This returns an error if
// the name has no ID segment.
func VerificationIDFromFilename(name string) (string, error) {
	base := filepath.Base(name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	dash := strings.LastIndex(stem, "-")
	if dash < 0 || dash == len(stem)-1 {
		return "", fmt.Errorf("Can't parse verification id from filename %s", base)
	}
	return stem[dash+1:], nil
}

// VideoFileName returns the local filename for a video asset,
// preserving the extension of the source URL. URLs without an
// extension get ".mp4".
func VideoFileName(rawURL string) string {
	ext := constants.DefaultVideoExt
	if u, err := url.Parse(rawURL); err == nil {
		if e := path.Ext(u.Path); e != "" {
			ext = e
		}
	}
	return constants.VideoBaseName + ext
}

// ExpandTilde expands the ~ in paths like ~/data to the user's
// home directory.
func ExpandTilde(dirName string) (string, error) {
	if !strings.HasPrefix(dirName, "~") {
		return dirName, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(dirName, "~")), nil
}

// StringListContains returns true if the list of strings contains item.
func StringListContains(list []string, item string) bool {
	for i := range list {
		if list[i] == item {
			return true
		}
	}
	return false
}
