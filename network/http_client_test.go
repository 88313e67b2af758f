package network_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verident/mediasync/network"
	"github.com/verident/mediasync/util"
)

func TestFetchToFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpeg bytes"))
	}))
	defer server.Close()

	localPath := filepath.Join(t.TempDir(), "selfie.jpg")
	client := network.NewHTTPClient()
	require.NoError(t, client.FetchToFile(context.Background(), server.URL, localPath))

	data, err := os.ReadFile(localPath)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))
}

func TestFetchToFileNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	localPath := filepath.Join(t.TempDir(), "selfie.jpg")
	client := network.NewHTTPClient()
	err := client.FetchToFile(context.Background(), server.URL, localPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.False(t, util.FileExists(localPath))
}

// A fetch that exceeds its context deadline fails and leaves no
// partial file behind.
func TestFetchToFileTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("partial"))
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	localPath := filepath.Join(t.TempDir(), "video.mp4")
	client := network.NewHTTPClient()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := client.FetchToFile(ctx, server.URL, localPath)
	require.Error(t, err)
	assert.False(t, util.FileExists(localPath))
}
