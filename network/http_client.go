package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// HTTPClient fetches media assets referenced by verification records.
// These are plain unauthenticated GETs of whole bodies; there is no
// resume support.
type HTTPClient struct {
	client *http.Client
}

func NewHTTPClient() *HTTPClient {
	return &HTTPClient{
		client: &http.Client{},
	}
}

// FetchToFile downloads url to localPath. The caller bounds the fetch
// through ctx. A partial file left by a mid-transfer failure is
// removed so a corrupt asset never masquerades as a complete one.
func (c *HTTPClient) FetchToFile(ctx context.Context, url, localPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s returned status %d", url, resp.StatusCode)
	}
	file, err := os.Create(localPath)
	if err != nil {
		return err
	}
	_, copyErr := io.Copy(file, resp.Body)
	closeErr := file.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(localPath)
		if copyErr != nil {
			return copyErr
		}
		return closeErr
	}
	return nil
}
