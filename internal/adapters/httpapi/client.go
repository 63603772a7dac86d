package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"laserlab/internal/ports"
)

// Client reads and saves rows through a row server
type Client struct {
	baseURL string
	http    *http.Client
}

var (
	_ ports.RowSource      = (*Client)(nil)
	_ ports.RowSink        = (*Client)(nil)
	_ ports.ManifestSource = (*Client)(nil)
)

// NewClient creates a client for the server at baseURL (e.g., http://localhost:3001)
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// FetchRows downloads the row document
func (c *Client) FetchRows(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+RowsPath, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch rows: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch rows: %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to fetch rows: %w", err)
	}
	return string(body), nil
}

// SaveRows uploads the full row document
func (c *Client) SaveRows(ctx context.Context, csv string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+SavePath, strings.NewReader(csv))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to save rows: %w", err)
	}
	defer resp.Body.Close()

	var out SaveResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&out)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to save rows: %s", resp.Status)
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to save rows: bad response: %w", decodeErr)
	}
	if !out.Success {
		return fmt.Errorf("failed to save rows: %s", out.Message)
	}
	return nil
}

// ListAssets returns the asset file names the server's library advertises
func (c *Client) ListAssets(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+LibraryPath, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to list assets: %s", resp.Status)
	}

	var entries []struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		files = append(files, e.Path)
	}
	return files, nil
}
