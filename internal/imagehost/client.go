// Package imagehost uploads image bytes to an external hosting service and
// returns the public URL. A primary host is tried first, then a single
// fallback host; there is no retry beyond that.
package imagehost

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/covergram/covergram/internal/logger"
)

type Client struct {
	primaryURL  string
	fallbackURL string
	httpClient  *http.Client
}

// uploadResponse is the minimal contract both hosts share.
type uploadResponse struct {
	URL string `json:"url"`
}

func NewClient(primaryURL, fallbackURL string) *Client {
	return &Client{
		primaryURL:  primaryURL,
		fallbackURL: fallbackURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Configured reports whether at least a primary host is set up.
func (c *Client) Configured() bool {
	return c.primaryURL != ""
}

// Upload pushes the image to the primary host, falling back to the secondary
// host on failure. When both attempts fail the last error is returned.
func (c *Client) Upload(filename string, data []byte) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("no image host configured")
	}

	url, err := c.uploadTo(c.primaryURL, filename, data)
	if err == nil {
		return url, nil
	}

	logger.Warn("Primary image host failed", map[string]interface{}{
		"error":    err.Error(),
		"host":     c.primaryURL,
		"filename": filename,
	})

	if c.fallbackURL == "" {
		return "", fmt.Errorf("image upload failed: %w", err)
	}

	url, fallbackErr := c.uploadTo(c.fallbackURL, filename, data)
	if fallbackErr != nil {
		logger.Error("Fallback image host failed", map[string]interface{}{
			"error":    fallbackErr.Error(),
			"host":     c.fallbackURL,
			"filename": filename,
		})
		return "", fmt.Errorf("image upload failed on both hosts: %w", fallbackErr)
	}

	return url, nil
}

func (c *Client) uploadTo(host, filename string, data []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, host, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload failed: HTTP %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read upload response: %w", err)
	}

	var result uploadResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to parse upload response: %w", err)
	}
	if result.URL == "" {
		return "", fmt.Errorf("upload response missing url")
	}

	return result.URL, nil
}
