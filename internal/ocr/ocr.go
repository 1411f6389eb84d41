// Package ocr wraps the external text-extraction service. The core treats
// it as a black box: image bytes in, text out.
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Extractor extracts text from an image.
type Extractor interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// Client calls an OCR HTTP API: POST /extract, header x-api-key,
// body { "image": base64 }, response { "text": string }.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// NewClient creates a client for the given base URL and API key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
	}
}

type extractRequest struct {
	Image string `json:"image"`
}

type extractResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// ExtractText calls POST {BaseURL}/extract and returns the recognized text.
// An image with no recognizable text yields an empty string, not an error.
func (c *Client) ExtractText(ctx context.Context, image []byte) (string, error) {
	if c.BaseURL == "" {
		return "", fmt.Errorf("ocr: base URL not set")
	}
	if len(image) == 0 {
		return "", fmt.Errorf("ocr: empty image")
	}
	raw, err := json.Marshal(extractRequest{Image: base64.StdEncoding.EncodeToString(image)})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/extract", bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("x-api-key", c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var out extractResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("ocr: decoding response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("ocr: %s", out.Error)
	}
	return strings.TrimSpace(out.Text), nil
}
