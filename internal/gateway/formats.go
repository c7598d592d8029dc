package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Formats describes the output formats the conversion service supports.
type Formats struct {
	Formats        []string `json:"formats"`
	QualityFormats []string `json:"quality_formats"`
}

// Formats queries the service for its supported output formats.
func (c *Client) Formats(ctx context.Context) (Formats, error) {
	reqURL, err := c.resolve(c.formatsPath)
	if err != nil {
		return Formats{}, fmt.Errorf("failed to build request URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return Formats{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return Formats{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := decodeBody(resp.Header.Get("Content-Encoding"), resp.Body)
	if err != nil {
		return Formats{}, err
	}
	defer func() { _ = body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(body, 1024))
		return Formats{}, fmt.Errorf("formats request failed with status %d: %s", resp.StatusCode, string(excerpt))
	}

	var formats Formats
	if err := json.NewDecoder(body).Decode(&formats); err != nil {
		return Formats{}, fmt.Errorf("failed to parse formats response: %w", err)
	}

	return formats, nil
}
