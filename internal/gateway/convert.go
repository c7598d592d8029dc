package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/klauspost/compress/gzip"

	"github.com/packconv/packconv/internal/batch"
)

// convertResponse is the service's per-item response. The payload arrives
// base64-encoded and is decoded to raw bytes before being handed back.
type convertResponse struct {
	Success          bool   `json:"success"`
	Filename         string `json:"filename"`
	OriginalFilename string `json:"original_filename"`
	Data             string `json:"data"`
	Size             int    `json:"size"`
	MimeType         string `json:"mime_type"`
}

// Convert sends one item to the conversion service and returns the decoded
// output. It implements batch.Gateway.
func (c *Client) Convert(ctx context.Context, req batch.Request) (batch.Result, error) {
	reqURL, err := c.resolve(c.convertPath)
	if err != nil {
		return batch.Result{}, fmt.Errorf("failed to build request URL: %w", err)
	}

	body := new(bytes.Buffer)
	form := multipart.NewWriter(body)

	part, err := form.CreateFormFile("file", req.Filename)
	if err != nil {
		return batch.Result{}, fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(req.Payload); err != nil {
		return batch.Result{}, fmt.Errorf("failed to write file part: %w", err)
	}

	if err := form.WriteField("output_format", req.Format); err != nil {
		return batch.Result{}, fmt.Errorf("failed to write output_format field: %w", err)
	}
	if err := form.WriteField("quality", strconv.Itoa(req.Quality)); err != nil {
		return batch.Result{}, fmt.Errorf("failed to write quality field: %w", err)
	}

	if err := form.Close(); err != nil {
		return batch.Result{}, fmt.Errorf("failed to finalize form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), body)
	if err != nil {
		return batch.Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.Do(httpReq)
	if err != nil {
		return batch.Result{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := decodeBody(resp.Header.Get("Content-Encoding"), resp.Body)
	if err != nil {
		return batch.Result{}, err
	}
	defer func() { _ = respBody.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(respBody, 1024))
		return batch.Result{}, fmt.Errorf("conversion request failed with status %d: %s", resp.StatusCode, string(excerpt))
	}

	var converted convertResponse
	if err := json.NewDecoder(respBody).Decode(&converted); err != nil {
		return batch.Result{}, fmt.Errorf("failed to parse conversion response: %w", err)
	}

	if !converted.Success {
		return batch.Result{}, fmt.Errorf("conversion service reported failure for %s", req.Filename)
	}
	if converted.Filename == "" {
		return batch.Result{}, fmt.Errorf("conversion response for %s has no output filename", req.Filename)
	}

	data, err := base64.StdEncoding.DecodeString(converted.Data)
	if err != nil {
		return batch.Result{}, fmt.Errorf("failed to decode conversion payload for %s: %w", req.Filename, err)
	}

	return batch.Result{OutputName: converted.Filename, Data: data}, nil
}

func decodeBody(contentEncoding string, body io.ReadCloser) (io.ReadCloser, error) {
	if contentEncoding != "gzip" {
		return body, nil
	}

	gzipReader, err := gzip.NewReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}

	return gzipReader, nil
}
