// Package storage is the HTTP client for the external blob-storage service.
// Blobs are opaque; the service addresses them by UUID and this client only
// threads those ids through.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"docflow/internal/domain"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("storage base url is required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type uploadResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Upload stores a blob and returns its id. Transport failures map to
// ErrStorageUnavailable, remote application errors to ErrStorage with the
// remote status and message attached.
func (c *Client) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := writer.WriteField("content_type", contentType); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", domain.ErrStorageUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", remoteError(resp.StatusCode, payload)
	}

	var out uploadResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrStorage, err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("%w: missing blob id", domain.ErrStorage)
	}
	return out.ID, nil
}

// Download retrieves a blob by id. A remote 404 maps to domain.ErrNotFound,
// distinct from other remote or transport failures.
func (c *Client) Download(ctx context.Context, blobID string) (io.ReadCloser, string, error) {
	if blobID == "" {
		return nil, "", domain.ErrNotFound
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/files/"+blobID, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, "", domain.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		resp.Body.Close()
		return nil, "", remoteError(resp.StatusCode, payload)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

func remoteError(status int, payload []byte) error {
	message := strings.TrimSpace(string(payload))
	var remote struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(payload, &remote); err == nil {
		if remote.Message != "" {
			message = remote.Message
		} else if remote.Error != "" {
			message = remote.Error
		}
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return fmt.Errorf("%w: remote %d: %s", domain.ErrStorage, status, message)
}
