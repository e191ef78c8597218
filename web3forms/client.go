// Package web3forms is a minimal client for the Web3Forms submission relay,
// which forwards form payloads to the consultancy's intake mailbox.
package web3forms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"
)

// Relay failure categories, mapped to user-facing responses by the callers.
var (
	// ErrUnauthorized means the access key was rejected.
	ErrUnauthorized = errors.New("web3forms: access key rejected")
	// ErrThrottled means the relay itself rate-limited us.
	ErrThrottled = errors.New("web3forms: relay throttled the submission")
	// ErrUnavailable covers network failures and relay-side 5xx responses.
	ErrUnavailable = errors.New("web3forms: relay unavailable")
	// ErrRejected means the relay processed the request but declined it.
	ErrRejected = errors.New("web3forms: submission rejected")
)

// Client submits multipart form payloads to the relay endpoint.
type Client struct {
	accessKey  string
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a relay client. The timeout bounds the whole round trip
// so a slow relay cannot stall the request handler.
func NewClient(accessKey, endpoint string, timeout time.Duration) *Client {
	return &Client{
		accessKey: accessKey,
		endpoint:  endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type relayResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Submit relays the named form's fields. The access key is injected here so
// it never appears in caller code or logs.
func (c *Client) Submit(ctx context.Context, formName string, fields map[string]string) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("access_key", c.accessKey); err != nil {
		return fmt.Errorf("failed to build relay payload: %w", err)
	}
	if err := writer.WriteField("form_name", formName); err != nil {
		return fmt.Errorf("failed to build relay payload: %w", err)
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("failed to build relay payload: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to build relay payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return fmt.Errorf("failed to build relay request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrThrottled
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var result relayResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%w: invalid relay response: %v", ErrUnavailable, err)
	}

	if !result.Success {
		if result.Message != "" {
			return fmt.Errorf("%w: %s", ErrRejected, result.Message)
		}
		return ErrRejected
	}

	return nil
}
