package diaryapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// StatusError is a non-2xx answer from the diary API. It unwraps to the domain error the
// status stands for, when there is one.
type StatusError struct {
	Code    int
	Message string
	Details []string

	target error
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("diary api returned %d", e.Code)
	if e.Message != "" {
		msg += ": " + e.Message
	}

	if len(e.Details) > 0 {
		msg += " (" + strings.Join(e.Details, "; ") + ")"
	}

	return msg
}

func (e *StatusError) Unwrap() error {
	return e.target
}

type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

type Option func(*Client)

// WithToken sends token as a bearer credential on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.client.Timeout = timeout }
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.client = client }
}

// NewClient talks to the diary API mounted at baseURL, e.g. http://localhost:8080/api/v1.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// errorMapping picks the domain error for a status code.
type errorMapping map[int]error

func call[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any, errs errorMapping) (T, error) {
	var out T

	raw, err := c.send(ctx, method, path, query, body, errs)
	if err != nil {
		return out, err
	}

	err = json.Unmarshal(raw, &out)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("path", path).Msg("failed to decode diary api response")
		return out, fmt.Errorf("failed to decode %s %s: %w", method, path, err)
	}

	return out, nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any, errs errorMapping) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader = http.NoBody

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal json payload: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("method", method).Str("path", path).Msg("diary api request failed")
		return nil, fmt.Errorf("failed to send request to diary api: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read diary api response: %w", err)
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return raw, nil
	}

	// Both core.Error and a failed core.Result carry a message.
	var problem struct {
		Message string   `json:"message"`
		Err     []string `json:"err"`
	}

	_ = json.Unmarshal(raw, &problem)

	statusErr := &StatusError{
		Code:    resp.StatusCode,
		Message: problem.Message,
		Details: problem.Err,
		target:  errs[resp.StatusCode],
	}

	log.Ctx(ctx).Warn().Err(statusErr).Str("method", method).Str("path", path).Msg("diary api returned an error")

	return nil, statusErr
}

// envelope is the {success, message, data} body of mutation responses.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}
