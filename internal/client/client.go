// Package client talks to the catalog REST API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"weblibrary/internal/domains/book/model"
	"weblibrary/internal/shared/response"
)

const collectionPath = "/api/book"

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details interface{}
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Details != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, msg, e.Details)
	}
	return fmt.Sprintf("%d %s", e.Status, msg)
}

// Unwrap maps statuses back onto the domain errors so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return model.ErrBookNotFound
	case http.StatusConflict:
		return model.ErrUpdateConflict
	}
	return nil
}

// Client is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New returns a client for the server at baseURL (e.g. http://localhost:8080).
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q: scheme and host required", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: u, http: httpClient}, nil
}

// List fetches the books matching filter.
func (c *Client) List(ctx context.Context, filter model.Filter) ([]model.Book, error) {
	books := []model.Book{}
	err := c.do(ctx, http.MethodGet, collectionPath, filter.Values(), nil, &books, nil)
	return books, err
}

// Filters fetches the distinct values for the filter form.
func (c *Client) Filters(ctx context.Context) (*model.FilterOptions, error) {
	var opts model.FilterOptions
	if err := c.do(ctx, http.MethodGet, collectionPath+"/filters", nil, nil, &opts, nil); err != nil {
		return nil, err
	}
	return &opts, nil
}

func (c *Client) Get(ctx context.Context, id int64) (*model.Book, error) {
	var b model.Book
	if err := c.do(ctx, http.MethodGet, bookPath(id), nil, nil, &b, nil); err != nil {
		return nil, err
	}
	return &b, nil
}

// Create posts a new book and returns it with its assigned id.
func (c *Client) Create(ctx context.Context, req model.BookRequest) (*model.Book, error) {
	var b model.Book
	if err := c.do(ctx, http.MethodPost, collectionPath, nil, req, &b, nil); err != nil {
		return nil, err
	}
	return &b, nil
}

// Update replaces the book req.ID.
func (c *Client) Update(ctx context.Context, req model.BookRequest) error {
	return c.do(ctx, http.MethodPut, bookPath(req.ID), nil, req, nil, nil)
}

// Delete removes every listed book in one request.
func (c *Client) Delete(ctx context.Context, ids []int64) error {
	if ids == nil {
		ids = []int64{}
	}
	return c.do(ctx, http.MethodDelete, collectionPath, nil, ids, nil, nil)
}

// Health returns the raw health document.
func (c *Client) Health(ctx context.Context) (map[string]interface{}, error) {
	var out map[string]interface{}
	err := c.do(ctx, http.MethodGet, "/api/health", nil, nil, &out, func(status int) bool {
		return status == http.StatusServiceUnavailable
	})
	return out, err
}

func bookPath(id int64) string {
	return collectionPath + "/" + strconv.FormatInt(id, 10)
}

// do sends one request. acceptStatus lets a caller decode bodies of selected non-2xx answers.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}, acceptStatus func(int) bool) error {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok && (acceptStatus == nil || !acceptStatus(resp.StatusCode)) {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !ok {
		return &APIError{Status: resp.StatusCode}
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if len(bytes.TrimSpace(raw)) == 0 {
		return apiErr
	}

	var env response.Response
	if err := json.Unmarshal(raw, &env); err == nil && env.Error != nil {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
		apiErr.Details = env.Error.Details
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(raw))
	return apiErr
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	return errors.Is(err, model.ErrBookNotFound)
}
