// Package client talks to a running students server. It implements the
// record query service contract (storage.Querier) and the form's server
// actions (form.Executor) over HTTP, so the dashboard and the student form
// run unchanged against a remote server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aanand-mishra/students-dashboard/internal/form"
	"github.com/aanand-mishra/students-dashboard/internal/storage"
	"github.com/aanand-mishra/students-dashboard/internal/types"
	"github.com/aanand-mishra/students-dashboard/internal/utils/response"
)

// DefaultTimeout bounds a single request when the caller's context has no
// deadline.
const DefaultTimeout = 10 * time.Second

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the error code, or failing that the status, onto the
// storage and form errors, so callers can use errors.Is the same way they
// do against a local store.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case response.CodeUnknownAction:
		return form.ErrUnknownAction
	case response.CodeNotFound:
		return storage.ErrNotFound
	case response.CodeInvalidQuery:
		return storage.ErrInvalidQuery
	}

	switch e.StatusCode {
	case http.StatusNotFound:
		return storage.ErrNotFound
	case http.StatusBadRequest:
		return storage.ErrInvalidQuery
	default:
		return nil
	}
}

// Client is a students server client. It is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New returns a client for the server at baseURL, e.g.
// "http://localhost:8082".
func New(baseURL string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("client: bad server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("client: bad server url %q: scheme must be http or https", baseURL)
	}
	return &Client{baseURL: u, http: &http.Client{Timeout: DefaultTimeout}}, nil
}

// do sends body as JSON to path and decodes the answer into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	slog.Debug("client: request done",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope response.Response
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Error == "" {
			envelope.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Code: envelope.Code, Message: envelope.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode %s %s: %w", method, path, err)
	}
	return nil
}

func ormPath(method string) string {
	return "/api/orm/" + url.PathEscape(types.Model) + "/" + method
}

// SearchCount implements storage.Querier.
func (c *Client) SearchCount(ctx context.Context, domain storage.Domain) (int, error) {
	var out storage.CountResponse
	if err := c.do(ctx, http.MethodPost, ormPath(storage.MethodSearchCount),
		storage.QueryRequest{Domain: domain}, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// ReadGroup implements storage.Querier.
func (c *Client) ReadGroup(ctx context.Context, domain storage.Domain, fields []string, groupBy []string) ([]storage.Group, error) {
	var out []storage.Group
	if err := c.do(ctx, http.MethodPost, ormPath(storage.MethodReadGroup),
		storage.QueryRequest{Domain: domain, Fields: fields, GroupBy: groupBy}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchRead implements storage.Querier.
func (c *Client) SearchRead(ctx context.Context, domain storage.Domain, fields []string, opts storage.SearchOptions) ([]storage.Record, error) {
	var out []storage.Record
	if err := c.do(ctx, http.MethodPost, ormPath(storage.MethodSearchRead),
		storage.QueryRequest{
			Domain: domain,
			Fields: fields,
			Limit:  opts.Limit,
			Offset: opts.Offset,
			Order:  opts.Order,
		}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetStudentByID fetches one student.
func (c *Client) GetStudentByID(ctx context.Context, id int64) (types.Student, error) {
	var out types.Student
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/students/%d", id), nil, &out); err != nil {
		return types.Student{}, err
	}
	return out, nil
}

// Execute implements form.Executor by running the server-side action of
// button name for record.
func (c *Client) Execute(ctx context.Context, name string, record types.Student) (*form.ClientAction, error) {
	if record.ID == 0 {
		return nil, errors.New("client: record has no id")
	}

	var out form.Result
	path := fmt.Sprintf("/api/students/%d/actions/%s", record.ID, url.PathEscape(name))
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Action, nil
}
