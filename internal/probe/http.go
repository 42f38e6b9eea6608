package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	service "github.com/okian/floorwatch/internal/app"
	"github.com/okian/floorwatch/internal/domain/dashboard"
)

// Client calls the dashboard session API.
type Client struct {
	client  *http.Client
	baseURL string
	lang    string
}

// NewClient creates a client with the given request timeout.
func NewClient(baseURL, lang string, timeout time.Duration) *Client {
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		lang:    lang,
	}
}

// Health checks that the service answers on /healthz.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/healthz", nil, http.StatusOK, nil)
	return err
}

// Open starts a session.
func (c *Client) Open(ctx context.Context) (service.Session, error) {
	var sess service.Session
	_, err := c.do(ctx, http.MethodPost, "/api/sessions", nil, http.StatusCreated, &sess)
	return sess, err
}

// View fetches the current view with points after since.
func (c *Client) View(ctx context.Context, id string, since int) (dashboard.View, error) {
	var v dashboard.View
	path := "/api/sessions/" + url.PathEscape(id) + "?since=" + strconv.Itoa(since)
	_, err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &v)
	return v, err
}

// Toggle starts or stops the feed.
func (c *Client) Toggle(ctx context.Context, id string) (dashboard.View, error) {
	var v dashboard.View
	_, err := c.do(ctx, http.MethodPost, "/api/sessions/"+url.PathEscape(id)+"/toggle", nil, http.StatusOK, &v)
	return v, err
}

// NewBatch presses new batch under key.
func (c *Client) NewBatch(ctx context.Context, id, key string) (service.BatchResult, error) {
	var res service.BatchResult
	headers := map[string]string{idempotencyKeyHeader: key}
	_, err := c.do(ctx, http.MethodPost, "/api/sessions/"+url.PathEscape(id)+"/batch", headers, http.StatusOK, &res)
	return res, err
}

// Close ends a session.
func (c *Client) Close(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/sessions/"+url.PathEscape(id), nil, http.StatusNoContent, nil)
	return err
}

// StatusError carries the status of a rejected call.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

func (c *Client) do(ctx context.Context, method, path string, headers map[string]string, want int, out any) (int, error) {
	u := c.baseURL + path
	if c.lang != "" {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		u += sep + "lang=" + url.QueryEscape(c.lang)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != want {
		return resp.StatusCode, &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: string(body)}
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return resp.StatusCode, nil
}
