package toolapi

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
	"strconv"
	"strings"
	"time"

	"github.com/ytget/toolboard/internal/model"
)

// ErrStatus is matched by every non-2xx response error
var ErrStatus = errors.New("controller returned an error status")

// StatusError carries the status code and the server's message
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("controller status %d", e.Code)
	}
	return fmt.Sprintf("controller status %d: %s", e.Code, e.Message)
}

// Is makes errors.Is(err, ErrStatus) hold for any StatusError
func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

const activityDateLayout = "2006-01-02"

// Client is a controller API client
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for dropped records
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l.With("component", "toolapi")
		}
	}
}

// New creates a client for the controller at baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse controller url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("controller url %q must be absolute", baseURL)
	}
	c := &Client{
		baseURL: u,
		http:    &http.Client{},
		logger:  slog.Default().With("component", "toolapi"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the controller root
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListTools fetches the registered tools. Records that fail validation are skipped.
func (c *Client) ListTools(ctx context.Context) ([]model.ToolView, error) {
	var body json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/tools", nil, nil, &body); err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	records, err := recordList(body, "tools")
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	tools := make([]model.ToolView, 0, len(records))
	for _, raw := range records {
		tv, err := model.ParseTool(raw)
		if err != nil {
			c.logger.Debug("skipping tool record", "err", err)
			continue
		}
		tools = append(tools, tv)
	}
	return tools, nil
}

// StatusAll fetches liveness of every tool
func (c *Client) StatusAll(ctx context.Context) ([]model.Liveness, error) {
	var body json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/tools/status-all", nil, nil, &body); err != nil {
		return nil, fmt.Errorf("status all: %w", err)
	}
	records, err := recordList(body, "tools")
	if err != nil {
		return nil, fmt.Errorf("status all: %w", err)
	}
	out := make([]model.Liveness, 0, len(records))
	for _, raw := range records {
		l, err := model.ParseLiveness(raw)
		if err != nil {
			c.logger.Debug("skipping liveness record", "err", err)
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

// Launch asks the controller to start a tool
func (c *Client) Launch(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodPost, toolPath(id, "launch"), nil, nil, nil); err != nil {
		return fmt.Errorf("launch %s: %w", id, err)
	}
	return nil
}

// Kill asks the controller to stop a tool
func (c *Client) Kill(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodPost, toolPath(id, "kill"), nil, nil, nil); err != nil {
		return fmt.Errorf("kill %s: %w", id, err)
	}
	return nil
}

// SetAutoStart toggles whether the controller starts the tool on boot
func (c *Client) SetAutoStart(ctx context.Context, id string, enabled bool) error {
	payload := struct {
		Enabled bool `json:"enabled"`
	}{enabled}
	if err := c.do(ctx, http.MethodPost, toolPath(id, "auto-start"), nil, payload, nil); err != nil {
		return fmt.Errorf("set auto start %s: %w", id, err)
	}
	return nil
}

type activityPayload struct {
	RangeStart string `json:"range_start"`
	RangeEnd   string `json:"range_end"`
	MaxCount   int    `json:"max_count"`
	Days       []struct {
		Date  string `json:"date"`
		Count int    `json:"count"`
	} `json:"days"`
}

// JobActivity fetches per-day job application counts for the trailing days
func (c *Client) JobActivity(ctx context.Context, days int) (model.ActivityRange, error) {
	query := url.Values{}
	if days > 0 {
		query.Set("days", strconv.Itoa(days))
	}
	var p activityPayload
	if err := c.do(ctx, http.MethodGet, "/dashboard/job-applications", query, nil, &p); err != nil {
		return model.ActivityRange{}, fmt.Errorf("job activity: %w", err)
	}

	r := model.ActivityRange{MaxCount: p.MaxCount}
	r.RangeStart, _ = time.Parse(activityDateLayout, p.RangeStart)
	r.RangeEnd, _ = time.Parse(activityDateLayout, p.RangeEnd)
	for _, d := range p.Days {
		date, err := time.Parse(activityDateLayout, d.Date)
		if err != nil {
			c.logger.Debug("skipping activity day", "date", d.Date, "err", err)
			continue
		}
		r.Days = append(r.Days, model.ActivityDay{Date: date, Count: d.Count})
	}
	if r.MaxCount <= 0 {
		for _, d := range r.Days {
			if d.Count > r.MaxCount {
				r.MaxCount = d.Count
			}
		}
	}
	return r, nil
}

// WidgetURL returns the embedded widget source of a tool
func (c *Client) WidgetURL(id string) string {
	return c.baseURL.String() + "/proxy/" + url.PathEscape(id) + "/widget"
}

// PageURL returns the full-page address of a tool
func (c *Client) PageURL(id string) string {
	return c.WidgetURL(id)
}

func toolPath(id, action string) string {
	return "/tools/" + url.PathEscape(id) + "/" + action
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	target := c.baseURL.String() + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Message: errorMessage(data)}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage pulls the error or detail field out of an error body
func errorMessage(data []byte) string {
	var body map[string]any
	if err := json.Unmarshal(data, &body); err == nil {
		for _, key := range []string{"error", "detail", "message"} {
			if s, ok := body[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return strings.TrimSpace(string(data))
}

// recordList accepts a bare array or an object holding the array under key
func recordList(data json.RawMessage, key string) ([]map[string]any, error) {
	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		inner, ok := wrapped[key]
		if !ok {
			return nil, fmt.Errorf("decode response: missing %q", key)
		}
		if err := json.Unmarshal(inner, &items); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, nil
}
