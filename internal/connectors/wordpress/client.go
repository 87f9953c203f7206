package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driven"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultAPIPath is appended to self-hosted site URLs.
	DefaultAPIPath = "/api/v2"

	// DefaultMaxResponseBytes bounds how much of a response body is read.
	DefaultMaxResponseBytes = 8 << 20

	// MaxRetries is the maximum number of retries for transient errors.
	MaxRetries = 3

	// RetryDelay is the initial delay between retries.
	RetryDelay = time.Second

	// hostedBase is the API gateway for sites hosted on WordPress.com.
	hostedBase = "https://public-api.wordpress.com/wp/v2/sites/"
)

// Verify interface compliance.
var _ driven.RemoteClient = (*Client)(nil)

// Client is a REST client for one or more WordPress sites. It holds no
// credentials; each call receives them.
type Client struct {
	http             *http.Client
	limiter          *RateLimiter
	apiPath          string
	maxResponseBytes int64
	retryDelay       time.Duration
	log              driven.LogSink
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithAPIPath sets the REST path appended to self-hosted site URLs.
func WithAPIPath(path string) Option {
	return func(c *Client) {
		if path = strings.TrimSpace(path); path != "" {
			c.apiPath = "/" + strings.Trim(path, "/")
		}
	}
}

// WithRateLimit sets the proactive request rate.
func WithRateLimit(requestsPerSecond float64) Option {
	return func(c *Client) {
		c.limiter = NewRateLimiter(requestsPerSecond)
	}
}

// WithMaxResponseBytes sets the largest response body the client accepts.
func WithMaxResponseBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxResponseBytes = n
		}
	}
}

// WithRetryDelay sets the initial delay between retries.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithLogger sets the diagnostic sink.
func WithLogger(sink driven.LogSink) Option {
	return func(c *Client) {
		c.log = sink
	}
}

// NewClient creates a client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:             &http.Client{Timeout: DefaultTimeout},
		limiter:          NewRateLimiter(DefaultRequestsPerSecond),
		apiPath:          DefaultAPIPath,
		maxResponseBytes: DefaultMaxResponseBytes,
		retryDelay:       RetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.limiter
}

// request describes one API call. Body is kept as bytes so the call can
// be retried.
type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// baseURL returns the REST root for the site.
func (c *Client) baseURL(creds domain.SiteCredentials) (string, error) {
	site, err := domain.NormalizeSiteURL(creds.SiteURL)
	if err != nil {
		return "", err
	}

	if creds.IsWordPressCom {
		u, err := url.Parse(site)
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
		}
		return hostedBase + u.Host, nil
	}

	return site + c.apiPath, nil
}

// do sends a request, retrying transient failures.
func (c *Client) do(ctx context.Context, creds domain.SiteCredentials, req request) (*response, error) {
	base, err := c.baseURL(creds)
	if err != nil {
		return nil, err
	}

	target := base + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		resp, err := c.send(ctx, creds, target, req)
		if err != nil {
			return nil, err
		}

		if isRetryable(resp.status) && attempt < MaxRetries {
			delay := c.retryDelay << attempt
			if d, ok := RetryAfter(resp.header, time.Now()); ok {
				delay = d
			}
			c.logf(domain.LogDebug, "%s %s returned %d, retrying in %s", req.method, req.path, resp.status, delay)
			c.limiter.Pause(delay)
			continue
		}

		return resp, statusError(resp, target)
	}
}

// send performs a single HTTP exchange and reads the bounded body.
func (c *Client) send(ctx context.Context, creds domain.SiteCredentials, target string, req request) (*response, error) {
	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}
	httpReq.SetBasicAuth(creds.Username, creds.Secret)
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if isOversize(err) {
			return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrResponseTooLarge, req.method, req.path, err)
		}
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrInvalidResponse, req.method, req.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusRequestEntityTooLarge {
		return nil, fmt.Errorf("%w: %s %s: status %d", domain.ErrResponseTooLarge, req.method, req.path, resp.StatusCode)
	}
	if resp.ContentLength > c.maxResponseBytes {
		return nil, fmt.Errorf("%w: %s %s: %d bytes", domain.ErrResponseTooLarge, req.method, req.path, resp.ContentLength)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseBytes+1))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if isOversize(err) {
			return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrResponseTooLarge, req.method, req.path, err)
		}
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrInvalidResponse, err)
	}
	if int64(len(data)) > c.maxResponseBytes {
		return nil, fmt.Errorf("%w: %s %s: body exceeds %d bytes", domain.ErrResponseTooLarge, req.method, req.path, c.maxResponseBytes)
	}

	return &response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

// getJSON performs a GET and decodes the body into out.
func (c *Client) getJSON(
	ctx context.Context, creds domain.SiteCredentials, path string, query url.Values, what string, out any,
) (*response, error) {
	resp, err := c.do(ctx, creds, request{method: http.MethodGet, path: path, query: query})
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return nil, &domain.DecodingError{What: what, Err: err}
	}
	return resp, nil
}

// sendJSON encodes in, performs the request and decodes the body into out.
func (c *Client) sendJSON(
	ctx context.Context, creds domain.SiteCredentials, method, path string, in any, what string, out any,
) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return &domain.EncodingError{What: what, Err: err}
	}

	resp, err := c.do(ctx, creds, request{
		method:      method,
		path:        path,
		body:        payload,
		contentType: "application/json",
	})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return &domain.DecodingError{What: what, Err: err}
	}
	return nil
}

// TestConnection verifies the credentials against the current user endpoint.
func (c *Client) TestConnection(ctx context.Context, creds domain.SiteCredentials) error {
	var user wireUser
	if _, err := c.getJSON(ctx, creds, "/users/me", nil, "current user", &user); err != nil {
		return fmt.Errorf("test connection: %w", err)
	}
	c.logf(domain.LogDebug, "connected to %s as user %d", creds.SiteURL, user.ID)
	return nil
}

// FetchPost returns a single post.
func (c *Client) FetchPost(ctx context.Context, creds domain.SiteCredentials, id int64) (*domain.RemotePost, error) {
	var wire wirePost
	if _, err := c.getJSON(ctx, creds, postPath(id), nil, "post", &wire); err != nil {
		return nil, fmt.Errorf("fetch post %d: %w", id, err)
	}
	post, err := wire.toDomain()
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost creates a post.
func (c *Client) CreatePost(
	ctx context.Context, creds domain.SiteCredentials, fields domain.RemotePostFields,
) (*domain.RemotePost, error) {
	var wire wirePost
	if err := c.sendJSON(ctx, creds, http.MethodPost, "/posts", fieldsToWire(fields), "post", &wire); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	post, err := wire.toDomain()
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost updates an existing post.
func (c *Client) UpdatePost(
	ctx context.Context, creds domain.SiteCredentials, id int64, fields domain.RemotePostFields,
) (*domain.RemotePost, error) {
	if id <= 0 {
		return nil, domain.ErrMissingRemoteID
	}

	var wire wirePost
	if err := c.sendJSON(ctx, creds, http.MethodPost, postPath(id), fieldsToWire(fields), "post", &wire); err != nil {
		return nil, fmt.Errorf("update post %d: %w", id, err)
	}
	post, err := wire.toDomain()
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost moves a post to the trash.
func (c *Client) DeletePost(ctx context.Context, creds domain.SiteCredentials, id int64) error {
	if id <= 0 {
		return domain.ErrMissingRemoteID
	}
	if _, err := c.do(ctx, creds, request{method: http.MethodDelete, path: postPath(id)}); err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return nil
}

func postPath(id int64) string {
	return "/posts/" + strconv.FormatInt(id, 10)
}

func (c *Client) logf(level domain.LogLevel, format string, args ...any) {
	if c.log == nil {
		return
	}
	c.log.Log(level, "wordpress", fmt.Sprintf(format, args...))
}
