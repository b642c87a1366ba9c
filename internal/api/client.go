// Package api talks to the remote TaskHub HTTP API.
//
// A Client is the transport adapter: it prefixes the base URL, encodes JSON
// or multipart bodies, and turns every failure into an *Error. The resource
// clients (AuthService, TaskService) are thin typed wrappers over it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is the public TaskHub API
	DefaultBaseURL = "https://taskhub.linerds.us/api"

	defaultTimeout   = 30 * time.Second
	requestIDHeader  = "X-Request-ID"
	maxErrorBodySize = 1 << 20
)

// Call identifies the request an interceptor is looking at
type Call struct {
	Method    string
	Path      string
	RequestID string
}

// Interceptor observes every failed call before the error reaches the caller.
// It returns the error the caller should see.
type Interceptor interface {
	Intercept(call Call, err *Error) error
}

// InterceptorFunc adapts a plain function to Interceptor
type InterceptorFunc func(call Call, err *Error) error

func (f InterceptorFunc) Intercept(call Call, err *Error) error {
	return f(call, err)
}

// Client is an HTTP adapter bound to one API base URL
type Client struct {
	baseURL      string
	http         *http.Client
	interceptors []Interceptor
	logger       *log.Logger
	userAgent    string
}

// Option configures a Client
type Option func(*Client)

// WithJar attaches a cookie jar, making the client session-bearing
func WithJar(jar http.CookieJar) Option {
	return func(c *Client) {
		c.http.Jar = jar
	}
}

// WithTimeout sets the overall per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithInterceptor appends a response interceptor
func WithInterceptor(i Interceptor) Option {
	return func(c *Client) {
		c.interceptors = append(c.interceptors, i)
	}
}

// WithLogger sets the request logger
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a client for baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid API URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:   strings.TrimRight(u.String(), "/"),
		http:      &http.Client{Timeout: defaultTimeout},
		logger:    log.New(io.Discard, "", 0),
		userAgent: "taskhub",
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the normalised base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends a JSON request. in may be nil for an empty body; out may be nil to
// discard the response.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.send(req, path, out)
}

// FormField is a plain multipart field
type FormField struct {
	Name  string
	Value string
}

// FormFile is a multipart file part
type FormFile struct {
	Field    string
	FileName string
	Content  io.Reader
}

// DoMultipart sends a multipart/form-data POST
func (c *Client) DoMultipart(ctx context.Context, path string, fields []FormField, files []FormFile, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return fmt.Errorf("failed to encode field %s: %w", f.Name, err)
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.FileName)
		if err != nil {
			return fmt.Errorf("failed to encode file %s: %w", f.FileName, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return fmt.Errorf("failed to read file %s: %w", f.FileName, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to encode form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.send(req, path, out)
}

func (c *Client) send(req *http.Request, path string, out any) error {
	call := Call{
		Method:    req.Method,
		Path:      path,
		RequestID: uuid.NewString(),
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, call.RequestID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Printf("%s %s -> no response (%s): %v", call.Method, path, call.RequestID, err)
		return c.fail(call, newNetworkError(err))
	}
	defer resp.Body.Close()

	c.logger.Printf("%s %s -> %d (%s)", call.Method, path, resp.StatusCode, call.RequestID)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return c.fail(call, newStatusError(resp.StatusCode, body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(call, newNetworkError(err))
	}

	return decodeBody(body, out)
}

// fail runs the interceptors in order and returns what the last one produced
func (c *Client) fail(call Call, apiErr *Error) error {
	var err error = apiErr
	for _, i := range c.interceptors {
		err = i.Intercept(call, apiErr)
	}
	return err
}

func decodeBody(body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	// Some endpoints answer with a bare string rather than JSON
	if s, ok := out.(*string); ok {
		if err := json.Unmarshal(body, s); err != nil {
			*s = strings.TrimSpace(string(body))
		}
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
