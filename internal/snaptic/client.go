package snaptic

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// API endpoints, relative to the versioned base.
const (
	apiVersion         = "v1"
	endpointNotesJSON  = "/notes.json"
	endpointNotes      = "/notes/"
	endpointImages     = "/images/"
	endpointImagesView = "/viewImage.action?viewNodeId="
	endpointUserJSON   = "/user.json"
	endpointTagsJSON   = "/tags/tags.json"
)

const (
	defaultHost    = "api.snaptic.com"
	defaultTimeout = 10 * time.Second
)

// Client talks to a Snaptic API host. It authenticates every request with
// either basic auth (username/password) or the cookie_epass session cookie;
// basic auth wins when both are configured.
type Client struct {
	host        string
	port        int
	useSSL      bool
	username    string
	password    string
	cookieEpass string
	http        *http.Client
	limiter     *rate.Limiter
}

// Options tunes the client beyond credentials. The zero value selects
// api.snaptic.com over SSL on port 443 with a 10 second timeout and no
// request throttle.
type Options struct {
	Host    string
	Port    int
	UseSSL  *bool // nil means SSL on
	Timeout time.Duration
	// RateLimitRPS caps outgoing requests per second. Zero disables the cap.
	RateLimitRPS float64
}

// New creates a client using basic authentication.
func New(username, password string, opts *Options) *Client {
	c := newClient(opts)
	c.username = username
	c.password = password
	return c
}

// NewWithCookie creates a client using cookie authentication.
func NewWithCookie(cookieEpass string, opts *Options) *Client {
	c := newClient(opts)
	c.cookieEpass = cookieEpass
	return c
}

func newClient(opts *Options) *Client {
	if opts == nil {
		opts = &Options{}
	}

	host := opts.Host
	if host == "" {
		host = defaultHost
	}
	useSSL := true
	if opts.UseSSL != nil {
		useSSL = *opts.UseSSL
	}
	port := opts.Port
	if port == 0 {
		if useSSL {
			port = 443
		} else {
			port = 80
		}
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	var limiter *rate.Limiter
	if opts.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), 1)
	}

	return &Client{
		host:    host,
		port:    port,
		useSSL:  useSSL,
		http:    &http.Client{Timeout: timeout},
		limiter: limiter,
	}
}

// Host returns the host the client is configured against.
func (c *Client) Host() string {
	return c.host
}

// BaseURL returns the scheme://host[:port] prefix for requests.
func (c *Client) BaseURL() string {
	scheme := "http"
	defaultPort := 80
	if c.useSSL {
		scheme = "https"
		defaultPort = 443
	}
	if c.port == defaultPort {
		return fmt.Sprintf("%s://%s", scheme, c.host)
	}
	return fmt.Sprintf("%s://%s:%d", scheme, c.host, c.port)
}

// versioned prefixes an endpoint with the API version.
func versioned(endpoint string) string {
	return "/" + apiVersion + endpoint
}

// SetCredentials replaces the client's credentials.
func (c *Client) SetCredentials(username, password, cookieEpass string) error {
	if username != "" && password != "" {
		c.username = username
		c.password = password
		c.cookieEpass = ""
		return nil
	}
	if cookieEpass != "" {
		c.cookieEpass = cookieEpass
		c.username = ""
		c.password = ""
		return nil
	}
	return ErrNoCredential
}

// authorize attaches the configured auth mechanism to a request.
func (c *Client) authorize(req *http.Request) error {
	if c.username != "" && c.password != "" {
		req.SetBasicAuth(c.username, c.password)
		return nil
	}
	if c.cookieEpass != "" {
		req.AddCookie(&http.Cookie{Name: "cookie_epass", Value: c.cookieEpass})
		return nil
	}
	return &APIError{Sentinel: ErrNoCredential, Operation: req.Method + " " + req.URL.Path}
}

// do performs an authenticated request and returns the response body.
// Any status other than 200 is an error carrying the status and body.
func (c *Client) do(ctx context.Context, operation, method, path, contentType string, body io.Reader) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, transportError(operation, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL()+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("User-Agent", userAgent)
	if err := c.authorize(req); err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(operation, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(operation, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(operation, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	return data, nil
}

const userAgent = "go-snaptic/" + Version

// Version is the library version reported in the User-Agent header.
const Version = "0.4.0"
