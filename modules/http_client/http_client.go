package http_client

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

	"github.com/specialistvlad/extgrid/internal/ctxlog"
)

const defaultTimeout = 30 * time.Second

// Input defines the arguments for creating an http_client component.
type Input struct {
	URL     string            `hcl:"url"`
	Method  string            `hcl:"method,optional"`
	Timeout string            `hcl:"timeout,optional"`
	Headers map[string]string `hcl:"headers,optional"`
}

// Output is the response of one invocation.
type Output struct {
	StatusCode int               `cty:"status_code"`
	Body       string            `cty:"body"`
	Headers    map[string]string `cty:"headers"`
}

// Client calls one configured endpoint.
type Client struct {
	name    string
	url     *url.URL
	method  string
	headers map[string]string
	client  *http.Client
}

func newClient(name string, input *Input) (*Client, error) {
	u, err := url.Parse(input.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme '%s' in '%s'", u.Scheme, input.URL)
	}

	timeout := defaultTimeout
	if input.Timeout != "" {
		timeout, err = time.ParseDuration(input.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout: %w", err)
		}
	}

	method := strings.ToUpper(input.Method)
	if method == "" {
		method = http.MethodGet
	}

	return &Client{
		name:    name,
		url:     u,
		method:  method,
		headers: input.Headers,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

// Invoke sends one request. Arguments become query parameters for GET and
// DELETE requests and a JSON object body otherwise.
func (c *Client) Invoke(ctx context.Context, args map[string]string) (any, error) {
	logger := ctxlog.FromContext(ctx).With("component", c.name, "method", c.method, "url", c.url.String())

	target := *c.url
	var body io.Reader
	switch c.method {
	case http.MethodGet, http.MethodDelete, http.MethodHead:
		q := target.Query()
		for k, v := range args {
			q.Set(k, v)
		}
		target.RawQuery = q.Encode()
	default:
		payload, err := json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	logger.Info("Making HTTP request")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	logger.Info("Received HTTP response", "status", resp.Status)

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}

	return &Output{
		StatusCode: resp.StatusCode,
		Body:       string(bodyBytes),
		Headers:    headers,
	}, nil
}

// Close releases idle connections held by the client.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
