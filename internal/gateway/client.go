package gateway

import (
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/samber/lo"
)

const (
	DefaultTimeout = 30 * time.Second

	// Endpoint paths of the conversion service.
	DefaultConvertPath = "/api/image/convert-single"
	DefaultFormatsPath = "/api/image/formats"
)

var defaultHeaders = map[string]string{
	"User-Agent":      "packconv/0.1.0",
	"Accept":          "application/json",
	"Accept-Encoding": "gzip",
}

type Config struct {
	BaseURL     string
	Headers     map[string]string
	Auth        *AuthConfig
	Timeout     time.Duration
	Insecure    bool
	ConvertPath string
	FormatsPath string
}

type AuthConfig struct {
	Basic *BasicAuthConfig
}

type BasicAuthConfig struct {
	Username string
	Password string
	Encoded  string
}

// Client talks to the remote conversion service. One Convert call converts
// one item; the client holds no per-run state and is safe for reuse across
// runs.
type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	headers     map[string]string
	convertPath string
	formatsPath string
}

type ClientOption func(*Client)

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base_url is required")
	}

	parsedURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base_url '%s': %w", cfg.BaseURL, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("base_url must use http or https scheme, got: %s", parsedURL.Scheme)
	}

	headers := lo.Assign(defaultHeaders, cfg.Headers)
	if cfg.Auth != nil && cfg.Auth.Basic != nil {
		if cfg.Auth.Basic.Encoded != "" {
			headers["Authorization"] = "Basic " + cfg.Auth.Basic.Encoded
		} else {
			headers["Authorization"] = "Basic " + base64.StdEncoding.EncodeToString([]byte(cfg.Auth.Basic.Username+":"+cfg.Auth.Basic.Password))
		}
	}

	client := &Client{
		baseURL:     parsedURL,
		headers:     headers,
		convertPath: cfg.ConvertPath,
		formatsPath: cfg.FormatsPath,
	}

	if client.convertPath == "" {
		client.convertPath = DefaultConvertPath
	}
	if client.formatsPath == "" {
		client.formatsPath = DefaultFormatsPath
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}

		transport := cleanhttp.DefaultPooledTransport()
		if cfg.Insecure {
			if transport.TLSClientConfig == nil {
				transport.TLSClientConfig = &tls.Config{}
			}

			transport.TLSClientConfig.InsecureSkipVerify = true
		}

		client.httpClient = &http.Client{
			Transport: transport,
			Timeout:   timeout,
		}
	}

	return client, nil
}

func (c *Client) Name() string {
	return fmt.Sprintf("gateway(%s)", c.baseURL.Host)
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	for k, v := range c.headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}

	return c.httpClient.Do(req)
}

func (c *Client) resolve(p string) (*url.URL, error) {
	pathURL, err := url.Parse(p)
	if err != nil {
		return nil, fmt.Errorf("failed to parse path '%s': %w", p, err)
	}

	return c.baseURL.ResolveReference(pathURL), nil
}
