package vk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.vk.com/method"
	DefaultVersion = "5.199"
)

// APIError is the error object VK returns instead of a response.
type APIError struct {
	Method string `json:"-"`
	Code   int    `json:"error_code"`
	Msg    string `json:"error_msg"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vk: %s: error %d: %s", e.Method, e.Code, e.Msg)
}

// Client is a minimal VK API client. One client holds one access token, so the
// bot keeps two of them: the community token for messages and long poll, and a
// user token for directory lookups.
type Client struct {
	token      string
	baseURL    string
	version    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithVersion(v string) Option {
	return func(c *Client) {
		if v != "" {
			c.version = v
		}
	}
}

// WithRateLimit caps outgoing calls to rps requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		token:      token,
		baseURL:    DefaultBaseURL,
		version:    DefaultVersion,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(3), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call posts params to the given method and decodes the "response" field into out.
func (c *Client) call(ctx context.Context, method string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	form := url.Values{}
	for k, v := range params {
		form[k] = v
	}
	form.Set("access_token", c.token)
	form.Set("v", c.version)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.New("vk: unexpected status " + resp.Status)
	}
	var wrapper struct {
		Response json.RawMessage `json:"response"`
		Error    *APIError       `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wrapper); err != nil {
		return fmt.Errorf("vk: %s: decode: %w", method, err)
	}
	if wrapper.Error != nil {
		wrapper.Error.Method = method
		return wrapper.Error
	}
	if out == nil || len(wrapper.Response) == 0 {
		return nil
	}
	if err := json.Unmarshal(wrapper.Response, out); err != nil {
		return fmt.Errorf("vk: %s: decode response: %w", method, err)
	}
	return nil
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

func boolParam(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
