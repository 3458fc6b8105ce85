package api

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
)

// Fetcher defines the remote calls the board makes.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	FetchPosts(ctx context.Context) ([]Post, error)
	FetchPost(ctx context.Context, id string) (Post, error)
	AddNewPost(ctx context.Context, post NewPost) (Post, error)
	FetchUsers(ctx context.Context) ([]User, error)
	FetchNotifications(ctx context.Context, since string) ([]Notification, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the board HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIBind   = "127.0.0.1:7480"
	defaultUserAgent = "postboard/0.1"
	requestTimeout   = 5 * time.Second

	// PathPrefix is the root of every API resource.
	PathPrefix = "/fakeApi"
)

// NewClient builds a Client using the provided apiBind host:port value.
func NewClient(apiBind string) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// FetchPosts retrieves every post.
func (c *Client) FetchPosts(ctx context.Context) ([]Post, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Post
	if err := c.do(ctx, http.MethodGet, PathPrefix+"/posts", nil, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchPost retrieves a single post by id.
func (c *Client) FetchPost(ctx context.Context, id string) (Post, error) {
	if c == nil {
		return Post{}, fmt.Errorf("client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Post{}, fmt.Errorf("post id required")
	}
	var payload Post
	if err := c.do(ctx, http.MethodGet, PathPrefix+"/posts/"+id, nil, nil, &payload); err != nil {
		return Post{}, err
	}
	return payload, nil
}

// AddNewPost creates a post. The response carries the server-assigned id,
// date and reaction counters.
func (c *Client) AddNewPost(ctx context.Context, post NewPost) (Post, error) {
	if c == nil {
		return Post{}, fmt.Errorf("client is nil")
	}
	var payload Post
	if err := c.do(ctx, http.MethodPost, PathPrefix+"/posts", nil, post, &payload); err != nil {
		return Post{}, err
	}
	return payload, nil
}

// FetchUsers retrieves every user.
func (c *Client) FetchUsers(ctx context.Context) ([]User, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []User
	if err := c.do(ctx, http.MethodGet, PathPrefix+"/users", nil, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchNotifications retrieves notifications newer than since, an RFC 3339
// timestamp. An empty since asks for the server's default window.
func (c *Client) FetchNotifications(ctx context.Context, since string) ([]Notification, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("since", strings.TrimSpace(since))
	var payload []Notification
	if err := c.do(ctx, http.MethodGet, PathPrefix+"/notifications", values, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dest any) error {
	rel := &url.URL{Path: path}
	if len(query) > 0 {
		rel.RawQuery = query.Encode()
	}
	reqURL := c.baseURL.ResolveReference(rel)
	fail := func(status int, err error) error {
		return &NetworkError{Method: method, Resource: path, StatusCode: status, Err: err}
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fail(0, fmt.Errorf("execute request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return fail(resp.StatusCode, ErrNotFound)
	}
	if resp.StatusCode >= 400 {
		return fail(resp.StatusCode, nil)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fail(0, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
