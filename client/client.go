package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/erazemk/najdeno/internal/apperr"
)

// Client talks to the najdeno API on behalf of one session.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Sessions   SessionStore
}

// New creates a client against the given base URL with an in-memory
// session store.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Sessions:   &MemStore{},
	}
}

// Session returns the current session, or nil when logged out.
func (c *Client) Session() *Session {
	return c.Sessions.Load()
}

// errorBody matches the server's error wire form.
type errorBody struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// do performs one API call. When authed is set, a missing credential
// fails with Unauthorized before any network traffic. Network failures
// come back as TransportError: the outcome is unknown and the caller
// must re-fetch rather than assume either result.
func (c *Client) do(ctx context.Context, method, path string, authed bool, body, out any) error {
	var token string
	if authed {
		session := c.Sessions.Load()
		if !session.Authenticated() {
			return apperr.ErrUnauthorized
		}
		token = session.Token
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &apperr.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// decodeError turns an API error response back into a taxonomy error.
func decodeError(resp *http.Response) error {
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Code == "" {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return apperr.ErrUnauthorized
		case http.StatusForbidden:
			return apperr.ErrForbidden
		case http.StatusNotFound:
			return apperr.ErrNotFound
		}
		return fmt.Errorf("server error (status %d)", resp.StatusCode)
	}
	return apperr.FromCode(body.Code, body.Fields)
}

// pageQuery encodes paging values for list endpoints.
func pageQuery(page, size int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return q
}

func itemPath(id int64) string {
	return "/api/items/" + strconv.FormatInt(id, 10)
}
