// Package jira is a thin client for the Jira REST API. It decides
// nothing: retries, backoff and caching are left to callers and to the
// underlying http.Client.
package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrorKind is a coarse failure class. The engine treats every kind the
// same way ("this fetch failed"); kinds exist only for user-facing
// messaging.
type ErrorKind string

const (
	ErrNetwork     ErrorKind = "network"
	ErrAuth        ErrorKind = "auth"
	ErrNotFound    ErrorKind = "not-found"
	ErrRateLimited ErrorKind = "rate-limited"
	ErrMalformed   ErrorKind = "malformed-response"
)

type RemoteError struct {
	Kind    ErrorKind
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Options configures a Client. BaseURL is the API root, e.g.
// https://example.atlassian.net.
type Options struct {
	BaseURL    string
	Username   string
	Token      string
	BearerAuth bool
	APIVersion int
	Timeout    time.Duration
}

type Client struct {
	http    *http.Client
	baseURL string
	version int
}

// authTransport injects credentials into every request.
type authTransport struct {
	base     http.RoundTripper
	username string
	token    string
	bearer   bool
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	if t.bearer {
		r.Header.Set("Authorization", "Bearer "+t.token)
	} else {
		r.SetBasicAuth(t.username, t.token)
	}
	r.Header.Set("Accept", "application/json")
	return t.base.RoundTrip(r)
}

func NewClient(opts Options) *Client {
	version := opts.APIVersion
	if version == 0 {
		version = 3
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http: &http.Client{
			Timeout: timeout,
			Transport: &authTransport{
				base:     http.DefaultTransport,
				username: opts.Username,
				token:    opts.Token,
				bearer:   opts.BearerAuth,
			},
		},
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		version: version,
	}
}

func (c *Client) apiPath(path string) string {
	return fmt.Sprintf("%s/rest/api/%d/%s", c.baseURL, c.version, path)
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.apiPath(path)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &RemoteError{Kind: ErrNetwork, Message: err.Error()}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &RemoteError{Kind: ErrNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RemoteError{Kind: ErrMalformed, Message: err.Error()}
	}
	return nil
}

func statusError(resp *http.Response) *RemoteError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := fmt.Sprintf("%s: %s", resp.Status, strings.TrimSpace(string(body)))
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &RemoteError{Kind: ErrAuth, Message: msg}
	case http.StatusNotFound:
		return &RemoteError{Kind: ErrNotFound, Message: msg}
	case http.StatusTooManyRequests:
		return &RemoteError{Kind: ErrRateLimited, Message: msg}
	}
	if resp.StatusCode >= 500 {
		return &RemoteError{Kind: ErrNetwork, Message: msg}
	}
	return &RemoteError{Kind: ErrMalformed, Message: msg}
}
