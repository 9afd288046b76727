package jira

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Options{
		BaseURL:  srv.URL,
		Username: "dev@example.com",
		Token:    "secret",
	})
}

func TestBasicAuthHeader(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	})
	var out struct{}
	if err := c.get(context.Background(), "myself", nil, &out); err != nil {
		t.Fatalf("get() error = %v", err)
	}
	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("dev@example.com:secret"))
	if got != want {
		t.Errorf("Authorization = %q, want %q", got, want)
	}
}

func TestBearerAuthHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()
	c := NewClient(Options{BaseURL: srv.URL, Token: "pat-token", BearerAuth: true})
	var out struct{}
	if err := c.get(context.Background(), "myself", nil, &out); err != nil {
		t.Fatalf("get() error = %v", err)
	}
	if got != "Bearer pat-token" {
		t.Errorf("Authorization = %q, want %q", got, "Bearer pat-token")
	}
}

func TestAPIPathUsesVersion(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Path
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()
	c := NewClient(Options{BaseURL: srv.URL, APIVersion: 2})
	var out struct{}
	if err := c.get(context.Background(), "serverInfo", nil, &out); err != nil {
		t.Fatalf("get() error = %v", err)
	}
	if got != "/rest/api/2/serverInfo" {
		t.Errorf("request path = %q, want %q", got, "/rest/api/2/serverInfo")
	}
}

func TestStatusErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   ErrorKind
	}{
		{name: "unauthorized", status: 401, want: ErrAuth},
		{name: "forbidden", status: 403, want: ErrAuth},
		{name: "not found", status: 404, want: ErrNotFound},
		{name: "rate limited", status: 429, want: ErrRateLimited},
		{name: "server error", status: 502, want: ErrNetwork},
		{name: "unexpected status", status: 400, want: ErrMalformed},
		{name: "bad json", status: 200, body: "<html>", want: ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			var out struct{}
			err := c.get(context.Background(), "search", nil, &out)
			var remote *RemoteError
			if !errors.As(err, &remote) {
				t.Fatalf("get() error = %v, want *RemoteError", err)
			}
			if remote.Kind != tt.want {
				t.Errorf("error kind = %q, want %q", remote.Kind, tt.want)
			}
		})
	}
}
