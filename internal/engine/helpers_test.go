package engine

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	gh "rulewarden/internal/github"
)

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q) failed: %v", raw, err)
	}
	return u
}

// newTestEngine wires an Engine against a fake GitHub API server. The retry
// delay is zeroed so retry paths don't slow tests down.
func newTestEngine(t *testing.T, serverURL string) (*Engine, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	client, err := gh.NewClient(context.Background(), "dummy")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	base := mustParseURL(t, serverURL+"/")
	client.Client.BaseURL = base
	client.Client.UploadURL = base

	var out, errw bytes.Buffer
	e := New(client, &out, &errw)
	e.RetryDelay = 0
	return e, &out, &errw
}

func newTestServer(t *testing.T) (*http.ServeMux, *httptest.Server) {
	t.Helper()
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return mux, server
}
