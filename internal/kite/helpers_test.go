package kite

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ekaputhra/kitefarm/config"
)

func newServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(serverURL string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.OzoneBaseURL = serverURL
	cfg.NeoBaseURL = serverURL
	cfg.ChainRPCURL = serverURL
	cfg.FallbackRPCURL = serverURL
	cfg.RequestTimeoutSec = 5
	cfg.ReceiptPollRetries = 3
	cfg.ReceiptPollDelaySec = 0
	return cfg
}

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := newServer(t, handler)
	return New(testConfig(srv.URL), "")
}
