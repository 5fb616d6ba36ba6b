// Package testutils provides shared helpers for integration tests.
package testutils

import (
	"net/http/httptest"
	"testing"

	"github.com/nfrund/accountctl/internal/accountd"
	"github.com/nfrund/accountctl/internal/client"
)

const testSessionSecret = "a-very-secret-key-for-testing-!"

// StartService spins up the development account service on an httptest
// listener and returns its base URL. The server is torn down with the test.
func StartService(t *testing.T) string {
	t.Helper()

	srv := accountd.New(testSessionSecret)
	ts := httptest.NewServer(srv.E)
	t.Cleanup(ts.Close)
	return ts.URL
}

// NewClient returns a client wired to a fresh development service instance.
func NewClient(t *testing.T) *client.Client {
	t.Helper()

	c, err := client.New(StartService(t))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return c
}
