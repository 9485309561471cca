// Package testutil provides helpers for replaying recorded upstream traffic.
package testutil

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/dnaeon/go-vcr.v2/cassette"
	"gopkg.in/dnaeon/go-vcr.v2/recorder"

	"github.com/denis-hade/hade-avatar-server/internal/pkg/safehttp"
)

// NewVCRClient returns an HTTP client backed by the cassette
// testdata/fixtures/<cassetteName>.yaml. Cassettes are replayed unless
// VCR_MODE=record, in which case real traffic is captured with credentials
// stripped. The client is built by safehttp, so replayed calls are traced the
// same way production calls are. The recorder is stopped when the test finishes.
func NewVCRClient(t *testing.T, cassetteName string) *http.Client {
	t.Helper()

	mode := recorder.ModeReplaying
	if os.Getenv("VCR_MODE") == "record" {
		mode = recorder.ModeRecording
	}

	cassettePath := filepath.Join("testdata", "fixtures", cassetteName)

	r, err := recorder.NewAsMode(cassettePath, mode, nil)
	if err != nil {
		t.Fatalf("Failed to create VCR recorder: %v", err)
	}

	// Upstream calls are identified by method and URL; bodies are ignored.
	r.SetMatcher(func(r *http.Request, i cassette.Request) bool {
		return r.Method == i.Method && r.URL.String() == i.URL
	})

	// Never persist upstream credentials.
	r.AddFilter(func(i *cassette.Interaction) error {
		delete(i.Request.Headers, "Authorization")
		delete(i.Request.Headers, "Versionid")
		return nil
	})

	t.Cleanup(func() {
		if err := r.Stop(); err != nil {
			t.Errorf("Failed to stop VCR recorder: %v", err)
		}
	})

	return safehttp.NewClient(safehttp.WithTransport(r))
}
