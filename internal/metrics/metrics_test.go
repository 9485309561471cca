package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveClientKey(t *testing.T) {
	before := testutil.ToFloat64(clientKeyAcquisitions.WithLabelValues("cache_hit"))
	ObserveClientKey("cache_hit")
	if got := testutil.ToFloat64(clientKeyAcquisitions.WithLabelValues("cache_hit")); got != before+1 {
		t.Errorf("cache_hit = %v, want %v", got, before+1)
	}

	before = testutil.ToFloat64(clientKeyAcquisitions.WithLabelValues("unknown"))
	ObserveClientKey("")
	if got := testutil.ToFloat64(clientKeyAcquisitions.WithLabelValues("unknown")); got != before+1 {
		t.Errorf("unknown = %v, want %v", got, before+1)
	}
}

func TestObserveHTTPRequest_UnmatchedPath(t *testing.T) {
	counter := httpRequestsTotal.WithLabelValues("GET", "unmatched", "404")
	before := testutil.ToFloat64(counter)

	ObserveHTTPRequest("GET", "", 404, 5*time.Millisecond)

	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("requests = %v, want %v", got, before+1)
	}
}

func TestObserveReply(t *testing.T) {
	before := testutil.ToFloat64(replyRelays.WithLabelValues("fallback"))
	ObserveReply("fallback")
	if got := testutil.ToFloat64(replyRelays.WithLabelValues("fallback")); got != before+1 {
		t.Errorf("fallback = %v, want %v", got, before+1)
	}
}
