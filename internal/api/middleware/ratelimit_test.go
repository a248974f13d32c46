package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenBucketLimitsPerClient(t *testing.T) {
	limiter := NewTokenBucket(3, 3)
	h := limiter.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 3; i++ {
		if code := send("10.0.0.1:1234"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, code)
		}
	}
	if code := send("10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Fatalf("over-limit status = %d, want 429", code)
	}

	// Another client has its own bucket.
	if code := send("10.0.0.2:1234"); code != http.StatusOK {
		t.Fatalf("second client status = %d, want 200", code)
	}
}
