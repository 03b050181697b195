package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/roleplay/roleplay-go/internal/service"
)

type stubAuthenticator struct {
	identity service.Identity
	err      error
	gotToken string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (service.Identity, error) {
	s.gotToken = token
	return s.identity, s.err
}

func TestBearerAuth(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		authErr    error
		wantStatus int
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "rejected token", header: "Bearer abc", authErr: service.ErrUnauthorized, wantStatus: http.StatusUnauthorized},
		{name: "store failure", header: "Bearer abc", authErr: errors.New("db down"), wantStatus: http.StatusUnauthorized},
		{name: "valid", header: "Bearer abc", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &stubAuthenticator{identity: service.Identity{UserID: 7, TokenID: "jti"}, err: tt.authErr}

			var gotUser int64
			var gotToken string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser, _ = UserIDFromContext(r.Context())
				gotToken, _ = TokenIDFromContext(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/groups", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			BearerAuth(auth)(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if gotUser != 7 || gotToken != "jti" || auth.gotToken != "abc" {
					t.Errorf("context not populated: user=%d token=%q", gotUser, gotToken)
				}
				return
			}

			var body map[string]any
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["code"] != "UNAUTHORIZED" || body["status"] != float64(401) {
				t.Errorf("unexpected body: %v", body)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := RateLimit(ctx, 1, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}

	req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("other ip status = %d, want 200", rec.Code)
	}
}

func TestRealIP(t *testing.T) {
	trusted := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}

	tests := []struct {
		name    string
		trusted []netip.Prefix
		remote  string
		xff     string
		xrip    string
		want    string
	}{
		{name: "no trusted proxies", remote: "203.0.113.9:5000", xff: "198.51.100.1", want: "203.0.113.9:5000"},
		{name: "untrusted peer", trusted: trusted, remote: "203.0.113.9:5000", xff: "198.51.100.1", want: "203.0.113.9:5000"},
		{name: "trusted peer", trusted: trusted, remote: "10.1.2.3:5000", xff: "198.51.100.1", want: "198.51.100.1"},
		{name: "spoofed leftmost hop", trusted: trusted, remote: "10.1.2.3:5000", xff: "1.1.1.1, 198.51.100.1, 10.9.9.9", want: "198.51.100.1"},
		{name: "x-real-ip", trusted: trusted, remote: "10.1.2.3:5000", xrip: "198.51.100.2", want: "198.51.100.2"},
		{name: "garbage header", trusted: trusted, remote: "10.1.2.3:5000", xff: "not-an-ip", want: "10.1.2.3:5000"},
		{name: "only proxies", trusted: trusted, remote: "10.1.2.3:5000", xff: "10.0.0.5", want: "10.1.2.3:5000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := RealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xrip != "" {
				req.Header.Set("X-Real-IP", tt.xrip)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiterEvict(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := newIPRateLimiter(ctx, 1, 1)
	rl.getLimiter("a")
	rl.evict(time.Now().Add(11 * time.Minute))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if len(rl.visitors) != 0 {
		t.Errorf("visitors = %d, want 0", len(rl.visitors))
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	orig := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(orig) })

	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("hi"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	line := buf.String()
	for _, want := range []string{"method=GET", "path=/health", "status=418", "bytes=2"} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q missing %q", line, want)
		}
	}
}
