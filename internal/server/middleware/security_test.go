package middleware

import (
	"bytes"
	"crypto/tls"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurityHeaders_Baseline(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mw := SecurityHeaders(SecurityHeadersConfig{})(handler)

	req := httptest.NewRequest("GET", "/mcp", nil)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "1; mode=block", rec.Header().Get("X-XSS-Protection"))
	assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'self'")
	assert.Contains(t, rec.Header().Get("Permissions-Policy"), "geolocation=()")
}

func TestSecurityHeaders_HSTS(t *testing.T) {
	tests := []struct {
		name       string
		enableHSTS bool
		withTLS    bool
		wantHSTS   bool
	}{
		{
			name:     "plain HTTP without flag",
			wantHSTS: false,
		},
		{
			name:       "plain HTTP behind TLS-terminating proxy",
			enableHSTS: true,
			wantHSTS:   true,
		},
		{
			name:     "direct TLS connection",
			withTLS:  true,
			wantHSTS: true,
		},
		{
			name:       "TLS and flag together",
			enableHSTS: true,
			withTLS:    true,
			wantHSTS:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			mw := SecurityHeaders(SecurityHeadersConfig{EnableHSTS: tt.enableHSTS})(handler)

			req := httptest.NewRequest("GET", "/mcp", nil)
			if tt.withTLS {
				req.TLS = &tls.ConnectionState{}
			}
			rec := httptest.NewRecorder()
			mw.ServeHTTP(rec, req)

			hsts := rec.Header().Get("Strict-Transport-Security")
			if tt.wantHSTS {
				assert.Contains(t, hsts, "max-age=31536000")
			} else {
				assert.Empty(t, hsts)
			}
		})
	}
}

func TestSecurityHeaders_CrossOriginIsolation(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("disabled by default for browser clients", func(t *testing.T) {
		mw := SecurityHeaders(SecurityHeadersConfig{})(handler)

		req := httptest.NewRequest("GET", "/mcp", nil)
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Cross-Origin-Opener-Policy"))
		assert.Empty(t, rec.Header().Get("Cross-Origin-Embedder-Policy"))
		assert.Empty(t, rec.Header().Get("Cross-Origin-Resource-Policy"))
	})

	t.Run("strict policies when enabled", func(t *testing.T) {
		mw := SecurityHeaders(SecurityHeadersConfig{EnableCrossOriginIsolation: true})(handler)

		req := httptest.NewRequest("GET", "/mcp", nil)
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)

		assert.Equal(t, "same-origin", rec.Header().Get("Cross-Origin-Opener-Policy"))
		assert.Equal(t, "require-corp", rec.Header().Get("Cross-Origin-Embedder-Policy"))
		assert.Equal(t, "same-origin", rec.Header().Get("Cross-Origin-Resource-Policy"))
	})
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name           string
		allowedOrigins []string
		requestOrigin  string
		method         string
		wantAllowed    bool
		wantStatus     int
	}{
		{
			name:           "allowed origin echoed back",
			allowedOrigins: []string{"https://example.com"},
			requestOrigin:  "https://example.com",
			method:         "GET",
			wantAllowed:    true,
			wantStatus:     http.StatusOK,
		},
		{
			name:           "unknown origin gets no allow header",
			allowedOrigins: []string{"https://example.com"},
			requestOrigin:  "https://evil.com",
			method:         "GET",
			wantAllowed:    false,
			wantStatus:     http.StatusOK,
		},
		{
			name:           "request without origin header",
			allowedOrigins: []string{"https://example.com"},
			method:         "GET",
			wantAllowed:    false,
			wantStatus:     http.StatusOK,
		},
		{
			name:           "empty allow list disables echo",
			allowedOrigins: []string{},
			requestOrigin:  "https://example.com",
			method:         "GET",
			wantAllowed:    false,
			wantStatus:     http.StatusOK,
		},
		{
			name:           "preflight short-circuits with 204",
			allowedOrigins: []string{"https://example.com"},
			requestOrigin:  "https://example.com",
			method:         "OPTIONS",
			wantAllowed:    true,
			wantStatus:     http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var handlerCalled bool
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			mw := CORS(tt.allowedOrigins)(handler)

			req := httptest.NewRequest(tt.method, "/mcp", nil)
			if tt.requestOrigin != "" {
				req.Header.Set("Origin", tt.requestOrigin)
			}
			rec := httptest.NewRecorder()
			mw.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, "Authorization, Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
			assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))

			if tt.wantAllowed {
				assert.Equal(t, tt.requestOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
				assert.Equal(t, "Origin", rec.Header().Get("Vary"))
			} else {
				assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
			}

			if tt.method == "OPTIONS" {
				assert.False(t, handlerCalled, "preflight must not reach the handler")
			}
		})
	}
}

func TestValidateAllowedOrigins(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      []string
		wantError bool
	}{
		{
			name:  "empty input yields nil",
			input: "",
			want:  nil,
		},
		{
			name:  "single origin",
			input: "https://example.com",
			want:  []string{"https://example.com"},
		},
		{
			name:  "multiple origins",
			input: "https://example.com,http://localhost:8080",
			want:  []string{"https://example.com", "http://localhost:8080"},
		},
		{
			name:  "trailing slash normalized",
			input: "https://example.com/",
			want:  []string{"https://example.com"},
		},
		{
			name:  "surrounding whitespace trimmed",
			input: " https://example.com , https://another.com ",
			want:  []string{"https://example.com", "https://another.com"},
		},
		{
			name:      "bare hostname rejected",
			input:     "example.com",
			wantError: true,
		},
		{
			name:      "non-http scheme rejected",
			input:     "ftp://example.com",
			wantError: true,
		},
		{
			name:      "origin with path rejected",
			input:     "https://example.com/path",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateAllowedOrigins(tt.input)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMaxRequestSize(t *testing.T) {
	tests := []struct {
		name      string
		maxBytes  int64
		bodySize  int
		wantError bool
	}{
		{
			name:     "body under the limit",
			maxBytes: 1024,
			bodySize: 100,
		},
		{
			name:     "body exactly at the limit",
			maxBytes: 1024,
			bodySize: 1024,
		},
		{
			name:      "body over the limit",
			maxBytes:  1024,
			bodySize:  2048,
			wantError: true,
		},
		{
			name:     "zero disables the limit",
			maxBytes: 0,
			bodySize: 10000,
		},
		{
			name:     "negative disables the limit",
			maxBytes: -1,
			bodySize: 10000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var readErr error
			var bytesRead int
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, err := io.ReadAll(r.Body)
				readErr = err
				if err != nil {
					w.WriteHeader(http.StatusRequestEntityTooLarge)
					return
				}
				bytesRead = len(body)
				w.WriteHeader(http.StatusOK)
			})

			mw := MaxRequestSize(tt.maxBytes)(handler)

			body := strings.Repeat("a", tt.bodySize)
			req := httptest.NewRequest("POST", "/mcp", bytes.NewBufferString(body))
			rec := httptest.NewRecorder()
			mw.ServeHTTP(rec, req)

			if tt.wantError {
				assert.Error(t, readErr)
				assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
			} else {
				assert.NoError(t, readErr)
				assert.Equal(t, tt.bodySize, bytesRead)
				assert.Equal(t, http.StatusOK, rec.Code)
			}
		})
	}
}

func TestMaxRequestSize_ChunkedBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	mw := MaxRequestSize(100)(handler)

	// No Content-Length, as with chunked transfer encoding. The limit must
	// still trip during the read.
	body := strings.Repeat("a", 200)
	req := httptest.NewRequest("POST", "/mcp", bytes.NewBufferString(body))
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
