package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{"forwarded single", "203.0.113.9", "", "10.0.0.1:443", "203.0.113.9"},
		{"forwarded list takes first", "203.0.113.9, 10.0.0.2", "", "10.0.0.1:443", "203.0.113.9"},
		{"real ip fallback", "", "203.0.113.7", "10.0.0.1:443", "203.0.113.7"},
		{"remote addr fallback", "", "", "192.168.1.5:52001", "192.168.1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/orders", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			assert.Equal(t, tt.want, GetClientIP(r))
		})
	}
}

func TestShouldSkipLogging(t *testing.T) {
	assert.True(t, shouldSkipLogging("/health"))
	assert.True(t, shouldSkipLogging("/health/ready"))
	assert.True(t, shouldSkipLogging("/metrics"))
	assert.False(t, shouldSkipLogging("/api/orders"))
}

func TestSanitizePath(t *testing.T) {
	assert.Equal(t, "/api/orders", sanitizePath("/api/orders?token=secret"))
}
