package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientIPExtractor(t *testing.T) {
	tests := []struct {
		name         string
		trusted      []string
		remoteAddr   string
		forwardedFor string
		realIP       string
		want         string
	}{
		{"direct peer", nil, "203.0.113.7:4000", "", "", "203.0.113.7"},
		{"spoofed xff ignored", nil, "203.0.113.7:4000", "198.51.100.9", "", "203.0.113.7"},
		{"spoofed x-real-ip ignored", nil, "203.0.113.7:4000", "", "198.51.100.9", "203.0.113.7"},
		{"trusted proxy hop", []string{"10.0.0.0/8"}, "10.0.0.5:4000", "198.51.100.9", "", "198.51.100.9"},
		{"untrusted peer with xff", []string{"10.0.0.0/8"}, "203.0.113.7:4000", "198.51.100.9", "", "203.0.113.7"},
		{"private peer not trusted by default", []string{"10.0.0.0/8"}, "192.168.1.5:4000", "198.51.100.9", "", "192.168.1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extract, err := ClientIPExtractor(tt.trusted)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwardedFor != "" {
				req.Header.Set(echo.HeaderXForwardedFor, tt.forwardedFor)
			}
			if tt.realIP != "" {
				req.Header.Set(echo.HeaderXRealIP, tt.realIP)
			}
			assert.Equal(t, tt.want, extract(req))
		})
	}
}

func TestClientIPExtractor_InvalidCIDR(t *testing.T) {
	_, err := ClientIPExtractor([]string{"10.0.0.0/33"})
	assert.Error(t, err)
}
