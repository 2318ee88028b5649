package common

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	cases := []struct {
		name       string
		remoteAddr string
		forwarded  string
		realIP     string
		want       string
	}{
		{name: "socket peer", remoteAddr: "192.0.2.10:51234", want: "192.0.2.10"},
		{name: "forwarded single", remoteAddr: "10.0.0.1:80", forwarded: "198.51.100.7", want: "198.51.100.7"},
		{name: "forwarded chain keeps first hop", remoteAddr: "10.0.0.1:80", forwarded: "198.51.100.7, 10.0.0.1", want: "198.51.100.7"},
		{name: "real ip fallback", remoteAddr: "10.0.0.1:80", realIP: "203.0.113.9", want: "203.0.113.9"},
		{name: "unparseable remote addr", remoteAddr: "bad-addr", want: "bad-addr"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if tc.realIP != "" {
				req.Header.Set("X-Real-IP", tc.realIP)
			}
			if got := ClientIP(req); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}

	if got := ClientIP(nil); got != "" {
		t.Fatalf("expected empty for a nil request, got %q", got)
	}
}
