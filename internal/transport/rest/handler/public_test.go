package handler

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		realIP     string
		want       string
	}{
		{
			name:       "remote addr host only",
			remoteAddr: "203.0.113.7:51234",
			want:       "203.0.113.7",
		},
		{
			name:       "forwarded-for wins",
			remoteAddr: "10.0.0.1:80",
			forwarded:  "198.51.100.2, 10.0.0.1",
			want:       "198.51.100.2",
		},
		{
			name:       "real-ip as fallback",
			remoteAddr: "10.0.0.1:80",
			realIP:     "198.51.100.3",
			want:       "198.51.100.3",
		},
		{
			name:       "unparseable remote addr passed through",
			remoteAddr: "not-an-addr",
			want:       "not-an-addr",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/v1/surveys/s/x/answers", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}

			if got := clientIP(r); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
