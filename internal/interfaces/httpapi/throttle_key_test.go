package httpapi

import (
	"net/http/httptest"
	"testing"
)

func TestClientIPKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "fly header first", headers: map[string]string{"Fly-Client-IP": "203.0.113.9", "X-Forwarded-For": "198.51.100.1"}, want: "203.0.113.9"},
		{name: "first forwarded hop", headers: map[string]string{"X-Forwarded-For": " 198.51.100.7, 10.0.0.1"}, want: "198.51.100.7"},
		{name: "garbage header falls through", headers: map[string]string{"X-Real-IP": "not-an-ip"}, remote: "192.0.2.4:5123", want: "192.0.2.4"},
		{name: "ipv6 remote with port", remote: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "mapped ipv4", headers: map[string]string{"X-Real-IP": "::ffff:192.0.2.10"}, want: "192.0.2.10"},
		{name: "nothing usable", remote: "pipe", want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest("GET", "/v1/admin/sources", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			got, err := clientIPKey(req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("clientIPKey=%q want=%q", got, tt.want)
			}
		})
	}
}
