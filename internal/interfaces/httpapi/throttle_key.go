package httpapi

import (
	"net/http"
	"net/netip"
	"strings"
)

var clientIPHeaders = []string{"Fly-Client-IP", "X-Forwarded-For", "X-Real-IP"}

// clientIPKey keys the admin throttle by caller address. Proxy headers win
// over RemoteAddr since the API sits behind a load balancer.
func clientIPKey(r *http.Request) (string, error) {
	for _, header := range clientIPHeaders {
		if addr, ok := parseClientAddr(r.Header.Get(header)); ok {
			return addr.String(), nil
		}
	}
	if addr, ok := parseClientAddr(r.RemoteAddr); ok {
		return addr.String(), nil
	}
	return "unknown", nil
}

// parseClientAddr takes the first hop of a forwarded list, with or without
// a port.
func parseClientAddr(raw string) (netip.Addr, bool) {
	first, _, _ := strings.Cut(raw, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return netip.Addr{}, false
	}
	if ap, err := netip.ParseAddrPort(first); err == nil {
		return ap.Addr().Unmap(), true
	}
	addr, err := netip.ParseAddr(strings.Trim(first, "[]"))
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}
