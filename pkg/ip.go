package pkg

import (
	"net"
	"net/http"
	"strings"
)

// ReadUserIP returns the client address of the request, preferring the
// headers set by the reverse proxy in front of the service.
func ReadUserIP(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("X-Real-Ip")); ip != "" {
		return ip
	}

	// X-Forwarded-For: client, proxy1, proxy2
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if ip := strings.TrimSpace(strings.Split(forwarded, ",")[0]); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
