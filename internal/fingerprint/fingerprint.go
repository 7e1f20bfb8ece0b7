// Package fingerprint derives device and network identifiers from a request.
package fingerprint

import (
	"net"
	"net/http"
	"strings"
)

// Unknown is the recorded value when a fingerprint cannot be determined.
const Unknown = "Unknown"

// FromRequest returns the visitor's device (user agent) and IP strings.
// Either falls back to Unknown when it cannot be derived; fingerprinting
// never fails a request.
func FromRequest(r *http.Request) (device, ip string) {
	device = strings.TrimSpace(r.UserAgent())
	if device == "" {
		device = Unknown
	}

	ip = remoteIP(r)
	if ip == "" {
		ip = Unknown
	}
	return device, ip
}

// remoteIP returns a normalized remote IP. RemoteAddr is rewritten by the
// RealIP middleware upstream, so forwarded headers are already applied.
func remoteIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if addr == "" {
		return ""
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
