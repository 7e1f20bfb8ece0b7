package fingerprint

import (
	"net/http/httptest"
	"testing"
)

func TestFromRequest(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "/api/intake", nil)
	r.Header.Set("User-Agent", "agent/1.0")
	r.RemoteAddr = "203.0.113.9:51234"

	device, ip := FromRequest(r)
	if device != "agent/1.0" {
		t.Errorf("device: got %q", device)
	}
	if ip != "203.0.113.9" {
		t.Errorf("ip: got %q", ip)
	}
}

func TestFromRequestDefaultsToUnknown(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "/api/intake", nil)
	r.Header.Del("User-Agent")
	r.RemoteAddr = ""

	device, ip := FromRequest(r)
	if device != Unknown {
		t.Errorf("device: got %q, want Unknown", device)
	}
	if ip != Unknown {
		t.Errorf("ip: got %q, want Unknown", ip)
	}
}

func TestFromRequestKeepsBareAddress(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "/", nil)
	r.RemoteAddr = "203.0.113.9" // RealIP middleware strips the port upstream

	_, ip := FromRequest(r)
	if ip != "203.0.113.9" {
		t.Errorf("ip: got %q", ip)
	}
}
