package retry

import (
	"errors"
	"net"
	"strings"
	"syscall"
)

// Transient marks an error as safe to retry, carrying the HTTP status that
// produced it when one applies.
type Transient struct {
	Err    error
	Status int
}

func (e *Transient) Error() string { return e.Err.Error() }

func (e *Transient) Unwrap() error { return e.Err }

// MarkTransient wraps an error as retryable. Status may be zero for
// non-HTTP failures.
func MarkTransient(err error, status int) *Transient {
	return &Transient{Err: err, Status: status}
}

// transientPatterns catches network failures that reach us as plain strings
// after the HTTP client has wrapped them.
var transientPatterns = []string{
	"connection reset by peer",
	"broken pipe",
	"temporary failure in name resolution",
	"no such host",
	"tls handshake timeout",
	"i/o timeout",
	"server closed idle connection",
	"transport connection broken",
}

// IsTransient reports whether an error is worth retrying: an explicit
// Transient anywhere in its chain, a network timeout, or a connection-level
// failure.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var te *Transient
	if errors.As(err, &te) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, p := range transientPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// RetryableStatus reports whether an HTTP status indicates a server-side
// condition that may clear on its own. The Census API returns 429 when a
// caller outruns its key's quota.
func RetryableStatus(status int) bool {
	switch status {
	case 408, 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
