// Package ratelimit throttles sensitive endpoints per client IP.
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"time"
)

// Purposes keep counters for different endpoints apart.
const (
	PurposeRegister = "register"
	PurposeLogin    = "login"
)

// Limiter records a request and reports whether it stays within the limit.
type Limiter interface {
	Allow(ctx context.Context, ip, purpose string) (bool, error)
}

// Config bounds the number of requests per window.
type Config struct {
	Requests int
	Window   time.Duration
}

func key(ip, purpose string) string {
	return "ratelimit:" + purpose + ":" + ip
}

// ClientIP returns the host part of r.RemoteAddr. Forwarding headers are
// not read here; when the API sits behind a proxy, chi's RealIP middleware
// rewrites RemoteAddr before this runs.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
