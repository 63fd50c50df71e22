package gateway

import (
	"crypto/subtle"
	"net"
	"os"
	"sync"
	"time"

	"github.com/soyeahso/octomcp/internal/config"
)

// AuthResult is the outcome of an authentication attempt.
type AuthResult struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// ResolvedAuth holds the resolved auth configuration for the gateway.
type ResolvedAuth struct {
	Mode  string
	Token string
}

// ResolveAuth resolves authentication credentials from config and environment.
// Precedence: config value → env variable → empty.
func ResolveAuth(cfg config.GatewayAuth) ResolvedAuth {
	auth := ResolvedAuth{Mode: cfg.Mode, Token: cfg.Token}
	if auth.Token == "" {
		auth.Token = os.Getenv("OCTOMCP_GATEWAY_TOKEN")
	}
	if auth.Mode == "" {
		auth.Mode = "token"
	}
	return auth
}

// Authorize checks a presented bearer token against the resolved server auth.
func Authorize(serverAuth ResolvedAuth, token string) AuthResult {
	switch serverAuth.Mode {
	case "none":
		return AuthResult{OK: true}
	case "token":
		if serverAuth.Token == "" {
			return AuthResult{OK: false, Reason: "server token not configured"}
		}
		if token == "" {
			return AuthResult{OK: false, Reason: "token required"}
		}
		if !safeEqual(token, serverAuth.Token) {
			return AuthResult{OK: false, Reason: "token_mismatch"}
		}
		return AuthResult{OK: true}
	default:
		return AuthResult{OK: false, Reason: "unknown auth mode: " + serverAuth.Mode}
	}
}

// safeEqual performs a constant-time string comparison to prevent timing attacks.
// It avoids early-return on length mismatch to prevent leaking secret length via timing.
func safeEqual(a, b string) bool {
	lenMatch := subtle.ConstantTimeEq(int32(len(a)), int32(len(b)))
	// ConstantTimeCompare returns 0 for different lengths, but we check
	// length separately with ConstantTimeEq to avoid leaking length info.
	cmp := subtle.ConstantTimeCompare([]byte(a), []byte(b))
	return subtle.ConstantTimeSelect(lenMatch, cmp, 0) == 1
}

// authRateLimiter tracks failed auth attempts per IP to prevent brute-force attacks.
type authRateLimiter struct {
	mu       sync.Mutex
	failures map[string][]time.Time
}

const (
	authRateWindow   = 5 * time.Minute
	authRateMaxFails = 10
	authRateMaxIPs   = 10000 // max tracked IPs to prevent memory exhaustion
)

func newAuthRateLimiter() *authRateLimiter {
	rl := &authRateLimiter{failures: make(map[string][]time.Time)}
	go rl.periodicCleanup()
	return rl
}

// periodicCleanup removes stale entries every minute.
func (l *authRateLimiter) periodicCleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		cutoff := time.Now().Add(-authRateWindow)
		for ip, times := range l.failures {
			filtered := times[:0]
			for _, t := range times {
				if t.After(cutoff) {
					filtered = append(filtered, t)
				}
			}
			if len(filtered) == 0 {
				delete(l.failures, ip)
			} else {
				l.failures[ip] = filtered
			}
		}
		l.mu.Unlock()
	}
}

func (l *authRateLimiter) allow(remoteAddr string) bool {
	host, _, _ := net.SplitHostPort(remoteAddr)
	if host == "" {
		host = remoteAddr
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-authRateWindow)
	recent := l.failures[host]
	filtered := recent[:0]
	for _, t := range recent {
		if t.After(cutoff) {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == 0 {
		delete(l.failures, host)
		return true
	}
	l.failures[host] = filtered
	return len(filtered) < authRateMaxFails
}

func (l *authRateLimiter) recordFailure(remoteAddr string) {
	host, _, _ := net.SplitHostPort(remoteAddr)
	if host == "" {
		host = remoteAddr
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// cap tracked IPs so a flood cannot exhaust memory
	if _, exists := l.failures[host]; !exists && len(l.failures) >= authRateMaxIPs {
		var oldestIP string
		var oldestTime time.Time
		for ip, times := range l.failures {
			if len(times) > 0 && (oldestIP == "" || times[0].Before(oldestTime)) {
				oldestIP = ip
				oldestTime = times[0]
			}
		}
		if oldestIP != "" {
			delete(l.failures, oldestIP)
		}
	}

	l.failures[host] = append(l.failures[host], time.Now())
}
