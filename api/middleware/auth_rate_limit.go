package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/quadworks/storefront/api/responses"
	pkgerrors "github.com/quadworks/storefront/pkg/errors"
	"github.com/quadworks/storefront/pkg/logger"
)

type rateLimitStore interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	RateLimitKey(scope, subject string) string
}

// AuthRateLimitPolicy defines the fixed-window throttle for one auth surface.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

// NewAuthRateLimitPolicy builds a policy with the supplied window and limits.
func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	return AuthRateLimitPolicy{
		name:       strings.ToLower(strings.TrimSpace(name)),
		window:     window,
		ipLimit:    ipLimit,
		emailLimit: emailLimit,
	}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

func (p AuthRateLimitPolicy) scope(kind string) string {
	name := p.name
	if name == "" {
		name = "auth"
	}
	return name + ":" + kind
}

// AuthRateLimit enforces per-IP and per-email counters for auth endpoints.
// The email is read from the JSON body and hashed before it becomes a key.
func AuthRateLimit(policy AuthRateLimitPolicy, store rateLimitStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if policy.ipLimit > 0 {
				if ip := clientIP(r); ip != "" {
					key := store.RateLimitKey(policy.scope("ip"), ip)
					count, err := store.Incr(ctx, key, policy.window)
					if err != nil {
						responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					}
					if count > int64(policy.ipLimit) {
						respondRateLimited(ctx, logg, w, policy, "ip", count)
						return
					}
				}
			}

			if policy.emailLimit > 0 {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				if email := normalizeEmail(extractEmail(body)); email != "" {
					key := store.RateLimitKey(policy.scope("email"), hashValue(email))
					count, err := store.Incr(ctx, key, policy.window)
					if err != nil {
						responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					}
					if count > int64(policy.emailLimit) {
						respondRateLimited(ctx, logg, w, policy, "email", count)
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func respondRateLimited(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy AuthRateLimitPolicy, scope string, count int64) {
	if logg != nil {
		fields := map[string]any{
			"scope":          scope,
			"policy":         policy.name,
			"attempts":       count,
			"window_seconds": int(policy.window.Seconds()),
		}
		logg.Warn(logg.WithFields(ctx, fields), "auth.rate_limit.blocked")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimited, "rate limit exceeded"))
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func extractEmail(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return body.Email
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
