package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/thiwankabandara/giftonline-backend/api/responses"
	"github.com/thiwankabandara/giftonline-backend/pkg/config"
	pkgerrors "github.com/thiwankabandara/giftonline-backend/pkg/errors"
	"github.com/thiwankabandara/giftonline-backend/pkg/logger"
)

// counterStore is the slice of the redis client the throttle needs.
type counterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// ThrottleRule is one fixed-window budget guarding an auth endpoint.
// Counters are kept per client IP and per submitted email, so one address
// cannot hammer many accounts and one account cannot be hammered from many
// addresses.
type ThrottleRule struct {
	Surface  string
	Window   time.Duration
	PerIP    int
	PerEmail int
}

// LoginThrottle builds the rule for POST /api/auth/login.
func LoginThrottle(cfg config.AuthRateLimitConfig) ThrottleRule {
	return ThrottleRule{
		Surface:  "login",
		Window:   cfg.LoginWindow,
		PerIP:    cfg.LoginIPLimit,
		PerEmail: cfg.LoginEmailLimit,
	}
}

// RegisterThrottle builds the rule for POST /api/auth/register.
func RegisterThrottle(cfg config.AuthRateLimitConfig) ThrottleRule {
	return ThrottleRule{
		Surface:  "register",
		Window:   cfg.RegisterWindow,
		PerIP:    cfg.RegisterIPLimit,
		PerEmail: cfg.RegisterEmailLimit,
	}
}

func (t ThrottleRule) active() bool {
	return t.Window > 0 && (t.PerIP > 0 || t.PerEmail > 0)
}

// throttleCheck pairs a counter scope with its budget.
type throttleCheck struct {
	scope string
	limit int64
}

// Throttle rejects requests over the rule's budgets with 429. An inactive
// rule or a nil store disables the middleware entirely.
func Throttle(rule ThrottleRule, store counterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil || !rule.active() {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			checks, err := rule.checks(r)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
				return
			}

			for _, check := range checks {
				allowed, count, err := store.FixedWindowAllow(ctx, check.scope, check.limit, rule.Window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if allowed {
					continue
				}
				if logg != nil {
					blocked := logg.WithFields(ctx, map[string]any{
						"scope":          check.scope,
						"attempts":       count,
						"limit":          check.limit,
						"window_seconds": int(rule.Window.Seconds()),
					})
					logg.Warn(blocked, "auth.throttle.blocked")
				}
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// checks resolves the counter scopes for one request. Reading the email
// consumes the body, so a replayable copy is put back for the handler.
func (t ThrottleRule) checks(r *http.Request) ([]throttleCheck, error) {
	var checks []throttleCheck

	if t.PerIP > 0 {
		if ip := clientIP(r); ip != "" {
			checks = append(checks, throttleCheck{
				scope: fmt.Sprintf("%s:ip:%s", t.Surface, ip),
				limit: int64(t.PerIP),
			})
		}
	}

	if t.PerEmail > 0 {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		if email := submittedEmail(body); email != "" {
			checks = append(checks, throttleCheck{
				scope: fmt.Sprintf("%s:email:%s", t.Surface, digest(email)),
				limit: int64(t.PerEmail),
			})
		}
	}

	return checks, nil
}

// clientIP prefers proxy headers so counters survive a load balancer hop.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// submittedEmail pulls the email field out of a login or register payload.
func submittedEmail(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(body.Email))
}

// digest keeps raw emails out of counter keys and log lines.
func digest(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
