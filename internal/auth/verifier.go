// Package auth resolves the calling tenant and role of an API request.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

var ErrUnauthenticated = errors.New("unauthenticated")

type Principal struct {
	Tenant string
	Role   string // admin, dispatcher, viewer
}

// IsAdmin reports whether the principal has the admin role.
func (p Principal) IsAdmin() bool { return p.Role == "admin" }

// CanPlan reports whether the principal may import loads and run solves.
func (p Principal) CanPlan() bool { return p.IsAdmin() || p.Role == "dispatcher" }

// Verifier authenticates requests. Modes:
//
//	headers  trust X-Tenant-Id / X-Role set by a gateway (default)
//	dev      bearer token "tenant:role", no signature
//	hmac     HS256 JWT signed with HMACSecret
type Verifier struct {
	Mode          string
	HMACSecret    []byte
	TenantClaim   string
	RoleClaim     string
	DefaultTenant string
	DefaultRole   string
}

func NewVerifierFromEnv() *Verifier {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv("AUTH_MODE")))
	if mode == "" {
		mode = "headers"
	}
	return &Verifier{
		Mode:          mode,
		HMACSecret:    []byte(os.Getenv("AUTH_HMAC_SECRET")),
		TenantClaim:   envOr("AUTH_TENANT_CLAIM", "tenant"),
		RoleClaim:     envOr("AUTH_ROLE_CLAIM", "role"),
		DefaultTenant: "t_demo",
		DefaultRole:   "admin",
	}
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// Authenticate resolves the principal of r according to the verifier mode.
// Browsers cannot set headers on websocket upgrades, so a token may also be
// passed as ?access_token=.
func (v *Verifier) Authenticate(r *http.Request) (Principal, error) {
	if v.Mode == "headers" {
		tenant := strings.TrimSpace(r.Header.Get("X-Tenant-Id"))
		role := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Role")))
		if tenant == "" {
			tenant = v.DefaultTenant
		}
		if role == "" {
			role = v.DefaultRole
		}
		if tenant == "" {
			return Principal{}, fmt.Errorf("missing X-Tenant-Id: %w", ErrUnauthenticated)
		}
		return Principal{Tenant: tenant, Role: role}, nil
	}
	token := strings.TrimSpace(r.URL.Query().Get("access_token"))
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, rest, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return Principal{}, fmt.Errorf("authorization scheme must be Bearer: %w", ErrUnauthenticated)
		}
		token = strings.TrimSpace(rest)
	}
	if token == "" {
		return Principal{}, fmt.Errorf("missing bearer token: %w", ErrUnauthenticated)
	}
	return v.Verify(token)
}

// Verify checks a bearer token and extracts the principal.
func (v *Verifier) Verify(token string) (Principal, error) {
	switch v.Mode {
	case "dev":
		tenant, role, ok := strings.Cut(token, ":")
		if !ok || tenant == "" || role == "" {
			return Principal{}, fmt.Errorf("invalid dev token; expected tenant:role: %w", ErrUnauthenticated)
		}
		return Principal{Tenant: tenant, Role: strings.ToLower(role)}, nil
	case "hmac":
		if len(v.HMACSecret) == 0 {
			return Principal{}, fmt.Errorf("AUTH_HMAC_SECRET not set: %w", ErrUnauthenticated)
		}
		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok || t.Method.Alg() != "HS256" {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return v.HMACSecret, nil
		})
		if err != nil {
			return Principal{}, fmt.Errorf("%v: %w", err, ErrUnauthenticated)
		}
		tenant, _ := claims[v.TenantClaim].(string)
		role, _ := claims[v.RoleClaim].(string)
		if tenant == "" {
			return Principal{}, fmt.Errorf("missing %s claim: %w", v.TenantClaim, ErrUnauthenticated)
		}
		if role == "" {
			role = "viewer"
		}
		return Principal{Tenant: tenant, Role: strings.ToLower(role)}, nil
	}
	return Principal{}, fmt.Errorf("unsupported auth mode %q: %w", v.Mode, ErrUnauthenticated)
}

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}
