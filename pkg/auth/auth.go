// Package auth resolves API callers from static bearer tokens.
//
// Two roles exist. An admin may save and regenerate hotspot sets; an editor
// may preview generated layouts. Tokens come from configuration, and an
// empty token disables its role.
package auth

import (
	"context"
	"crypto/subtle"
	"net/http"
	"regexp"
	"strings"
)

// Role is a caller's permission level.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// User is an authenticated caller.
type User struct {
	Role Role `json:"role"`
}

// IsAdmin reports whether u may write.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// CanPreview reports whether u may run previews.
func (u *User) CanPreview() bool {
	return u != nil && (u.Role == RoleAdmin || u.Role == RoleEditor)
}

// Authenticator matches bearer tokens against the configured secrets.
type Authenticator struct {
	AdminToken  string
	EditorToken string
}

var bearerRe = regexp.MustCompile(`^Bearer\s+(.+)$`)

// FromRequest returns the caller behind r's Authorization header, or nil
// for anonymous and unknown tokens.
func (a *Authenticator) FromRequest(r *http.Request) *User {
	m := bearerRe.FindStringSubmatch(r.Header.Get("Authorization"))
	if m == nil {
		return nil
	}
	return a.Lookup(strings.TrimSpace(m[1]))
}

// Lookup resolves a raw token. The admin token is checked first.
func (a *Authenticator) Lookup(token string) *User {
	if token == "" {
		return nil
	}
	if tokenEqual(a.AdminToken, token) {
		return &User{Role: RoleAdmin}
	}
	if tokenEqual(a.EditorToken, token) {
		return &User{Role: RoleEditor}
	}
	return nil
}

// tokenEqual compares in constant time. An unset secret never matches.
func tokenEqual(secret, token string) bool {
	if secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(token)) == 1
}

// Middleware attaches the caller, if any, to the request context.
// It never rejects a request; handlers decide with [UserFromContext].
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := a.FromRequest(r); u != nil {
			r = r.WithContext(WithUser(r.Context(), u))
		}
		next.ServeHTTP(w, r)
	})
}

type userKey struct{}

// WithUser returns a context carrying u.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext returns the caller stored by [Authenticator.Middleware],
// or nil.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userKey{}).(*User)
	return u
}
