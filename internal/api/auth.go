// Package api implements HTTP handlers and helpers for the load planning service.
package api

import (
	"net/http"
	"strings"

	"loadplan/internal/auth"
)

type Principal = auth.Principal

// getPrincipal returns the principal stored by the authenticate middleware.
// Handlers invoked outside Routes authenticate on the spot; a failure yields
// a principal without tenant or role.
func (s *Server) getPrincipal(r *http.Request) Principal {
	if p, ok := auth.FromContext(r.Context()); ok {
		return p
	}
	p, _ := s.Auth.Authenticate(r)
	return p
}

// authenticate rejects /v1 requests whose caller cannot be resolved.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v1/") {
			next.ServeHTTP(w, r)
			return
		}
		p, err := s.Auth.Authenticate(r)
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error(), r.URL.Path)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
	})
}
