// Copyright (c) 2026 Kryspinoff. All rights reserved.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Kryspinoff/bookstore/internal/platform/apperr"
	"github.com/Kryspinoff/bookstore/internal/platform/ctxutil"
	"github.com/Kryspinoff/bookstore/internal/platform/respond"
	"github.com/Kryspinoff/bookstore/internal/platform/sec"
)

// TokenDecoder verifies a compact access token and returns its claims.
//
// # Why an interface?
//
// Defining TokenDecoder here decouples the middleware from [sec.TokenCodec],
// allowing us to easily inject mocks during unit testing.
type TokenDecoder interface {
	Decode(tokenString string) (*sec.AccessClaims, error)
}

// IdentityResolver looks up the account behind a token subject.
//
// The role and active flag come from storage, not from the token, so role
// changes and deactivations take effect immediately.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, username string) (*sec.Identity, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header,
// then resolves the token subject to a stored account.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present but undecodable, abort with HTTP 403.
//  4. Resolve the subject to an account; unknown subjects abort with HTTP 401.
//  5. Inject [*sec.Identity] into the request context for downstream use.
func Authenticate(decoder TokenDecoder, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation & Token Verification ─────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Forbidden("Could not validate credentials"))
				return
			}

			claims, err := decoder.Decode(parts[1])
			if err != nil {
				// The client sees one generic message; the cause (expired vs
				// malformed vs bad signature) goes to the server log.
				ctxutil.GetLogger(request.Context()).Warn("token_rejected",
					slog.String("reason", err.Error()),
				)
				respond.Error(writer, request, apperr.Forbidden("Could not validate credentials"))
				return
			}

			// A token without a role claim is authenticated but powerless.
			if claims.Role == "" {
				respond.Error(writer, request, apperr.Unauthorized("Not enough permissions"))
				return
			}

			// ── 3. Subject Resolution ─────────────────────────────────────────
			identity, err := resolver.ResolveIdentity(request.Context(), claims.Subject)
			if err != nil || identity == nil {
				respond.Error(writer, request, apperr.Unauthorized("User not found"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated or whose account has
// been deactivated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		identity := ctxutil.GetIdentity(request.Context())
		if identity == nil {
			respond.Error(writer, request, apperr.Unauthorized("Not authenticated"))
			return
		}
		if !identity.Active {
			respond.Error(writer, request, apperr.BadRequest("Inactive user"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRoles blocks requests whose account role is not in the allowed set.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically
// implies [RequireAuth] so you don't need to mount both.
//
// Roles form a membership set, not a ladder: an endpoint restricted to
// SUPER_ADMIN rejects ADMIN even though ADMIN outranks USER.
func RequireRoles(allowed ...sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized("Not authenticated"))
				return
			}
			if !identity.Active {
				respond.Error(writer, request, apperr.BadRequest("Inactive user"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			for _, role := range allowed {
				if identity.Role == role {
					next.ServeHTTP(writer, request)
					return
				}
			}
			respond.Error(writer, request, apperr.Unauthorized("Not enough permissions"))
		})
	}
}

// RequireAdmin allows catalog managers: ADMIN and SUPER_ADMIN.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRoles(sec.RoleAdmin, sec.RoleSuperAdmin)(next)
}

// RequireSuperAdmin allows account managers: SUPER_ADMIN only.
func RequireSuperAdmin(next http.Handler) http.Handler {
	return RequireRoles(sec.RoleSuperAdmin)(next)
}
