// Copyright (c) 2026 Kryspinoff. All rights reserved.

/*
Package sec provides the security primitives of the bookstore API: password
hashing, JWT access tokens, and the role model.

Architecture:

  - Hashing: bcrypt with a configurable cost, constant-time verification.
  - Tokens: HMAC-signed JWTs carrying the username as subject plus a role claim.
  - Roles: a flat three-tier hierarchy (USER, ADMIN, SUPER_ADMIN).

Nothing in this package touches storage; callers resolve subjects to accounts.
*/
package sec

// Role is the authorization tier attached to an account and embedded in
// access tokens.
type Role string

const (
	// RoleUser is the default tier granted at registration.
	RoleUser Role = "USER"

	// RoleAdmin manages the catalog: books, authors, genres, orders.
	RoleAdmin Role = "ADMIN"

	// RoleSuperAdmin additionally manages accounts and role assignment.
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsAdmin reports whether r grants catalog management rights.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// IsSuperAdmin reports whether r grants account management rights.
func (r Role) IsSuperAdmin() bool {
	return r == RoleSuperAdmin
}

// String implements [fmt.Stringer].
func (r Role) String() string { return string(r) }

// Identity is the resolved caller attached to a request context after the
// access token has been decoded and its subject looked up.
type Identity struct {
	// AccountID is the account's UUID in string form.
	AccountID string
	// Username is the token subject.
	Username string
	// Role is the account's current role, read from storage rather than the
	// token so demotions take effect before the token expires.
	Role Role
	// Active mirrors the account's is_active flag at resolution time.
	Active bool
}
