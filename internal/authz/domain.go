// Package authz implements the access decision engine: given the caller's
// identity and the requirement declared on an operation, it decides allow or
// deny. The engine itself is pure and does no I/O.
package authz

// Role names form a small closed set seeded as reference data.
const (
	RoleAdmin  = "ADMIN"
	RoleEditor = "EDITOR"
	RoleReader = "READER"

	// RoleSelf is a pseudo-role: the caller must own the targeted resource.
	// It never appears in stored assignments or token claims.
	RoleSelf = "SELF"
)

// TierRoles are mutually exclusive: a user holds at most one of them at a
// time. ADMIN is granted separately and is not part of the tier.
func TierRoles() []string {
	return []string{RoleReader, RoleEditor}
}

// Requirement is the set of role tokens an operation accepts. An empty
// requirement means the operation is undeclared and access is open.
type Requirement []string

// Contains reports whether the requirement includes the given token.
func (r Requirement) Contains(token string) bool {
	for _, t := range r {
		if t == token {
			return true
		}
	}
	return false
}

// Decision is the outcome of an access evaluation.
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}
