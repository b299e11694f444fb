package shared

import "context"

// Identity is the authenticated caller reconstructed from a bearer token.
// Roles are the snapshot taken at token issuance, not the live assignments.
type Identity struct {
	SubjectID int64
	Email     string
	Roles     []string
}

// HasRole reports whether the identity holds the named role.
func (i *Identity) HasRole(role string) bool {
	if i == nil {
		return false
	}
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type identityContextKey struct{}

// ContextWithIdentity stores the identity in context.
func ContextWithIdentity(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, ident)
}

// IdentityFromContext extracts the identity from context. Nil means the
// request carried no valid bearer token.
func IdentityFromContext(ctx context.Context) *Identity {
	ident, _ := ctx.Value(identityContextKey{}).(*Identity)
	return ident
}
