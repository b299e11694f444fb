package authz

import "github.com/folio-cms/folio/internal/shared"

// ownerUnknown marks requests where no resource owner could be resolved.
const ownerUnknown int64 = 0

// Decide evaluates the declared requirement against the caller's identity and
// the owner of the targeted resource. First match wins:
//
//  1. ADMIN in the identity roles allows unconditionally, whatever the
//     requirement contains.
//  2. A SELF requirement allows when the resolved owner equals the subject.
//  3. Any remaining requirement token intersecting the identity roles allows.
//  4. Everything else denies.
//
// An empty requirement allows: operations that declare nothing are open.
// Callers must reject unauthenticated requests before invoking Decide.
func Decide(req Requirement, ident *shared.Identity, ownerID int64) Decision {
	if len(req) == 0 {
		return Allow
	}
	if ident == nil {
		return Deny
	}

	if ident.HasRole(RoleAdmin) {
		return Allow
	}

	if req.Contains(RoleSelf) && ownerID != ownerUnknown && ownerID == ident.SubjectID {
		return Allow
	}

	for _, t := range req {
		if t == RoleSelf {
			continue
		}
		if ident.HasRole(t) {
			return Allow
		}
	}
	return Deny
}
