package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/folio-cms/folio/internal/shared"
	_ "github.com/folio-cms/folio/testing"
)

func ident(subject int64, roles ...string) *shared.Identity {
	return &shared.Identity{SubjectID: subject, Email: "user@test.local", Roles: roles}
}

func TestDecideOpenByDefault(t *testing.T) {
	assert.Equal(t, Allow, Decide(nil, nil, 0))
	assert.Equal(t, Allow, Decide(Requirement{}, nil, 0))
	assert.Equal(t, Allow, Decide(nil, ident(1, RoleReader), 0))
}

func TestDecideNilIdentityDenied(t *testing.T) {
	assert.Equal(t, Deny, Decide(Requirement{RoleReader}, nil, 0))
	assert.Equal(t, Deny, Decide(Requirement{RoleSelf}, nil, 7))
}

func TestDecideAdminOverride(t *testing.T) {
	admin := ident(1, RoleAdmin)

	cases := []Requirement{
		{RoleAdmin},
		{RoleEditor},
		{RoleReader},
		{RoleSelf},
		{RoleSelf, RoleEditor},
	}
	for _, req := range cases {
		assert.Equalf(t, Allow, Decide(req, admin, 0), "requirement %v", req)
	}
}

func TestDecideSelfMatch(t *testing.T) {
	caller := ident(42, RoleReader)

	assert.Equal(t, Allow, Decide(Requirement{RoleSelf}, caller, 42))
	assert.Equal(t, Deny, Decide(Requirement{RoleSelf}, caller, 43))
	// Unknown owner never satisfies SELF, even for subject zero.
	assert.Equal(t, Deny, Decide(Requirement{RoleSelf}, &shared.Identity{SubjectID: 0}, 0))
}

func TestDecideRoleIntersection(t *testing.T) {
	editor := ident(5, RoleEditor)
	reader := ident(6, RoleReader)

	req := Requirement{RoleAdmin, RoleEditor}
	assert.Equal(t, Allow, Decide(req, editor, 0))
	assert.Equal(t, Deny, Decide(req, reader, 0))
}

func TestDecideSelfOrAdminMixed(t *testing.T) {
	// /users/{id} style requirement: the owner or an admin.
	req := Requirement{RoleAdmin, RoleSelf}

	owner := ident(9, RoleReader)
	stranger := ident(10, RoleEditor)

	assert.Equal(t, Allow, Decide(req, owner, 9))
	assert.Equal(t, Deny, Decide(req, stranger, 9))
	assert.Equal(t, Allow, Decide(req, ident(11, RoleAdmin), 9))
}

func TestDecideRolelessIdentity(t *testing.T) {
	empty := ident(3)
	assert.Equal(t, Deny, Decide(Requirement{RoleReader}, empty, 0))
	assert.Equal(t, Allow, Decide(Requirement{RoleSelf}, empty, 3))
}

func TestRequirementContains(t *testing.T) {
	req := Requirement{RoleAdmin, RoleSelf}
	assert.True(t, req.Contains(RoleSelf))
	assert.False(t, req.Contains(RoleReader))
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "deny", Deny.String())
}
