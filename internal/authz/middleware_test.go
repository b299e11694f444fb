package authz

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-cms/folio/internal/shared"
	_ "github.com/folio-cms/folio/testing"
)

type stubVerifier struct {
	ident *shared.Identity
	err   error
}

func (s *stubVerifier) Verify(raw string) (*shared.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.ident, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateStoresIdentity(t *testing.T) {
	mw := Middleware{Verifier: &stubVerifier{ident: ident(7, RoleEditor)}}

	var seen *shared.Identity
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = shared.IdentityFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/articles", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, seen)
	assert.Equal(t, int64(7), seen.SubjectID)
}

func TestAuthenticatePassesThroughWithoutHeader(t *testing.T) {
	mw := Middleware{Verifier: &stubVerifier{err: errors.New("should not be called")}}

	called := false
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Nil(t, shared.IdentityFromContext(r.Context()))
	}))

	req := httptest.NewRequest(http.MethodGet, "/articles", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, called)
}

func TestAuthenticateIgnoresBadToken(t *testing.T) {
	mw := Middleware{Verifier: &stubVerifier{err: shared.ErrUnauthenticated}}

	called := false
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Nil(t, shared.IdentityFromContext(r.Context()))
	}))

	req := httptest.NewRequest(http.MethodGet, "/articles", nil)
	req.Header.Set("Authorization", "Bearer expired")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, called)
}

func TestRequireUnauthenticated(t *testing.T) {
	mw := Middleware{}
	handler := mw.Require(Requirement{RoleReader}, nil)(okHandler())

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/articles", nil))

	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRequireDenied(t *testing.T) {
	mw := Middleware{}
	handler := mw.Require(Requirement{RoleAdmin}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req = req.WithContext(shared.ContextWithIdentity(req.Context(), ident(4, RoleReader)))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestRequireAllowed(t *testing.T) {
	mw := Middleware{}
	handler := mw.Require(Requirement{RoleAdmin, RoleEditor}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/articles", nil)
	req = req.WithContext(shared.ContextWithIdentity(req.Context(), ident(4, RoleEditor)))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
}

func TestRequireEmptyRequirementOpen(t *testing.T) {
	mw := Middleware{}
	handler := mw.Require(nil, nil)(okHandler())

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, res.Code)
}

func TestRequireSelfViaOwnerResolver(t *testing.T) {
	mw := Middleware{}

	r := chi.NewRouter()
	r.With(mw.Require(Requirement{RoleAdmin, RoleSelf}, OwnerFromParam("id"))).
		Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

	owner := httptest.NewRequest(http.MethodGet, "/users/42", nil)
	owner = owner.WithContext(shared.ContextWithIdentity(owner.Context(), ident(42, RoleReader)))
	res := httptest.NewRecorder()
	r.ServeHTTP(res, owner)
	assert.Equal(t, http.StatusOK, res.Code)

	stranger := httptest.NewRequest(http.MethodGet, "/users/42", nil)
	stranger = stranger.WithContext(shared.ContextWithIdentity(stranger.Context(), ident(43, RoleReader)))
	res = httptest.NewRecorder()
	r.ServeHTTP(res, stranger)
	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestOwnerFromParamInvalid(t *testing.T) {
	r := chi.NewRouter()
	var got int64 = -1
	resolver := OwnerFromParam("id")
	r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		got = resolver(req)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/abc", nil))
	assert.Equal(t, int64(0), got)
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", bearerToken(req))

	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	assert.Equal(t, "abc.def.ghi", bearerToken(req))

	req.Header.Set("Authorization", "bearer  lower ")
	assert.Equal(t, "lower", bearerToken(req))

	req.Header.Set("Authorization", "Basic dXNlcg==")
	assert.Equal(t, "", bearerToken(req))
}
