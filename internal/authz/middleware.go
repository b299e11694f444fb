package authz

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/folio-cms/folio/internal/observability"
	"github.com/folio-cms/folio/internal/platform/httpx"
	"github.com/folio-cms/folio/internal/shared"
)

// Verifier turns a raw bearer token into an identity.
type Verifier interface {
	Verify(raw string) (*shared.Identity, error)
}

// OwnerResolver extracts the owner id of the targeted resource from the
// request. Zero means the owner is unknown and SELF cannot match.
type OwnerResolver func(r *http.Request) int64

// OwnerFromParam resolves the owner from a numeric chi URL parameter. Used
// for routes like /users/{id} where the resource owner is the user itself.
func OwnerFromParam(name string) OwnerResolver {
	return func(r *http.Request) int64 {
		id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
		if err != nil || id <= 0 {
			return 0
		}
		return id
	}
}

// Middleware wires authentication and authorization helpers for HTTP handlers.
type Middleware struct {
	Verifier Verifier
	Logger   *slog.Logger
	Metrics  *observability.Metrics
}

// Authenticate parses an Authorization: Bearer header when present and stores
// the verified identity in the request context. It never rejects by itself;
// enforcement happens in Require so that open routes stay reachable.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		ident, err := m.Verifier.Verify(raw)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Debug("bearer token rejected", slog.String("path", r.URL.Path))
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithIdentity(r.Context(), ident)))
	})
}

// Require declares the requirement for the wrapped routes. An unauthenticated
// caller is rejected with 401 before the decision engine runs; a denied
// identity gets 403. Routes without a declared requirement are open.
func (m Middleware) Require(req Requirement, owner OwnerResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(req) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			ident := shared.IdentityFromContext(r.Context())
			if ident == nil {
				httpx.RespondError(w, shared.ErrUnauthenticated)
				return
			}
			var ownerID int64
			if owner != nil {
				ownerID = owner(r)
			}
			decision := Decide(req, ident, ownerID)
			m.Metrics.RecordDecision(decision.String())
			if decision != Allow {
				if m.Logger != nil {
					m.Logger.Warn("access denied",
						slog.Int64("subject", ident.SubjectID),
						slog.String("path", r.URL.Path),
						slog.Any("requirement", req),
					)
				}
				httpx.RespondError(w, shared.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	ah := strings.TrimSpace(r.Header.Get("Authorization"))
	if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
		return ""
	}
	return strings.TrimSpace(ah[len("bearer "):])
}
