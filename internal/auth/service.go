package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/folio-cms/folio/internal/shared"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(subjectID int64, email string, roles []string) (string, error)
}

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	issuer TokenIssuer
}

// NewService constructs a new Service.
func NewService(repo Repository, issuer TokenIssuer) *Service {
	return &Service{repo: repo, issuer: issuer}
}

// Authenticate validates email/password credentials and returns the user with
// its current role names. An unknown email and a wrong password both return
// shared.ErrInvalidCredentials so the two cases cannot be told apart.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, []string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, shared.ErrInvalidCredentials
	}
	roles, err := s.repo.RoleNames(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, roles, nil
}

// Login authenticates and issues a bearer token embedding the role snapshot.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, roles, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}
	return s.issuer.Issue(user.ID, user.Email, roles)
}
