package users

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/folio-cms/folio/internal/authz"
	"github.com/folio-cms/folio/internal/shared"
)

// RepositoryPort defines data access methods for users and role assignments.
type RepositoryPort interface {
	CreateUser(ctx context.Context, email, name, passwordHash string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, id int64, email, name, passwordHash *string) (*User, error)
	FindPermissionByName(ctx context.Context, name string) (*Role, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// CreateUserRequest carries the fields for a new account.
type CreateUserRequest struct {
	Email    string
	Name     string
	Password string
}

// UpdateUserRequest carries optional field updates.
type UpdateUserRequest struct {
	Email    *string
	Name     *string
	Password *string
}

// Service handles user management business logic, including the role store.
type Service struct {
	repo  RepositoryPort
	audit *shared.AuditLogger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

// Create registers a new user. Duplicate emails surface as ErrConflict.
func (s *Service) Create(ctx context.Context, req CreateUserRequest) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.repo.CreateUser(ctx, req.Email, req.Name, string(hash))
}

// List returns all users with their role assignments.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Get fetches one user by id.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies optional field changes, rehashing the password when present.
func (s *Service) Update(ctx context.Context, id int64, req UpdateUserRequest) (*User, error) {
	var passwordHash *string
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hashed := string(hash)
		passwordHash = &hashed
	}
	return s.repo.UpdateUser(ctx, id, req.Email, req.Name, passwordHash)
}

// UpdateRole grants roleName to the user. Granting READER or EDITOR first
// removes any other tier assignment; granting ADMIN is additive and leaves
// tier assignments in place. Existing ADMIN assignments are never stripped.
func (s *Service) UpdateRole(ctx context.Context, actorID, userID int64, roleName string) (*Assignment, error) {
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	role, err := s.repo.FindPermissionByName(ctx, roleName)
	if err != nil {
		return nil, err
	}

	isTier := roleName != authz.RoleAdmin
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		// The row lock serializes concurrent grants for the same user, so
		// the tier sweep below always sees the latest committed assignments.
		if err := tx.LockUser(ctx, userID); err != nil {
			return err
		}
		if isTier {
			if err := tx.DeleteTierAssignments(ctx, userID); err != nil {
				return err
			}
		}
		return tx.InsertAssignment(ctx, userID, role.ID)
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("%w: grant role: %v", shared.ErrInternal, err)
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "role.grant",
			Entity:   "user",
			EntityID: fmt.Sprintf("%d", userID),
			Meta:     map[string]any{"role": role.Name},
		})
	}
	return &Assignment{UserID: userID, PermissionID: role.ID, Role: *role}, nil
}

// Remove deletes the user together with its role assignments and authored
// articles in one atomic unit. A failed step leaves nothing deleted.
func (s *Service) Remove(ctx context.Context, actorID, userID int64) error {
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return err
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.LockUser(ctx, userID); err != nil {
			return err
		}
		if err := tx.DeleteAssignments(ctx, userID); err != nil {
			return err
		}
		if err := tx.DeleteArticlesByAuthor(ctx, userID); err != nil {
			return err
		}
		return tx.DeleteUser(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrNotFound
		}
		return fmt.Errorf("%w: cascade delete: %v", shared.ErrInternal, err)
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "user.delete",
			Entity:   "user",
			EntityID: fmt.Sprintf("%d", userID),
		})
	}
	return nil
}
