package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/folio-cms/folio/internal/authz"
	"github.com/folio-cms/folio/internal/platform/db"
	"github.com/folio-cms/folio/internal/shared"
)

// uniqueViolation is the SQLSTATE for unique constraint violations.
const uniqueViolation = "23505"

// Repository provides PostgreSQL backed persistence for users, permissions
// and role assignments.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes the operations that must run inside one transaction.
// LockUser must be the first call; it serializes concurrent grants and
// deletes targeting the same user.
type TxRepository interface {
	LockUser(ctx context.Context, userID int64) error
	DeleteTierAssignments(ctx context.Context, userID int64) error
	InsertAssignment(ctx context.Context, userID, permissionID int64) error
	DeleteAssignments(ctx context.Context, userID int64) error
	DeleteArticlesByAuthor(ctx context.Context, userID int64) error
	DeleteUser(ctx context.Context, userID int64) error
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx wraps the callback in a transaction. Any error rolls the whole
// batch back.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

// CreateUser inserts a new user row. Duplicate emails map to ErrConflict.
func (r *Repository) CreateUser(ctx context.Context, email, name, passwordHash string) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, email, name, created_at`, email, name, passwordHash)
	var user User
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, shared.ErrConflict
		}
		return nil, err
	}
	return &user, nil
}

// FindByID fetches a user with its role assignments resolved.
func (r *Repository) FindByID(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, email, name, password_hash, created_at FROM users WHERE id = $1`, id)
	var user User
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	roles, err := r.rolesFor(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	return &user, nil
}

// List returns all users with their roles, ordered by id.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, email, name, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		roles, err := r.rolesFor(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Roles = roles
	}
	return result, nil
}

// UpdateUser applies the non-nil fields and returns the updated row.
func (r *Repository) UpdateUser(ctx context.Context, id int64, email, name, passwordHash *string) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET email = COALESCE($2, email),
		    name = COALESCE($3, name),
		    password_hash = COALESCE($4, password_hash)
		WHERE id = $1
		RETURNING id, email, name, created_at`, id, email, name, passwordHash)
	var user User
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, shared.ErrConflict
		}
		return nil, err
	}
	return &user, nil
}

// FindPermissionByName resolves a permission row by its name.
func (r *Repository) FindPermissionByName(ctx context.Context, name string) (*Role, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, name, description FROM permissions WHERE name = $1`, name)
	var role Role
	if err := row.Scan(&role.ID, &role.Name, &role.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *Repository) rolesFor(ctx context.Context, userID int64) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.name, p.description
		FROM user_permissions up
		JOIN permissions p ON p.id = up.permission_id
		WHERE up.user_id = $1
		ORDER BY p.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (t *txRepo) LockUser(ctx context.Context, userID int64) error {
	var id int64
	err := t.tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return shared.ErrNotFound
	}
	return err
}

func (t *txRepo) DeleteTierAssignments(ctx context.Context, userID int64) error {
	_, err := t.tx.Exec(ctx, `
		DELETE FROM user_permissions
		WHERE user_id = $1
		  AND permission_id IN (SELECT id FROM permissions WHERE name = ANY($2))`,
		userID, authz.TierRoles())
	return err
}

func (t *txRepo) InsertAssignment(ctx context.Context, userID, permissionID int64) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO user_permissions (user_id, permission_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, permission_id) DO NOTHING`, userID, permissionID)
	return err
}

func (t *txRepo) DeleteAssignments(ctx context.Context, userID int64) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM user_permissions WHERE user_id = $1`, userID)
	return err
}

func (t *txRepo) DeleteArticlesByAuthor(ctx context.Context, userID int64) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM articles WHERE author_id = $1`, userID)
	return err
}

func (t *txRepo) DeleteUser(ctx context.Context, userID int64) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
