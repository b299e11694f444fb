package articles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/folio-cms/folio/internal/shared"
)

// Repository provides PostgreSQL backed persistence for articles.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new article and returns the stored row.
func (r *Repository) Create(ctx context.Context, title, slug, content string, authorID int64) (*Article, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO articles (title, slug, content, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, slug, content, author_id, created_at, updated_at`,
		title, slug, content, authorID)
	var a Article
	if err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Content, &a.AuthorID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns one page of articles with their author summaries, newest first.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Article, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.title, a.slug, a.content, a.author_id, a.created_at, a.updated_at,
		       u.id, u.name, u.email
		FROM articles a
		JOIN users u ON u.id = a.author_id
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []Article
	for rows.Next() {
		var a Article
		var author Author
		if err := rows.Scan(&a.ID, &a.Title, &a.Slug, &a.Content, &a.AuthorID, &a.CreatedAt, &a.UpdatedAt,
			&author.ID, &author.Name, &author.Email); err != nil {
			return nil, err
		}
		a.Author = &author
		result = append(result, a)
	}
	return result, rows.Err()
}

// FindByID fetches one article with its author summary.
func (r *Repository) FindByID(ctx context.Context, id int64) (*Article, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT a.id, a.title, a.slug, a.content, a.author_id, a.created_at, a.updated_at,
		       u.id, u.name, u.email
		FROM articles a
		JOIN users u ON u.id = a.author_id
		WHERE a.id = $1`, id)
	var a Article
	var author Author
	if err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Content, &a.AuthorID, &a.CreatedAt, &a.UpdatedAt,
		&author.ID, &author.Name, &author.Email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	a.Author = &author
	return &a, nil
}

// Update applies the non-nil fields and returns the updated row. Missing rows
// map to ErrNotFound.
func (r *Repository) Update(ctx context.Context, id int64, title, slug, content *string) (*Article, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE articles
		SET title = COALESCE($2, title),
		    slug = COALESCE($3, slug),
		    content = COALESCE($4, content),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING id, title, slug, content, author_id, created_at, updated_at`,
		id, title, slug, content)
	var a Article
	if err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Content, &a.AuthorID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Delete removes an article. Missing rows map to ErrNotFound.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count returns the number of stored articles.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM articles`).Scan(&n)
	return n, err
}
