package repo

import (
	"context"

	dom "Bookmarker/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type BookmarkRepo interface {
	Create(ctx context.Context, b dom.Bookmark) (dom.Bookmark, error)
	// GetByID looks up by ID alone; the caller decides what an ownership
	// mismatch means.
	GetByID(ctx context.Context, id int64) (dom.Bookmark, error)
	GetByIDForUser(ctx context.Context, userID, id int64) (dom.Bookmark, error)
	List(ctx context.Context, userID int64) ([]dom.Bookmark, error)
	Update(ctx context.Context, id int64, patch dom.Bookmark) (dom.Bookmark, error)
	Delete(ctx context.Context, id int64) error
}

type PGBookmarkRepo struct {
	db *pgxpool.Pool
}

func NewPGBookmarkRepo(db *pgxpool.Pool) *PGBookmarkRepo {
	return &PGBookmarkRepo{db: db}
}

func (r *PGBookmarkRepo) Create(ctx context.Context, b dom.Bookmark) (dom.Bookmark, error) {
	query := `
		INSERT INTO bookmarks (user_id, title, description, link)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, title, description, link, created_at, updated_at`
	var out dom.Bookmark
	err := r.db.QueryRow(ctx, query, b.UserID, b.Title, b.Description, b.Link).Scan(
		&out.ID, &out.UserID, &out.Title, &out.Description, &out.Link,
		&out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

func (r *PGBookmarkRepo) GetByID(ctx context.Context, id int64) (dom.Bookmark, error) {
	query := `
		SELECT id, user_id, title, description, link, created_at, updated_at
		FROM bookmarks WHERE id = $1`
	var b dom.Bookmark
	err := r.db.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.UserID, &b.Title, &b.Description, &b.Link,
		&b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (r *PGBookmarkRepo) GetByIDForUser(ctx context.Context, userID, id int64) (dom.Bookmark, error) {
	query := `
		SELECT id, user_id, title, description, link, created_at, updated_at
		FROM bookmarks WHERE id = $1 AND user_id = $2`
	var b dom.Bookmark
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&b.ID, &b.UserID, &b.Title, &b.Description, &b.Link,
		&b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (r *PGBookmarkRepo) List(ctx context.Context, userID int64) ([]dom.Bookmark, error) {
	query := `
		SELECT id, user_id, title, description, link, created_at, updated_at
		FROM bookmarks WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Bookmark
	for rows.Next() {
		var b dom.Bookmark
		if err := rows.Scan(&b.ID, &b.UserID, &b.Title, &b.Description, &b.Link,
			&b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func (r *PGBookmarkRepo) Update(ctx context.Context, id int64, patch dom.Bookmark) (dom.Bookmark, error) {
	query := `
		UPDATE bookmarks SET title = $2, description = $3, link = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING id, user_id, title, description, link, created_at, updated_at`
	var b dom.Bookmark
	err := r.db.QueryRow(ctx, query, id, patch.Title, patch.Description, patch.Link).Scan(
		&b.ID, &b.UserID, &b.Title, &b.Description, &b.Link,
		&b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (r *PGBookmarkRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM bookmarks WHERE id = $1`, id)
	return err
}
