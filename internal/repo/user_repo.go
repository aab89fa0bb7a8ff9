package repo

import (
	"context"

	dom "Bookmarker/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepo provides user persistence.
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (dom.User, error)
	GetByID(ctx context.Context, id int64) (dom.User, error)
	Create(ctx context.Context, email, passwordHash string) (dom.User, error)
	Update(ctx context.Context, id int64, patch dom.User) (dom.User, error)
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

// GetByEmail returns the user by email.
func (r *PGUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, first_name, last_name, created_at, updated_at
		 FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID returns the user by ID.
func (r *PGUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, first_name, last_name, created_at, updated_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a new user and returns it.
func (r *PGUserRepo) Create(ctx context.Context, email, passwordHash string) (dom.User, error) {
	query := `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email, password_hash, first_name, last_name, created_at, updated_at`
	var u dom.User
	err := r.db.QueryRow(ctx, query, email, passwordHash).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

// Update overwrites the editable profile fields and returns the updated user.
func (r *PGUserRepo) Update(ctx context.Context, id int64, patch dom.User) (dom.User, error) {
	query := `
		UPDATE users SET email = $2, first_name = $3, last_name = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING id, email, password_hash, first_name, last_name, created_at, updated_at`
	var u dom.User
	err := r.db.QueryRow(ctx, query, id, patch.Email, patch.FirstName, patch.LastName).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}
