package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"petkeep/internal/domain/users"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES (?,?,?,?)
	`,
		u.ID, u.Email, u.PasswordHash, u.CreatedAt.UnixMilli(),
	)
	if isUniqueViolation(err) {
		return users.ErrDuplicateEmail
	}
	return err
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE email = ?
	`, email)

	var u users.User
	var created int64
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.User{}, users.ErrNotFound
		}
		return users.User{}, err
	}
	u.CreatedAt = time.UnixMilli(created).UTC()
	return u, nil
}
