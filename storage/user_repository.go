package storage

import (
	"context"
	"database/sql"
	"errors"

	"salon-booking/models"

	"github.com/jmoiron/sqlx"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user and returns its id. The email UNIQUE constraint is
// the only duplicate check; a violation returns ErrDuplicate and writes nothing.
func (r *UserRepository) Create(ctx context.Context, user models.User) (int, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO tbl_user (fullname, email, password_hash, phone) VALUES (?, ?, ?, ?)",
		user.Fullname, user.Email, user.Password, user.Phone)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		"SELECT id, fullname, email, password_hash, COALESCE(phone, '') AS phone FROM tbl_user WHERE email = ?", email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM tbl_user")
	return n, err
}
