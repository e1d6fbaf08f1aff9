package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/organic-api/internal/models"
)

const userColumns = `id, github_id, github_node_id, github_login, email, picture_url, full_name, email_verified, admin, instructor, last_online`

// UserRepository provides read access to users plus the presence timestamp.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// FindByGithubID returns a user by GitHub account id.
func (r *UserRepository) FindByGithubID(ctx context.Context, githubID int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE github_id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, githubID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by github id: %w", err)
	}
	return &user, nil
}

// UpdateLastOnline stores the presence timestamp for a user.
func (r *UserRepository) UpdateLastOnline(ctx context.Context, id int64, ts time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET last_online = $2 WHERE id = $1`, id, ts)
	if err != nil {
		return fmt.Errorf("update last online: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListEmails returns the addresses associated with a user.
func (r *UserRepository) ListEmails(ctx context.Context, userID int64) ([]models.UserEmail, error) {
	const query = `SELECT email, user_id FROM user_emails WHERE user_id = $1 ORDER BY email`
	emails := []models.UserEmail{}
	if err := r.db.SelectContext(ctx, &emails, query, userID); err != nil {
		return nil, fmt.Errorf("list user emails: %w", err)
	}
	return emails, nil
}
