package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/organic-api/internal/models"
)

// StaffRepository handles persistence for staff grants.
type StaffRepository struct {
	db *sqlx.DB
}

// NewStaffRepository creates a new repository instance.
func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// List returns every staff row in insertion order.
func (r *StaffRepository) List(ctx context.Context) ([]models.Staff, error) {
	const query = `SELECT id, course_id, github_id FROM staff ORDER BY id`
	staff := []models.Staff{}
	if err := r.db.SelectContext(ctx, &staff, query); err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return staff, nil
}

// FindByID returns a staff row by id. A miss returns sql.ErrNoRows unwrapped.
func (r *StaffRepository) FindByID(ctx context.Context, id int64) (*models.Staff, error) {
	const query = `SELECT id, course_id, github_id FROM staff WHERE id = $1`
	var staff models.Staff
	if err := r.db.GetContext(ctx, &staff, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find staff by id: %w", err)
	}
	return &staff, nil
}

// FindByGithubID returns all staff grants held by a GitHub user.
func (r *StaffRepository) FindByGithubID(ctx context.Context, githubID int) ([]models.Staff, error) {
	const query = `SELECT id, course_id, github_id FROM staff WHERE github_id = $1 ORDER BY id`
	staff := []models.Staff{}
	if err := r.db.SelectContext(ctx, &staff, query, githubID); err != nil {
		return nil, fmt.Errorf("find staff by github id: %w", err)
	}
	return staff, nil
}

// Create inserts a staff row and assigns the generated id.
func (r *StaffRepository) Create(ctx context.Context, staff *models.Staff) error {
	const query = `INSERT INTO staff (course_id, github_id) VALUES ($1, $2) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, staff.CourseID, staff.GithubID).Scan(&staff.ID); err != nil {
		return fmt.Errorf("create staff: %w", err)
	}
	return nil
}

// Update overwrites course_id and github_id of an existing row.
func (r *StaffRepository) Update(ctx context.Context, staff *models.Staff) error {
	const query = `UPDATE staff SET course_id = :course_id, github_id = :github_id WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, staff); err != nil {
		return fmt.Errorf("update staff: %w", err)
	}
	return nil
}

// Delete removes a staff row.
func (r *StaffRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM staff WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete staff: %w", err)
	}
	return nil
}
