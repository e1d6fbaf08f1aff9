package models

// Staff grants course-staff privileges to a GitHub user within one course.
// CourseID and GithubID reference Course and User by value; deleting staff never cascades.
type Staff struct {
	ID       int64 `db:"id" json:"id"`
	CourseID int64 `db:"course_id" json:"courseId"`
	GithubID int   `db:"github_id" json:"githubId"`
}

// StaffFilter narrows staff listings.
type StaffFilter struct {
	GithubID *int
}

// CreateStaffRequest carries the query parameters of a staff creation.
type CreateStaffRequest struct {
	CourseID int64 `form:"courseId" json:"courseId" validate:"required,gt=0"`
	GithubID int   `form:"githubId" json:"githubId" validate:"required,gt=0"`
}

// UpdateStaffRequest replaces both references of an existing staff row.
// ID is resolved by lookup, so an out-of-range id is a miss rather than a validation failure.
type UpdateStaffRequest struct {
	ID       int64 `form:"id" json:"id"`
	CourseID int64 `form:"courseId" json:"courseId" validate:"required,gt=0"`
	GithubID int   `form:"githubId" json:"githubId" validate:"required,gt=0"`
}
