package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin      UserRole = "ADMIN"
	RoleInstructor UserRole = "INSTRUCTOR"
	RoleUser       UserRole = "USER"
)

// User represents a GitHub-authenticated account stored in the users table.
type User struct {
	ID            int64      `db:"id" json:"id"`
	GithubID      int        `db:"github_id" json:"githubId"`
	GithubNodeID  string     `db:"github_node_id" json:"githubNodeId"`
	GithubLogin   string     `db:"github_login" json:"githubLogin"`
	Email         string     `db:"email" json:"email"`
	PictureURL    string     `db:"picture_url" json:"pictureUrl"`
	FullName      string     `db:"full_name" json:"fullName"`
	EmailVerified bool       `db:"email_verified" json:"emailVerified"`
	Admin         bool       `db:"admin" json:"admin"`
	Instructor    bool       `db:"instructor" json:"instructor"`
	LastOnline    *time.Time `db:"last_online" json:"lastOnline,omitempty"`
}

// UserEmail is an additional address associated with a user.
type UserEmail struct {
	Email  string `db:"email" json:"email"`
	UserID int64  `db:"user_id" json:"userId"`
}

// CurrentUser is the profile returned for the authenticated principal.
type CurrentUser struct {
	User  User       `json:"user"`
	Roles []UserRole `json:"roles"`
}

// LastOnline is returned after refreshing the user's presence timestamp.
type LastOnline struct {
	LastOnline time.Time `json:"lastOnline"`
}
