package models

import "time"

// Course is owned by the course catalogue; staff only reference it by id.
type Course struct {
	ID        int64      `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	School    string     `db:"school" json:"school"`
	Term      string     `db:"term" json:"term"`
	StartDate *time.Time `db:"start_date" json:"startDate,omitempty"`
	EndDate   *time.Time `db:"end_date" json:"endDate,omitempty"`
	GithubOrg string     `db:"github_org" json:"githubOrg"`
}
