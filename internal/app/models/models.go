package models

// RoleType represents the role of an authenticated account
type RoleType string

const (
	// RoleParent is a parent (apoderado) account
	RoleParent RoleType = "PARENT"
	// RoleStudent is a student account
	RoleStudent RoleType = "STUDENT"
	// RoleAdmin is a school staff account that maintains the daily menu
	RoleAdmin RoleType = "ADMIN"
)

// Valid reports whether the role is one of the known account roles
func (r RoleType) Valid() bool {
	return r == RoleParent || r == RoleStudent || r == RoleAdmin
}
