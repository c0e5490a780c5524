package models

import "time"

// Parent defines the parent (apoderado) model based on the 'parents' table
type Parent struct {
	ID              int64     `json:"id" db:"id" example:"1"`
	DNI             string    `json:"dni" db:"dni" example:"40405050"`               // 8-digit identity number, login key
	FamilyCode      string    `json:"familyCode" db:"family_code" example:"FAM-1234"` // Alternate login key, generated at registration
	PasswordHash    string    `json:"-" db:"password_hash"`                           // Hashed password (excluded from JSON)
	Name            string    `json:"name" db:"name" example:"María López"`
	Phone           string    `json:"phone" db:"phone" example:"951000111"`
	Address         string    `json:"address" db:"address"`
	AvatarURL       string    `json:"avatarUrl" db:"avatar_url"`
	LinkedStudentID *int64    `json:"linkedStudentId,omitempty" db:"linked_student_id"` // Set once via link code, never reassigned
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// Linked reports whether this parent has redeemed a link code
func (p *Parent) Linked() bool {
	return p.LinkedStudentID != nil
}
