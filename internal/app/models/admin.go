package models

import "time"

// Admin defines a school staff account based on the 'admins' table. Admins are
// provisioned by seed or operations, there is no self-registration.
type Admin struct {
	ID           int64     `json:"id" db:"id" example:"1"`
	DNI          string    `json:"dni" db:"dni" example:"10203040"` // 8-digit identity number, login key
	PasswordHash string    `json:"-" db:"password_hash"`            // Hashed password (excluded from JSON)
	Name         string    `json:"name" db:"name" example:"Dirección COAR"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
