package dto

import "github.com/coarpuno/recojo/internal/app/models"

// LoginRequest represents login credentials. Parents log in with their DNI or
// family code, students and admins with their DNI.
type LoginRequest struct {
	Identifier string          `json:"identifier" binding:"required" example:"40405050"`
	Password   string          `json:"password" binding:"required"`
	Role       models.RoleType `json:"role" binding:"required,oneof=PARENT STUDENT ADMIN" example:"PARENT"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	TokenType             string `json:"tokenType" example:"Bearer"`
	ExpiresIn             int64  `json:"expiresIn"`
	RefreshToken          string `json:"refreshToken,omitempty"`
	RefreshTokenExpiresIn int64  `json:"refreshTokenExpiresIn,omitempty"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RegisterParentRequest represents a parent registration request. The link
// code is optional: a parent may register first and redeem a code later.
type RegisterParentRequest struct {
	DNI      string `json:"dni" binding:"required,len=8,numeric" example:"40405050"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required" example:"María López"`
	Phone    string `json:"phone" binding:"omitempty" example:"951000111"`
	Address  string `json:"address" binding:"omitempty"`
	LinkCode string `json:"linkCode" binding:"omitempty" example:"COAR-ANA5678"`
}

// RegisterStudentRequest represents a student registration request
type RegisterStudentRequest struct {
	DNI        string `json:"dni" binding:"required,len=8,numeric" example:"72345678"`
	Password   string `json:"password" binding:"required,min=8"`
	Name       string `json:"name" binding:"required" example:"Ana Quispe"`
	Grade      string `json:"grade" binding:"omitempty" example:"5to"`
	Section    string `json:"section" binding:"omitempty" example:"A"`
	OriginCity string `json:"originCity" binding:"omitempty" example:"Juliaca"`
	Address    string `json:"address" binding:"omitempty"`
	BirthDate  string `json:"birthDate" binding:"omitempty" example:"12/05/2007"`
	BloodType  string `json:"bloodType" binding:"omitempty" example:"O+"`
}

// RegisterParentResponse is returned after a successful parent registration
type RegisterParentResponse struct {
	ParentID   int64  `json:"parentId"`
	FamilyCode string `json:"familyCode" example:"FAM-1234"`
	Linked     bool   `json:"linked"`
}

// RegisterStudentResponse is returned after a successful student registration
type RegisterStudentResponse struct {
	StudentID int64  `json:"studentId"`
	LinkCode  string `json:"linkCode" example:"COAR-ANA5678"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	Role  string        `json:"role" example:"PARENT"`
	User  interface{}   `json:"user"`
}
