package dto

// LinkStudentRequest redeems a student link code for the authenticated parent
type LinkStudentRequest struct {
	LinkCode string `json:"linkCode" binding:"required" example:"COAR-ANA5678"`
}

// LinkStudentResponse confirms the established family link
type LinkStudentResponse struct {
	StudentID   int64  `json:"studentId"`
	StudentName string `json:"studentName" example:"Ana Quispe"`
}
