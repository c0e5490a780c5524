package dto

// UpdateMenuRequest replaces the daily menu wholesale. A missing field clears
// that meal slot.
type UpdateMenuRequest struct {
	Breakfast string `json:"breakfast" binding:"omitempty" example:"Quinua con leche"`
	Recess    string `json:"recess" binding:"omitempty" example:"Fruta de estación"`
	Lunch     string `json:"lunch" binding:"omitempty" example:"Arroz con pollo"`
	Dinner    string `json:"dinner" binding:"omitempty" example:"Sopa de verduras"`
}
