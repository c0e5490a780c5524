package models

import "time"

// DailyMenu is the single cafeteria menu the school publishes for the current
// day, one dish description per meal slot. A save replaces the whole document.
type DailyMenu struct {
	Breakfast string    `json:"breakfast" db:"breakfast" example:"Quinua con leche"`
	Recess    string    `json:"recess" db:"recess" example:"Fruta de estación"`
	Lunch     string    `json:"lunch" db:"lunch" example:"Arroz con pollo"`
	Dinner    string    `json:"dinner" db:"dinner" example:"Sopa de verduras"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
