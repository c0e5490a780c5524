package dto

import "github.com/coarpuno/recojo/internal/app/models"

// PickupRespondRequest is the student's answer to a pending pickup request
type PickupRespondRequest struct {
	Decision models.PickupAuthStatus `json:"decision" binding:"required,oneof=APPROVED REJECTED" example:"APPROVED"`
}

// PickupStateResponse reports the authorization after a transition, together
// with the view the caller's role should now render
type PickupStateResponse struct {
	StudentID           int64                   `json:"studentId"`
	PickupAuthorization models.PickupAuthStatus `json:"pickupAuthorization" example:"PENDING"`
	View                string                  `json:"view" example:"PICKUP_REQUEST"`
}
