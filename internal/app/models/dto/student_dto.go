package dto

import "github.com/coarpuno/recojo/internal/app/models"

// UpdateActivityRequest sets what the student is currently doing
type UpdateActivityRequest struct {
	Activity models.ActivityStatus `json:"activity" binding:"required,oneof=CLASSES FREE EXIT" example:"CLASSES"`
}

// UpdateSurveyRequest replaces the student's weekly survey wholesale
type UpdateSurveyRequest struct {
	Destination     string                 `json:"destination" binding:"required"`
	TransportMethod models.TransportMethod `json:"transportMethod" binding:"required,oneof=BUS PARENT_CAR WALK OTHER" example:"BUS"`
	HealthStatus    string                 `json:"healthStatus" binding:"required" example:"GOOD"`
	Comments        string                 `json:"comments" binding:"omitempty"`
}

// UpdateTelemetryRequest carries a device heartbeat
type UpdateTelemetryRequest struct {
	BatteryLevel int     `json:"batteryLevel" binding:"min=0,max=100" example:"85"`
	StressLevel  int     `json:"stressLevel" binding:"min=0,max=100" example:"20"`
	Lat          float64 `json:"lat" binding:"omitempty" example:"-15.8855"`
	Lng          float64 `json:"lng" binding:"omitempty" example:"-69.893"`
	StatusText   string  `json:"statusText" binding:"omitempty" example:"En línea"`
}

// StudentStateResponse wraps a full student record with the view the
// requesting role should render for it. CanRequest tells a parent client
// whether the pickup request button should be enabled.
type StudentStateResponse struct {
	Student    *models.Student `json:"student"`
	View       string          `json:"view" example:"DASHBOARD"`
	CanRequest bool            `json:"canRequest"`
}
