package models

import "time"

// ActivityStatus is what the student's device reports it is currently doing.
// It is set by the student only and has no coupling to pickup authorization.
type ActivityStatus string

const (
	// ActivityClasses means the student is in class
	ActivityClasses ActivityStatus = "CLASSES"
	// ActivityFree means the student is in free time
	ActivityFree ActivityStatus = "FREE"
	// ActivityExit means the student is at the exit gate
	ActivityExit ActivityStatus = "EXIT"
)

// Valid reports whether the activity is one of the known values
func (a ActivityStatus) Valid() bool {
	switch a {
	case ActivityClasses, ActivityFree, ActivityExit:
		return true
	}
	return false
}

// TransportMethod is how the student plans to travel in the weekly survey
type TransportMethod string

const (
	TransportBus       TransportMethod = "BUS"
	TransportParentCar TransportMethod = "PARENT_CAR"
	TransportWalk      TransportMethod = "WALK"
	TransportOther     TransportMethod = "OTHER"
)

// Valid reports whether the transport method is a known value
func (t TransportMethod) Valid() bool {
	switch t {
	case TransportBus, TransportParentCar, TransportWalk, TransportOther:
		return true
	}
	return false
}

// WeeklySurvey is the student's weekly wellbeing survey. It is replaced
// wholesale on submission, never merged field by field.
type WeeklySurvey struct {
	Completed       bool            `json:"completed" db:"survey_completed"`
	Destination     string          `json:"destination" db:"survey_destination"`
	TransportMethod TransportMethod `json:"transportMethod" db:"survey_transport_method" example:"BUS"`
	HealthStatus    string          `json:"healthStatus" db:"survey_health_status" example:"GOOD"`
	Comments        string          `json:"comments" db:"survey_comments"`
	SubmittedAt     *time.Time      `json:"submittedAt,omitempty" db:"survey_submitted_at"`
}

// Telemetry is one device heartbeat: battery, self-reported stress, the last
// GPS fix and a free-form status line
type Telemetry struct {
	BatteryLevel int         `json:"batteryLevel" example:"85"`
	StressLevel  int         `json:"stressLevel" example:"20"`
	Location     Coordinates `json:"location"`
	StatusText   string      `json:"statusText" example:"En línea"`
}

// Coordinates is the last GPS fix reported by the student's device
type Coordinates struct {
	Lat float64 `json:"lat" db:"location_lat" example:"-15.8855"`
	Lng float64 `json:"lng" db:"location_lng" example:"-69.893"`
}

// Student defines the student model based on the 'students' table
type Student struct {
	ID                  int64            `json:"id" db:"id" example:"1"`
	DNI                 string           `json:"dni" db:"dni" example:"72345678"`         // 8-digit identity number, login key
	PasswordHash        string           `json:"-" db:"password_hash"`                    // Hashed password (excluded from JSON)
	Name                string           `json:"name" db:"name" example:"Ana Quispe"`
	Grade               string           `json:"grade" db:"grade" example:"5to"`
	Section             string           `json:"section" db:"section" example:"A"`
	AvatarURL           string           `json:"avatarUrl" db:"avatar_url"`
	LinkCode            string           `json:"linkCode" db:"link_code" example:"COAR-ANA5678"` // Redeemed once by a parent, immutable
	PickupAuthorization PickupAuthStatus `json:"pickupAuthorization" db:"pickup_authorization" example:"NONE"`
	CurrentActivity     *ActivityStatus  `json:"currentActivity,omitempty" db:"current_activity"` // Unset until the device reports one
	WeeklySurvey        WeeklySurvey     `json:"weeklySurvey"`
	OriginCity          string           `json:"originCity" db:"origin_city" example:"Juliaca"`
	Address             string           `json:"address" db:"address"`
	BirthDate           string           `json:"birthDate" db:"birth_date" example:"12/05/2007"`
	BloodType           string           `json:"bloodType" db:"blood_type" example:"O+"`
	DeviceID            string           `json:"deviceId" db:"device_id" example:"IPhone-12"`
	BatteryLevel        int              `json:"batteryLevel" db:"battery_level" example:"85"`
	StressLevel         int              `json:"stressLevel" db:"stress_level" example:"20"`
	Location            Coordinates      `json:"location"`
	StatusText          string           `json:"statusText" db:"status_text" example:"En línea"`
	CreatedAt           time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time        `json:"updatedAt" db:"updated_at"`
}
