// Package services holds the business logic between HTTP controllers and the
// repositories.
//
// Services defined in this package:
// - AuthService: registration, login and refresh tokens for all roles
// - ParentService: parent profile and the one-time family link
// - StudentService: student profile, activity, weekly survey and telemetry
// - PickupService: the pickup authorization state machine
// - MenuService: the cafeteria daily menu
package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/coarpuno/recojo/internal/app/models"
	"github.com/coarpuno/recojo/internal/app/models/dto"
	"github.com/coarpuno/recojo/internal/app/repositories"
	"github.com/coarpuno/recojo/internal/pkg/auth"
	"github.com/coarpuno/recojo/internal/pkg/notify"
	"github.com/coarpuno/recojo/internal/pkg/websocket"
)

// IAuthService defines authentication operations
type IAuthService interface {
	RegisterParent(ctx context.Context, req *dto.RegisterParentRequest) (*dto.RegisterParentResponse, error)
	RegisterStudent(ctx context.Context, req *dto.RegisterStudentRequest) (*dto.RegisterStudentResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	ValidatePassword(password string) error
}

// IParentService defines parent profile and family link operations
type IParentService interface {
	GetParent(ctx context.Context, parentID int64) (*models.Parent, error)
	GetLinkedStudent(ctx context.Context, parentID int64) (*models.Student, error)
	LinkStudent(ctx context.Context, parentID int64, linkCode string) (*models.Student, error)
}

// IStudentService defines student profile and device operations
type IStudentService interface {
	GetStudent(ctx context.Context, studentID int64) (*models.Student, error)
	SetActivity(ctx context.Context, studentID int64, activity models.ActivityStatus) (*models.Student, error)
	SubmitSurvey(ctx context.Context, studentID int64, survey models.WeeklySurvey) (*models.Student, error)
	ReportTelemetry(ctx context.Context, studentID int64, t models.Telemetry) (*models.Student, error)
}

// IPickupService drives the pickup authorization state machine. Both
// operations publish the committed record to the hub after the store
// acknowledges the write.
type IPickupService interface {
	Request(ctx context.Context, parentID int64) (*models.Student, error)
	Respond(ctx context.Context, studentID int64, decision models.PickupAuthStatus) (*models.Student, error)
}

// IMenuService defines daily menu operations
type IMenuService interface {
	GetMenu(ctx context.Context) (*models.DailyMenu, error)
	UpdateMenu(ctx context.Context, menu models.DailyMenu) (*models.DailyMenu, error)
}

// Services is the container for all service instances
type Services struct {
	AuthService    IAuthService
	ParentService  IParentService
	StudentService IStudentService
	PickupService  IPickupService
	MenuService    IMenuService
}

// NewServices wires all services against the shared repositories and hub
func NewServices(
	repos *repositories.Repositories,
	jwtService *auth.JWTService,
	hub *websocket.Hub,
	notifier notify.Notifier,
	logger zerolog.Logger,
) *Services {
	return &Services{
		AuthService: NewAuthService(
			repos.ParentRepository,
			repos.StudentRepository,
			repos.AdminRepository,
			repos.TokenRepository,
			jwtService,
			logger,
		),
		ParentService: NewParentService(
			repos.ParentRepository,
			repos.StudentRepository,
			logger,
		),
		StudentService: NewStudentService(
			repos.StudentRepository,
			hub,
			logger,
		),
		PickupService: NewPickupService(
			repos.ParentRepository,
			repos.StudentRepository,
			hub,
			notifier,
			logger,
		),
		MenuService: NewMenuService(
			repos.MenuRepository,
			hub,
			logger,
		),
	}
}
