// Package repositories handles database access for parents, students, admins,
// the daily menu and refresh tokens.
package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coarpuno/recojo/internal/app/models"
)

// IParentRepository defines parent persistence operations
type IParentRepository interface {
	CreateParent(ctx context.Context, parent *models.Parent) (int64, error)
	GetParentByID(ctx context.Context, id int64) (*models.Parent, error)
	GetParentByDNI(ctx context.Context, dni string) (*models.Parent, error)
	GetParentByFamilyCode(ctx context.Context, code string) (*models.Parent, error)
	LinkStudent(ctx context.Context, parentID, studentID int64) error
}

// IStudentRepository defines student persistence operations. All updates are
// partial-document merges: only the named columns change, so concurrent
// writers on disjoint fields never clobber each other.
type IStudentRepository interface {
	CreateStudent(ctx context.Context, student *models.Student) (int64, error)
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
	GetStudentByDNI(ctx context.Context, dni string) (*models.Student, error)
	GetStudentByLinkCode(ctx context.Context, code string) (*models.Student, error)
	UpdatePickupAuthorization(ctx context.Context, id int64, from []models.PickupAuthStatus, to models.PickupAuthStatus) error
	UpdateActivity(ctx context.Context, id int64, activity models.ActivityStatus) error
	UpdateSurvey(ctx context.Context, id int64, survey models.WeeklySurvey) error
	UpdateTelemetry(ctx context.Context, id int64, t models.Telemetry) error
}

// IAdminRepository defines admin account persistence operations
type IAdminRepository interface {
	CreateAdmin(ctx context.Context, admin *models.Admin) (int64, error)
	GetAdminByID(ctx context.Context, id int64) (*models.Admin, error)
	GetAdminByDNI(ctx context.Context, dni string) (*models.Admin, error)
}

// IMenuRepository defines daily menu persistence operations. The menu is a
// single-row document: a put replaces it wholesale.
type IMenuRepository interface {
	GetDailyMenu(ctx context.Context) (*models.DailyMenu, error)
	PutDailyMenu(ctx context.Context, menu models.DailyMenu) (*models.DailyMenu, error)
}

// ITokenRepository defines refresh token persistence operations
type ITokenRepository interface {
	StoreRefreshToken(ctx context.Context, role models.RoleType, accountID int64, token string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, token string) error
}

// Repositories is the container for all repository instances
type Repositories struct {
	ParentRepository  *ParentRepository
	StudentRepository *StudentRepository
	AdminRepository   *AdminRepository
	MenuRepository    *MenuRepository
	TokenRepository   *TokenRepository
}

// NewRepositories creates all repositories sharing one connection pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		ParentRepository:  NewParentRepository(db),
		StudentRepository: NewStudentRepository(db),
		AdminRepository:   NewAdminRepository(db),
		MenuRepository:    NewMenuRepository(db),
		TokenRepository:   NewTokenRepository(db),
	}
}
