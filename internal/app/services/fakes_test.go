package services

import (
	"context"
	"sync"
	"time"

	"github.com/coarpuno/recojo/internal/app/models"
	"github.com/coarpuno/recojo/internal/pkg/apperrors"
)

// fakeParentRepo is an in-memory IParentRepository for service tests
type fakeParentRepo struct {
	mu      sync.Mutex
	nextID  int64
	parents map[int64]*models.Parent
}

func newFakeParentRepo() *fakeParentRepo {
	return &fakeParentRepo{nextID: 1, parents: make(map[int64]*models.Parent)}
}

func (r *fakeParentRepo) CreateParent(_ context.Context, parent *models.Parent) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.parents {
		if p.DNI == parent.DNI {
			return 0, apperrors.ErrParentDNIExists
		}
		if p.FamilyCode == parent.FamilyCode {
			return 0, apperrors.ErrResourceAlreadyExists
		}
		if parent.LinkedStudentID != nil && p.LinkedStudentID != nil && *p.LinkedStudentID == *parent.LinkedStudentID {
			return 0, apperrors.ErrStudentClaimed
		}
	}

	stored := *parent
	stored.ID = r.nextID
	r.nextID++
	r.parents[stored.ID] = &stored
	return stored.ID, nil
}

func (r *fakeParentRepo) GetParentByID(_ context.Context, id int64) (*models.Parent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.parents[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, apperrors.ErrParentNotFound
}

func (r *fakeParentRepo) GetParentByDNI(_ context.Context, dni string) (*models.Parent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.parents {
		if p.DNI == dni {
			copied := *p
			return &copied, nil
		}
	}
	return nil, apperrors.ErrParentNotFound
}

func (r *fakeParentRepo) GetParentByFamilyCode(_ context.Context, code string) (*models.Parent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.parents {
		if p.FamilyCode == code {
			copied := *p
			return &copied, nil
		}
	}
	return nil, apperrors.ErrParentNotFound
}

func (r *fakeParentRepo) LinkStudent(_ context.Context, parentID, studentID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.parents {
		if p.LinkedStudentID != nil && *p.LinkedStudentID == studentID {
			return apperrors.ErrStudentClaimed
		}
	}

	p, ok := r.parents[parentID]
	if !ok {
		return apperrors.ErrParentNotFound
	}
	if p.LinkedStudentID != nil {
		return apperrors.ErrAlreadyLinked
	}
	p.LinkedStudentID = &studentID
	return nil
}

// fakeStudentRepo is an in-memory IStudentRepository for service tests
type fakeStudentRepo struct {
	mu       sync.Mutex
	nextID   int64
	students map[int64]*models.Student
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{nextID: 1, students: make(map[int64]*models.Student)}
}

func (r *fakeStudentRepo) CreateStudent(_ context.Context, student *models.Student) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.students {
		if s.DNI == student.DNI {
			return 0, apperrors.ErrStudentDNIExists
		}
		if s.LinkCode == student.LinkCode {
			return 0, apperrors.ErrResourceAlreadyExists
		}
	}

	stored := *student
	stored.ID = r.nextID
	stored.PickupAuthorization = models.PickupNone
	r.nextID++
	r.students[stored.ID] = &stored
	return stored.ID, nil
}

func (r *fakeStudentRepo) GetStudentByID(_ context.Context, id int64) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.students[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, apperrors.ErrStudentNotFound
}

func (r *fakeStudentRepo) GetStudentByDNI(_ context.Context, dni string) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.students {
		if s.DNI == dni {
			copied := *s
			return &copied, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (r *fakeStudentRepo) GetStudentByLinkCode(_ context.Context, code string) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.students {
		if s.LinkCode == code {
			copied := *s
			return &copied, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (r *fakeStudentRepo) UpdatePickupAuthorization(_ context.Context, id int64, from []models.PickupAuthStatus, to models.PickupAuthStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}

	for _, f := range from {
		if s.PickupAuthorization == f {
			s.PickupAuthorization = to
			return nil
		}
	}
	return apperrors.ErrInvalidTransition
}

func (r *fakeStudentRepo) UpdateActivity(_ context.Context, id int64, activity models.ActivityStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	s.CurrentActivity = &activity
	return nil
}

func (r *fakeStudentRepo) UpdateSurvey(_ context.Context, id int64, survey models.WeeklySurvey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	s.WeeklySurvey = survey
	return nil
}

func (r *fakeStudentRepo) UpdateTelemetry(_ context.Context, id int64, t models.Telemetry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	s.BatteryLevel = t.BatteryLevel
	s.StressLevel = t.StressLevel
	s.Location = t.Location
	s.StatusText = t.StatusText
	return nil
}

// fakeAdminRepo is an in-memory IAdminRepository for service tests
type fakeAdminRepo struct {
	mu     sync.Mutex
	nextID int64
	admins map[int64]*models.Admin
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{nextID: 1, admins: make(map[int64]*models.Admin)}
}

func (r *fakeAdminRepo) CreateAdmin(_ context.Context, admin *models.Admin) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.admins {
		if a.DNI == admin.DNI {
			return 0, apperrors.ErrAdminDNIExists
		}
	}

	stored := *admin
	stored.ID = r.nextID
	r.nextID++
	r.admins[stored.ID] = &stored
	return stored.ID, nil
}

func (r *fakeAdminRepo) GetAdminByID(_ context.Context, id int64) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.admins[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, apperrors.ErrAdminNotFound
}

func (r *fakeAdminRepo) GetAdminByDNI(_ context.Context, dni string) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.admins {
		if a.DNI == dni {
			copied := *a
			return &copied, nil
		}
	}
	return nil, apperrors.ErrAdminNotFound
}

// fakeMenuRepo is an in-memory IMenuRepository for service tests
type fakeMenuRepo struct {
	mu   sync.Mutex
	menu models.DailyMenu
}

func newFakeMenuRepo() *fakeMenuRepo {
	return &fakeMenuRepo{}
}

func (r *fakeMenuRepo) GetDailyMenu(_ context.Context) (*models.DailyMenu, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := r.menu
	return &copied, nil
}

func (r *fakeMenuRepo) PutDailyMenu(_ context.Context, menu models.DailyMenu) (*models.DailyMenu, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	menu.UpdatedAt = time.Now()
	r.menu = menu
	copied := r.menu
	return &copied, nil
}

// fakeTokenRepo is an in-memory ITokenRepository for service tests
type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*models.RefreshToken)}
}

func (r *fakeTokenRepo) StoreRefreshToken(_ context.Context, role models.RoleType, accountID int64, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[token] = &models.RefreshToken{
		Role:      role,
		AccountID: accountID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	return nil
}

func (r *fakeTokenRepo) GetRefreshToken(_ context.Context, token string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.tokens[token]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, apperrors.ErrTokenNotFound
}

func (r *fakeTokenRepo) RevokeRefreshToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	t.Revoked = true
	return nil
}

// recordingNotifier captures pickup alerts for assertions
type recordingNotifier struct {
	mu    sync.Mutex
	calls []int64
}

func (n *recordingNotifier) PickupRequested(studentID int64, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, studentID)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}
