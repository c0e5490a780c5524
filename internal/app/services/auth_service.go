package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/coarpuno/recojo/internal/app/models"
	"github.com/coarpuno/recojo/internal/app/models/dto"
	"github.com/coarpuno/recojo/internal/app/repositories"
	"github.com/coarpuno/recojo/internal/pkg/apperrors"
	"github.com/coarpuno/recojo/internal/pkg/auth"
)

var dniRegex = regexp.MustCompile(`^\d{8}$`)

// codeGenAttempts bounds the retry loop when a generated family or link code
// collides with an existing one
const codeGenAttempts = 5

// AuthService handles registration, login and refresh tokens for all roles
type AuthService struct {
	parentRepo  repositories.IParentRepository
	studentRepo repositories.IStudentRepository
	adminRepo   repositories.IAdminRepository
	tokenRepo   repositories.ITokenRepository
	jwtService  *auth.JWTService
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	parentRepo repositories.IParentRepository,
	studentRepo repositories.IStudentRepository,
	adminRepo repositories.IAdminRepository,
	tokenRepo repositories.ITokenRepository,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		parentRepo:  parentRepo,
		studentRepo: studentRepo,
		adminRepo:   adminRepo,
		tokenRepo:   tokenRepo,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// validateDNI checks the 8-digit national identity number format
func (s *AuthService) validateDNI(dni string) error {
	if !dniRegex.MatchString(dni) {
		return apperrors.ErrInvalidDNI
	}
	return nil
}

// ValidatePassword checks if password meets requirements
func (s *AuthService) ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters long", apperrors.ErrValidationFailed)
	}

	hasLetter := false
	hasDigit := false
	for _, char := range password {
		if unicode.IsLetter(char) {
			hasLetter = true
		}
		if unicode.IsDigit(char) {
			hasDigit = true
		}
	}
	if !hasLetter {
		return fmt.Errorf("%w: password must contain at least one letter", apperrors.ErrValidationFailed)
	}
	if !hasDigit {
		return fmt.Errorf("%w: password must contain at least one digit", apperrors.ErrValidationFailed)
	}

	return nil
}

// randomDigits returns n cryptographically random decimal digits
func randomDigits(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			// crypto/rand only fails when the platform source is broken
			panic(fmt.Sprintf("random source unavailable: %v", err))
		}
		b.WriteString(d.String())
	}
	return b.String()
}

// generateFamilyCode produces a parent's alternate login key, FAM- followed by
// four digits
func generateFamilyCode() string {
	return "FAM-" + randomDigits(4)
}

// generateLinkCode produces a student's one-time link code: COAR- plus the
// first three letters of the name and four digits
func generateLinkCode(name string) string {
	letters := make([]rune, 0, 3)
	for _, r := range strings.ToUpper(name) {
		if r >= 'A' && r <= 'Z' {
			letters = append(letters, r)
			if len(letters) == 3 {
				break
			}
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	return "COAR-" + string(letters) + randomDigits(4)
}

// RegisterParent registers a new parent. When a link code is supplied, the
// family link is established atomically with the account.
func (s *AuthService) RegisterParent(ctx context.Context, req *dto.RegisterParentRequest) (*dto.RegisterParentResponse, error) {
	if err := s.validateDNI(req.DNI); err != nil {
		return nil, err
	}
	if err := s.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	var linkedStudentID *int64
	if req.LinkCode != "" {
		student, err := s.studentRepo.GetStudentByLinkCode(ctx, req.LinkCode)
		if err != nil {
			if errors.Is(err, apperrors.ErrStudentNotFound) {
				return nil, apperrors.ErrLinkCodeNotFound
			}
			return nil, err
		}
		linkedStudentID = &student.ID
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash parent password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	parent := &models.Parent{
		DNI:             req.DNI,
		PasswordHash:    hash,
		Name:            req.Name,
		Phone:           req.Phone,
		Address:         req.Address,
		LinkedStudentID: linkedStudentID,
	}

	// Retry on family code collision, the generated space is small
	var parentID int64
	for attempt := 0; attempt < codeGenAttempts; attempt++ {
		parent.FamilyCode = generateFamilyCode()
		parentID, err = s.parentRepo.CreateParent(ctx, parent)
		if err == nil || !errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			break
		}
		s.logger.Warn().Str("familyCode", parent.FamilyCode).Msg("Family code collision, retrying")
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("parentID", parentID).
		Str("familyCode", parent.FamilyCode).
		Bool("linked", linkedStudentID != nil).
		Msg("Parent registered")

	return &dto.RegisterParentResponse{
		ParentID:   parentID,
		FamilyCode: parent.FamilyCode,
		Linked:     linkedStudentID != nil,
	}, nil
}

// RegisterStudent registers a new student and mints its link code
func (s *AuthService) RegisterStudent(ctx context.Context, req *dto.RegisterStudentRequest) (*dto.RegisterStudentResponse, error) {
	if err := s.validateDNI(req.DNI); err != nil {
		return nil, err
	}
	if err := s.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash student password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	student := &models.Student{
		DNI:          req.DNI,
		PasswordHash: hash,
		Name:         req.Name,
		Grade:        req.Grade,
		Section:      req.Section,
		OriginCity:   req.OriginCity,
		Address:      req.Address,
		BirthDate:    req.BirthDate,
		BloodType:    req.BloodType,
	}

	var studentID int64
	for attempt := 0; attempt < codeGenAttempts; attempt++ {
		student.LinkCode = generateLinkCode(req.Name)
		studentID, err = s.studentRepo.CreateStudent(ctx, student)
		if err == nil || !errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			break
		}
		s.logger.Warn().Str("linkCode", student.LinkCode).Msg("Link code collision, retrying")
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("studentID", studentID).
		Str("linkCode", student.LinkCode).
		Msg("Student registered")

	return &dto.RegisterStudentResponse{
		StudentID: studentID,
		LinkCode:  student.LinkCode,
	}, nil
}

// Login authenticates a parent, student or admin. Parents may present their
// DNI or their family code as the identifier; students and admins always use
// their DNI.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	switch req.Role {
	case models.RoleParent:
		return s.loginParent(ctx, req.Identifier, req.Password)
	case models.RoleStudent:
		return s.loginStudent(ctx, req.Identifier, req.Password)
	case models.RoleAdmin:
		return s.loginAdmin(ctx, req.Identifier, req.Password)
	default:
		return nil, apperrors.ErrValidationFailed
	}
}

func (s *AuthService) loginParent(ctx context.Context, identifier, password string) (*dto.AuthResponse, error) {
	var parent *models.Parent
	var err error

	if dniRegex.MatchString(identifier) {
		parent, err = s.parentRepo.GetParentByDNI(ctx, identifier)
	} else {
		parent, err = s.parentRepo.GetParentByFamilyCode(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrParentNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(parent.PasswordHash, password) {
		s.logger.Warn().Str("identifier", identifier).Msg("Parent login with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.issueTokens(ctx, parent.ID, parent.DNI, models.RoleParent)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: *token,
		Role:  string(models.RoleParent),
		User:  parent,
	}, nil
}

func (s *AuthService) loginStudent(ctx context.Context, identifier, password string) (*dto.AuthResponse, error) {
	student, err := s.studentRepo.GetStudentByDNI(ctx, identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(student.PasswordHash, password) {
		s.logger.Warn().Str("identifier", identifier).Msg("Student login with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.issueTokens(ctx, student.ID, student.DNI, models.RoleStudent)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: *token,
		Role:  string(models.RoleStudent),
		User:  student,
	}, nil
}

func (s *AuthService) loginAdmin(ctx context.Context, identifier, password string) (*dto.AuthResponse, error) {
	admin, err := s.adminRepo.GetAdminByDNI(ctx, identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrAdminNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(admin.PasswordHash, password) {
		s.logger.Warn().Str("identifier", identifier).Msg("Admin login with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.issueTokens(ctx, admin.ID, admin.DNI, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: *token,
		Role:  string(models.RoleAdmin),
		User:  admin,
	}, nil
}

// issueTokens generates and persists a token pair for an authenticated account
func (s *AuthService) issueTokens(ctx context.Context, accountID int64, dni string, role models.RoleType) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(accountID, dni, role)
	if err != nil {
		s.logger.Error().Err(err).Int64("accountID", accountID).Msg("Failed to generate token pair")
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.tokenRepo.StoreRefreshToken(ctx, role, accountID, refreshToken, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:           accessToken,
		TokenType:             "Bearer",
		ExpiresIn:             int64(expiresIn),
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: int64(refreshExpiresIn),
	}, nil
}

// RefreshToken rotates a refresh token: the presented token is revoked and a
// fresh pair is issued
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	stored, err := s.tokenRepo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	if stored.Revoked {
		return nil, apperrors.ErrTokenRevoked
	}
	if stored.Expired() {
		return nil, apperrors.ErrTokenExpired
	}

	// Look the account up again so a deleted account cannot keep refreshing
	var dni string
	switch stored.Role {
	case models.RoleParent:
		parent, err := s.parentRepo.GetParentByID(ctx, stored.AccountID)
		if err != nil {
			return nil, err
		}
		dni = parent.DNI
	case models.RoleStudent:
		student, err := s.studentRepo.GetStudentByID(ctx, stored.AccountID)
		if err != nil {
			return nil, err
		}
		dni = student.DNI
	case models.RoleAdmin:
		admin, err := s.adminRepo.GetAdminByID(ctx, stored.AccountID)
		if err != nil {
			return nil, err
		}
		dni = admin.DNI
	default:
		return nil, apperrors.ErrTokenInvalid
	}

	if err := s.tokenRepo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, stored.AccountID, dni, stored.Role)
}
