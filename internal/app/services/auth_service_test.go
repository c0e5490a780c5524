package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coarpuno/recojo/internal/app/models"
	"github.com/coarpuno/recojo/internal/app/models/dto"
	"github.com/coarpuno/recojo/internal/pkg/apperrors"
	"github.com/coarpuno/recojo/internal/pkg/auth"
)

type authFixture struct {
	parents  *fakeParentRepo
	students *fakeStudentRepo
	admins   *fakeAdminRepo
	tokens   *fakeTokenRepo
	service  *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	parents := newFakeParentRepo()
	students := newFakeStudentRepo()
	admins := newFakeAdminRepo()
	tokens := newFakeTokenRepo()

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "recojo-test",
	})

	return &authFixture{
		parents:  parents,
		students: students,
		admins:   admins,
		tokens:   tokens,
		service:  NewAuthService(parents, students, admins, tokens, jwtService, zerolog.Nop()),
	}
}

func TestRegisterParentGeneratesFamilyCode(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.service.RegisterParent(context.Background(), &dto.RegisterParentRequest{
		DNI:      "40405050",
		Password: "maria2024",
		Name:     "María López",
		Phone:    "951000111",
	})
	require.NoError(t, err)

	assert.Positive(t, resp.ParentID)
	assert.Regexp(t, `^FAM-\d{4}$`, resp.FamilyCode)
	assert.False(t, resp.Linked)

	parent, err := f.parents.GetParentByID(context.Background(), resp.ParentID)
	require.NoError(t, err)
	assert.NotEqual(t, "maria2024", parent.PasswordHash, "password must be stored hashed")
}

func TestRegisterParentWithLinkCode(t *testing.T) {
	f := newAuthFixture(t)

	studentID, err := f.students.CreateStudent(context.Background(), &models.Student{
		DNI: "72345678", Name: "Ana Quispe", LinkCode: "COAR-ANA5678",
	})
	require.NoError(t, err)

	resp, err := f.service.RegisterParent(context.Background(), &dto.RegisterParentRequest{
		DNI:      "40405050",
		Password: "maria2024",
		Name:     "María López",
		LinkCode: "COAR-ANA5678",
	})
	require.NoError(t, err)
	assert.True(t, resp.Linked)

	parent, err := f.parents.GetParentByID(context.Background(), resp.ParentID)
	require.NoError(t, err)
	require.NotNil(t, parent.LinkedStudentID)
	assert.Equal(t, studentID, *parent.LinkedStudentID)
}

func TestRegisterParentUnknownLinkCode(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.RegisterParent(context.Background(), &dto.RegisterParentRequest{
		DNI:      "40405050",
		Password: "maria2024",
		Name:     "María López",
		LinkCode: "COAR-ZZZ0000",
	})
	assert.ErrorIs(t, err, apperrors.ErrLinkCodeNotFound)
}

func TestRegisterParentRejectsBadDNI(t *testing.T) {
	f := newAuthFixture(t)

	for _, dni := range []string{"", "1234567", "123456789", "1234567a"} {
		_, err := f.service.RegisterParent(context.Background(), &dto.RegisterParentRequest{
			DNI: dni, Password: "maria2024", Name: "María López",
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidDNI, "dni %q", dni)
	}
}

func TestRegisterStudentMintsLinkCode(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.service.RegisterStudent(context.Background(), &dto.RegisterStudentRequest{
		DNI:      "72345678",
		Password: "anita2024",
		Name:     "Ana Quispe",
		Grade:    "5to",
		Section:  "A",
	})
	require.NoError(t, err)

	assert.Regexp(t, `^COAR-ANA\d{4}$`, resp.LinkCode)

	student, err := f.students.GetStudentByID(context.Background(), resp.StudentID)
	require.NoError(t, err)
	assert.Equal(t, models.PickupNone, student.PickupAuthorization)
}

func TestLinkCodePadsShortNames(t *testing.T) {
	assert.True(t, strings.HasPrefix(generateLinkCode("Al"), "COAR-ALX"))
	assert.True(t, strings.HasPrefix(generateLinkCode(""), "COAR-XXX"))
}

func TestValidatePassword(t *testing.T) {
	f := newAuthFixture(t)

	assert.NoError(t, f.service.ValidatePassword("abc12345"))
	assert.Error(t, f.service.ValidatePassword("short1"))
	assert.Error(t, f.service.ValidatePassword("12345678"))
	assert.Error(t, f.service.ValidatePassword("abcdefgh"))
}

func TestLoginParentByDNIAndFamilyCode(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.service.RegisterParent(context.Background(), &dto.RegisterParentRequest{
		DNI: "40405050", Password: "maria2024", Name: "María López",
	})
	require.NoError(t, err)

	byDNI, err := f.service.Login(context.Background(), &dto.LoginRequest{
		Identifier: "40405050", Password: "maria2024", Role: models.RoleParent,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, byDNI.Token.AccessToken)
	assert.NotEmpty(t, byDNI.Token.RefreshToken)
	assert.Equal(t, string(models.RoleParent), byDNI.Role)

	byCode, err := f.service.Login(context.Background(), &dto.LoginRequest{
		Identifier: resp.FamilyCode, Password: "maria2024", Role: models.RoleParent,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, byCode.Token.AccessToken)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.RegisterStudent(context.Background(), &dto.RegisterStudentRequest{
		DNI: "72345678", Password: "anita2024", Name: "Ana Quispe",
	})
	require.NoError(t, err)

	_, err = f.service.Login(context.Background(), &dto.LoginRequest{
		Identifier: "72345678", Password: "wrong-password1", Role: models.RoleStudent,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.service.Login(context.Background(), &dto.LoginRequest{
		Identifier: "99999999", Password: "anita2024", Role: models.RoleStudent,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginAdmin(t *testing.T) {
	f := newAuthFixture(t)

	hash, err := auth.HashPassword("direccion2024")
	require.NoError(t, err)
	_, err = f.admins.CreateAdmin(context.Background(), &models.Admin{
		DNI: "10203040", PasswordHash: hash, Name: "Dirección COAR",
	})
	require.NoError(t, err)

	resp, err := f.service.Login(context.Background(), &dto.LoginRequest{
		Identifier: "10203040", Password: "direccion2024", Role: models.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, string(models.RoleAdmin), resp.Role)
	assert.NotEmpty(t, resp.Token.AccessToken)

	// Admin sessions rotate refresh tokens like any other role
	refreshed, err := f.service.RefreshToken(context.Background(), resp.Token.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = f.service.Login(context.Background(), &dto.LoginRequest{
		Identifier: "10203040", Password: "wrong-password1", Role: models.RoleAdmin,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.service.Login(context.Background(), &dto.LoginRequest{
		Identifier: "99999999", Password: "direccion2024", Role: models.RoleAdmin,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRefreshTokenRotation(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.RegisterStudent(context.Background(), &dto.RegisterStudentRequest{
		DNI: "72345678", Password: "anita2024", Name: "Ana Quispe",
	})
	require.NoError(t, err)

	login, err := f.service.Login(context.Background(), &dto.LoginRequest{
		Identifier: "72345678", Password: "anita2024", Role: models.RoleStudent,
	})
	require.NoError(t, err)

	refreshed, err := f.service.RefreshToken(context.Background(), login.Token.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, login.Token.RefreshToken, refreshed.RefreshToken)

	// The presented token is revoked on rotation and cannot be replayed
	_, err = f.service.RefreshToken(context.Background(), login.Token.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestRefreshTokenUnknown(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.RefreshToken(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}
