// Package seed loads the demo families used in development environments.
package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/coarpuno/recojo/internal/app/models"
	"github.com/coarpuno/recojo/internal/app/repositories"
	"github.com/coarpuno/recojo/internal/pkg/apperrors"
	"github.com/coarpuno/recojo/internal/pkg/auth"
)

// seedPassword is the shared password of all demo accounts
const seedPassword = "recojo2024"

type seedStudent struct {
	dni        string
	name       string
	grade      string
	section    string
	linkCode   string
	originCity string
	bloodType  string
	birthDate  string
}

type seedParent struct {
	dni        string
	name       string
	phone      string
	familyCode string
	// linkCode of the student this parent is linked to, empty for none
	studentLinkCode string
}

var seedStudents = []seedStudent{
	{
		dni:        "72345678",
		name:       "Ana Quispe",
		grade:      "5to",
		section:    "A",
		linkCode:   "COAR-ANA5678",
		originCity: "Juliaca",
		bloodType:  "O+",
		birthDate:  "12/05/2007",
	},
	{
		dni:        "71239876",
		name:       "Luis Mamani",
		grade:      "4to",
		section:    "B",
		linkCode:   "COAR-LUI1234",
		originCity: "Puno",
		bloodType:  "A+",
		birthDate:  "03/11/2008",
	},
}

type seedAdmin struct {
	dni  string
	name string
}

var seedAdmins = []seedAdmin{
	{
		dni:  "10203040",
		name: "Dirección COAR",
	},
}

var seedParents = []seedParent{
	{
		dni:             "40405050",
		name:            "María López",
		phone:           "951000111",
		familyCode:      "FAM-1234",
		studentLinkCode: "COAR-ANA5678",
	},
	{
		dni:        "41416060",
		name:       "Juan Perez",
		phone:      "951000222",
		familyCode: "FAM-5678",
	},
}

// CreateDefaultData inserts the demo students, parents and the admin account
// if they don't exist. Already-present rows are skipped, not updated.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	studentRepo := repositories.NewStudentRepository(dbPool)
	parentRepo := repositories.NewParentRepository(dbPool)
	adminRepo := repositories.NewAdminRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (students/parents/admins)...")

	hash, err := auth.HashPassword(seedPassword)
	if err != nil {
		return err
	}

	var finalErr error

	for _, s := range seedStudents {
		_, err := studentRepo.CreateStudent(ctx, &models.Student{
			DNI:          s.dni,
			PasswordHash: hash,
			Name:         s.name,
			Grade:        s.grade,
			Section:      s.section,
			LinkCode:     s.linkCode,
			OriginCity:   s.originCity,
			BloodType:    s.bloodType,
			BirthDate:    s.birthDate,
		})
		if err != nil && !apperrors.Is(err, apperrors.ErrStudentDNIExists, apperrors.ErrResourceAlreadyExists) {
			lgr.Error().Err(err).Str("dni", s.dni).Msg("Error seeding student")
			finalErr = errors.Join(finalErr, err)
		}
	}

	for _, p := range seedParents {
		var linkedStudentID *int64
		if p.studentLinkCode != "" {
			student, err := studentRepo.GetStudentByLinkCode(ctx, p.studentLinkCode)
			if err != nil {
				lgr.Error().Err(err).Str("linkCode", p.studentLinkCode).Msg("Error resolving seed link code")
				finalErr = errors.Join(finalErr, err)
			} else {
				linkedStudentID = &student.ID
			}
		}

		_, err := parentRepo.CreateParent(ctx, &models.Parent{
			DNI:             p.dni,
			FamilyCode:      p.familyCode,
			PasswordHash:    hash,
			Name:            p.name,
			Phone:           p.phone,
			LinkedStudentID: linkedStudentID,
		})
		if err != nil && !apperrors.Is(err, apperrors.ErrParentDNIExists,
			apperrors.ErrResourceAlreadyExists, apperrors.ErrStudentClaimed) {
			lgr.Error().Err(err).Str("dni", p.dni).Msg("Error seeding parent")
			finalErr = errors.Join(finalErr, err)
		}
	}

	for _, a := range seedAdmins {
		_, err := adminRepo.CreateAdmin(ctx, &models.Admin{
			DNI:          a.dni,
			PasswordHash: hash,
			Name:         a.name,
		})
		if err != nil && !apperrors.Is(err, apperrors.ErrAdminDNIExists) {
			lgr.Error().Err(err).Str("dni", a.dni).Msg("Error seeding admin")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data ready")
	}
	return finalErr
}
