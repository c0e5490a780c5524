package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coarpuno/recojo/internal/app/models"
	"github.com/coarpuno/recojo/internal/pkg/apperrors"
	"github.com/coarpuno/recojo/internal/pkg/dberrors"
	"github.com/coarpuno/recojo/internal/pkg/logger"
)

// studentColumns is the full column set scanned into a models.Student
var studentColumns = []string{
	"id", "dni", "password_hash", "name", "grade", "section", "avatar_url",
	"link_code", "pickup_authorization", "current_activity",
	"survey_completed", "survey_destination", "survey_transport_method",
	"survey_health_status", "survey_comments", "survey_submitted_at",
	"origin_city", "address", "birth_date", "blood_type",
	"device_id", "battery_level", "stress_level", "location_lat", "location_lng",
	"status_text", "created_at", "updated_at",
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	err := row.Scan(
		&s.ID, &s.DNI, &s.PasswordHash, &s.Name, &s.Grade, &s.Section, &s.AvatarURL,
		&s.LinkCode, &s.PickupAuthorization, &s.CurrentActivity,
		&s.WeeklySurvey.Completed, &s.WeeklySurvey.Destination, &s.WeeklySurvey.TransportMethod,
		&s.WeeklySurvey.HealthStatus, &s.WeeklySurvey.Comments, &s.WeeklySurvey.SubmittedAt,
		&s.OriginCity, &s.Address, &s.BirthDate, &s.BloodType,
		&s.DeviceID, &s.BatteryLevel, &s.StressLevel, &s.Location.Lat, &s.Location.Lng,
		&s.StatusText, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateStudent creates a new student. pickup_authorization always starts at
// NONE regardless of the passed value; dni and link_code uniqueness is
// enforced by database constraints.
func (r *StudentRepository) CreateStudent(ctx context.Context, student *models.Student) (int64, error) {
	sql, args, err := r.sb.Insert("students").
		Columns("dni", "password_hash", "name", "grade", "section", "avatar_url",
			"link_code", "pickup_authorization",
			"survey_transport_method", "survey_health_status",
			"origin_city", "address", "birth_date", "blood_type",
			"device_id", "battery_level", "stress_level", "location_lat", "location_lng", "status_text").
		Values(student.DNI, student.PasswordHash, student.Name, student.Grade, student.Section, student.AvatarURL,
			student.LinkCode, models.PickupNone,
			models.TransportOther, "GOOD",
			student.OriginCity, student.Address, student.BirthDate, student.BloodType,
			student.DeviceID, student.BatteryLevel, student.StressLevel, student.Location.Lat, student.Location.Lng, student.StatusText).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return 0, fmt.Errorf("failed to build create student query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_dni_key") {
			logger.Warn().Str("dni", student.DNI).Msg("Attempted to create student with duplicate DNI")
			return 0, apperrors.ErrStudentDNIExists
		}
		if dberrors.IsDuplicateConstraintError(err, "students_link_code_key") {
			logger.Warn().Str("linkCode", student.LinkCode).Msg("Generated link code collided")
			return 0, apperrors.ErrResourceAlreadyExists
		}
		logger.Error().Err(err).Str("dni", student.DNI).Msg("Error executing create student query")
		return 0, fmt.Errorf("error creating student: %w", err)
	}

	logger.Info().Int64("studentID", id).Str("dni", student.DNI).Msg("Student created successfully")
	return id, nil
}

// GetStudentByID retrieves a student by ID
func (r *StudentRepository) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	return r.getStudentBy(ctx, squirrel.Eq{"id": id})
}

// GetStudentByDNI retrieves a student by DNI (the student login key)
func (r *StudentRepository) GetStudentByDNI(ctx context.Context, dni string) (*models.Student, error) {
	return r.getStudentBy(ctx, squirrel.Eq{"dni": dni})
}

// GetStudentByLinkCode retrieves a student by link code
func (r *StudentRepository) GetStudentByLinkCode(ctx context.Context, code string) (*models.Student, error) {
	return r.getStudentBy(ctx, squirrel.Eq{"link_code": code})
}

func (r *StudentRepository) getStudentBy(ctx context.Context, where squirrel.Eq) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(where).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get student SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Msg("Error scanning student row")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// UpdatePickupAuthorization moves the pickup authorization to a new status,
// but only if the current status is one of the expected values. The condition
// lives in the UPDATE itself so two concurrent transitions cannot both win.
func (r *StudentRepository) UpdatePickupAuthorization(ctx context.Context, id int64, from []models.PickupAuthStatus, to models.PickupAuthStatus) error {
	sql, args, err := r.sb.Update("students").
		Set("pickup_authorization", to).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id, "pickup_authorization": from}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building update pickup authorization SQL")
		return fmt.Errorf("failed to build update pickup authorization query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error updating pickup authorization")
		return fmt.Errorf("error updating pickup authorization: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Either the student does not exist or the status moved underneath us
		if _, getErr := r.GetStudentByID(ctx, id); getErr != nil {
			return getErr
		}
		logger.Warn().
			Int64("studentID", id).
			Str("to", string(to)).
			Msg("Pickup authorization transition rejected by current state")
		return apperrors.ErrInvalidTransition
	}

	logger.Info().Int64("studentID", id).Str("to", string(to)).Msg("Pickup authorization updated")
	return nil
}

// UpdateActivity sets the student's current activity
func (r *StudentRepository) UpdateActivity(ctx context.Context, id int64, activity models.ActivityStatus) error {
	return r.updateFields(ctx, id, map[string]interface{}{
		"current_activity": activity,
	})
}

// UpdateSurvey replaces the weekly survey wholesale
func (r *StudentRepository) UpdateSurvey(ctx context.Context, id int64, survey models.WeeklySurvey) error {
	return r.updateFields(ctx, id, map[string]interface{}{
		"survey_completed":        survey.Completed,
		"survey_destination":      survey.Destination,
		"survey_transport_method": survey.TransportMethod,
		"survey_health_status":    survey.HealthStatus,
		"survey_comments":         survey.Comments,
		"survey_submitted_at":     survey.SubmittedAt,
	})
}

// UpdateTelemetry stores the device heartbeat fields
func (r *StudentRepository) UpdateTelemetry(ctx context.Context, id int64, t models.Telemetry) error {
	return r.updateFields(ctx, id, map[string]interface{}{
		"battery_level": t.BatteryLevel,
		"stress_level":  t.StressLevel,
		"location_lat":  t.Location.Lat,
		"location_lng":  t.Location.Lng,
		"status_text":   t.StatusText,
	})
}

// updateFields applies a partial update touching only the given columns
func (r *StudentRepository) updateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	update := r.sb.Update("students").Set("updated_at", time.Now())
	for column, value := range fields {
		update = update.Set(column, value)
	}

	sql, args, err := update.Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update student SQL")
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error updating student fields")
		return fmt.Errorf("error updating student: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}
