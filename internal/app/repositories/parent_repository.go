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

var parentColumns = []string{
	"id", "dni", "family_code", "password_hash", "name", "phone", "address",
	"avatar_url", "linked_student_id", "created_at", "updated_at",
}

// ParentRepository handles parent database operations
type ParentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewParentRepository creates a new ParentRepository
func NewParentRepository(db *pgxpool.Pool) *ParentRepository {
	return &ParentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanParent(row pgx.Row) (*models.Parent, error) {
	var p models.Parent
	err := row.Scan(
		&p.ID, &p.DNI, &p.FamilyCode, &p.PasswordHash, &p.Name, &p.Phone, &p.Address,
		&p.AvatarURL, &p.LinkedStudentID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateParent creates a new parent. dni and family_code uniqueness is
// enforced by database constraints.
func (r *ParentRepository) CreateParent(ctx context.Context, parent *models.Parent) (int64, error) {
	sql, args, err := r.sb.Insert("parents").
		Columns("dni", "family_code", "password_hash", "name", "phone", "address", "avatar_url", "linked_student_id").
		Values(parent.DNI, parent.FamilyCode, parent.PasswordHash, parent.Name, parent.Phone, parent.Address, parent.AvatarURL, parent.LinkedStudentID).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create parent SQL")
		return 0, fmt.Errorf("failed to build create parent query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "parents_dni_key") {
			logger.Warn().Str("dni", parent.DNI).Msg("Attempted to create parent with duplicate DNI")
			return 0, apperrors.ErrParentDNIExists
		}
		if dberrors.IsDuplicateConstraintError(err, "parents_family_code_key") {
			logger.Warn().Str("familyCode", parent.FamilyCode).Msg("Generated family code collided")
			return 0, apperrors.ErrResourceAlreadyExists
		}
		if dberrors.IsDuplicateConstraintError(err, "parents_linked_student_id_key") {
			logger.Warn().Str("dni", parent.DNI).Msg("Student already claimed by another parent at registration")
			return 0, apperrors.ErrStudentClaimed
		}
		logger.Error().Err(err).Str("dni", parent.DNI).Msg("Error executing create parent query")
		return 0, fmt.Errorf("error creating parent: %w", err)
	}

	logger.Info().Int64("parentID", id).Str("dni", parent.DNI).Msg("Parent created successfully")
	return id, nil
}

// GetParentByID retrieves a parent by ID
func (r *ParentRepository) GetParentByID(ctx context.Context, id int64) (*models.Parent, error) {
	return r.getParentBy(ctx, squirrel.Eq{"id": id})
}

// GetParentByDNI retrieves a parent by DNI
func (r *ParentRepository) GetParentByDNI(ctx context.Context, dni string) (*models.Parent, error) {
	return r.getParentBy(ctx, squirrel.Eq{"dni": dni})
}

// GetParentByFamilyCode retrieves a parent by family code (alternate login key)
func (r *ParentRepository) GetParentByFamilyCode(ctx context.Context, code string) (*models.Parent, error) {
	return r.getParentBy(ctx, squirrel.Eq{"family_code": code})
}

func (r *ParentRepository) getParentBy(ctx context.Context, where squirrel.Eq) (*models.Parent, error) {
	sql, args, err := r.sb.Select(parentColumns...).
		From("parents").
		Where(where).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get parent SQL")
		return nil, fmt.Errorf("failed to build get parent query: %w", err)
	}

	parent, err := scanParent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrParentNotFound
		}
		logger.Error().Err(err).Msg("Error scanning parent row")
		return nil, fmt.Errorf("error retrieving parent: %w", err)
	}

	return parent, nil
}

// LinkStudent sets linked_student_id once. The WHERE clause refuses a second
// link for the same parent and the unique index on linked_student_id refuses
// a second parent for the same student, so neither race can slip through.
func (r *ParentRepository) LinkStudent(ctx context.Context, parentID, studentID int64) error {
	sql, args, err := r.sb.Update("parents").
		Set("linked_student_id", studentID).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": parentID}).
		Where("linked_student_id IS NULL").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building link student SQL")
		return fmt.Errorf("failed to build link student query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "parents_linked_student_id_key") {
			logger.Warn().
				Int64("parentID", parentID).
				Int64("studentID", studentID).
				Msg("Student already claimed by another parent")
			return apperrors.ErrStudentClaimed
		}
		logger.Error().Err(err).Int64("parentID", parentID).Msg("Error linking student")
		return fmt.Errorf("error linking student: %w", err)
	}

	if tag.RowsAffected() == 0 {
		parent, getErr := r.GetParentByID(ctx, parentID)
		if getErr != nil {
			return getErr
		}
		if parent.Linked() {
			return apperrors.ErrAlreadyLinked
		}
		return apperrors.ErrParentNotFound
	}

	logger.Info().Int64("parentID", parentID).Int64("studentID", studentID).Msg("Parent linked to student")
	return nil
}
