package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coarpuno/recojo/internal/app/models"
	"github.com/coarpuno/recojo/internal/pkg/apperrors"
	"github.com/coarpuno/recojo/internal/pkg/dberrors"
	"github.com/coarpuno/recojo/internal/pkg/logger"
)

var adminColumns = []string{
	"id", "dni", "password_hash", "name", "created_at", "updated_at",
}

// AdminRepository handles admin account database operations
type AdminRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanAdmin(row pgx.Row) (*models.Admin, error) {
	var a models.Admin
	err := row.Scan(&a.ID, &a.DNI, &a.PasswordHash, &a.Name, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAdmin creates a new admin account. dni uniqueness is enforced by a
// database constraint.
func (r *AdminRepository) CreateAdmin(ctx context.Context, admin *models.Admin) (int64, error) {
	sql, args, err := r.sb.Insert("admins").
		Columns("dni", "password_hash", "name").
		Values(admin.DNI, admin.PasswordHash, admin.Name).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create admin SQL")
		return 0, fmt.Errorf("failed to build create admin query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "admins_dni_key") {
			logger.Warn().Str("dni", admin.DNI).Msg("Attempted to create admin with duplicate DNI")
			return 0, apperrors.ErrAdminDNIExists
		}
		logger.Error().Err(err).Str("dni", admin.DNI).Msg("Error executing create admin query")
		return 0, fmt.Errorf("error creating admin: %w", err)
	}

	logger.Info().Int64("adminID", id).Str("dni", admin.DNI).Msg("Admin created successfully")
	return id, nil
}

// GetAdminByID retrieves an admin by ID
func (r *AdminRepository) GetAdminByID(ctx context.Context, id int64) (*models.Admin, error) {
	return r.getAdminBy(ctx, squirrel.Eq{"id": id})
}

// GetAdminByDNI retrieves an admin by DNI
func (r *AdminRepository) GetAdminByDNI(ctx context.Context, dni string) (*models.Admin, error) {
	return r.getAdminBy(ctx, squirrel.Eq{"dni": dni})
}

func (r *AdminRepository) getAdminBy(ctx context.Context, where squirrel.Eq) (*models.Admin, error) {
	sql, args, err := r.sb.Select(adminColumns...).
		From("admins").
		Where(where).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get admin SQL")
		return nil, fmt.Errorf("failed to build get admin query: %w", err)
	}

	admin, err := scanAdmin(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAdminNotFound
		}
		logger.Error().Err(err).Msg("Error scanning admin row")
		return nil, fmt.Errorf("error retrieving admin: %w", err)
	}

	return admin, nil
}
