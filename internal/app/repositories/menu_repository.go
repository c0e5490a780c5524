package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coarpuno/recojo/internal/app/models"
	"github.com/coarpuno/recojo/internal/pkg/logger"
)

// dailyMenuRowID is the key of the single daily_menu row, created by migration
const dailyMenuRowID = 1

// MenuRepository handles daily menu database operations
type MenuRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMenuRepository creates a new MenuRepository
func NewMenuRepository(db *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetDailyMenu retrieves the current daily menu
func (r *MenuRepository) GetDailyMenu(ctx context.Context) (*models.DailyMenu, error) {
	sql, args, err := r.sb.Select("breakfast", "recess", "lunch", "dinner", "updated_at").
		From("daily_menu").
		Where(squirrel.Eq{"id": dailyMenuRowID}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get daily menu SQL")
		return nil, fmt.Errorf("failed to build get daily menu query: %w", err)
	}

	var menu models.DailyMenu
	err = r.db.QueryRow(ctx, sql, args...).
		Scan(&menu.Breakfast, &menu.Recess, &menu.Lunch, &menu.Dinner, &menu.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Msg("Error scanning daily menu row")
		return nil, fmt.Errorf("error retrieving daily menu: %w", err)
	}

	return &menu, nil
}

// PutDailyMenu replaces the daily menu wholesale and returns the stored copy
func (r *MenuRepository) PutDailyMenu(ctx context.Context, menu models.DailyMenu) (*models.DailyMenu, error) {
	sql, args, err := r.sb.Update("daily_menu").
		Set("breakfast", menu.Breakfast).
		Set("recess", menu.Recess).
		Set("lunch", menu.Lunch).
		Set("dinner", menu.Dinner).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": dailyMenuRowID}).
		Suffix("RETURNING breakfast, recess, lunch, dinner, updated_at").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building put daily menu SQL")
		return nil, fmt.Errorf("failed to build put daily menu query: %w", err)
	}

	var stored models.DailyMenu
	err = r.db.QueryRow(ctx, sql, args...).
		Scan(&stored.Breakfast, &stored.Recess, &stored.Lunch, &stored.Dinner, &stored.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing put daily menu query")
		return nil, fmt.Errorf("error storing daily menu: %w", err)
	}

	logger.Info().Msg("Daily menu updated")
	return &stored, nil
}
