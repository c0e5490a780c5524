package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/coarpuno/recojo/internal/app/models"
	"github.com/coarpuno/recojo/internal/app/repositories"
	"github.com/coarpuno/recojo/internal/pkg/websocket"
)

// MenuService maintains the cafeteria daily menu. Every save replaces the
// whole document and is broadcast to all connected sessions.
type MenuService struct {
	menuRepo repositories.IMenuRepository
	hub      *websocket.Hub
	logger   zerolog.Logger
}

// NewMenuService creates a new MenuService
func NewMenuService(menuRepo repositories.IMenuRepository, hub *websocket.Hub, logger zerolog.Logger) *MenuService {
	return &MenuService{
		menuRepo: menuRepo,
		hub:      hub,
		logger:   logger,
	}
}

// GetMenu returns the current daily menu
func (s *MenuService) GetMenu(ctx context.Context) (*models.DailyMenu, error) {
	return s.menuRepo.GetDailyMenu(ctx)
}

// UpdateMenu replaces the daily menu and broadcasts the stored copy. The hub
// only sees the document the store acknowledged.
func (s *MenuService) UpdateMenu(ctx context.Context, menu models.DailyMenu) (*models.DailyMenu, error) {
	stored, err := s.menuRepo.PutDailyMenu(ctx, menu)
	if err != nil {
		return nil, err
	}

	s.hub.PublishMenu(stored)

	s.logger.Info().
		Str("breakfast", stored.Breakfast).
		Str("lunch", stored.Lunch).
		Msg("Daily menu published")

	return stored, nil
}
