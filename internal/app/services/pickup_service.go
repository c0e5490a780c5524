package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/coarpuno/recojo/internal/app/models"
	"github.com/coarpuno/recojo/internal/app/repositories"
	"github.com/coarpuno/recojo/internal/pkg/apperrors"
	"github.com/coarpuno/recojo/internal/pkg/notify"
	"github.com/coarpuno/recojo/internal/pkg/websocket"
)

// PickupService drives the pickup authorization state machine. The repository
// applies each transition conditionally on the expected current status, so
// concurrent requests cannot both win; the loser gets ErrInvalidTransition.
type PickupService struct {
	parentRepo  repositories.IParentRepository
	studentRepo repositories.IStudentRepository
	hub         *websocket.Hub
	notifier    notify.Notifier
	logger      zerolog.Logger
}

// NewPickupService creates a new PickupService
func NewPickupService(
	parentRepo repositories.IParentRepository,
	studentRepo repositories.IStudentRepository,
	hub *websocket.Hub,
	notifier notify.Notifier,
	logger zerolog.Logger,
) *PickupService {
	return &PickupService{
		parentRepo:  parentRepo,
		studentRepo: studentRepo,
		hub:         hub,
		notifier:    notifier,
		logger:      logger,
	}
}

// Request moves the linked student's authorization to PENDING on behalf of the
// parent. Allowed only from NONE or REJECTED; a request that is already
// PENDING or APPROVED stays untouched.
func (s *PickupService) Request(ctx context.Context, parentID int64) (*models.Student, error) {
	parent, err := s.parentRepo.GetParentByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if !parent.Linked() {
		return nil, apperrors.ErrNotLinked
	}
	studentID := *parent.LinkedStudentID

	err = s.studentRepo.UpdatePickupAuthorization(ctx, studentID,
		[]models.PickupAuthStatus{models.PickupNone, models.PickupRejected},
		models.PickupPending,
	)
	if err != nil {
		return nil, err
	}

	student, err := s.studentRepo.GetStudentByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	s.hub.PublishStudent(student)

	// Device alert is best effort, the snapshot already carries the request
	if err := s.notifier.PickupRequested(student.ID, student.Name); err != nil {
		s.logger.Warn().Err(err).Int64("studentID", student.ID).Msg("Pickup alert delivery failed")
	}

	s.logger.Info().
		Int64("parentID", parentID).
		Int64("studentID", student.ID).
		Msg("Pickup requested")

	return student, nil
}

// Respond records the student's answer to a pending request. Only PENDING can
// be answered and only with APPROVED or REJECTED.
func (s *PickupService) Respond(ctx context.Context, studentID int64, decision models.PickupAuthStatus) (*models.Student, error) {
	if !models.CanTransition(models.RoleStudent, models.PickupPending, decision) {
		return nil, apperrors.NewInvalidTransitionError(
			fmt.Sprintf("decision must be %s or %s", models.PickupApproved, models.PickupRejected))
	}

	err := s.studentRepo.UpdatePickupAuthorization(ctx, studentID,
		[]models.PickupAuthStatus{models.PickupPending},
		decision,
	)
	if err != nil {
		return nil, err
	}

	student, err := s.studentRepo.GetStudentByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	s.hub.PublishStudent(student)

	s.logger.Info().
		Int64("studentID", studentID).
		Str("decision", string(decision)).
		Msg("Pickup request answered")

	return student, nil
}
