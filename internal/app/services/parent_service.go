package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/coarpuno/recojo/internal/app/models"
	"github.com/coarpuno/recojo/internal/app/repositories"
	"github.com/coarpuno/recojo/internal/pkg/apperrors"
)

// ParentService handles parent profile reads and the one-time family link
type ParentService struct {
	parentRepo  repositories.IParentRepository
	studentRepo repositories.IStudentRepository
	logger      zerolog.Logger
}

// NewParentService creates a new ParentService
func NewParentService(
	parentRepo repositories.IParentRepository,
	studentRepo repositories.IStudentRepository,
	logger zerolog.Logger,
) *ParentService {
	return &ParentService{
		parentRepo:  parentRepo,
		studentRepo: studentRepo,
		logger:      logger,
	}
}

// GetParent retrieves a parent by ID
func (s *ParentService) GetParent(ctx context.Context, parentID int64) (*models.Parent, error) {
	return s.parentRepo.GetParentByID(ctx, parentID)
}

// GetLinkedStudent retrieves the student this parent is linked to
func (s *ParentService) GetLinkedStudent(ctx context.Context, parentID int64) (*models.Student, error) {
	parent, err := s.parentRepo.GetParentByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if !parent.Linked() {
		return nil, apperrors.ErrNotLinked
	}
	return s.studentRepo.GetStudentByID(ctx, *parent.LinkedStudentID)
}

// LinkStudent redeems a link code for the parent. The link is permanent: a
// linked parent cannot redeem a second code and a claimed student cannot be
// claimed again.
func (s *ParentService) LinkStudent(ctx context.Context, parentID int64, linkCode string) (*models.Student, error) {
	student, err := s.studentRepo.GetStudentByLinkCode(ctx, linkCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrLinkCodeNotFound
		}
		return nil, err
	}

	if err := s.parentRepo.LinkStudent(ctx, parentID, student.ID); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("parentID", parentID).
		Int64("studentID", student.ID).
		Msg("Family link established")

	return student, nil
}
