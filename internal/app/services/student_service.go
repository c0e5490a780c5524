package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/coarpuno/recojo/internal/app/models"
	"github.com/coarpuno/recojo/internal/app/repositories"
	"github.com/coarpuno/recojo/internal/pkg/apperrors"
	"github.com/coarpuno/recojo/internal/pkg/websocket"
)

// StudentService handles student profile reads and device-driven updates.
// Every successful write is re-read and published to the hub so subscribers
// always receive the full committed record.
type StudentService struct {
	studentRepo repositories.IStudentRepository
	hub         *websocket.Hub
	logger      zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(
	studentRepo repositories.IStudentRepository,
	hub *websocket.Hub,
	logger zerolog.Logger,
) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		hub:         hub,
		logger:      logger,
	}
}

// GetStudent retrieves a student by ID
func (s *StudentService) GetStudent(ctx context.Context, studentID int64) (*models.Student, error) {
	return s.studentRepo.GetStudentByID(ctx, studentID)
}

// SetActivity updates what the student is currently doing
func (s *StudentService) SetActivity(ctx context.Context, studentID int64, activity models.ActivityStatus) (*models.Student, error) {
	if !activity.Valid() {
		return nil, apperrors.ErrInvalidActivity
	}

	if err := s.studentRepo.UpdateActivity(ctx, studentID, activity); err != nil {
		return nil, err
	}

	return s.publishCurrent(ctx, studentID)
}

// SubmitSurvey replaces the weekly survey wholesale and stamps it as completed
func (s *StudentService) SubmitSurvey(ctx context.Context, studentID int64, survey models.WeeklySurvey) (*models.Student, error) {
	if !survey.TransportMethod.Valid() {
		return nil, apperrors.ErrInvalidTransport
	}

	now := time.Now()
	survey.Completed = true
	survey.SubmittedAt = &now

	if err := s.studentRepo.UpdateSurvey(ctx, studentID, survey); err != nil {
		return nil, err
	}

	return s.publishCurrent(ctx, studentID)
}

// ReportTelemetry stores a device heartbeat
func (s *StudentService) ReportTelemetry(ctx context.Context, studentID int64, t models.Telemetry) (*models.Student, error) {
	if err := s.studentRepo.UpdateTelemetry(ctx, studentID, t); err != nil {
		return nil, err
	}

	return s.publishCurrent(ctx, studentID)
}

// publishCurrent re-reads the committed record and fans it out
func (s *StudentService) publishCurrent(ctx context.Context, studentID int64) (*models.Student, error) {
	student, err := s.studentRepo.GetStudentByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	s.hub.PublishStudent(student)
	return student, nil
}
