package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coarpuno/recojo/internal/app/models"
	"github.com/coarpuno/recojo/internal/pkg/apperrors"
	"github.com/coarpuno/recojo/internal/pkg/websocket"
)

func newStudentFixture(t *testing.T) (*StudentService, *fakeStudentRepo, chan *models.Student, int64) {
	t.Helper()

	students := newFakeStudentRepo()
	hub := websocket.NewHub(zerolog.Nop())
	go hub.Run()

	snapshots := make(chan *models.Student, 16)
	hub.AddSnapshotListener(snapshots)

	studentID, err := students.CreateStudent(context.Background(), &models.Student{
		DNI: "72345678", Name: "Ana Quispe", LinkCode: "COAR-ANA5678",
	})
	require.NoError(t, err)

	return NewStudentService(students, hub, zerolog.Nop()), students, snapshots, studentID
}

func TestSetActivity(t *testing.T) {
	service, _, snapshots, studentID := newStudentFixture(t)

	student, err := service.SetActivity(context.Background(), studentID, models.ActivityExit)
	require.NoError(t, err)
	require.NotNil(t, student.CurrentActivity)
	assert.Equal(t, models.ActivityExit, *student.CurrentActivity)

	published := <-snapshots
	require.NotNil(t, published.CurrentActivity)
	assert.Equal(t, models.ActivityExit, *published.CurrentActivity)
}

func TestSetActivityRejectsUnknownValue(t *testing.T) {
	service, _, _, studentID := newStudentFixture(t)

	_, err := service.SetActivity(context.Background(), studentID, "SLEEPING")
	assert.ErrorIs(t, err, apperrors.ErrInvalidActivity)
}

func TestSubmitSurveyStampsCompletion(t *testing.T) {
	service, _, snapshots, studentID := newStudentFixture(t)

	student, err := service.SubmitSurvey(context.Background(), studentID, models.WeeklySurvey{
		Destination:     "Juliaca",
		TransportMethod: models.TransportBus,
		HealthStatus:    "GOOD",
		Comments:        "Sin novedades",
	})
	require.NoError(t, err)

	assert.True(t, student.WeeklySurvey.Completed)
	require.NotNil(t, student.WeeklySurvey.SubmittedAt)
	assert.Equal(t, "Juliaca", student.WeeklySurvey.Destination)

	assert.True(t, (<-snapshots).WeeklySurvey.Completed)
}

func TestSubmitSurveyReplacesWholesale(t *testing.T) {
	service, _, snapshots, studentID := newStudentFixture(t)

	_, err := service.SubmitSurvey(context.Background(), studentID, models.WeeklySurvey{
		Destination:     "Juliaca",
		TransportMethod: models.TransportBus,
		HealthStatus:    "GOOD",
		Comments:        "Primera semana",
	})
	require.NoError(t, err)
	<-snapshots

	// A later submission with an empty comment clears the old one
	student, err := service.SubmitSurvey(context.Background(), studentID, models.WeeklySurvey{
		Destination:     "Puno",
		TransportMethod: models.TransportWalk,
		HealthStatus:    "GOOD",
	})
	require.NoError(t, err)
	assert.Equal(t, "Puno", student.WeeklySurvey.Destination)
	assert.Empty(t, student.WeeklySurvey.Comments)
}

func TestSubmitSurveyRejectsUnknownTransport(t *testing.T) {
	service, _, _, studentID := newStudentFixture(t)

	_, err := service.SubmitSurvey(context.Background(), studentID, models.WeeklySurvey{
		Destination:     "Juliaca",
		TransportMethod: "TELEPORT",
		HealthStatus:    "GOOD",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransport)
}

func TestReportTelemetry(t *testing.T) {
	service, _, snapshots, studentID := newStudentFixture(t)

	student, err := service.ReportTelemetry(context.Background(), studentID, models.Telemetry{
		BatteryLevel: 47,
		StressLevel:  20,
		Location:     models.Coordinates{Lat: -15.8855, Lng: -69.893},
		StatusText:   "En línea",
	})
	require.NoError(t, err)

	assert.Equal(t, 47, student.BatteryLevel)
	assert.Equal(t, 20, student.StressLevel)
	assert.Equal(t, -15.8855, student.Location.Lat)
	assert.Equal(t, "En línea", student.StatusText)
	assert.Equal(t, 47, (<-snapshots).BatteryLevel)
}

func TestTelemetryDoesNotTouchPickupAuthorization(t *testing.T) {
	service, students, _, studentID := newStudentFixture(t)

	require.NoError(t, students.UpdatePickupAuthorization(context.Background(), studentID,
		[]models.PickupAuthStatus{models.PickupNone}, models.PickupPending))

	student, err := service.ReportTelemetry(context.Background(), studentID, models.Telemetry{BatteryLevel: 12})
	require.NoError(t, err)
	assert.Equal(t, models.PickupPending, student.PickupAuthorization)
}
