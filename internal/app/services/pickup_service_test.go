package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coarpuno/recojo/internal/app/models"
	"github.com/coarpuno/recojo/internal/pkg/apperrors"
	"github.com/coarpuno/recojo/internal/pkg/websocket"
)

type pickupFixture struct {
	parents   *fakeParentRepo
	students  *fakeStudentRepo
	notifier  *recordingNotifier
	snapshots chan *models.Student
	service   *PickupService
	parentID  int64
	studentID int64
}

func newPickupFixture(t *testing.T) *pickupFixture {
	t.Helper()

	parents := newFakeParentRepo()
	students := newFakeStudentRepo()
	notifier := &recordingNotifier{}

	hub := websocket.NewHub(zerolog.Nop())
	go hub.Run()

	snapshots := make(chan *models.Student, 16)
	hub.AddSnapshotListener(snapshots)

	studentID, err := students.CreateStudent(context.Background(), &models.Student{
		DNI:      "72345678",
		Name:     "Ana Quispe",
		LinkCode: "COAR-ANA5678",
	})
	require.NoError(t, err)

	parentID, err := parents.CreateParent(context.Background(), &models.Parent{
		DNI:             "40405050",
		FamilyCode:      "FAM-1234",
		Name:            "María López",
		LinkedStudentID: &studentID,
	})
	require.NoError(t, err)

	return &pickupFixture{
		parents:   parents,
		students:  students,
		notifier:  notifier,
		snapshots: snapshots,
		service:   NewPickupService(parents, students, hub, notifier, zerolog.Nop()),
		parentID:  parentID,
		studentID: studentID,
	}
}

func (f *pickupFixture) waitSnapshot(t *testing.T) *models.Student {
	t.Helper()
	select {
	case s := <-f.snapshots:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot published")
		return nil
	}
}

func TestRequestMovesAuthorizationToPending(t *testing.T) {
	f := newPickupFixture(t)

	student, err := f.service.Request(context.Background(), f.parentID)
	require.NoError(t, err)
	assert.Equal(t, models.PickupPending, student.PickupAuthorization)

	// The committed record reaches the hub and the device alert fires
	assert.Equal(t, models.PickupPending, f.waitSnapshot(t).PickupAuthorization)
	assert.Equal(t, 1, f.notifier.count())
}

func TestRequestWhilePendingIsRejected(t *testing.T) {
	f := newPickupFixture(t)

	_, err := f.service.Request(context.Background(), f.parentID)
	require.NoError(t, err)

	_, err = f.service.Request(context.Background(), f.parentID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Equal(t, 1, f.notifier.count(), "a rejected request must not alert the device")
}

func TestRequestRequiresFamilyLink(t *testing.T) {
	f := newPickupFixture(t)

	unlinkedID, err := f.parents.CreateParent(context.Background(), &models.Parent{
		DNI:        "41416060",
		FamilyCode: "FAM-5678",
		Name:       "Juan Perez",
	})
	require.NoError(t, err)

	_, err = f.service.Request(context.Background(), unlinkedID)
	assert.ErrorIs(t, err, apperrors.ErrNotLinked)
}

func TestRespondApprovesPendingRequest(t *testing.T) {
	f := newPickupFixture(t)

	_, err := f.service.Request(context.Background(), f.parentID)
	require.NoError(t, err)
	f.waitSnapshot(t)

	student, err := f.service.Respond(context.Background(), f.studentID, models.PickupApproved)
	require.NoError(t, err)
	assert.Equal(t, models.PickupApproved, student.PickupAuthorization)
	assert.Equal(t, models.PickupApproved, f.waitSnapshot(t).PickupAuthorization)
}

func TestRespondRequiresPendingRequest(t *testing.T) {
	f := newPickupFixture(t)

	_, err := f.service.Respond(context.Background(), f.studentID, models.PickupApproved)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestRespondRejectsInvalidDecision(t *testing.T) {
	f := newPickupFixture(t)

	_, err := f.service.Request(context.Background(), f.parentID)
	require.NoError(t, err)

	for _, decision := range []models.PickupAuthStatus{models.PickupNone, models.PickupPending, "YES"} {
		_, err := f.service.Respond(context.Background(), f.studentID, decision)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "decision %s", decision)
	}
}

func TestRejectedRequestCanBeRequestedAgain(t *testing.T) {
	f := newPickupFixture(t)

	_, err := f.service.Request(context.Background(), f.parentID)
	require.NoError(t, err)

	_, err = f.service.Respond(context.Background(), f.studentID, models.PickupRejected)
	require.NoError(t, err)

	student, err := f.service.Request(context.Background(), f.parentID)
	require.NoError(t, err)
	assert.Equal(t, models.PickupPending, student.PickupAuthorization)
	assert.Equal(t, 2, f.notifier.count())
}

func TestApprovedRequestStaysApproved(t *testing.T) {
	f := newPickupFixture(t)

	_, err := f.service.Request(context.Background(), f.parentID)
	require.NoError(t, err)
	_, err = f.service.Respond(context.Background(), f.studentID, models.PickupApproved)
	require.NoError(t, err)

	_, err = f.service.Request(context.Background(), f.parentID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	student, err := f.students.GetStudentByID(context.Background(), f.studentID)
	require.NoError(t, err)
	assert.Equal(t, models.PickupApproved, student.PickupAuthorization)
}
