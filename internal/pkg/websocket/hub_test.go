package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coarpuno/recojo/internal/app/models"
	"github.com/coarpuno/recojo/internal/app/views"
)

func testStudent(id int64, status models.PickupAuthStatus) *models.Student {
	return &models.Student{
		ID:                  id,
		DNI:                 "72345678",
		Name:                "Ana Quispe",
		LinkCode:            "COAR-ANA5678",
		PickupAuthorization: status,
	}
}

func newTestClient(hub *Hub, accountID int64, role models.RoleType, studentID int64, initial *models.Student) *Client {
	return &Client{
		hub:       hub,
		send:      make(chan []byte, 16),
		accountID: accountID,
		role:      role,
		studentID: studentID,
		initial:   initial,
		logger:    zerolog.Nop(),
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	go hub.Run()
	return hub
}

// receiveSnapshot waits for the next delivery on the client's send channel
func receiveSnapshot(t *testing.T, client *Client) StudentSnapshot {
	t.Helper()
	select {
	case data := <-client.send:
		var snapshot StudentSnapshot
		require.NoError(t, json.Unmarshal(data, &snapshot))
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return StudentSnapshot{}
	}
}

// expectNoSnapshot asserts nothing arrives on the client's send channel
func expectNoSnapshot(t *testing.T, client *Client) {
	t.Helper()
	select {
	case data, ok := <-client.send:
		if ok {
			t.Fatalf("unexpected snapshot delivered: %s", data)
		}
	case <-time.After(100 * time.Millisecond):
	}
}

func waitForSubscribers(t *testing.T, hub *Hub, studentID int64, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.SubscriberCount(studentID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("subscriber count for student %d never reached %d", studentID, want)
}

func TestInitialSnapshotNeverAlerts(t *testing.T) {
	hub := startHub(t)

	// Subscribing while a request is already PENDING must not fire the alert:
	// the alert marks a transition, not a state.
	client := newTestClient(hub, 1, models.RoleStudent, 1, testStudent(1, models.PickupPending))
	hub.register <- client

	snapshot := receiveSnapshot(t, client)
	assert.False(t, snapshot.Alert)
	assert.Equal(t, models.PickupPending, snapshot.Student.PickupAuthorization)
	assert.Equal(t, views.ViewPickupRequest, snapshot.View)
}

func TestPendingTransitionAlertsExactlyOnce(t *testing.T) {
	hub := startHub(t)

	client := newTestClient(hub, 1, models.RoleStudent, 1, testStudent(1, models.PickupNone))
	hub.register <- client

	initial := receiveSnapshot(t, client)
	assert.False(t, initial.Alert)
	assert.Equal(t, views.ViewDashboard, initial.View)

	hub.PublishStudent(testStudent(1, models.PickupPending))
	first := receiveSnapshot(t, client)
	assert.True(t, first.Alert, "transition into PENDING should alert")
	assert.Equal(t, views.ViewPickupRequest, first.View)

	// The same status delivered again stays silent
	hub.PublishStudent(testStudent(1, models.PickupPending))
	repeat := receiveSnapshot(t, client)
	assert.False(t, repeat.Alert, "repeated PENDING delivery should not alert")
}

func TestPendingAlertsAgainAfterLeavingPending(t *testing.T) {
	hub := startHub(t)

	client := newTestClient(hub, 1, models.RoleStudent, 1, testStudent(1, models.PickupNone))
	hub.register <- client
	receiveSnapshot(t, client)

	hub.PublishStudent(testStudent(1, models.PickupPending))
	assert.True(t, receiveSnapshot(t, client).Alert)

	hub.PublishStudent(testStudent(1, models.PickupApproved))
	approved := receiveSnapshot(t, client)
	assert.False(t, approved.Alert)
	assert.Equal(t, views.ViewExitPass, approved.View)

	// A fresh request after the previous one resolved is a new edge
	hub.PublishStudent(testStudent(1, models.PickupPending))
	assert.True(t, receiveSnapshot(t, client).Alert)
}

func TestParentSubscriptionNeverAlerts(t *testing.T) {
	hub := startHub(t)

	parent := newTestClient(hub, 42, models.RoleParent, 1, testStudent(1, models.PickupNone))
	hub.register <- parent
	assert.False(t, receiveSnapshot(t, parent).Alert)

	hub.PublishStudent(testStudent(1, models.PickupPending))
	snapshot := receiveSnapshot(t, parent)
	assert.False(t, snapshot.Alert, "alert is a student-side signal only")
	assert.Equal(t, views.ViewDashboard, snapshot.View, "parent always renders the dashboard")
	assert.False(t, snapshot.CanRequest, "request button disables while a request is pending")
}

// canRequest follows the transition table: enabled in NONE and REJECTED,
// disabled while PENDING or APPROVED.
func TestSnapshotCarriesCanRequest(t *testing.T) {
	hub := startHub(t)

	parent := newTestClient(hub, 42, models.RoleParent, 1, testStudent(1, models.PickupNone))
	hub.register <- parent
	assert.True(t, receiveSnapshot(t, parent).CanRequest)

	hub.PublishStudent(testStudent(1, models.PickupPending))
	assert.False(t, receiveSnapshot(t, parent).CanRequest)

	hub.PublishStudent(testStudent(1, models.PickupRejected))
	assert.True(t, receiveSnapshot(t, parent).CanRequest)

	hub.PublishStudent(testStudent(1, models.PickupApproved))
	assert.False(t, receiveSnapshot(t, parent).CanRequest)
}

func TestSnapshotsFanOutToAllSubscribersOfStudent(t *testing.T) {
	hub := startHub(t)

	student := newTestClient(hub, 1, models.RoleStudent, 1, testStudent(1, models.PickupNone))
	parent := newTestClient(hub, 42, models.RoleParent, 1, testStudent(1, models.PickupNone))
	other := newTestClient(hub, 2, models.RoleStudent, 2, testStudent(2, models.PickupNone))

	hub.register <- student
	hub.register <- parent
	hub.register <- other
	receiveSnapshot(t, student)
	receiveSnapshot(t, parent)
	receiveSnapshot(t, other)

	hub.PublishStudent(testStudent(1, models.PickupPending))

	assert.True(t, receiveSnapshot(t, student).Alert)
	assert.False(t, receiveSnapshot(t, parent).Alert)

	// A subscriber to a different student sees nothing
	expectNoSnapshot(t, other)
}

func TestMenuBroadcastReachesEverySubscriber(t *testing.T) {
	hub := startHub(t)

	student := newTestClient(hub, 1, models.RoleStudent, 1, testStudent(1, models.PickupNone))
	parent := newTestClient(hub, 42, models.RoleParent, 2, testStudent(2, models.PickupNone))

	hub.register <- student
	hub.register <- parent
	receiveSnapshot(t, student)
	receiveSnapshot(t, parent)

	hub.PublishMenu(&models.DailyMenu{Breakfast: "Quinua con leche", Lunch: "Arroz con pollo"})

	// The menu is school-wide: it crosses per-student groups
	for _, client := range []*Client{student, parent} {
		select {
		case data := <-client.send:
			var snapshot MenuSnapshot
			require.NoError(t, json.Unmarshal(data, &snapshot))
			assert.Equal(t, snapshotTypeMenu, snapshot.Type)
			require.NotNil(t, snapshot.Menu)
			assert.Equal(t, "Arroz con pollo", snapshot.Menu.Lunch)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for menu broadcast")
		}
	}
}

func TestSnapshotTypeDiscriminatesMessages(t *testing.T) {
	hub := startHub(t)

	client := newTestClient(hub, 1, models.RoleStudent, 1, testStudent(1, models.PickupNone))
	hub.register <- client

	assert.Equal(t, snapshotTypeStudent, receiveSnapshot(t, client).Type)
}

func TestUnregisteredClientReceivesNothing(t *testing.T) {
	hub := startHub(t)

	client := newTestClient(hub, 1, models.RoleStudent, 1, testStudent(1, models.PickupNone))
	hub.register <- client
	receiveSnapshot(t, client)

	hub.unregister <- client
	waitForSubscribers(t, hub, 1, 0)

	// Publish after teardown: the closed send channel must stay empty
	hub.PublishStudent(testStudent(1, models.PickupPending))
	expectNoSnapshot(t, client)
}

func TestSubscriberCount(t *testing.T) {
	hub := startHub(t)

	assert.Equal(t, 0, hub.SubscriberCount(1))

	a := newTestClient(hub, 1, models.RoleStudent, 1, testStudent(1, models.PickupNone))
	b := newTestClient(hub, 42, models.RoleParent, 1, testStudent(1, models.PickupNone))
	hub.register <- a
	hub.register <- b
	waitForSubscribers(t, hub, 1, 2)

	hub.unregister <- a
	waitForSubscribers(t, hub, 1, 1)
}

func TestSnapshotListenerObservesEveryPublish(t *testing.T) {
	hub := startHub(t)

	listener := make(chan *models.Student, 4)
	hub.AddSnapshotListener(listener)
	defer hub.RemoveSnapshotListener(listener)

	hub.PublishStudent(testStudent(1, models.PickupPending))

	select {
	case student := <-listener:
		assert.Equal(t, int64(1), student.ID)
		assert.Equal(t, models.PickupPending, student.PickupAuthorization)
	case <-time.After(2 * time.Second):
		t.Fatal("listener never received the published record")
	}
}
