package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []PickupAuthStatus{PickupNone, PickupPending, PickupApproved, PickupRejected}

func TestCanTransition_Table(t *testing.T) {
	tests := []struct {
		name string
		role RoleType
		from PickupAuthStatus
		to   PickupAuthStatus
		want bool
	}{
		{"parent requests from NONE", RoleParent, PickupNone, PickupPending, true},
		{"parent re-requests after rejection", RoleParent, PickupRejected, PickupPending, true},
		{"parent cannot approve", RoleParent, PickupPending, PickupApproved, false},
		{"parent cannot reject", RoleParent, PickupPending, PickupRejected, false},
		{"parent cannot reverse approval", RoleParent, PickupApproved, PickupNone, false},
		{"parent cannot re-request while pending", RoleParent, PickupPending, PickupPending, false},
		{"parent cannot re-request after approval", RoleParent, PickupApproved, PickupPending, false},
		{"student approves pending", RoleStudent, PickupPending, PickupApproved, true},
		{"student rejects pending", RoleStudent, PickupPending, PickupRejected, true},
		{"student cannot approve without request", RoleStudent, PickupNone, PickupApproved, false},
		{"student cannot request", RoleStudent, PickupNone, PickupPending, false},
		{"student cannot flip a rejection", RoleStudent, PickupRejected, PickupApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.role, tt.from, tt.to))
		})
	}
}

// APPROVED must be unreachable except from PENDING, for any actor.
func TestApprovedOnlyReachableThroughPending(t *testing.T) {
	for _, role := range []RoleType{RoleParent, RoleStudent} {
		for _, from := range allStatuses {
			if from == PickupPending {
				continue
			}
			assert.Falsef(t, CanTransition(role, from, PickupApproved),
				"role %s must not reach APPROVED from %s", role, from)
		}
	}
}

// A re-request after rejection lands in the same PENDING state as a fresh
// request and is approvable again.
func TestRequestRejectRerequestRoundTrip(t *testing.T) {
	status := PickupNone

	assert.True(t, CanTransition(RoleParent, status, PickupPending))
	status = PickupPending

	assert.True(t, CanTransition(RoleStudent, status, PickupRejected))
	status = PickupRejected

	assert.True(t, CanTransition(RoleParent, status, PickupPending))
	status = PickupPending

	assert.True(t, CanTransition(RoleStudent, status, PickupApproved))
}

func TestCanRequestPickup(t *testing.T) {
	assert.True(t, PickupNone.CanRequestPickup())
	assert.True(t, PickupRejected.CanRequestPickup())
	assert.False(t, PickupPending.CanRequestPickup())
	assert.False(t, PickupApproved.CanRequestPickup())
}

func TestStatusValid(t *testing.T) {
	for _, s := range allStatuses {
		assert.True(t, s.Valid())
	}
	assert.False(t, PickupAuthStatus("WAITING").Valid())
	assert.False(t, PickupAuthStatus("").Valid())
}
