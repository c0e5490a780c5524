package models

// PickupAuthStatus is the shared status field that coordinates a parent's
// request to take a student out of school and the student's response.
type PickupAuthStatus string

const (
	// PickupNone means no pickup has been requested
	PickupNone PickupAuthStatus = "NONE"
	// PickupPending means a parent requested pickup and the student has not answered yet
	PickupPending PickupAuthStatus = "PENDING"
	// PickupApproved means the student accepted the pickup request
	PickupApproved PickupAuthStatus = "APPROVED"
	// PickupRejected means the student declined the pickup request
	PickupRejected PickupAuthStatus = "REJECTED"
)

// Valid reports whether the status is one of the four known states
func (s PickupAuthStatus) Valid() bool {
	switch s {
	case PickupNone, PickupPending, PickupApproved, PickupRejected:
		return true
	}
	return false
}

// pickupTransitions is the full transition table, keyed by the acting role.
// Anything not listed here is an invalid transition and must be rejected at
// the service boundary, not just hidden in a client.
var pickupTransitions = map[RoleType]map[PickupAuthStatus][]PickupAuthStatus{
	RoleParent: {
		PickupNone:     {PickupPending},
		PickupRejected: {PickupPending},
	},
	RoleStudent: {
		PickupPending: {PickupApproved, PickupRejected},
	},
}

// CanTransition reports whether the given role may move the pickup
// authorization from one status to another.
func CanTransition(role RoleType, from, to PickupAuthStatus) bool {
	targets, ok := pickupTransitions[role][from]
	if !ok {
		return false
	}
	for _, t := range targets {
		if t == to {
			return true
		}
	}
	return false
}

// CanRequestPickup reports whether a parent request is currently allowed for
// this status. PENDING and APPROVED stay as they are until the student acts.
func (s PickupAuthStatus) CanRequestPickup() bool {
	return CanTransition(RoleParent, s, PickupPending)
}
