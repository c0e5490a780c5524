// Package views maps an account role and the current pickup authorization to
// the screen a client should render. The mapping is total and side-effect
// free; alerts and notifications are the sync bridge's job, not this one's.
package views

import "github.com/coarpuno/recojo/internal/app/models"

// View identifies a client screen
type View string

const (
	// ViewDashboard is the normal dashboard for either role
	ViewDashboard View = "DASHBOARD"
	// ViewPickupRequest is the student's accept/decline modal
	ViewPickupRequest View = "PICKUP_REQUEST"
	// ViewExitPass is the student's exit-pass ticket
	ViewExitPass View = "EXIT_PASS"
)

// Resolve returns the view for a role and pickup status. Every combination
// maps to exactly one view; unknown statuses fall back to the dashboard so a
// client never renders nothing.
func Resolve(role models.RoleType, status models.PickupAuthStatus) View {
	if role != models.RoleStudent {
		return ViewDashboard
	}
	switch status {
	case models.PickupPending:
		return ViewPickupRequest
	case models.PickupApproved:
		return ViewExitPass
	default:
		return ViewDashboard
	}
}
