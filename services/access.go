package services

import (
	"letter-approval-api/models"
)

// Next-step routing decisions. The order in NextStep is fixed:
// profile completion first, then approval pending, then the workflow page.
const (
	StepHeadDashboard    = "head_dashboard"
	StepOfficerProfile   = "officer_profile"
	StepOfficerDashboard = "officer_dashboard"
	StepProfile          = "profile"
	StepPendingApproval  = "pending_approval"
	StepHome             = "home"
)

// NextStep returns where a freshly authenticated user belongs. Clients
// navigate from this decision; the server keeps no referrer state.
func NextStep(u *models.User) string {
	switch u.Role {
	case models.RoleHead:
		return StepHeadDashboard
	case models.RoleOfficer:
		if !u.ProfileComplete {
			return StepOfficerProfile
		}
		return StepOfficerDashboard
	}
	if !u.HasSubmittedDocs() {
		return StepProfile
	}
	if !u.Approved {
		return StepPendingApproval
	}
	return StepHome
}

// CanCreateLetter reports whether the user may start a letter submission.
// Only approved, document-complete applicants qualify.
func CanCreateLetter(u *models.User) bool {
	return u.Role == models.RoleApplicant && u.Approved && u.HasSubmittedDocs()
}

// CanReviewLetters reports whether the user may act as a reviewer at all.
func CanReviewLetters(u *models.User) bool {
	return u.CanAccessLetters()
}

// CanViewLetter reports per-letter visibility, delegating to the
// state-dependent rule on the letter itself.
func CanViewLetter(u *models.User, l *models.Letter) bool {
	return l.CanView(u)
}

// CanManageUsers reports whether the user may review onboarding documents
// and create officer accounts. Only the head can.
func CanManageUsers(u *models.User) bool {
	return u.Role == models.RoleHead
}
