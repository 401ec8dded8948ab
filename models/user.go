package models

import (
	"time"
)

// Role is the fixed principal role. It never changes after the account is
// created.
type Role string

const (
	RoleApplicant Role = "user"    // submits documents and letters
	RoleOfficer   Role = "officer" // first-stage reviewer
	RoleHead      Role = "head"    // final approving authority
)

// ReviewSource returns the letter status this role acts on. The empty string
// means the role reviews nothing.
func (r Role) ReviewSource() string {
	switch r {
	case RoleOfficer:
		return LetterStatusSubmitted
	case RoleHead:
		return LetterStatusOfficerApproved
	}
	return ""
}

// ReviewOutcomes returns the approve and reject target statuses for a
// reviewer role.
func (r Role) ReviewOutcomes() (approved string, rejected string) {
	switch r {
	case RoleOfficer:
		return LetterStatusOfficerApproved, LetterStatusOfficerRejected
	case RoleHead:
		return LetterStatusHeadApproved, LetterStatusHeadRejected
	}
	return "", ""
}

type User struct {
	UserID      int     `gorm:"primaryKey;column:user_id" json:"user_id"`
	Username    string  `gorm:"column:username;unique" json:"username"`
	FullName    string  `gorm:"column:full_name" json:"full_name"`
	Designation string  `gorm:"column:designation" json:"designation"`
	Department  *string `gorm:"column:department" json:"department,omitempty"`
	Phone       *string `gorm:"column:phone" json:"phone,omitempty"`
	Password    string  `gorm:"column:password_hash" json:"-"`
	Role        Role    `gorm:"column:role" json:"role"`

	// Onboarding document references (stored filenames, content opaque).
	IdentityProof  *string `gorm:"column:identity_proof" json:"identity_proof,omitempty"`
	ResidenceProof *string `gorm:"column:residence_proof" json:"residence_proof,omitempty"`
	IncidentReport *string `gorm:"column:incident_report" json:"incident_report,omitempty"`

	Approved        bool `gorm:"column:approved" json:"approved"`
	ProfileComplete bool `gorm:"column:profile_complete" json:"profile_complete"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

// HasSubmittedDocs reports onboarding eligibility: identity plus residence
// proof, or an incident report on its own.
func (u *User) HasSubmittedDocs() bool {
	if u.IdentityProof != nil && u.ResidenceProof != nil {
		return true
	}
	return u.IncidentReport != nil
}

// CanAccessLetters reports whether the user may act in the review workflow.
// Officers are locked out until their profile is complete.
func (u *User) CanAccessLetters() bool {
	if u.Role == RoleHead {
		return true
	}
	return u.Role == RoleOfficer && u.ProfileComplete
}
