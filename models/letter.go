package models

import (
	"time"
)

// Letter statuses. A letter is created directly in "submitted"; creation and
// submission are one atomic action, so "draft" is never persisted by any
// current operation.
const (
	LetterStatusDraft           = "draft"
	LetterStatusSubmitted       = "submitted"
	LetterStatusOfficerApproved = "officer_approved"
	LetterStatusOfficerRejected = "officer_rejected"
	LetterStatusHeadApproved    = "head_approved"
	LetterStatusHeadRejected    = "head_rejected"
)

// officerVisibleStatuses are the stages an officer may see regardless of who
// reviewed the letter.
var officerVisibleStatuses = map[string]bool{
	LetterStatusSubmitted:       true,
	LetterStatusOfficerApproved: true,
	LetterStatusOfficerRejected: true,
}

type Letter struct {
	LetterID int    `gorm:"primaryKey;column:letter_id" json:"letter_id"`
	UserID   int    `gorm:"column:user_id" json:"user_id"`
	Title    string `gorm:"column:title" json:"title"`
	Content  string `gorm:"column:content" json:"content"`
	Status   string `gorm:"column:status" json:"status"`

	// Optional attachment reference (stored filename).
	Filename *string `gorm:"column:filename" json:"filename,omitempty"`

	OfficerID     *int    `gorm:"column:officer_id" json:"officer_id,omitempty"`
	OfficerRemark *string `gorm:"column:officer_remark" json:"officer_remark,omitempty"`
	HeadID        *int    `gorm:"column:head_id" json:"head_id,omitempty"`
	HeadRemark    *string `gorm:"column:head_remark" json:"head_remark,omitempty"`

	CreateAt time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	User    *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Officer *User `gorm:"foreignKey:OfficerID" json:"officer,omitempty"`
	Head    *User `gorm:"foreignKey:HeadID" json:"head,omitempty"`
}

// TableName overrides
func (Letter) TableName() string {
	return "letters"
}

// IsTerminal reports whether no further transition may leave the current
// status. There is no re-submission or appeal path.
func (l *Letter) IsTerminal() bool {
	switch l.Status {
	case LetterStatusOfficerRejected, LetterStatusHeadApproved, LetterStatusHeadRejected:
		return true
	}
	return false
}

// CanView reports letter visibility: the head sees everything, officers see
// letters while they are in an officer-stage status, and authors always see
// their own.
func (l *Letter) CanView(u *User) bool {
	if u.Role == RoleHead {
		return true
	}
	if u.Role == RoleOfficer && officerVisibleStatuses[l.Status] {
		return true
	}
	return u.UserID == l.UserID
}
