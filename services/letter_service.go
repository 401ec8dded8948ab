package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"letter-approval-api/models"

	"gorm.io/gorm"
)

// letterRepository abstracts letter persistence. Transition is the
// compare-and-set primitive the state machine is built on: the status guard
// and the status update happen in a single statement, so of two concurrent
// reviewers exactly one sees a row change.
type letterRepository interface {
	Create(letter *models.Letter) error
	FindByID(letterID int) (*models.Letter, error)
	Transition(letterID int, fromStatus string, updates map[string]interface{}) (int64, error)
	ListByStatus(statuses []string) ([]models.Letter, error)
	ListByAuthor(userID int) ([]models.Letter, error)
	ListReviewedBy(statuses []string, column string, reviewerID int) ([]models.Letter, error)
	ListAll() ([]models.Letter, error)
}

type gormLetterRepository struct {
	db *gorm.DB
}

func (r *gormLetterRepository) Create(letter *models.Letter) error {
	return r.db.Create(letter).Error
}

func (r *gormLetterRepository) FindByID(letterID int) (*models.Letter, error) {
	var letter models.Letter
	if err := r.db.Preload("User").Preload("Officer").Preload("Head").
		Where("letter_id = ?", letterID).First(&letter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &letter, nil
}

func (r *gormLetterRepository) Transition(letterID int, fromStatus string, updates map[string]interface{}) (int64, error) {
	res := r.db.Model(&models.Letter{}).
		Where("letter_id = ? AND status = ?", letterID, fromStatus).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *gormLetterRepository) ListByStatus(statuses []string) ([]models.Letter, error) {
	var letters []models.Letter
	err := r.db.Preload("User").
		Where("status IN ?", statuses).
		Order("create_at DESC").
		Find(&letters).Error
	return letters, err
}

func (r *gormLetterRepository) ListByAuthor(userID int) ([]models.Letter, error) {
	var letters []models.Letter
	err := r.db.Where("user_id = ?", userID).
		Order("create_at DESC").
		Find(&letters).Error
	return letters, err
}

func (r *gormLetterRepository) ListReviewedBy(statuses []string, column string, reviewerID int) ([]models.Letter, error) {
	var letters []models.Letter
	err := r.db.Preload("User").
		Where("status IN ?", statuses).
		Where(fmt.Sprintf("%s = ?", column), reviewerID).
		Order("update_at DESC").
		Find(&letters).Error
	return letters, err
}

func (r *gormLetterRepository) ListAll() ([]models.Letter, error) {
	var letters []models.Letter
	err := r.db.Preload("User").Order("create_at DESC").Find(&letters).Error
	return letters, err
}

// LetterService runs the two-stage approval state machine:
//
//	submitted --(officer approve)--> officer_approved
//	submitted --(officer reject)---> officer_rejected   (terminal)
//	officer_approved --(head approve)--> head_approved  (terminal)
//	officer_approved --(head reject)---> head_rejected  (terminal)
//
// Every transition checks the acting role and the current status together;
// terminal states have no outgoing edges.
type LetterService struct {
	repo letterRepository
}

func NewLetterService(db *gorm.DB) *LetterService {
	return &LetterService{repo: &gormLetterRepository{db: db}}
}

// CreateFromTemplate renders a letter template for the author and persists
// it directly in submitted status. Creation and submission are one atomic
// action; no draft is ever stored.
func (s *LetterService) CreateFromTemplate(author *models.User, letterType string) (*models.Letter, error) {
	if !CanCreateLetter(author) {
		return nil, ErrInvalidStateTransition
	}

	tmpl, err := RenderLetterTemplate(letterType, author)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	letter := &models.Letter{
		UserID:   author.UserID,
		Title:    tmpl.Title,
		Content:  tmpl.Content,
		Status:   models.LetterStatusSubmitted,
		CreateAt: now,
		UpdateAt: now,
	}
	if err := s.repo.Create(letter); err != nil {
		return nil, fmt.Errorf("failed to create letter: %w", err)
	}
	return letter, nil
}

// Get fetches a letter. Visibility is the caller's concern via CanViewLetter.
func (s *LetterService) Get(letterID int) (*models.Letter, error) {
	return s.repo.FindByID(letterID)
}

// Approve runs the approve edge for the actor's role. The remark is
// optional and defaults to empty.
func (s *LetterService) Approve(actor *models.User, letterID int, remark string) (*models.Letter, error) {
	return s.review(actor, letterID, remark, true)
}

// Reject runs the reject edge for the actor's role. The remark is
// mandatory; this is the invariant separating reject from approve.
func (s *LetterService) Reject(actor *models.User, letterID int, remark string) (*models.Letter, error) {
	if strings.TrimSpace(remark) == "" {
		return nil, ErrMissingRemark
	}
	return s.review(actor, letterID, remark, false)
}

func (s *LetterService) review(actor *models.User, letterID int, remark string, approve bool) (*models.Letter, error) {
	if !actor.CanAccessLetters() {
		return nil, ErrInvalidStateTransition
	}
	fromStatus := actor.Role.ReviewSource()
	if fromStatus == "" {
		return nil, ErrInvalidStateTransition
	}

	// Existence first, so a missing letter is NotFound rather than a
	// state error.
	if _, err := s.repo.FindByID(letterID); err != nil {
		return nil, err
	}

	approvedStatus, rejectedStatus := actor.Role.ReviewOutcomes()
	toStatus := approvedStatus
	if !approve {
		toStatus = rejectedStatus
	}

	updates := map[string]interface{}{
		"status":    toStatus,
		"update_at": time.Now(),
	}
	// Exactly one attribution slot is written per transition.
	switch actor.Role {
	case models.RoleOfficer:
		updates["officer_id"] = actor.UserID
		updates["officer_remark"] = remark
	case models.RoleHead:
		updates["head_id"] = actor.UserID
		updates["head_remark"] = remark
	}

	rows, err := s.repo.Transition(letterID, fromStatus, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update letter status: %w", err)
	}
	if rows == 0 {
		// Lost the compare-and-set: wrong current status, or a
		// concurrent reviewer got there first.
		return nil, ErrInvalidStateTransition
	}

	return s.repo.FindByID(letterID)
}

// ListVisible returns every letter the viewer is allowed to see: all of
// them for the head, officer-stage letters for officers, own letters for
// applicants.
func (s *LetterService) ListVisible(viewer *models.User) ([]models.Letter, error) {
	switch viewer.Role {
	case models.RoleHead:
		return s.repo.ListAll()
	case models.RoleOfficer:
		return s.repo.ListByStatus([]string{
			models.LetterStatusSubmitted,
			models.LetterStatusOfficerApproved,
			models.LetterStatusOfficerRejected,
		})
	}
	return s.repo.ListByAuthor(viewer.UserID)
}

// PendingForReviewer lists the letters waiting on the actor's stage.
func (s *LetterService) PendingForReviewer(actor *models.User) ([]models.Letter, error) {
	fromStatus := actor.Role.ReviewSource()
	if fromStatus == "" {
		return nil, ErrInvalidStateTransition
	}
	return s.repo.ListByStatus([]string{fromStatus})
}

// ReviewedBy lists the letters the actor has already decided, newest
// decision first.
func (s *LetterService) ReviewedBy(actor *models.User) ([]models.Letter, error) {
	switch actor.Role {
	case models.RoleOfficer:
		return s.repo.ListReviewedBy(
			[]string{models.LetterStatusOfficerApproved, models.LetterStatusOfficerRejected},
			"officer_id", actor.UserID)
	case models.RoleHead:
		return s.repo.ListReviewedBy(
			[]string{models.LetterStatusHeadApproved, models.LetterStatusHeadRejected},
			"head_id", actor.UserID)
	}
	return nil, ErrInvalidStateTransition
}
