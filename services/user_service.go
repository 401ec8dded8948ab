package services

import (
	"errors"
	"fmt"
	"time"

	"letter-approval-api/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// userRepository abstracts the persistence operations the user lifecycle
// needs, so the workflow rules stay testable without a database.
type userRepository interface {
	Create(user *models.User) error
	FindByID(userID int) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	CountByRole(role models.Role) (int64, error)
	Update(userID int, updates map[string]interface{}) error
	// ApproveApplicant flips approved false->true for an applicant and
	// reports the number of rows changed. Zero rows means the flag was
	// already set or the user is not an unapproved applicant.
	ApproveApplicant(userID int) (int64, error)
	// CompleteOfficerProfile applies the one-time profile updates for an
	// officer whose profile is still incomplete. Zero rows means the
	// profile was already completed.
	CompleteOfficerProfile(userID int, updates map[string]interface{}) (int64, error)
	ListPendingApplicants() ([]models.User, error)
	ListByRole(role models.Role) ([]models.User, error)
}

type gormUserRepository struct {
	db *gorm.DB
}

func (r *gormUserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateHandle
		}
		return err
	}
	return nil
}

func (r *gormUserRepository) FindByID(userID int) (*models.User, error) {
	var user models.User
	if err := r.db.Where("user_id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepository) CountByRole(role models.Role) (int64, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Where("role = ?", role).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *gormUserRepository) Update(userID int, updates map[string]interface{}) error {
	return r.db.Model(&models.User{}).Where("user_id = ?", userID).Updates(updates).Error
}

func (r *gormUserRepository) ApproveApplicant(userID int) (int64, error) {
	res := r.db.Model(&models.User{}).
		Where("user_id = ? AND role = ? AND approved = ?", userID, models.RoleApplicant, false).
		Updates(map[string]interface{}{
			"approved":  true,
			"update_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (r *gormUserRepository) CompleteOfficerProfile(userID int, updates map[string]interface{}) (int64, error) {
	res := r.db.Model(&models.User{}).
		Where("user_id = ? AND role = ? AND profile_complete = ?", userID, models.RoleOfficer, false).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *gormUserRepository) ListPendingApplicants() ([]models.User, error) {
	var users []models.User
	err := r.db.
		Where("role = ? AND approved = ?", models.RoleApplicant, false).
		Where("identity_proof IS NOT NULL OR residence_proof IS NOT NULL OR incident_report IS NOT NULL").
		Find(&users).Error
	return users, err
}

func (r *gormUserRepository) ListByRole(role models.Role) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("role = ?", role).Find(&users).Error
	return users, err
}

// UserService owns principal creation, credential checks and the onboarding
// approval gate.
type UserService struct {
	repo userRepository
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{repo: &gormUserRepository{db: db}}
}

// DocumentRefs carries stored-file references for an onboarding upload.
// Nil fields leave the existing reference untouched.
type DocumentRefs struct {
	IdentityProof  *string
	ResidenceProof *string
	IncidentReport *string
}

// Register creates an applicant account. The role is fixed at creation and
// the unique index on username resolves concurrent registrations: exactly
// one caller wins, the rest get ErrDuplicateHandle.
func (s *UserService) Register(username, fullName, designation, password string) (*models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		Username:    username,
		FullName:    fullName,
		Designation: designation,
		Password:    hash,
		Role:        models.RoleApplicant,
		CreateAt:    &now,
		UpdateAt:    &now,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateOfficer creates a first-stage reviewer account. Officers are born
// approved but with an incomplete profile, which keeps them out of the
// review workflow until they finish it.
func (s *UserService) CreateOfficer(username, fullName, designation, password string) (*models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	officer := &models.User{
		Username:        username,
		FullName:        fullName,
		Designation:     designation,
		Password:        hash,
		Role:            models.RoleOfficer,
		Approved:        true,
		ProfileComplete: false,
		CreateAt:        &now,
		UpdateAt:        &now,
	}
	if err := s.repo.Create(officer); err != nil {
		return nil, err
	}
	return officer, nil
}

// Authenticate verifies a credential pair. Unknown usernames and wrong
// passwords are deliberately indistinguishable to the caller.
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.repo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, err
	}
	if !CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredential
	}
	return user, nil
}

// GetByID fetches a single user.
func (s *UserService) GetByID(userID int) (*models.User, error) {
	return s.repo.FindByID(userID)
}

// ChangePassword verifies the current password before storing a new hash.
func (s *UserService) ChangePassword(userID int, currentPassword, newPassword string) error {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return err
	}
	if !CheckPasswordHash(currentPassword, user.Password) {
		return ErrInvalidCredential
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.repo.Update(userID, map[string]interface{}{
		"password_hash": hash,
		"update_at":     time.Now(),
	})
}

// SubmitDocuments records onboarding document references for an applicant.
// Eligibility is derived on read, never stored.
func (s *UserService) SubmitDocuments(userID int, refs DocumentRefs) (*models.User, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleApplicant {
		return nil, ErrInvalidStateTransition
	}

	updates := map[string]interface{}{"update_at": time.Now()}
	if refs.IdentityProof != nil {
		updates["identity_proof"] = *refs.IdentityProof
	}
	if refs.ResidenceProof != nil {
		updates["residence_proof"] = *refs.ResidenceProof
	}
	if refs.IncidentReport != nil {
		updates["incident_report"] = *refs.IncidentReport
	}
	if err := s.repo.Update(userID, updates); err != nil {
		return nil, err
	}
	return s.repo.FindByID(userID)
}

// CompleteOfficerProfile applies the mandatory one-time profile step for a
// new officer. A second attempt fails with ErrInvalidStateTransition.
func (s *UserService) CompleteOfficerProfile(userID int, department, phone string, identityRef, residenceRef *string) (*models.User, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleOfficer {
		return nil, ErrInvalidStateTransition
	}

	updates := map[string]interface{}{
		"department":       department,
		"phone":            phone,
		"profile_complete": true,
		"update_at":        time.Now(),
	}
	if identityRef != nil {
		updates["identity_proof"] = *identityRef
	}
	if residenceRef != nil {
		updates["residence_proof"] = *residenceRef
	}

	rows, err := s.repo.CompleteOfficerProfile(userID, updates)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrInvalidStateTransition
	}
	return s.repo.FindByID(userID)
}

// ApproveApplicant sets the approval flag for an eligible applicant. The
// flag only ever transitions false->true here; a concurrent duplicate
// approval loses the compare-and-set and fails.
func (s *UserService) ApproveApplicant(userID int) (*models.User, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleApplicant || !user.HasSubmittedDocs() {
		return nil, ErrInvalidStateTransition
	}

	rows, err := s.repo.ApproveApplicant(userID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrInvalidStateTransition
	}
	return s.repo.FindByID(userID)
}

// RejectApplicantDocuments clears all three document references and the
// approval flag in one update. The reset is atomic: the applicant is never
// observed with the flag set but documents gone, or the other way round.
func (s *UserService) RejectApplicantDocuments(userID int) (*models.User, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleApplicant {
		return nil, ErrInvalidStateTransition
	}

	if err := s.repo.Update(userID, map[string]interface{}{
		"identity_proof":  nil,
		"residence_proof": nil,
		"incident_report": nil,
		"approved":        false,
		"update_at":       time.Now(),
	}); err != nil {
		return nil, err
	}
	return s.repo.FindByID(userID)
}

// PendingApplicants lists unapproved applicants that have uploaded at least
// one document, for the head's review queue.
func (s *UserService) PendingApplicants() ([]models.User, error) {
	return s.repo.ListPendingApplicants()
}

// Officers lists all first-stage reviewer accounts.
func (s *UserService) Officers() ([]models.User, error) {
	return s.repo.ListByRole(models.RoleOfficer)
}

// SeedDefaultAccounts creates one head and one officer account when no
// account of that role exists yet. Running it again seeds nothing.
func (s *UserService) SeedDefaultAccounts() error {
	heads, err := s.repo.CountByRole(models.RoleHead)
	if err != nil {
		return fmt.Errorf("failed to count head accounts: %w", err)
	}
	if heads == 0 {
		hash, err := HashPassword("head123")
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}
		now := time.Now()
		head := &models.User{
			Username:        "head",
			FullName:        "Senior DO",
			Designation:     "Head Department Officer",
			Password:        hash,
			Role:            models.RoleHead,
			Approved:        true,
			ProfileComplete: true,
			CreateAt:        &now,
			UpdateAt:        &now,
		}
		if err := s.repo.Create(head); err != nil && !errors.Is(err, ErrDuplicateHandle) {
			return fmt.Errorf("failed to seed head account: %w", err)
		}
	}

	officers, err := s.repo.CountByRole(models.RoleOfficer)
	if err != nil {
		return fmt.Errorf("failed to count officer accounts: %w", err)
	}
	if officers == 0 {
		hash, err := HashPassword("do123")
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}
		now := time.Now()
		officer := &models.User{
			Username:        "do",
			FullName:        "Department Officer",
			Designation:     "DO",
			Password:        hash,
			Role:            models.RoleOfficer,
			Approved:        true,
			ProfileComplete: false,
			CreateAt:        &now,
			UpdateAt:        &now,
		}
		if err := s.repo.Create(officer); err != nil && !errors.Is(err, ErrDuplicateHandle) {
			return fmt.Errorf("failed to seed officer account: %w", err)
		}
	}

	return nil
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with its stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
