package services

import (
	"sync"
	"time"

	"letter-approval-api/models"
)

// In-memory repository fakes. They honor the same contracts as the GORM
// implementations: Create enforces username uniqueness under a lock the way
// the unique index does, and Transition applies the status guard and the
// update as one critical section the way a single UPDATE statement does.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*models.User)}
}

func (f *fakeUserRepo) Create(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Username == user.Username {
			return ErrDuplicateHandle
		}
	}
	f.nextID++
	user.UserID = f.nextID
	clone := *user
	f.users[user.UserID] = &clone
	return nil
}

func (f *fakeUserRepo) FindByID(userID int) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) FindByUsername(username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeUserRepo) CountByRole(role models.Role) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, user := range f.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

func applyUserUpdates(user *models.User, updates map[string]interface{}) {
	setRef := func(dest **string, value interface{}) {
		if value == nil {
			*dest = nil
			return
		}
		s := value.(string)
		*dest = &s
	}
	for column, value := range updates {
		switch column {
		case "password_hash":
			user.Password = value.(string)
		case "department":
			setRef(&user.Department, value)
		case "phone":
			setRef(&user.Phone, value)
		case "identity_proof":
			setRef(&user.IdentityProof, value)
		case "residence_proof":
			setRef(&user.ResidenceProof, value)
		case "incident_report":
			setRef(&user.IncidentReport, value)
		case "approved":
			user.Approved = value.(bool)
		case "profile_complete":
			user.ProfileComplete = value.(bool)
		case "update_at":
			t := value.(time.Time)
			user.UpdateAt = &t
		}
	}
}

func (f *fakeUserRepo) Update(userID int, updates map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return ErrNotFound
	}
	applyUserUpdates(user, updates)
	return nil
}

func (f *fakeUserRepo) ApproveApplicant(userID int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok || user.Role != models.RoleApplicant || user.Approved {
		return 0, nil
	}
	user.Approved = true
	now := time.Now()
	user.UpdateAt = &now
	return 1, nil
}

func (f *fakeUserRepo) CompleteOfficerProfile(userID int, updates map[string]interface{}) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok || user.Role != models.RoleOfficer || user.ProfileComplete {
		return 0, nil
	}
	applyUserUpdates(user, updates)
	return 1, nil
}

func (f *fakeUserRepo) ListPendingApplicants() ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, user := range f.users {
		hasAnyDoc := user.IdentityProof != nil || user.ResidenceProof != nil || user.IncidentReport != nil
		if user.Role == models.RoleApplicant && !user.Approved && hasAnyDoc {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) ListByRole(role models.Role) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, user := range f.users {
		if user.Role == role {
			out = append(out, *user)
		}
	}
	return out, nil
}

type fakeLetterRepo struct {
	mu      sync.Mutex
	nextID  int
	letters map[int]*models.Letter
}

func newFakeLetterRepo() *fakeLetterRepo {
	return &fakeLetterRepo{letters: make(map[int]*models.Letter)}
}

func (f *fakeLetterRepo) Create(letter *models.Letter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	letter.LetterID = f.nextID
	clone := *letter
	f.letters[letter.LetterID] = &clone
	return nil
}

func (f *fakeLetterRepo) FindByID(letterID int) (*models.Letter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	letter, ok := f.letters[letterID]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *letter
	return &clone, nil
}

func (f *fakeLetterRepo) Transition(letterID int, fromStatus string, updates map[string]interface{}) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	letter, ok := f.letters[letterID]
	if !ok || letter.Status != fromStatus {
		return 0, nil
	}
	for column, value := range updates {
		switch column {
		case "status":
			letter.Status = value.(string)
		case "update_at":
			letter.UpdateAt = value.(time.Time)
		case "officer_id":
			reviewerID := value.(int)
			letter.OfficerID = &reviewerID
		case "officer_remark":
			remark := value.(string)
			letter.OfficerRemark = &remark
		case "head_id":
			reviewerID := value.(int)
			letter.HeadID = &reviewerID
		case "head_remark":
			remark := value.(string)
			letter.HeadRemark = &remark
		}
	}
	return 1, nil
}

func (f *fakeLetterRepo) ListByStatus(statuses []string) ([]models.Letter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := make(map[string]bool, len(statuses))
	for _, status := range statuses {
		wanted[status] = true
	}
	var out []models.Letter
	for _, letter := range f.letters {
		if wanted[letter.Status] {
			out = append(out, *letter)
		}
	}
	return out, nil
}

func (f *fakeLetterRepo) ListByAuthor(userID int) ([]models.Letter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Letter
	for _, letter := range f.letters {
		if letter.UserID == userID {
			out = append(out, *letter)
		}
	}
	return out, nil
}

func (f *fakeLetterRepo) ListReviewedBy(statuses []string, column string, reviewerID int) ([]models.Letter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := make(map[string]bool, len(statuses))
	for _, status := range statuses {
		wanted[status] = true
	}
	var out []models.Letter
	for _, letter := range f.letters {
		if !wanted[letter.Status] {
			continue
		}
		switch column {
		case "officer_id":
			if letter.OfficerID != nil && *letter.OfficerID == reviewerID {
				out = append(out, *letter)
			}
		case "head_id":
			if letter.HeadID != nil && *letter.HeadID == reviewerID {
				out = append(out, *letter)
			}
		}
	}
	return out, nil
}

func (f *fakeLetterRepo) ListAll() ([]models.Letter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Letter
	for _, letter := range f.letters {
		out = append(out, *letter)
	}
	return out, nil
}

// Test fixture helpers.

func strPtr(s string) *string { return &s }

func applicant(id int, approved bool) *models.User {
	return &models.User{
		UserID:         id,
		Username:       "applicant",
		FullName:       "Test Applicant",
		Designation:    "Clerk",
		Role:           models.RoleApplicant,
		Approved:       approved,
		IdentityProof:  strPtr("id.pdf"),
		ResidenceProof: strPtr("res.pdf"),
	}
}

func officer(id int, profileComplete bool) *models.User {
	return &models.User{
		UserID:          id,
		Username:        "officer",
		FullName:        "Test Officer",
		Designation:     "DO",
		Role:            models.RoleOfficer,
		Approved:        true,
		ProfileComplete: profileComplete,
	}
}

func head(id int) *models.User {
	return &models.User{
		UserID:          id,
		Username:        "head",
		FullName:        "Test Head",
		Designation:     "Head Department Officer",
		Role:            models.RoleHead,
		Approved:        true,
		ProfileComplete: true,
	}
}

func submittedLetter(repo *fakeLetterRepo, authorID int) *models.Letter {
	letter := &models.Letter{
		UserID:   authorID,
		Title:    "Leave Application",
		Content:  "body",
		Status:   models.LetterStatusSubmitted,
		CreateAt: time.Now(),
		UpdateAt: time.Now(),
	}
	repo.Create(letter)
	return letter
}
