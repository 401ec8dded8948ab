package services

import (
	"errors"
	"sync"
	"testing"

	"letter-approval-api/models"
)

func newUserService(repo *fakeUserRepo) *UserService {
	return &UserService{repo: repo}
}

func TestRegisterDuplicateHandle(t *testing.T) {
	svc := newUserService(newFakeUserRepo())

	if _, err := svc.Register("alice", "Alice A", "Clerk", "secret123"); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if _, err := svc.Register("alice", "Alice B", "Clerk", "secret123"); !errors.Is(err, ErrDuplicateHandle) {
		t.Fatalf("expected ErrDuplicateHandle, got %v", err)
	}
}

func TestConcurrentRegistrationExactlyOneWins(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo)

	const racers = 4
	results := make([]error, racers)

	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Register("alice", "Alice", "Clerk", "secret123")
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrDuplicateHandle):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one successful registration, got %d", successes)
	}

	stored, err := repo.ListByRole(models.RoleApplicant)
	if err != nil {
		t.Fatalf("ListByRole returned error: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected exactly one stored account, got %d", len(stored))
	}
}

func TestRegisterFixesRoleAndHashesPassword(t *testing.T) {
	svc := newUserService(newFakeUserRepo())

	user, err := svc.Register("alice", "Alice", "Clerk", "secret123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Role != models.RoleApplicant {
		t.Fatalf("expected applicant role, got %q", user.Role)
	}
	if user.Approved {
		t.Fatalf("new applicants must not be pre-approved")
	}
	if user.Password == "secret123" {
		t.Fatalf("password must be stored hashed")
	}
	if !CheckPasswordHash("secret123", user.Password) {
		t.Fatalf("stored hash does not verify")
	}
}

func TestAuthenticateIndistinguishableFailures(t *testing.T) {
	svc := newUserService(newFakeUserRepo())
	if _, err := svc.Register("alice", "Alice", "Clerk", "secret123"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if _, err := svc.Authenticate("alice", "wrong"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential for wrong password, got %v", err)
	}
	if _, err := svc.Authenticate("nobody", "secret123"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential for unknown handle, got %v", err)
	}
	if _, err := svc.Authenticate("alice", "secret123"); err != nil {
		t.Fatalf("expected successful login, got %v", err)
	}
}

func TestEligibilityDerivation(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo)

	user, err := svc.Register("alice", "Alice", "Clerk", "secret123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.HasSubmittedDocs() {
		t.Fatalf("fresh applicant must not be eligible")
	}

	user, err = svc.SubmitDocuments(user.UserID, DocumentRefs{IdentityProof: strPtr("id.pdf")})
	if err != nil {
		t.Fatalf("SubmitDocuments returned error: %v", err)
	}
	if user.HasSubmittedDocs() {
		t.Fatalf("identity proof alone must not be enough")
	}

	user, err = svc.SubmitDocuments(user.UserID, DocumentRefs{ResidenceProof: strPtr("res.pdf")})
	if err != nil {
		t.Fatalf("SubmitDocuments returned error: %v", err)
	}
	if !user.HasSubmittedDocs() {
		t.Fatalf("identity plus residence proof must be eligible")
	}

	// An incident report alone also qualifies.
	other, err := svc.Register("bob", "Bob", "Clerk", "secret123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	other, err = svc.SubmitDocuments(other.UserID, DocumentRefs{IncidentReport: strPtr("fir.pdf")})
	if err != nil {
		t.Fatalf("SubmitDocuments returned error: %v", err)
	}
	if !other.HasSubmittedDocs() {
		t.Fatalf("incident report alone must be eligible")
	}
}

func TestApproveApplicantRequiresEligibility(t *testing.T) {
	svc := newUserService(newFakeUserRepo())

	user, err := svc.Register("alice", "Alice", "Clerk", "secret123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if _, err := svc.ApproveApplicant(user.UserID); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition for ineligible applicant, got %v", err)
	}

	if _, err := svc.SubmitDocuments(user.UserID, DocumentRefs{
		IdentityProof:  strPtr("id.pdf"),
		ResidenceProof: strPtr("res.pdf"),
	}); err != nil {
		t.Fatalf("SubmitDocuments returned error: %v", err)
	}

	approved, err := svc.ApproveApplicant(user.UserID)
	if err != nil {
		t.Fatalf("ApproveApplicant returned error: %v", err)
	}
	if !approved.Approved {
		t.Fatalf("approval flag must be set")
	}

	// The flag only transitions false->true once.
	if _, err := svc.ApproveApplicant(user.UserID); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition on duplicate approval, got %v", err)
	}
}

func TestRejectApplicantDocumentsResetsAtomically(t *testing.T) {
	svc := newUserService(newFakeUserRepo())

	user, err := svc.Register("alice", "Alice", "Clerk", "secret123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, err := svc.SubmitDocuments(user.UserID, DocumentRefs{
		IdentityProof:  strPtr("id.pdf"),
		ResidenceProof: strPtr("res.pdf"),
		IncidentReport: strPtr("fir.pdf"),
	}); err != nil {
		t.Fatalf("SubmitDocuments returned error: %v", err)
	}
	if _, err := svc.ApproveApplicant(user.UserID); err != nil {
		t.Fatalf("ApproveApplicant returned error: %v", err)
	}

	reset, err := svc.RejectApplicantDocuments(user.UserID)
	if err != nil {
		t.Fatalf("RejectApplicantDocuments returned error: %v", err)
	}
	if reset.IdentityProof != nil || reset.ResidenceProof != nil || reset.IncidentReport != nil {
		t.Fatalf("all document references must be cleared")
	}
	if reset.Approved {
		t.Fatalf("approval flag must be cleared with the documents")
	}
	if reset.HasSubmittedDocs() {
		t.Fatalf("eligibility must recompute to false")
	}
}

func TestCreateOfficerStartsUnreviewable(t *testing.T) {
	svc := newUserService(newFakeUserRepo())

	off, err := svc.CreateOfficer("do2", "Second DO", "DO", "secret123")
	if err != nil {
		t.Fatalf("CreateOfficer returned error: %v", err)
	}
	if off.Role != models.RoleOfficer {
		t.Fatalf("expected officer role, got %q", off.Role)
	}
	if !off.Approved {
		t.Fatalf("officers are created pre-approved")
	}
	if off.ProfileComplete {
		t.Fatalf("officers must complete their profile first")
	}
	if off.CanAccessLetters() {
		t.Fatalf("incomplete profile must block review access")
	}
}

func TestCompleteOfficerProfileIsOneTime(t *testing.T) {
	svc := newUserService(newFakeUserRepo())

	off, err := svc.CreateOfficer("do2", "Second DO", "DO", "secret123")
	if err != nil {
		t.Fatalf("CreateOfficer returned error: %v", err)
	}

	completed, err := svc.CompleteOfficerProfile(off.UserID, "Records", "555-0100",
		strPtr("id.pdf"), strPtr("res.pdf"))
	if err != nil {
		t.Fatalf("CompleteOfficerProfile returned error: %v", err)
	}
	if !completed.ProfileComplete {
		t.Fatalf("profile must be marked complete")
	}
	if !completed.CanAccessLetters() {
		t.Fatalf("completed officer must gain review access")
	}

	if _, err := svc.CompleteOfficerProfile(off.UserID, "Records", "555-0100", nil, nil); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition on second completion, got %v", err)
	}
}

func TestSeedDefaultAccountsIsIdempotent(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo)

	if err := svc.SeedDefaultAccounts(); err != nil {
		t.Fatalf("first seed failed: %v", err)
	}
	if err := svc.SeedDefaultAccounts(); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}

	heads, err := repo.CountByRole(models.RoleHead)
	if err != nil {
		t.Fatalf("CountByRole returned error: %v", err)
	}
	officers, err := repo.CountByRole(models.RoleOfficer)
	if err != nil {
		t.Fatalf("CountByRole returned error: %v", err)
	}
	if heads != 1 || officers != 1 {
		t.Fatalf("expected exactly one head and one officer, got %d and %d", heads, officers)
	}

	seededHead, err := repo.FindByUsername("head")
	if err != nil {
		t.Fatalf("seeded head missing: %v", err)
	}
	if !seededHead.Approved || !seededHead.ProfileComplete {
		t.Fatalf("seeded head must be approved with a complete profile")
	}
	seededOfficer, err := repo.FindByUsername("do")
	if err != nil {
		t.Fatalf("seeded officer missing: %v", err)
	}
	if seededOfficer.ProfileComplete {
		t.Fatalf("seeded officer must start with an incomplete profile")
	}
}

func TestPendingApplicantsNeedAtLeastOneDocument(t *testing.T) {
	svc := newUserService(newFakeUserRepo())

	if _, err := svc.Register("bare", "No Docs", "Clerk", "secret123"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	withDocs, err := svc.Register("docs", "Has Docs", "Clerk", "secret123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, err := svc.SubmitDocuments(withDocs.UserID, DocumentRefs{IncidentReport: strPtr("fir.pdf")}); err != nil {
		t.Fatalf("SubmitDocuments returned error: %v", err)
	}

	pending, err := svc.PendingApplicants()
	if err != nil {
		t.Fatalf("PendingApplicants returned error: %v", err)
	}
	if len(pending) != 1 || pending[0].Username != "docs" {
		t.Fatalf("expected only the documented applicant, got %d", len(pending))
	}
}
