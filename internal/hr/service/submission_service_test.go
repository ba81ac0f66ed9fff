package service

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/swaprodev/hallo/internal/hr/entity"
	"github.com/swaprodev/hallo/internal/hr/repository"
	"github.com/swaprodev/hallo/internal/hr/testutil"
)

func setupSubmissionTest(t *testing.T) (*gorm.DB, *SubmissionService, *entity.Employee) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	testutil.SeedTestUser(t, db, "reviewer-001", "Test Reviewer", entity.RoleAdmin)
	testutil.SeedTestClient(t, db, "client-001", "ACME", "Acme Corp")
	emp := testutil.SeedTestEmployee(t, db, "EMP001", "Budi Santoso", "client-001")

	// Give the employee an existing bank account group for merge tests
	if err := db.Model(&entity.Employee{}).
		Where("nik = ?", emp.NIK).
		Update("bank_account", entity.JSONB{
			"bank_name":      "BCA",
			"account_number": "1234567890",
			"account_holder": "Budi Santoso",
		}).Error; err != nil {
		t.Fatalf("Failed to seed bank account: %v", err)
	}

	svc := NewSubmissionService(
		repository.NewSubmissionRepository(db),
		repository.NewEmployeeRepository(db),
		nil, nil,
	)
	return db, svc, emp
}

// currentSnapshot reloads the employee and returns a fresh editable snapshot
func currentSnapshot(t *testing.T, db *gorm.DB, nik string) map[string]interface{} {
	t.Helper()
	var emp entity.Employee
	if err := db.Where("nik = ?", nik).First(&emp).Error; err != nil {
		t.Fatalf("Failed to load employee: %v", err)
	}
	return emp.Snapshot()
}

func submitProposal(t *testing.T, svc *SubmissionService, nik string, proposed map[string]interface{}) *entity.EmployeeDataSubmission {
	t.Helper()
	sub, err := svc.Submit(context.Background(), &SubmitInput{NIK: nik, Proposed: proposed})
	if err != nil {
		t.Fatalf("Failed to submit: %v", err)
	}
	return sub
}

func TestSubmitCreatesPendingReview(t *testing.T) {
	db, svc, emp := setupSubmissionTest(t)

	proposed := currentSnapshot(t, db, emp.NIK)
	proposed["phone"] = "081234567899"

	sub := submitProposal(t, svc, emp.NIK, proposed)

	if sub.Status != entity.SubmissionStatusPending {
		t.Errorf("Expected status pending_review, got %s", sub.Status)
	}
	if sub.EmployeeNIK != emp.NIK {
		t.Errorf("Expected employee_nik %s, got %s", emp.NIK, sub.EmployeeNIK)
	}
	if sub.ReviewedAt != nil {
		t.Error("Expected nil reviewed_at on a fresh submission")
	}
}

func TestSubmitUnknownEmployeeFails(t *testing.T) {
	_, svc, _ := setupSubmissionTest(t)

	_, err := svc.Submit(context.Background(), &SubmitInput{
		NIK:      "EMP999",
		Proposed: map[string]interface{}{"phone": "0812"},
	})
	if err == nil {
		t.Fatal("Expected error for unknown employee")
	}
}

func TestReviewDiffShowsFieldChanges(t *testing.T) {
	db, svc, emp := setupSubmissionTest(t)

	proposed := currentSnapshot(t, db, emp.NIK)
	proposed["phone"] = "081234567899"
	proposed["bank_account"] = map[string]interface{}{
		"bank_name":      "BCA",
		"account_number": "9999999999",
		"account_holder": "Budi Santoso",
	}

	sub := submitProposal(t, svc, emp.NIK, proposed)

	changes, err := svc.ReviewDiff(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("Failed to compute diff: %v", err)
	}

	paths := make(map[string]FieldChange, len(changes))
	for _, c := range changes {
		paths[c.Path] = c
	}
	if len(changes) != 2 {
		t.Fatalf("Expected 2 changes, got %d: %v", len(changes), paths)
	}
	if c, ok := paths["phone"]; !ok || c.New != "081234567899" {
		t.Errorf("Expected phone change to 081234567899, got %v", c)
	}
	if c, ok := paths["bank_account.account_number"]; !ok || c.New != "9999999999" {
		t.Errorf("Expected bank_account.account_number change, got %v", c)
	}
}

func TestReviewDiffEmptyWhenSnapshotMatches(t *testing.T) {
	db, svc, emp := setupSubmissionTest(t)

	sub := submitProposal(t, svc, emp.NIK, currentSnapshot(t, db, emp.NIK))

	changes, err := svc.ReviewDiff(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("Failed to compute diff: %v", err)
	}
	if len(changes) != 0 {
		t.Errorf("Expected empty diff, got %v", changes)
	}
}

func TestApproveMergesOnlyAcceptedPaths(t *testing.T) {
	db, svc, emp := setupSubmissionTest(t)

	proposed := currentSnapshot(t, db, emp.NIK)
	proposed["phone"] = "081234567899"
	proposed["position"] = "Supervisor"

	sub := submitProposal(t, svc, emp.NIK, proposed)

	reviewed, err := svc.Review(context.Background(), sub.ID, "reviewer-001", &ReviewInput{
		Action:        "approve",
		AcceptedPaths: []string{"phone"},
		Notes:         "nomor diverifikasi",
	})
	if err != nil {
		t.Fatalf("Failed to review: %v", err)
	}
	if reviewed.Status != entity.SubmissionStatusApproved {
		t.Errorf("Expected status approved, got %s", reviewed.Status)
	}
	if reviewed.ReviewedBy != "reviewer-001" {
		t.Errorf("Expected reviewed_by reviewer-001, got %s", reviewed.ReviewedBy)
	}
	if reviewed.ReviewedAt == nil {
		t.Error("Expected reviewed_at to be set")
	}

	var after entity.Employee
	if err := db.Where("nik = ?", emp.NIK).First(&after).Error; err != nil {
		t.Fatalf("Failed to load employee: %v", err)
	}
	if after.Phone != "081234567899" {
		t.Errorf("Expected accepted phone change applied, got %s", after.Phone)
	}
	if after.Position != "Staff" {
		t.Errorf("Expected rejected position change NOT applied, got %s", after.Position)
	}
}

func TestApproveMergesGroupLeavesSelectively(t *testing.T) {
	db, svc, emp := setupSubmissionTest(t)

	proposed := currentSnapshot(t, db, emp.NIK)
	proposed["bank_account"] = map[string]interface{}{
		"bank_name":      "Mandiri",
		"account_number": "9999999999",
		"account_holder": "Budi Santoso",
	}

	sub := submitProposal(t, svc, emp.NIK, proposed)

	_, err := svc.Review(context.Background(), sub.ID, "reviewer-001", &ReviewInput{
		Action:        "approve",
		AcceptedPaths: []string{"bank_account.account_number"},
	})
	if err != nil {
		t.Fatalf("Failed to review: %v", err)
	}

	var after entity.Employee
	if err := db.Where("nik = ?", emp.NIK).First(&after).Error; err != nil {
		t.Fatalf("Failed to load employee: %v", err)
	}
	if after.BankAccount["account_number"] != "9999999999" {
		t.Errorf("Expected accepted leaf applied, got %v", after.BankAccount["account_number"])
	}
	if after.BankAccount["bank_name"] != "BCA" {
		t.Errorf("Expected unaccepted leaf to keep original value, got %v", after.BankAccount["bank_name"])
	}
	if after.BankAccount["account_holder"] != "Budi Santoso" {
		t.Errorf("Expected untouched leaf preserved, got %v", after.BankAccount["account_holder"])
	}
}

func TestRejectRequiresNotes(t *testing.T) {
	db, svc, emp := setupSubmissionTest(t)

	proposed := currentSnapshot(t, db, emp.NIK)
	proposed["phone"] = "081234567899"
	sub := submitProposal(t, svc, emp.NIK, proposed)

	_, err := svc.Review(context.Background(), sub.ID, "reviewer-001", &ReviewInput{Action: "reject"})
	if err == nil {
		t.Fatal("Expected error for reject without notes")
	}
}

func TestRejectLeavesEmployeeUntouched(t *testing.T) {
	db, svc, emp := setupSubmissionTest(t)

	proposed := currentSnapshot(t, db, emp.NIK)
	proposed["phone"] = "081234567899"
	sub := submitProposal(t, svc, emp.NIK, proposed)

	reviewed, err := svc.Review(context.Background(), sub.ID, "reviewer-001", &ReviewInput{
		Action: "reject",
		Notes:  "data tidak valid",
	})
	if err != nil {
		t.Fatalf("Failed to reject: %v", err)
	}
	if reviewed.Status != entity.SubmissionStatusRejected {
		t.Errorf("Expected status rejected, got %s", reviewed.Status)
	}
	if reviewed.ReviewNotes != "data tidak valid" {
		t.Errorf("Expected review notes recorded, got %q", reviewed.ReviewNotes)
	}

	var after entity.Employee
	if err := db.Where("nik = ?", emp.NIK).First(&after).Error; err != nil {
		t.Fatalf("Failed to load employee: %v", err)
	}
	if after.Phone != emp.Phone {
		t.Errorf("Expected phone unchanged after reject, got %s", after.Phone)
	}
}

func TestReviewTwiceReturnsAlreadyReviewed(t *testing.T) {
	db, svc, emp := setupSubmissionTest(t)

	proposed := currentSnapshot(t, db, emp.NIK)
	proposed["phone"] = "081234567899"
	sub := submitProposal(t, svc, emp.NIK, proposed)

	_, err := svc.Review(context.Background(), sub.ID, "reviewer-001", &ReviewInput{
		Action:        "approve",
		AcceptedPaths: []string{"phone"},
	})
	if err != nil {
		t.Fatalf("Failed to review: %v", err)
	}

	_, err = svc.Review(context.Background(), sub.ID, "reviewer-002", &ReviewInput{
		Action: "reject",
		Notes:  "duplicate",
	})
	if err != ErrAlreadyReviewed {
		t.Fatalf("Expected ErrAlreadyReviewed, got %v", err)
	}
}

func TestDiffShrinksAfterPartialMerge(t *testing.T) {
	db, svc, emp := setupSubmissionTest(t)

	proposed := currentSnapshot(t, db, emp.NIK)
	proposed["phone"] = "081234567899"
	proposed["position"] = "Supervisor"

	first := submitProposal(t, svc, emp.NIK, proposed)
	if _, err := svc.Review(context.Background(), first.ID, "reviewer-001", &ReviewInput{
		Action:        "approve",
		AcceptedPaths: []string{"phone"},
	}); err != nil {
		t.Fatalf("Failed to review first submission: %v", err)
	}

	// Same proposal submitted again: the merged phone no longer differs
	second := submitProposal(t, svc, emp.NIK, proposed)
	changes, err := svc.ReviewDiff(context.Background(), second.ID)
	if err != nil {
		t.Fatalf("Failed to compute diff: %v", err)
	}

	if len(changes) != 1 {
		t.Fatalf("Expected 1 remaining change, got %d: %v", len(changes), changes)
	}
	if changes[0].Path != "position" {
		t.Errorf("Expected remaining change on position, got %s", changes[0].Path)
	}
}
