package service

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/swaprodev/hallo/internal/hr/entity"
	"github.com/swaprodev/hallo/internal/hr/repository"
	"github.com/swaprodev/hallo/internal/hr/testutil"
)

func setupRequestTest(t *testing.T) (*gorm.DB, *RequestService) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	testutil.SeedTestUser(t, db, "pic-001", "Test PIC", entity.RolePIC)
	testutil.SeedTestClient(t, db, "client-001", "ACME", "Acme Corp")
	testutil.SeedTestEmployee(t, db, "EMP001", "Budi Santoso", "client-001")

	payslip := &entity.Payslip{
		ID:          "ps-2024-05",
		EmployeeNIK: "EMP001",
		Period:      "2024-05",
		FileName:    "slip_2024_05.pdf",
		FilePath:    "payslips/2024/05/slip.pdf",
		FileSize:    1024,
		MimeType:    "application/pdf",
		UploadedBy:  "pic-001",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := db.Create(payslip).Error; err != nil {
		t.Fatalf("Failed to seed payslip: %v", err)
	}

	svc := NewRequestService(
		repository.NewRequestRepository(db),
		repository.NewEmployeeRepository(db),
		repository.NewPayslipRepository(db),
		repository.NewContractRepository(db),
		nil, nil, nil,
	)
	return db, svc
}

func createPayslipRequest(t *testing.T, svc *RequestService) *entity.DocumentRequest {
	t.Helper()
	req, err := svc.Create(context.Background(), &CreateRequestRequest{
		NIK:          "EMP001",
		DocumentType: entity.RequestDocTypePayslip,
		DocumentID:   "2024-05",
	})
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	return req
}

func TestCreateRequestResolvesDocumentName(t *testing.T) {
	_, svc := setupRequestTest(t)

	req := createPayslipRequest(t, svc)

	if req.Status != entity.RequestStatusPending {
		t.Errorf("Expected status pending, got %s", req.Status)
	}
	if req.DocumentName != "Slip Gaji 2024-05" {
		t.Errorf("Expected document name 'Slip Gaji 2024-05', got %q", req.DocumentName)
	}
	if req.AccessExpiresAt != nil {
		t.Error("Expected nil access_expires_at on a pending request")
	}
}

func TestCreateRequestUnknownDocumentFails(t *testing.T) {
	_, svc := setupRequestTest(t)

	_, err := svc.Create(context.Background(), &CreateRequestRequest{
		NIK:          "EMP001",
		DocumentType: entity.RequestDocTypePayslip,
		DocumentID:   "2030-01",
	})
	if err == nil {
		t.Fatal("Expected error for non-existent payslip period")
	}
}

func TestApproveRequestSetsAccessWindow(t *testing.T) {
	_, svc := setupRequestTest(t)
	req := createPayslipRequest(t, svc)

	before := time.Now()
	view, err := svc.Respond(context.Background(), req.ID, "pic-001", &RespondRequestInput{
		Action:          "approve",
		DurationMinutes: 60,
	})
	if err != nil {
		t.Fatalf("Failed to approve request: %v", err)
	}

	if view.Status != entity.RequestStatusApproved {
		t.Errorf("Expected status approved, got %s", view.Status)
	}
	if view.EffectiveStatus != entity.RequestStatusApproved {
		t.Errorf("Expected effective status approved, got %s", view.EffectiveStatus)
	}
	if view.PICID != "pic-001" {
		t.Errorf("Expected pic_id pic-001, got %s", view.PICID)
	}
	if view.RespondedAt == nil {
		t.Fatal("Expected responded_at to be set")
	}
	if view.AccessExpiresAt == nil {
		t.Fatal("Expected access_expires_at to be set")
	}
	want := before.Add(60 * time.Minute)
	got := *view.AccessExpiresAt
	if got.Before(want.Add(-time.Minute)) || got.After(want.Add(time.Minute)) {
		t.Errorf("Expected access_expires_at around %v, got %v", want, got)
	}
	if view.RejectionReason != "" {
		t.Errorf("Expected empty rejection_reason on approval, got %q", view.RejectionReason)
	}
}

func TestApproveRequiresPositiveDuration(t *testing.T) {
	_, svc := setupRequestTest(t)
	req := createPayslipRequest(t, svc)

	_, err := svc.Respond(context.Background(), req.ID, "pic-001", &RespondRequestInput{
		Action:          "approve",
		DurationMinutes: 0,
	})
	if err == nil {
		t.Fatal("Expected error for zero duration")
	}

	// Request must stay pending after the failed approval
	view, err := svc.Get(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("Failed to get request: %v", err)
	}
	if view.Status != entity.RequestStatusPending {
		t.Errorf("Expected request to stay pending, got %s", view.Status)
	}
}

func TestRejectRecordsReason(t *testing.T) {
	_, svc := setupRequestTest(t)
	req := createPayslipRequest(t, svc)

	view, err := svc.Respond(context.Background(), req.ID, "pic-001", &RespondRequestInput{
		Action: "reject",
		Reason: "Dokumen sedang diaudit",
	})
	if err != nil {
		t.Fatalf("Failed to reject request: %v", err)
	}

	if view.Status != entity.RequestStatusRejected {
		t.Errorf("Expected status rejected, got %s", view.Status)
	}
	if view.RejectionReason != "Dokumen sedang diaudit" {
		t.Errorf("Expected rejection reason recorded, got %q", view.RejectionReason)
	}
	if view.AccessExpiresAt != nil {
		t.Error("Expected nil access_expires_at on a rejected request")
	}
}

func TestRejectRequiresReason(t *testing.T) {
	_, svc := setupRequestTest(t)
	req := createPayslipRequest(t, svc)

	_, err := svc.Respond(context.Background(), req.ID, "pic-001", &RespondRequestInput{
		Action: "reject",
	})
	if err == nil {
		t.Fatal("Expected error for reject without reason")
	}
}

func TestRespondTwiceReturnsAlreadyResolved(t *testing.T) {
	_, svc := setupRequestTest(t)
	req := createPayslipRequest(t, svc)

	_, err := svc.Respond(context.Background(), req.ID, "pic-001", &RespondRequestInput{
		Action:          "approve",
		DurationMinutes: 30,
	})
	if err != nil {
		t.Fatalf("Failed to approve request: %v", err)
	}

	// Second PIC tries to reject the same request
	_, err = svc.Respond(context.Background(), req.ID, "pic-002", &RespondRequestInput{
		Action: "reject",
		Reason: "too late",
	})
	if err != ErrAlreadyResolved {
		t.Fatalf("Expected ErrAlreadyResolved, got %v", err)
	}

	// First resolution must be untouched
	view, err := svc.Get(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("Failed to get request: %v", err)
	}
	if view.Status != entity.RequestStatusApproved {
		t.Errorf("Expected status approved, got %s", view.Status)
	}
	if view.PICID != "pic-001" {
		t.Errorf("Expected pic_id pic-001, got %s", view.PICID)
	}
}

func TestExpiredStatusIsDerivedNotStored(t *testing.T) {
	db, svc := setupRequestTest(t)
	req := createPayslipRequest(t, svc)

	_, err := svc.Respond(context.Background(), req.ID, "pic-001", &RespondRequestInput{
		Action:          "approve",
		DurationMinutes: 30,
	})
	if err != nil {
		t.Fatalf("Failed to approve request: %v", err)
	}

	// Push the access window into the past
	past := time.Now().Add(-time.Hour)
	if err := db.Model(&entity.DocumentRequest{}).
		Where("id = ?", req.ID).
		Update("access_expires_at", past).Error; err != nil {
		t.Fatalf("Failed to backdate access window: %v", err)
	}

	view, err := svc.Get(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("Failed to get request: %v", err)
	}
	if view.Status != entity.RequestStatusApproved {
		t.Errorf("Expected stored status approved, got %s", view.Status)
	}
	if view.EffectiveStatus != entity.RequestStatusExpired {
		t.Errorf("Expected effective status expired, got %s", view.EffectiveStatus)
	}
}

func TestFileURLDeniedForPendingRequest(t *testing.T) {
	_, svc := setupRequestTest(t)
	req := createPayslipRequest(t, svc)

	_, err := svc.FileURL(context.Background(), req.ID, "EMP001")
	if err != ErrNotApproved {
		t.Fatalf("Expected ErrNotApproved, got %v", err)
	}
}

func TestFileURLDeniedAfterWindowExpires(t *testing.T) {
	db, svc := setupRequestTest(t)
	req := createPayslipRequest(t, svc)

	_, err := svc.Respond(context.Background(), req.ID, "pic-001", &RespondRequestInput{
		Action:          "approve",
		DurationMinutes: 30,
	})
	if err != nil {
		t.Fatalf("Failed to approve request: %v", err)
	}

	past := time.Now().Add(-time.Minute)
	if err := db.Model(&entity.DocumentRequest{}).
		Where("id = ?", req.ID).
		Update("access_expires_at", past).Error; err != nil {
		t.Fatalf("Failed to backdate access window: %v", err)
	}

	_, err = svc.FileURL(context.Background(), req.ID, "EMP001")
	if err != ErrAccessExpired {
		t.Fatalf("Expected ErrAccessExpired, got %v", err)
	}
}

func TestFileURLRejectsWrongNIK(t *testing.T) {
	_, svc := setupRequestTest(t)
	req := createPayslipRequest(t, svc)

	_, err := svc.FileURL(context.Background(), req.ID, "EMP999")
	if err != repository.ErrNotFound {
		t.Fatalf("Expected ErrNotFound for foreign NIK, got %v", err)
	}
}

func TestListFiltersByEffectiveStatus(t *testing.T) {
	db, svc := setupRequestTest(t)

	active := createPayslipRequest(t, svc)
	expired := createPayslipRequest(t, svc)

	for _, r := range []*entity.DocumentRequest{active, expired} {
		if _, err := svc.Respond(context.Background(), r.ID, "pic-001", &RespondRequestInput{
			Action:          "approve",
			DurationMinutes: 30,
		}); err != nil {
			t.Fatalf("Failed to approve request: %v", err)
		}
	}

	past := time.Now().Add(-time.Hour)
	if err := db.Model(&entity.DocumentRequest{}).
		Where("id = ?", expired.ID).
		Update("access_expires_at", past).Error; err != nil {
		t.Fatalf("Failed to backdate access window: %v", err)
	}

	result, err := svc.List(context.Background(), 1, 20, map[string]interface{}{"status": entity.RequestStatusExpired})
	if err != nil {
		t.Fatalf("Failed to list requests: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("Expected 1 expired request, got %d", len(result.Items))
	}
	if result.Items[0].ID != expired.ID {
		t.Errorf("Expected expired request %s, got %s", expired.ID, result.Items[0].ID)
	}

	result, err = svc.List(context.Background(), 1, 20, map[string]interface{}{"status": entity.RequestStatusApproved})
	if err != nil {
		t.Fatalf("Failed to list requests: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("Expected 1 active approved request, got %d", len(result.Items))
	}
	if result.Items[0].ID != active.ID {
		t.Errorf("Expected active request %s, got %s", active.ID, result.Items[0].ID)
	}
}
