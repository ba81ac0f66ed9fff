package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/swaprodev/hallo/internal/hr/entity"
	"github.com/swaprodev/hallo/internal/hr/repository"
	"github.com/swaprodev/hallo/internal/hr/service"
	"github.com/swaprodev/hallo/internal/hr/testutil"
)

func setupRequestHandlerTest(t *testing.T) (*gin.Engine, *testutil.TestEnv) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	testutil.SeedTestUser(t, db, "test-user-001", "Test Admin", entity.RoleAdmin)
	testutil.SeedTestClient(t, db, "client-001", "ACME", "Acme Corp")
	testutil.SeedTestEmployee(t, db, "EMP001", "Budi Santoso", "client-001")

	db.Create(&entity.Payslip{
		ID:          "ps-2024-05",
		EmployeeNIK: "EMP001",
		Period:      "2024-05",
		FileName:    "slip_2024_05.pdf",
		FilePath:    "payslips/2024/05/slip.pdf",
		FileSize:    1024,
		MimeType:    "application/pdf",
		UploadedBy:  "test-user-001",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	})

	reqSvc := service.NewRequestService(
		repository.NewRequestRepository(db),
		repository.NewEmployeeRepository(db),
		repository.NewPayslipRepository(db),
		repository.NewContractRepository(db),
		nil, nil, nil,
	)
	subSvc := service.NewSubmissionService(
		repository.NewSubmissionRepository(db),
		repository.NewEmployeeRepository(db),
		nil, nil,
	)
	empSvc := service.NewEmployeeService(
		repository.NewEmployeeRepository(db),
		repository.NewClientRepository(db),
	)

	reqHandler := NewRequestHandler(reqSvc)
	publicHandler := NewPublicHandler(empSvc, reqSvc, subSvc)

	router := testutil.SetupRouter()

	public := router.Group("/api/v1/public")
	public.POST("/document-requests", publicHandler.CreateRequest)
	public.GET("/document-requests", publicHandler.ListRequests)
	public.GET("/document-requests/:id/file", publicHandler.RequestFile)

	api := testutil.AuthGroup(router, "/api/v1")
	reqs := api.Group("/document-requests")
	reqs.GET("", reqHandler.List)
	reqs.GET("/:id", reqHandler.Get)
	reqs.POST("/:id/respond", reqHandler.Respond)

	return router, &testutil.TestEnv{DB: db, Router: router, T: t}
}

func createRequestViaPublic(t *testing.T, router *gin.Engine) map[string]interface{} {
	t.Helper()
	w := testutil.DoRequest(router, "POST", "/api/v1/public/document-requests", map[string]interface{}{
		"nik":           "EMP001",
		"document_type": "payslip",
		"document_id":   "2024-05",
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	return resp["data"].(map[string]interface{})
}

func TestCreateDocumentRequestViaPublic(t *testing.T) {
	router, _ := setupRequestHandlerTest(t)

	data := createRequestViaPublic(t, router)

	if data["id"] == nil || data["id"] == "" {
		t.Error("Expected non-empty id")
	}
	if data["status"] != "pending" {
		t.Errorf("Expected status pending, got %v", data["status"])
	}
	if data["document_name"] != "Slip Gaji 2024-05" {
		t.Errorf("Expected document_name 'Slip Gaji 2024-05', got %v", data["document_name"])
	}
}

func TestRespondRequiresAuth(t *testing.T) {
	router, _ := setupRequestHandlerTest(t)
	data := createRequestViaPublic(t, router)

	w := testutil.DoRequest(router,
		"POST", fmt.Sprintf("/api/v1/document-requests/%s/respond", data["id"]),
		map[string]interface{}{"action": "approve", "duration_minutes": 60}, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", w.Code)
	}
}

func TestApproveRequestEndToEnd(t *testing.T) {
	router, _ := setupRequestHandlerTest(t)
	data := createRequestViaPublic(t, router)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(router,
		"POST", fmt.Sprintf("/api/v1/document-requests/%s/respond", data["id"]),
		map[string]interface{}{"action": "approve", "duration_minutes": 60}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	view := resp["data"].(map[string]interface{})
	if view["status"] != "approved" {
		t.Errorf("Expected status approved, got %v", view["status"])
	}
	if view["effective_status"] != "approved" {
		t.Errorf("Expected effective_status approved, got %v", view["effective_status"])
	}
	if view["access_expires_at"] == nil {
		t.Error("Expected access_expires_at to be set")
	}
}

func TestRespondConflictOnSecondResolution(t *testing.T) {
	router, _ := setupRequestHandlerTest(t)
	data := createRequestViaPublic(t, router)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(router,
		"POST", fmt.Sprintf("/api/v1/document-requests/%s/respond", data["id"]),
		map[string]interface{}{"action": "reject", "reason": "not available"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(router,
		"POST", fmt.Sprintf("/api/v1/document-requests/%s/respond", data["id"]),
		map[string]interface{}{"action": "approve", "duration_minutes": 60}, token)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 on second resolution, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 40900 {
		t.Errorf("Expected business code 40900, got %v", resp["code"])
	}
}

func TestApproveWithoutDurationIsBadRequest(t *testing.T) {
	router, _ := setupRequestHandlerTest(t)
	data := createRequestViaPublic(t, router)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(router,
		"POST", fmt.Sprintf("/api/v1/document-requests/%s/respond", data["id"]),
		map[string]interface{}{"action": "approve"}, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for approve without duration, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPublicFileURLForbiddenWhilePending(t *testing.T) {
	router, _ := setupRequestHandlerTest(t)
	data := createRequestViaPublic(t, router)

	w := testutil.DoRequest(router,
		"GET", fmt.Sprintf("/api/v1/public/document-requests/%s/file?nik=EMP001", data["id"]), nil, "")
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 while pending, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPublicListRequestsByNIK(t *testing.T) {
	router, _ := setupRequestHandlerTest(t)
	createRequestViaPublic(t, router)

	w := testutil.DoRequest(router, "GET", "/api/v1/public/document-requests?nik=EMP001", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	items := resp["data"].(map[string]interface{})["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("Expected 1 request, got %d", len(items))
	}
	first := items[0].(map[string]interface{})
	if first["effective_status"] != "pending" {
		t.Errorf("Expected effective_status pending, got %v", first["effective_status"])
	}
}
