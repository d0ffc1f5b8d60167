package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/s-ko0401/training-system/internal/dto"
	"github.com/s-ko0401/training-system/internal/service"
	"github.com/s-ko0401/training-system/pkg/jwt"
	"github.com/s-ko0401/training-system/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.LoginResponse
	loginErr      error
	refreshResult *dto.RefreshResponse
	refreshErr    error
	logoutErr     error
	currentResult *dto.UserResponse
	currentErr    error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.LoginResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) RefreshToken(_ context.Context, _ *dto.RefreshRequest) (*dto.RefreshResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, _ *jwt.Claims) error { return m.logoutErr }
func (m *mockAuthService) GetCurrentUser(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.currentResult, m.currentErr
}

// ── Mock PlanTemplateService ──

type mockPlanTemplateService struct {
	listResult   []dto.PlanSummaryResponse
	listErr      error
	getResult    *dto.PlanTemplateResponse
	getErr       error
	createResult *dto.PlanSummaryResponse
	createErr    error
	deleteErr    error
}

func (m *mockPlanTemplateService) ListPlans(_ context.Context) ([]dto.PlanSummaryResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockPlanTemplateService) GetPlan(_ context.Context, _ string) (*dto.PlanTemplateResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockPlanTemplateService) CreatePlan(_ context.Context, _ *dto.PlanRequest) (*dto.PlanSummaryResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockPlanTemplateService) UpdatePlan(_ context.Context, _ string, _ *dto.PlanRequest) (*dto.PlanSummaryResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockPlanTemplateService) DeletePlan(_ context.Context, _ string) error { return m.deleteErr }
func (m *mockPlanTemplateService) CreateSection(_ context.Context, _ *dto.SectionRequest) (*dto.SectionResponse, error) {
	return nil, m.createErr
}
func (m *mockPlanTemplateService) UpdateSection(_ context.Context, _ string, _ *dto.SectionRequest) (*dto.SectionResponse, error) {
	return nil, m.createErr
}
func (m *mockPlanTemplateService) DeleteSection(_ context.Context, _ string) error {
	return m.deleteErr
}
func (m *mockPlanTemplateService) CreateTopic(_ context.Context, _ *dto.TopicRequest) (*dto.TopicResponse, error) {
	return nil, m.createErr
}
func (m *mockPlanTemplateService) UpdateTopic(_ context.Context, _ string, _ *dto.TopicRequest) (*dto.TopicResponse, error) {
	return nil, m.createErr
}
func (m *mockPlanTemplateService) DeleteTopic(_ context.Context, _ string) error { return m.deleteErr }
func (m *mockPlanTemplateService) CreateTodo(_ context.Context, _ *dto.TodoRequest) (*dto.TodoResponse, error) {
	return nil, m.createErr
}
func (m *mockPlanTemplateService) UpdateTodo(_ context.Context, _ string, _ *dto.TodoRequest) (*dto.TodoResponse, error) {
	return nil, m.createErr
}
func (m *mockPlanTemplateService) DeleteTodo(_ context.Context, _ string) error { return m.deleteErr }

// ── Mock TrainingService ──

type mockTrainingService struct {
	assignResult *dto.TrainingPlanResponse
	assignErr    error
	listResult   []dto.TrainingPlanResponse
	listErr      error
	getResult    *dto.TrainingPlanResponse
	getErr       error
	deleteErr    error
	statusResult *dto.TrainingPlanResponse
	statusErr    error
	taskResult   *dto.TrainingTaskResponse
	taskErr      error
	daysResult   []dto.DayGroupResponse
	daysErr      error
	progResult   *dto.StudentProgressResponse
	progErr      error
	statsResult  *dto.TrainingStatsResponse
	statsErr     error
}

func (m *mockTrainingService) AssignPlan(_ context.Context, _ *dto.AssignPlanRequest, _ string) (*dto.TrainingPlanResponse, error) {
	return m.assignResult, m.assignErr
}
func (m *mockTrainingService) ListForStudent(_ context.Context, _ string) ([]dto.TrainingPlanResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockTrainingService) GetInstance(_ context.Context, _ string) (*dto.TrainingPlanResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockTrainingService) DeleteInstance(_ context.Context, _ string) error { return m.deleteErr }
func (m *mockTrainingService) UpdatePlanStatus(_ context.Context, _ string, _ *dto.UpdateTrainingPlanStatusRequest) (*dto.TrainingPlanResponse, error) {
	return m.statusResult, m.statusErr
}
func (m *mockTrainingService) UpdateTask(_ context.Context, _ string, _ *dto.UpdateTrainingTaskRequest) (*dto.TrainingTaskResponse, error) {
	return m.taskResult, m.taskErr
}
func (m *mockTrainingService) GetPlanDays(_ context.Context, _ string) ([]dto.DayGroupResponse, error) {
	return m.daysResult, m.daysErr
}
func (m *mockTrainingService) GetStudentProgress(_ context.Context, _ string) (*dto.StudentProgressResponse, error) {
	return m.progResult, m.progErr
}
func (m *mockTrainingService) GetStats(_ context.Context) (*dto.TrainingStatsResponse, error) {
	return m.statsResult, m.statsErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportStudentProgress(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportStudentCalendar(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setAuth(c *gin.Context) {
	c.Set("user_id", "test-user-id")
	c.Set("role", "admin")
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.LoginResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			User:         dto.UserResponse{ID: "user-001", Email: "t@example.com"},
		},
	}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "t@example.com",
		Password: "password123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "t@example.com",
		Password: "wrong",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/auth/me", nil)

	r := gin.New()
	r.GET("/auth/me", h.Me)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// TrainingHandler Tests
// ═══════════════════════════════════════════════════════════

func TestTrainingHandler_Assign_Success(t *testing.T) {
	mock := &mockTrainingService{
		assignResult: &dto.TrainingPlanResponse{ID: "tp-001", PlanName: "基礎"},
	}
	h := NewTrainingHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/training/assignments", jsonBody(dto.AssignPlanRequest{
		StudentID: "user-001",
		PlanID:    "plan-001",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/training/assignments", func(c *gin.Context) {
		setAuth(c)
		h.Assign(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestTrainingHandler_Assign_MissingFields(t *testing.T) {
	h := NewTrainingHandler(&mockTrainingService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/training/assignments", jsonBody(map[string]string{}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/training/assignments", func(c *gin.Context) {
		setAuth(c)
		h.Assign(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestTrainingHandler_UpdateTask_InvalidStatusRejectedByBinding(t *testing.T) {
	h := NewTrainingHandler(&mockTrainingService{taskErr: service.ErrInvalidTaskStatus})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/training/tasks/task-1", jsonBody(dto.UpdateTrainingTaskRequest{
		Status: "done",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/training/tasks/:id", h.UpdateTask)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 16004 {
		t.Errorf("expected error code 16004, got %d", resp.Code)
	}
}

func TestTrainingHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"InstanceNotFound", service.ErrTrainingPlanNotFound, 404, 16001},
		{"NotStudent", service.ErrNotStudent, 400, 16003},
		{"UserNotFound", service.ErrUserNotFound, 404, 12001},
		{"PlanNotFound", service.ErrPlanNotFound, 404, 15001},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTrainingHandler(&mockTrainingService{getErr: tt.err})

			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/training/plans/tp-1", nil)

			r := gin.New()
			r.GET("/training/plans/:id", h.Get)
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// PlanHandler Tests
// ═══════════════════════════════════════════════════════════

func TestPlanHandler_Get_NotFound(t *testing.T) {
	h := NewPlanHandler(&mockPlanTemplateService{getErr: service.ErrPlanNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/plans/missing", nil)

	r := gin.New()
	r.GET("/plans/:id", h.Get)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15001 {
		t.Errorf("expected error code 15001, got %d", resp.Code)
	}
}

func TestPlanHandler_Create_BlankName(t *testing.T) {
	h := NewPlanHandler(&mockPlanTemplateService{createErr: service.ErrNameRequired})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/plans", jsonBody(dto.PlanRequest{PlanName: "   "}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/plans", h.Create)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_Progress_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("excel content"),
		filename: "研修進捗_田中.xlsx",
	}
	h := NewExportHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/students/user-001/progress", nil)

	r := gin.New()
	r.GET("/export/students/:id/progress", h.Progress)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != contentTypeXlsx {
		t.Errorf("unexpected content type: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd == "" {
		t.Error("expected Content-Disposition header")
	}
}

func TestExportHandler_Calendar_NoPlans(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportNoPlans})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/students/user-001/calendar", nil)

	r := gin.New()
	r.GET("/export/students/:id/calendar", h.Calendar)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
