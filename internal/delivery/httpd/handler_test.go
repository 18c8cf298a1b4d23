package httpd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ymayank97/EduGenix/internal/identity"
	"github.com/ymayank97/EduGenix/internal/metrics"
	"github.com/ymayank97/EduGenix/internal/models"
	"github.com/ymayank97/EduGenix/internal/service"
)

type mockAssignmentService struct {
	createFn func(ctx context.Context, userID string, req *models.CreateAssignmentRequest) (*models.Assignment, error)
	getFn    func(ctx context.Context, id string) (*models.Assignment, error)
	listFn   func(ctx context.Context) ([]models.Assignment, error)
	updateFn func(ctx context.Context, id, userID string, req *models.CreateAssignmentRequest) error
	deleteFn func(ctx context.Context, id, userID string) error
}

func (m *mockAssignmentService) CreateAssignment(ctx context.Context, userID string, req *models.CreateAssignmentRequest) (*models.Assignment, error) {
	return m.createFn(ctx, userID, req)
}

func (m *mockAssignmentService) GetAssignmentByID(ctx context.Context, id string) (*models.Assignment, error) {
	return m.getFn(ctx, id)
}

func (m *mockAssignmentService) GetAllAssignments(ctx context.Context) ([]models.Assignment, error) {
	return m.listFn(ctx)
}

func (m *mockAssignmentService) UpdateAssignment(ctx context.Context, id, userID string, req *models.CreateAssignmentRequest) error {
	return m.updateFn(ctx, id, userID, req)
}

func (m *mockAssignmentService) DeleteAssignment(ctx context.Context, id, userID string) error {
	return m.deleteFn(ctx, id, userID)
}

type mockSubmissionService struct {
	submitFn func(ctx context.Context, assignmentID string, submitter *models.User, submissionURL string) (*models.Submission, error)
	listFn   func(ctx context.Context, assignmentID string) ([]models.Submission, error)
}

func (m *mockSubmissionService) Submit(ctx context.Context, assignmentID string, submitter *models.User, submissionURL string) (*models.Submission, error) {
	return m.submitFn(ctx, assignmentID, submitter, submissionURL)
}

func (m *mockSubmissionService) ListSubmissions(ctx context.Context, assignmentID string) ([]models.Submission, error) {
	return m.listFn(ctx, assignmentID)
}

type mockIdentityService struct {
	user *models.User
}

func (m *mockIdentityService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if m.user != nil && m.user.Email == email {
		return m.user, nil
	}
	return nil, identity.ErrInvalidCredentials
}

func newTestRouter(assignments *mockAssignmentService, submissions *mockSubmissionService, identitySvc identity.Service) chi.Router {
	handler := NewHandler(
		assignments,
		submissions,
		identitySvc,
		nil,
		metrics.NewNoopSink(),
		zerolog.Nop(),
	)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func knownUser() *models.User {
	return &models.User{
		ID:    "user-1",
		Email: "student@example.com",
	}
}

func authedRequest(method, target, body string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.SetBasicAuth("student@example.com", "Passw0rd!")
	return req
}

func TestAuthMissingCredentials(t *testing.T) {
	router := newTestRouter(&mockAssignmentService{}, &mockSubmissionService{}, &mockIdentityService{user: knownUser()})

	req := httptest.NewRequest(http.MethodGet, "/v1/assignments", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMalformedEmail(t *testing.T) {
	router := newTestRouter(&mockAssignmentService{}, &mockSubmissionService{}, &mockIdentityService{user: knownUser()})

	req := httptest.NewRequest(http.MethodGet, "/v1/assignments", nil)
	req.SetBasicAuth("not-an-email", "Passw0rd!")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed email, got %d", rec.Code)
	}
}

func TestAuthMalformedPassword(t *testing.T) {
	router := newTestRouter(&mockAssignmentService{}, &mockSubmissionService{}, &mockIdentityService{user: knownUser()})

	req := httptest.NewRequest(http.MethodGet, "/v1/assignments", nil)
	req.SetBasicAuth("student@example.com", "weak")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed password, got %d", rec.Code)
	}
}

func TestAuthWrongCredentials(t *testing.T) {
	router := newTestRouter(&mockAssignmentService{}, &mockSubmissionService{}, &mockIdentityService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/assignments", nil)
	req.SetBasicAuth("student@example.com", "Passw0rd!")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong credentials, got %d", rec.Code)
	}
}

func TestCreateAssignmentReturns201(t *testing.T) {
	assignments := &mockAssignmentService{
		createFn: func(ctx context.Context, userID string, req *models.CreateAssignmentRequest) (*models.Assignment, error) {
			return &models.Assignment{
				ID:        "a1",
				Name:      req.Name,
				CreatedBy: userID,
				CreatedAt: time.Now().UTC(),
			}, nil
		},
	}
	router := newTestRouter(assignments, &mockSubmissionService{}, &mockIdentityService{user: knownUser()})

	body := `{"name":"HW1","points":5,"num_of_attempts":3,"deadline":"2026-12-01T00:00:00.000Z"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/v1/assignments", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if cc := rec.Header().Get("Cache-Control"); !strings.Contains(cc, "no-store") {
		t.Errorf("expected no-store cache header, got %q", cc)
	}
}

func TestCreateAssignmentValidationError(t *testing.T) {
	assignments := &mockAssignmentService{
		createFn: func(ctx context.Context, userID string, req *models.CreateAssignmentRequest) (*models.Assignment, error) {
			return nil, service.ErrInvalidInput
		},
	}
	router := newTestRouter(assignments, &mockSubmissionService{}, &mockIdentityService{user: knownUser()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/v1/assignments", `{"name":""}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetAssignmentNotFound(t *testing.T) {
	assignments := &mockAssignmentService{
		getFn: func(ctx context.Context, id string) (*models.Assignment, error) {
			return nil, service.ErrAssignmentNotFound
		},
	}
	router := newTestRouter(assignments, &mockSubmissionService{}, &mockIdentityService{user: knownUser()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/v1/assignments/missing", ""))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateAssignmentForbidden(t *testing.T) {
	assignments := &mockAssignmentService{
		updateFn: func(ctx context.Context, id, userID string, req *models.CreateAssignmentRequest) error {
			return service.ErrForbidden
		},
	}
	router := newTestRouter(assignments, &mockSubmissionService{}, &mockIdentityService{user: knownUser()})

	body := `{"name":"HW1","points":5,"num_of_attempts":3,"deadline":"2026-12-01T00:00:00.000Z"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPut, "/v1/assignments/a1", body))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestUpdateAssignmentReturns204(t *testing.T) {
	assignments := &mockAssignmentService{
		updateFn: func(ctx context.Context, id, userID string, req *models.CreateAssignmentRequest) error {
			return nil
		},
	}
	router := newTestRouter(assignments, &mockSubmissionService{}, &mockIdentityService{user: knownUser()})

	body := `{"name":"HW1","points":5,"num_of_attempts":3,"deadline":"2026-12-01T00:00:00.000Z"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPut, "/v1/assignments/a1", body))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestDeleteAssignmentRejectsBody(t *testing.T) {
	assignments := &mockAssignmentService{
		deleteFn: func(ctx context.Context, id, userID string) error { return nil },
	}
	router := newTestRouter(assignments, &mockSubmissionService{}, &mockIdentityService{user: knownUser()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodDelete, "/v1/assignments/a1", `{"x":1}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for delete with body, got %d", rec.Code)
	}
}

func TestDeleteAssignmentReturns204(t *testing.T) {
	assignments := &mockAssignmentService{
		deleteFn: func(ctx context.Context, id, userID string) error { return nil },
	}
	router := newTestRouter(assignments, &mockSubmissionService{}, &mockIdentityService{user: knownUser()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodDelete, "/v1/assignments/a1", ""))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
