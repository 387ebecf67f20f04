package runs_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/quill/internal/engine"
	"github.com/JaimeStill/quill/internal/runs"
	"github.com/JaimeStill/quill/pkg/pagination"
	"github.com/JaimeStill/quill/workflow"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPagination() pagination.Config {
	return pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func testCatalog(t *testing.T) *engine.Catalog {
	t.Helper()
	catalog, err := engine.NewCatalog(engine.DefaultGateConfig(), 2)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return catalog
}

// mockSystem implements runs.System against in-memory state.
type mockSystem struct {
	runs      map[uuid.UUID]*runs.Run
	submitErr error
	lastPage  pagination.PageRequest
	lastFilt  runs.Filters
}

func newMockSystem() *mockSystem {
	return &mockSystem{runs: make(map[uuid.UUID]*runs.Run)}
}

func (m *mockSystem) Handler() *runs.Handler { return nil }

func (m *mockSystem) List(
	_ context.Context,
	page pagination.PageRequest,
	filters runs.Filters,
) (*pagination.PageResult[runs.Run], error) {
	m.lastPage = page
	m.lastFilt = filters

	var data []runs.Run
	for _, r := range m.runs {
		data = append(data, *r)
	}
	result := pagination.NewPageResult(data, len(data), page.Page, page.PageSize)
	return &result, nil
}

func (m *mockSystem) Find(_ context.Context, id uuid.UUID) (*runs.Run, error) {
	r, ok := m.runs[id]
	if !ok {
		return nil, runs.ErrNotFound
	}
	return r, nil
}

func (m *mockSystem) Submit(_ context.Context, cmd runs.SubmitCommand) (*runs.Run, error) {
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	if err := cmd.Request.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	run := &runs.Run{
		ID:          uuid.New(),
		Workflow:    engine.WorkflowArticle,
		Version:     engine.CatalogVersion,
		Status:      runs.StatusSucceeded,
		Request:     cmd.Request,
		Steps:       []workflow.StepResult{},
		SubmittedAt: now,
		CompletedAt: &now,
	}
	m.runs[run.ID] = run
	return run, nil
}

func (m *mockSystem) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.runs[id]; !ok {
		return runs.ErrNotFound
	}
	delete(m.runs, id)
	return nil
}

func newHandler(t *testing.T, sys runs.System) *runs.Handler {
	t.Helper()
	return runs.NewHandler(sys, testCatalog(t), testLogger(), testPagination())
}

func TestFiltersFromQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		check func(t *testing.T, f runs.Filters)
	}{
		{
			name:  "empty",
			query: "",
			check: func(t *testing.T, f runs.Filters) {
				if f.Workflow != nil || f.Status != nil || f.Success != nil {
					t.Errorf("expected zero filters: %+v", f)
				}
			},
		},
		{
			name:  "workflow and status",
			query: "workflow=article-production&status=failed",
			check: func(t *testing.T, f runs.Filters) {
				if f.Workflow == nil || *f.Workflow != "article-production" {
					t.Errorf("workflow: %v", f.Workflow)
				}
				if f.Status == nil || *f.Status != "failed" {
					t.Errorf("status: %v", f.Status)
				}
			},
		},
		{
			name:  "success flag",
			query: "success=true",
			check: func(t *testing.T, f runs.Filters) {
				if f.Success == nil || !*f.Success {
					t.Errorf("success: %v", f.Success)
				}
			},
		},
		{
			name:  "invalid success ignored",
			query: "success=banana",
			check: func(t *testing.T, f runs.Filters) {
				if f.Success != nil {
					t.Errorf("success should be nil: %v", f.Success)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}
			tt.check(t, runs.FiltersFromQuery(values))
		})
	}
}

func TestRunSucceeded(t *testing.T) {
	run := runs.Run{Status: runs.StatusSucceeded}
	if !run.Succeeded() {
		t.Error("succeeded run reports false")
	}
	run.Status = runs.StatusFailed
	if run.Succeeded() {
		t.Error("failed run reports true")
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", runs.ErrNotFound, http.StatusNotFound},
		{"duplicate", runs.ErrDuplicate, http.StatusConflict},
		{"unknown content type", workflow.ErrUnknownContentType, http.StatusBadRequest},
		{"invalid request", workflow.ErrInvalidRequest, http.StatusBadRequest},
		{"other", io.EOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := runs.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("status: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHandlerRoutes(t *testing.T) {
	group := newHandler(t, newMockSystem()).Routes()
	if group.Prefix != "/runs" {
		t.Errorf("prefix: got %s", group.Prefix)
	}
	if len(group.Routes) != 7 {
		t.Errorf("routes: got %d, want 7", len(group.Routes))
	}
}

func TestHandlerList(t *testing.T) {
	sys := newMockSystem()
	handler := newHandler(t, sys)

	req := httptest.NewRequest(http.MethodGet, "/runs?status=running&page_size=5", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if sys.lastFilt.Status == nil || *sys.lastFilt.Status != "running" {
		t.Errorf("status filter not passed: %+v", sys.lastFilt)
	}
	if sys.lastPage.PageSize != 5 {
		t.Errorf("page size: got %d, want 5", sys.lastPage.PageSize)
	}
}

func TestHandlerWorkflows(t *testing.T) {
	handler := newHandler(t, newMockSystem())

	req := httptest.NewRequest(http.MethodGet, "/runs/workflows", nil)
	rec := httptest.NewRecorder()
	handler.Workflows(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	var defs []workflow.Definition
	if err := json.NewDecoder(rec.Body).Decode(&defs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(defs) != 4 {
		t.Errorf("definitions: got %d, want 4", len(defs))
	}
}

func TestHandlerSubmit(t *testing.T) {
	sys := newMockSystem()
	handler := newHandler(t, sys)

	body, _ := json.Marshal(runs.SubmitCommand{
		Request: workflow.Request{
			RequestText:  "write about observability",
			ContentTypes: []workflow.ContentType{workflow.ContentArticle},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/runs", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Submit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201", rec.Code)
	}

	var run runs.Run
	if err := json.NewDecoder(rec.Body).Decode(&run); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if run.Workflow != engine.WorkflowArticle {
		t.Errorf("workflow: got %s", run.Workflow)
	}
	if len(sys.runs) != 1 {
		t.Errorf("stored runs: got %d, want 1", len(sys.runs))
	}
}

func TestHandlerSubmitInvalidRequest(t *testing.T) {
	handler := newHandler(t, newMockSystem())

	body, _ := json.Marshal(runs.SubmitCommand{
		Request: workflow.Request{RequestText: "missing types"},
	})

	req := httptest.NewRequest(http.MethodPost, "/runs", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
}

func TestHandlerSubmitMalformedBody(t *testing.T) {
	handler := newHandler(t, newMockSystem())

	req := httptest.NewRequest(http.MethodPost, "/runs", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	handler.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
}

func TestHandlerFind(t *testing.T) {
	sys := newMockSystem()
	run, err := sys.Submit(context.Background(), runs.SubmitCommand{
		Request: workflow.Request{
			RequestText:  "x",
			ContentTypes: []workflow.ContentType{workflow.ContentArticle},
		},
	})
	if err != nil {
		t.Fatalf("seed run: %v", err)
	}

	handler := newHandler(t, sys)

	req := httptest.NewRequest(http.MethodGet, "/runs/"+run.ID.String(), nil)
	req.SetPathValue("id", run.ID.String())
	rec := httptest.NewRecorder()
	handler.Find(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	var got runs.Run
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != run.ID {
		t.Errorf("id: got %s, want %s", got.ID, run.ID)
	}
}

func TestHandlerFindErrors(t *testing.T) {
	handler := newHandler(t, newMockSystem())

	req := httptest.NewRequest(http.MethodGet, "/runs/not-a-uuid", nil)
	req.SetPathValue("id", "not-a-uuid")
	rec := httptest.NewRecorder()
	handler.Find(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid uuid: got %d, want 400", rec.Code)
	}

	missing := uuid.NewString()
	req = httptest.NewRequest(http.MethodGet, "/runs/"+missing, nil)
	req.SetPathValue("id", missing)
	rec = httptest.NewRecorder()
	handler.Find(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing run: got %d, want 404", rec.Code)
	}
}

func TestHandlerSearch(t *testing.T) {
	sys := newMockSystem()
	handler := newHandler(t, sys)

	body, _ := json.Marshal(map[string]any{
		"page":      1,
		"page_size": 500,
		"workflow":  "campaign",
	})

	req := httptest.NewRequest(http.MethodPost, "/runs/search", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if sys.lastPage.PageSize != 100 {
		t.Errorf("page size not clamped: got %d, want 100", sys.lastPage.PageSize)
	}
	if sys.lastFilt.Workflow == nil || *sys.lastFilt.Workflow != "campaign" {
		t.Errorf("workflow filter: %+v", sys.lastFilt)
	}
}

func TestHandlerDelete(t *testing.T) {
	sys := newMockSystem()
	run, err := sys.Submit(context.Background(), runs.SubmitCommand{
		Request: workflow.Request{
			RequestText:  "x",
			ContentTypes: []workflow.ContentType{workflow.ContentArticle},
		},
	})
	if err != nil {
		t.Fatalf("seed run: %v", err)
	}

	handler := newHandler(t, sys)

	req := httptest.NewRequest(http.MethodDelete, "/runs/"+run.ID.String(), nil)
	req.SetPathValue("id", run.ID.String())
	rec := httptest.NewRecorder()
	handler.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", rec.Code)
	}
	if len(sys.runs) != 0 {
		t.Error("run not deleted")
	}

	rec = httptest.NewRecorder()
	handler.Delete(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: got %d, want 404", rec.Code)
	}
}

func TestHandlerSteps(t *testing.T) {
	sys := newMockSystem()
	run, err := sys.Submit(context.Background(), runs.SubmitCommand{
		Request: workflow.Request{
			RequestText:  "x",
			ContentTypes: []workflow.ContentType{workflow.ContentArticle},
		},
	})
	if err != nil {
		t.Fatalf("seed run: %v", err)
	}
	run.Steps = []workflow.StepResult{
		{StepID: "research", Capability: "research", Status: workflow.StatusSucceeded, Attempts: 1},
		{StepID: "brief", Capability: "brief", Status: workflow.StatusSucceeded, Attempts: 1},
	}

	handler := newHandler(t, sys)

	req := httptest.NewRequest(http.MethodGet, "/runs/"+run.ID.String()+"/steps", nil)
	req.SetPathValue("id", run.ID.String())
	rec := httptest.NewRecorder()
	handler.Steps(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	var got []workflow.StepResult
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("steps: got %d, want 2", len(got))
	}
	if got[0].StepID != "research" || got[1].StepID != "brief" {
		t.Errorf("step order: got %s, %s", got[0].StepID, got[1].StepID)
	}
}

func TestHandlerStepsNotFound(t *testing.T) {
	handler := newHandler(t, newMockSystem())

	id := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/runs/"+id+"/steps", nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	handler.Steps(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestHandlerContentTypes(t *testing.T) {
	handler := newHandler(t, newMockSystem())

	req := httptest.NewRequest(http.MethodGet, "/content-types", nil)
	rec := httptest.NewRecorder()
	handler.ContentTypes(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	var got []workflow.ContentType
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected content types")
	}
	if !slices.Contains(got, workflow.ContentArticle) {
		t.Errorf("missing %s in %v", workflow.ContentArticle, got)
	}
	if !slices.IsSorted(got) {
		t.Errorf("content types not sorted: %v", got)
	}
}
