package jobs

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupJobsRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(NewService(NewMemoryRepo())).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestCreateAndFetchJob(t *testing.T) {
	router := setupJobsRouter(t)

	resp := doJSON(router, http.MethodPost, "/api/v1/jobs", map[string]string{
		"title":       "Data Analyst",
		"description": "SQL, Python and dashboards",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created Posting
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected id, got empty")
	}
	if loc := resp.Header().Get("Location"); loc != "/api/v1/jobs/"+created.ID {
		t.Fatalf("unexpected Location %q", loc)
	}

	resp = doJSON(router, http.MethodGet, "/api/v1/jobs/"+created.ID, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var fetched Posting
	if err := json.NewDecoder(resp.Body).Decode(&fetched); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if fetched.Description != "SQL, Python and dashboards" {
		t.Fatalf("unexpected description %q", fetched.Description)
	}

	resp = doJSON(router, http.MethodGet, "/api/v1/jobs", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var list struct {
		Items []Posting `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].ID != created.ID {
		t.Fatalf("unexpected list %+v", list.Items)
	}
}

func TestCreateJobValidation(t *testing.T) {
	router := setupJobsRouter(t)

	resp := doJSON(router, http.MethodPost, "/api/v1/jobs", map[string]string{"title": "Only title"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	var body struct {
		Error struct {
			Code    string       `json:"code"`
			Details []FieldError `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error.Code != "validation_error" {
		t.Fatalf("expected validation_error, got %q", body.Error.Code)
	}
	if len(body.Error.Details) != 1 || body.Error.Details[0].Field != "description" {
		t.Fatalf("unexpected details %+v", body.Error.Details)
	}
}

func TestCreateJobMalformedJSON(t *testing.T) {
	router := setupJobsRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestGetJobNotFound(t *testing.T) {
	router := setupJobsRouter(t)

	resp := doJSON(router, http.MethodGet, "/api/v1/jobs/does-not-exist", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestListJobsRejectsBadLimit(t *testing.T) {
	router := setupJobsRouter(t)

	resp := doJSON(router, http.MethodGet, "/api/v1/jobs?limit=ten", nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}
