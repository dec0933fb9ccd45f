package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"callcenter-analytics/internal/analytics"
	"callcenter-analytics/internal/calls"
	"callcenter-analytics/internal/ingest"

	"github.com/gin-gonic/gin"
)

func newRouter(repo calls.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := Handlers{
		Ingest:    ingest.NewService(repo, nil),
		Analytics: analytics.NewService(repo, nil, 0),
	}
	r := gin.New()
	r.POST("/webhooks/retell/call", h.HandleCallWebhook)
	r.GET("/api/call-analysis", h.HandleCallAnalysis)
	r.GET("/api/call-analysis/export", h.HandleAnalysisExport)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	if body == "" {
		rdr = bytes.NewReader(nil)
	} else {
		rdr = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCallWebhook_StoresAndReturnsID(t *testing.T) {
	repo := calls.NewMemoryRepo()
	r := newRouter(repo)

	w := doJSON(t, r, http.MethodPost, "/webhooks/retell/call",
		`{"call_id":"c1","call_type":"sales","rating":4.5,"appointment_booked":true,"start_time":"2026-03-10T08:00:00Z"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
		ID      string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Message != "Call data received and stored" || resp.ID == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if repo.Len() != 1 {
		t.Fatalf("expected one stored record, got %d", repo.Len())
	}
}

func TestCallWebhook_MissingCallIDIs400(t *testing.T) {
	r := newRouter(calls.NewMemoryRepo())
	w := doJSON(t, r, http.MethodPost, "/webhooks/retell/call", `{"call_type":"sales"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid webhook data") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestCallWebhook_UnparsableBodyIs400(t *testing.T) {
	r := newRouter(calls.NewMemoryRepo())
	w := doJSON(t, r, http.MethodPost, "/webhooks/retell/call", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

type brokenRepo struct{}

func (brokenRepo) Insert(ctx context.Context, rec calls.CallRecord) (calls.CallRecord, error) {
	return calls.CallRecord{}, errors.New("db down")
}

func (brokenRepo) ListByStartTimeRange(ctx context.Context, from, to time.Time) ([]calls.CallRecord, error) {
	return nil, errors.New("db down")
}

func TestCallWebhook_StorageFailureIs500(t *testing.T) {
	r := newRouter(brokenRepo{})
	w := doJSON(t, r, http.MethodPost, "/webhooks/retell/call", `{"call_id":"c1"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Failed to store call data") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestCallAnalysis_DefaultsToSevenDays(t *testing.T) {
	r := newRouter(calls.NewMemoryRepo())

	for _, path := range []string{"/api/call-analysis", "/api/call-analysis?days=abc"} {
		w := doJSON(t, r, http.MethodGet, path, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, w.Code)
		}
		var view analytics.DashboardView
		if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
			t.Fatalf("%s: unmarshal: %v", path, err)
		}
		if len(view.VolumeData) != 7 {
			t.Fatalf("%s: expected 7-day default window, got %d buckets", path, len(view.VolumeData))
		}
		if view.LastUpdated == "" {
			t.Fatalf("%s: expected lastUpdated to be set", path)
		}
	}
}

func TestCallAnalysis_RespectsDaysParam(t *testing.T) {
	repo := calls.NewMemoryRepo()
	if _, err := repo.Insert(context.Background(), calls.CallRecord{CallID: "c1", StartTime: time.Now().UTC(), CallType: "sales"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	r := newRouter(repo)

	w := doJSON(t, r, http.MethodGet, "/api/call-analysis?days=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var view analytics.DashboardView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(view.VolumeData) != 2 || len(view.TimeSeriesData) != 2 {
		t.Fatalf("expected 2-bucket series, got %d/%d", len(view.VolumeData), len(view.TimeSeriesData))
	}
	if view.Stats.TotalCalls != 1 {
		t.Fatalf("expected the seeded call in window, got %d", view.Stats.TotalCalls)
	}
	if len(view.TypeDistribution) != 1 || view.TypeDistribution[0].Name != "sales" {
		t.Fatalf("unexpected type distribution: %+v", view.TypeDistribution)
	}
}

func TestCallAnalysis_RepositoryFaultIs500(t *testing.T) {
	r := newRouter(brokenRepo{})
	w := doJSON(t, r, http.MethodGet, "/api/call-analysis", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Internal server error") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestAnalysisExport_ServesWorkbook(t *testing.T) {
	r := newRouter(calls.NewMemoryRepo())
	w := doJSON(t, r, http.MethodGet, "/api/call-analysis/export?days=3", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("unexpected content type: %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "call-analytics-3d.xlsx") {
		t.Fatalf("unexpected content disposition: %q", cd)
	}
	if w.Body.Len() == 0 {
		t.Fatalf("expected non-empty workbook body")
	}
}
