package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/reelscope/reelscope/internal/aggregator"
	"github.com/reelscope/reelscope/internal/domain"
)

// mockLogger implements Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(msg string, keysAndValues ...any) {}
func (m *mockLogger) Info(msg string, keysAndValues ...any)  {}
func (m *mockLogger) Warn(msg string, keysAndValues ...any)  {}
func (m *mockLogger) Error(msg string, keysAndValues ...any) {}

type mockReconciler struct {
	reel         *domain.Reel
	err          error
	gotURL       string
	gotForce     bool
	analyzeCalls int
}

func (m *mockReconciler) Analyze(_ context.Context, url string, forceRefresh bool) (*domain.Reel, error) {
	m.analyzeCalls++
	m.gotURL = url
	m.gotForce = forceRefresh
	if m.err != nil {
		return nil, m.err
	}
	return m.reel, nil
}

type mockAggregator struct {
	comparison *aggregator.ComparisonResult
	analytics  *domain.UserAnalytics
	err        error
	gotURLs    []string
	gotUser    string
}

func (m *mockAggregator) Compare(_ context.Context, urls []string) (*aggregator.ComparisonResult, error) {
	m.gotURLs = urls
	if m.err != nil {
		return nil, m.err
	}
	return m.comparison, nil
}

func (m *mockAggregator) UserAnalytics(_ context.Context, username string) (*domain.UserAnalytics, error) {
	m.gotUser = username
	if m.err != nil {
		return nil, m.err
	}
	return m.analytics, nil
}

type mockPinger struct{ err error }

func (m *mockPinger) PingContext(_ context.Context) error { return m.err }

func setupRouter(rec Reconciler, agg Aggregator, db Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(rec, agg, db, &mockLogger{}, "reelscope", "1.0.0")

	router := gin.New()
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)
	v1 := router.Group("/api/v1")
	v1.POST("/reels/analyze", handler.Analyze)
	v1.POST("/reels/compare", handler.Compare)
	v1.GET("/users/:username", handler.UserAnalytics)
	return router
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	return resp
}

func TestAnalyze_Success(t *testing.T) {
	rec := &mockReconciler{reel: &domain.Reel{URL: "https://www.instagram.com/reel/abc/", Username: "creator"}}
	router := setupRouter(rec, &mockAggregator{}, &mockPinger{})

	w := doJSON(router, http.MethodPost, "/api/v1/reels/analyze", AnalyzeRequest{
		URL:          "https://www.instagram.com/reel/abc/",
		ForceRefresh: true,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeResponse(t, w)
	if !resp.Success || resp.Data == nil {
		t.Errorf("expected success envelope with data, got %+v", resp)
	}
	if !rec.gotForce {
		t.Error("expected forceRefresh passed through")
	}
}

func TestAnalyze_MissingURL(t *testing.T) {
	rec := &mockReconciler{}
	router := setupRouter(rec, &mockAggregator{}, &mockPinger{})

	w := doJSON(router, http.MethodPost, "/api/v1/reels/analyze", gin.H{})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if rec.analyzeCalls != 0 {
		t.Errorf("expected no analysis attempted, got %d", rec.analyzeCalls)
	}
}

func TestAnalyze_NonReelURL(t *testing.T) {
	urls := []string{
		"https://example.com/video/123",
		"https://www.instagram.com/p/Cxyz123/",
		"https://www.instagram.com/creator/",
	}

	for _, url := range urls {
		rec := &mockReconciler{}
		router := setupRouter(rec, &mockAggregator{}, &mockPinger{})

		w := doJSON(router, http.MethodPost, "/api/v1/reels/analyze", AnalyzeRequest{URL: url})

		if w.Code != http.StatusBadRequest {
			t.Errorf("url %q: expected 400, got %d", url, w.Code)
		}
		if rec.analyzeCalls != 0 {
			t.Errorf("url %q: expected rejection before analysis, got %d calls", url, rec.analyzeCalls)
		}
	}
}

func TestAnalyze_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation error", domain.NewValidationError("bad url"), http.StatusBadRequest},
		{"providers exhausted", domain.ErrAllProvidersFailed, http.StatusInternalServerError},
		{"not found", domain.ErrNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(&mockReconciler{err: tt.err}, &mockAggregator{}, &mockPinger{})

			w := doJSON(router, http.MethodPost, "/api/v1/reels/analyze", AnalyzeRequest{
				URL: "https://www.instagram.com/reel/abc/",
			})

			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
			resp := decodeResponse(t, w)
			if resp.Success || resp.Error == "" {
				t.Errorf("expected error envelope, got %+v", resp)
			}
		})
	}
}

func TestCompare_Success(t *testing.T) {
	agg := &mockAggregator{comparison: &aggregator.ComparisonResult{
		Comparison: domain.Comparison{TopPerformer: "@creator"},
	}}
	router := setupRouter(&mockReconciler{}, agg, &mockPinger{})

	w := doJSON(router, http.MethodPost, "/api/v1/reels/compare", CompareRequest{
		URLs: []string{"u1", "u2"},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(agg.gotURLs) != 2 {
		t.Errorf("expected 2 urls passed through, got %v", agg.gotURLs)
	}
}

func TestCompare_BindingRejectsBadCounts(t *testing.T) {
	router := setupRouter(&mockReconciler{}, &mockAggregator{}, &mockPinger{})

	for _, urls := range [][]string{{}, {"u1"}, {"u1", "u2", "u3", "u4", "u5", "u6"}} {
		w := doJSON(router, http.MethodPost, "/api/v1/reels/compare", gin.H{"urls": urls})
		if w.Code != http.StatusBadRequest {
			t.Errorf("urls=%v: expected 400, got %d", urls, w.Code)
		}
	}
}

func TestCompare_NotFound(t *testing.T) {
	agg := &mockAggregator{err: domain.ErrNotFound}
	router := setupRouter(&mockReconciler{}, agg, &mockPinger{})

	w := doJSON(router, http.MethodPost, "/api/v1/reels/compare", CompareRequest{
		URLs: []string{"u1", "u2"},
	})

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestUserAnalytics_Success(t *testing.T) {
	agg := &mockAggregator{analytics: &domain.UserAnalytics{Username: "creator"}}
	router := setupRouter(&mockReconciler{}, agg, &mockPinger{})

	w := doJSON(router, http.MethodGet, "/api/v1/users/@Creator", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if agg.gotUser != "@Creator" {
		t.Errorf("expected raw username passed through, got %q", agg.gotUser)
	}
}

func TestUserAnalytics_NotFound(t *testing.T) {
	agg := &mockAggregator{err: domain.ErrNotFound}
	router := setupRouter(&mockReconciler{}, agg, &mockPinger{})

	w := doJSON(router, http.MethodGet, "/api/v1/users/ghost", nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	router := setupRouter(&mockReconciler{}, &mockAggregator{}, &mockPinger{})

	w := doJSON(router, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestReadyCheck_DatabaseDown(t *testing.T) {
	router := setupRouter(&mockReconciler{}, &mockAggregator{}, &mockPinger{err: errors.New("connection refused")})

	w := doJSON(router, http.MethodGet, "/ready", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
