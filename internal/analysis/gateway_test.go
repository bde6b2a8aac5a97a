package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/reelscope/reelscope/internal/config"
	"github.com/reelscope/reelscope/internal/domain"
	"github.com/reelscope/reelscope/internal/logging"
	"github.com/reelscope/reelscope/internal/telemetry"
)

// promauto registers against the default registry, so the test binary gets
// exactly one provider.
var (
	testTelemetry     *telemetry.Provider
	testTelemetryOnce sync.Once
)

func testProvider() *telemetry.Provider {
	testTelemetryOnce.Do(func() {
		testTelemetry = telemetry.NewProvider()
	})
	return testTelemetry
}

func testAnalysisConfig() config.AnalysisConfig {
	return config.AnalysisConfig{
		APIKey:          "test-key",
		Model:           "gemini-2.5-pro",
		Timeout:         5 * time.Second,
		MaxOutputTokens: 4096,
	}
}

// geminiStub wraps text into the generateContent response envelope.
func geminiStub(t *testing.T, text string, gotPrompt *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req geminiRequest
		if err := jsonDecode(r, &req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if gotPrompt != nil && len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			*gotPrompt = req.Contents[0].Parts[0].Text
		}
		w.Header().Set("Content-Type", "application/json")
		resp := `{"candidates":[{"content":{"parts":[{"text":` + jsonString(text) + `}]},"finishReason":"STOP"}]}`
		_, _ = w.Write([]byte(resp))
	}))
}

func jsonDecode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func newTestGateway(t *testing.T, server *httptest.Server) *Gateway {
	t.Helper()
	g, err := NewGateway(testAnalysisConfig(), testProvider(), logging.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g.baseURL = server.URL
	g.client = server.Client()
	return g
}

func TestNewGateway_RequiresAPIKey(t *testing.T) {
	cfg := testAnalysisConfig()
	cfg.APIKey = ""

	if _, err := NewGateway(cfg, testProvider(), logging.Nop()); err == nil {
		t.Fatal("expected an error when the API key is missing")
	}
}

func TestAnalyze_ParsesModelResponse(t *testing.T) {
	modelText := "Sure, here is the JSON:\n```json\n" + `{
		"captionSentiment": {"positive": 70, "negative": 10, "neutral": 20, "overall": "positive", "score": 0.6},
		"commentsSentiment": {"positive": 50, "negative": 30, "neutral": 20, "overall": "positive", "score": 0.2},
		"comments": [{"index": 1, "sentiment": "positive", "isSpam": false}],
		"category": "fitness"
	}` + "\n```"
	var gotPrompt string
	server := geminiStub(t, modelText, &gotPrompt)
	defer server.Close()

	g := newTestGateway(t, server)
	reel := &domain.ScrapedReel{
		ReelID:     "abc",
		Caption:    "morning workout #fitness",
		ViewCount:  1000,
		LikesCount: 100,
		Comments:   []domain.Comment{{ID: "c1", Text: "so motivating"}},
	}

	got := g.Analyze(context.Background(), reel)

	if got.Category != "fitness" {
		t.Errorf("expected category fitness, got %q", got.Category)
	}
	if got.CaptionSentiment.Overall != domain.SentimentPositive || got.CaptionSentiment.Score != 0.6 {
		t.Errorf("unexpected caption sentiment: %+v", got.CaptionSentiment)
	}
	if len(got.ProcessedComments) != 1 || got.ProcessedComments[0].Sentiment != domain.SentimentPositive {
		t.Errorf("unexpected processed comments: %+v", got.ProcessedComments)
	}
	if !strings.Contains(gotPrompt, `1. "so motivating"`) {
		t.Errorf("expected enumerated comment in prompt, got:\n%s", gotPrompt)
	}
	if !strings.Contains(gotPrompt, "#fitness") {
		t.Error("expected hashtags in the engagement summary")
	}
}

func TestAnalyze_FallbackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	g := newTestGateway(t, server)
	comments := []domain.Comment{{ID: "c1", Text: "hello"}, {ID: "c2", Text: "world"}}
	fallbacks := testProvider().Metrics.ModelFallbacks.WithLabelValues("request_failed")
	before := testutil.ToFloat64(fallbacks)

	got := g.Analyze(context.Background(), &domain.ScrapedReel{Comments: comments})

	if after := testutil.ToFloat64(fallbacks); after != before+1 {
		t.Errorf("expected one recorded fallback, counter went %v -> %v", before, after)
	}

	if got.Category != domain.CategoryGeneral {
		t.Errorf("expected general category, got %q", got.Category)
	}
	if got.CaptionSentiment != domain.NeutralSentiment() {
		t.Errorf("expected neutral caption sentiment, got %+v", got.CaptionSentiment)
	}
	if len(got.ProcessedComments) != 2 {
		t.Fatalf("expected all comments kept in fallback, got %d", len(got.ProcessedComments))
	}
	for _, pc := range got.ProcessedComments {
		if pc.Sentiment != domain.SentimentNeutral || pc.IsSpam {
			t.Errorf("expected neutral non-spam fallback, got %+v", pc)
		}
	}
}

func TestAnalyze_FallbackOnGarbageResponse(t *testing.T) {
	server := geminiStub(t, "I cannot help with that.", nil)
	defer server.Close()

	g := newTestGateway(t, server)
	fallbacks := testProvider().Metrics.ModelFallbacks.WithLabelValues("no_json")
	before := testutil.ToFloat64(fallbacks)

	got := g.Analyze(context.Background(), &domain.ScrapedReel{
		Comments: []domain.Comment{{ID: "c1"}},
	})

	if got.Category != domain.CategoryGeneral {
		t.Errorf("expected fallback category, got %q", got.Category)
	}
	if after := testutil.ToFloat64(fallbacks); after != before+1 {
		t.Errorf("expected one recorded fallback, counter went %v -> %v", before, after)
	}
}

func TestAnalyze_NoComments(t *testing.T) {
	var gotPrompt string
	server := geminiStub(t, `{"positive": 80, "negative": 5, "neutral": 15, "overall": "positive", "score": 0.7}`, &gotPrompt)
	defer server.Close()

	g := newTestGateway(t, server)
	got := g.Analyze(context.Background(), &domain.ScrapedReel{Caption: "great trip"})

	if got.CaptionSentiment.Overall != domain.SentimentPositive {
		t.Errorf("expected positive caption sentiment, got %+v", got.CaptionSentiment)
	}
	if got.CommentsSentiment != domain.NeutralSentiment() {
		t.Errorf("expected default comments sentiment, got %+v", got.CommentsSentiment)
	}
	if len(got.ProcessedComments) != 0 {
		t.Errorf("expected no processed comments, got %d", len(got.ProcessedComments))
	}
	if got.Category != domain.CategoryGeneral {
		t.Errorf("expected general category, got %q", got.Category)
	}
	if strings.Contains(gotPrompt, "COMMENTS") {
		t.Error("expected the reduced caption-only prompt")
	}
}

func TestAnalyze_EmptyCaptionNoComments_SkipsModelCall(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	g := newTestGateway(t, server)
	got := g.Analyze(context.Background(), &domain.ScrapedReel{})

	if calls != 0 {
		t.Errorf("expected no model call for an empty reel, got %d", calls)
	}
	if got.CaptionSentiment != domain.NeutralSentiment() {
		t.Errorf("expected neutral sentiment, got %+v", got.CaptionSentiment)
	}
}
