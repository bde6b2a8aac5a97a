// Package analysis runs caption and comment analysis through a hosted Gemini
// model. One analysis means exactly one model call; per-comment calls would
// multiply cost and latency by the comment count.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/reelscope/reelscope/internal/config"
	"github.com/reelscope/reelscope/internal/domain"
	"github.com/reelscope/reelscope/internal/logging"
	"github.com/reelscope/reelscope/internal/telemetry"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// Analysis is everything the model contributes to a reel record.
type Analysis struct {
	CaptionSentiment  domain.Sentiment
	CommentsSentiment domain.Sentiment
	ProcessedComments []domain.ProcessedComment
	Category          string
	StrategicInsights domain.StrategicInsights
}

// Gateway talks to the Gemini generateContent API.
type Gateway struct {
	apiKey          string
	model           string
	maxOutputTokens int
	baseURL         string
	client          *http.Client
	telemetry       *telemetry.Provider
	logger          logging.Logger
}

// NewGateway builds a Gateway. A missing API key is a construction error:
// there is no degraded mode where the service silently skips analysis.
func NewGateway(cfg config.AnalysisConfig, tel *telemetry.Provider, logger logging.Logger) (*Gateway, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("analysis API key is required")
	}
	return &Gateway{
		apiKey:          cfg.APIKey,
		model:           cfg.Model,
		maxOutputTokens: cfg.MaxOutputTokens,
		baseURL:         defaultGeminiBaseURL,
		client:          &http.Client{Timeout: cfg.Timeout},
		telemetry:       tel,
		logger:          logger,
	}, nil
}

// Analyze runs the single batched model call for one scraped reel and never
// returns an error: any failure between here and the model degrades to the
// deterministic fallback so a reconcile is never blocked on the model.
func (g *Gateway) Analyze(ctx context.Context, reel *domain.ScrapedReel) Analysis {
	if len(reel.Comments) == 0 {
		return g.analyzeCaptionOnly(ctx, reel.Caption)
	}

	raw, err := g.generate(ctx, buildPrompt(reel))
	if err != nil {
		g.logger.Warn("analysis call failed, using fallback",
			"reel_id", reel.ReelID, "error", err)
		g.telemetry.RecordModelFallback(ctx, "request_failed")
		return fallbackAnalysis(reel.Comments)
	}

	span, ok := extractJSON(raw)
	if !ok {
		g.logger.Warn("no JSON object in analysis response",
			"reel_id", reel.ReelID, "response_length", len(raw))
		g.telemetry.RecordModelFallback(ctx, "no_json")
		return fallbackAnalysis(reel.Comments)
	}

	var resp modelResponse
	if err := json.Unmarshal([]byte(span), &resp); err != nil {
		g.logger.Warn("analysis response is not valid JSON",
			"reel_id", reel.ReelID, "error", err)
		g.telemetry.RecordModelFallback(ctx, "invalid_json")
		return fallbackAnalysis(reel.Comments)
	}

	return validateResponse(&resp, reel.Comments)
}

// analyzeCaptionOnly handles reels with no comments: a smaller prompt for the
// caption sentiment alone, defaults for everything else.
func (g *Gateway) analyzeCaptionOnly(ctx context.Context, caption string) Analysis {
	analysis := Analysis{
		CaptionSentiment:  domain.NeutralSentiment(),
		CommentsSentiment: domain.NeutralSentiment(),
		ProcessedComments: []domain.ProcessedComment{},
		Category:          domain.CategoryGeneral,
		StrategicInsights: defaultStrategicInsights(),
	}
	if caption == "" {
		return analysis
	}

	raw, err := g.generate(ctx, buildCaptionPrompt(caption))
	if err != nil {
		g.logger.Warn("caption analysis call failed, using fallback", "error", err)
		g.telemetry.RecordModelFallback(ctx, "request_failed")
		return analysis
	}
	span, ok := extractJSON(raw)
	if !ok {
		g.telemetry.RecordModelFallback(ctx, "no_json")
		return analysis
	}
	var resp sentimentResponse
	if err := json.Unmarshal([]byte(span), &resp); err != nil {
		g.telemetry.RecordModelFallback(ctx, "invalid_json")
		return analysis
	}

	analysis.CaptionSentiment = validateSentiment(&resp)
	return analysis
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		MaxOutputTokens int `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

// generate issues one generateContent call and returns the raw text of the
// first candidate. One attempt, no retries.
func (g *Gateway) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
	}
	reqBody.GenerationConfig.MaxOutputTokens = g.maxOutputTokens

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		g.baseURL, g.model, url.QueryEscape(g.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model API returned %d: %s", resp.StatusCode, respBody)
	}

	var decoded geminiResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty response from model")
	}

	candidate := decoded.Candidates[0]
	if candidate.FinishReason == "MAX_TOKENS" {
		g.logger.Warn("model response truncated",
			"model", g.model, "max_tokens", g.maxOutputTokens)
	}
	return candidate.Content.Parts[0].Text, nil
}

// fallbackAnalysis is the fully-specified degraded result: neutral sentiment
// everywhere, every comment kept but unflagged, and default insights.
func fallbackAnalysis(comments []domain.Comment) Analysis {
	processed := make([]domain.ProcessedComment, 0, len(comments))
	for _, c := range comments {
		processed = append(processed, domain.ProcessedComment{
			Comment:   c,
			Sentiment: domain.SentimentNeutral,
			IsSpam:    false,
		})
	}
	return Analysis{
		CaptionSentiment:  domain.NeutralSentiment(),
		CommentsSentiment: domain.NeutralSentiment(),
		ProcessedComments: processed,
		Category:          domain.CategoryGeneral,
		StrategicInsights: defaultStrategicInsights(),
	}
}
