package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/reelscope/reelscope/internal/domain"
)

const (
	defaultRapidAPIBaseURL = "https://instagram-scraper-api2.p.rapidapi.com"
	rapidAPIHost           = "instagram-scraper-api2.p.rapidapi.com"
	rapidAPIPostInfoPath   = "/v1/post_info"
)

// RapidAPIProvider fetches reel data through the RapidAPI Instagram scraper.
type RapidAPIProvider struct {
	client  *http.Client
	apiKey  string
	baseURL string
}

// NewRapidAPIProvider creates a RapidAPI-backed provider.
func NewRapidAPIProvider(client *http.Client, apiKey string) *RapidAPIProvider {
	return &RapidAPIProvider{client: client, apiKey: apiKey, baseURL: defaultRapidAPIBaseURL}
}

// Name implements Provider.
func (p *RapidAPIProvider) Name() string { return "rapidapi" }

// Fetch implements Provider.
func (p *RapidAPIProvider) Fetch(ctx context.Context, reelURL string) (*domain.ScrapedReel, error) {
	if p.apiKey == "" {
		return nil, errors.New("rapidapi key not configured")
	}

	endpoint := p.baseURL + rapidAPIPostInfoPath + "?code_or_id_or_url=" + url.QueryEscape(reelURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", p.apiKey)
	req.Header.Set("X-RapidAPI-Host", rapidAPIHost)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rapidapi returned %d", resp.StatusCode)
	}

	var envelope struct {
		Data *graphMedia `json:"data"`
	}
	if decodeErr := json.NewDecoder(resp.Body).Decode(&envelope); decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}
	if envelope.Data == nil {
		return nil, errors.New("no post data in response")
	}

	return formatGraphMedia(envelope.Data), nil
}
