// Package scraper fetches reel data from Instagram through a chain of
// provider adapters. Providers are tried in configured order; the first
// success wins.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"golang.org/x/time/rate"

	"github.com/reelscope/reelscope/internal/config"
	"github.com/reelscope/reelscope/internal/domain"
	"github.com/reelscope/reelscope/internal/logging"
	"github.com/reelscope/reelscope/internal/telemetry"
)

const secondsPerMinute = 60

var reelIDPattern = regexp.MustCompile(`/reel/([A-Za-z0-9_-]+)`)

// ExtractReelID pulls the shortcode out of a reel URL. It returns "" when the
// URL does not contain a /reel/ segment.
func ExtractReelID(url string) string {
	match := reelIDPattern.FindStringSubmatch(url)
	if match == nil {
		return ""
	}
	return match[1]
}

// Provider is one upstream source of reel data. Fetch returns a fully
// normalized reel or an error; partial results are not a thing.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, url string) (*domain.ScrapedReel, error)
}

// Scraper runs the provider fallback chain with shared rate limiting.
type Scraper struct {
	providers []Provider
	limiter   *rate.Limiter
	telemetry *telemetry.Provider
	logger    logging.Logger
}

// New builds a Scraper from configuration. Unknown provider names in the
// chain are a startup error, not a runtime surprise.
func New(cfg config.ScraperConfig, tel *telemetry.Provider, logger logging.Logger) (*Scraper, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	providers := make([]Provider, 0, len(cfg.Providers))
	for _, name := range cfg.Providers {
		switch name {
		case "apify":
			providers = append(providers, NewApifyProvider(httpClient, cfg.ApifyToken))
		case "rapidapi":
			providers = append(providers, NewRapidAPIProvider(httpClient, cfg.RapidAPIKey))
		case "html":
			providers = append(providers, NewHTMLProvider(httpClient))
		default:
			return nil, fmt.Errorf("unknown scraper provider %q", name)
		}
	}
	if len(providers) == 0 {
		return nil, errors.New("no scraper providers configured")
	}

	rps := rate.Limit(float64(cfg.RequestsPerMinute) / secondsPerMinute)

	return &Scraper{
		providers: providers,
		limiter:   rate.NewLimiter(rps, 1),
		telemetry: tel,
		logger:    logger,
	}, nil
}

// NewWithProviders builds a Scraper around an explicit provider chain.
func NewWithProviders(tel *telemetry.Provider, logger logging.Logger, providers ...Provider) *Scraper {
	return &Scraper{
		providers: providers,
		limiter:   rate.NewLimiter(rate.Inf, 1),
		telemetry: tel,
		logger:    logger,
	}
}

// Scrape fetches one reel, trying each provider in order. An invalid URL is
// rejected before any provider runs. When every provider fails the returned
// error wraps both domain.ErrAllProvidersFailed and the last provider error.
func (s *Scraper) Scrape(ctx context.Context, url string) (*domain.ScrapedReel, error) {
	reelID := ExtractReelID(url)
	if reelID == "" {
		return nil, domain.NewValidationError("invalid Instagram reel URL")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("scrape rate limit: %w", err)
	}

	var lastErr error
	for _, provider := range s.providers {
		start := time.Now()
		reel, err := provider.Fetch(ctx, url)
		duration := time.Since(start)
		s.telemetry.RecordScrape(ctx, provider.Name(), err == nil, duration)
		if err != nil {
			s.logger.Warn("scrape provider failed",
				"provider", provider.Name(),
				"reel_id", reelID,
				"duration", duration,
				"error", err)
			lastErr = err
			continue
		}

		s.logger.Info("scrape provider succeeded",
			"provider", provider.Name(),
			"reel_id", reelID,
			"duration", duration)
		normalize(reel, reelID)
		return reel, nil
	}

	return nil, fmt.Errorf("%w: %w", domain.ErrAllProvidersFailed, lastErr)
}

// normalize enforces the invariants every provider owes its callers: a
// non-empty reel ID and at most MaxCommentsPerReel comments.
func normalize(reel *domain.ScrapedReel, reelID string) {
	if reel.ReelID == "" {
		reel.ReelID = reelID
	}
	if len(reel.Comments) > domain.MaxCommentsPerReel {
		reel.Comments = reel.Comments[:domain.MaxCommentsPerReel]
	}
	if reel.Comments == nil {
		reel.Comments = []domain.Comment{}
	}
}
