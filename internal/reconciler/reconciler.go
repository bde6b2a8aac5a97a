// Package reconciler orchestrates one reel analysis end to end: cache check,
// scrape, model analysis, metric derivation, merge, persist.
package reconciler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/reelscope/reelscope/internal/analysis"
	"github.com/reelscope/reelscope/internal/domain"
	"github.com/reelscope/reelscope/internal/logging"
	"github.com/reelscope/reelscope/internal/metrics"
	"github.com/reelscope/reelscope/internal/telemetry"
)

// Store is the persistence surface the reconciler needs.
type Store interface {
	Upsert(ctx context.Context, reel *domain.Reel) error
	GetByURL(ctx context.Context, url string) (*domain.Reel, error)
}

// Scraper fetches raw reel data.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*domain.ScrapedReel, error)
}

// Analyzer runs the batched model analysis.
type Analyzer interface {
	Analyze(ctx context.Context, reel *domain.ScrapedReel) analysis.Analysis
}

// Service reconciles analyze requests against the store.
type Service struct {
	store     Store
	scraper   Scraper
	analyzer  Analyzer
	telemetry *telemetry.Provider
	freshness time.Duration
	logger    logging.Logger

	now func() time.Time
}

// New creates a reconciler Service.
func New(
	store Store,
	scraper Scraper,
	analyzer Analyzer,
	tel *telemetry.Provider,
	freshness time.Duration,
	logger logging.Logger,
) *Service {
	return &Service{
		store:     store,
		scraper:   scraper,
		analyzer:  analyzer,
		telemetry: tel,
		freshness: freshness,
		logger:    logger,
		now:       time.Now,
	}
}

// derived holds the locally-computed metrics of one reel. Computing it needs
// only the scraped data, so it runs concurrently with the model call.
type derived struct {
	engagementRate float64
	viralityScore  int
	hashtags       []domain.HashtagCount
	wordCloud      []domain.WordCount
	profile        domain.ProfileAnalysis
}

// Analyze returns the canonical record for url. A stored record younger than
// the freshness window is returned as-is unless forceRefresh is set;
// otherwise the whole pipeline runs and the record is rewritten. On any
// failure nothing is persisted.
func (s *Service) Analyze(ctx context.Context, url string, forceRefresh bool) (*domain.Reel, error) {
	ctx, span := s.telemetry.StartSpan(ctx, "reconciler.Analyze")
	defer span.End()

	var existing *domain.Reel
	if stored, err := s.store.GetByURL(ctx, url); err == nil {
		existing = stored
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup stored reel: %w", err)
	}

	if !forceRefresh && existing != nil {
		if age := s.now().Sub(existing.LastUpdated); age < s.freshness {
			s.logger.Info("returning cached reel", "url", url, "age", age)
			s.telemetry.RecordCacheHit(ctx)
			return existing, nil
		}
	}

	start := s.now()
	scraped, err := s.scraper.Scrape(ctx, url)
	if err != nil {
		s.telemetry.RecordAnalysisFailure(ctx)
		return nil, err
	}

	// The metric derivation and the model call both depend only on the
	// scraped data, so they run concurrently.
	derivedCh := make(chan derived, 1)
	go func() {
		derivedCh <- deriveMetrics(scraped, s.now())
	}()

	modelStart := s.now()
	result := s.analyzer.Analyze(ctx, scraped)
	s.telemetry.RecordModelCall(ctx, s.now().Sub(modelStart))

	reel := merge(url, scraped, result, <-derivedCh, s.now())
	if existing != nil {
		reel.CreatedAt = existing.CreatedAt
	}

	if err := s.store.Upsert(ctx, reel); err != nil {
		s.telemetry.RecordAnalysisFailure(ctx)
		return nil, fmt.Errorf("persist reel: %w", err)
	}

	s.telemetry.RecordFreshAnalysis(ctx, s.now().Sub(start),
		len(reel.Comments), reel.SpamCommentsCount, forceRefresh)
	s.logger.Info("reel analyzed",
		"url", url,
		"username", reel.Username,
		"category", reel.Category,
		"engagement_rate", reel.EngagementRate,
		"duration", s.now().Sub(start))

	return reel, nil
}

func deriveMetrics(scraped *domain.ScrapedReel, now time.Time) derived {
	commentTexts := make([]string, 0, len(scraped.Comments))
	for _, c := range scraped.Comments {
		commentTexts = append(commentTexts, c.Text)
	}

	return derived{
		engagementRate: metrics.EngagementRate(scraped.LikesCount, scraped.CommentsCount, scraped.ViewCount),
		viralityScore: metrics.ViralityScore(scraped.ViewCount, scraped.LikesCount,
			scraped.CommentsCount, scraped.SharesCount, scraped.PostDate, now),
		hashtags:  metrics.ExtractHashtags([]string{scraped.Caption}),
		wordCloud: metrics.WordCloud(commentTexts),
		profile:   metrics.AnalyzeProfile(scraped),
	}
}

// merge assembles the canonical record from the scrape, the model analysis,
// and the derived metrics.
func merge(url string, scraped *domain.ScrapedReel, result analysis.Analysis, d derived, now time.Time) *domain.Reel {
	topComments := make([]domain.ProcessedComment, len(result.ProcessedComments))
	copy(topComments, result.ProcessedComments)
	sort.SliceStable(topComments, func(i, j int) bool {
		return topComments[i].Likes > topComments[j].Likes
	})
	if len(topComments) > domain.MaxTopComments {
		topComments = topComments[:domain.MaxTopComments]
	}

	spamCount := 0
	for _, c := range result.ProcessedComments {
		if c.IsSpam {
			spamCount++
		}
	}

	profile := d.profile
	profile.AccountHealth.AvgEngagementRate = d.engagementRate
	profile.ContentStrategy.ContentCategories = []string{result.Category}

	return &domain.Reel{
		URL: url,

		ReelID:         scraped.ReelID,
		Username:       scraped.Username,
		UserProfilePic: scraped.UserProfilePic,
		UserFollowers:  scraped.UserFollowers,
		UserFollowing:  scraped.UserFollowing,
		UserPostsCount: scraped.UserPostsCount,
		Caption:        scraped.Caption,
		ViewCount:      scraped.ViewCount,
		LikesCount:     scraped.LikesCount,
		CommentsCount:  scraped.CommentsCount,
		SharesCount:    scraped.SharesCount,
		Duration:       scraped.Duration,
		PostDate:       scraped.PostDate,
		ThumbnailURL:   scraped.ThumbnailURL,

		EngagementRate: d.engagementRate,
		ViralityScore:  d.viralityScore,
		Hashtags:       d.hashtags,
		WordCloud:      d.wordCloud,

		Comments:          result.ProcessedComments,
		TopComments:       topComments,
		SpamCommentsCount: spamCount,

		CaptionSentiment:  result.CaptionSentiment,
		CommentsSentiment: result.CommentsSentiment,
		OverallSentiment:  metrics.OverallSentiment(result.CaptionSentiment, result.CommentsSentiment),
		Category:          result.Category,

		StrategicInsights: result.StrategicInsights,
		ProfileAnalysis:   profile,

		LastUpdated: now,
		CreatedAt:   now,
	}
}
