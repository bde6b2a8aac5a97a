// Package aggregator builds read-only views over stored reel records:
// side-by-side comparisons and per-author analytics. Nothing here scrapes or
// calls the model; it works purely off what the reconciler has persisted.
package aggregator

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/reelscope/reelscope/internal/domain"
	"github.com/reelscope/reelscope/internal/logging"
	"github.com/reelscope/reelscope/internal/telemetry"
)

const (
	// MinCompareURLs and MaxCompareURLs bound one comparison request.
	MinCompareURLs = 2
	MaxCompareURLs = 5

	recentReelsLimit    = 5
	maxRecommendations  = 5
	lowEngagementRate   = 2
	highEngagementRate  = 5
	spamShareThreshold  = 0.15
	categoryFocusShare  = 0.6
	percentScale        = 100
	twoDecimalPrecision = 100
)

// Repo is the read surface the aggregator needs.
type Repo interface {
	GetByURLs(ctx context.Context, urls []string) ([]domain.Reel, error)
	GetByUsername(ctx context.Context, username string) ([]domain.Reel, error)
}

// Service computes aggregate views.
type Service struct {
	repo      Repo
	telemetry *telemetry.Provider
	logger    logging.Logger
}

// New creates an aggregator Service.
func New(repo Repo, tel *telemetry.Provider, logger logging.Logger) *Service {
	return &Service{repo: repo, telemetry: tel, logger: logger}
}

// ComparisonResult pairs the compared records with their summary.
type ComparisonResult struct {
	Reels      []domain.Reel     `json:"reels"`
	Comparison domain.Comparison `json:"comparison"`
}

// Compare summarizes 2 to 5 previously-analyzed reels. URLs with no stored
// record are skipped; if none of them have one, the result is ErrNotFound so
// the caller can tell "analyze these first" apart from a server fault.
func (s *Service) Compare(ctx context.Context, urls []string) (*ComparisonResult, error) {
	if len(urls) < MinCompareURLs || len(urls) > MaxCompareURLs {
		return nil, domain.NewValidationError("comparison requires between %d and %d urls, got %d",
			MinCompareURLs, MaxCompareURLs, len(urls))
	}

	reels, err := s.repo.GetByURLs(ctx, urls)
	if err != nil {
		return nil, err
	}
	if len(reels) == 0 {
		return nil, fmt.Errorf("%w: no analyzed reels among the requested urls", domain.ErrNotFound)
	}

	s.telemetry.RecordComparison(ctx, len(urls))
	s.logger.Info("comparison generated", "requested", len(urls), "found", len(reels))

	return &ComparisonResult{
		Reels:      reels,
		Comparison: compare(reels),
	}, nil
}

func compare(reels []domain.Reel) domain.Comparison {
	total := 0.0
	for _, r := range reels {
		total += r.EngagementRate
	}
	average := total / float64(len(reels))

	topPerformer := reels[0]
	sentimentWinner := reels[0]
	aboveAverage := 0
	for _, r := range reels {
		if r.EngagementRate > topPerformer.EngagementRate {
			topPerformer = r
		}
		if r.OverallSentiment.Positive > sentimentWinner.OverallSentiment.Positive {
			sentimentWinner = r
		}
		if r.EngagementRate > average {
			aboveAverage++
		}
	}

	insights := []string{}
	if aboveAverage > 0 {
		insights = append(insights, fmt.Sprintf(
			"%d out of %d reels performed above average engagement rate",
			aboveAverage, len(reels)))
	}

	return domain.Comparison{
		AverageEngagementRate: roundTwoDecimals(average),
		TopPerformer:          "@" + topPerformer.Username,
		SentimentWinner:       "@" + sentimentWinner.Username,
		Insights:              insights,
	}
}

// UserAnalytics aggregates every stored reel of one author. The username is
// normalized (lowercase, leading @ dropped) before lookup.
func (s *Service) UserAnalytics(ctx context.Context, username string) (*domain.UserAnalytics, error) {
	normalized := strings.Replace(strings.ToLower(strings.TrimSpace(username)), "@", "", 1)
	if normalized == "" {
		return nil, domain.NewValidationError("username is required")
	}

	reels, err := s.repo.GetByUsername(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if len(reels) == 0 {
		return nil, fmt.Errorf("%w: no analyzed reels for user %s", domain.ErrNotFound, normalized)
	}

	s.telemetry.RecordUserAnalytics(ctx)

	return calculate(reels), nil
}

// calculate assumes reels is non-empty and sorted newest post first, which is
// what the repository returns.
func calculate(reels []domain.Reel) *domain.UserAnalytics {
	totalViews, totalLikes, totalComments := 0, 0, 0
	totalEngagement := 0.0
	best := reels[0]
	categories := map[string]int{}
	sentiments := map[domain.SentimentLabel]int{}

	for _, r := range reels {
		totalViews += r.ViewCount
		totalLikes += r.LikesCount
		totalComments += r.CommentsCount
		totalEngagement += r.EngagementRate
		if r.EngagementRate > best.EngagementRate {
			best = r
		}
		if r.Category != "" {
			categories[r.Category]++
		}
		sentiments[r.OverallSentiment.Overall]++
	}

	count := len(reels)
	recent := reels
	if len(recent) > recentReelsLimit {
		recent = recent[:recentReelsLimit]
	}

	return &domain.UserAnalytics{
		Username:           reels[0].Username,
		ProfilePic:         reels[0].UserProfilePic,
		TotalReelsAnalyzed: count,
		AverageEngagement:  roundTwoDecimals(totalEngagement / float64(count)),
		TotalViews:         totalViews,
		TotalLikes:         totalLikes,
		TotalComments:      totalComments,
		BestPerformingReel: &best,
		RecentReels:        recent,
		CategoryBreakdown:  categories,
		SentimentTrend: domain.SentimentTrend{
			Positive: percentOf(sentiments[domain.SentimentPositive], count),
			Negative: percentOf(sentiments[domain.SentimentNegative], count),
			Neutral:  percentOf(sentiments[domain.SentimentNeutral], count),
		},
		Recommendations: recommendations(reels, totalEngagement/float64(count), categories, totalComments),
	}
}

func recommendations(reels []domain.Reel, avgEngagement float64, categories map[string]int, totalComments int) []string {
	recs := []string{}

	switch {
	case avgEngagement < lowEngagementRate:
		recs = append(recs, "Focus on improving engagement - try more interactive content like polls or questions")
	case avgEngagement > highEngagementRate:
		recs = append(recs, "Great engagement rate! Maintain this momentum with consistent posting")
	}

	if totalComments > 0 {
		totalSpam := 0
		for _, r := range reels {
			totalSpam += r.SpamCommentsCount
		}
		if float64(totalSpam)/float64(totalComments) > spamShareThreshold {
			recs = append(recs, "A large share of comments looks like spam - consider moderating comment sections")
		}
	}

	for category, n := range categories {
		if float64(n)/float64(len(reels)) >= categoryFocusShare && category != domain.CategoryGeneral {
			recs = append(recs, fmt.Sprintf(
				"Most of your content is %s - experimenting with adjacent categories could grow your reach", category))
			break
		}
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

func roundTwoDecimals(v float64) float64 {
	return math.Round(v*twoDecimalPrecision) / twoDecimalPrecision
}

func percentOf(n, total int) int {
	return int(math.Round(float64(n) / float64(total) * percentScale))
}
