// Package metrics derives engagement metrics from scraped reel data. All
// functions are pure and deterministic; nothing here touches the network.
package metrics

import (
	"math"
	"time"

	"github.com/reelscope/reelscope/internal/domain"
)

const (
	commentWeight = 2
	shareWeight   = 3
	decayPerDay   = 0.1
	decayFloor    = 0.1
	percentScale  = 100
	hoursPerDay   = 24
)

// EngagementRate returns (likes+comments)/views as a percentage. A reel with
// zero views has rate 0 rather than a division-by-zero.
func EngagementRate(likes, comments, views int) float64 {
	if views == 0 {
		return 0
	}
	return float64(likes+comments) / float64(views) * percentScale
}

// ViralityScore combines weighted engagement with a time-decay factor.
// Comments and shares weigh more than likes because they are costlier
// actions. The decay floor keeps very old content from scoring exactly 0.
func ViralityScore(views, likes, comments, shares int, postDate, now time.Time) int {
	daysSincePost := now.Sub(postDate).Hours() / hoursPerDay
	denominator := views
	if denominator < 1 {
		denominator = 1
	}
	weighted := float64(likes+comments*commentWeight+shares*shareWeight) / float64(denominator)
	decay := math.Max(decayFloor, 1/(1+daysSincePost*decayPerDay))
	return int(math.Round(weighted * decay * percentScale))
}

// OverallSentiment blends caption and comments sentiment into one result.
// Percentages are the rounded average of the two components, but the overall
// label comes from the sign of the score sum while the final score is the
// score average. Near zero the two disagree: 0.6 + -0.4 averages to 0.1 but
// the label decision sees 0.2.
func OverallSentiment(caption, comments domain.Sentiment) domain.Sentiment {
	scoreSum := caption.Score + comments.Score

	overall := domain.SentimentNeutral
	switch {
	case scoreSum > 0:
		overall = domain.SentimentPositive
	case scoreSum < 0:
		overall = domain.SentimentNegative
	}

	return domain.Sentiment{
		Positive: roundedAverage(caption.Positive, comments.Positive),
		Negative: roundedAverage(caption.Negative, comments.Negative),
		Neutral:  roundedAverage(caption.Neutral, comments.Neutral),
		Overall:  overall,
		Score:    scoreSum / 2,
	}
}

func roundedAverage(a, b int) int {
	return int(math.Round(float64(a+b) / 2))
}
