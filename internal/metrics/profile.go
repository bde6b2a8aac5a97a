package metrics

import "github.com/reelscope/reelscope/internal/domain"

// Influencer tier thresholds by follower count.
const (
	macroTierMin     = 10_000
	megaTierMin      = 100_000
	celebrityTierMin = 1_000_000
)

// AnalyzeProfile derives profile-level analysis from a scraped reel. Profile
// counts are optional upstream; a missing or zero denominator yields ratio 0,
// never NaN or Inf. Followers default to 0 when unknown, which lands the
// account in the micro tier.
func AnalyzeProfile(reel *domain.ScrapedReel) domain.ProfileAnalysis {
	followers := intOrZero(reel.UserFollowers)
	following := intOrZero(reel.UserFollowing)
	posts := intOrZero(reel.UserPostsCount)

	return domain.ProfileAnalysis{
		InfluencerTier: influencerTier(followers),
		AccountHealth: domain.AccountHealth{
			FollowRatio:           safeRatio(followers, following),
			PostsToFollowersRatio: safeRatio(posts, followers),
		},
		ContentStrategy: domain.ContentStrategyFlags{
			// Account-level flags are not observable from reel data.
			PostingFrequency:  "Unknown",
			ContentCategories: []string{},
		},
		ReelPerformance: domain.ReelPerformance{
			ViewToFollowerRatio:    safeRatio(reel.ViewCount, followers),
			LikeToFollowerRatio:    safeRatio(reel.LikesCount, followers),
			CommentToFollowerRatio: safeRatio(reel.CommentsCount, followers),
		},
	}
}

func influencerTier(followers int) string {
	switch {
	case followers >= celebrityTierMin:
		return "celebrity"
	case followers >= megaTierMin:
		return "mega"
	case followers >= macroTierMin:
		return "macro"
	default:
		return "micro"
	}
}

func safeRatio(numerator, denominator int) float64 {
	if denominator <= 0 {
		return 0
	}
	return float64(numerator) / float64(denominator)
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
