// Package domain holds the core types shared across the reelscope service.
package domain

import "time"

// MaxCommentsPerReel caps how many comments the scraper adapters keep per
// reel. It bounds the size of the downstream analysis prompt.
const MaxCommentsPerReel = 20

// MaxTopComments caps the top-comments list stored on a Reel.
const MaxTopComments = 10

// Comment is a single scraped comment, before analysis.
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	Likes     int       `json:"likes"`
	Timestamp time.Time `json:"timestamp"`
	Replies   int       `json:"replies"`
}

// ScrapedReel is the canonical normalized output of a scraper provider.
// Counts default to 0 when a provider omits them; profile-level counts stay
// nil because providers disagree on availability and 0 would be a lie.
type ScrapedReel struct {
	ReelID         string    `json:"reelId"`
	Username       string    `json:"username"`
	UserProfilePic string    `json:"userProfilePic"`
	UserFollowers  *int      `json:"userFollowers,omitempty"`
	UserFollowing  *int      `json:"userFollowing,omitempty"`
	UserPostsCount *int      `json:"userPostsCount,omitempty"`
	Caption        string    `json:"caption"`
	ViewCount      int       `json:"viewCount"`
	LikesCount     int       `json:"likesCount"`
	CommentsCount  int       `json:"commentsCount"`
	SharesCount    int       `json:"sharesCount"`
	Duration       float64   `json:"duration"`
	PostDate       time.Time `json:"postDate"`
	ThumbnailURL   string    `json:"thumbnailUrl"`
	Comments       []Comment `json:"comments"`
}

// SentimentLabel is the three-value sentiment classification.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// ValidSentimentLabel reports whether s is one of the three known labels.
func ValidSentimentLabel(s string) bool {
	switch SentimentLabel(s) {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// Sentiment is a sentiment breakdown over a span of text. Percentages are
// clamped to [0,100] independently; they usually sum to ~100 but that is a
// soft contract owed by the model, not enforced here. Score is in [-1,1].
type Sentiment struct {
	Positive int            `json:"positive"`
	Negative int            `json:"negative"`
	Neutral  int            `json:"neutral"`
	Overall  SentimentLabel `json:"overall"`
	Score    float64        `json:"score"`
}

// NeutralSentiment is the deterministic default used whenever analysis is
// unavailable.
func NeutralSentiment() Sentiment {
	return Sentiment{Positive: 0, Negative: 0, Neutral: 100, Overall: SentimentNeutral, Score: 0}
}

// ProcessedComment is a Comment plus its per-comment analysis.
type ProcessedComment struct {
	Comment
	Sentiment SentimentLabel `json:"sentiment"`
	IsSpam    bool           `json:"isSpam"`
}

// WordCount is one entry of a word cloud.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// HashtagCount is one hashtag with its occurrence count in a caption.
type HashtagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// ContentStrategyInsights is the content-strategy section of the model's
// strategic advice.
type ContentStrategyInsights struct {
	Strengths       []string `json:"strengths"`
	Opportunities   []string `json:"opportunities"`
	Recommendations []string `json:"recommendations"`
}

// AudienceInsights describes the audience as inferred by the model.
type AudienceInsights struct {
	Demographics       map[string]int `json:"demographics"`
	EngagementPatterns []string       `json:"engagementPatterns"`
	BehaviorInsights   []string       `json:"behaviorInsights"`
}

// PerformanceAnalysis is the model's advisory read on reel performance.
// ViralPotential is one of "high", "medium", "low".
type PerformanceAnalysis struct {
	ViralPotential        string   `json:"viralPotential"`
	ContentOptimization   []string `json:"contentOptimization"`
	TimingRecommendations []string `json:"timingRecommendations"`
}

// StrategicInsights is free-form advisory output from the analysis model.
// It is best-effort content: every field has a deterministic default.
type StrategicInsights struct {
	ContentStrategy     ContentStrategyInsights `json:"contentStrategy"`
	AudienceInsights    AudienceInsights        `json:"audienceInsights"`
	PerformanceAnalysis PerformanceAnalysis     `json:"performanceAnalysis"`
}

// AccountHealth holds ratios derived from profile counts. Ratios with an
// unknown or zero denominator are 0, never NaN or Inf.
type AccountHealth struct {
	FollowRatio           float64 `json:"followRatio"`
	PostsToFollowersRatio float64 `json:"postsToFollowersRatio"`
	AvgEngagementRate     float64 `json:"avgEngagementRate"`
}

// ContentStrategyFlags holds account-level strategy signals. Most are not
// derivable from reel data alone and stay at their zero values.
type ContentStrategyFlags struct {
	IsBusinessAccount bool     `json:"isBusinessAccount"`
	IsVerified        bool     `json:"isVerified"`
	HasExternalLink   bool     `json:"hasExternalLink"`
	UsesStories       bool     `json:"usesStories"`
	UsesIGTV          bool     `json:"usesIGTV"`
	PostingFrequency  string   `json:"postingFrequency"`
	ContentCategories []string `json:"contentCategories"`
}

// ReelPerformance relates reel counts to the author's follower count.
type ReelPerformance struct {
	ViewToFollowerRatio    float64 `json:"viewToFollowerRatio"`
	LikeToFollowerRatio    float64 `json:"likeToFollowerRatio"`
	CommentToFollowerRatio float64 `json:"commentToFollowerRatio"`
}

// ProfileAnalysis is the profile-derived slice of a Reel.
type ProfileAnalysis struct {
	InfluencerTier  string               `json:"influencerTier"`
	AccountHealth   AccountHealth        `json:"accountHealth"`
	ContentStrategy ContentStrategyFlags `json:"contentStrategy"`
	ReelPerformance ReelPerformance      `json:"reelPerformance"`
}

// Reel is the canonical persisted record for one analyzed reel. It is keyed
// uniquely by URL; LastUpdated advances on every successful reconciliation.
type Reel struct {
	URL string `json:"url"`

	ReelID         string    `json:"reelId"`
	Username       string    `json:"username"`
	UserProfilePic string    `json:"userProfilePic"`
	UserFollowers  *int      `json:"userFollowers,omitempty"`
	UserFollowing  *int      `json:"userFollowing,omitempty"`
	UserPostsCount *int      `json:"userPostsCount,omitempty"`
	Caption        string    `json:"caption"`
	ViewCount      int       `json:"viewCount"`
	LikesCount     int       `json:"likesCount"`
	CommentsCount  int       `json:"commentsCount"`
	SharesCount    int       `json:"sharesCount"`
	Duration       float64   `json:"duration"`
	PostDate       time.Time `json:"postDate"`
	ThumbnailURL   string    `json:"thumbnailUrl"`

	EngagementRate float64        `json:"engagementRate"`
	ViralityScore  int            `json:"viralityScore"`
	Hashtags       []HashtagCount `json:"hashtags"`
	WordCloud      []WordCount    `json:"wordCloud"`

	Comments          []ProcessedComment `json:"comments"`
	TopComments       []ProcessedComment `json:"topComments"`
	SpamCommentsCount int                `json:"spamCommentsCount"`

	CaptionSentiment  Sentiment `json:"captionSentiment"`
	CommentsSentiment Sentiment `json:"commentsSentiment"`
	OverallSentiment  Sentiment `json:"overallSentiment"`
	Category          string    `json:"category"`

	StrategicInsights StrategicInsights `json:"strategicInsights"`
	ProfileAnalysis   ProfileAnalysis   `json:"profileAnalysis"`

	LastUpdated time.Time `json:"lastUpdated"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Comparison summarizes a set of reels side by side.
type Comparison struct {
	AverageEngagementRate float64  `json:"averageEngagementRate"`
	TopPerformer          string   `json:"topPerformer"`
	SentimentWinner       string   `json:"sentimentWinner"`
	Insights              []string `json:"insights"`
}

// SentimentTrend is the share of a user's reels per overall sentiment label,
// in whole percent of reels (not of sentiment score).
type SentimentTrend struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// UserAnalytics aggregates all stored reels of one author.
type UserAnalytics struct {
	Username           string         `json:"username"`
	ProfilePic         string         `json:"profilePic"`
	TotalReelsAnalyzed int            `json:"totalReelsAnalyzed"`
	AverageEngagement  float64        `json:"averageEngagement"`
	TotalViews         int            `json:"totalViews"`
	TotalLikes         int            `json:"totalLikes"`
	TotalComments      int            `json:"totalComments"`
	BestPerformingReel *Reel          `json:"bestPerformingReel"`
	RecentReels        []Reel         `json:"recentReels"`
	CategoryBreakdown  map[string]int `json:"categoryBreakdown"`
	SentimentTrend     SentimentTrend `json:"sentimentTrend"`
	Recommendations    []string       `json:"recommendations"`
}
