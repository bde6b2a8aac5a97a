package analysis

import (
	"math"

	"github.com/reelscope/reelscope/internal/domain"
)

// modelResponse is the raw JSON shape the analysis prompt asks for. Every
// field is optional; validation fills the gaps.
type modelResponse struct {
	CaptionSentiment  *sentimentResponse `json:"captionSentiment"`
	CommentsSentiment *sentimentResponse `json:"commentsSentiment"`
	Comments          []commentResponse  `json:"comments"`
	Category          string             `json:"category"`
	StrategicInsights *insightsResponse  `json:"strategicInsights"`
}

type sentimentResponse struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Overall  string  `json:"overall"`
	Score    float64 `json:"score"`
}

type commentResponse struct {
	Index     int    `json:"index"`
	Sentiment string `json:"sentiment"`
	IsSpam    bool   `json:"isSpam"`
}

type insightsResponse struct {
	ContentStrategy *struct {
		Strengths       []string `json:"strengths"`
		Opportunities   []string `json:"opportunities"`
		Recommendations []string `json:"recommendations"`
	} `json:"contentStrategy"`
	AudienceInsights *struct {
		Demographics       map[string]int `json:"demographics"`
		EngagementPatterns []string       `json:"engagementPatterns"`
		BehaviorInsights   []string       `json:"behaviorInsights"`
	} `json:"audienceInsights"`
	PerformanceAnalysis *struct {
		ViralPotential        string   `json:"viralPotential"`
		ContentOptimization   []string `json:"contentOptimization"`
		TimingRecommendations []string `json:"timingRecommendations"`
	} `json:"performanceAnalysis"`
}

// validateResponse turns a raw model response into a fully-populated
// Analysis. Comments are matched by the 1-based index the model echoes back;
// a comment with no matching entry stays neutral and unflagged.
func validateResponse(resp *modelResponse, comments []domain.Comment) Analysis {
	byIndex := make(map[int]commentResponse, len(resp.Comments))
	for _, c := range resp.Comments {
		if _, exists := byIndex[c.Index]; !exists {
			byIndex[c.Index] = c
		}
	}

	processed := make([]domain.ProcessedComment, 0, len(comments))
	for i, c := range comments {
		sentiment := domain.SentimentNeutral
		isSpam := false
		if entry, ok := byIndex[i+1]; ok {
			if domain.ValidSentimentLabel(entry.Sentiment) {
				sentiment = domain.SentimentLabel(entry.Sentiment)
			}
			isSpam = entry.IsSpam
		}
		processed = append(processed, domain.ProcessedComment{
			Comment:   c,
			Sentiment: sentiment,
			IsSpam:    isSpam,
		})
	}

	category := resp.Category
	if !domain.ValidCategory(category) {
		category = domain.CategoryGeneral
	}

	return Analysis{
		CaptionSentiment:  validateSentiment(resp.CaptionSentiment),
		CommentsSentiment: validateSentiment(resp.CommentsSentiment),
		ProcessedComments: processed,
		Category:          category,
		StrategicInsights: validateInsights(resp.StrategicInsights),
	}
}

// validateSentiment clamps each percentage to [0,100] independently; nothing
// renormalizes the three to sum to 100. Score clamps to [-1,1]; an unknown
// label becomes neutral.
func validateSentiment(s *sentimentResponse) domain.Sentiment {
	if s == nil {
		return domain.NeutralSentiment()
	}
	overall := domain.SentimentNeutral
	if domain.ValidSentimentLabel(s.Overall) {
		overall = domain.SentimentLabel(s.Overall)
	}
	return domain.Sentiment{
		Positive: clampPercent(s.Positive),
		Negative: clampPercent(s.Negative),
		Neutral:  clampPercent(s.Neutral),
		Overall:  overall,
		Score:    clampScore(s.Score),
	}
}

func validateInsights(in *insightsResponse) domain.StrategicInsights {
	out := defaultStrategicInsights()
	if in == nil {
		return out
	}

	if cs := in.ContentStrategy; cs != nil {
		if len(cs.Strengths) > 0 {
			out.ContentStrategy.Strengths = cs.Strengths
		}
		if len(cs.Opportunities) > 0 {
			out.ContentStrategy.Opportunities = cs.Opportunities
		}
		if len(cs.Recommendations) > 0 {
			out.ContentStrategy.Recommendations = cs.Recommendations
		}
	}
	if ai := in.AudienceInsights; ai != nil {
		if len(ai.Demographics) > 0 {
			out.AudienceInsights.Demographics = ai.Demographics
		}
		if len(ai.EngagementPatterns) > 0 {
			out.AudienceInsights.EngagementPatterns = ai.EngagementPatterns
		}
		if len(ai.BehaviorInsights) > 0 {
			out.AudienceInsights.BehaviorInsights = ai.BehaviorInsights
		}
	}
	if pa := in.PerformanceAnalysis; pa != nil {
		switch pa.ViralPotential {
		case "high", "medium", "low":
			out.PerformanceAnalysis.ViralPotential = pa.ViralPotential
		}
		if len(pa.ContentOptimization) > 0 {
			out.PerformanceAnalysis.ContentOptimization = pa.ContentOptimization
		}
		if len(pa.TimingRecommendations) > 0 {
			out.PerformanceAnalysis.TimingRecommendations = pa.TimingRecommendations
		}
	}
	return out
}

// defaultStrategicInsights is boilerplate advice used whenever the model did
// not supply a usable insights object.
func defaultStrategicInsights() domain.StrategicInsights {
	return domain.StrategicInsights{
		ContentStrategy: domain.ContentStrategyInsights{
			Strengths:       []string{"High engagement rate", "Positive audience response"},
			Opportunities:   []string{"Optimize posting timing", "Increase content variety"},
			Recommendations: []string{},
		},
		AudienceInsights: domain.AudienceInsights{
			Demographics:       map[string]int{"18-24": 30, "25-34": 40, "35-44": 20, "45+": 10},
			EngagementPatterns: []string{"High engagement in evenings", "Peak activity on weekends"},
			BehaviorInsights:   []string{},
		},
		PerformanceAnalysis: domain.PerformanceAnalysis{
			ViralPotential:        "medium",
			ContentOptimization:   []string{},
			TimingRecommendations: []string{},
		},
	}
}

func clampPercent(v float64) int {
	return int(math.Round(math.Max(0, math.Min(100, v))))
}

func clampScore(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
