package analysis

import (
	"fmt"
	"strings"

	"github.com/reelscope/reelscope/internal/domain"
	"github.com/reelscope/reelscope/internal/metrics"
)

// buildPrompt renders the single batched analysis prompt: the caption, the
// comment list enumerated 1-based so the model can answer positionally, and
// summary engagement metrics to ground the strategic-insights narrative.
func buildPrompt(reel *domain.ScrapedReel) string {
	var commentLines strings.Builder
	for i, c := range reel.Comments {
		fmt.Fprintf(&commentLines, "%d. %q\n", i+1, c.Text)
	}

	engagementRate := metrics.EngagementRate(reel.LikesCount, reel.CommentsCount, reel.ViewCount)
	hashtags := metrics.ExtractHashtags([]string{reel.Caption})
	tags := make([]string, 0, len(hashtags))
	for _, h := range hashtags {
		tags = append(tags, h.Tag)
	}

	var b strings.Builder
	b.WriteString("Analyze the following Instagram reel content comprehensively. Provide sentiment analysis for the caption, overall comments sentiment, individual comment analysis, content categorization, and strategic insights.\n\n")
	fmt.Fprintf(&b, "CAPTION: %q\n\n", reel.Caption)
	fmt.Fprintf(&b, "COMMENTS (%d total):\n%s\n", len(reel.Comments), commentLines.String())
	fmt.Fprintf(&b, "ENGAGEMENT SUMMARY: %d views, %d likes, %d comments, engagement rate %.2f%%, hashtags: %s\n\n",
		reel.ViewCount, reel.LikesCount, reel.CommentsCount, engagementRate, strings.Join(tags, " "))

	b.WriteString(`Return only valid JSON in this exact format:
{
  "captionSentiment": {
    "positive": <percentage 0-100>,
    "negative": <percentage 0-100>,
    "neutral": <percentage 0-100>,
    "overall": "<positive|negative|neutral>",
    "score": <number between -1 and 1>
  },
  "commentsSentiment": {
    "positive": <percentage 0-100>,
    "negative": <percentage 0-100>,
    "neutral": <percentage 0-100>,
    "overall": "<positive|negative|neutral>",
    "score": <number between -1 and 1>
  },
  "comments": [
    {"index": 1, "sentiment": "<positive|negative|neutral>", "isSpam": <true|false>}
  ],
  "category": "<travel|lifestyle|beauty|tech|food|fitness|entertainment|education|business|fashion|art|music|comedy|sports|news|other>",
  "strategicInsights": {
    "contentStrategy": {"strengths": [], "opportunities": [], "recommendations": []},
    "audienceInsights": {"demographics": {}, "engagementPatterns": [], "behaviorInsights": []},
    "performanceAnalysis": {"viralPotential": "<high|medium|low>", "contentOptimization": [], "timingRecommendations": []}
  }
}

Rules:
- captionSentiment: analyze only the caption text
- commentsSentiment: average sentiment across all comments
- comments: individual analysis for each comment, in order, using the 1-based index shown above
- isSpam: true if a comment contains excessive emojis, repetitive text, promotional content, nonsensical text, or bot-like patterns
- category: classify based on all content into one of the specified categories
- Percentages must add up to 100
- Score: positive values (0 to 1) for positive sentiment, negative values (-1 to 0) for negative sentiment, 0 for neutral
`)
	fmt.Fprintf(&b, "- Return analysis for all %d comments in order\n", len(reel.Comments))
	b.WriteString("- Only return the JSON object, no other text\n")
	return b.String()
}

// buildCaptionPrompt is the reduced prompt used when a reel has no comments.
func buildCaptionPrompt(caption string) string {
	var b strings.Builder
	b.WriteString("Analyze the sentiment of the following text and return a JSON response:\n\n")
	fmt.Fprintf(&b, "Text: %q\n\n", caption)
	b.WriteString(`Return only valid JSON in this exact format:
{
  "positive": <percentage 0-100>,
  "negative": <percentage 0-100>,
  "neutral": <percentage 0-100>,
  "overall": "<positive|negative|neutral>",
  "score": <number between -1 and 1>
}
`)
	return b.String()
}
