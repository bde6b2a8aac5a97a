package metrics

import (
	"regexp"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/reelscope/reelscope/internal/domain"
)

// maxWordCloudEntries caps the word cloud size.
const maxWordCloudEntries = 20

var (
	wordPattern    = regexp.MustCompile(`[a-zA-Z]{3,}`)
	hashtagPattern = regexp.MustCompile(`#[a-zA-Z0-9_]+`)

	lowercaser = cases.Lower(language.Und)
)

// stopWords are excluded from word clouds. The set skews toward short,
// high-frequency English words that carry no signal in comment text.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "had": {}, "her": {}, "was": {},
	"one": {}, "our": {}, "out": {}, "day": {}, "get": {}, "use": {},
	"man": {}, "new": {}, "now": {}, "way": {}, "may": {}, "say": {},
	"each": {}, "which": {}, "their": {}, "time": {}, "will": {},
	"about": {}, "many": {}, "then": {}, "them": {}, "these": {},
	"some": {}, "would": {}, "make": {}, "like": {}, "him": {},
	"has": {}, "two": {}, "more": {}, "very": {}, "what": {},
	"know": {}, "just": {}, "first": {}, "into": {}, "over": {},
	"think": {}, "also": {}, "your": {}, "work": {}, "life": {},
	"only": {}, "still": {}, "should": {}, "after": {}, "being": {},
	"made": {}, "before": {}, "here": {}, "through": {}, "when": {},
	"where": {}, "how": {}, "who": {}, "oil": {}, "sit": {},
}

// WordCloud counts word frequency across the given texts and returns the top
// 20 entries by descending count. Words are lowercased alphabetic runs of at
// least three letters, with stop words removed. The sort is stable so ties
// keep first-seen order and the result is deterministic.
func WordCloud(texts []string) []domain.WordCount {
	if len(texts) == 0 {
		return []domain.WordCount{}
	}

	counts := make(map[string]int)
	var order []string
	for _, text := range texts {
		for _, word := range wordPattern.FindAllString(lowercaser.String(text), -1) {
			if _, stop := stopWords[word]; stop {
				continue
			}
			if _, seen := counts[word]; !seen {
				order = append(order, word)
			}
			counts[word]++
		}
	}

	cloud := make([]domain.WordCount, 0, len(order))
	for _, word := range order {
		cloud = append(cloud, domain.WordCount{Word: word, Count: counts[word]})
	}
	sort.SliceStable(cloud, func(i, j int) bool {
		return cloud[i].Count > cloud[j].Count
	})

	if len(cloud) > maxWordCloudEntries {
		cloud = cloud[:maxWordCloudEntries]
	}
	return cloud
}

// ExtractHashtags pulls `#tag` tokens out of the given texts, merges them
// case-insensitively, and returns all of them ordered by descending count.
func ExtractHashtags(texts []string) []domain.HashtagCount {
	counts := make(map[string]int)
	var order []string
	for _, text := range texts {
		for _, tag := range hashtagPattern.FindAllString(text, -1) {
			tag = lowercaser.String(tag)
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	hashtags := make([]domain.HashtagCount, 0, len(order))
	for _, tag := range order {
		hashtags = append(hashtags, domain.HashtagCount{Tag: tag, Count: counts[tag]})
	}
	sort.SliceStable(hashtags, func(i, j int) bool {
		return hashtags[i].Count > hashtags[j].Count
	})
	return hashtags
}
