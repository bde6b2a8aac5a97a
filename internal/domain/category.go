package domain

// CategoryGeneral is the default content category used whenever
// classification is unavailable or returns something outside the known set.
const CategoryGeneral = "general"

// contentCategories is the closed set of categories the analysis model may
// assign. Anything else collapses to CategoryGeneral.
var contentCategories = map[string]struct{}{
	"travel": {}, "lifestyle": {}, "beauty": {}, "tech": {},
	"food": {}, "fitness": {}, "entertainment": {}, "education": {},
	"business": {}, "fashion": {}, "art": {}, "music": {},
	"comedy": {}, "sports": {}, "news": {}, "other": {},
}

// ValidCategory reports whether c is a member of the known category set.
func ValidCategory(c string) bool {
	_, ok := contentCategories[c]
	return ok
}
