package entity

import "slices"

// Headline categories offered by the news sources.
var categories = []string{
	"general", "technology", "business", "science", "health", "sports", "entertainment",
}

// DefaultCategory is the category shown before the user picks one.
const DefaultCategory = "general"

// Article count bounds for one refresh.
const (
	MinArticleCount     = 3
	MaxArticleCount     = 10
	DefaultArticleCount = 5
)

// Categories returns the supported headline categories in display order.
func Categories() []string {
	return slices.Clone(categories)
}

// IsCategory reports whether name is a supported category.
func IsCategory(name string) bool {
	return slices.Contains(categories, name)
}
