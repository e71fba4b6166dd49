// Package emotion normalizes free-text patient emotion values into the five
// fixed categories used by profile filtering and the stats rollup.
package emotion

import "strings"

const (
	CategoryCalm     = "calm"
	CategoryAnxious  = "anxious"
	CategoryTense    = "tense"
	CategoryConfused = "confused"
	CategoryFearful  = "fearful"
)

// Categories lists every category, in the order reports present them.
var Categories = []string{
	CategoryCalm,
	CategoryAnxious,
	CategoryTense,
	CategoryConfused,
	CategoryFearful,
}

// Profile emotions are free text written by the chat model, mostly in
// Chinese. The synonym sets carry the observed values plus the English
// category names so both vocabularies filter correctly.
var synonyms = map[string]string{
	"calm":     CategoryCalm,
	"平静":       CategoryCalm,
	"平稳":       CategoryCalm,
	"放松":       CategoryCalm,
	"稳定":       CategoryCalm,
	"anxious":  CategoryAnxious,
	"焦虑":       CategoryAnxious,
	"担心":       CategoryAnxious,
	"不安":       CategoryAnxious,
	"忧虑":       CategoryAnxious,
	"tense":    CategoryTense,
	"紧张":       CategoryTense,
	"confused": CategoryConfused,
	"困惑":       CategoryConfused,
	"迷茫":       CategoryConfused,
	"疑惑":       CategoryConfused,
	"fearful":  CategoryFearful,
	"恐惧":       CategoryFearful,
	"害怕":       CategoryFearful,
	"恐慌":       CategoryFearful,
}

// Normalize maps raw emotion text into exactly one category. Empty,
// whitespace-only and unrecognized text all fall back to calm.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return CategoryCalm
	}
	if cat, ok := synonyms[strings.ToLower(trimmed)]; ok {
		return cat
	}
	return CategoryCalm
}

// IsCalmValue reports whether v is literally one of the calm synonyms.
// Unlike Normalize it does not treat unrecognized text as calm; the search
// filter only widens to NULL/empty when the caller asked for calm itself.
func IsCalmValue(v string) bool {
	cat, ok := synonyms[strings.ToLower(strings.TrimSpace(v))]
	return ok && cat == CategoryCalm
}

// IsAlert reports whether a category participates in the emotion alert
// count.
func IsAlert(category string) bool {
	switch category {
	case CategoryAnxious, CategoryFearful, CategoryTense:
		return true
	}
	return false
}
