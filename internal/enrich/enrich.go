// Package enrich infers task priority and tags from task text using a
// keyword heuristic.
package enrich

import (
	"sort"
	"strings"

	"github.com/saidulalimallick04/smart-to-do-api/internal/domain"
)

var highPriorityWords = []string{"urgent", "asap", "deadline", "important", "critical"}

var lowPriorityWords = []string{"low", "whenever", "maybe", "eventually"}

var tagKeywords = map[string][]string{
	"shopping":      {"buy", "purchase", "shopping", "grocery"},
	"work":          {"code", "debug", "api", "database", "deploy"},
	"health":        {"gym", "run", "workout", "health"},
	"communication": {"call", "email", "meet", "meeting"},
}

// Enhance analyzes task content to infer a priority and suggest tags.
// The returned tag list is the union of currentTags and the inferred tags,
// deduplicated and sorted for stable output.
func Enhance(title, description string, currentTags []string) (domain.Priority, []string) {
	priority := domain.PriorityMedium

	text := strings.ToLower(title + " " + description)

	if containsAny(text, highPriorityWords) {
		priority = domain.PriorityHigh
	} else if containsAny(text, lowPriorityWords) {
		priority = domain.PriorityLow
	}

	tagSet := make(map[string]struct{}, len(currentTags))
	for _, tag := range currentTags {
		tagSet[tag] = struct{}{}
	}
	for tag, words := range tagKeywords {
		if containsAny(text, words) {
			tagSet[tag] = struct{}{}
		}
	}

	tags := make([]string, 0, len(tagSet))
	for tag := range tagSet {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	return priority, tags
}

func containsAny(text string, words []string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}
