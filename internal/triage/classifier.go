package triage

import (
	"strings"

	"github.com/propos/maintenance-engine/internal/domain"
)

// Classify maps free-text ticket content to a maintenance category by counting
// keyword hits per category. The strictly highest count wins; ties resolve in
// the declaration order of domain.Categories (PLUMBING first). A text matching
// no keywords classifies as GENERAL. Pure function; empty description is legal.
func Classify(title, description string) domain.Category {
	text := strings.ToLower(title + " " + description)

	best := domain.CategoryGeneral
	bestScore := 0
	for _, category := range domain.Categories {
		score := 0
		for _, keyword := range categoryKeywords[category] {
			if strings.Contains(text, keyword) {
				score++
			}
		}
		if score > bestScore {
			best = category
			bestScore = score
		}
	}
	return best
}
