package lens

import "strings"

// ClassifyEngineer scores text against the Engineer lexicon. commitCount
// comes from the event envelope and feeds the complexity estimate; pass 0
// for non-push events.
func ClassifyEngineer(text string, commitCount int) *Perspective {
	lower := strings.ToLower(text)

	category := EngineerDefaultCategory
	confidence := EngineerNoMatchConfidence
	if winner, score, ok := pickWinner(scoreCategories(lower, engineerLexicon)); ok {
		category = winner
		confidence = keywordConfidence(engineerBaseConfidence, engineerSpread, score)
	}

	return &Perspective{
		Lens:             LensEngineer,
		Category:         category,
		Confidence:       confidence,
		SuggestedActions: actionsFor(engineerActions, category),
		Engineer: &EngineerContext{
			TechnicalScope: technicalScope(lower),
			Complexity:     complexityEstimate(len(text), commitCount),
			CommitCount:    commitCount,
		},
	}
}

func technicalScope(lower string) string {
	switch {
	case containsAny(lower, []string{"api", "endpoint", "handler", "route"}):
		return "api"
	case containsAny(lower, []string{"database", "schema", "migration", "query", "storage"}):
		return "storage"
	case containsAny(lower, []string{"ui", "frontend", "css", "layout", "render"}):
		return "interface"
	case containsAny(lower, []string{"deploy", "docker", "pipeline", "infra", "terraform"}):
		return "infrastructure"
	}
	return "general"
}

func complexityEstimate(contentLen, commitCount int) string {
	switch {
	case commitCount > 5 || contentLen > 400:
		return "high"
	case commitCount > 2 || contentLen > 150:
		return "medium"
	}
	return "low"
}
