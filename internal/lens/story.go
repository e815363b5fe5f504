package lens

import "strings"

// ClassifyStoryEngine scores text against the Story-Engine lexicon and
// derives the narrative context bundle (act, tension, pacing).
func ClassifyStoryEngine(text string) *Perspective {
	lower := strings.ToLower(text)

	category := StoryDefaultCategory
	confidence := StoryNoMatchConfidence
	if winner, score, ok := pickWinner(scoreCategories(lower, storyLexicon)); ok {
		category = winner
		confidence = keywordConfidence(storyBaseConfidence, storySpread, score)
	}

	tension := dramaticTension(category, lower)

	return &Perspective{
		Lens:             LensStoryEngine,
		Category:         category,
		Confidence:       confidence,
		SuggestedActions: actionsFor(storyActions, category),
		Story: &StoryContext{
			Act:               actForCategory(category),
			DramaticTension:   tension,
			NextSuggestedBeat: suggestedBeatAfter[category],
			CharacterImpact:   characterImpact(tension),
			ThemeResonance:    themeResonance(lower),
			PacingSuggestion:  pacingSuggestion(tension),
		},
	}
}

// dramaticTension starts from the per-category base, adds 0.2 for urgency
// words (capped at 1.0), subtracts 0.2 for minimizing words (floored at
// 0.1), and rounds to 2 decimals.
func dramaticTension(category, lower string) float64 {
	tension := baseTension[category]
	if containsAny(lower, urgencyWords) {
		tension += 0.2
		if tension > 1.0 {
			tension = 1.0
		}
	}
	if containsAny(lower, minimizingWords) {
		tension -= 0.2
		if tension < 0.1 {
			tension = 0.1
		}
	}
	return round2(tension)
}

func actForCategory(category string) int {
	switch category {
	case "setup", "inciting_incident":
		return 1
	case "rising_action", "turning_point", "crisis":
		return 2
	}
	return 3
}

func characterImpact(tension float64) string {
	switch {
	case tension >= 0.8:
		return "formative"
	case tension >= 0.5:
		return "developing"
	}
	return "ambient"
}

func themeResonance(lower string) []string {
	var themes []string
	for _, tr := range themeResonanceWords {
		if containsAny(lower, tr.Triggers) {
			themes = append(themes, tr.Theme)
		}
	}
	return themes
}

func pacingSuggestion(tension float64) string {
	switch {
	case tension > 0.8:
		return "hold the tension, then release"
	case tension < 0.4:
		return "raise the stakes"
	}
	return "steady build"
}
