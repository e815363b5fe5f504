package lens

import "strings"

// ClassifyCeremony scores text against the Ceremony lexicon. contributors
// are the identities extracted from the event envelope; more than one
// contributor gives co_creation a flat score bonus before the arg-max step.
func ClassifyCeremony(text string, contributors []string) *Perspective {
	lower := strings.ToLower(text)

	scores := scoreCategories(lower, ceremonyLexicon)
	if len(contributors) > 1 {
		for i := range scores {
			if scores[i].category == "co_creation" {
				scores[i].score += coCreationContributorBonus
			}
		}
	}

	category := CeremonyDefaultCategory
	confidence := CeremonyNoMatchConfidence
	if winner, score, ok := pickWinner(scores); ok {
		category = winner
		confidence = keywordConfidence(ceremonyBaseConfidence, ceremonySpread, score)
	}

	collaborative := len(contributors) > 1

	return &Perspective{
		Lens:             LensCeremony,
		Category:         category,
		Confidence:       confidence,
		SuggestedActions: actionsFor(ceremonyActions, category),
		Ceremony: &CeremonyContext{
			Contributors:      contributors,
			IsCollaborative:   collaborative,
			Energy:            ceremonyEnergy(lower),
			WitnessingNeeded:  category == "ritual_completion" || containsAny(lower, witnessWords),
			RelationshipDepth: relationshipDepth(len(contributors)),
			LongTermImpact:    longTermImpact(category, collaborative),
		},
	}
}

func ceremonyEnergy(lower string) string {
	switch {
	case containsAny(lower, urgencyWords):
		return "urgent"
	case containsAny(lower, celebrationWords):
		return "celebratory"
	}
	return "steady"
}

func relationshipDepth(contributorCount int) float64 {
	depth := float64(contributorCount) * 0.25
	if depth > 1 {
		depth = 1
	}
	return depth
}

func longTermImpact(category string, collaborative bool) float64 {
	impact := 0.3
	switch category {
	case "ritual_completion":
		impact += 0.3
	case "knowledge_sharing":
		impact += 0.2
	}
	if collaborative {
		impact += 0.1
	}
	if impact > 1 {
		impact = 1
	}
	return round2(impact)
}
