package lens

// EngineerCategories returns the Engineer lexicon's category names in
// declaration order.
func EngineerCategories() []string { return lexiconCategories(engineerLexicon) }

// CeremonyCategories returns the Ceremony lexicon's category names in
// declaration order.
func CeremonyCategories() []string { return lexiconCategories(ceremonyLexicon) }

// StoryCategories returns the Story-Engine lexicon's category names in
// declaration order.
func StoryCategories() []string { return lexiconCategories(storyLexicon) }

func lexiconCategories(lexicon []lexiconEntry) []string {
	categories := make([]string, len(lexicon))
	for i, entry := range lexicon {
		categories[i] = entry.Category
	}
	return categories
}
