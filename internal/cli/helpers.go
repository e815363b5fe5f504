package cli

import (
	"sort"

	"github.com/mirelys/trilens/internal/narrative"
)

func sortedCharacterIDs(characters map[string]*narrative.CharacterState) []string {
	ids := make([]string, 0, len(characters))
	for id := range characters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedThemeIDs(themes map[string]*narrative.ThematicThread) []string {
	ids := make([]string, 0, len(themes))
	for id := range themes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
