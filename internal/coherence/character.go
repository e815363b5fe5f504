package coherence

import (
	"fmt"

	"github.com/mirelys/trilens/internal/narrative"
)

// disappearanceGap is the appearance-index difference above which a
// character is flagged as disappearing.
const disappearanceGap = 5

// scoreCharacter checks that characters keep appearing and that their arcs
// actually move once the story has length.
func scoreCharacter(beats []narrative.Beat, characters []narrative.CharacterState) ComponentScore {
	if len(characters) == 0 {
		return component(50,
			[]string{"no characters to assess for consistency"},
			[]string{"seed the ledger with characters before scoring consistency"})
	}

	var issues, suggestions []string
	disappearances := 0
	minimalArcs := 0

	for _, c := range characters {
		var appearances []int
		for i, b := range beats {
			if b.CharacterID == c.ID {
				appearances = append(appearances, i)
			}
		}

		for i := 1; i < len(appearances); i++ {
			gap := appearances[i] - appearances[i-1]
			if gap > disappearanceGap {
				disappearances++
				issues = append(issues, fmt.Sprintf("%s disappears for %d beats (beat %d to beat %d)", c.Name, gap, appearances[i-1], appearances[i]))
				suggestions = append(suggestions, fmt.Sprintf("give %s a presence between beats %d and %d", c.Name, appearances[i-1], appearances[i]))
			}
		}

		if len(beats) > 5 && c.ArcPosition < 0.1 {
			minimalArcs++
			issues = append(issues, fmt.Sprintf("%s shows minimal arc development across %d beats", c.Name, len(beats)))
			suggestions = append(suggestions, fmt.Sprintf("route a beat with real arc impact to %s", c.Name))
		}
	}

	score := 90.0 - 8.0*float64(disappearances) - 12.0*float64(minimalArcs)
	return component(score, issues, suggestions)
}
