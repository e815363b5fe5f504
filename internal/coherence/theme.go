package coherence

import (
	"fmt"
	"strings"

	"github.com/mirelys/trilens/internal/narrative"
)

// scoreTheme compares each declared theme's beat coverage against its
// declared strength: strong themes that rarely appear, and frequent themes
// with no declared weight, both read as drift.
func scoreTheme(beats []narrative.Beat, themes []narrative.ThematicThread) ComponentScore {
	if len(themes) == 0 {
		return component(50,
			[]string{"no themes to assess for saturation"},
			[]string{"declare thematic threads before scoring saturation"})
	}

	var issues, suggestions []string
	penalties := 0.0
	coverageSum := 0.0

	for _, theme := range themes {
		tagged := 0
		for _, b := range beats {
			for _, tag := range b.ThematicTags {
				if strings.EqualFold(tag, theme.Name) {
					tagged++
					break
				}
			}
		}
		denom := len(beats)
		if denom < 1 {
			denom = 1
		}
		coverage := float64(tagged) / float64(denom)
		coverageSum += coverage

		if coverage < 0.2 && theme.Strength > 0.5 {
			penalties += 10
			issues = append(issues, fmt.Sprintf("theme %q rarely appears despite its declared strength", theme.Name))
			suggestions = append(suggestions, fmt.Sprintf("tag beats that touch %q or lower its strength", theme.Name))
		}
		if coverage > 0.3 && theme.Strength < 0.3 {
			penalties += 8
			issues = append(issues, fmt.Sprintf("theme %q appears often but lacks impact", theme.Name))
			suggestions = append(suggestions, fmt.Sprintf("raise the declared strength of %q or prune its tags", theme.Name))
		}
	}

	meanCoverage := coverageSum / float64(len(themes))
	base := meanCoverage*100 + 20
	if base > 100 {
		base = 100
	}
	return component(base-penalties, issues, suggestions)
}
