package coherence

import (
	"fmt"
	"strings"

	"github.com/mirelys/trilens/internal/narrative"
)

var setupFunctions = map[narrative.NarrativeFunction]bool{
	narrative.FunctionSetup:        true,
	narrative.FunctionIntroduction: true,
	narrative.FunctionDiscovery:    true,
}

var escalationFunctions = map[narrative.NarrativeFunction]bool{
	narrative.FunctionConfrontation: true,
	narrative.FunctionCrisis:        true,
	narrative.FunctionClimax:        true,
}

// jarringTonePairs are emotional-tone transitions that read as whiplash.
// Matching is by substring, order-insensitive.
var jarringTonePairs = [][2]string{
	{"devastating", "joyful"},
	{"fearful", "peaceful"},
	{"triumphant", "devastating"},
}

// scoreFlow checks beat-to-beat movement: escalation arriving before any
// setup beat, and jarring emotional-tone transitions between neighbors.
func scoreFlow(beats []narrative.Beat) ComponentScore {
	if len(beats) < 2 {
		return component(50,
			[]string{"not enough beats to assess narrative flow"},
			[]string{"add more beats before judging flow"})
	}

	var issues, suggestions []string

	setupViolation := false
	setupSeen := false
	for _, b := range beats {
		if setupFunctions[b.NarrativeFunction] {
			setupSeen = true
		}
		if !setupSeen && !setupViolation && escalationFunctions[b.NarrativeFunction] {
			setupViolation = true
			issues = append(issues, fmt.Sprintf("escalation beat %q arrives before any setup beat", b.NarrativeFunction))
			suggestions = append(suggestions, "open with a setup, introduction, or discovery beat before escalating")
		}
	}

	jarring := 0
	for i := 1; i < len(beats); i++ {
		prev, cur := beats[i-1].EmotionalTone, beats[i].EmotionalTone
		if isJarringShift(prev, cur) {
			jarring++
			issues = append(issues, fmt.Sprintf("jarring tone shift from %q to %q between beats %d and %d", prev, cur, i-1, i))
			suggestions = append(suggestions, fmt.Sprintf("bridge the %q to %q shift with a transitional beat", prev, cur))
		}
	}

	score := 85.0 - 10.0*float64(jarring)
	if setupViolation {
		score -= 15
	}
	return component(score, issues, suggestions)
}

func isJarringShift(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	for _, pair := range jarringTonePairs {
		if strings.Contains(la, pair[0]) && strings.Contains(lb, pair[1]) {
			return true
		}
		if strings.Contains(la, pair[1]) && strings.Contains(lb, pair[0]) {
			return true
		}
	}
	return false
}
