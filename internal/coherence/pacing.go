package coherence

import (
	"fmt"

	"github.com/mirelys/trilens/internal/narrative"
)

var highTensionFunctions = map[narrative.NarrativeFunction]bool{
	narrative.FunctionConfrontation: true,
	narrative.FunctionCrisis:        true,
	narrative.FunctionClimax:        true,
	narrative.FunctionRevelation:    true,
}

// maxTensionRun is the longest acceptable run of consecutive high-tension
// beats.
const maxTensionRun = 3

// scorePacing checks climax placement and sustained high-tension stretches.
func scorePacing(beats []narrative.Beat) ComponentScore {
	if len(beats) < 3 {
		return component(50,
			[]string{"not enough beats to assess pacing"},
			[]string{"add more beats before judging pacing"})
	}

	var issues, suggestions []string
	score := 85.0

	lastClimax := -1
	for i, b := range beats {
		if b.NarrativeFunction == narrative.FunctionClimax {
			lastClimax = i
		}
	}
	switch {
	case lastClimax == -1:
		score -= 20
		issues = append(issues, "story has no climax beat")
		suggestions = append(suggestions, "build toward a climax beat")
	case float64(lastClimax) < float64(len(beats))*0.5:
		score -= 15
		issues = append(issues, fmt.Sprintf("climax lands too early at beat %d of %d", lastClimax, len(beats)))
		suggestions = append(suggestions, "move the climax past the midpoint or extend the falling action")
	}

	run, maxRun := 0, 0
	for _, b := range beats {
		if highTensionFunctions[b.NarrativeFunction] {
			run++
			if run > maxRun {
				maxRun = run
			}
		} else {
			run = 0
		}
	}
	if maxRun > maxTensionRun {
		penalty := 5.0 * float64(maxRun)
		if penalty > 20 {
			penalty = 20
		}
		score -= penalty
		issues = append(issues, fmt.Sprintf("%d consecutive high-tension beats without relief", maxRun))
		suggestions = append(suggestions, "break long tension runs with a quieter beat")
	}

	return component(score, issues, suggestions)
}
