// Package decompose applies the same ordered-lexicon keyword scoring as the
// lens classifiers to a different taxonomy: four work "directions" instead
// of three lenses. It breaks a raw prompt into ranked directional intents.
package decompose

import (
	"math"
	"strings"
)

// Direction names one of the four fixed work orientations.
type Direction string

const (
	DirectionBuild   Direction = "build"
	DirectionRestore Direction = "restore"
	DirectionExplore Direction = "explore"
	DirectionTend    Direction = "tend"
)

// DefaultDirection is used when nothing in the prompt scores.
const DefaultDirection = DirectionTend

const (
	baseConfidence    = 0.55
	confidenceSpread  = 0.4
	noMatchConfidence = 0.5
	maxConfidence     = 0.95
)

type lexiconEntry struct {
	Direction Direction
	Triggers  []string
}

// directionLexicon is ordered: declaration order is the arg-max tie-break.
var directionLexicon = []lexiconEntry{
	{DirectionBuild, []string{"build", "create", "implement", "add", "new", "design", "write"}},
	{DirectionRestore, []string{"fix", "repair", "restore", "debug", "broken", "regression", "recover"}},
	{DirectionExplore, []string{"explore", "investigate", "research", "compare", "what if", "prototype", "spike"}},
	{DirectionTend, []string{"maintain", "clean", "organize", "document", "upgrade", "tidy", "refine"}},
}

var directionApproaches = map[Direction][]string{
	DirectionBuild:   {"sketch the shape before coding", "land it in small increments"},
	DirectionRestore: {"reproduce before fixing", "add a regression test"},
	DirectionExplore: {"timebox the investigation", "write down what you learn"},
	DirectionTend:    {"leave it better than found", "batch the small chores"},
}

// Intent is one direction's reading of a prompt.
type Intent struct {
	Direction  Direction `json:"direction"`
	Confidence float64   `json:"confidence"`
	Approaches []string  `json:"approaches"`
}

// Classify scores the prompt against all four directions and returns the
// winning intent. No-match prompts fall back to the tend direction at a
// fixed low confidence.
func Classify(prompt string) Intent {
	ranked := Rank(prompt)
	if len(ranked) == 0 {
		return Intent{
			Direction:  DefaultDirection,
			Confidence: noMatchConfidence,
			Approaches: directionApproaches[DefaultDirection],
		}
	}
	return ranked[0]
}

// Segment is one classified piece of a decomposed prompt.
type Segment struct {
	Text   string `json:"text"`
	Intent Intent `json:"intent"`
}

// Decompose splits a prompt into rough task segments and classifies each
// one. Splitting is deliberately shallow: sentence punctuation, newlines,
// and "then" connectives.
func Decompose(prompt string) []Segment {
	var segments []Segment
	for _, text := range splitSegments(prompt) {
		segments = append(segments, Segment{Text: text, Intent: Classify(text)})
	}
	return segments
}

func splitSegments(prompt string) []string {
	normalized := strings.NewReplacer(
		" and then ", "\n",
		" then ", "\n",
		";", "\n",
		".", "\n",
	).Replace(prompt)

	var parts []string
	for _, part := range strings.Split(normalized, "\n") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

// Rank returns every direction that scored above zero, best first, ties
// resolved by lexicon declaration order.
func Rank(prompt string) []Intent {
	lower := strings.ToLower(prompt)

	var ranked []Intent
	for _, entry := range directionLexicon {
		hits := 0
		for _, trigger := range entry.Triggers {
			if strings.Contains(lower, trigger) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		score := float64(hits) / float64(len(entry.Triggers))
		confidence := baseConfidence + score*confidenceSpread
		if confidence > maxConfidence {
			confidence = maxConfidence
		}
		ranked = append(ranked, Intent{
			Direction:  entry.Direction,
			Confidence: math.Round(confidence*100) / 100,
			Approaches: directionApproaches[entry.Direction],
		})
	}

	// Insertion sort keeps the lexicon-order tie-break stable.
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].Confidence > ranked[j-1].Confidence; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}
	return ranked
}
