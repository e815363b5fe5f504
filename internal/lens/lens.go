// Package lens classifies short text events (commit messages, issue bodies,
// prompts) through three fixed interpretive viewpoints and synthesizes the
// three readings into one verdict. Classification is pure keyword scoring:
// deterministic, no model calls.
package lens

import (
	"errors"
	"math"
	"time"
)

// Lens identifies one of the three fixed interpretive viewpoints.
type Lens string

const (
	LensEngineer    Lens = "engineer"
	LensCeremony    Lens = "ceremony"
	LensStoryEngine Lens = "story_engine"
)

// ErrMissingPerspective is returned by Synthesize when any of the three
// required perspectives is absent.
var ErrMissingPerspective = errors.New("missing perspective")

// EngineerContext carries the Engineer lens's secondary heuristics.
type EngineerContext struct {
	TechnicalScope string `json:"technical_scope"`
	Complexity     string `json:"complexity"` // low, medium, high
	CommitCount    int    `json:"commit_count"`
}

// CeremonyContext carries the Ceremony lens's secondary heuristics.
type CeremonyContext struct {
	Contributors      []string `json:"contributors"`
	IsCollaborative   bool     `json:"is_collaborative"`
	Energy            string   `json:"energy"` // urgent, celebratory, steady
	WitnessingNeeded  bool     `json:"witnessing_needed"`
	RelationshipDepth float64  `json:"relationship_depth"`
	LongTermImpact    float64  `json:"long_term_impact"`
}

// StoryContext carries the Story-Engine lens's secondary heuristics.
type StoryContext struct {
	Act               int      `json:"act"`
	DramaticTension   float64  `json:"dramatic_tension"`
	NextSuggestedBeat string   `json:"next_suggested_beat"`
	CharacterImpact   string   `json:"character_impact"`
	ThemeResonance    []string `json:"theme_resonance"`
	PacingSuggestion  string   `json:"pacing_suggestion"`
}

// Perspective is one lens's reading of an event. Exactly one of the context
// fields is populated, matching Lens.
type Perspective struct {
	Lens             Lens             `json:"lens"`
	Category         string           `json:"category"`
	Confidence       float64          `json:"confidence"`
	SuggestedActions []string         `json:"suggested_actions"`
	Engineer         *EngineerContext `json:"engineer_context,omitempty"`
	Ceremony         *CeremonyContext `json:"ceremony_context,omitempty"`
	Story            *StoryContext    `json:"story_context,omitempty"`
}

// SynthesisResult combines the three perspectives into one verdict.
type SynthesisResult struct {
	Engineer    Perspective `json:"engineer"`
	Ceremony    Perspective `json:"ceremony"`
	StoryEngine Perspective `json:"story_engine"`
	LeadLens    Lens        `json:"lead_lens"`
	Coherence   float64     `json:"coherence"`
	Timestamp   time.Time   `json:"timestamp"`
}

// engineerUrgentCategories are the Engineer categories treated as urgent by
// the coherence alignment bonus and the lead-lens precedence rules.
var engineerUrgentCategories = map[string]bool{
	"security": true,
	"bug_fix":  true,
}

// Synthesize combines the three lens perspectives. The lead lens is chosen
// by fixed precedence rules, falling back to the highest confidence; equal
// confidences resolve Engineer > Ceremony > Story-Engine.
func Synthesize(engineer, ceremony, storyEngine *Perspective) (*SynthesisResult, error) {
	if engineer == nil || ceremony == nil || storyEngine == nil {
		return nil, ErrMissingPerspective
	}

	return &SynthesisResult{
		Engineer:    *engineer,
		Ceremony:    *ceremony,
		StoryEngine: *storyEngine,
		LeadLens:    leadLens(engineer, ceremony, storyEngine),
		Coherence:   synthesisCoherence(engineer, ceremony, storyEngine),
		Timestamp:   time.Now().UTC(),
	}, nil
}

func leadLens(engineer, ceremony, storyEngine *Perspective) Lens {
	if ceremony.Ceremony != nil && ceremony.Ceremony.WitnessingNeeded {
		return LensCeremony
	}
	if ceremony.Ceremony != nil && ceremony.Ceremony.IsCollaborative {
		return LensCeremony
	}
	if storyEngine.Story != nil && storyEngine.Story.DramaticTension > 0.8 {
		return LensStoryEngine
	}
	if storyEngine.Category == "climax" || storyEngine.Category == "turning_point" {
		return LensStoryEngine
	}
	if engineer.Engineer != nil && engineer.Engineer.Complexity == "high" {
		return LensEngineer
	}
	if engineerUrgentCategories[engineer.Category] {
		return LensEngineer
	}

	// Fallback: highest confidence, in fixed lens priority order so equal
	// confidences resolve the same way every time.
	lead := LensEngineer
	best := engineer.Confidence
	if ceremony.Confidence > best {
		lead = LensCeremony
		best = ceremony.Confidence
	}
	if storyEngine.Confidence > best {
		lead = LensStoryEngine
	}
	return lead
}

func synthesisCoherence(engineer, ceremony, storyEngine *Perspective) float64 {
	confidences := []float64{engineer.Confidence, ceremony.Confidence, storyEngine.Confidence}

	sum, lo, hi := 0.0, confidences[0], confidences[0]
	for _, c := range confidences {
		sum += c
		if c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}
	mean := sum / float64(len(confidences))

	urgentSignals := 0
	if engineerUrgentCategories[engineer.Category] {
		urgentSignals++
	}
	if ceremony.Ceremony != nil && ceremony.Ceremony.Energy == "urgent" {
		urgentSignals++
	}
	if storyEngine.Story != nil && storyEngine.Story.DramaticTension > 0.7 {
		urgentSignals++
	}

	bonus := 0.0
	if urgentSignals >= 2 {
		bonus = 0.1
	}

	coherence := mean + bonus - (hi-lo)*0.2
	if coherence < 0 {
		coherence = 0
	}
	if coherence > 1 {
		coherence = 1
	}
	return round2(coherence)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
