package narrative

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/mirelys/trilens/internal/lens"
)

// leadCharacterID maps each lens to its default character.
var leadCharacterID = map[lens.Lens]string{
	lens.LensEngineer:    "mia",
	lens.LensCeremony:    "miette",
	lens.LensStoryEngine: "ava8",
}

// emotionalToneForEnergy maps the Ceremony energy tag to a beat tone.
var emotionalToneForEnergy = map[string]string{
	"urgent":      "tense",
	"celebratory": "joyful",
	"steady":      "steady",
}

// NewBeatFromSynthesis builds the next beat for a ledger from a synthesis
// result. The Story-Engine category becomes the narrative function (generic
// when it names no known function), the Ceremony energy becomes the tone,
// and the lead lens's default character carries the arc impact.
func NewBeatFromSynthesis(synth *lens.SynthesisResult, content, source string, sequence int) Beat {
	function := FunctionGeneric
	act := 1
	tension := 0.5
	var tags []string
	if story := synth.StoryEngine.Story; story != nil {
		if f, ok := functionForCategory(synth.StoryEngine.Category); ok {
			function = f
		}
		act = story.Act
		tension = story.DramaticTension
		tags = story.ThemeResonance
	}

	tone := "steady"
	if ceremony := synth.Ceremony.Ceremony; ceremony != nil {
		if t, ok := emotionalToneForEnergy[ceremony.Energy]; ok {
			tone = t
		}
	}

	return Beat{
		ID:                 uuid.NewString(),
		Sequence:           sequence,
		Content:            content,
		NarrativeFunction:  function,
		Act:                act,
		LeadLens:           synth.LeadLens,
		EmotionalTone:      tone,
		ThematicTags:       tags,
		CharacterID:        leadCharacterID[synth.LeadLens],
		CharacterArcImpact: arcImpact(tension),
		Source:             source,
		Timestamp:          time.Now().UTC(),
		QualityScore:       synth.Coherence,
	}
}

func functionForCategory(category string) (NarrativeFunction, bool) {
	switch NarrativeFunction(category) {
	case FunctionSetup, FunctionIncitingIncident, FunctionRisingAction,
		FunctionTurningPoint, FunctionCrisis, FunctionClimax,
		FunctionRevelation, FunctionResolution:
		return NarrativeFunction(category), true
	}
	return FunctionGeneric, false
}

// arcImpact scales dramatic tension into a small per-beat arc delta.
func arcImpact(tension float64) float64 {
	return math.Round((0.05+tension*0.15)*100) / 100
}
