package narrative

import (
	"testing"

	"github.com/mirelys/trilens/internal/lens"
)

func TestNewBeatFromSynthesis(t *testing.T) {
	engineer := lens.ClassifyEngineer("fix: urgent crash in login", 1)
	ceremony := lens.ClassifyCeremony("fix: urgent crash in login", []string{"ana"})
	story := lens.ClassifyStoryEngine("critical blocker, failing login")

	synth, err := lens.Synthesize(engineer, ceremony, story)
	if err != nil {
		t.Fatal(err)
	}

	beat := NewBeatFromSynthesis(synth, "fix: urgent crash in login", "commit_push", 7)

	if beat.ID == "" {
		t.Error("beat should get an id")
	}
	if beat.Sequence != 7 {
		t.Errorf("sequence = %d, want 7", beat.Sequence)
	}
	if beat.NarrativeFunction != FunctionCrisis {
		t.Errorf("function = %q, want crisis", beat.NarrativeFunction)
	}
	if beat.Act != 2 {
		t.Errorf("act = %d, want 2", beat.Act)
	}
	if beat.EmotionalTone != "tense" {
		t.Errorf("tone = %q, want tense (urgent energy)", beat.EmotionalTone)
	}
	if beat.LeadLens != synth.LeadLens {
		t.Errorf("lead lens = %q, want %q", beat.LeadLens, synth.LeadLens)
	}
	if beat.CharacterID != leadCharacterID[synth.LeadLens] {
		t.Errorf("character = %q, want the lead lens default", beat.CharacterID)
	}
	if beat.QualityScore != synth.Coherence {
		t.Errorf("quality = %v, want synthesis coherence %v", beat.QualityScore, synth.Coherence)
	}
	if beat.CharacterArcImpact <= 0 {
		t.Errorf("arc impact = %v, want positive", beat.CharacterArcImpact)
	}
}

func TestNewBeatUnknownCategoryIsGeneric(t *testing.T) {
	story := lens.ClassifyStoryEngine("")
	engineer := lens.ClassifyEngineer("", 0)
	ceremony := lens.ClassifyCeremony("", nil)

	synth, err := lens.Synthesize(engineer, ceremony, story)
	if err != nil {
		t.Fatal(err)
	}
	// The story default category is rising_action, a known function.
	beat := NewBeatFromSynthesis(synth, "", "comment", 1)
	if beat.NarrativeFunction != FunctionRisingAction {
		t.Errorf("function = %q, want rising_action", beat.NarrativeFunction)
	}

	synth.StoryEngine.Category = "not_a_function"
	beat = NewBeatFromSynthesis(synth, "", "comment", 2)
	if beat.NarrativeFunction != FunctionGeneric {
		t.Errorf("function = %q, want generic", beat.NarrativeFunction)
	}
}
