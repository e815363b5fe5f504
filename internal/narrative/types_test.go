package narrative

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mirelys/trilens/internal/lens"
)

func TestLedgerSerialization(t *testing.T) {
	l := NewLedger("story-1", "session-1", true)
	l.AppendBeat(Beat{
		ID:                "beat-1",
		Sequence:          1,
		Content:           "feat: first beat",
		NarrativeFunction: FunctionSetup,
		Act:               1,
		LeadLens:          lens.LensEngineer,
		EmotionalTone:     "steady",
		ThematicTags:      []string{"craftsmanship"},
		CharacterID:       "mia",
		Timestamp:         time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		QualityScore:      0.72,
	})
	l.AppendRoutingDecision(RoutingDecision{
		ID:             "route-1",
		Backend:        "primary",
		Flow:           "classify",
		CoherenceScore: 0.66,
		Method:         "keyword",
		Success:        true,
		LatencyMs:      12,
		Timestamp:      time.Date(2026, 3, 1, 12, 0, 1, 0, time.UTC),
	})
	l.UpdateCharacterArc("mia", 0.25, "carried the first beat")

	data, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}

	var decoded Ledger
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}

	if decoded.StoryID != "story-1" || decoded.SessionID != "session-1" {
		t.Errorf("ids mismatch: %s / %s", decoded.StoryID, decoded.SessionID)
	}
	if len(decoded.Beats) != 1 {
		t.Fatalf("beats count: want 1, got %d", len(decoded.Beats))
	}
	beat := decoded.Beats[0]
	if beat.NarrativeFunction != FunctionSetup || beat.LeadLens != lens.LensEngineer {
		t.Errorf("beat enums mismatch: %s / %s", beat.NarrativeFunction, beat.LeadLens)
	}
	if beat.QualityScore != 0.72 {
		t.Errorf("quality score lost precision: %v", beat.QualityScore)
	}
	if !beat.Timestamp.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("timestamp mismatch: %v", beat.Timestamp)
	}
	if decoded.Characters["mia"].ArcPosition != 0.25 {
		t.Errorf("arc position mismatch: %v", decoded.Characters["mia"].ArcPosition)
	}
	if len(decoded.Characters["mia"].GrowthPoints) != 1 {
		t.Errorf("growth points: want 1, got %d", len(decoded.Characters["mia"].GrowthPoints))
	}
	if len(decoded.RoutingHistory) != 1 || decoded.RoutingHistory[0].CoherenceScore != 0.66 {
		t.Error("routing history mismatch")
	}
	if decoded.Position.CurrentBeatID != "beat-1" {
		t.Errorf("position beat id mismatch: %q", decoded.Position.CurrentBeatID)
	}
}

func TestBeatSerializationFieldNames(t *testing.T) {
	data, err := json.Marshal(Beat{ID: "b", Sequence: 2, NarrativeFunction: FunctionClimax})
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	for _, field := range []string{"id", "sequence", "narrative_function", "act", "lead_lens", "emotional_tone", "source", "timestamp", "quality_score"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("field %q missing from encoding", field)
		}
	}
	if raw["narrative_function"] != "climax" {
		t.Errorf("narrative_function encoded as %v, want climax string", raw["narrative_function"])
	}
}
