package coherence

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/mirelys/trilens/internal/narrative"
)

func beatsWithFunctions(functions ...narrative.NarrativeFunction) []narrative.Beat {
	beats := make([]narrative.Beat, len(functions))
	for i, f := range functions {
		beats[i] = narrative.Beat{
			ID:                fmt.Sprintf("beat-%d", i+1),
			Sequence:          i + 1,
			NarrativeFunction: f,
			EmotionalTone:     "steady",
		}
	}
	return beats
}

func TestAnalyzeEmptyInputs(t *testing.T) {
	result := NewEngine().Analyze(nil, nil, nil)

	for name, c := range map[string]ComponentScore{
		"flow": result.Flow, "character": result.Character,
		"pacing": result.Pacing, "theme": result.Theme,
	} {
		if c.Score != 50 {
			t.Errorf("%s score = %v, want 50", name, c.Score)
		}
		if len(c.Issues) == 0 {
			t.Errorf("%s should report a generic issue", name)
		}
	}
	// Continuity passes by default below two beats.
	if result.Continuity.Score != 70 {
		t.Errorf("continuity score = %v, want 70", result.Continuity.Score)
	}
}

func TestWellFormedArc(t *testing.T) {
	beats := beatsWithFunctions(
		narrative.FunctionSetup,
		narrative.FunctionIncitingIncident,
		narrative.FunctionRisingAction,
		narrative.FunctionTurningPoint,
		narrative.FunctionCrisis,
		narrative.FunctionClimax,
		narrative.FunctionResolution,
	)

	flow := scoreFlow(beats)
	if flow.Score != 85 || flow.Status != StatusGood {
		t.Errorf("flow = %v [%s], want 85 [good]", flow.Score, flow.Status)
	}

	pacing := scorePacing(beats)
	if pacing.Score != 85 || pacing.Status != StatusGood {
		t.Errorf("pacing = %v [%s], want 85 [good]", pacing.Score, pacing.Status)
	}

	continuity := scoreContinuity(beats)
	if continuity.Score != 90 {
		t.Errorf("continuity = %v, want 90", continuity.Score)
	}
}

func TestScenarioSixBeatArc(t *testing.T) {
	// No setup-type beat before the crisis: the flow scorer flags the
	// structural violation but stays in good territory.
	beats := beatsWithFunctions(
		narrative.FunctionIncitingIncident,
		narrative.FunctionRisingAction,
		narrative.FunctionTurningPoint,
		narrative.FunctionCrisis,
		narrative.FunctionClimax,
		narrative.FunctionResolution,
	)

	flow := scoreFlow(beats)
	if flow.Score < 70 {
		t.Errorf("flow score = %v, want >= 70", flow.Score)
	}
	if flow.Status != StatusGood {
		t.Errorf("flow status = %s, want good", flow.Status)
	}

	pacing := scorePacing(beats)
	if pacing.Score < 70 {
		t.Errorf("pacing score = %v, want >= 70", pacing.Score)
	}
	if len(pacing.Issues) != 0 {
		t.Errorf("pacing issues = %v, want none", pacing.Issues)
	}
}

func TestFlowJarringTones(t *testing.T) {
	beats := beatsWithFunctions(
		narrative.FunctionSetup,
		narrative.FunctionRisingAction,
		narrative.FunctionRisingAction,
	)
	beats[0].EmotionalTone = "devastating"
	beats[1].EmotionalTone = "joyful"
	beats[2].EmotionalTone = "peaceful"

	flow := scoreFlow(beats)
	if flow.Score != 75 {
		t.Errorf("flow = %v, want 75 (one jarring shift)", flow.Score)
	}
	found := false
	for _, issue := range flow.Issues {
		if strings.Contains(issue, "jarring") {
			found = true
		}
	}
	if !found {
		t.Error("expected a jarring-tone issue")
	}

	// Order-insensitive: joyful -> devastating is just as jarring.
	beats[0].EmotionalTone = "joyful"
	beats[1].EmotionalTone = "devastating"
	if got := scoreFlow(beats); got.Score != 75 {
		t.Errorf("reversed pair flow = %v, want 75", got.Score)
	}
}

func TestScenarioOutOfOrderSequences(t *testing.T) {
	beats := beatsWithFunctions(
		narrative.FunctionSetup,
		narrative.FunctionRisingAction,
		narrative.FunctionClimax,
	)
	beats[0].Sequence = 3
	beats[1].Sequence = 1
	beats[2].Sequence = 2

	continuity := scoreContinuity(beats)
	if continuity.Score >= 90 {
		t.Errorf("continuity = %v, want < 90", continuity.Score)
	}
	found := false
	for _, issue := range continuity.Issues {
		if strings.Contains(issue, "not in order") {
			found = true
		}
	}
	if !found {
		t.Errorf("issues %v should mention beats not in order", continuity.Issues)
	}
}

func TestContinuityDuplicatesAndGaps(t *testing.T) {
	beats := beatsWithFunctions(
		narrative.FunctionSetup,
		narrative.FunctionRisingAction,
		narrative.FunctionRisingAction,
	)
	beats[0].Sequence = 1
	beats[1].Sequence = 1
	beats[2].Sequence = 3

	continuity := scoreContinuity(beats)
	// 90 - 15 (duplicate) - 5 (small gap: missing 2)
	if continuity.Score != 70 {
		t.Errorf("continuity = %v, want 70", continuity.Score)
	}

	var hasDup, hasMissing bool
	for _, issue := range continuity.Issues {
		if strings.Contains(issue, "duplicate") {
			hasDup = true
		}
		if strings.Contains(issue, "missing") {
			hasMissing = true
		}
	}
	if !hasDup || !hasMissing {
		t.Errorf("issues %v should mention duplicates and the missing number", continuity.Issues)
	}
}

func TestContinuityLargeGapsTolerated(t *testing.T) {
	beats := beatsWithFunctions(
		narrative.FunctionSetup,
		narrative.FunctionRisingAction,
	)
	beats[0].Sequence = 1
	beats[1].Sequence = 9 // 7 missing values: beyond the small-gap threshold

	continuity := scoreContinuity(beats)
	if continuity.Score != 90 {
		t.Errorf("continuity = %v, want 90 (large holes are tolerated)", continuity.Score)
	}
	if len(continuity.Issues) != 0 {
		t.Errorf("issues = %v, want none", continuity.Issues)
	}
}

func TestScenarioDisappearingCharacter(t *testing.T) {
	beats := beatsWithFunctions(
		narrative.FunctionSetup, narrative.FunctionRisingAction,
		narrative.FunctionRisingAction, narrative.FunctionRisingAction,
		narrative.FunctionRisingAction, narrative.FunctionRisingAction,
		narrative.FunctionRisingAction, narrative.FunctionRisingAction,
		narrative.FunctionClimax, narrative.FunctionResolution,
	)
	beats[0].CharacterID = "mia"
	beats[8].CharacterID = "mia"

	characters := []narrative.CharacterState{{ID: "mia", Name: "Mia", ArcPosition: 0.5}}

	score := scoreCharacter(beats, characters)
	if score.Score != 82 {
		t.Errorf("character score = %v, want 82", score.Score)
	}
	found := false
	for _, issue := range score.Issues {
		if strings.Contains(issue, "disappears for 8 beats") {
			found = true
		}
	}
	if !found {
		t.Errorf("issues %v should report an 8-beat disappearance", score.Issues)
	}
}

func TestCharacterMinimalArc(t *testing.T) {
	beats := beatsWithFunctions(
		narrative.FunctionSetup, narrative.FunctionRisingAction,
		narrative.FunctionRisingAction, narrative.FunctionRisingAction,
		narrative.FunctionRisingAction, narrative.FunctionClimax,
	)
	characters := []narrative.CharacterState{{ID: "ava8", Name: "Ava8", ArcPosition: 0.05}}

	score := scoreCharacter(beats, characters)
	if score.Score != 78 {
		t.Errorf("character score = %v, want 78", score.Score)
	}
	if len(score.Issues) != 1 || !strings.Contains(score.Issues[0], "minimal arc") {
		t.Errorf("issues = %v, want one minimal-arc issue", score.Issues)
	}
}

func TestPacingPenalties(t *testing.T) {
	// No climax at all.
	noClimax := beatsWithFunctions(
		narrative.FunctionSetup,
		narrative.FunctionRisingAction,
		narrative.FunctionResolution,
	)
	if got := scorePacing(noClimax); got.Score != 65 {
		t.Errorf("no-climax pacing = %v, want 65", got.Score)
	}

	// Climax in the first half.
	early := beatsWithFunctions(
		narrative.FunctionSetup,
		narrative.FunctionClimax,
		narrative.FunctionRisingAction,
		narrative.FunctionRisingAction,
		narrative.FunctionRisingAction,
		narrative.FunctionResolution,
	)
	if got := scorePacing(early); got.Score != 70 {
		t.Errorf("early-climax pacing = %v, want 70", got.Score)
	}

	// Five consecutive high-tension beats: 85 - 15 (early climax at index
	// 4 of 10) - 20 (capped run penalty).
	grind := beatsWithFunctions(
		narrative.FunctionConfrontation,
		narrative.FunctionCrisis,
		narrative.FunctionConfrontation,
		narrative.FunctionRevelation,
		narrative.FunctionClimax,
		narrative.FunctionRisingAction,
		narrative.FunctionRisingAction,
		narrative.FunctionRisingAction,
		narrative.FunctionRisingAction,
		narrative.FunctionRisingAction,
	)
	got := scorePacing(grind)
	if got.Score != 50 {
		t.Errorf("grind pacing = %v, want 50", got.Score)
	}
	found := false
	for _, issue := range got.Issues {
		if strings.Contains(issue, "consecutive high-tension") {
			found = true
		}
	}
	if !found {
		t.Errorf("issues %v should flag the tension run", got.Issues)
	}
}

func TestThemeSaturation(t *testing.T) {
	beats := beatsWithFunctions(
		narrative.FunctionSetup,
		narrative.FunctionRisingAction,
		narrative.FunctionRisingAction,
		narrative.FunctionRisingAction,
		narrative.FunctionClimax,
	)
	beats[0].ThematicTags = []string{"communion"}
	beats[1].ThematicTags = []string{"communion"}

	themes := []narrative.ThematicThread{
		{ID: "communion", Name: "communion", Strength: 0.2},      // coverage 0.4, weak: lacks impact
		{ID: "craftsmanship", Name: "craftsmanship", Strength: 0.8}, // coverage 0, strong: rarely appears
	}

	score := scoreTheme(beats, themes)
	// mean coverage 0.2 -> base 40; penalties 10 + 8.
	if score.Score != 22 {
		t.Errorf("theme score = %v, want 22", score.Score)
	}

	var rare, weak bool
	for _, issue := range score.Issues {
		if strings.Contains(issue, "rarely appears") {
			rare = true
		}
		if strings.Contains(issue, "lacks impact") {
			weak = true
		}
	}
	if !rare || !weak {
		t.Errorf("issues = %v, want both saturation defects", score.Issues)
	}
}

func TestGapExtractionAndSorting(t *testing.T) {
	// Out-of-order, duplicated sequences plus a disappearing character and
	// a starving theme produce a mixed-severity gap list.
	beats := beatsWithFunctions(
		narrative.FunctionCrisis, narrative.FunctionRisingAction,
		narrative.FunctionRisingAction, narrative.FunctionRisingAction,
		narrative.FunctionRisingAction, narrative.FunctionRisingAction,
		narrative.FunctionRisingAction, narrative.FunctionRisingAction,
		narrative.FunctionClimax,
	)
	beats[0].CharacterID = "mia"
	beats[8].CharacterID = "mia"
	characters := []narrative.CharacterState{{ID: "mia", Name: "Mia", ArcPosition: 0.5}}
	themes := []narrative.ThematicThread{{ID: "becoming", Name: "becoming", Strength: 0.9}}

	result := NewEngine().Analyze(beats, characters, themes)

	if len(result.Gaps) == 0 {
		t.Fatal("expected gaps")
	}

	// Severity order is critical, moderate, minor.
	rank := map[Severity]int{SeverityCritical: 0, SeverityModerate: 1, SeverityMinor: 2}
	for i := 1; i < len(result.Gaps); i++ {
		if rank[result.Gaps[i].Severity] < rank[result.Gaps[i-1].Severity] {
			t.Fatalf("gaps not sorted by severity: %v before %v",
				result.Gaps[i-1].Severity, result.Gaps[i].Severity)
		}
	}

	// Ids are unique within the result.
	seen := map[string]bool{}
	for _, g := range result.Gaps {
		if seen[g.ID] {
			t.Fatalf("duplicate gap id %s", g.ID)
		}
		seen[g.ID] = true
	}

	// Routes follow the fixed type mapping.
	for _, g := range result.Gaps {
		if want := routeForGapType[g.Type]; g.SuggestedRoute != want {
			t.Errorf("gap %s routed to %s, want %s", g.ID, g.SuggestedRoute, want)
		}
	}

	// Severity is critical only when the source component was critical.
	for _, g := range result.Gaps {
		if g.Severity != SeverityCritical {
			continue
		}
		var src ComponentScore
		switch g.Location {
		case "flow":
			src = result.Flow
		case "character":
			src = result.Character
		case "pacing":
			src = result.Pacing
		case "theme":
			src = result.Theme
		case "continuity":
			src = result.Continuity
		}
		if src.Status != StatusCritical {
			t.Errorf("critical gap %s from non-critical component %s", g.ID, g.Location)
		}
	}
}

func TestAnalyzeIdempotence(t *testing.T) {
	beats := beatsWithFunctions(
		narrative.FunctionSetup,
		narrative.FunctionIncitingIncident,
		narrative.FunctionCrisis,
		narrative.FunctionClimax,
		narrative.FunctionResolution,
	)
	characters := []narrative.CharacterState{{ID: "mia", Name: "Mia", ArcPosition: 0.4}}
	themes := []narrative.ThematicThread{{ID: "becoming", Name: "becoming", Strength: 0.5}}

	engine := NewEngine()
	first := engine.Analyze(beats, characters, themes)
	second := engine.Analyze(beats, characters, themes)

	if !reflect.DeepEqual(first, second) {
		t.Error("analysis of unchanged inputs should be identical")
	}
}

func TestAggregateWeights(t *testing.T) {
	components := []weightedComponent{
		{"flow", 1.2, ComponentScore{Score: 100}, GapStructural},
		{"continuity", 0.8, ComponentScore{Score: 50}, GapContinuity},
	}
	got := aggregate(components)
	want := (100*1.2 + 50*0.8) / 2.0
	if got != want {
		t.Errorf("aggregate = %v, want %v", got, want)
	}

	if got := aggregate(nil); got != 50.0 {
		t.Errorf("empty aggregate = %v, want 50", got)
	}
}

func TestTrinitySummary(t *testing.T) {
	beats := beatsWithFunctions(
		narrative.FunctionSetup,
		narrative.FunctionIncitingIncident,
		narrative.FunctionRisingAction,
		narrative.FunctionClimax,
		narrative.FunctionResolution,
	)
	result := NewEngine().Analyze(beats, nil, nil)

	if !strings.Contains(result.Trinity.Structural, "Flow holds at") {
		t.Errorf("Mia should always report flow: %q", result.Trinity.Structural)
	}
	if result.Trinity.Emotional == "" || result.Trinity.Atmospheric == "" {
		t.Error("all three trinity voices must speak")
	}
	if len(result.Trinity.Priorities) == 0 {
		t.Error("priorities must never be empty")
	}
	if len(result.Trinity.Priorities) > 3 {
		t.Errorf("priorities = %d entries, want at most 3", len(result.Trinity.Priorities))
	}
}

func TestPrioritiesFallback(t *testing.T) {
	gaps := []Gap{
		{Severity: SeverityMinor, Description: "m1"},
		{Severity: SeverityMinor, Description: "m2"},
	}
	got := priorities(gaps)
	if len(got) != 1 || !strings.Contains(got[0], "minor polish only") {
		t.Errorf("minor-only priorities = %v", got)
	}

	gaps = append(gaps, Gap{Severity: SeverityModerate, Description: "mod1"})
	got = priorities(gaps)
	if !reflect.DeepEqual(got, []string{"mod1"}) {
		t.Errorf("moderate priorities = %v", got)
	}

	gaps = append(gaps,
		Gap{Severity: SeverityCritical, Description: "c1"},
		Gap{Severity: SeverityCritical, Description: "c2"},
		Gap{Severity: SeverityCritical, Description: "c3"},
		Gap{Severity: SeverityCritical, Description: "c4"},
	)
	got = priorities(gaps)
	if !reflect.DeepEqual(got, []string{"c1", "c2", "c3"}) {
		t.Errorf("critical priorities = %v", got)
	}
}
