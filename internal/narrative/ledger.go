package narrative

import (
	"time"

	"github.com/mirelys/trilens/internal/lens"
)

// episodeBeatLimit is the number of beats after which a new episode should
// begin.
const episodeBeatLimit = 12

// rollingCoherenceWindow is the number of recent routing decisions averaged
// by RollingCoherence.
const rollingCoherenceWindow = 20

// defaultCoherence seeds new ledgers and empty routing histories.
const defaultCoherence = 0.5

// DefaultCharacters returns the three seed characters, one per lens.
func DefaultCharacters() []*CharacterState {
	return []*CharacterState{
		{ID: "mia", Name: "Mia", Archetype: "architect", Lens: lens.LensEngineer},
		{ID: "miette", Name: "Miette", Archetype: "empath", Lens: lens.LensCeremony},
		{ID: "ava8", Name: "Ava8", Archetype: "dreamer", Lens: lens.LensStoryEngine},
	}
}

// DefaultThemes returns the three seed thematic threads.
func DefaultThemes() []*ThematicThread {
	return []*ThematicThread{
		{ID: "craftsmanship", Name: "craftsmanship", Description: "the pursuit of quality in the work itself", Strength: 0.5},
		{ID: "communion", Name: "communion", Description: "building together rather than alone", Strength: 0.5},
		{ID: "becoming", Name: "becoming", Description: "growth through the arc of the story", Strength: 0.5},
	}
}

// NewLedger creates the ledger for one story/session pair, positioned at
// act 1 / setup. With includeDefaults it is pre-seeded with the three lens
// characters and three named themes.
func NewLedger(storyID, sessionID string, includeDefaults bool) *Ledger {
	now := time.Now().UTC()
	l := &Ledger{
		StoryID:          storyID,
		SessionID:        sessionID,
		Position:         Position{Act: 1, Phase: "setup"},
		Beats:            []Beat{},
		Characters:       make(map[string]*CharacterState),
		Themes:           make(map[string]*ThematicThread),
		RoutingHistory:   []RoutingDecision{},
		OverallCoherence: defaultCoherence,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if includeDefaults {
		for _, c := range DefaultCharacters() {
			l.Characters[c.ID] = c
		}
		for _, t := range DefaultThemes() {
			l.Themes[t.ID] = t
		}
	}
	return l
}

// AppendBeat pushes a beat and recomputes the derived position. Existing
// beats are never removed or reordered; out-of-order sequence values are
// tolerated here and flagged later by the coherence engine.
func (l *Ledger) AppendBeat(beat Beat) {
	l.Beats = append(l.Beats, beat)
	l.Position.BeatCount = len(l.Beats)
	l.Position.CurrentBeatID = beat.ID
	l.Position.LeadLens = beat.LeadLens

	switch beat.NarrativeFunction {
	case FunctionIncitingIncident:
		l.Position.Act, l.Position.Phase = 1, "setup"
	case FunctionTurningPoint, FunctionCrisis:
		l.Position.Act, l.Position.Phase = 2, "confrontation"
	case FunctionClimax, FunctionResolution:
		l.Position.Act, l.Position.Phase = 3, "resolution"
	}

	l.EpisodeBeatsCount++
	l.UpdatedAt = time.Now().UTC()
}

// AppendRoutingDecision records one routing decision in the append-only
// history.
func (l *Ledger) AppendRoutingDecision(decision RoutingDecision) {
	l.RoutingHistory = append(l.RoutingHistory, decision)
	l.UpdatedAt = time.Now().UTC()
}

// UpdateCharacterArc advances a character's arc position, clamped at 1.0,
// and appends a growth point. Unknown character ids are a silent no-op.
func (l *Ledger) UpdateCharacterArc(characterID string, impactDelta float64, description string) {
	c, ok := l.Characters[characterID]
	if !ok {
		return
	}
	c.ArcPosition += impactDelta
	if c.ArcPosition > 1.0 {
		c.ArcPosition = 1.0
	}
	c.GrowthPoints = append(c.GrowthPoints, GrowthPoint{
		Timestamp:   time.Now().UTC(),
		Impact:      impactDelta,
		Description: description,
	})
	l.UpdatedAt = time.Now().UTC()
}

// UpdateThemeStrength adjusts a theme's strength by delta, clamped into
// [0, 1]. Unknown theme ids are a silent no-op.
func (l *Ledger) UpdateThemeStrength(themeID string, delta float64) {
	t, ok := l.Themes[themeID]
	if !ok {
		return
	}
	t.Strength += delta
	if t.Strength > 1.0 {
		t.Strength = 1.0
	}
	if t.Strength < 0.0 {
		t.Strength = 0.0
	}
	l.UpdatedAt = time.Now().UTC()
}

// RecentBeats returns the last n beats in ledger order, oldest of the
// window first.
func (l *Ledger) RecentBeats(n int) []Beat {
	if n <= 0 || len(l.Beats) == 0 {
		return nil
	}
	if n > len(l.Beats) {
		n = len(l.Beats)
	}
	return l.Beats[len(l.Beats)-n:]
}

// ShouldStartNewEpisode reports whether the episode beat budget is spent or
// the story just resolved.
func (l *Ledger) ShouldStartNewEpisode() bool {
	if l.EpisodeBeatsCount >= episodeBeatLimit {
		return true
	}
	if len(l.Beats) > 0 && l.Beats[len(l.Beats)-1].NarrativeFunction == FunctionResolution {
		return true
	}
	return false
}

// StartNewEpisode switches to a new episode id and resets the episode beat
// counter.
func (l *Ledger) StartNewEpisode(episodeID string) {
	l.CurrentEpisodeID = episodeID
	l.EpisodeBeatsCount = 0
	l.UpdatedAt = time.Now().UTC()
}

// RollingCoherence averages the coherence of the last 20 routing decisions
// (0.5 when none exist) and writes the result back to OverallCoherence.
func (l *Ledger) RollingCoherence() float64 {
	if len(l.RoutingHistory) == 0 {
		l.OverallCoherence = defaultCoherence
		return defaultCoherence
	}
	window := l.RoutingHistory
	if len(window) > rollingCoherenceWindow {
		window = window[len(window)-rollingCoherenceWindow:]
	}
	sum := 0.0
	for _, d := range window {
		sum += d.CoherenceScore
	}
	avg := sum / float64(len(window))
	l.OverallCoherence = avg
	return avg
}
