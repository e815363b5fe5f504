// Package narrative holds the mutable, serializable story state: beats,
// character arcs, thematic threads, and routing history, all owned by one
// ledger per story/session pair.
package narrative

import (
	"time"

	"github.com/mirelys/trilens/internal/lens"
)

// NarrativeFunction names the dramatic role a beat plays. The beat factory
// produces the canonical nine (setup through resolution plus generic);
// introduction, discovery, and confrontation are also recognized for beats
// authored directly by callers.
type NarrativeFunction string

const (
	FunctionSetup            NarrativeFunction = "setup"
	FunctionIncitingIncident NarrativeFunction = "inciting_incident"
	FunctionRisingAction     NarrativeFunction = "rising_action"
	FunctionTurningPoint     NarrativeFunction = "turning_point"
	FunctionCrisis           NarrativeFunction = "crisis"
	FunctionClimax           NarrativeFunction = "climax"
	FunctionRevelation       NarrativeFunction = "revelation"
	FunctionResolution       NarrativeFunction = "resolution"
	FunctionGeneric          NarrativeFunction = "generic"

	FunctionIntroduction  NarrativeFunction = "introduction"
	FunctionDiscovery     NarrativeFunction = "discovery"
	FunctionConfrontation NarrativeFunction = "confrontation"
)

// Beat is one discrete unit of story progression. Beats are append-only:
// once in a ledger they are never removed or reordered, though enrichment
// may add thematic tags.
type Beat struct {
	ID                 string            `json:"id"`
	Sequence           int               `json:"sequence"`
	Content            string            `json:"content"`
	NarrativeFunction  NarrativeFunction `json:"narrative_function"`
	Act                int               `json:"act"`
	LeadLens           lens.Lens         `json:"lead_lens"`
	EmotionalTone      string            `json:"emotional_tone"`
	ThematicTags       []string          `json:"thematic_tags"`
	CharacterID        string            `json:"character_id,omitempty"`
	CharacterArcImpact float64           `json:"character_arc_impact"`
	Source             string            `json:"source"`
	Timestamp          time.Time         `json:"timestamp"`
	QualityScore       float64           `json:"quality_score"`
}

// GrowthPoint is one entry in a character's append-only development log.
type GrowthPoint struct {
	Timestamp   time.Time `json:"timestamp"`
	Impact      float64   `json:"impact"`
	Description string    `json:"description"`
}

// CharacterState tracks one character's arc across a story.
type CharacterState struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Archetype     string        `json:"archetype"`
	Lens          lens.Lens     `json:"lens"`
	ArcPosition   float64       `json:"arc_position"`
	GrowthPoints  []GrowthPoint `json:"growth_points"`
	Relationships []string      `json:"relationships"`
}

// ThematicThread tracks one theme's presence and resolution across a story.
type ThematicThread struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Strength           float64  `json:"strength"`
	TensionLevel       float64  `json:"tension_level"`
	ResolutionProgress float64  `json:"resolution_progress"`
	BeatIDs            []string `json:"beat_ids"`
}

// RoutingDecision is an immutable audit record of one routed event.
type RoutingDecision struct {
	ID             string               `json:"id"`
	Backend        string               `json:"backend"`
	Flow           string               `json:"flow"`
	Synthesis      lens.SynthesisResult `json:"synthesis"`
	Position       Position             `json:"position"`
	CoherenceScore float64              `json:"coherence_score"`
	Method         string               `json:"method"`
	Success        bool                 `json:"success"`
	ResultSummary  string               `json:"result_summary"`
	LatencyMs      int64                `json:"latency_ms"`
	Timestamp      time.Time            `json:"timestamp"`
}

// Position is the ledger's current place in the story, derived from the
// beat list.
type Position struct {
	Act           int       `json:"act"`
	Phase         string    `json:"phase"` // setup, confrontation, resolution
	BeatCount     int       `json:"beat_count"`
	CurrentBeatID string    `json:"current_beat_id,omitempty"`
	LeadLens      lens.Lens `json:"lead_lens,omitempty"`
}

// Ledger is the aggregate narrative state for one story/session pair. It is
// designed for single-writer use; concurrent callers must serialize
// externally.
type Ledger struct {
	StoryID           string                     `json:"story_id"`
	SessionID         string                     `json:"session_id"`
	Position          Position                   `json:"position"`
	Beats             []Beat                     `json:"beats"`
	Characters        map[string]*CharacterState `json:"characters"`
	Themes            map[string]*ThematicThread `json:"themes"`
	RoutingHistory    []RoutingDecision          `json:"routing_history"`
	CurrentEpisodeID  string                     `json:"current_episode_id,omitempty"`
	EpisodeBeatsCount int                        `json:"episode_beats_count"`
	OverallCoherence  float64                    `json:"overall_coherence"`
	CreatedAt         time.Time                  `json:"created_at"`
	UpdatedAt         time.Time                  `json:"updated_at"`
}
