// Package session is the integration layer between the pure classification
// and scoring core and the persistence adapter: it runs the classify →
// synthesize → append → persist pipeline, caches per-event results, and
// caps routing history.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mirelys/trilens/internal/coherence"
	"github.com/mirelys/trilens/internal/fallback"
	"github.com/mirelys/trilens/internal/lens"
	"github.com/mirelys/trilens/internal/narrative"
	"github.com/mirelys/trilens/internal/store"
)

// Manager owns one store handle and drives the pipeline for any number of
// sequential sessions. The fallback classifier may be nil; the rule-based
// keyword path always works without it.
type Manager struct {
	store    store.Store
	engine   *coherence.Engine
	fallback fallback.Classifier
	log      *zap.Logger
}

// NewManager wires the integration layer. Pass nil for fb to run without
// the language-model fallback.
func NewManager(st store.Store, fb fallback.Classifier, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		store:    st,
		engine:   coherence.NewEngine(),
		fallback: fb,
		log:      log,
	}
}

// ProcessEvent classifies an event through all three lenses, synthesizes
// the verdict, appends the resulting beat to the session's ledger, and
// persists both. Classification results are cached per event id for 24h.
func (m *Manager) ProcessEvent(ctx context.Context, storyID, sessionID string, ev lens.Event) (*lens.SynthesisResult, *narrative.Beat, error) {
	synth, err := m.classifyEvent(ctx, ev)
	if err != nil {
		return nil, nil, err
	}

	ledger, err := m.LoadLedger(ctx, storyID, sessionID)
	if err != nil {
		return nil, nil, err
	}

	beat := narrative.NewBeatFromSynthesis(synth, ev.Content(), string(ev.Kind), len(ledger.Beats)+1)
	ledger.AppendBeat(beat)
	ledger.UpdateCharacterArc(beat.CharacterID, beat.CharacterArcImpact, beat.Content)
	for _, tag := range beat.ThematicTags {
		ledger.UpdateThemeStrength(tag, 0.05)
	}

	if err := m.SaveLedger(ctx, ledger); err != nil {
		return nil, nil, err
	}
	if err := m.saveBeat(ctx, sessionID, beat); err != nil {
		return nil, nil, err
	}
	return synth, &beat, nil
}

// classifyEvent runs the three lenses and the synthesizer, consulting the
// event cache first. A malformed cached value is treated as a miss.
func (m *Manager) classifyEvent(ctx context.Context, ev lens.Event) (*lens.SynthesisResult, error) {
	key := store.EventKey(ev.ID)
	if ev.ID != "" {
		if cached, err := m.store.Get(ctx, key); err == nil {
			var synth lens.SynthesisResult
			if err := json.Unmarshal([]byte(cached), &synth); err == nil {
				return &synth, nil
			}
			m.log.Warn("malformed cached classification, reclassifying",
				zap.String("event_id", ev.ID))
		}
	}

	content := ev.Content()
	contributors := ev.Contributors()

	engineer := lens.ClassifyEngineer(content, ev.CommitCount())
	ceremony := lens.ClassifyCeremony(content, contributors)
	story := lens.ClassifyStoryEngine(content)

	m.applyFallback(ctx, content, engineer, ceremony, story)

	synth, err := lens.Synthesize(engineer, ceremony, story)
	if err != nil {
		return nil, fmt.Errorf("synthesize event %s: %w", ev.ID, err)
	}

	if ev.ID != "" {
		if payload, err := json.Marshal(synth); err == nil {
			if err := m.store.SetWithExpiry(ctx, key, store.EventCacheTTL, string(payload)); err != nil {
				m.log.Warn("cache classification failed", zap.String("event_id", ev.ID), zap.Error(err))
			}
		}
	}
	return synth, nil
}

// applyFallback consults the language-model callback only for lenses that
// fell through to their no-match default. Errors keep the rule-based result.
func (m *Manager) applyFallback(ctx context.Context, content string, engineer, ceremony, story *lens.Perspective) {
	if m.fallback == nil || content == "" {
		return
	}
	candidates := []struct {
		p          *lens.Perspective
		defaultCat string
		noMatch    float64
		categories []string
	}{
		{engineer, lens.EngineerDefaultCategory, lens.EngineerNoMatchConfidence, lens.EngineerCategories()},
		{ceremony, lens.CeremonyDefaultCategory, lens.CeremonyNoMatchConfidence, lens.CeremonyCategories()},
		{story, lens.StoryDefaultCategory, lens.StoryNoMatchConfidence, lens.StoryCategories()},
	}
	for _, c := range candidates {
		if c.p.Category != c.defaultCat || c.p.Confidence != c.noMatch {
			continue
		}
		result, err := m.fallback.Classify(ctx, content, c.categories)
		if err != nil {
			m.log.Debug("fallback classification skipped", zap.String("lens", string(c.p.Lens)), zap.Error(err))
			continue
		}
		c.p.Category = result.Category
		if result.Confidence > 0 {
			c.p.Confidence = result.Confidence
			if c.p.Confidence > 0.95 {
				c.p.Confidence = 0.95
			}
		}
	}
}

// LoadLedger fetches the session's ledger, creating a default-seeded one
// when nothing is stored. Malformed persisted state is logged and treated
// as not found.
func (m *Manager) LoadLedger(ctx context.Context, storyID, sessionID string) (*narrative.Ledger, error) {
	raw, err := m.store.Get(ctx, store.StateKey(sessionID))
	if errors.Is(err, store.ErrNotFound) {
		return narrative.NewLedger(storyID, sessionID, true), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load ledger %s: %w", sessionID, err)
	}

	var ledger narrative.Ledger
	if err := json.Unmarshal([]byte(raw), &ledger); err != nil {
		m.log.Warn("malformed persisted ledger, starting fresh",
			zap.String("session_id", sessionID), zap.Error(err))
		return narrative.NewLedger(storyID, sessionID, true), nil
	}
	return &ledger, nil
}

// SaveLedger persists the ledger under its session key and as the current
// state, both with the state TTL.
func (m *Manager) SaveLedger(ctx context.Context, ledger *narrative.Ledger) error {
	payload, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("marshal ledger %s: %w", ledger.SessionID, err)
	}
	if err := m.store.SetWithExpiry(ctx, store.StateKey(ledger.SessionID), store.StateTTL, string(payload)); err != nil {
		return fmt.Errorf("save ledger %s: %w", ledger.SessionID, err)
	}
	if err := m.store.SetWithExpiry(ctx, store.CurrentStateKey, store.StateTTL, string(payload)); err != nil {
		return fmt.Errorf("save current state: %w", err)
	}
	return nil
}

func (m *Manager) saveBeat(ctx context.Context, sessionID string, beat narrative.Beat) error {
	payload, err := json.Marshal(beat)
	if err != nil {
		return fmt.Errorf("marshal beat %s: %w", beat.ID, err)
	}
	if err := m.store.SetWithExpiry(ctx, store.BeatKey(beat.ID), store.BeatTTL, string(payload)); err != nil {
		return fmt.Errorf("save beat %s: %w", beat.ID, err)
	}
	if _, err := m.store.AppendToList(ctx, store.BeatsKey(sessionID), beat.ID); err != nil {
		return fmt.Errorf("append beat id %s: %w", beat.ID, err)
	}
	return nil
}

// RecordRouting appends a routing decision to the ledger and the per-session
// routing list, trimming the list to the most recent entries.
func (m *Manager) RecordRouting(ctx context.Context, ledger *narrative.Ledger, decision narrative.RoutingDecision) error {
	ledger.AppendRoutingDecision(decision)
	ledger.RollingCoherence()

	payload, err := json.Marshal(decision)
	if err != nil {
		return fmt.Errorf("marshal routing decision %s: %w", decision.ID, err)
	}
	key := store.RoutingKey(ledger.SessionID)
	if _, err := m.store.AppendToList(ctx, key, string(payload)); err != nil {
		return fmt.Errorf("append routing decision: %w", err)
	}
	if err := m.store.TrimList(ctx, key, -int64(store.RoutingHistoryMax), -1); err != nil {
		return fmt.Errorf("trim routing history: %w", err)
	}
	return m.SaveLedger(ctx, ledger)
}

// Analyze loads the session's ledger and runs the coherence engine over its
// beats, characters, and themes.
func (m *Manager) Analyze(ctx context.Context, storyID, sessionID string) (*coherence.Result, error) {
	ledger, err := m.LoadLedger(ctx, storyID, sessionID)
	if err != nil {
		return nil, err
	}

	characters := make([]narrative.CharacterState, 0, len(ledger.Characters))
	for _, id := range sortedKeys(ledger.Characters) {
		characters = append(characters, *ledger.Characters[id])
	}
	themes := make([]narrative.ThematicThread, 0, len(ledger.Themes))
	for _, id := range sortedKeys(ledger.Themes) {
		themes = append(themes, *ledger.Themes[id])
	}

	result := m.engine.Analyze(ledger.Beats, characters, themes)
	return &result, nil
}
