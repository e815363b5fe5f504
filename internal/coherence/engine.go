package coherence

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mirelys/trilens/internal/narrative"
)

// Engine runs the five scorers, aggregates them, extracts gaps, and renders
// the trinity summary. It holds no per-analysis state and is safe to share.
type Engine struct{}

// NewEngine returns a coherence engine.
func NewEngine() *Engine {
	return &Engine{}
}

// weightedComponent pairs a scorer with its aggregation weight; declaration
// order is the fixed aggregation order.
type weightedComponent struct {
	name   string
	weight float64
	score  ComponentScore
	gapTyp GapType
}

// gap routes are fixed per gap type.
var routeForGapType = map[GapType]Route{
	GapStructural: RouteStructurist,
	GapCharacter:  RouteStoryteller,
	GapThematic:   RouteStructurist,
	GapSensory:    RouteStoryteller,
	GapContinuity: RouteAuthor,
}

var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityModerate: 1,
	SeverityMinor:    2,
}

// Analyze scores the beat list against all five rubrics. It is a pure
// function of its inputs; gap ids restart at every call and are unique
// within one result.
func (e *Engine) Analyze(beats []narrative.Beat, characters []narrative.CharacterState, themes []narrative.ThematicThread) Result {
	components := []weightedComponent{
		{"flow", 1.2, scoreFlow(beats), GapStructural},
		{"character", 1.2, scoreCharacter(beats, characters), GapCharacter},
		{"pacing", 1.0, scorePacing(beats), GapStructural},
		{"theme", 1.0, scoreTheme(beats, themes), GapThematic},
		{"continuity", 0.8, scoreContinuity(beats), GapContinuity},
	}

	result := Result{
		Score:      aggregate(components),
		Flow:       components[0].score,
		Character:  components[1].score,
		Pacing:     components[2].score,
		Theme:      components[3].score,
		Continuity: components[4].score,
		Gaps:       extractGaps(components),
	}
	result.Trinity = trinitySummary(result)
	return result
}

// aggregate computes the weighted mean of the component scores, normalized
// by the weights actually present; 50.0 when no scorers ran.
func aggregate(components []weightedComponent) float64 {
	weightSum := 0.0
	scoreSum := 0.0
	for _, c := range components {
		weightSum += c.weight
		scoreSum += c.score.Score * c.weight
	}
	if weightSum == 0 {
		return 50.0
	}
	return scoreSum / weightSum
}

// extractGaps turns every scorer issue into one routed, severity-ranked gap.
func extractGaps(components []weightedComponent) []Gap {
	var gaps []Gap
	nextID := 0
	for _, c := range components {
		for _, issue := range c.score.Issues {
			nextID++
			gaps = append(gaps, Gap{
				ID:             fmt.Sprintf("gap-%d", nextID),
				Type:           c.gapTyp,
				Severity:       gapSeverity(c.score.Status, issue),
				Description:    issue,
				Location:       c.name,
				SuggestedRoute: routeForGapType[c.gapTyp],
			})
		}
	}
	sort.SliceStable(gaps, func(i, j int) bool {
		return severityRank[gaps[i].Severity] < severityRank[gaps[j].Severity]
	})
	return gaps
}

func gapSeverity(status Status, issue string) Severity {
	if status == StatusCritical {
		return SeverityCritical
	}
	if strings.Contains(issue, "rarely") || strings.Contains(issue, "disappears") {
		return SeverityModerate
	}
	return SeverityMinor
}

// trinitySummary assembles the three persona blurbs from the component
// scores and issue contents.
func trinitySummary(r Result) TrinitySummary {
	return TrinitySummary{
		Structural:  miaSummary(r),
		Emotional:   mietteSummary(r),
		Atmospheric: ava8Summary(r),
		Priorities:  priorities(r.Gaps),
	}
}

// miaSummary is the structural read: flow always, pacing only when weak,
// continuity only when issues pile up.
func miaSummary(r Result) string {
	parts := []string{fmt.Sprintf("Flow holds at %.0f.", r.Flow.Score)}
	if r.Pacing.Score < 70 {
		parts = append(parts, fmt.Sprintf("Pacing sags at %.0f and needs restructuring.", r.Pacing.Score))
	}
	if r.Continuity.Score < 80 {
		parts = append(parts, fmt.Sprintf("%d continuity issues need attention.", len(r.Continuity.Issues)))
	}
	return strings.Join(parts, " ")
}

// mietteSummary is the emotional read: characters always, themes when they
// either breathe or want room.
func mietteSummary(r Result) string {
	parts := []string{fmt.Sprintf("The characters register at %.0f.", r.Character.Score)}
	if r.Character.Score < 70 {
		parts = append(parts, "Someone is drifting out of the story.")
	}
	if r.Theme.Score >= 70 {
		parts = append(parts, "The themes are breathing.")
	} else {
		parts = append(parts, "The themes want more room.")
	}
	return strings.Join(parts, " ")
}

// ava8Summary is the atmospheric read: overall texture, plus tonal ripples
// when the flow issues mention jarring shifts.
func ava8Summary(r Result) string {
	texture := "settled"
	switch {
	case r.Score >= 80:
		texture = "luminous"
	case r.Score >= 60:
		texture = "settled"
	default:
		texture = "turbulent"
	}
	parts := []string{fmt.Sprintf("The atmosphere reads %s at %.0f.", texture, r.Score)}
	for _, issue := range r.Flow.Issues {
		if strings.Contains(issue, "jarring") {
			parts = append(parts, "Tonal shifts ripple through the middle.")
			break
		}
	}
	if r.Theme.Score < 50 {
		parts = append(parts, "The thematic air is thin.")
	}
	return strings.Join(parts, " ")
}

// priorities lists the top three critical gap descriptions, falling back to
// moderate, falling back to a single polish note.
func priorities(gaps []Gap) []string {
	for _, severity := range []Severity{SeverityCritical, SeverityModerate} {
		var picked []string
		for _, g := range gaps {
			if g.Severity == severity {
				picked = append(picked, g.Description)
				if len(picked) == 3 {
					break
				}
			}
		}
		if len(picked) > 0 {
			return picked
		}
	}
	return []string{"minor polish only: no critical or moderate gaps detected"}
}
