// Package coherence scores a ledger's beat list against five heuristic
// quality rubrics, extracts routed gap records from the issues, and renders
// a tri-perspective textual summary. Everything here is a pure function of
// its inputs; gap ids are scoped to one analysis call.
package coherence

// Status buckets a component score: good at 70 and above, warning at 50 and
// above, critical below.
type Status string

const (
	StatusGood     Status = "good"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// ComponentScore is one rubric's verdict, recomputed on every analysis.
type ComponentScore struct {
	Score       float64  `json:"score"`
	Status      Status   `json:"status"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
}

// GapType classifies a detected narrative defect.
type GapType string

const (
	GapStructural GapType = "structural"
	GapCharacter  GapType = "character"
	GapThematic   GapType = "thematic"
	GapSensory    GapType = "sensory"
	GapContinuity GapType = "continuity"
)

// Severity ranks a gap. The gap list is always sorted critical, moderate,
// minor.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityModerate Severity = "moderate"
	SeverityMinor    Severity = "minor"
)

// Route names the remediation role a gap is sent to.
type Route string

const (
	RouteStructurist Route = "structurist"
	RouteStoryteller Route = "storyteller"
	RouteAuthor      Route = "author"
	// RouteObserver is declared for completeness; none of the five scorers
	// emit a gap type that routes to it.
	RouteObserver Route = "observer"
)

// Gap is one detected narrative-quality defect, typed and severity-ranked,
// routed to a remediation role. Gaps are created fresh on every analysis and
// are not ledger state.
type Gap struct {
	ID             string   `json:"id"`
	Type           GapType  `json:"type"`
	Severity       Severity `json:"severity"`
	Description    string   `json:"description"`
	Location       string   `json:"location"`
	SuggestedRoute Route    `json:"suggested_route"`
	Resolved       bool     `json:"resolved"`
	Resolution     string   `json:"resolution,omitempty"`
}

// TrinitySummary is the three persona-framed assessments plus the priority
// list.
type TrinitySummary struct {
	Structural  string   `json:"structural"`  // Mia
	Emotional   string   `json:"emotional"`   // Miette
	Atmospheric string   `json:"atmospheric"` // Ava8
	Priorities  []string `json:"priorities"`
}

// Result is one full coherence analysis.
type Result struct {
	Score      float64        `json:"score"`
	Flow       ComponentScore `json:"flow"`
	Character  ComponentScore `json:"character"`
	Pacing     ComponentScore `json:"pacing"`
	Theme      ComponentScore `json:"theme"`
	Continuity ComponentScore `json:"continuity"`
	Gaps       []Gap          `json:"gaps"`
	Trinity    TrinitySummary `json:"trinity"`
}

func statusFor(score float64) Status {
	switch {
	case score >= 70:
		return StatusGood
	case score >= 50:
		return StatusWarning
	}
	return StatusCritical
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func component(score float64, issues, suggestions []string) ComponentScore {
	score = clampScore(score)
	return ComponentScore{
		Score:       score,
		Status:      statusFor(score),
		Issues:      issues,
		Suggestions: suggestions,
	}
}
