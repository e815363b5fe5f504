package lens

import "strings"

// lexiconEntry maps one category to its trigger substrings. Lexicons are
// ordered slices rather than maps: declaration order is the arg-max
// tie-break, so it must stay stable.
type lexiconEntry struct {
	Category string
	Triggers []string
}

// Engineer lens default and fallback constants.
const (
	EngineerDefaultCategory = "maintenance"
	engineerBaseConfidence  = 0.6
	engineerSpread          = 0.4
	// EngineerNoMatchConfidence is the fixed confidence when no category scores.
	EngineerNoMatchConfidence = 0.5
)

// Ceremony lens default and fallback constants.
const (
	CeremonyDefaultCategory = "individual_offering"
	ceremonyBaseConfidence  = 0.5
	ceremonySpread          = 0.4
	// CeremonyNoMatchConfidence is the fixed confidence when no category scores.
	CeremonyNoMatchConfidence = 0.6
)

// Story-Engine lens default and fallback constants.
const (
	StoryDefaultCategory = "rising_action"
	storyBaseConfidence  = 0.55
	storySpread          = 0.4
	// StoryNoMatchConfidence is the fixed confidence when no category scores.
	StoryNoMatchConfidence = 0.5
)

// maxConfidence caps every keyword-derived confidence.
const maxConfidence = 0.95

// coCreationContributorBonus is added to co_creation's raw score when more
// than one contributor is present, before the arg-max step. It can promote
// a category that had zero keyword hits.
const coCreationContributorBonus = 0.5

var engineerLexicon = []lexiconEntry{
	{"feature_implementation", []string{"feat", "implement", "add support", "new feature", "introduce", "build out", "enable"}},
	{"bug_fix", []string{"fix", "bug", "patch", "resolve", "regression", "broken", "crash"}},
	{"refactoring", []string{"refactor", "clean up", "cleanup", "restructure", "simplify", "extract", "rename"}},
	{"security", []string{"security", "vulnerability", "cve", "exploit", "sanitize", "injection", "credentials"}},
	{"performance", []string{"performance", "optimize", "latency", "speed up", "throughput", "cache", "slow"}},
	{"testing", []string{"test", "coverage", "assert", "fixture", "flaky", "unit test", "integration test"}},
	{"documentation", []string{"docs", "readme", "documentation", "changelog", "docstring", "guide"}},
	{"maintenance", []string{"chore", "bump", "upgrade", "dependency", "housekeeping", "lint"}},
}

var ceremonyLexicon = []lexiconEntry{
	{"co_creation", []string{"together", "pair", "collaborate", "co-author", "with team", "joint", "we built"}},
	{"ritual_completion", []string{"release", "ship", "milestone", "finish", "complete", "close out", "wrap"}},
	{"knowledge_sharing", []string{"share", "explain", "teach", "walkthrough", "onboard", "show how", "write up"}},
	{"celebration", []string{"celebrate", "congrats", "finally", "hooray", "thank", "shoutout", "landed"}},
	{"conflict_resolution", []string{"disagree", "conflict", "consensus", "compromise", "mediate", "settle the debate"}},
	{"individual_offering", []string{"solo", "my take", "i added", "personal", "offering", "on my own"}},
}

var storyLexicon = []lexiconEntry{
	{"setup", []string{"initial", "scaffold", "begin", "groundwork", "bootstrap", "first pass", "starting"}},
	{"inciting_incident", []string{"discovered", "incident", "broke", "outage", "unexpected", "triggered", "surfaced"}},
	{"rising_action", []string{"progress", "continue", "iterate", "building on", "next step", "advance"}},
	{"turning_point", []string{"pivot", "turning point", "breakthrough", "changed direction", "rethink", "decisive"}},
	{"crisis", []string{"critical", "crisis", "emergency", "blocker", "severe", "failing"}},
	{"climax", []string{"climax", "final push", "culminate", "peak", "launch day", "showdown"}},
	{"revelation", []string{"realize", "revelation", "insight", "uncovered", "turns out", "root cause"}},
	{"resolution", []string{"resolution", "settled", "wrap up", "stable", "aftermath", "postmortem"}},
}

// baseTension is the per-category starting point for dramatic tension.
var baseTension = map[string]float64{
	"setup":             0.3,
	"inciting_incident": 0.6,
	"rising_action":     0.5,
	"turning_point":     0.7,
	"crisis":            0.9,
	"climax":            1.0,
	"revelation":        0.6,
	"resolution":        0.2,
}

var urgencyWords = []string{"urgent", "critical", "asap", "immediately", "emergency", "deadline", "right now"}

var minimizingWords = []string{"minor", "trivial", "tiny", "just a", "cosmetic", "nitpick", "small tweak"}

var celebrationWords = []string{"celebrate", "congrats", "hooray", "thank", "shoutout", "finally"}

var witnessWords = []string{"witness", "milestone", "mark the occasion"}

// genericActions is returned for any category without a dedicated entry in
// its lens's action table.
var genericActions = []string{"review the change", "note it in the session log"}

var engineerActions = map[string][]string{
	"feature_implementation": {"add tests for the new path", "update the changelog", "flag follow-up work"},
	"bug_fix":                {"add a regression test", "check for sibling bugs", "note the root cause"},
	"refactoring":            {"verify behavior is unchanged", "update affected docs"},
	"security":               {"request a second review", "audit adjacent code paths", "rotate affected credentials"},
	"performance":            {"capture before/after measurements", "watch for regressions"},
	"testing":                {"run the full suite", "check coverage deltas"},
	"documentation":          {"cross-link related guides", "verify examples still run"},
	"maintenance":            {"confirm dependency compatibility", "schedule the next sweep"},
}

var ceremonyActions = map[string][]string{
	"co_creation":         {"credit every contributor", "capture the shared decision"},
	"ritual_completion":   {"announce the completion", "archive the episode"},
	"knowledge_sharing":   {"link the write-up", "invite questions"},
	"celebration":         {"amplify the moment", "thank the contributors by name"},
	"conflict_resolution": {"record the agreed resolution", "check in after a cooling period"},
	"individual_offering": {"acknowledge the offering", "connect it to the larger arc"},
}

var storyActions = map[string][]string{
	"setup":             {"establish the stakes", "introduce the principals"},
	"inciting_incident": {"name what changed", "decide who responds"},
	"rising_action":     {"raise the stakes", "deepen a character thread"},
	"turning_point":     {"commit to the new direction", "mark the beat prominently"},
	"crisis":            {"focus on the immediate threat", "defer side plots"},
	"climax":            {"resolve the central tension", "prepare the falling action"},
	"revelation":        {"connect the insight to earlier beats", "re-tag affected themes"},
	"resolution":        {"close open threads", "consider starting a new episode"},
}

// suggestedBeatAfter maps a story category to the beat that usually follows.
var suggestedBeatAfter = map[string]string{
	"setup":             "inciting_incident",
	"inciting_incident": "rising_action",
	"rising_action":     "turning_point",
	"turning_point":     "crisis",
	"crisis":            "climax",
	"climax":            "resolution",
	"revelation":        "resolution",
	"resolution":        "setup",
}

// themeResonanceWords maps default theme names to their resonance triggers.
var themeResonanceWords = []struct {
	Theme    string
	Triggers []string
}{
	{"craftsmanship", []string{"quality", "precision", "mastery", "polish", "robust"}},
	{"communion", []string{"together", "community", "share", "team", "we "}},
	{"becoming", []string{"grow", "change", "journey", "transform", "evolve"}},
}

// scoredCategory pairs one lexicon category with its match ratio.
type scoredCategory struct {
	category string
	score    float64
}

// scoreCategories computes, for every category in lexicon order,
// (# distinct triggers found) / (# triggers defined). All categories are
// returned, including zero scores, so bonuses can be applied before the
// arg-max step.
func scoreCategories(lower string, lexicon []lexiconEntry) []scoredCategory {
	scores := make([]scoredCategory, 0, len(lexicon))
	for _, entry := range lexicon {
		hits := 0
		for _, trigger := range entry.Triggers {
			if strings.Contains(lower, trigger) {
				hits++
			}
		}
		scores = append(scores, scoredCategory{
			category: entry.Category,
			score:    float64(hits) / float64(len(entry.Triggers)),
		})
	}
	return scores
}

// pickWinner returns the first category with the maximal positive score, or
// ok=false when nothing scored above zero. First-in-lexicon-order wins ties.
func pickWinner(scores []scoredCategory) (string, float64, bool) {
	winner := ""
	best := 0.0
	for _, sc := range scores {
		if sc.score > best {
			winner = sc.category
			best = sc.score
		}
	}
	if winner == "" {
		return "", 0, false
	}
	return winner, best, true
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func keywordConfidence(base, spread, score float64) float64 {
	c := base + score*spread
	if c > maxConfidence {
		c = maxConfidence
	}
	return c
}

func actionsFor(table map[string][]string, category string) []string {
	if actions, ok := table[category]; ok {
		return actions
	}
	return genericActions
}
