package coherence

import (
	"fmt"
	"strings"

	"github.com/mirelys/trilens/internal/narrative"
)

// smallGapLimit is the most missing sequence numbers still worth flagging.
// Larger holes are deliberate leniency, not a defect report.
const smallGapLimit = 3

// scoreContinuity verifies the beat sequence numbers: list order matches
// sequence order, no duplicates, and no small holes in [1, maxSequence].
func scoreContinuity(beats []narrative.Beat) ComponentScore {
	if len(beats) < 2 {
		return component(70,
			[]string{"not enough beats to assess continuity"},
			nil)
	}

	var issues, suggestions []string
	score := 90.0

	ordered := true
	for i := 1; i < len(beats); i++ {
		if beats[i].Sequence < beats[i-1].Sequence {
			ordered = false
			break
		}
	}
	if !ordered {
		score -= 20
		issues = append(issues, "beat sequences are not in order")
		suggestions = append(suggestions, "append beats in sequence order or renumber the ledger")
	}

	seen := make(map[int]bool)
	var duplicates []int
	maxSeq := 0
	for _, b := range beats {
		if seen[b.Sequence] {
			duplicates = append(duplicates, b.Sequence)
		}
		seen[b.Sequence] = true
		if b.Sequence > maxSeq {
			maxSeq = b.Sequence
		}
	}
	if len(duplicates) > 0 {
		score -= 15
		issues = append(issues, fmt.Sprintf("duplicate sequence numbers: %s", joinInts(duplicates)))
		suggestions = append(suggestions, "assign each beat a unique sequence number")
	}

	var missing []int
	for seq := 1; seq <= maxSeq; seq++ {
		if !seen[seq] {
			missing = append(missing, seq)
		}
	}
	if len(missing) >= 1 && len(missing) <= smallGapLimit {
		score -= 5
		issues = append(issues, fmt.Sprintf("missing sequence numbers: %s", joinInts(missing)))
		suggestions = append(suggestions, "renumber beats to close the small sequence gap")
	}

	return component(score, issues, suggestions)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}
