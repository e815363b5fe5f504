package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mirelys/trilens/internal/lens"
	"github.com/mirelys/trilens/internal/session"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a text event through all three lenses and append the beat",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		if text == "" {
			return fmt.Errorf("--text is required")
		}
		storyID, _ := cmd.Flags().GetString("story")
		sessionID, _ := cmd.Flags().GetString("session")
		authors, _ := cmd.Flags().GetStringSlice("author")

		ev := lens.Event{
			Kind: lens.EventCommitPush,
			ID:   uuid.NewString(),
			CommitPush: &lens.CommitPushEvent{
				Commits: commitsFor(text, authors),
			},
		}

		ctx := context.Background()
		st := connectStore(ctx)
		defer st.Close()

		mgr := session.NewManager(st, fallbackClassifier(), logger)
		synth, beat, err := mgr.ProcessEvent(ctx, storyID, sessionID, ev)
		if err != nil {
			return err
		}

		fmt.Printf("Lead lens: %s (coherence %.2f)\n\n", synth.LeadLens, synth.Coherence)
		printPerspective(synth.Engineer)
		printPerspective(synth.Ceremony)
		printPerspective(synth.StoryEngine)
		fmt.Printf("Beat %d appended: %s / act %d / tone %s\n",
			beat.Sequence, beat.NarrativeFunction, beat.Act, beat.EmotionalTone)
		return nil
	},
}

func commitsFor(text string, authors []string) []lens.Commit {
	if len(authors) == 0 {
		return []lens.Commit{{Message: text}}
	}
	commits := make([]lens.Commit, len(authors))
	for i, a := range authors {
		commits[i] = lens.Commit{Message: text, Author: a}
	}
	return commits
}

func printPerspective(p lens.Perspective) {
	fmt.Printf("  %-12s %s (%.2f)\n", p.Lens+":", p.Category, p.Confidence)
	if len(p.SuggestedActions) > 0 {
		fmt.Printf("    next: %s\n", strings.Join(p.SuggestedActions, "; "))
	}
}

func init() {
	classifyCmd.Flags().String("text", "", "event text to classify")
	classifyCmd.Flags().String("story", "default", "story id")
	classifyCmd.Flags().String("session", "default", "session id")
	classifyCmd.Flags().StringSlice("author", nil, "contributor identity (repeatable)")
}
