package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mirelys/trilens/internal/coherence"
	"github.com/mirelys/trilens/internal/session"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score the story's beats against the five coherence rubrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		storyID, _ := cmd.Flags().GetString("story")
		sessionID, _ := cmd.Flags().GetString("session")

		ctx := context.Background()
		st := connectStore(ctx)
		defer st.Close()

		mgr := session.NewManager(st, nil, logger)
		result, err := mgr.Analyze(ctx, storyID, sessionID)
		if err != nil {
			return err
		}

		fmt.Printf("Overall coherence: %.1f\n\n", result.Score)
		printComponent("Flow", result.Flow)
		printComponent("Character", result.Character)
		printComponent("Pacing", result.Pacing)
		printComponent("Theme", result.Theme)
		printComponent("Continuity", result.Continuity)

		if len(result.Gaps) > 0 {
			fmt.Println("\nGaps:")
			for _, g := range result.Gaps {
				fmt.Printf("  [%-8s] %-10s -> %-11s %s\n", g.Severity, g.Type, g.SuggestedRoute, g.Description)
			}
		}

		fmt.Println("\nTrinity:")
		fmt.Printf("  Mia:    %s\n", result.Trinity.Structural)
		fmt.Printf("  Miette: %s\n", result.Trinity.Emotional)
		fmt.Printf("  Ava8:   %s\n", result.Trinity.Atmospheric)
		fmt.Println("\nPriorities:")
		for _, p := range result.Trinity.Priorities {
			fmt.Printf("  - %s\n", p)
		}
		return nil
	},
}

func printComponent(name string, score coherence.ComponentScore) {
	fmt.Printf("  %-11s %5.1f [%s]\n", name+":", score.Score, score.Status)
	for _, issue := range score.Issues {
		fmt.Printf("    ! %s\n", issue)
	}
}

func init() {
	analyzeCmd.Flags().String("story", "default", "story id")
	analyzeCmd.Flags().String("session", "default", "session id")
}
