package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mirelys/trilens/internal/narrative"
	"github.com/mirelys/trilens/internal/session"
	"github.com/mirelys/trilens/internal/store"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect the narrative ledger",
}

var ledgerShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the ledger's position, characters, themes, and recent beats",
	RunE: func(cmd *cobra.Command, args []string) error {
		storyID, _ := cmd.Flags().GetString("story")
		sessionID, _ := cmd.Flags().GetString("session")
		recent, _ := cmd.Flags().GetInt("recent")

		ctx := context.Background()
		st := connectStore(ctx)
		defer st.Close()

		mgr := session.NewManager(st, nil, logger)
		ledger, err := mgr.LoadLedger(ctx, storyID, sessionID)
		if err != nil {
			return err
		}

		fmt.Printf("Story %s / session %s\n", ledger.StoryID, ledger.SessionID)
		fmt.Printf("  Act %d, %s phase, %d beats, coherence %.2f\n",
			ledger.Position.Act, ledger.Position.Phase, ledger.Position.BeatCount, ledger.OverallCoherence)
		if ledger.CurrentEpisodeID != "" {
			fmt.Printf("  Episode %s (%d beats)\n", ledger.CurrentEpisodeID, ledger.EpisodeBeatsCount)
		}

		fmt.Println("\nCharacters:")
		for _, id := range sortedCharacterIDs(ledger.Characters) {
			c := ledger.Characters[id]
			fmt.Printf("  %-8s %-10s arc %.2f (%d growth points)\n", c.Name, c.Archetype, c.ArcPosition, len(c.GrowthPoints))
		}

		fmt.Println("\nThemes:")
		for _, id := range sortedThemeIDs(ledger.Themes) {
			t := ledger.Themes[id]
			fmt.Printf("  %-15s strength %.2f\n", t.Name, t.Strength)
		}

		beats := ledger.RecentBeats(recent)
		if len(beats) > 0 {
			fmt.Println("\nRecent beats:")
			for _, b := range beats {
				content := b.Content
				if len(content) > 60 {
					content = content[:57] + "..."
				}
				fmt.Printf("  #%-3d %-18s %s\n", b.Sequence, b.NarrativeFunction, strings.ReplaceAll(content, "\n", " "))
			}
		}
		return nil
	},
}

var ledgerSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a fresh ledger seeded with the default characters and themes",
	RunE: func(cmd *cobra.Command, args []string) error {
		storyID, _ := cmd.Flags().GetString("story")
		sessionID, _ := cmd.Flags().GetString("session")

		ctx := context.Background()
		st := connectStore(ctx)
		defer st.Close()

		if _, err := st.Get(ctx, store.StateKey(sessionID)); err == nil {
			return fmt.Errorf("session %s already has a ledger; choose another session id", sessionID)
		}

		mgr := session.NewManager(st, nil, logger)
		ledger := narrative.NewLedger(storyID, sessionID, true)
		if err := mgr.SaveLedger(ctx, ledger); err != nil {
			return err
		}

		fmt.Printf("Seeded story %s / session %s with %d characters and %d themes.\n",
			storyID, sessionID, len(ledger.Characters), len(ledger.Themes))
		return nil
	},
}

func init() {
	ledgerShowCmd.Flags().String("story", "default", "story id")
	ledgerShowCmd.Flags().String("session", "default", "session id")
	ledgerShowCmd.Flags().Int("recent", 5, "number of recent beats to show")

	ledgerSeedCmd.Flags().String("story", "default", "story id")
	ledgerSeedCmd.Flags().String("session", "default", "session id")

	ledgerCmd.AddCommand(ledgerShowCmd)
	ledgerCmd.AddCommand(ledgerSeedCmd)
}
