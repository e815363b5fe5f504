package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mirelys/trilens/internal/session"
	"github.com/mirelys/trilens/internal/store"
)

var episodeCmd = &cobra.Command{
	Use:   "episode",
	Short: "Episode lifecycle: check the budget, start the next one",
	RunE: func(cmd *cobra.Command, args []string) error {
		storyID, _ := cmd.Flags().GetString("story")
		sessionID, _ := cmd.Flags().GetString("session")
		start, _ := cmd.Flags().GetBool("start")

		ctx := context.Background()
		st := connectStore(ctx)
		defer st.Close()

		mgr := session.NewManager(st, nil, logger)
		ledger, err := mgr.LoadLedger(ctx, storyID, sessionID)
		if err != nil {
			return err
		}

		if !ledger.ShouldStartNewEpisode() && !start {
			fmt.Printf("Current episode has %d beats; no new episode needed yet.\n", ledger.EpisodeBeatsCount)
			return nil
		}

		if !start {
			fmt.Println("Episode budget spent or story resolved. Re-run with --start to begin the next episode.")
			return nil
		}

		episodeID := uuid.NewString()
		closing := struct {
			EpisodeID string `json:"episode_id"`
			StoryID   string `json:"story_id"`
			SessionID string `json:"session_id"`
			BeatCount int    `json:"beat_count"`
		}{episodeID, ledger.StoryID, ledger.SessionID, ledger.EpisodeBeatsCount}

		payload, _ := json.Marshal(closing)
		if err := st.SetWithExpiry(ctx, store.EpisodeKey(episodeID), store.BeatTTL, string(payload)); err != nil {
			return fmt.Errorf("save episode record: %w", err)
		}

		ledger.StartNewEpisode(episodeID)
		if err := mgr.SaveLedger(ctx, ledger); err != nil {
			return err
		}
		fmt.Printf("Started episode %s\n", episodeID)
		return nil
	},
}

func init() {
	episodeCmd.Flags().String("story", "default", "story id")
	episodeCmd.Flags().String("session", "default", "session id")
	episodeCmd.Flags().Bool("start", false, "start a new episode now")
}
