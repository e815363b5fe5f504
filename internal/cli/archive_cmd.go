package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mirelys/trilens/internal/archive"
	"github.com/mirelys/trilens/internal/session"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Durable ledger archive (PostgreSQL)",
}

var archiveInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the archive schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		pool, err := connectDB(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := archive.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			return err
		}
		fmt.Println("Archive schema ready.")
		return nil
	},
}

var archiveSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Archive the session's ledger with its current analysis score",
	RunE: func(cmd *cobra.Command, args []string) error {
		storyID, _ := cmd.Flags().GetString("story")
		sessionID, _ := cmd.Flags().GetString("session")

		ctx := context.Background()
		st := connectStore(ctx)
		defer st.Close()

		pool, err := connectDB(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		mgr := session.NewManager(st, nil, logger)
		ledger, err := mgr.LoadLedger(ctx, storyID, sessionID)
		if err != nil {
			return err
		}
		result, err := mgr.Analyze(ctx, storyID, sessionID)
		if err != nil {
			return err
		}

		id, err := archive.New(pool).SaveSnapshot(ctx, ledger, result.Score)
		if err != nil {
			return err
		}
		fmt.Printf("Snapshot %s archived (%d beats, score %.1f)\n", id, len(ledger.Beats), result.Score)
		return nil
	},
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		storyID, _ := cmd.Flags().GetString("story")

		ctx := context.Background()
		pool, err := connectDB(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		snapshots, err := archive.New(pool).List(ctx, storyID)
		if err != nil {
			return err
		}
		if len(snapshots) == 0 {
			fmt.Println("No snapshots archived.")
			return nil
		}
		for _, s := range snapshots {
			fmt.Printf("%s  %-12s %-12s %3d beats  score %.1f  %s\n",
				s.ID, s.StoryID, s.SessionID, s.BeatCount, s.AnalysisScore, s.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	archiveSaveCmd.Flags().String("story", "default", "story id")
	archiveSaveCmd.Flags().String("session", "default", "session id")
	archiveListCmd.Flags().String("story", "", "filter by story id")

	archiveCmd.AddCommand(archiveInitCmd)
	archiveCmd.AddCommand(archiveSaveCmd)
	archiveCmd.AddCommand(archiveListCmd)
}
