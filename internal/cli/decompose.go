package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mirelys/trilens/internal/decompose"
)

var decomposeCmd = &cobra.Command{
	Use:   "decompose [prompt]",
	Short: "Break a prompt into classified work segments",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := strings.Join(args, " ")

		segments := decompose.Decompose(prompt)
		if len(segments) == 0 {
			fmt.Println("Nothing to decompose.")
			return nil
		}

		for i, seg := range segments {
			fmt.Printf("%d. [%s %.2f] %s\n", i+1, seg.Intent.Direction, seg.Intent.Confidence, seg.Text)
			fmt.Printf("   approach: %s\n", strings.Join(seg.Intent.Approaches, "; "))
		}

		if len(segments) > 1 {
			fmt.Println("\nOverall ranking:")
			for i, intent := range decompose.Rank(prompt) {
				marker := " "
				if i == 0 {
					marker = "*"
				}
				fmt.Printf("%s %-8s %.2f\n", marker, intent.Direction, intent.Confidence)
			}
		}
		return nil
	},
}
