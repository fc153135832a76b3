package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/satcoach/internal/personalize"
	"github.com/abhisek/satcoach/internal/ui/theme"
)

var recommendCmd = &cobra.Command{
	Use:     "recommend",
	Aliases: []string{"next"},
	Short:   "Show what to study next",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := learnerID()
		if err != nil {
			return err
		}
		svc, closeFn, err := openCoach(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		recs, err := svc.Recommendations(cmd.Context(), id)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		if limit > 0 && len(recs) > limit {
			recs = recs[:limit]
		}
		printf(cmd, "%s\n\n", theme.Title.Render("Up next"))
		printRecommendations(cmd, recs)
		return nil
	},
}

func init() {
	recommendCmd.Flags().Int("limit", 0, "Show at most this many entries")
}

func printRecommendations(cmd *cobra.Command, recs []personalize.Recommendation) {
	for i, r := range recs {
		title := r.Title
		if r.Subtitle != "" {
			title += theme.Label.Render(" · " + r.Subtitle)
		}
		printf(cmd, "%2d. %s [%s]\n", i+1, title, theme.Urgency(string(r.Urgency)))
		printf(cmd, "    %s\n", theme.Hint.Render(r.Reason))
	}
}
