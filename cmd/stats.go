package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/satcoach/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"dashboard"},
	Short:   "Show the learner dashboard: estimate, plan, reviews and next steps",
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

		d, err := svc.Dashboard(cmd.Context(), id)
		if err != nil {
			return err
		}

		printf(cmd, "%s %s\n\n", theme.Title.Render(d.Learner.Name), theme.Label.Render(d.Learner.ID))
		printf(cmd, "%s\n", theme.Field("Estimated score", fmt.Sprintf("%d (math %d)", d.Estimate.EstimatedTotal, d.Estimate.MathScore)))
		printf(cmd, "%s\n", theme.Field("Due reviews", fmt.Sprint(len(d.DueReviews))))
		printReadiness(cmd, d.Readiness)

		if d.Plan != nil {
			printf(cmd, "\n")
			printPlan(cmd, d.Plan)
		}

		printf(cmd, "\n%s\n", theme.Heading.Render("Up next"))
		limit := min(len(d.Recommendations), 5)
		printRecommendations(cmd, d.Recommendations[:limit])
		return nil
	},
}
