package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/satcoach/internal/personalize"
	"github.com/abhisek/satcoach/internal/ui/theme"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the study plan toward your goal",
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

		plan, ok, err := svc.Plan(cmd.Context(), id)
		if err != nil {
			return err
		}
		if !ok {
			printf(cmd, "%s\n", theme.Hint.Render("No goal set. Try `satcoach goal --date YYYY-MM-DD --target 1400`."))
			return nil
		}
		printPlan(cmd, plan)
		return nil
	},
}

func printPlan(cmd *cobra.Command, plan *personalize.StudyPlan) {
	printf(cmd, "%s\n", theme.Title.Render("Study plan"))
	if plan.DaysLeft != nil {
		printf(cmd, "%s\n", theme.Field("Days left", fmt.Sprintf("%d (%d weeks)", *plan.DaysLeft, *plan.WeeksLeft)))
	}
	printf(cmd, "%s\n", theme.Field("Estimate", fmt.Sprintf("%d (math %d)", plan.CurrentEstimate.EstimatedTotal, plan.CurrentEstimate.MathScore)))
	printf(cmd, "%s\n", theme.Field("Target", fmt.Sprintf("%d, %d to go", plan.TargetScore, plan.ScoreGap)))
	printf(cmd, "%s\n", theme.Field("Daily", fmt.Sprintf("%d min (%s)", plan.DailyMinutes, plan.Intensity)))

	track := theme.Warn.Render("behind")
	if plan.OnTrack {
		track = theme.Good.Render("on track")
	}
	printf(cmd, "%s\n", theme.Field("Status", track))
	printf(cmd, "\n%s\n", plan.Message)

	if len(plan.WeeklyFocus) > 0 {
		printf(cmd, "\n%s\n", theme.Heading.Render("This week"))
		for _, f := range plan.WeeklyFocus {
			printf(cmd, "  • %s %s\n", f.Title, theme.Label.Render("("+f.Detail+")"))
		}
	}
}
