package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/satcoach/internal/personalize"
	"github.com/abhisek/satcoach/internal/ui/theme"
)

var readinessCmd = &cobra.Command{
	Use:   "readiness",
	Short: "Judge readiness from recent practice sessions",
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

		r, err := svc.Readiness(cmd.Context(), id)
		if err != nil {
			return err
		}
		printReadiness(cmd, r)
		return nil
	},
}

func printReadiness(cmd *cobra.Command, r personalize.Readiness) {
	if r.Recommendation == personalize.ReadinessNeedMoreData {
		printf(cmd, "%s\n", theme.Field("Readiness", theme.Hint.Render(fmt.Sprintf("need more data (%d sessions so far)", r.Sessions))))
		return
	}
	verdict := theme.Warn.Render(r.Recommendation)
	if r.Ready {
		verdict = theme.Good.Render(r.Recommendation)
	}
	printf(cmd, "%s\n", theme.Field("Readiness", fmt.Sprintf("%s, %.0f%% over the last %d sessions", verdict, r.AverageScore, r.Sessions)))
}
