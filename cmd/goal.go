package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/satcoach/internal/ui/theme"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Set the test date and target score",
	Long: "Set the test date and target score. Omitted values are cleared, so\n" +
		"`satcoach goal` with no flags removes the goal.",
	Example: `  satcoach goal --date 2026-12-05 --target 1400`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var testDate *time.Time
		if s, _ := cmd.Flags().GetString("date"); s != "" {
			d, err := parseDate(s)
			if err != nil {
				return fmt.Errorf("date must be YYYY-MM-DD: %q", s)
			}
			testDate = &d
		}
		var target *int
		if cmd.Flags().Changed("target") {
			t, _ := cmd.Flags().GetInt("target")
			target = &t
		}

		id, err := learnerID()
		if err != nil {
			return err
		}
		svc, closeFn, err := openCoach(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		if err := svc.SetGoal(cmd.Context(), id, testDate, target); err != nil {
			return err
		}
		printf(cmd, "%s test date %s, target %s\n", theme.Good.Render("Goal set:"), formatDate(testDate), formatInt(target))
		return nil
	},
}

func init() {
	goalCmd.Flags().String("date", "", "Test date (YYYY-MM-DD)")
	goalCmd.Flags().Int("target", 0, "Target total score")
}
