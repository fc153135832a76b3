package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/satcoach/internal/ui/theme"
)

var learnerCmd = &cobra.Command{
	Use:   "learner",
	Short: "Manage learner profiles",
}

var learnerAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a learner",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeFn, err := openCoach(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		l, err := svc.CreateLearner(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		printf(cmd, "%s %s\n", theme.Good.Render("Created"), l.Name)
		printf(cmd, "%s\n", theme.Field("id", l.ID))
		printf(cmd, "%s\n", theme.Hint.Render(fmt.Sprintf("export SATCOACH_LEARNER=%s", l.ID)))
		return nil
	},
}

var learnerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List learners",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeFn, err := openCoach(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		learners, err := svc.Learners(cmd.Context())
		if err != nil {
			return err
		}
		if len(learners) == 0 {
			printf(cmd, "%s\n", theme.Hint.Render("No learners yet. Create one with `satcoach learner add <name>`."))
			return nil
		}

		rows := make([][]string, 0, len(learners))
		for _, l := range learners {
			rows = append(rows, []string{l.ID, l.Name, formatDate(l.TestDate), formatInt(l.TargetScore)})
		}
		printf(cmd, "%s\n", theme.Table([]string{"ID", "Name", "Test date", "Target"}, rows))
		return nil
	},
}

func init() {
	learnerCmd.AddCommand(learnerAddCmd)
	learnerCmd.AddCommand(learnerListCmd)
}
