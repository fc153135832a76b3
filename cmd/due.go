package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/satcoach/internal/ui/theme"
)

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List questions due for review",
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

		due, err := svc.DueReviews(cmd.Context(), id)
		if err != nil {
			return err
		}
		if len(due) == 0 {
			printf(cmd, "%s\n", theme.Good.Render("Nothing due. Nice work."))
			return nil
		}

		now := time.Now()
		rows := make([][]string, 0, len(due))
		for _, it := range due {
			rows = append(rows, []string{
				it.Key.ModuleID,
				it.Key.SectionName,
				it.Key.QuestionID,
				fmt.Sprint(it.WrongCount),
				fmt.Sprintf("%.1f", it.OverdueDays(now)),
			})
		}
		printf(cmd, "%s\n", theme.Title.Render(fmt.Sprintf("%d due for review", len(due))))
		printf(cmd, "%s\n", theme.Table([]string{"Module", "Section", "Question", "Missed", "Overdue (days)"}, rows))
		return nil
	},
}
