package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/satcoach/internal/personalize"
	"github.com/abhisek/satcoach/internal/ui/theme"
)

var lessonCmd = &cobra.Command{
	Use:     "lesson <module> <lesson-id>",
	Short:   "Mark a lesson as completed",
	Example: `  satcoach lesson quadratics factoring-basics`,
	Args:    cobra.ExactArgs(2),
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

		key := personalize.LessonKey{ModuleID: args[0], LessonID: args[1]}
		if err := svc.CompleteLesson(cmd.Context(), id, key); err != nil {
			return err
		}
		printf(cmd, "%s %s\n", theme.Good.Render("Completed"), key)
		return nil
	},
}
