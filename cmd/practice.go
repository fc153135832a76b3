package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/satcoach/internal/coach"
	"github.com/abhisek/satcoach/internal/personalize"
	"github.com/abhisek/satcoach/internal/ui/theme"
)

var practiceCmd = &cobra.Command{
	Use:     "practice <module> <section> <score>",
	Short:   "Record a finished practice session (score out of 5)",
	Example: `  satcoach practice quadratics Factoring 4`,
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("score must be a number: %q", args[2])
		}
		questions, _ := cmd.Flags().GetInt("questions")

		id, err := learnerID()
		if err != nil {
			return err
		}
		svc, closeFn, err := openCoach(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		section := personalize.SectionKey{ModuleID: args[0], SectionName: args[1]}
		rec, err := svc.RecordPractice(cmd.Context(), id, coach.PracticeInput{
			Section:        section,
			Score:          score,
			TotalQuestions: questions,
		})
		if err != nil {
			return err
		}

		best := rec.BestScore
		printf(cmd, "%s %s: best %d/%d after %d %s\n",
			theme.Good.Render("Saved"), section.SectionName, best, personalize.MaxBestScore,
			rec.TotalAttempts, plural(rec.TotalAttempts, "attempt", "attempts"))
		printf(cmd, "%s\n", theme.Field("Next difficulty", string(personalize.OptimalDifficulty(&best))))
		return nil
	},
}

func init() {
	practiceCmd.Flags().Int("questions", 0, "Questions in the session (default 5)")
}
