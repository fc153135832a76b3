package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/satcoach/internal/personalize"
	"github.com/abhisek/satcoach/internal/ui/theme"
)

var answerCmd = &cobra.Command{
	Use:   "answer <module> <section> <question-id>",
	Short: "Record an answer and schedule the question's next review",
	Example: `  satcoach answer linear-equations "Systems of Equations" q12 --wrong
  satcoach answer quadratics Factoring q3 --correct`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		correct, _ := cmd.Flags().GetBool("correct")
		wrong, _ := cmd.Flags().GetBool("wrong")
		if correct == wrong {
			return fmt.Errorf("pass exactly one of --correct or --wrong")
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

		key := personalize.QuestionKey{ModuleID: args[0], SectionName: args[1], QuestionID: args[2]}
		res, err := svc.SubmitAnswer(cmd.Context(), id, key, correct)
		if err != nil {
			return err
		}

		switch {
		case res.Mastered:
			printf(cmd, "%s %s is mastered and leaves the review queue.\n", theme.Good.Render("Mastered!"), key.QuestionID)
		case correct:
			printf(cmd, "%s streak %d, %d to mastery. Next review %s.\n",
				theme.Check(true), res.Item.CorrectStreak, res.Item.StreakRemaining(), res.Item.NextReviewDate.Format(dateLayout))
		default:
			printf(cmd, "%s missed %d %s. Review again %s.\n",
				theme.Check(false), res.Item.WrongCount, plural(res.Item.WrongCount, "time", "times"), res.Item.NextReviewDate.Format(dateLayout))
		}
		return nil
	},
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func init() {
	answerCmd.Flags().Bool("correct", false, "The answer was correct")
	answerCmd.Flags().Bool("wrong", false, "The answer was wrong")
}
