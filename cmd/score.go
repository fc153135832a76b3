package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/satcoach/internal/coach"
	"github.com/abhisek/satcoach/internal/personalize"
	"github.com/abhisek/satcoach/internal/ui/theme"
)

var scoreCmd = &cobra.Command{
	Use:   "score <difficulty:result>...",
	Short: "Grade a session with difficulty weighting and pick the next difficulty",
	Long: "Each argument is difficulty:result where difficulty is easy, medium or hard\n" +
		"and result is y (correct) or n (wrong), in the order answered.",
	Example: `  satcoach score easy:y medium:y hard:n`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		answers, err := parseAnswers(args)
		if err != nil {
			return err
		}
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		// Grading needs no storage.
		res, err := coach.New(nil, cat, coach.WithLogger(logger)).ScoreSession(answers)
		if err != nil {
			return err
		}

		printf(cmd, "%s\n", theme.Field("Score", fmt.Sprintf("%g / %g (%d%%)", res.Score, res.MaxScore, res.Percentage)))
		rows := [][]string{}
		for _, d := range personalize.AllDifficulties() {
			t := res.Breakdown[d]
			if t == nil || t.Total == 0 {
				continue
			}
			rows = append(rows, []string{string(d), fmt.Sprintf("%d/%d", t.Correct, t.Total), fmt.Sprintf("×%g", personalize.ScoreMultiplier(d))})
		}
		printf(cmd, "%s\n", theme.Table([]string{"Difficulty", "Correct", "Weight"}, rows))
		printf(cmd, "%s\n", theme.Field("Next question", string(res.NextDifficulty)))
		return nil
	},
}

func parseAnswers(args []string) ([]personalize.Answer, error) {
	answers := make([]personalize.Answer, 0, len(args))
	for _, arg := range args {
		diff, result, ok := strings.Cut(arg, ":")
		if !ok {
			return nil, fmt.Errorf("expected difficulty:result, got %q", arg)
		}
		var correct bool
		switch strings.ToLower(result) {
		case "y", "yes", "1", "true":
			correct = true
		case "n", "no", "0", "false":
		default:
			return nil, fmt.Errorf("result must be y or n, got %q", result)
		}
		answers = append(answers, personalize.Answer{Correct: correct, Difficulty: personalize.Difficulty(strings.ToLower(diff))})
	}
	return answers, nil
}
