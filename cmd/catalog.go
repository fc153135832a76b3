package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/satcoach/internal/ui/theme"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show course modules, their sections and lessons",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		module, _ := cmd.Flags().GetString("module")

		printf(cmd, "%s %s\n\n", theme.Title.Render("Catalog"), theme.Label.Render(cat.Version()))
		if module == "" {
			rows := make([][]string, 0, len(cat.Modules()))
			for _, m := range cat.Modules() {
				rows = append(rows, []string{m.ID, m.Title, fmt.Sprintf("%g", m.Weight),
					fmt.Sprint(len(m.Sections)), fmt.Sprint(len(m.Lessons))})
			}
			printf(cmd, "%s\n", theme.Table([]string{"ID", "Title", "Weight", "Sections", "Lessons"}, rows))
			return nil
		}

		m, ok := cat.Module(module)
		if !ok {
			return fmt.Errorf("no module %q in catalog", module)
		}
		printf(cmd, "%s\n", theme.Heading.Render(m.Title))
		printf(cmd, "%s\n", theme.Field("Sections", strings.Join(m.Sections, ", ")))
		printf(cmd, "%s\n", theme.Label.Render("Lessons:"))
		for i, l := range m.Lessons {
			printf(cmd, "  %d. %s %s\n", i+1, l.Title, theme.Hint.Render("("+l.ID+")"))
		}
		return nil
	},
}

func init() {
	catalogCmd.Flags().String("module", "", "Show one module in detail")
}
