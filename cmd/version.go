package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"

	"github.com/abhisek/satcoach/internal/ui/theme"
)

// version is stamped by release builds:
//
//	go build -ldflags "-X github.com/abhisek/satcoach/cmd.version=v1.2.0"
var version = ""

// buildVersion prefers the stamped version, then the module version recorded
// by `go install pkg@version`.
func buildVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && semver.IsValid(info.Main.Version) {
		return info.Main.Version
	}
	return "(devel)"
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the satcoach and course catalog versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		printf(cmd, "%s\n%s\n",
			theme.Field("satcoach", buildVersion()),
			theme.Field("catalog", cat.Version()))
		return nil
	},
}
