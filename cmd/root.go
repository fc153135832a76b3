package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/satcoach/internal/config"
	"github.com/abhisek/satcoach/internal/logging"
	"github.com/abhisek/satcoach/internal/store"
)

var (
	v      = config.NewViper()
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "satcoach",
	Short: "Personal SAT math coach",
	Long: "satcoach tracks SAT math practice, schedules reviews of missed questions\n" +
		"and tells you what to study next.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("config")
		c, err := config.Load(v, file)
		if err != nil {
			return err
		}
		l, err := logging.New(os.Stderr, c.Log.Level, c.Log.Format)
		if err != nil {
			return err
		}
		cfg, logger = c, l
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (yaml, toml or json)")
	pf.String("db", "", "Path to SQLite database file (overrides SATCOACH_DB env var)")
	pf.String("store", config.BackendSQLite, "Storage backend: sqlite or mongo")
	pf.String("mongo-uri", "", "MongoDB connection URI")
	pf.String("catalog", "", "Course catalog JSON (defaults to the built-in catalog)")
	pf.StringP("learner", "l", "", "Learner id (overrides SATCOACH_LEARNER env var)")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")

	bindFlag(v, pf.Lookup("db"), config.KeyDBPath)
	bindFlag(v, pf.Lookup("store"), config.KeyBackend)
	bindFlag(v, pf.Lookup("mongo-uri"), config.KeyMongoURI)
	bindFlag(v, pf.Lookup("catalog"), config.KeyCatalog)
	bindFlag(v, pf.Lookup("learner"), config.KeyLearner)
	bindFlag(v, pf.Lookup("log-level"), config.KeyLogLevel)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(learnerCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(lessonCmd)
	rootCmd.AddCommand(goalCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(readinessCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(serveCmd)
}

func bindFlag(v *viper.Viper, f *pflag.Flag, key string) {
	if err := v.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", key, err))
	}
}

// resolveDBPath returns the database path using --db / SATCOACH_DB / config
// file first, then the default XDG path.
func resolveDBPath() (string, error) {
	if p := cfg.DBPath; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// learnerID returns the selected learner or an error telling the user how
// to pick one.
func learnerID() (string, error) {
	if cfg.Learner == "" {
		return "", errors.New("no learner selected: pass --learner or set SATCOACH_LEARNER (see `satcoach learner list`)")
	}
	return cfg.Learner, nil
}

// printf writes styled output, downsampling colors to what the terminal
// supports.
func printf(cmd *cobra.Command, format string, args ...any) {
	lipgloss.Fprintf(cmd.OutOrStdout(), format, args...)
}
