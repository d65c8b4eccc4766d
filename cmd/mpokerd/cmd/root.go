package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "MPOKER"

// NewRootCmd builds the mpokerd command tree. Flags can also be set through
// MPOKER_* environment variables or a config.yaml in the home directory.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mpokerd",
		Short:         "Mental poker engine and table inspection tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmd)
		},
	}

	home, _ := os.UserHomeDir()
	rootCmd.PersistentFlags().String("home", filepath.Join(home, ".mpokerd"), "directory for the file-backed store and config")
	rootCmd.PersistentFlags().String("log-level", "info", "logging level (debug|info|warn|error)")

	rootCmd.AddCommand(
		newDemoCmd(),
		newInspectCmd(),
	)
	return rootCmd
}

func initConfig(cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	homeDir := v.GetString("home")
	v.SetConfigName("config")
	v.AddConfigPath(homeDir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	// Flags not set explicitly pick up config file and env values.
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed && v.IsSet(f.Name) {
			_ = cmd.Flags().Set(f.Name, v.GetString(f.Name))
		}
	})
	return nil
}

func newLogger(cmd *cobra.Command) (log.Logger, error) {
	levelStr, _ := cmd.Flags().GetString("log-level")
	level, err := log.ParseLogLevel(levelStr)
	if err != nil {
		return nil, err
	}
	return log.NewLogger(cmd.OutOrStderr(), log.FilterOption(level)), nil
}
