// raider drives authentication flows against a target application:
// it loads a project definition, runs the configured stages, and keeps
// the resulting session around for standalone function calls.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:           "raider",
	Short:         "Web authentication testing toolkit",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("project", "p", "raider.yaml", "Project definition file")
	rootCmd.PersistentFlags().String("proxy", "", "Upstream proxy URL (e.g. http://127.0.0.1:8080)")
	rootCmd.PersistentFlags().Bool("verify", false, "Verify TLS certificates")
	rootCmd.PersistentFlags().String("user", "", "Active user (username); defaults to the first configured user")
	rootCmd.PersistentFlags().String("user-agent", "", "Override the User-Agent header")
	rootCmd.PersistentFlags().String("events", "", "Append structured run events to this JSON-L file")
	rootCmd.PersistentFlags().String("session-db", "sessions.db", "Session snapshot database")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	viper.BindPFlag("project", rootCmd.PersistentFlags().Lookup("project"))
	viper.BindPFlag("proxy", rootCmd.PersistentFlags().Lookup("proxy"))
	viper.BindPFlag("verify", rootCmd.PersistentFlags().Lookup("verify"))
	viper.BindPFlag("user", rootCmd.PersistentFlags().Lookup("user"))
	viper.BindPFlag("user-agent", rootCmd.PersistentFlags().Lookup("user-agent"))
	viper.BindPFlag("events", rootCmd.PersistentFlags().Lookup("events"))
	viper.BindPFlag("session-db", rootCmd.PersistentFlags().Lookup("session-db"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.SetEnvPrefix("RAIDER")
	viper.AutomaticEnv()
}

func setupLogging() {
	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("log-level"))); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
