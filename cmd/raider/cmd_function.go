package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/digeex/raider/internal/errx"
	"github.com/digeex/raider/pkg/authentication"
)

var functionCmd = &cobra.Command{
	Use:   "function <name>",
	Short: "Run a standalone flow by name",
	Long: `Run one of the project's non-authentication flows. Functions
usually assume an authenticated session; use --load to restore a
session saved by 'authenticate --save'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := loadProject()
		if err != nil {
			return err
		}
		runner, err := project.Runner(authentication.WithLogger(slog.Default()))
		if err != nil {
			return err
		}
		sess, cleanup, err := newSession(project)
		if err != nil {
			return err
		}
		defer cleanup()

		if slot := viper.GetString("function.load"); slot != "" {
			slots, err := openSlots()
			if err != nil {
				return err
			}
			defer slots.Close()
			data, err := slots.Load(slot)
			if err != nil {
				return err
			}
			if err := sess.Restore(data); err != nil {
				return err
			}
		}

		result, err := runner.RunFunction(cmd.Context(), sess, args[0])
		if err != nil {
			return err
		}
		if result.Outcome != authentication.OutcomeOK {
			return errx.With(ErrFunction, ": %s", result.Message)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "function %q ok: %d steps\n", args[0], result.Stats.Steps)
		return nil
	},
}

func init() {
	functionCmd.Flags().String("load", "", "Restore the session from this slot before running")
	viper.BindPFlag("function.load", functionCmd.Flags().Lookup("load"))

	rootCmd.AddCommand(functionCmd)
}
