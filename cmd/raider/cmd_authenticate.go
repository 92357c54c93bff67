package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/digeex/raider/internal/errx"
	"github.com/digeex/raider/pkg/authentication"
)

var authenticateCmd = &cobra.Command{
	Use:   "authenticate",
	Short: "Run the authentication flow sequence",
	Long: `Run the project's authentication flows in order, following the
verdicts they return, until the run stops, errors, or hits the loop
guard. With --save, the resulting session (cookies and extracted
values) is stored under the named slot for later 'function' calls.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := loadProject()
		if err != nil {
			return err
		}
		runner, err := project.Runner(
			authentication.WithLogger(slog.Default()),
			authentication.WithMaxSteps(viper.GetInt("authenticate.max-steps")),
		)
		if err != nil {
			return err
		}
		sess, cleanup, err := newSession(project)
		if err != nil {
			return err
		}
		defer cleanup()

		var result *authentication.Result
		if from := viper.GetString("authenticate.from"); from != "" {
			result, err = runner.RunFrom(cmd.Context(), sess, from)
		} else {
			result, err = runner.Run(cmd.Context(), sess)
		}
		if err != nil {
			return err
		}
		if result.Outcome != authentication.OutcomeOK {
			return errx.With(ErrAuthentication, ": %s (last flow %q)", result.Message, result.LastFlow)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "authentication ok: %d steps, last flow %q\n",
			result.Stats.Steps, result.LastFlow)

		if slot := viper.GetString("authenticate.save"); slot != "" {
			data, err := sess.Dump()
			if err != nil {
				return err
			}
			slots, err := openSlots()
			if err != nil {
				return err
			}
			defer slots.Close()
			if err := slots.Save(slot, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "session saved to slot %q\n", slot)
		}
		return nil
	},
}

func init() {
	authenticateCmd.Flags().String("from", "", "Start at the named stage instead of the first flow")
	authenticateCmd.Flags().String("save", "", "Save the session under this slot after a successful run")
	authenticateCmd.Flags().Int("max-steps", authentication.DefaultMaxSteps, "Abort after this many stage transitions")

	viper.BindPFlag("authenticate.from", authenticateCmd.Flags().Lookup("from"))
	viper.BindPFlag("authenticate.save", authenticateCmd.Flags().Lookup("save"))
	viper.BindPFlag("authenticate.max-steps", authenticateCmd.Flags().Lookup("max-steps"))

	rootCmd.AddCommand(authenticateCmd)
}
