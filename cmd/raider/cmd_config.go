package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Validate and summarise the project definition",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := loadProject()
		if err != nil {
			return err
		}
		// Building the runner surfaces duplicate flow names too.
		if _, err := project.Runner(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "base_url: %s\n", project.BaseURL)
		fmt.Fprintf(out, "users: %d\n", len(project.Users))
		fmt.Fprintf(out, "plugins: %d\n", len(project.Plugins))

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "\nFLOW\tOUTPUTS\tOPERATIONS")
		for _, f := range project.Flows {
			fmt.Fprintf(w, "%s\t%d\t%d\n", f.Name(), len(f.Outputs()), len(f.Operations()))
		}
		for _, f := range project.Functions {
			fmt.Fprintf(w, "%s (function)\t%d\t%d\n", f.Name(), len(f.Outputs()), len(f.Operations()))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
