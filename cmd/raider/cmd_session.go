package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/digeex/raider/pkg/session"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage saved session snapshots",
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved session slots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		slots, err := openSlots()
		if err != nil {
			return err
		}
		defer slots.Close()

		names, err := slots.List()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <slot>",
	Short: "Print the cookies and values stored in a slot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slots, err := openSlots()
		if err != nil {
			return err
		}
		defer slots.Close()

		data, err := slots.Load(args[0])
		if err != nil {
			return err
		}
		sess, err := session.New(session.Config{})
		if err != nil {
			return err
		}
		if err := sess.Restore(data); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "cookies:")
		for _, c := range sess.Jar().All() {
			fmt.Fprintf(out, "  %s%s %s=%s\n", c.Domain, c.Path, c.Name, c.Value)
		}
		fmt.Fprintln(out, "values:")
		for _, name := range sess.Store().Names() {
			v, _ := sess.Store().Get(name)
			fmt.Fprintf(out, "  %s = %s\n", name, v)
		}
		return nil
	},
}

var sessionRemoveCmd = &cobra.Command{
	Use:   "rm <slot>",
	Short: "Delete a saved session slot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slots, err := openSlots()
		if err != nil {
			return err
		}
		defer slots.Close()
		return slots.Delete(args[0])
	},
}

func init() {
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionRemoveCmd)
	rootCmd.AddCommand(sessionCmd)
}
