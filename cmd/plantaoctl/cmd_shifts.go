package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <username> <password>",
	Short: "Print a token for the given credentials",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		if err := api.Login(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), api.Token())
		return nil
	},
}

var bookNotes string

var bookCmd = &cobra.Command{
	Use:   "book <studentId> <date>",
	Short: "Book a shift (dd/mm/yyyy or yyyy-mm-dd)",
	Long: `Book a shift for a student.

A full date is reported with the server's message and the attempt is not
logged automatically; use "plantaoctl attempt" for that.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		var notes *string
		if bookNotes != "" {
			notes = &bookNotes
		}
		shift, err := api.BookShift(ctx, args[0], args[1], notes)
		if err != nil {
			return err
		}
		return printJSON(cmd, shift)
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <studentId> <date>",
	Short: "Delete a booked shift",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		if err := api.CancelShift(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Plantão de %s em %s removido.\n", args[0], args[1])
		return nil
	},
}

var attemptAchieved string

var attemptCmd = &cobra.Command{
	Use:   "attempt <studentId> <desiredDate>",
	Short: "Log a booking attempt for a full date",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		var achieved *string
		if attemptAchieved != "" {
			achieved = &attemptAchieved
		}
		a, err := api.LogAttempt(ctx, args[0], args[1], achieved)
		if err != nil {
			return err
		}
		return printJSON(cmd, a)
	},
}

func init() {
	bookCmd.Flags().StringVar(&bookNotes, "notes", "", "Observações")
	attemptCmd.Flags().StringVar(&attemptAchieved, "achieved", "", "Date actually obtained, if any")
}
