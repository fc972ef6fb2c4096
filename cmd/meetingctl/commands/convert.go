package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newConvertCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert dates and times between display and stored forms",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "date <display-date>",
		Short: "Convert a date like 'Sep 18, 2020' to YYYY-MM-DD",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := app.canon.ToCanonicalDate(strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "time <display-time>",
		Short: "Convert a time like '7:10 AM' to HH:MM:SS",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := app.canon.ToCanonicalTime(strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "display-date <YYYY-MM-DD>",
		Short: "Render a stored date for people",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), app.canon.ToDisplayDate(args[0]))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "display-time <HH:MM:SS>",
		Short: "Render a stored time for people",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), app.canon.ToDisplayTime(args[0]))
			return nil
		},
	})

	return cmd
}
