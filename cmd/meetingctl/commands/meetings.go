package commands

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"meetings_app_go/apiclient"
	"meetings_app_go/models"
)

const datetimeDisplayLayout = "Jan 2, 2006 3:04 PM"

func newMeetingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "meetings",
		Aliases: []string{"meeting"},
		Short:   "List, create, edit and delete meetings",
	}
	cmd.AddCommand(newMeetingsListCmd(app))
	cmd.AddCommand(newMeetingsShowCmd(app))
	cmd.AddCommand(newMeetingsCreateCmd(app))
	cmd.AddCommand(newMeetingsEditCmd(app))
	cmd.AddCommand(newMeetingsDeleteCmd(app))
	return cmd
}

// meetingFlags binds one flag per form field
type meetingFlags struct {
	agenda      string
	description string
	status      string
	date        string
	startTime   string
	url         string
}

func (f *meetingFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.agenda, "agenda", "", "Agenda")
	cmd.Flags().StringVar(&f.description, "description", "", "Description")
	cmd.Flags().StringVar(&f.status, "status", "", "Status (Upcoming, In Review, Cancelled, Overdue, Published)")
	cmd.Flags().StringVar(&f.date, "date", "", "Date, e.g. 'Sep 18, 2020' or 2020-09-18")
	cmd.Flags().StringVar(&f.startTime, "time", "", "Start time, e.g. '10:00 AM' or 14:30")
	cmd.Flags().StringVar(&f.url, "url", "", "Meeting URL")
}

// overlay copies the flags the user actually set onto the form
func (f *meetingFlags) overlay(cmd *cobra.Command, form *apiclient.MeetingForm) {
	changed := cmd.Flags().Changed
	if changed("agenda") {
		form.Agenda = f.agenda
	}
	if changed("description") {
		form.Description = f.description
	}
	if changed("status") {
		form.Status = f.status
	}
	if changed("date") {
		form.Date = f.date
	}
	if changed("time") {
		form.StartTime = f.startTime
	}
	if changed("url") {
		form.MeetingURL = f.url
	}
}

func parseMeetingID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid meeting id %q", arg)
	}
	return uint(id), nil
}

func (app *App) printMeeting(cmd *cobra.Command, m *models.Meeting) error {
	if app.JSON {
		return writeJSON(cmd, m)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Meeting %d\n", m.ID)
	fmt.Fprintf(out, "  Agenda:  %s\n", m.Agenda)
	if m.Description != "" {
		fmt.Fprintf(out, "  Details: %s\n", m.Description)
	}
	fmt.Fprintf(out, "  Status:  %s\n", m.Status)
	fmt.Fprintf(out, "  When:    %s at %s\n", app.canon.ToDisplayDate(m.Date), app.canon.ToDisplayTime(m.StartTime))
	fmt.Fprintf(out, "  URL:     %s\n", m.MeetingURL)
	return nil
}

func newMeetingsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your meetings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := app.credential()
			if err != nil {
				return err
			}
			meetings, err := app.client.ListMeetings(cmd.Context(), cred)
			if err != nil {
				return err
			}
			if app.JSON {
				return writeJSON(cmd, meetings)
			}
			if len(meetings) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No meetings scheduled")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tTIME\tSTATUS\tAGENDA")
			for _, m := range meetings {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					m.ID, app.canon.ToDisplayDate(m.Date), app.canon.ToDisplayTime(m.StartTime), m.Status, m.Agenda)
			}
			return w.Flush()
		},
	}
}

func newMeetingsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one meeting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMeetingID(args[0])
			if err != nil {
				return err
			}
			cred, err := app.credential()
			if err != nil {
				return err
			}
			m, err := app.client.GetMeeting(cmd.Context(), cred, id)
			if err != nil {
				return err
			}
			return app.printMeeting(cmd, m)
		},
	}
}

func newMeetingsCreateCmd(app *App) *cobra.Command {
	flags := &meetingFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Schedule a new meeting",
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := app.credential()
			if err != nil {
				return err
			}
			form := apiclient.NewMeetingForm(app.canon)
			flags.overlay(cmd, form)

			m, err := app.client.SubmitForm(cmd.Context(), cred, form, 0)
			if err != nil {
				return err
			}
			return app.printMeeting(cmd, m)
		},
	}
	flags.register(cmd)
	return cmd
}

func newMeetingsEditCmd(app *App) *cobra.Command {
	flags := &meetingFlags{}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an existing meeting",
		Long:  "Loads the meeting, replaces the fields given as flags and saves it. Fields not given keep their current values.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMeetingID(args[0])
			if err != nil {
				return err
			}
			cred, err := app.credential()
			if err != nil {
				return err
			}

			current, err := app.client.GetMeeting(cmd.Context(), cred, id)
			if err != nil {
				return err
			}
			form := apiclient.FormFromMeeting(app.canon, current)
			flags.overlay(cmd, form)

			m, err := app.client.SubmitForm(cmd.Context(), cred, form, id)
			if err != nil {
				return err
			}
			return app.printMeeting(cmd, m)
		},
	}
	flags.register(cmd)
	return cmd
}

func newMeetingsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a meeting",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMeetingID(args[0])
			if err != nil {
				return err
			}
			cred, err := app.credential()
			if err != nil {
				return err
			}
			if err := app.client.DeleteMeeting(cmd.Context(), cred, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted meeting %d\n", id)
			return nil
		},
	}
}
