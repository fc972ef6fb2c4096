package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"meetings_app_go/apiclient"
	"meetings_app_go/services/datetime"
)

// ErrNotLoggedIn is returned by commands that need a token when none is set
var ErrNotLoggedIn = errors.New("not logged in: pass --token or set MEETINGS_TOKEN (see 'meetingctl login')")

type App struct {
	APIURL   string
	Token    string
	Timezone string
	JSON     bool

	client *apiclient.Client
	canon  *datetime.Canonicalizer
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "meetingctl",
		Short:         "Manage meetings from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Log in and keep the token for later commands
  export MEETINGS_TOKEN=$(meetingctl login --username alice)

  # Schedule a meeting using everyday date and time forms
  meetingctl meetings create --agenda "Planning" --date "Sep 18, 2020" --time "7:10 AM" --url https://meet.example.com/abc

  # Check how a date will be stored
  meetingctl convert date "09/18/2020"
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		loc, err := time.LoadLocation(app.Timezone)
		if err != nil {
			return fmt.Errorf("unknown time zone %q: %w", app.Timezone, err)
		}
		app.canon = datetime.New(loc)
		app.client = apiclient.New(app.APIURL)
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api", envOr("MEETINGS_API_URL", "http://localhost:8080"), "Meetings API base URL")
	cmd.PersistentFlags().StringVar(&app.Token, "token", envOr("MEETINGS_TOKEN", ""), "Bearer token from 'meetingctl login'")
	cmd.PersistentFlags().StringVar(&app.Timezone, "tz", envOr("MEETINGS_TZ", "UTC"), "IANA time zone used to read dates")
	cmd.PersistentFlags().BoolVar(&app.JSON, "json", false, "Print JSON instead of text")

	cmd.AddCommand(newRegisterCmd(app))
	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newMeCmd(app))
	cmd.AddCommand(newMeetingsCmd(app))
	cmd.AddCommand(newConvertCmd(app))

	return cmd
}

func Execute() error {
	cmd := NewRootCmd()
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	}
	return err
}

// credential returns the configured token or ErrNotLoggedIn
func (app *App) credential() (apiclient.Credential, error) {
	token := strings.TrimSpace(app.Token)
	if token == "" {
		return "", ErrNotLoggedIn
	}
	return apiclient.Credential(token), nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
