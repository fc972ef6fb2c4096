package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetings_app_go/apiclient"
	"meetings_app_go/models"
)

func runCLI(t *testing.T, stdin string, args ...string) (stdout string, stderr string, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf, errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.String(), errBuf.String(), e
}

// fakeAPI is an in-memory stand-in for the meetings server
type fakeAPI struct {
	mu       sync.Mutex
	meetings map[uint]models.Meeting
	nextID   uint
	bodies   []apiclient.MeetingPayload
}

func newFakeAPI(t *testing.T) (*fakeAPI, string) {
	t.Helper()
	t.Setenv("MEETINGS_TOKEN", "")
	t.Setenv("MEETINGS_API_URL", "")

	api := &fakeAPI{meetings: map[uint]models.Meeting{}, nextID: 1}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return api, srv.URL
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	reply := func(status int, v any) {
		w.WriteHeader(status)
		if v != nil {
			_ = json.NewEncoder(w).Encode(v)
		}
	}

	if r.URL.Path == "/api/auth/login/" {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret" {
			reply(http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
			return
		}
		reply(http.StatusOK, map[string]string{"access": "tok-" + body["username"]})
		return
	}

	if r.Header.Get("Authorization") != "Bearer tok" {
		reply(http.StatusUnauthorized, map[string]string{"detail": "Invalid token."})
		return
	}

	readPayload := func() apiclient.MeetingPayload {
		var p apiclient.MeetingPayload
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &p)
		f.bodies = append(f.bodies, p)
		return p
	}
	toMeeting := func(id uint, p apiclient.MeetingPayload) models.Meeting {
		return models.Meeting{ID: id, Agenda: p.Agenda, Description: p.Description, Status: p.Status,
			Date: p.Date, StartTime: p.StartTime, MeetingURL: p.MeetingURL, OwnerID: "u1"}
	}

	switch {
	case r.URL.Path == "/api/users/me/":
		reply(http.StatusOK, models.User{ID: "u1", Username: "alice", Email: "alice@example.com"})
	case r.URL.Path == "/api/meetings/" && r.Method == http.MethodGet:
		list := []models.Meeting{}
		for id := uint(1); id < f.nextID; id++ {
			if m, ok := f.meetings[id]; ok {
				list = append(list, m)
			}
		}
		reply(http.StatusOK, list)
	case r.URL.Path == "/api/meetings/" && r.Method == http.MethodPost:
		m := toMeeting(f.nextID, readPayload())
		f.meetings[m.ID] = m
		f.nextID++
		reply(http.StatusCreated, m)
	case r.URL.Path == "/api/meetings/1/":
		m, ok := f.meetings[1]
		if !ok {
			reply(http.StatusNotFound, map[string]string{"detail": "Not found."})
			return
		}
		switch r.Method {
		case http.MethodGet:
			reply(http.StatusOK, m)
		case http.MethodPut:
			m = toMeeting(1, readPayload())
			f.meetings[1] = m
			reply(http.StatusOK, m)
		case http.MethodDelete:
			delete(f.meetings, 1)
			reply(http.StatusNoContent, nil)
		}
	default:
		reply(http.StatusNotFound, map[string]string{"detail": "Not found."})
	}
}

func TestConvertCommands(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"convert", "date", "Sep 18, 2020"}, "2020-09-18"},
		{[]string{"convert", "date", "Sep", "18,", "2020"}, "2020-09-18"},
		{[]string{"convert", "date", "2020-09-18"}, "2020-09-18"},
		{[]string{"convert", "time", "7:10 PM"}, "19:10:00"},
		{[]string{"convert", "time", "14:30"}, "14:30:00"},
		{[]string{"convert", "display-date", "2020-09-18"}, "Sep 18, 2020"},
		{[]string{"convert", "display-date", "garbage"}, "Invalid Date"},
		{[]string{"convert", "display-time", "00:05:00"}, "12:05 AM"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, _, err := runCLI(t, "", tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}

	t.Run("Invalid time", func(t *testing.T) {
		_, _, err := runCLI(t, "", "convert", "time", "13:00 PM")
		assert.Error(t, err)
	})

	t.Run("Unknown zone", func(t *testing.T) {
		_, _, err := runCLI(t, "", "--tz", "Mars/Olympus", "convert", "date", "2020-09-18")
		assert.ErrorContains(t, err, "unknown time zone")
	})
}

func TestLoginCommand(t *testing.T) {
	_, url := newFakeAPI(t)

	t.Run("Password from stdin", func(t *testing.T) {
		out, _, err := runCLI(t, "secret\n", "--api", url, "login", "--username", "alice")
		require.NoError(t, err)
		assert.Equal(t, "tok-alice\n", out)
	})

	t.Run("Bad password", func(t *testing.T) {
		_, _, err := runCLI(t, "", "--api", url, "login", "--username", "alice", "--password", "nope")
		var he *apiclient.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusUnauthorized, he.StatusCode)
	})
}

func TestMeCommand(t *testing.T) {
	_, url := newFakeAPI(t)

	_, _, err := runCLI(t, "", "--api", url, "me")
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	out, _, err := runCLI(t, "", "--api", url, "--token", "tok", "me")
	require.NoError(t, err)
	assert.Contains(t, out, "Username: alice")
	assert.Contains(t, out, "Email:    alice@example.com")
}

func TestMeetingsCommands(t *testing.T) {
	api, url := newFakeAPI(t)
	base := []string{"--api", url, "--token", "tok", "meetings"}
	run := func(args ...string) (string, error) {
		out, _, err := runCLI(t, "", append(append([]string{}, base...), args...)...)
		return out, err
	}

	out, err := run("list")
	require.NoError(t, err)
	assert.Equal(t, "No meetings scheduled\n", out)

	t.Run("Create rejects an invalid form locally", func(t *testing.T) {
		_, err := run("create", "--date", "someday", "--time", "7:10 AM")
		var ve *apiclient.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "Agenda is required. Invalid date format. Use formats like 'Sep 18, 2020' or '2020-09-18'. Meeting URL is required", ve.Error())
		assert.Empty(t, api.bodies)
	})

	t.Run("Create", func(t *testing.T) {
		out, err := run("create", "--agenda", "Planning", "--date", "Sep 18, 2020", "--time", "7:10 AM", "--url", "https://meet.example.com/abc")
		require.NoError(t, err)
		assert.Contains(t, out, "Meeting 1")
		assert.Contains(t, out, "Sep 18, 2020 at 7:10 AM")

		require.Len(t, api.bodies, 1)
		assert.Equal(t, "2020-09-18", api.bodies[0].Date)
		assert.Equal(t, "07:10:00", api.bodies[0].StartTime)
		assert.Equal(t, models.MeetingStatusUpcoming, api.bodies[0].Status)
	})

	t.Run("List", func(t *testing.T) {
		out, err := run("list")
		require.NoError(t, err)
		assert.Contains(t, out, "AGENDA")
		assert.Contains(t, out, "Planning")
		assert.Contains(t, out, "7:10 AM")
	})

	t.Run("Edit keeps unchanged fields", func(t *testing.T) {
		_, err := run("edit", "1", "--time", "14:30", "--status", "In Review")
		require.NoError(t, err)

		last := api.bodies[len(api.bodies)-1]
		assert.Equal(t, "Planning", last.Agenda)
		assert.Equal(t, "2020-09-18", last.Date)
		assert.Equal(t, "14:30:00", last.StartTime)
		assert.Equal(t, models.MeetingStatusInReview, last.Status)
		assert.Equal(t, "https://meet.example.com/abc", last.MeetingURL)
	})

	t.Run("JSON output", func(t *testing.T) {
		out, _, err := runCLI(t, "", "--api", url, "--token", "tok", "--json", "meetings", "show", "1")
		require.NoError(t, err)
		var m models.Meeting
		require.NoError(t, json.Unmarshal([]byte(out), &m))
		assert.Equal(t, "14:30:00", m.StartTime)
	})

	t.Run("Delete", func(t *testing.T) {
		out, err := run("delete", "1")
		require.NoError(t, err)
		assert.Equal(t, "Deleted meeting 1\n", out)

		_, err = run("show", "1")
		assert.True(t, apiclient.IsNotFound(err))
	})

	t.Run("Bad id", func(t *testing.T) {
		_, err := run("delete", "abc")
		assert.ErrorContains(t, err, "invalid meeting id")
	})
}
