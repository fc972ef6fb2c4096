package apiclient

import (
	"context"
	"fmt"
	"meetings_app_go/models"
	"net/http"
)

// MeetingPayload is the write body of a meeting, with canonical date and time
type MeetingPayload struct {
	Agenda      string `json:"agenda"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	MeetingURL  string `json:"meeting_url"`
}

// Registration is returned by Register
type Registration struct {
	User  models.User `json:"user"`
	Token Credential  `json:"token"`
}

type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

func meetingPath(id uint) string {
	return fmt.Sprintf("/api/meetings/%d/", id)
}

// Register creates an account and returns it with a bearer credential
func (c *Client) Register(ctx context.Context, username, email, password string) (*Registration, error) {
	var out Registration
	err := c.do(ctx, http.MethodPost, "/api/auth/register/", credentials{username, email, password}, "", &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges a username and password for a bearer credential
func (c *Client) Login(ctx context.Context, username, password string) (Credential, error) {
	var out struct {
		Access Credential `json:"access"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/login/", credentials{Username: username, Password: password}, "", &out)
	if err != nil {
		return "", err
	}
	return out.Access, nil
}

// Logout revokes cred on the server
func (c *Client) Logout(ctx context.Context, cred Credential) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout/", nil, cred, nil)
}

// Me returns the user that owns cred
func (c *Client) Me(ctx context.Context, cred Credential) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/api/users/me/", nil, cred, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMeetings returns every meeting owned by the caller
func (c *Client) ListMeetings(ctx context.Context, cred Credential) ([]models.Meeting, error) {
	var out []models.Meeting
	if err := c.do(ctx, http.MethodGet, "/api/meetings/", nil, cred, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetMeeting fetches one meeting by id
func (c *Client) GetMeeting(ctx context.Context, cred Credential, id uint) (*models.Meeting, error) {
	var out models.Meeting
	if err := c.do(ctx, http.MethodGet, meetingPath(id), nil, cred, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateMeeting saves a new meeting from a canonical payload
func (c *Client) CreateMeeting(ctx context.Context, cred Credential, payload MeetingPayload) (*models.Meeting, error) {
	var out models.Meeting
	if err := c.do(ctx, http.MethodPost, "/api/meetings/", payload, cred, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMeeting replaces every writable field of a meeting
func (c *Client) UpdateMeeting(ctx context.Context, cred Credential, id uint, payload MeetingPayload) (*models.Meeting, error) {
	var out models.Meeting
	if err := c.do(ctx, http.MethodPut, meetingPath(id), payload, cred, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMeeting removes a meeting by id
func (c *Client) DeleteMeeting(ctx context.Context, cred Credential, id uint) error {
	return c.do(ctx, http.MethodDelete, meetingPath(id), nil, cred, nil)
}

// SubmitForm validates a form, converts it to canonical form and saves it.
// A zero id creates a new meeting; any other id updates that meeting.
func (c *Client) SubmitForm(ctx context.Context, cred Credential, form *MeetingForm, id uint) (*models.Meeting, error) {
	payload, err := form.ToPayload()
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return c.CreateMeeting(ctx, cred, payload)
	}
	return c.UpdateMeeting(ctx, cred, id, payload)
}
