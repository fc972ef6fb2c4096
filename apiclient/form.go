package apiclient

import (
	"meetings_app_go/models"
	"meetings_app_go/services/datetime"
	"strings"
)

// Form validation messages
const (
	MsgAgendaRequired    = "Agenda is required"
	MsgDateRequired      = "Date is required"
	MsgInvalidDate       = "Invalid date format. Use formats like 'Sep 18, 2020' or '2020-09-18'"
	MsgStartTimeRequired = "Start time is required"
	MsgInvalidTime       = "Invalid time format. Use formats like '10:00 AM' or '14:30'"
	MsgURLRequired       = "Meeting URL is required"
)

// ValidationError holds every problem found in a form
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ". ")
}

// MeetingForm holds meeting fields as the user typed them.
// Date and StartTime may be in any display form the canonicalizer accepts.
type MeetingForm struct {
	Agenda      string
	Description string
	Status      string
	Date        string
	StartTime   string
	MeetingURL  string

	canon *datetime.Canonicalizer
}

// NewMeetingForm returns an empty form for a new meeting
func NewMeetingForm(canon *datetime.Canonicalizer) *MeetingForm {
	return &MeetingForm{Status: models.MeetingStatusUpcoming, canon: canon}
}

// FormFromMeeting pre-fills a form from a stored meeting for editing
func FormFromMeeting(canon *datetime.Canonicalizer, m *models.Meeting) *MeetingForm {
	form := NewMeetingForm(canon)
	form.Agenda = m.Agenda
	form.Description = m.Description
	if m.Status != "" {
		form.Status = m.Status
	}
	form.Date = form.canonicalizer().ToDisplayDate(m.Date)
	form.StartTime = form.canonicalizer().ToDisplayTime(m.StartTime)
	form.MeetingURL = m.MeetingURL
	return form
}

func (f *MeetingForm) canonicalizer() *datetime.Canonicalizer {
	if f.canon == nil {
		f.canon = datetime.New(nil)
	}
	return f.canon
}

// Validate checks every field and reports all problems at once
func (f *MeetingForm) Validate() error {
	var messages []string
	canon := f.canonicalizer()

	if strings.TrimSpace(f.Agenda) == "" {
		messages = append(messages, MsgAgendaRequired)
	}

	if strings.TrimSpace(f.Date) == "" {
		messages = append(messages, MsgDateRequired)
	} else if _, err := canon.ToCanonicalDate(f.Date); err != nil {
		messages = append(messages, MsgInvalidDate)
	}

	if strings.TrimSpace(f.StartTime) == "" {
		messages = append(messages, MsgStartTimeRequired)
	} else if _, err := canon.ToCanonicalTime(f.StartTime); err != nil {
		messages = append(messages, MsgInvalidTime)
	}

	if strings.TrimSpace(f.MeetingURL) == "" {
		messages = append(messages, MsgURLRequired)
	}

	if len(messages) > 0 {
		return &ValidationError{Messages: messages}
	}
	return nil
}

// ToPayload validates the form and converts it to the canonical write body
func (f *MeetingForm) ToPayload() (MeetingPayload, error) {
	if err := f.Validate(); err != nil {
		return MeetingPayload{}, err
	}
	canon := f.canonicalizer()

	date, err := canon.ToCanonicalDate(f.Date)
	if err != nil {
		return MeetingPayload{}, err
	}
	startTime, err := canon.ToCanonicalTime(f.StartTime)
	if err != nil {
		return MeetingPayload{}, err
	}

	status := f.Status
	if status == "" {
		status = models.MeetingStatusUpcoming
	}

	return MeetingPayload{
		Agenda:      strings.TrimSpace(f.Agenda),
		Description: f.Description,
		Status:      status,
		Date:        date,
		StartTime:   startTime,
		MeetingURL:  strings.TrimSpace(f.MeetingURL),
	}, nil
}
