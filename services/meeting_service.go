package services

import (
	"errors"
	"fmt"
	"html"
	"meetings_app_go/models"
	"meetings_app_go/services/datetime"
	"net/url"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

var ErrMeetingNotFound = errors.New("meeting not found")

var (
	agendaPolicy      = bluemonday.StrictPolicy()
	descriptionPolicy = bluemonday.UGCPolicy()
)

// MeetingInput is the writable part of a meeting. Nil fields are left
// untouched by partial updates and treated as missing otherwise.
type MeetingInput struct {
	Agenda      *string `json:"agenda"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Date        *string `json:"date"`
	StartTime   *string `json:"start_time"`
	MeetingURL  *string `json:"meeting_url"`
}

// MeetingValidationError lists every problem found in a MeetingInput
type MeetingValidationError struct {
	Problems []string
}

func (e *MeetingValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

// MeetingService persists meetings scoped to their owner
type MeetingService struct {
	DB    *gorm.DB
	Canon *datetime.Canonicalizer
}

// NewMeetingService creates a meeting service; canon decides the calendar
// used for date validation and the overdue sweep
func NewMeetingService(db *gorm.DB, canon *datetime.Canonicalizer) *MeetingService {
	if canon == nil {
		canon = datetime.New(time.UTC)
	}
	return &MeetingService{DB: db, Canon: canon}
}

// List returns the owner's meetings in chronological order
func (s *MeetingService) List(ownerID string) ([]models.Meeting, error) {
	var meetings []models.Meeting
	err := s.DB.Where("owner_id = ?", ownerID).
		Order("date asc").Order("start_time asc").Order("id asc").
		Find(&meetings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, nil
}

// Get fetches one of the owner's meetings
func (s *MeetingService) Get(ownerID string, id uint) (*models.Meeting, error) {
	var meeting models.Meeting
	err := s.DB.Where("id = ? AND owner_id = ?", id, ownerID).First(&meeting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to fetch meeting: %w", err)
	}
	return &meeting, nil
}

// Create validates and stores a new meeting for the owner
func (s *MeetingService) Create(ownerID string, input MeetingInput) (*models.Meeting, error) {
	meeting := &models.Meeting{
		OwnerID: ownerID,
		Status:  models.MeetingStatusUpcoming,
	}
	if err := s.apply(meeting, input, false); err != nil {
		return nil, err
	}

	if err := s.DB.Create(meeting).Error; err != nil {
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}
	return meeting, nil
}

// Update replaces (partial=false) or patches (partial=true) one of the
// owner's meetings. The meeting as it was before the change is returned
// alongside the updated one.
func (s *MeetingService) Update(ownerID string, id uint, input MeetingInput, partial bool) (*models.Meeting, *models.Meeting, error) {
	meeting, err := s.Get(ownerID, id)
	if err != nil {
		return nil, nil, err
	}
	previous := *meeting

	if err := s.apply(meeting, input, partial); err != nil {
		return nil, nil, err
	}

	if err := s.DB.Save(meeting).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to update meeting: %w", err)
	}
	return meeting, &previous, nil
}

// Delete removes one of the owner's meetings and returns it
func (s *MeetingService) Delete(ownerID string, id uint) (*models.Meeting, error) {
	meeting, err := s.Get(ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Delete(meeting).Error; err != nil {
		return nil, fmt.Errorf("failed to delete meeting: %w", err)
	}
	return meeting, nil
}

// MarkOverdue moves upcoming meetings dated before today to Overdue
func (s *MeetingService) MarkOverdue(now time.Time) (int64, error) {
	today := now.In(s.Canon.Location()).Format(datetime.CanonicalDateLayout)
	result := s.DB.Model(&models.Meeting{}).
		Where("status = ? AND date < ?", models.MeetingStatusUpcoming, today).
		Update("status", models.MeetingStatusOverdue)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark overdue meetings: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DueForReminder returns active meetings on the day after now that have
// not been reminded yet
func (s *MeetingService) DueForReminder(now time.Time) ([]models.Meeting, error) {
	tomorrow := now.In(s.Canon.Location()).AddDate(0, 0, 1).Format(datetime.CanonicalDateLayout)

	var meetings []models.Meeting
	err := s.DB.Preload("Owner").
		Where("status IN (?)", []string{models.MeetingStatusUpcoming, models.MeetingStatusInReview}).
		Where("date = ?", tomorrow).
		Where("reminder_sent_at IS NULL").
		Order("start_time asc").
		Find(&meetings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch meetings for reminders: %w", err)
	}
	return meetings, nil
}

// MarkReminderSent records that a reminder went out
func (s *MeetingService) MarkReminderSent(id uint, at time.Time) error {
	return s.DB.Model(&models.Meeting{}).Where("id = ?", id).Update("reminder_sent_at", at).Error
}

// MeetingSnapshot captures the audited fields of a meeting
func MeetingSnapshot(m *models.Meeting) map[string]interface{} {
	if m == nil {
		return nil
	}
	return map[string]interface{}{
		"agenda":      m.Agenda,
		"description": m.Description,
		"status":      m.Status,
		"date":        m.Date,
		"start_time":  m.StartTime,
		"meeting_url": m.MeetingURL,
	}
}

// apply validates input and copies it onto meeting, collecting every problem
func (s *MeetingService) apply(meeting *models.Meeting, input MeetingInput, partial bool) error {
	var problems []string

	if input.Agenda != nil {
		agenda := strings.TrimSpace(html.UnescapeString(agendaPolicy.Sanitize(*input.Agenda)))
		switch {
		case agenda == "":
			problems = append(problems, "agenda: this field may not be blank")
		case len([]rune(agenda)) > models.MaxAgendaLength:
			problems = append(problems, fmt.Sprintf("agenda: ensure this field has no more than %d characters", models.MaxAgendaLength))
		default:
			meeting.Agenda = agenda
		}
	} else if !partial {
		problems = append(problems, "agenda: this field is required")
	}

	if input.Description != nil {
		meeting.Description = strings.TrimSpace(descriptionPolicy.Sanitize(*input.Description))
	} else if !partial {
		meeting.Description = ""
	}

	if input.Status != nil {
		if models.IsValidMeetingStatus(*input.Status) {
			meeting.Status = *input.Status
		} else {
			problems = append(problems, fmt.Sprintf("status: %q is not a valid choice", *input.Status))
		}
	}

	if input.Date != nil {
		if _, err := s.Canon.ParseCanonicalDate(*input.Date); err != nil {
			problems = append(problems, "date: date has wrong format, use YYYY-MM-DD")
		} else {
			meeting.Date = *input.Date
		}
	} else if !partial {
		problems = append(problems, "date: this field is required")
	}

	if input.StartTime != nil {
		if _, err := s.Canon.ParseCanonicalTime(*input.StartTime); err != nil {
			problems = append(problems, "start_time: time has wrong format, use HH:MM:SS")
		} else {
			meeting.StartTime = *input.StartTime
		}
	} else if !partial {
		problems = append(problems, "start_time: this field is required")
	}

	if input.MeetingURL != nil {
		meetingURL := strings.TrimSpace(*input.MeetingURL)
		if !isValidMeetingURL(meetingURL) {
			problems = append(problems, "meeting_url: enter a valid URL")
		} else {
			meeting.MeetingURL = meetingURL
		}
	} else if !partial {
		problems = append(problems, "meeting_url: this field is required")
	}

	if len(problems) > 0 {
		return &MeetingValidationError{Problems: problems}
	}
	return nil
}

func isValidMeetingURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
