package models

import (
	"time"
)

// Meeting status values, as shown to users
const (
	MeetingStatusUpcoming  = "Upcoming"
	MeetingStatusInReview  = "In Review"
	MeetingStatusCancelled = "Cancelled"
	MeetingStatusOverdue   = "Overdue"
	MeetingStatusPublished = "Published"
)

// MeetingStatuses lists every valid status in display order
var MeetingStatuses = []string{
	MeetingStatusUpcoming,
	MeetingStatusInReview,
	MeetingStatusCancelled,
	MeetingStatusOverdue,
	MeetingStatusPublished,
}

// MaxAgendaLength bounds the agenda column
const MaxAgendaLength = 255

// Meeting is a scheduled meeting owned by a user.
// Date and StartTime hold the canonical YYYY-MM-DD and HH:MM:SS strings.
type Meeting struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	Agenda      string `gorm:"size:255;not null" json:"agenda"`
	Description string `gorm:"type:text" json:"description"`
	Status      string `gorm:"size:20;not null;default:'Upcoming';index" json:"status"`
	Date        string `gorm:"type:varchar(10);not null;index" json:"date"`
	StartTime   string `gorm:"type:varchar(8);not null" json:"start_time"`
	MeetingURL  string `gorm:"size:500;not null" json:"meeting_url"`

	// Owner relationship
	OwnerID string `gorm:"type:uuid;index;not null" json:"owner"`
	Owner   *User  `gorm:"foreignKey:OwnerID" json:"-"`

	// Reminder System
	ReminderSentAt *time.Time `json:"-"`
}

// TableName specifies the table name for Meeting model
func (Meeting) TableName() string {
	return "meetings"
}

// IsValidMeetingStatus checks if the status is valid
func IsValidMeetingStatus(status string) bool {
	for _, s := range MeetingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsActive reports whether the meeting is still expected to take place
func (m *Meeting) IsActive() bool {
	return m.Status == MeetingStatusUpcoming || m.Status == MeetingStatusInReview
}
