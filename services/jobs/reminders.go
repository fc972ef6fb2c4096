package jobs

import (
	"log"
	"meetings_app_go/config"
	"meetings_app_go/services"
	"meetings_app_go/services/datetime"
	"time"

	"gorm.io/gorm"
)

// SendMeetingReminders emails the owner of every active meeting scheduled
// for the day after now. Each meeting is reminded at most once.
func SendMeetingReminders(database *gorm.DB, cfg *config.Config, canon *datetime.Canonicalizer, now time.Time) int {
	svc := services.NewMeetingService(database, canon)

	meetings, err := svc.DueForReminder(now)
	if err != nil {
		log.Printf("[JOB] Error fetching meetings for reminders: %v", err)
		return 0
	}

	log.Printf("[JOB] Found %d meetings to remind", len(meetings))

	sent := 0
	for _, m := range meetings {
		if m.Owner == nil || m.Owner.Email == "" {
			log.Printf("[JOB] Meeting %d has no owner email, skipping reminder", m.ID)
			continue
		}

		email := services.BuildMeetingReminderEmail(m.Owner.Email, services.MeetingEmailData{
			UserName:    m.Owner.Username,
			Agenda:      m.Agenda,
			Description: m.Description,
			Date:        canon.ToDisplayDate(m.Date),
			Time:        canon.ToDisplayTime(m.StartTime),
			Status:      m.Status,
			MeetingURL:  m.MeetingURL,
		})

		if err := services.SendEmail(cfg, email); err != nil {
			log.Printf("[JOB] Failed to send reminder for meeting %d: %v", m.ID, err)
			continue
		}

		if err := svc.MarkReminderSent(m.ID, time.Now().UTC()); err != nil {
			log.Printf("[JOB] Failed to record reminder for meeting %d: %v", m.ID, err)
			continue
		}
		sent++
	}

	return sent
}
