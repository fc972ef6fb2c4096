package jobs

import (
	"log"
	"meetings_app_go/config"
	"meetings_app_go/services"
	"meetings_app_go/services/datetime"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const (
	sessionCleanupSpec = "@hourly"
	overdueSweepSpec   = "5 0 * * *"
	reminderSpec       = "0 8 * * *"
)

// StartScheduler registers the background jobs in the configured time zone
// and starts the cron runner. The caller stops it on shutdown.
func StartScheduler(database *gorm.DB, cfg *config.Config, canon *datetime.Canonicalizer) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(canon.Location()))

	if _, err := c.AddFunc(sessionCleanupSpec, func() {
		CleanupSessions(database)
		services.Monitor.Prune(time.Now())
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc(overdueSweepSpec, func() {
		log.Println("[CRON] Running overdue meeting sweep...")
		SweepOverdueMeetings(database, canon, time.Now())
	}); err != nil {
		return nil, err
	}

	if cfg.RemindersEnabled {
		if _, err := c.AddFunc(reminderSpec, func() {
			log.Println("[CRON] Sending meeting reminders...")
			SendMeetingReminders(database, cfg, canon, time.Now())
		}); err != nil {
			return nil, err
		}
	}

	c.Start()
	log.Printf("[CRON] Scheduler started (%s, %d jobs)", canon.Location(), len(c.Entries()))
	return c, nil
}

// CleanupSessions removes expired bearer sessions
func CleanupSessions(database *gorm.DB) {
	if err := services.CleanupExpiredSessions(database); err != nil {
		log.Printf("[JOB] Error cleaning up expired sessions: %v", err)
	}
}

// SweepOverdueMeetings marks upcoming meetings from past days as Overdue
func SweepOverdueMeetings(database *gorm.DB, canon *datetime.Canonicalizer, now time.Time) int64 {
	count, err := services.NewMeetingService(database, canon).MarkOverdue(now)
	if err != nil {
		log.Printf("[JOB] Error marking overdue meetings: %v", err)
		return 0
	}
	if count > 0 {
		log.Printf("[JOB] Marked %d meetings as overdue", count)
	}
	return count
}
