package services

import (
	"time"

	"github.com/nisshin-gakuen/admission-portal/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Scheduler runs periodic maintenance: scheduled announcement publication
// and audit log retention.
type Scheduler struct {
	cron          *cron.Cron
	announcements *AnnouncementService
	logs          *SystemLogService
}

func NewScheduler(db *gorm.DB) *Scheduler {
	return &Scheduler{
		announcements: NewAnnouncementService(db),
		logs:          NewSystemLogService(db),
	}
}

func (s *Scheduler) Start() {
	s.cron = cron.New()

	if _, err := s.cron.AddFunc("* * * * *", s.publishDueAnnouncements); err != nil {
		logger.Errorf("[Scheduler] Failed to add announcement job: %v", err)
	}
	if _, err := s.cron.AddFunc("30 3 * * *", s.cleanupLogs); err != nil {
		logger.Errorf("[Scheduler] Failed to add log cleanup job: %v", err)
	}

	s.cron.Start()
	logger.Infof("[Scheduler] Started")
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) publishDueAnnouncements() {
	n, err := s.announcements.PublishDue(time.Now())
	if err != nil {
		logger.Errorf("[Scheduler] Announcement publication failed: %v", err)
		return
	}
	if n > 0 {
		logger.Infof("[Scheduler] Published %d scheduled announcements", n)
	}
}

func (s *Scheduler) cleanupLogs() {
	days := s.logs.GetRetentionDays()
	n, err := s.logs.CleanupOldLogs(days)
	if err != nil {
		logger.Errorf("[Scheduler] Log cleanup failed: %v", err)
		return
	}
	if n > 0 {
		logger.Infof("[Scheduler] Removed %d audit log entries older than %d days", n, days)
	}
}
