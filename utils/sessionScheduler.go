package utils

import (
	"log"
	"time"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/robfig/cron/v3"
)

// InitializeSessionScheduler sets up the session finalize scheduler
func InitializeSessionScheduler() *cron.Cron {
	log.Println("[SESSION-SCHEDULER] Initializing session scheduler...")

	c := cron.New()

	// Every 10 minutes, finalize sessions past their end whose webhook never arrived
	c.AddFunc("*/10 * * * *", func() {
		log.Println("[SESSION-SCHEDULER] Running session finalize check...")
		FinalizeEndedSessions()
	})

	c.Start()
	log.Println("[SESSION-SCHEDULER] Session scheduler started - runs every 10 minutes")
	return c
}

// FinalizeEndedSessions finds sessions past their scheduled end that were never
// finalized, pulls the provider's participant report for those with no local
// attendance rows, and runs finalization.
func FinalizeEndedSessions() {
	db := database.Database.Db

	var sessions []courseModels.LiveSession
	err := db.Where("status IN ? AND scheduled_end < ? AND is_deleted = ?",
		[]string{courseModels.SessionScheduled, courseModels.SessionLive, courseModels.SessionEnded},
		time.Now(), false).Find(&sessions).Error
	if err != nil {
		log.Printf("[SESSION-SCHEDULER] Error fetching ended sessions: %v", err)
		return
	}

	log.Printf("[SESSION-SCHEDULER] Found %d sessions to finalize", len(sessions))

	for i := range sessions {
		session := &sessions[i]

		var recordCount int64
		db.Model(&courseModels.AttendanceRecord{}).
			Where("session_id = ? AND is_deleted = ?", session.ID, false).Count(&recordCount)

		if recordCount == 0 && session.MeetingID != "" {
			if err := importParticipantReport(session); err != nil {
				log.Printf("[SESSION-SCHEDULER] Error importing report for session %d: %v", session.ID, err)
				continue
			}
		}

		if err := FinalizeSession(db, session); err != nil {
			log.Printf("[SESSION-SCHEDULER] Error finalizing session %d: %v", session.ID, err)
		}
	}
}

// importParticipantReport builds attendance rows from the provider's pulled
// report. Report rows match local students by email; unknown emails are skipped.
func importParticipantReport(session *courseModels.LiveSession) error {
	db := database.Database.Db

	participants, err := PullParticipantReport(session.MeetingID)
	if err != nil {
		return err
	}

	for _, p := range participants {
		var user models.User
		if err := db.Where("email = ? AND is_deleted = ?", p.Email, false).First(&user).Error; err != nil {
			log.Printf("[SESSION-SCHEDULER] No local user for participant %s, skipping", p.Email)
			continue
		}

		var record courseModels.AttendanceRecord
		err := db.Where("session_id = ? AND user_id = ? AND is_deleted = ?", session.ID, user.ID, false).
			First(&record).Error
		if err != nil {
			record = courseModels.AttendanceRecord{SessionID: session.ID, UserID: user.ID}
			if err := db.Create(&record).Error; err != nil {
				return err
			}
		}

		event := courseModels.JoinEvent{
			AttendanceRecordID: record.ID,
			JoinTime:           p.JoinTime,
			LeaveTime:          p.LeaveTime,
			InitialCameraOn:    p.CameraOn,
		}
		if err := db.Create(&event).Error; err != nil {
			return err
		}
	}
	return nil
}
