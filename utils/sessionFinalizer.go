package utils

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"lms/attendance"
	"lms/models"
	courseModels "lms/models/course"
	"lms/progress"

	"gorm.io/gorm"
)

// FinalizeSession turns the raw join events of an ended session into derived
// attendance records, feeds the attendance signal to the progress engine for
// the session's content item, and hands the outcome to the notification
// gateway. Safe to call twice: an already finalized session is a no-op.
func FinalizeSession(db *gorm.DB, session *courseModels.LiveSession) error {
	if session.Status == courseModels.SessionFinalized {
		return nil
	}

	start := session.ScheduledStart
	if session.ActualStart != nil {
		start = *session.ActualStart
	}
	end := session.ScheduledEnd
	if session.ActualEnd != nil {
		end = *session.ActualEnd
	}

	var records []courseModels.AttendanceRecord
	err := db.Where("session_id = ? AND is_deleted = ?", session.ID, false).Find(&records).Error
	if err != nil {
		return err
	}

	store := progress.NewStore(db)
	for i := range records {
		record := &records[i]

		spans, err := loadJoinSpans(db, record.ID)
		if err != nil {
			return err
		}

		summary := attendance.Summarize(spans, start, end)
		record.AttendancePercentage = summary.AttendancePercentage
		record.CameraPercentage = summary.CameraPercentage
		record.CameraOpened = summary.CameraOpened
		record.JoinedLate = summary.JoinedLate
		record.TotalTimeSpent = summary.TotalTimeSpent
		if err := db.Save(record).Error; err != nil {
			return err
		}

		completed := feedProgress(db, store, session, record, summary)
		notifyParticipant(db, session, record, summary, completed)
	}

	now := time.Now()
	session.Status = courseModels.SessionFinalized
	if session.ActualEnd == nil {
		session.ActualEnd = &now
	}
	return db.Save(session).Error
}

// loadJoinSpans converts the stored join events of one attendance record into
// the analytics input. A broken timeline column counts as no timeline, which
// the analytics treats as camera staying in its join state.
func loadJoinSpans(db *gorm.DB, recordID uint) ([]attendance.JoinSpan, error) {
	var events []courseModels.JoinEvent
	err := db.Where("attendance_record_id = ? AND is_deleted = ?", recordID, false).
		Order("join_time asc").Find(&events).Error
	if err != nil {
		return nil, err
	}

	spans := make([]attendance.JoinSpan, 0, len(events))
	for _, ev := range events {
		span := attendance.JoinSpan{
			JoinTime:        ev.JoinTime,
			LeaveTime:       ev.LeaveTime,
			InitialCameraOn: ev.InitialCameraOn,
		}
		if len(ev.StatusTimeline) > 0 {
			if err := json.Unmarshal(ev.StatusTimeline, &span.Timeline); err != nil {
				log.Printf("[SESSION] broken status timeline on join event %d, treating as empty: %v", ev.ID, err)
			}
		}
		spans = append(spans, span)
	}
	return spans, nil
}

// feedProgress applies the attendance signal to the session's content item and
// reports whether the item completed. Students who are not enrolled or whose
// item is still locked are skipped, not failed.
func feedProgress(db *gorm.DB, store *progress.Store, session *courseModels.LiveSession, record *courseModels.AttendanceRecord, summary attendance.Summary) bool {
	if session.ContentItemID == 0 {
		return false
	}

	_, out, err := store.Apply(record.UserID, session.CourseID, session.ContentItemID,
		progress.AttendanceSignal{AttendancePercentage: summary.AttendancePercentage})
	if err != nil {
		if errors.Is(err, progress.ErrNotEnrolled) || errors.Is(err, progress.ErrLocked) || errors.Is(err, progress.ErrNotFound) {
			log.Printf("[SESSION] skipping attendance progress for user %d on content %d: %v",
				record.UserID, session.ContentItemID, err)
			return false
		}
		log.Printf("[SESSION] failed to apply attendance for user %d on content %d: %v",
			record.UserID, session.ContentItemID, err)
		return false
	}
	return out.Completed
}

func notifyParticipant(db *gorm.DB, session *courseModels.LiveSession, record *courseModels.AttendanceRecord, summary attendance.Summary, completed bool) {
	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", record.UserID, false).First(&user).Error; err != nil {
		log.Printf("[SESSION] user %d not found for notification: %v", record.UserID, err)
		return
	}

	SendAttendanceOutcome(&user, AttendanceOutcome{
		SessionTitle:         session.Title,
		AttendancePercentage: summary.AttendancePercentage,
		CameraOpened:         summary.CameraOpened,
		JoinedLate:           summary.JoinedLate,
		Completed:            completed,
	})
}
