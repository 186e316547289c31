package controllers

import (
	"encoding/json"
	"log"
	"time"

	"lms/attendance"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// AdminCreateSession registers a provider-hosted live session and links it to
// a live-session content item when one is given.
func AdminCreateSession(c *fiber.Ctx) error {
	body := c.Locals("validatedSession").(*struct {
		CourseID       uint      `json:"course_id"`
		ContentItemID  uint      `json:"content_item_id"`
		Title          string    `json:"title"`
		MeetingID      string    `json:"meeting_id"`
		ScheduledStart time.Time `json:"scheduled_start"`
		ScheduledEnd   time.Time `json:"scheduled_end"`
	})

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", body.CourseID, false).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var item courseModels.ContentItem
	if body.ContentItemID != 0 {
		err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?",
			body.ContentItemID, body.CourseID, false).First(&item).Error
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content item not found!", nil)
		}
		if item.ContentType != courseModels.ContentTypeLiveSession {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Content item is not a live session!", nil)
		}
	}

	session := courseModels.LiveSession{
		CourseID:       body.CourseID,
		ContentItemID:  body.ContentItemID,
		Title:          body.Title,
		MeetingID:      body.MeetingID,
		ScheduledStart: body.ScheduledStart,
		ScheduledEnd:   body.ScheduledEnd,
		Status:         courseModels.SessionScheduled,
	}
	if err := database.Database.Db.Create(&session).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create session!", nil)
	}

	if body.ContentItemID != 0 {
		settings, _ := json.Marshal(courseModels.LiveSessionSettings{SessionID: session.ID})
		if err := database.Database.Db.Model(&item).Update("settings", settings).Error; err != nil {
			log.Printf("[SESSION] failed to link session %d to content %d: %v", session.ID, item.ID, err)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Session created successfully!", session)
}

// AdminListSessions lists the sessions of one course, newest schedule first.
func AdminListSessions(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var sessions []courseModels.LiveSession
	err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("scheduled_start desc").Find(&sessions).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch sessions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sessions fetched successfully!", sessions)
}

// AdminFinalizeSession forces attendance finalization without waiting for the
// scheduler sweep. Already finalized sessions are a no-op.
func AdminFinalizeSession(c *fiber.Ctx) error {
	sessionID := c.Locals("sessionID").(int)

	var session courseModels.LiveSession
	err := database.Database.Db.Where("id = ? AND is_deleted = ?", sessionID, false).
		First(&session).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Session not found!", nil)
	}

	if err := utils.FinalizeSession(database.Database.Db, &session); err != nil {
		log.Printf("[SESSION] manual finalize of session %d failed: %v", session.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to finalize session!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Session finalized successfully!", session)
}

// SessionWebhook ingests provider events (session lifecycle and participant
// join/leave/status changes) into the raw attendance rows. The provider posts
// with a shared token; anything else is rejected before the body is touched.
func SessionWebhook(c *fiber.Ctx) error {
	if config.AppConfig.SessionWebhookToken == "" ||
		c.Get("X-Webhook-Token") != config.AppConfig.SessionWebhookToken {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid webhook token!", nil)
	}

	body := c.Locals("validatedSessionEvent").(*struct {
		MeetingID string    `json:"meeting_id"`
		Event     string    `json:"event"`
		UserEmail string    `json:"user_email"`
		At        time.Time `json:"at"`
		CameraOn  bool      `json:"camera_on"`
		MicOn     bool      `json:"mic_on"`
	})

	var session courseModels.LiveSession
	err := database.Database.Db.Where("meeting_id = ? AND is_deleted = ?", body.MeetingID, false).
		First(&session).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Unknown meeting!", nil)
	}

	switch body.Event {
	case "session.started":
		at := body.At
		session.ActualStart = &at
		session.Status = courseModels.SessionLive
		err = database.Database.Db.Save(&session).Error

	case "session.ended":
		at := body.At
		session.ActualEnd = &at
		session.Status = courseModels.SessionEnded
		if err = database.Database.Db.Save(&session).Error; err == nil {
			err = utils.FinalizeSession(database.Database.Db, &session)
		}

	case "participant.joined":
		err = recordJoin(&session, body.UserEmail, body.At, body.CameraOn)

	case "participant.left":
		err = recordLeave(&session, body.UserEmail, body.At)

	case "participant.status":
		err = recordStatusChange(&session, body.UserEmail, attendance.StatusChange{
			At:       body.At,
			CameraOn: body.CameraOn,
			MicOn:    body.MicOn,
		})

	default:
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unknown event type!", nil)
	}

	if err != nil {
		log.Printf("[SESSION] webhook %s for meeting %s failed: %v", body.Event, body.MeetingID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process event!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Event processed successfully!", nil)
}

// attendanceRecordFor finds or creates the record row of one participant,
// matching provider identity to a local user by email.
func attendanceRecordFor(session *courseModels.LiveSession, email string) (*courseModels.AttendanceRecord, error) {
	var user models.User
	err := database.Database.Db.Where("email = ? AND is_deleted = ?", email, false).
		First(&user).Error
	if err != nil {
		return nil, err
	}

	var record courseModels.AttendanceRecord
	err = database.Database.Db.Where("session_id = ? AND user_id = ? AND is_deleted = ?",
		session.ID, user.ID, false).First(&record).Error
	if err == nil {
		return &record, nil
	}

	record = courseModels.AttendanceRecord{SessionID: session.ID, UserID: user.ID}
	if err := database.Database.Db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func recordJoin(session *courseModels.LiveSession, email string, at time.Time, cameraOn bool) error {
	record, err := attendanceRecordFor(session, email)
	if err != nil {
		return err
	}

	event := courseModels.JoinEvent{
		AttendanceRecordID: record.ID,
		JoinTime:           at,
		InitialCameraOn:    cameraOn,
	}
	return database.Database.Db.Create(&event).Error
}

// recordLeave closes the participant's latest open span. A leave without a
// matching join is logged and dropped; the provider occasionally replays them.
func recordLeave(session *courseModels.LiveSession, email string, at time.Time) error {
	record, err := attendanceRecordFor(session, email)
	if err != nil {
		return err
	}

	var event courseModels.JoinEvent
	err = database.Database.Db.Where("attendance_record_id = ? AND leave_time IS NULL AND is_deleted = ?",
		record.ID, false).Order("join_time desc").First(&event).Error
	if err != nil {
		log.Printf("[SESSION] leave without open join for user record %d, dropping", record.ID)
		return nil
	}

	event.LeaveTime = &at
	return database.Database.Db.Save(&event).Error
}

func recordStatusChange(session *courseModels.LiveSession, email string, change attendance.StatusChange) error {
	record, err := attendanceRecordFor(session, email)
	if err != nil {
		return err
	}

	var event courseModels.JoinEvent
	err = database.Database.Db.Where("attendance_record_id = ? AND leave_time IS NULL AND is_deleted = ?",
		record.ID, false).Order("join_time desc").First(&event).Error
	if err != nil {
		log.Printf("[SESSION] status change without open join for record %d, dropping", record.ID)
		return nil
	}

	var timeline []attendance.StatusChange
	if len(event.StatusTimeline) > 0 {
		if err := json.Unmarshal(event.StatusTimeline, &timeline); err != nil {
			log.Printf("[SESSION] broken timeline on join event %d, restarting: %v", event.ID, err)
			timeline = nil
		}
	}
	timeline = append(timeline, change)

	raw, err := json.Marshal(timeline)
	if err != nil {
		return err
	}
	event.StatusTimeline = raw
	return database.Database.Db.Save(&event).Error
}
