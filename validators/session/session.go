package sessionValidator

import (
	"strconv"
	"strings"
	"time"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SessionID validates the :sessionId route param and stores it as an int local.
func SessionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("sessionId"))
		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Session ID!", nil)
		}
		c.Locals("sessionID", id)
		return c.Next()
	}
}

// CreateSession validates admin session creation request
func CreateSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID       uint      `json:"course_id"`
			ContentItemID  uint      `json:"content_item_id"`
			Title          string    `json:"title"`
			MeetingID      string    `json:"meeting_id"`
			ScheduledStart time.Time `json:"scheduled_start"`
			ScheduledEnd   time.Time `json:"scheduled_end"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.MeetingID = strings.TrimSpace(reqData.MeetingID)

		if reqData.CourseID == 0 {
			errors["course_id"] = "Course ID is required!"
		}
		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		}
		if reqData.ScheduledStart.IsZero() {
			errors["scheduled_start"] = "Scheduled start is required!"
		}
		if reqData.ScheduledEnd.IsZero() {
			errors["scheduled_end"] = "Scheduled end is required!"
		} else if !reqData.ScheduledStart.IsZero() && !reqData.ScheduledEnd.After(reqData.ScheduledStart) {
			errors["scheduled_end"] = "Scheduled end must be after scheduled start!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSession", reqData)
		return c.Next()
	}
}

// SessionEvent validates a provider webhook event
func SessionEvent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			MeetingID string    `json:"meeting_id"`
			Event     string    `json:"event"`
			UserEmail string    `json:"user_email"`
			At        time.Time `json:"at"`
			CameraOn  bool      `json:"camera_on"`
			MicOn     bool      `json:"mic_on"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.MeetingID = strings.TrimSpace(reqData.MeetingID)
		reqData.Event = strings.TrimSpace(reqData.Event)
		reqData.UserEmail = strings.TrimSpace(strings.ToLower(reqData.UserEmail))

		if reqData.MeetingID == "" {
			errors["meeting_id"] = "Meeting ID is required!"
		}
		if reqData.Event == "" {
			errors["event"] = "Event type is required!"
		}
		if reqData.At.IsZero() {
			errors["at"] = "Event timestamp is required!"
		}
		if strings.HasPrefix(reqData.Event, "participant.") && reqData.UserEmail == "" {
			errors["user_email"] = "User email is required for participant events!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSessionEvent", reqData)
		return c.Next()
	}
}
