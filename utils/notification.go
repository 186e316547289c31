package utils

import (
	"fmt"
	"log"

	"lms/config"
	"lms/models"

	"github.com/go-resty/resty/v2"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// AttendanceOutcome is the notification payload produced after a session is
// finalized. The gateway turns it into an SMS/WhatsApp message; formatting and
// channel routing happen on the gateway side.
type AttendanceOutcome struct {
	SessionTitle         string  `json:"session_title"`
	AttendancePercentage float64 `json:"attendance_percentage"`
	CameraOpened         bool    `json:"camera_opened"`
	JoinedLate           bool    `json:"joined_late"`
	Completed            bool    `json:"completed"`
}

// SendAttendanceOutcome posts the attendance outcome for one student to the
// notification gateway. Failures are logged, never surfaced; notification is
// fire-and-forget.
func SendAttendanceOutcome(user *models.User, outcome AttendanceOutcome) {
	if config.AppConfig.NotifyApiKey == "" {
		log.Println("[NOTIFY] gateway key not configured, skipping attendance notification")
		return
	}

	client := resty.New()
	resp, err := client.R().
		SetHeader("Authorization", "Bearer "+config.AppConfig.NotifyApiKey).
		SetBody(map[string]interface{}{
			"to":      user.Mobile,
			"type":    "attendance_outcome",
			"payload": outcome,
		}).
		Post(config.AppConfig.NotifyApiUrl)
	if err != nil {
		log.Printf("[NOTIFY] failed to send attendance outcome to user %d: %v", user.ID, err)
		return
	}
	if resp.IsError() {
		log.Printf("[NOTIFY] gateway returned %d for user %d", resp.StatusCode(), user.ID)
	}
}

// SendCompletionEmail emails a student that a course was completed, via SendGrid.
func SendCompletionEmail(user *models.User, courseTitle string) {
	if config.AppConfig.SendgridApiKey == "" {
		log.Println("[NOTIFY] sendgrid key not configured, skipping completion email")
		return
	}

	from := mail.NewEmail("LMS", config.AppConfig.EmailSender)
	to := mail.NewEmail(user.Name, user.Email)
	subject := fmt.Sprintf("Congratulations! You completed %s", courseTitle)
	body := fmt.Sprintf("Hi %s,\n\nYou have completed the course %q. Well done!\n", user.Name, courseTitle)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	client := sendgrid.NewSendClient(config.AppConfig.SendgridApiKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("[NOTIFY] failed to send completion email to user %d: %v", user.ID, err)
		return
	}
	if resp.StatusCode >= 400 {
		log.Printf("[NOTIFY] sendgrid returned %d for user %d", resp.StatusCode, user.ID)
	}
}
