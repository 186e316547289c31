package utils

import (
	"fmt"
	"time"

	"lms/config"

	"github.com/go-resty/resty/v2"
)

// ParticipantReport is one participant row from the provider's past-meeting
// report, used as a fallback when the end-of-session webhook never arrived.
type ParticipantReport struct {
	Email     string     `json:"user_email"`
	JoinTime  time.Time  `json:"join_time"`
	LeaveTime *time.Time `json:"leave_time"`
	CameraOn  bool       `json:"camera_on"`
}

// PullParticipantReport fetches the participant report for an ended meeting
// from the live-session provider. The report has no status timeline, so each
// row becomes a single join span carrying only the join-recorded camera state.
func PullParticipantReport(meetingID string) ([]ParticipantReport, error) {
	if config.AppConfig.SessionApiKey == "" {
		return nil, fmt.Errorf("session provider API key not configured")
	}

	var body struct {
		Participants []ParticipantReport `json:"participants"`
	}

	client := resty.New()
	resp, err := client.R().
		SetHeader("Authorization", "Bearer "+config.AppConfig.SessionApiKey).
		SetResult(&body).
		Get(fmt.Sprintf("%s/past_meetings/%s/participants", config.AppConfig.SessionApiUrl, meetingID))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("provider returned %d for meeting %s", resp.StatusCode(), meetingID)
	}
	return body.Participants, nil
}
