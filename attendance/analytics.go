// Package attendance reconstructs presence and camera usage for one student in
// one live session from the sparse join/leave/status-change timeline the
// provider reports.
package attendance

import "time"

// Thresholds applied to the derived percentages.
const (
	CameraOpenThreshold = 80.0             // camera counts as "open" iff on for >= 80% of present time
	LateJoinAfter       = 30 * time.Minute // joining 30+ minutes after start counts as late
)

// StatusChange is one time-stamped camera/microphone transition inside a join span.
type StatusChange struct {
	At       time.Time `json:"at"`
	CameraOn bool      `json:"camera_on"`
	MicOn    bool      `json:"mic_on"`
}

// JoinSpan is one join/leave interval. LeaveTime is nil while the participant
// is still connected; the session end is used in its place. InitialCameraOn is
// the camera state recorded at join, defaulting to off when unknown.
type JoinSpan struct {
	JoinTime        time.Time
	LeaveTime       *time.Time
	InitialCameraOn bool
	Timeline        []StatusChange
}

// Summary is the derived attendance outcome for one participant.
type Summary struct {
	AttendancePercentage float64 `json:"attendance_percentage"` // 0-100
	CameraPercentage     float64 `json:"camera_percentage"`     // 0-100, share of present time with camera on
	CameraOpened         bool    `json:"camera_opened"`
	JoinedLate           bool    `json:"joined_late"`
	TotalTimeSpent       float64 `json:"total_time_spent"` // minutes
}

// Summarize computes the attendance outcome for one participant. A record with
// no join spans yields a zero summary, not an error. Percentages are clamped
// to [0,100] even when spans overlap or run past the session end.
func Summarize(spans []JoinSpan, sessionStart, sessionEnd time.Time) Summary {
	var out Summary
	if len(spans) == 0 {
		return out
	}

	sessionDur := sessionEnd.Sub(sessionStart)
	var present time.Duration
	var cameraOn time.Duration
	firstJoin := spans[0].JoinTime

	for _, span := range spans {
		leave := sessionEnd
		if span.LeaveTime != nil {
			leave = *span.LeaveTime
		}
		if !leave.After(span.JoinTime) {
			continue
		}
		present += leave.Sub(span.JoinTime)
		cameraOn += cameraOnTime(span, leave)

		if span.JoinTime.Before(firstJoin) {
			firstJoin = span.JoinTime
		}
	}

	out.TotalTimeSpent = present.Minutes()
	if sessionDur > 0 {
		out.AttendancePercentage = clampPercent(float64(present) / float64(sessionDur) * 100)
	}
	if present > 0 {
		out.CameraPercentage = clampPercent(float64(cameraOn) / float64(present) * 100)
	}
	out.CameraOpened = out.CameraPercentage >= CameraOpenThreshold
	out.JoinedLate = firstJoin.Sub(sessionStart) >= LateJoinAfter
	return out
}

// cameraOnTime walks one span's status timeline in order starting from the
// join-recorded state and accumulates the intervals preceded by camera-on. A
// span with no timeline entries keeps its initial state for its whole duration.
func cameraOnTime(span JoinSpan, leave time.Time) time.Duration {
	var on time.Duration
	state := span.InitialCameraOn
	cursor := span.JoinTime

	for _, change := range span.Timeline {
		at := change.At
		if at.Before(cursor) {
			at = cursor
		}
		if at.After(leave) {
			at = leave
		}
		if state {
			on += at.Sub(cursor)
		}
		cursor = at
		state = change.CameraOn
	}
	if state && leave.After(cursor) {
		on += leave.Sub(cursor)
	}
	return on
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
