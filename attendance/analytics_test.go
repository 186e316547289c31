package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var sessionStart = time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)

func at(min int) time.Time { return sessionStart.Add(time.Duration(min) * time.Minute) }

func ptr(t time.Time) *time.Time { return &t }

func TestSummarizeSingleSpanCameraOnAtJoin(t *testing.T) {
	// 40 of 60 minutes, camera on at join, no further timeline entries
	spans := []JoinSpan{{
		JoinTime:        at(0),
		LeaveTime:       ptr(at(40)),
		InitialCameraOn: true,
	}}

	s := Summarize(spans, sessionStart, at(60))

	assert.InDelta(t, 66.7, s.AttendancePercentage, 0.1)
	assert.InDelta(t, 100, s.CameraPercentage, 0.001)
	assert.True(t, s.CameraOpened)
	assert.False(t, s.JoinedLate)
	assert.InDelta(t, 40, s.TotalTimeSpent, 0.001)
}

func TestSummarizeNoSpans(t *testing.T) {
	s := Summarize(nil, sessionStart, at(60))

	assert.Zero(t, s.AttendancePercentage)
	assert.Zero(t, s.CameraPercentage)
	assert.Zero(t, s.TotalTimeSpent)
	assert.False(t, s.CameraOpened)
	assert.False(t, s.JoinedLate)
}

func TestSummarizeTimelineWalk(t *testing.T) {
	// Camera off at join, on at minute 10, off at minute 40, leave at 50.
	// On-time = 30 of 50 present minutes = 60%.
	spans := []JoinSpan{{
		JoinTime:  at(0),
		LeaveTime: ptr(at(50)),
		Timeline: []StatusChange{
			{At: at(10), CameraOn: true},
			{At: at(40), CameraOn: false},
		},
	}}

	s := Summarize(spans, sessionStart, at(60))

	assert.InDelta(t, 60, s.CameraPercentage, 0.001)
	assert.False(t, s.CameraOpened)
	assert.InDelta(t, 83.3, s.AttendancePercentage, 0.1)
}

func TestSummarizeMissingLeaveUsesSessionEnd(t *testing.T) {
	spans := []JoinSpan{{JoinTime: at(30), InitialCameraOn: true}}

	s := Summarize(spans, sessionStart, at(60))

	assert.InDelta(t, 50, s.AttendancePercentage, 0.001)
	assert.InDelta(t, 30, s.TotalTimeSpent, 0.001)
	// exactly 30 minutes after start counts as late
	assert.True(t, s.JoinedLate)
}

func TestSummarizeOverlappingSpansClamped(t *testing.T) {
	// Two overlapping full-length spans; presence must still clamp at 100%.
	spans := []JoinSpan{
		{JoinTime: at(0), LeaveTime: ptr(at(60)), InitialCameraOn: true},
		{JoinTime: at(0), LeaveTime: ptr(at(60)), InitialCameraOn: true},
	}

	s := Summarize(spans, sessionStart, at(60))

	assert.Equal(t, 100.0, s.AttendancePercentage)
	assert.Equal(t, 100.0, s.CameraPercentage)
}

func TestSummarizeMultipleSpans(t *testing.T) {
	// 0-20 camera on, rejoin 40-60 camera off: 20/40 on = 50%, 40/60 present.
	spans := []JoinSpan{
		{JoinTime: at(0), LeaveTime: ptr(at(20)), InitialCameraOn: true},
		{JoinTime: at(40), LeaveTime: ptr(at(60))},
	}

	s := Summarize(spans, sessionStart, at(60))

	assert.InDelta(t, 66.7, s.AttendancePercentage, 0.1)
	assert.InDelta(t, 50, s.CameraPercentage, 0.001)
	assert.False(t, s.CameraOpened)
	assert.False(t, s.JoinedLate)
}

func TestSummarizeInvertedSpanIgnored(t *testing.T) {
	spans := []JoinSpan{
		{JoinTime: at(50), LeaveTime: ptr(at(10))},
		{JoinTime: at(0), LeaveTime: ptr(at(30)), InitialCameraOn: true},
	}

	s := Summarize(spans, sessionStart, at(60))

	assert.InDelta(t, 50, s.AttendancePercentage, 0.001)
	assert.Equal(t, 100.0, s.CameraPercentage)
}

func TestSummarizeTimelineEntryOutsideSpanClamped(t *testing.T) {
	// A transition stamped after leave must not extend camera-on time.
	spans := []JoinSpan{{
		JoinTime:        at(0),
		LeaveTime:       ptr(at(30)),
		InitialCameraOn: true,
		Timeline: []StatusChange{
			{At: at(45), CameraOn: false},
		},
	}}

	s := Summarize(spans, sessionStart, at(60))

	assert.Equal(t, 100.0, s.CameraPercentage)
	assert.InDelta(t, 30, s.TotalTimeSpent, 0.001)
}
