package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Live session statuses
const (
	SessionScheduled = "SCHEDULED"
	SessionLive      = "LIVE"
	SessionEnded     = "ENDED"
	SessionFinalized = "FINALIZED" // attendance processed and fed to progress
)

// LiveSession is the local record of a provider-hosted session. Scheduling the
// meeting itself belongs to the provider; we only track identity and timing.
type LiveSession struct {
	gorm.Model
	CourseID       uint       `json:"course_id" gorm:"index;not null"`
	ContentItemID  uint       `json:"content_item_id" gorm:"index"`
	Title          string     `json:"title"`
	MeetingID      string     `json:"meeting_id" gorm:"index"` // provider meeting identifier
	ScheduledStart time.Time  `json:"scheduled_start"`
	ScheduledEnd   time.Time  `json:"scheduled_end"`
	ActualStart    *time.Time `json:"actual_start"`
	ActualEnd      *time.Time `json:"actual_end"`
	Status         string     `json:"status" gorm:"default:'SCHEDULED'"`
	IsDeleted      bool       `gorm:"default:false"`
}

// AttendanceRecord holds the derived attendance result for one student in one
// session, computed from the raw JoinEvent rows at session end.
type AttendanceRecord struct {
	gorm.Model
	SessionID            uint    `json:"session_id" gorm:"uniqueIndex:idx_attendance_entry;not null"`
	UserID               uint    `json:"user_id" gorm:"uniqueIndex:idx_attendance_entry;not null"`
	AttendancePercentage float64 `json:"attendance_percentage" gorm:"default:0"`
	CameraPercentage     float64 `json:"camera_percentage" gorm:"default:0"`
	CameraOpened         bool    `json:"camera_opened" gorm:"default:false"`
	JoinedLate           bool    `json:"joined_late" gorm:"default:false"`
	TotalTimeSpent       float64 `json:"total_time_spent" gorm:"default:0"` // minutes
	IsDeleted            bool    `gorm:"default:false"`
}

// JoinEvent is one join/leave span of a student inside a session, with the raw
// camera/microphone status timeline recorded by the provider. LeaveTime stays
// nil while the participant is still connected.
type JoinEvent struct {
	gorm.Model
	AttendanceRecordID uint           `json:"attendance_record_id" gorm:"index;not null"`
	JoinTime           time.Time      `json:"join_time"`
	LeaveTime          *time.Time     `json:"leave_time"`
	InitialCameraOn    bool           `json:"initial_camera_on" gorm:"default:false"` // state recorded at join; unknown defaults to off
	StatusTimeline     datatypes.JSON `json:"status_timeline"`                        // []attendance.StatusChange, chronological
	IsDeleted          bool           `gorm:"default:false"`
}
