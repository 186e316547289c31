package utils

import (
	"os"
	"testing"
	"time"

	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var sessionStart = time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	config.LoadConfig()
	os.Exit(m.Run())
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// seedSessionWorld creates a published course with one live-session item, an
// enrolled student and a scheduled one-hour session bound to the item.
func seedSessionWorld(t *testing.T, db *gorm.DB) (courseModels.LiveSession, courseModels.ContentItem, models.User) {
	t.Helper()

	user := models.User{Name: "Asha", Email: "asha@example.com", Role: "STUDENT"}
	require.NoError(t, db.Create(&user).Error)

	crs := courseModels.Course{Title: "Live Course", Status: courseModels.CourseStatusActive, IsPublished: true}
	require.NoError(t, db.Create(&crs).Error)

	topic := courseModels.Topic{CourseID: crs.ID, Title: "Week 1", OrderIndex: 1, IsPublished: true}
	require.NoError(t, db.Create(&topic).Error)

	item := courseModels.ContentItem{
		CourseID:           crs.ID,
		TopicID:            topic.ID,
		Title:              "Kickoff call",
		ContentType:        courseModels.ContentTypeLiveSession,
		CompletionCriteria: courseModels.CriteriaAttendance,
		IsRequired:         true,
		IsPublished:        true,
	}
	require.NoError(t, db.Create(&item).Error)

	require.NoError(t, db.Create(&courseModels.Enrollment{
		UserID:     user.ID,
		CourseID:   crs.ID,
		Status:     courseModels.EnrollmentActive,
		EnrolledAt: time.Now(),
	}).Error)

	session := courseModels.LiveSession{
		CourseID:       crs.ID,
		ContentItemID:  item.ID,
		Title:          "Kickoff call",
		MeetingID:      "mtg-1",
		ScheduledStart: sessionStart,
		ScheduledEnd:   sessionStart.Add(time.Hour),
		Status:         courseModels.SessionEnded,
	}
	require.NoError(t, db.Create(&session).Error)

	return session, item, user
}

func addJoinSpan(t *testing.T, db *gorm.DB, sessionID, userID uint, joinMin, leaveMin int, cameraOn bool) courseModels.AttendanceRecord {
	t.Helper()

	var record courseModels.AttendanceRecord
	err := db.Where("session_id = ? AND user_id = ?", sessionID, userID).First(&record).Error
	if err != nil {
		record = courseModels.AttendanceRecord{SessionID: sessionID, UserID: userID}
		require.NoError(t, db.Create(&record).Error)
	}

	leave := sessionStart.Add(time.Duration(leaveMin) * time.Minute)
	require.NoError(t, db.Create(&courseModels.JoinEvent{
		AttendanceRecordID: record.ID,
		JoinTime:           sessionStart.Add(time.Duration(joinMin) * time.Minute),
		LeaveTime:          &leave,
		InitialCameraOn:    cameraOn,
	}).Error)
	return record
}

func TestFinalizeSessionDerivesAttendanceAndCompletes(t *testing.T) {
	db := testDB(t)
	session, item, user := seedSessionWorld(t, db)

	// 40 of 60 minutes present, camera on throughout.
	addJoinSpan(t, db, session.ID, user.ID, 0, 40, true)

	require.NoError(t, FinalizeSession(db, &session))
	assert.Equal(t, courseModels.SessionFinalized, session.Status)

	var record courseModels.AttendanceRecord
	require.NoError(t, db.Where("session_id = ? AND user_id = ?", session.ID, user.ID).First(&record).Error)
	assert.InDelta(t, 66.7, record.AttendancePercentage, 0.1)
	assert.InDelta(t, 100, record.CameraPercentage, 0.001)
	assert.True(t, record.CameraOpened)
	assert.False(t, record.JoinedLate)

	// Attendance above the completion threshold completes the content item.
	var entry courseModels.ContentProgress
	require.NoError(t, db.Where("user_id = ? AND content_item_id = ?", user.ID, item.ID).First(&entry).Error)
	assert.Equal(t, courseModels.StatusCompleted, entry.CompletionStatus)
	assert.NotNil(t, entry.CompletedAt)
}

func TestFinalizeSessionBelowThresholdStaysInProgress(t *testing.T) {
	db := testDB(t)
	session, item, user := seedSessionWorld(t, db)

	// 20 of 60 minutes present.
	addJoinSpan(t, db, session.ID, user.ID, 0, 20, false)

	require.NoError(t, FinalizeSession(db, &session))

	var entry courseModels.ContentProgress
	require.NoError(t, db.Where("user_id = ? AND content_item_id = ?", user.ID, item.ID).First(&entry).Error)
	assert.Equal(t, courseModels.StatusInProgress, entry.CompletionStatus)
	assert.Nil(t, entry.CompletedAt)
}

func TestFinalizeSessionIdempotent(t *testing.T) {
	db := testDB(t)
	session, _, user := seedSessionWorld(t, db)
	addJoinSpan(t, db, session.ID, user.ID, 0, 60, true)

	require.NoError(t, FinalizeSession(db, &session))
	firstEnd := session.ActualEnd

	require.NoError(t, FinalizeSession(db, &session))
	assert.Equal(t, firstEnd, session.ActualEnd)

	var count int64
	require.NoError(t, db.Model(&courseModels.AttendanceRecord{}).
		Where("session_id = ?", session.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestFinalizeSessionSkipsUnenrolledParticipant(t *testing.T) {
	db := testDB(t)
	session, item, _ := seedSessionWorld(t, db)

	outsider := models.User{Name: "Guest", Email: "guest@example.com", Role: "STUDENT"}
	require.NoError(t, db.Create(&outsider).Error)
	addJoinSpan(t, db, session.ID, outsider.ID, 0, 60, true)

	// The attendance record is still derived; only the progress feed is skipped.
	require.NoError(t, FinalizeSession(db, &session))

	var record courseModels.AttendanceRecord
	require.NoError(t, db.Where("session_id = ? AND user_id = ?", session.ID, outsider.ID).First(&record).Error)
	assert.InDelta(t, 100, record.AttendancePercentage, 0.001)

	var count int64
	require.NoError(t, db.Model(&courseModels.ContentProgress{}).
		Where("user_id = ? AND content_item_id = ?", outsider.ID, item.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestFinalizeSessionJoinedLate(t *testing.T) {
	db := testDB(t)
	session, _, user := seedSessionWorld(t, db)

	// Joined 35 minutes in, stayed to the end.
	addJoinSpan(t, db, session.ID, user.ID, 35, 60, false)

	require.NoError(t, FinalizeSession(db, &session))

	var record courseModels.AttendanceRecord
	require.NoError(t, db.Where("session_id = ? AND user_id = ?", session.ID, user.ID).First(&record).Error)
	assert.True(t, record.JoinedLate)
}
