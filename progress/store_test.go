package progress

import (
	"testing"
	"time"

	"lms/database"
	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const studentID uint = 1

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// seedCourse creates a published course with one topic and an active enrollment
// for the test student.
func seedCourse(t *testing.T, db *gorm.DB) (courseModels.Course, courseModels.Topic) {
	t.Helper()

	crs := courseModels.Course{
		Title:       "Algorithms 101",
		Status:      courseModels.CourseStatusActive,
		IsPublished: true,
	}
	require.NoError(t, db.Create(&crs).Error)

	topic := courseModels.Topic{
		CourseID:        crs.ID,
		Title:           "Sorting",
		OrderIndex:      1,
		UnlockCondition: courseModels.UnlockImmediate,
		IsPublished:     true,
	}
	require.NoError(t, db.Create(&topic).Error)

	enrollment := courseModels.Enrollment{
		UserID:     studentID,
		CourseID:   crs.ID,
		Status:     courseModels.EnrollmentActive,
		EnrolledAt: time.Now(),
	}
	require.NoError(t, db.Create(&enrollment).Error)

	return crs, topic
}

func seedItem(t *testing.T, db *gorm.DB, topic courseModels.Topic, contentType, criteria string, order int) courseModels.ContentItem {
	t.Helper()
	item := courseModels.ContentItem{
		CourseID:           topic.CourseID,
		TopicID:            topic.ID,
		Title:              contentType + " item",
		ContentType:        contentType,
		CompletionCriteria: criteria,
		OrderIndex:         order,
		IsRequired:         true,
		IsPublished:        true,
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func TestApplyLazilyCreatesEntry(t *testing.T) {
	db := testDB(t)
	crs, topic := seedCourse(t, db)
	item := seedItem(t, db, topic, courseModels.ContentTypeVideo, courseModels.CriteriaView, 1)

	store := NewStore(db)
	entry, out, err := store.Apply(studentID, crs.ID, item.ID, ViewSignal{ProgressPercentage: 50, TimeSpentMinutes: 5})
	require.NoError(t, err)
	assert.False(t, out.Completed)
	assert.Equal(t, courseModels.StatusInProgress, entry.CompletionStatus)

	stored, err := store.Entry(studentID, crs.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, stored.ID)
	assert.InDelta(t, 50, stored.ProgressPercentage, 0.001)
}

func TestApplyRejectsUnpublishedItem(t *testing.T) {
	db := testDB(t)
	crs, topic := seedCourse(t, db)
	item := seedItem(t, db, topic, courseModels.ContentTypeVideo, courseModels.CriteriaView, 1)
	require.NoError(t, db.Model(&item).Update("is_published", false).Error)

	_, _, err := NewStore(db).Apply(studentID, crs.ID, item.ID, ViewSignal{ProgressPercentage: 50})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplyRejectsUnenrolledStudent(t *testing.T) {
	db := testDB(t)
	crs, topic := seedCourse(t, db)
	item := seedItem(t, db, topic, courseModels.ContentTypeVideo, courseModels.CriteriaView, 1)

	_, _, err := NewStore(db).Apply(99, crs.ID, item.ID, ViewSignal{ProgressPercentage: 50})
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestApplyRejectsLockedItem(t *testing.T) {
	db := testDB(t)
	crs, topic := seedCourse(t, db)
	first := seedItem(t, db, topic, courseModels.ContentTypeVideo, courseModels.CriteriaView, 1)

	locked := seedItem(t, db, topic, courseModels.ContentTypeVideo, courseModels.CriteriaView, 2)
	locked.SetPrerequisiteIDs([]uint{first.ID})
	require.NoError(t, db.Save(&locked).Error)

	store := NewStore(db)
	_, _, err := store.Apply(studentID, crs.ID, locked.ID, ViewSignal{ProgressPercentage: 10})
	assert.ErrorIs(t, err, ErrLocked)

	// Completing the prerequisite unlocks it.
	_, _, err = store.Apply(studentID, crs.ID, first.ID, ViewSignal{ProgressPercentage: 100})
	require.NoError(t, err)

	_, _, err = store.Apply(studentID, crs.ID, locked.ID, ViewSignal{ProgressPercentage: 10})
	assert.NoError(t, err)
}

func TestApplyAttemptKeyReplayIsIdempotent(t *testing.T) {
	db := testDB(t)
	crs, topic := seedCourse(t, db)
	item := seedItem(t, db, topic, courseModels.ContentTypeQuiz, courseModels.CriteriaPassAssessment, 1)

	store := NewStore(db)
	sig := AttemptSignal{AttemptKey: "attempt-1", Score: 80, SubmittedAt: time.Now()}

	entry, out, err := store.Apply(studentID, crs.ID, item.ID, sig)
	require.NoError(t, err)
	assert.True(t, out.AttemptPassed)
	assert.True(t, out.Completed)
	assert.Equal(t, 1, entry.AttemptCount)

	// Retried request: same outcome, no second attempt row, no state change.
	entry, out, err = store.Apply(studentID, crs.ID, item.ID, sig)
	require.NoError(t, err)
	assert.True(t, out.AttemptPassed)
	assert.Equal(t, 1, entry.AttemptCount)

	var count int64
	require.NoError(t, db.Model(&courseModels.Attempt{}).
		Where("content_progress_id = ? AND is_deleted = ?", entry.ID, false).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestApplyAttemptKeyScopedPerEntry(t *testing.T) {
	db := testDB(t)
	crs, topic := seedCourse(t, db)
	first := seedItem(t, db, topic, courseModels.ContentTypeQuiz, courseModels.CriteriaPassAssessment, 1)
	second := seedItem(t, db, topic, courseModels.ContentTypeQuiz, courseModels.CriteriaPassAssessment, 2)

	store := NewStore(db)

	// Same client key against two different items: both are real attempts.
	entry1, _, err := store.Apply(studentID, crs.ID, first.ID,
		AttemptSignal{AttemptKey: "attempt-1", Score: 80, SubmittedAt: time.Now()})
	require.NoError(t, err)
	entry2, _, err := store.Apply(studentID, crs.ID, second.ID,
		AttemptSignal{AttemptKey: "attempt-1", Score: 40, SubmittedAt: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, 1, entry1.AttemptCount)
	assert.Equal(t, 1, entry2.AttemptCount)

	// Two students reusing the same key must not interfere either.
	const otherStudent uint = 2
	require.NoError(t, db.Create(&courseModels.Enrollment{
		UserID:     otherStudent,
		CourseID:   crs.ID,
		Status:     courseModels.EnrollmentActive,
		EnrolledAt: time.Now(),
	}).Error)

	otherEntry, out, err := store.Apply(otherStudent, crs.ID, first.ID,
		AttemptSignal{AttemptKey: "attempt-1", Score: 90, SubmittedAt: time.Now()})
	require.NoError(t, err)
	assert.True(t, out.AttemptPassed)
	assert.Equal(t, 1, otherEntry.AttemptCount)
	assert.NotEqual(t, entry1.ID, otherEntry.ID)

	var count int64
	require.NoError(t, db.Model(&courseModels.Attempt{}).
		Where("attempt_key = ? AND is_deleted = ?", "attempt-1", false).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestApplyQuizProgression(t *testing.T) {
	db := testDB(t)
	crs, topic := seedCourse(t, db)
	item := seedItem(t, db, topic, courseModels.ContentTypeQuiz, courseModels.CriteriaPassAssessment, 1)
	require.NoError(t, db.Model(&item).
		Update("settings", `{"passing_score":70,"max_attempts":3}`).Error)

	store := NewStore(db)
	for i, score := range []float64{50, 60} {
		entry, out, err := store.Apply(studentID, crs.ID, item.ID,
			AttemptSignal{AttemptKey: "key-" + string(rune('a'+i)), Score: score, SubmittedAt: time.Now()})
		require.NoError(t, err)
		assert.False(t, out.AttemptPassed)
		assert.Equal(t, courseModels.StatusInProgress, entry.CompletionStatus)
	}

	entry, out, err := store.Apply(studentID, crs.ID, item.ID,
		AttemptSignal{AttemptKey: "key-c", Score: 80, SubmittedAt: time.Now()})
	require.NoError(t, err)
	assert.True(t, out.Completed)
	assert.Equal(t, courseModels.StatusCompleted, entry.CompletionStatus)
	assert.InDelta(t, 80, entry.BestScore, 0.001)
	assert.Equal(t, 3, entry.AttemptCount)
}

func TestApplyRefreshesEnrollmentCache(t *testing.T) {
	db := testDB(t)
	crs, topic := seedCourse(t, db)
	item := seedItem(t, db, topic, courseModels.ContentTypeVideo, courseModels.CriteriaView, 1)

	_, _, err := NewStore(db).Apply(studentID, crs.ID, item.ID, ViewSignal{ProgressPercentage: 100})
	require.NoError(t, err)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", studentID, crs.ID).First(&enrollment).Error)
	assert.InDelta(t, 100, enrollment.Progress, 0.001)
	assert.Equal(t, courseModels.EnrollmentCompleted, enrollment.Status)
	assert.NotNil(t, enrollment.CompletedAt)
}

func TestResetAttempts(t *testing.T) {
	db := testDB(t)
	crs, topic := seedCourse(t, db)
	item := seedItem(t, db, topic, courseModels.ContentTypeQuiz, courseModels.CriteriaPassAssessment, 1)
	require.NoError(t, db.Model(&item).
		Update("settings", `{"passing_score":70,"max_attempts":2}`).Error)

	store := NewStore(db)
	for _, key := range []string{"r1", "r2"} {
		_, _, err := store.Apply(studentID, crs.ID, item.ID,
			AttemptSignal{AttemptKey: key, Score: 30, SubmittedAt: time.Now()})
		require.NoError(t, err)
	}

	_, _, err := store.Apply(studentID, crs.ID, item.ID,
		AttemptSignal{AttemptKey: "r3", Score: 90, SubmittedAt: time.Now()})
	require.ErrorIs(t, err, ErrAttemptsExhausted)

	entry, err := store.ResetAttempts(42, studentID, crs.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, courseModels.StatusNotStarted, entry.CompletionStatus)
	assert.Zero(t, entry.AttemptCount)
	assert.Zero(t, entry.BestScore)
	assert.Nil(t, entry.CompletedAt)

	var live int64
	require.NoError(t, db.Model(&courseModels.Attempt{}).
		Where("content_progress_id = ? AND is_deleted = ?", entry.ID, false).Count(&live).Error)
	assert.Zero(t, live)

	// The student can attempt again after the reset.
	_, out, err := store.Apply(studentID, crs.ID, item.ID,
		AttemptSignal{AttemptKey: "r4", Score: 90, SubmittedAt: time.Now()})
	require.NoError(t, err)
	assert.True(t, out.Completed)
}

func TestResetAttemptsUnknownEntry(t *testing.T) {
	db := testDB(t)
	crs, topic := seedCourse(t, db)
	item := seedItem(t, db, topic, courseModels.ContentTypeQuiz, courseModels.CriteriaPassAssessment, 1)

	_, err := NewStore(db).ResetAttempts(42, studentID, crs.ID, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
