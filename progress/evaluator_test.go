package progress

import (
	"fmt"
	"testing"
	"time"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func videoItem() *courseModels.ContentItem {
	return &courseModels.ContentItem{
		ContentType:        courseModels.ContentTypeVideo,
		CompletionCriteria: courseModels.CriteriaView,
	}
}

func quizItem(passingScore float64, maxAttempts int) *courseModels.ContentItem {
	return &courseModels.ContentItem{
		ContentType:        courseModels.ContentTypeQuiz,
		CompletionCriteria: courseModels.CriteriaPassAssessment,
		Settings: datatypes.JSON(
			fmt.Sprintf(`{"passing_score":%g,"max_attempts":%d}`, passingScore, maxAttempts)),
	}
}

func sessionItem() *courseModels.ContentItem {
	return &courseModels.ContentItem{
		ContentType:        courseModels.ContentTypeLiveSession,
		CompletionCriteria: courseModels.CriteriaAttendance,
	}
}

func TestViewPartialThenComplete(t *testing.T) {
	item := videoItem()
	entry := &courseModels.ContentProgress{CompletionStatus: courseModels.StatusNotStarted}

	out, err := Evaluate(item, entry, ViewSignal{ProgressPercentage: 50, TimeSpentMinutes: 10}, now)
	require.NoError(t, err)
	assert.False(t, out.Completed)
	assert.Equal(t, courseModels.StatusInProgress, entry.CompletionStatus)
	assert.InDelta(t, 50, entry.ProgressPercentage, 0.001)
	assert.Equal(t, 10, entry.TimeSpent)

	out, err = Evaluate(item, entry, ViewSignal{ProgressPercentage: 100, TimeSpentMinutes: 25}, now)
	require.NoError(t, err)
	assert.True(t, out.Completed)
	assert.Equal(t, courseModels.StatusCompleted, entry.CompletionStatus)
	require.NotNil(t, entry.CompletedAt)
	assert.Equal(t, now, *entry.CompletedAt)
}

func TestViewNeverRegresses(t *testing.T) {
	item := videoItem()
	entry := &courseModels.ContentProgress{CompletionStatus: courseModels.StatusNotStarted}

	_, err := Evaluate(item, entry, ViewSignal{ProgressPercentage: 100, TimeSpentMinutes: 30}, now)
	require.NoError(t, err)
	firstStamp := *entry.CompletedAt

	// A stale report with lower numbers must not undo completion.
	later := now.Add(time.Hour)
	out, err := Evaluate(item, entry, ViewSignal{ProgressPercentage: 80, TimeSpentMinutes: 20}, later)
	require.NoError(t, err)
	assert.False(t, out.Completed)
	assert.Equal(t, courseModels.StatusCompleted, entry.CompletionStatus)
	assert.InDelta(t, 100, entry.ProgressPercentage, 0.001)
	assert.Equal(t, 30, entry.TimeSpent)
	assert.Equal(t, firstStamp, *entry.CompletedAt)
}

func TestViewCumulativeFieldsUseMax(t *testing.T) {
	item := videoItem()
	entry := &courseModels.ContentProgress{CompletionStatus: courseModels.StatusNotStarted}

	_, err := Evaluate(item, entry, ViewSignal{ProgressPercentage: 40, TimeSpentMinutes: 15}, now)
	require.NoError(t, err)

	// Replayed signal with identical totals changes nothing.
	_, err = Evaluate(item, entry, ViewSignal{ProgressPercentage: 40, TimeSpentMinutes: 15}, now)
	require.NoError(t, err)
	assert.InDelta(t, 40, entry.ProgressPercentage, 0.001)
	assert.Equal(t, 15, entry.TimeSpent)
}

func TestViewSignalRejectedOnWrongCriteria(t *testing.T) {
	item := quizItem(70, 3)
	entry := &courseModels.ContentProgress{}

	_, err := Evaluate(item, entry, ViewSignal{ProgressPercentage: 50}, now)
	assert.ErrorIs(t, err, ErrInvalidSignal)
	assert.Zero(t, entry.ProgressPercentage)
}

func TestViewSignalRejectedOutOfRange(t *testing.T) {
	item := videoItem()
	entry := &courseModels.ContentProgress{}

	_, err := Evaluate(item, entry, ViewSignal{ProgressPercentage: 120}, now)
	assert.ErrorIs(t, err, ErrInvalidSignal)

	_, err = Evaluate(item, entry, ViewSignal{ProgressPercentage: 50, TimeSpentMinutes: -1}, now)
	assert.ErrorIs(t, err, ErrInvalidSignal)
}

func TestAttemptFailFailPass(t *testing.T) {
	item := quizItem(70, 3)
	entry := &courseModels.ContentProgress{CompletionStatus: courseModels.StatusNotStarted}

	out, err := Evaluate(item, entry, AttemptSignal{Score: 50}, now)
	require.NoError(t, err)
	assert.False(t, out.AttemptPassed)
	assert.Equal(t, courseModels.StatusInProgress, entry.CompletionStatus)
	assert.InDelta(t, 50, entry.BestScore, 0.001)

	out, err = Evaluate(item, entry, AttemptSignal{Score: 60}, now)
	require.NoError(t, err)
	assert.False(t, out.AttemptPassed)
	assert.InDelta(t, 60, entry.BestScore, 0.001)

	out, err = Evaluate(item, entry, AttemptSignal{Score: 80}, now)
	require.NoError(t, err)
	assert.True(t, out.AttemptPassed)
	assert.True(t, out.Completed)
	assert.Equal(t, courseModels.StatusCompleted, entry.CompletionStatus)
	assert.InDelta(t, 80, entry.BestScore, 0.001)
	assert.Equal(t, 3, entry.AttemptCount)
}

func TestAttemptExhaustionFailsThenRejects(t *testing.T) {
	item := quizItem(70, 2)
	entry := &courseModels.ContentProgress{CompletionStatus: courseModels.StatusNotStarted}

	_, err := Evaluate(item, entry, AttemptSignal{Score: 30}, now)
	require.NoError(t, err)

	_, err = Evaluate(item, entry, AttemptSignal{Score: 40}, now)
	require.NoError(t, err)
	assert.Equal(t, courseModels.StatusFailed, entry.CompletionStatus)
	assert.Equal(t, 2, entry.AttemptCount)

	// The rejected attempt must leave the entry untouched.
	_, err = Evaluate(item, entry, AttemptSignal{Score: 95}, now)
	assert.ErrorIs(t, err, ErrAttemptsExhausted)
	assert.Equal(t, 2, entry.AttemptCount)
	assert.InDelta(t, 40, entry.BestScore, 0.001)
	assert.Equal(t, courseModels.StatusFailed, entry.CompletionStatus)
}

func TestAttemptAfterCompletionKeepsFirstStamp(t *testing.T) {
	item := quizItem(70, 2)
	entry := &courseModels.ContentProgress{CompletionStatus: courseModels.StatusNotStarted}

	_, err := Evaluate(item, entry, AttemptSignal{Score: 90}, now)
	require.NoError(t, err)
	firstStamp := *entry.CompletedAt

	// Attempt limits no longer apply once completed; best score may still improve.
	later := now.Add(time.Hour)
	out, err := Evaluate(item, entry, AttemptSignal{Score: 95}, later)
	require.NoError(t, err)
	assert.True(t, out.AttemptPassed)
	assert.False(t, out.Completed)
	assert.InDelta(t, 95, entry.BestScore, 0.001)
	assert.Equal(t, courseModels.StatusCompleted, entry.CompletionStatus)
	assert.Equal(t, firstStamp, *entry.CompletedAt)
}

func TestAttemptDefaultPassingScore(t *testing.T) {
	item := &courseModels.ContentItem{
		ContentType:        courseModels.ContentTypeQuiz,
		CompletionCriteria: courseModels.CriteriaPassAssessment,
	}
	entry := &courseModels.ContentProgress{CompletionStatus: courseModels.StatusNotStarted}

	out, err := Evaluate(item, entry, AttemptSignal{Score: 59}, now)
	require.NoError(t, err)
	assert.False(t, out.AttemptPassed)

	out, err = Evaluate(item, entry, AttemptSignal{Score: 60}, now)
	require.NoError(t, err)
	assert.True(t, out.AttemptPassed)
}

func TestAttemptRejectedOutOfRange(t *testing.T) {
	item := quizItem(70, 0)
	entry := &courseModels.ContentProgress{}

	_, err := Evaluate(item, entry, AttemptSignal{Score: 101}, now)
	assert.ErrorIs(t, err, ErrInvalidSignal)

	_, err = Evaluate(item, entry, AttemptSignal{Score: 50, CorrectCount: 5, TotalCount: 3}, now)
	assert.ErrorIs(t, err, ErrInvalidSignal)
	assert.Zero(t, entry.AttemptCount)
}

func TestAttendanceThreshold(t *testing.T) {
	item := sessionItem()

	entry := &courseModels.ContentProgress{CompletionStatus: courseModels.StatusNotStarted}
	out, err := Evaluate(item, entry, AttendanceSignal{AttendancePercentage: 49.9}, now)
	require.NoError(t, err)
	assert.False(t, out.Completed)
	assert.Equal(t, courseModels.StatusInProgress, entry.CompletionStatus)

	out, err = Evaluate(item, entry, AttendanceSignal{AttendancePercentage: 50}, now)
	require.NoError(t, err)
	assert.True(t, out.Completed)
	assert.Equal(t, courseModels.StatusCompleted, entry.CompletionStatus)
}

func TestAttendanceRejectedOnWrongCriteria(t *testing.T) {
	item := videoItem()
	entry := &courseModels.ContentProgress{}

	_, err := Evaluate(item, entry, AttendanceSignal{AttendancePercentage: 80}, now)
	assert.ErrorIs(t, err, ErrInvalidSignal)
}
