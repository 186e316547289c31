// Package progress implements the content progress and completion engine: the
// pure completion evaluator, the per-entry progress store, quiz grading, and
// the topic/course aggregator.
package progress

import (
	"errors"
	"time"

	courseModels "lms/models/course"
)

// AttendanceCompletionThreshold is the attendance percentage at or above which
// a live-session item counts as completed.
const AttendanceCompletionThreshold = 50.0

var (
	ErrNotFound          = errors.New("record not found")
	ErrNotEnrolled       = errors.New("user not enrolled in course")
	ErrLocked            = errors.New("content item is locked")
	ErrInvalidSignal     = errors.New("invalid signal")
	ErrAttemptsExhausted = errors.New("no attempts remaining")
)

// Signal is one student interaction fed to the evaluator. Exactly one of the
// concrete types below applies, matched against the item's completion criterion.
type Signal interface {
	signal()
}

// ViewSignal records an access to a view-criterion item (video, reading).
// Both fields are cumulative as reported by the client, so a retried signal
// with the same payload is a no-op.
type ViewSignal struct {
	ProgressPercentage float64 // 0-100, furthest position reached
	TimeSpentMinutes   int     // total minutes spent so far
}

// AttemptSignal records one graded submission against an assessable item.
// Score is a percentage (0-100) so it compares directly to the passing score.
type AttemptSignal struct {
	AttemptKey   string
	Score        float64
	TotalPoints  float64
	CorrectCount int
	TotalCount   int
	SubmittedAt  time.Time
}

// AttendanceSignal carries the attendance analytics result for a live-session
// item at session end.
type AttendanceSignal struct {
	AttendancePercentage float64
}

func (ViewSignal) signal()       {}
func (AttemptSignal) signal()    {}
func (AttendanceSignal) signal() {}

// Outcome reports what a signal did to the entry.
type Outcome struct {
	AttemptPassed bool // for attempt signals: this attempt met the passing rule
	Completed     bool // this signal transitioned the entry into COMPLETED
}

// Evaluate applies one signal to a content-progress entry in place and returns
// what happened. It is a pure decision function: no storage access, and a
// rejected signal leaves the entry untouched.
//
// Completion is monotonic: once COMPLETED the entry never regresses and
// CompletedAt is stamped exactly once.
func Evaluate(item *courseModels.ContentItem, entry *courseModels.ContentProgress, sig Signal, now time.Time) (Outcome, error) {
	switch s := sig.(type) {
	case ViewSignal:
		return evaluateView(item, entry, s, now)
	case AttemptSignal:
		return evaluateAttempt(item, entry, s, now)
	case AttendanceSignal:
		return evaluateAttendance(item, entry, s, now)
	default:
		return Outcome{}, ErrInvalidSignal
	}
}

func evaluateView(item *courseModels.ContentItem, entry *courseModels.ContentProgress, sig ViewSignal, now time.Time) (Outcome, error) {
	if item.CompletionCriteria != courseModels.CriteriaView {
		return Outcome{}, ErrInvalidSignal
	}
	if sig.ProgressPercentage < 0 || sig.ProgressPercentage > 100 || sig.TimeSpentMinutes < 0 {
		return Outcome{}, ErrInvalidSignal
	}

	var out Outcome
	if sig.TimeSpentMinutes > entry.TimeSpent {
		entry.TimeSpent = sig.TimeSpentMinutes
	}
	if sig.ProgressPercentage > entry.ProgressPercentage {
		entry.ProgressPercentage = sig.ProgressPercentage
	}
	if entry.CompletionStatus != courseModels.StatusCompleted {
		if entry.ProgressPercentage >= 100 {
			markCompleted(entry, now)
			out.Completed = true
		} else {
			entry.CompletionStatus = courseModels.StatusInProgress
		}
	}
	entry.LastAccessedDate = &now
	return out, nil
}

func evaluateAttempt(item *courseModels.ContentItem, entry *courseModels.ContentProgress, sig AttemptSignal, now time.Time) (Outcome, error) {
	if item.CompletionCriteria != courseModels.CriteriaPassAssessment {
		return Outcome{}, ErrInvalidSignal
	}
	if sig.Score < 0 || sig.Score > 100 || sig.CorrectCount < 0 || sig.CorrectCount > sig.TotalCount {
		return Outcome{}, ErrInvalidSignal
	}

	passingScore, maxAttempts := item.PassingRule()
	if entry.CompletionStatus != courseModels.StatusCompleted &&
		maxAttempts > 0 && entry.AttemptCount >= maxAttempts {
		return Outcome{}, ErrAttemptsExhausted
	}

	out := Outcome{AttemptPassed: sig.Score >= passingScore}
	entry.AttemptCount++
	if sig.Score > entry.BestScore || entry.AttemptCount == 1 {
		entry.BestScore = sig.Score
	}
	if sig.TotalPoints > 0 {
		entry.TotalPoints = sig.TotalPoints
	}

	if entry.CompletionStatus != courseModels.StatusCompleted {
		switch {
		case out.AttemptPassed:
			markCompleted(entry, now)
			out.Completed = true
		case maxAttempts > 0 && entry.AttemptCount >= maxAttempts:
			entry.CompletionStatus = courseModels.StatusFailed
		default:
			entry.CompletionStatus = courseModels.StatusInProgress
		}
	}
	entry.LastAccessedDate = &now
	return out, nil
}

func evaluateAttendance(item *courseModels.ContentItem, entry *courseModels.ContentProgress, sig AttendanceSignal, now time.Time) (Outcome, error) {
	if item.CompletionCriteria != courseModels.CriteriaAttendance {
		return Outcome{}, ErrInvalidSignal
	}
	if sig.AttendancePercentage < 0 || sig.AttendancePercentage > 100 {
		return Outcome{}, ErrInvalidSignal
	}

	var out Outcome
	if sig.AttendancePercentage > entry.ProgressPercentage {
		entry.ProgressPercentage = sig.AttendancePercentage
	}
	if entry.CompletionStatus != courseModels.StatusCompleted {
		if sig.AttendancePercentage >= AttendanceCompletionThreshold {
			markCompleted(entry, now)
			out.Completed = true
		} else {
			entry.CompletionStatus = courseModels.StatusInProgress
		}
	}
	entry.LastAccessedDate = &now
	return out, nil
}

// markCompleted stamps CompletedAt once; re-completion keeps the first stamp.
func markCompleted(entry *courseModels.ContentProgress, now time.Time) {
	entry.CompletionStatus = courseModels.StatusCompleted
	entry.ProgressPercentage = 100
	if entry.CompletedAt == nil {
		entry.CompletedAt = &now
	}
}
