package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment statuses
const (
	EnrollmentActive    = "ACTIVE"
	EnrollmentCompleted = "COMPLETED"
	EnrollmentPaused    = "PAUSED"
	EnrollmentCancelled = "CANCELLED"
)

// Completion statuses for a single content item
const (
	StatusNotStarted = "NOT_STARTED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

// Enrollment tracks a student's enrollment in a course.
// Progress is a denormalized hint refreshed opportunistically; correctness-sensitive
// reads recompute from ContentProgress (see progress.Aggregator).
type Enrollment struct {
	gorm.Model
	UserID       uint       `json:"user_id" gorm:"index:idx_enrollment_user_course;not null"`
	CourseID     uint       `json:"course_id" gorm:"index:idx_enrollment_user_course;not null"`
	Status       string     `json:"status" gorm:"default:'ACTIVE'"`
	Progress     float64    `json:"progress" gorm:"default:0"` // cached percentage (0-100), may be stale
	EnrolledAt   time.Time  `json:"enrolled_at"`
	LastAccessed *time.Time `json:"last_accessed"`
	CompletedAt  *time.Time `json:"completed_at"`
	IsDeleted    bool       `gorm:"default:false"`
}

// ContentProgress is the per-student, per-content-item record of interaction
// and completion state. Created lazily on first interaction.
type ContentProgress struct {
	gorm.Model
	UserID             uint       `json:"user_id" gorm:"uniqueIndex:idx_progress_entry;not null"`
	CourseID           uint       `json:"course_id" gorm:"index;not null"`
	ContentItemID      uint       `json:"content_item_id" gorm:"uniqueIndex:idx_progress_entry;not null"`
	CompletionStatus   string     `json:"completion_status" gorm:"default:'NOT_STARTED'"`
	ProgressPercentage float64    `json:"progress_percentage" gorm:"default:0"`
	TimeSpent          int        `json:"time_spent" gorm:"default:0"` // minutes
	LastAccessedDate   *time.Time `json:"last_accessed_date"`
	CompletedAt        *time.Time `json:"completed_at"`
	AttemptCount       int        `json:"attempt_count" gorm:"default:0"`
	BestScore          float64    `json:"best_score" gorm:"default:0"`
	TotalPoints        float64    `json:"total_points" gorm:"default:0"`
	IsDeleted          bool       `gorm:"default:false"`
}

// Attempt represents one graded submission against an assessable content item.
// AttemptKey is a client-supplied idempotency key, unique per progress entry; a
// retried submission with the same key must not produce a second row, while the
// same key on another entry is an unrelated attempt.
type Attempt struct {
	gorm.Model
	ContentProgressID uint      `json:"content_progress_id" gorm:"uniqueIndex:idx_attempt_identity;not null"`
	AttemptKey        string    `json:"attempt_key" gorm:"uniqueIndex:idx_attempt_identity;size:64;not null"`
	AttemptNumber     int       `json:"attempt_number" gorm:"default:1"`
	Score             float64   `json:"score"`
	TotalPoints       float64   `json:"total_points"`
	CorrectCount      int       `json:"correct_count"`
	TotalCount        int       `json:"total_count"`
	SubmittedAt       time.Time `json:"submitted_at"`
	Passed            bool      `json:"passed" gorm:"default:false"`
	IsDeleted         bool      `gorm:"default:false"`
}
