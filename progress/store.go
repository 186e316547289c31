package progress

import (
	"errors"
	"log"
	"time"

	"lms/catalog"
	courseModels "lms/models/course"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store locates, lazily creates and updates content-progress entries. Updates
// to one entry are serialized through a row lock inside a transaction; attempt
// appends are atomic inserts keyed by the client idempotency key, so a retried
// request never produces a duplicate attempt or a lost one.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Apply records one signal for (user, course, content) and returns the updated
// entry. Validation failures surface before any mutation; a replayed attempt
// key returns the stored state unchanged.
func (s *Store) Apply(userID, courseID, contentID uint, sig Signal) (*courseModels.ContentProgress, Outcome, error) {
	item, err := s.loadItem(courseID, contentID)
	if err != nil {
		return nil, Outcome{}, err
	}
	if err := s.checkEnrollment(userID, courseID); err != nil {
		return nil, Outcome{}, err
	}

	unlocked, err := catalog.ItemUnlocked(s.db, userID, item)
	if err != nil {
		return nil, Outcome{}, err
	}
	if !unlocked {
		return nil, Outcome{}, ErrLocked
	}

	var entry courseModels.ContentProgress
	var out Outcome
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = s.lockEntry(tx, userID, courseID, contentID)
		if err != nil {
			return err
		}

		if att, ok := sig.(AttemptSignal); ok {
			var existing courseModels.Attempt
			err := tx.Where("content_progress_id = ? AND attempt_key = ? AND is_deleted = ?",
				entry.ID, att.AttemptKey, false).First(&existing).Error
			if err == nil {
				// Retried request: same stored state, no second attempt row.
				out = Outcome{AttemptPassed: existing.Passed}
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		out, err = Evaluate(item, &entry, sig, time.Now())
		if err != nil {
			return err
		}

		if att, ok := sig.(AttemptSignal); ok {
			attempt := courseModels.Attempt{
				ContentProgressID: entry.ID,
				AttemptKey:        att.AttemptKey,
				AttemptNumber:     entry.AttemptCount,
				Score:             att.Score,
				TotalPoints:       att.TotalPoints,
				CorrectCount:      att.CorrectCount,
				TotalCount:        att.TotalCount,
				SubmittedAt:       att.SubmittedAt,
				Passed:            out.AttemptPassed,
			}
			if err := tx.Create(&attempt).Error; err != nil {
				return err
			}
		}

		return tx.Save(&entry).Error
	})
	if err != nil {
		return nil, Outcome{}, err
	}

	// Best-effort cache refresh; the aggregator never trusts it.
	NewAggregator(s.db).RefreshEnrollment(userID, courseID)

	return &entry, out, nil
}

// ResetAttempts clears a student's attempts on one content item and returns the
// entry to NOT_STARTED. Irreversible and admin-only; always logged.
func (s *Store) ResetAttempts(adminID, userID, courseID, contentID uint) (*courseModels.ContentProgress, error) {
	var entry courseModels.ContentProgress
	err := s.db.Transaction(func(tx *gorm.DB) error {
		q := tx.Where("user_id = ? AND course_id = ? AND content_item_id = ? AND is_deleted = ?",
			userID, courseID, contentID, false)
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Model(&courseModels.Attempt{}).
			Where("content_progress_id = ? AND is_deleted = ?", entry.ID, false).
			Update("is_deleted", true).Error; err != nil {
			return err
		}

		entry.CompletionStatus = courseModels.StatusNotStarted
		entry.ProgressPercentage = 0
		entry.AttemptCount = 0
		entry.BestScore = 0
		entry.TotalPoints = 0
		entry.CompletedAt = nil
		return tx.Save(&entry).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[PROGRESS] admin %d reset attempts for user %d, course %d, content %d", adminID, userID, courseID, contentID)

	NewAggregator(s.db).RefreshEnrollment(userID, courseID)
	return &entry, nil
}

// Entry returns the stored progress entry, or ErrNotFound when the student has
// never touched the item.
func (s *Store) Entry(userID, courseID, contentID uint) (*courseModels.ContentProgress, error) {
	var entry courseModels.ContentProgress
	err := s.db.Where("user_id = ? AND course_id = ? AND content_item_id = ? AND is_deleted = ?",
		userID, courseID, contentID, false).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Store) loadItem(courseID, contentID uint) (*courseModels.ContentItem, error) {
	var item courseModels.ContentItem
	err := s.db.Where("id = ? AND course_id = ? AND is_published = ? AND is_deleted = ?",
		contentID, courseID, true, false).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) checkEnrollment(userID, courseID uint) error {
	var enrollment courseModels.Enrollment
	err := s.db.Where("user_id = ? AND course_id = ? AND status IN ? AND is_deleted = ?",
		userID, courseID, []string{courseModels.EnrollmentActive, courseModels.EnrollmentCompleted}, false).
		First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotEnrolled
	}
	return err
}

// lockEntry loads the entry under FOR UPDATE, creating it lazily on first
// interaction. SQLite has a single writer and no FOR UPDATE, so the lock
// clause is applied on postgres only.
func (s *Store) lockEntry(tx *gorm.DB, userID, courseID, contentID uint) (courseModels.ContentProgress, error) {
	var entry courseModels.ContentProgress

	q := tx.Where("user_id = ? AND course_id = ? AND content_item_id = ? AND is_deleted = ?",
		userID, courseID, contentID, false)
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	err := q.First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		entry = courseModels.ContentProgress{
			UserID:           userID,
			CourseID:         courseID,
			ContentItemID:    contentID,
			CompletionStatus: courseModels.StatusNotStarted,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error; err != nil {
			return entry, err
		}
		if entry.ID == 0 {
			// Lost the insert race; take the winner's row.
			err = q.First(&entry).Error
		} else {
			err = nil
		}
	}
	return entry, err
}
