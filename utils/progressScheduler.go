package utils

import (
	"log"

	"lms/database"
	courseModels "lms/models/course"
	"lms/progress"

	"github.com/robfig/cron/v3"
)

// InitializeProgressScheduler sets up the nightly enrollment-progress cache refresh
func InitializeProgressScheduler() *cron.Cron {
	log.Println("[PROGRESS-SCHEDULER] Initializing progress cache scheduler...")

	c := cron.New()

	// Run nightly at 3 AM; the cached Enrollment.Progress is a hint only and
	// drifts between refreshes
	c.AddFunc("0 3 * * *", func() {
		log.Println("[PROGRESS-SCHEDULER] Running nightly progress cache refresh...")
		RefreshAllEnrollmentProgress()
	})

	c.Start()
	log.Println("[PROGRESS-SCHEDULER] Progress cache scheduler started - runs nightly at 3 AM")
	return c
}

// RefreshAllEnrollmentProgress recomputes the cached progress of every active enrollment
func RefreshAllEnrollmentProgress() {
	db := database.Database.Db

	var enrollments []courseModels.Enrollment
	err := db.Where("status = ? AND is_deleted = ?", courseModels.EnrollmentActive, false).
		Find(&enrollments).Error
	if err != nil {
		log.Printf("[PROGRESS-SCHEDULER] Error fetching enrollments: %v", err)
		return
	}

	agg := progress.NewAggregator(db)
	for _, e := range enrollments {
		agg.RefreshEnrollment(e.UserID, e.CourseID)
	}

	log.Printf("[PROGRESS-SCHEDULER] Refreshed %d enrollments", len(enrollments))
}
