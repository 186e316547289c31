package controllers

import (
	"errors"
	"log"

	"lms/catalog"
	"lms/database"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminDuplicateCourse clones a course subtree. The clone commits atomically
// or not at all; a failure leaves the original untouched and no partial copy.
func AdminDuplicateCourse(c *fiber.Ctx) error {
	adminID, _ := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(int)

	result, err := catalog.DuplicateCourse(database.Database.Db, uint(courseID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		log.Printf("[CATALOG] course %d duplication rolled back: %v", courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Duplication failed and was rolled back!", nil)
	}

	log.Printf("[CATALOG] admin %d duplicated course %d -> %d (%d items, %d live sessions skipped)",
		adminID, courseID, result.NewCourseID, len(result.IDMap), len(result.SkippedLiveSessions))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course duplicated successfully!", result)
}

// AdminDuplicateTopic clones a topic within its course, same transactional rules
func AdminDuplicateTopic(c *fiber.Ctx) error {
	adminID, _ := c.Locals("userId").(uint)
	topicID := c.Locals("topicID").(int)

	result, err := catalog.DuplicateTopic(database.Database.Db, uint(topicID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Topic not found!", nil)
		}
		log.Printf("[CATALOG] topic %d duplication rolled back: %v", topicID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Duplication failed and was rolled back!", nil)
	}

	log.Printf("[CATALOG] admin %d duplicated topic %d -> %d (%d items, %d live sessions skipped)",
		adminID, topicID, result.NewTopicIDs[0], len(result.IDMap), len(result.SkippedLiveSessions))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Topic duplicated successfully!", result)
}
