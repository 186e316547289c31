package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/progress"

	"github.com/gofiber/fiber/v2"
)

// AdminContentStats returns cross-student statistics for one content item.
func AdminContentStats(c *fiber.Ctx) error {
	contentID := c.Locals("contentID").(int)

	agg := progress.NewAggregator(database.Database.Db)
	stats, err := agg.ContentStats(uint(contentID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content statistics fetched successfully!", stats)
}

// AdminTopicStats returns per-item statistics for every published item of a topic.
func AdminTopicStats(c *fiber.Ctx) error {
	topicID := c.Locals("topicID").(int)

	agg := progress.NewAggregator(database.Database.Db)
	stats, err := agg.TopicStats(uint(topicID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Topic not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Topic statistics fetched successfully!", stats)
}

// AdminCourseStats returns the course-wide completion and score breakdown.
func AdminCourseStats(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	agg := progress.NewAggregator(database.Database.Db)
	stats, err := agg.CourseStatistics(uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course statistics fetched successfully!", stats)
}
