package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// AdminCreateTopic creates a topic within a course
func AdminCreateTopic(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedTopic").(*struct {
		Title           string `json:"title"`
		Description     string `json:"description"`
		OrderIndex      int    `json:"order_index"`
		UnlockCondition string `json:"unlock_condition"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	unlock := reqData.UnlockCondition
	if unlock == "" {
		unlock = courseModels.UnlockImmediate
	}

	topic := courseModels.Topic{
		CourseID:        uint(courseID),
		Title:           reqData.Title,
		Description:     reqData.Description,
		OrderIndex:      reqData.OrderIndex,
		UnlockCondition: unlock,
	}

	if err := database.Database.Db.Create(&topic).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create topic!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Topic created successfully!", topic)
}

// AdminUpdateTopic updates a topic
func AdminUpdateTopic(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	topicID := c.Locals("topicID").(int)

	var topic courseModels.Topic
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", topicID, courseID, false).First(&topic).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Topic not found!", nil)
	}

	reqData, ok := c.Locals("validatedTopicUpdate").(*struct {
		Title           string `json:"title"`
		Description     string `json:"description"`
		OrderIndex      *int   `json:"order_index"`
		UnlockCondition string `json:"unlock_condition"`
		IsPublished     *bool  `json:"is_published"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		topic.Title = reqData.Title
	}
	if reqData.Description != "" {
		topic.Description = reqData.Description
	}
	if reqData.OrderIndex != nil {
		topic.OrderIndex = *reqData.OrderIndex
	}
	if reqData.UnlockCondition != "" {
		topic.UnlockCondition = reqData.UnlockCondition
	}
	if reqData.IsPublished != nil {
		topic.IsPublished = *reqData.IsPublished
	}

	if err := database.Database.Db.Save(&topic).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update topic!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Topic updated successfully!", topic)
}

// AdminDeleteTopic soft deletes a topic and its content items
func AdminDeleteTopic(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	topicID := c.Locals("topicID").(int)

	var topic courseModels.Topic
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", topicID, courseID, false).First(&topic).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Topic not found!", nil)
	}

	tx := database.Database.Db.Begin()

	topic.IsDeleted = true
	topic.IsPublished = false
	if err := tx.Save(&topic).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete topic!", nil)
	}

	if err := tx.Model(&courseModels.ContentItem{}).
		Where("topic_id = ? AND is_deleted = ?", topicID, false).
		Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete topic content!", nil)
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Topic deleted successfully!", nil)
}

// AdminListTopics lists all topics of a course including unpublished ones
func AdminListTopics(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var topics []courseModels.Topic
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").Find(&topics).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch topics!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Topics fetched successfully!", topics)
}
