package controllers

import (
	"errors"

	"lms/catalog"
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// AdminCreateContent creates a content item within a topic
func AdminCreateContent(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	topicID := c.Locals("topicID").(int)

	var topic courseModels.Topic
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", topicID, courseID, false).First(&topic).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Topic not found!", nil)
	}

	reqData, ok := c.Locals("validatedContent").(*struct {
		Title              string         `json:"title"`
		Description        string         `json:"description"`
		ContentType        string         `json:"content_type"`
		CompletionCriteria string         `json:"completion_criteria"`
		OrderIndex         int            `json:"order_index"`
		IsRequired         *bool          `json:"is_required"`
		Prerequisites      []uint         `json:"prerequisites"`
		Dependencies       []uint         `json:"dependencies"`
		Settings           datatypes.JSON `json:"settings"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	item := courseModels.ContentItem{
		CourseID:           uint(courseID),
		TopicID:            uint(topicID),
		Title:              reqData.Title,
		Description:        reqData.Description,
		ContentType:        reqData.ContentType,
		CompletionCriteria: reqData.CompletionCriteria,
		OrderIndex:         reqData.OrderIndex,
		IsRequired:         true,
		Settings:           reqData.Settings,
	}
	if reqData.IsRequired != nil {
		item.IsRequired = *reqData.IsRequired
	}
	item.SetPrerequisiteIDs(reqData.Prerequisites)
	item.SetDependencyIDs(reqData.Dependencies)

	// References are validated before the item exists, so self-reference is
	// impossible here; existence and acyclicity still apply.
	if err := catalog.ValidateReferences(database.Database.Db, uint(courseID), 0, reqData.Prerequisites, reqData.Dependencies); err != nil {
		return referenceErrorResponse(c, err)
	}

	if err := database.Database.Db.Create(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create content item!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Content item created successfully!", item)
}

// AdminUpdateContent updates a content item, re-validating prerequisite and
// dependency references when they change
func AdminUpdateContent(c *fiber.Ctx) error {
	contentID := c.Locals("contentID").(int)

	var item courseModels.ContentItem
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", contentID, false).First(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content item not found!", nil)
	}

	reqData, ok := c.Locals("validatedContentUpdate").(*struct {
		Title              string         `json:"title"`
		Description        string         `json:"description"`
		CompletionCriteria string         `json:"completion_criteria"`
		OrderIndex         *int           `json:"order_index"`
		IsRequired         *bool          `json:"is_required"`
		Prerequisites      []uint         `json:"prerequisites"`
		Dependencies       []uint         `json:"dependencies"`
		Settings           datatypes.JSON `json:"settings"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		item.Title = reqData.Title
	}
	if reqData.Description != "" {
		item.Description = reqData.Description
	}
	if reqData.CompletionCriteria != "" {
		item.CompletionCriteria = reqData.CompletionCriteria
	}
	if reqData.OrderIndex != nil {
		item.OrderIndex = *reqData.OrderIndex
	}
	if reqData.IsRequired != nil {
		item.IsRequired = *reqData.IsRequired
	}
	if len(reqData.Settings) > 0 {
		item.Settings = reqData.Settings
	}

	if reqData.Prerequisites != nil || reqData.Dependencies != nil {
		prereqs := item.PrerequisiteIDs()
		deps := item.DependencyIDs()
		if reqData.Prerequisites != nil {
			prereqs = reqData.Prerequisites
		}
		if reqData.Dependencies != nil {
			deps = reqData.Dependencies
		}
		if err := catalog.ValidateReferences(database.Database.Db, item.CourseID, item.ID, prereqs, deps); err != nil {
			return referenceErrorResponse(c, err)
		}
		item.SetPrerequisiteIDs(prereqs)
		item.SetDependencyIDs(deps)
	}

	if err := database.Database.Db.Save(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update content item!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content item updated successfully!", item)
}

// AdminDeleteContent soft deletes a content item
func AdminDeleteContent(c *fiber.Ctx) error {
	contentID := c.Locals("contentID").(int)

	var item courseModels.ContentItem
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", contentID, false).First(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content item not found!", nil)
	}

	item.IsDeleted = true
	item.IsPublished = false
	if err := database.Database.Db.Save(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete content item!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content item deleted successfully!", nil)
}

// AdminPublishContent publishes a content item
func AdminPublishContent(c *fiber.Ctx) error {
	contentID := c.Locals("contentID").(int)

	var item courseModels.ContentItem
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", contentID, false).First(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content item not found!", nil)
	}

	item.IsPublished = true
	if err := database.Database.Db.Save(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish content item!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content item published successfully!", item)
}

// AdminGetTopicContent lists all content items of a topic including unpublished ones
func AdminGetTopicContent(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	topicID := c.Locals("topicID").(int)

	var topic courseModels.Topic
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", topicID, courseID, false).First(&topic).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Topic not found!", nil)
	}

	var items []courseModels.ContentItem
	if err := database.Database.Db.Where("topic_id = ? AND is_deleted = ?", topicID, false).
		Order("order_index asc").Find(&items).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch content items!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content items fetched successfully!", items)
}

func referenceErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, catalog.ErrUnknownReference):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Prerequisite or dependency references an unknown content item!", nil)
	case errors.Is(err, catalog.ErrPrerequisiteCycle):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Prerequisites would form a cycle!", nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to validate references!", nil)
	}
}
