package controllers

import (
	"lms/catalog"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/progress"

	"github.com/gofiber/fiber/v2"
)

// GetAllCourses lists published active courses for students
func GetAllCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, _ := c.Locals("validatedCourseList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})

	page := 1
	limit := 10
	if reqData != nil && reqData.Page != nil {
		page = *reqData.Page
	}
	if reqData != nil && reqData.Limit != nil {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Course{}).
		Where("is_published = ? AND status = ? AND is_deleted = ?", true, courseModels.CourseStatusActive, false)

	var total int64
	db.Count(&total)

	var courses []courseModels.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// ContentWithState is a content item enriched with the requesting student's
// lock and completion state. Variant settings stay server-side.
type ContentWithState struct {
	ID                 uint    `json:"id"`
	TopicID            uint    `json:"topic_id"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	ContentType        string  `json:"content_type"`
	CompletionCriteria string  `json:"completion_criteria"`
	OrderIndex         int     `json:"order_index"`
	IsRequired         bool    `json:"is_required"`
	Unlocked           bool    `json:"unlocked"`
	CompletionStatus   string  `json:"completion_status"`
	ProgressPercentage float64 `json:"progress_percentage"`
	BestScore          float64 `json:"best_score"`
}

// GetCourseDetails returns a published course with its topics and per-item
// lock/progress state for the requesting student
func GetCourseDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_published = ? AND is_deleted = ?", courseID, true, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var topics []courseModels.Topic
	database.Database.Db.Where("course_id = ? AND is_published = ? AND is_deleted = ?", courseID, true, false).
		Order("order_index asc").Find(&topics)

	var entries []courseModels.ContentProgress
	database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).Find(&entries)
	byItem := make(map[uint]courseModels.ContentProgress, len(entries))
	for _, e := range entries {
		byItem[e.ContentItemID] = e
	}

	type TopicWithContents struct {
		courseModels.Topic
		Contents []ContentWithState `json:"contents"`
	}

	result := make([]TopicWithContents, len(topics))
	for i, topic := range topics {
		result[i] = TopicWithContents{Topic: topic}

		var items []courseModels.ContentItem
		database.Database.Db.Where("topic_id = ? AND is_published = ? AND is_deleted = ?", topic.ID, true, false).
			Order("order_index asc").Find(&items)

		for j := range items {
			item := &items[j]
			unlocked, err := catalog.ItemUnlocked(database.Database.Db, userID, item)
			if err != nil {
				unlocked = false
			}

			state := ContentWithState{
				ID:                 item.ID,
				TopicID:            item.TopicID,
				Title:              item.Title,
				Description:        item.Description,
				ContentType:        item.ContentType,
				CompletionCriteria: item.CompletionCriteria,
				OrderIndex:         item.OrderIndex,
				IsRequired:         item.IsRequired,
				Unlocked:           unlocked,
				CompletionStatus:   courseModels.StatusNotStarted,
			}
			if e, ok := byItem[item.ID]; ok {
				state.CompletionStatus = e.CompletionStatus
				state.ProgressPercentage = e.ProgressPercentage
				state.BestScore = e.BestScore
			}
			result[i].Contents = append(result[i].Contents, state)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course": course,
		"topics": result,
	})
}

// GetProgressSummary returns the recomputed progress summary for (student, course)
func GetProgressSummary(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	summary, err := progress.NewAggregator(database.Database.Db).CourseProgress(userID, uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", summary)
}
