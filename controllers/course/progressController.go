package controllers

import (
	"errors"
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/progress"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RecordView records a view signal for a view-criterion content item
func RecordView(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	contentID := c.Locals("contentID").(int)

	reqData, ok := c.Locals("validatedViewSignal").(*struct {
		ProgressPercentage float64 `json:"progress_percentage"`
		TimeSpentMinutes   int     `json:"time_spent_minutes"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	store := progress.NewStore(database.Database.Db)
	entry, _, err := store.Apply(userID, uint(courseID), uint(contentID), progress.ViewSignal{
		ProgressPercentage: reqData.ProgressPercentage,
		TimeSpentMinutes:   reqData.TimeSpentMinutes,
	})
	if err != nil {
		return progressErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "View recorded successfully!", entry)
}

// SubmitQuiz grades a quiz submission against the configured question set and
// records the attempt
func SubmitQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	contentID := c.Locals("contentID").(int)

	reqData, ok := c.Locals("validatedQuizSubmission").(*struct {
		AttemptKey string                `json:"attempt_key"`
		Answers    []progress.QuizAnswer `json:"answers"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var item courseModels.ContentItem
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_published = ? AND is_deleted = ?",
		contentID, courseID, true, false).First(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}
	if item.ContentType != courseModels.ContentTypeQuiz {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Content is not a quiz!", nil)
	}

	settings, err := item.QuizSettings()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Broken quiz settings!", nil)
	}

	var questions []courseModels.Question
	if err := database.Database.Db.Where("question_bank_id = ? AND is_deleted = ?", settings.QuestionBankID, false).
		Find(&questions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load questions!", nil)
	}
	if len(questions) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Quiz has no questions configured!", nil)
	}

	// Reject answers outside the configured question set before any mutation
	grade, err := progress.GradeQuiz(questions, reqData.Answers)
	if err != nil {
		return progressErrorResponse(c, err)
	}

	attemptKey := reqData.AttemptKey
	if attemptKey == "" {
		attemptKey = uuid.NewString()
	}

	store := progress.NewStore(database.Database.Db)
	entry, out, err := store.Apply(userID, uint(courseID), uint(contentID), progress.AttemptSignal{
		AttemptKey:   attemptKey,
		Score:        grade.Score,
		TotalPoints:  grade.TotalPoints,
		CorrectCount: grade.CorrectCount,
		TotalCount:   grade.TotalCount,
		SubmittedAt:  time.Now(),
	})
	if err != nil {
		return progressErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted!", fiber.Map{
		"progress":      entry,
		"passed":        out.AttemptPassed,
		"score":         grade.Score,
		"correct_count": grade.CorrectCount,
		"total_count":   grade.TotalCount,
		"attempt_key":   attemptKey,
	})
}

// SubmitHomework records an externally graded homework submission
func SubmitHomework(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	contentID := c.Locals("contentID").(int)

	reqData, ok := c.Locals("validatedHomeworkSubmission").(*struct {
		AttemptKey string  `json:"attempt_key"`
		Score      float64 `json:"score"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var item courseModels.ContentItem
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_published = ? AND is_deleted = ?",
		contentID, courseID, true, false).First(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}
	if item.ContentType != courseModels.ContentTypeHomework {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Content is not a homework!", nil)
	}

	attemptKey := reqData.AttemptKey
	if attemptKey == "" {
		attemptKey = uuid.NewString()
	}

	store := progress.NewStore(database.Database.Db)
	entry, out, err := store.Apply(userID, uint(courseID), uint(contentID), progress.AttemptSignal{
		AttemptKey:  attemptKey,
		Score:       reqData.Score,
		SubmittedAt: time.Now(),
	})
	if err != nil {
		return progressErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Homework submitted!", fiber.Map{
		"progress":    entry,
		"passed":      out.AttemptPassed,
		"attempt_key": attemptKey,
	})
}

// AdminResetAttempts clears a student's attempts on one content item. Irreversible.
func AdminResetAttempts(c *fiber.Ctx) error {
	adminID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedResetAttempts").(*struct {
		UserID    uint `json:"user_id"`
		CourseID  uint `json:"course_id"`
		ContentID uint `json:"content_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	store := progress.NewStore(database.Database.Db)
	entry, err := store.ResetAttempts(adminID, reqData.UserID, reqData.CourseID, reqData.ContentID)
	if err != nil {
		return progressErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts reset successfully!", entry)
}

// progressErrorResponse maps engine errors to HTTP responses
func progressErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, progress.ErrNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	case errors.Is(err, progress.ErrNotEnrolled):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	case errors.Is(err, progress.ErrLocked):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Content is locked! Complete its prerequisites first.", nil)
	case errors.Is(err, progress.ErrInvalidSignal):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid submission!", nil)
	case errors.Is(err, progress.ErrAttemptsExhausted):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "No attempts remaining!", nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record progress!", nil)
	}
}
