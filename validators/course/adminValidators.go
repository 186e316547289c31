package courseValidator

import (
	"strconv"
	"strings"

	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// ============ Course Validators ============

// CreateCourseAdmin validates admin course creation request
func CreateCourseAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title              string `json:"title"`
			Description        string `json:"description"`
			Author             string `json:"author"`
			ThumbnailURL       string `json:"thumbnail_url"`
			RequiresSequential bool   `json:"requires_sequential"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)
		reqData.Author = strings.TrimSpace(reqData.Author)

		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.Description == "" {
			errors["description"] = "Description is required!"
		} else if len(reqData.Description) < 5 {
			errors["description"] = "Description must be at least 5 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourseAdmin validates admin course update request; empty fields stay unchanged
func UpdateCourseAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title              string `json:"title"`
			Description        string `json:"description"`
			Author             string `json:"author"`
			ThumbnailURL       string `json:"thumbnail_url"`
			Status             string `json:"status"`
			RequiresSequential *bool  `json:"requires_sequential"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)
		reqData.Status = strings.TrimSpace(reqData.Status)

		if reqData.Title != "" && len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.Description != "" && len(reqData.Description) < 5 {
			errors["description"] = "Description must be at least 5 characters long!"
		}

		if reqData.Status != "" {
			validStatuses := map[string]bool{
				courseModels.CourseStatusDraft:    true,
				courseModels.CourseStatusActive:   true,
				courseModels.CourseStatusInactive: true,
			}
			if !validStatuses[reqData.Status] {
				errors["status"] = "Status must be DRAFT, ACTIVE, or INACTIVE!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// ============ Topic Validators ============

// CreateTopic validates admin topic creation request
func CreateTopic() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title           string `json:"title"`
			Description     string `json:"description"`
			OrderIndex      int    `json:"order_index"`
			UnlockCondition string `json:"unlock_condition"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.UnlockCondition = strings.TrimSpace(reqData.UnlockCondition)

		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.OrderIndex < 0 {
			errors["order_index"] = "Order index cannot be negative!"
		}

		if reqData.UnlockCondition != "" &&
			reqData.UnlockCondition != courseModels.UnlockImmediate &&
			reqData.UnlockCondition != courseModels.UnlockAfterPrevious {
			errors["unlock_condition"] = "Unlock condition must be IMMEDIATE or AFTER_PREVIOUS!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTopic", reqData)
		return c.Next()
	}
}

// UpdateTopic validates admin topic update request
func UpdateTopic() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title           string `json:"title"`
			Description     string `json:"description"`
			OrderIndex      *int   `json:"order_index"`
			UnlockCondition string `json:"unlock_condition"`
			IsPublished     *bool  `json:"is_published"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.UnlockCondition = strings.TrimSpace(reqData.UnlockCondition)

		if reqData.Title != "" && len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.OrderIndex != nil && *reqData.OrderIndex < 0 {
			errors["order_index"] = "Order index cannot be negative!"
		}

		if reqData.UnlockCondition != "" &&
			reqData.UnlockCondition != courseModels.UnlockImmediate &&
			reqData.UnlockCondition != courseModels.UnlockAfterPrevious {
			errors["unlock_condition"] = "Unlock condition must be IMMEDIATE or AFTER_PREVIOUS!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTopicUpdate", reqData)
		return c.Next()
	}
}

// ============ Content Validators ============

func validContentType(t string) bool {
	switch t {
	case courseModels.ContentTypeVideo, courseModels.ContentTypeReading,
		courseModels.ContentTypeQuiz, courseModels.ContentTypeHomework,
		courseModels.ContentTypeLiveSession:
		return true
	}
	return false
}

func validCompletionCriteria(cr string) bool {
	switch cr {
	case courseModels.CriteriaView, courseModels.CriteriaPassAssessment, courseModels.CriteriaAttendance:
		return true
	}
	return false
}

// CreateContent validates admin content item creation request
func CreateContent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
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

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.ContentType = strings.TrimSpace(reqData.ContentType)
		reqData.CompletionCriteria = strings.TrimSpace(reqData.CompletionCriteria)

		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if !validContentType(reqData.ContentType) {
			errors["content_type"] = "Content type must be VIDEO, READING, QUIZ, HOMEWORK, or LIVE_SESSION!"
		}

		if reqData.CompletionCriteria != "" && !validCompletionCriteria(reqData.CompletionCriteria) {
			errors["completion_criteria"] = "Completion criteria must be VIEW, PASS_ASSESSMENT, or ATTENDANCE!"
		}

		if reqData.OrderIndex < 0 {
			errors["order_index"] = "Order index cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedContent", reqData)
		return c.Next()
	}
}

// UpdateContent validates admin content item update request. Content type is
// fixed after creation; changing it would orphan the variant settings.
func UpdateContent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title              string         `json:"title"`
			Description        string         `json:"description"`
			CompletionCriteria string         `json:"completion_criteria"`
			OrderIndex         *int           `json:"order_index"`
			IsRequired         *bool          `json:"is_required"`
			Prerequisites      []uint         `json:"prerequisites"`
			Dependencies       []uint         `json:"dependencies"`
			Settings           datatypes.JSON `json:"settings"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.CompletionCriteria = strings.TrimSpace(reqData.CompletionCriteria)

		if reqData.Title != "" && len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.CompletionCriteria != "" && !validCompletionCriteria(reqData.CompletionCriteria) {
			errors["completion_criteria"] = "Completion criteria must be VIEW, PASS_ASSESSMENT, or ATTENDANCE!"
		}

		if reqData.OrderIndex != nil && *reqData.OrderIndex < 0 {
			errors["order_index"] = "Order index cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedContentUpdate", reqData)
		return c.Next()
	}
}

// ============ Enrollment / Progress Admin Validators ============

// AdminEnrollment validates admin enroll/unenroll request
func AdminEnrollment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserID   uint `json:"user_id"`
			CourseID uint `json:"course_id"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.UserID == 0 {
			errors["user_id"] = "User ID is required!"
		}
		if reqData.CourseID == 0 {
			errors["course_id"] = "Course ID is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAdminEnrollment", reqData)
		return c.Next()
	}
}

// ResetAttempts validates an admin attempt-reset request
func ResetAttempts() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserID    uint `json:"user_id"`
			CourseID  uint `json:"course_id"`
			ContentID uint `json:"content_id"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.UserID == 0 {
			errors["user_id"] = "User ID is required!"
		}
		if reqData.CourseID == 0 {
			errors["course_id"] = "Course ID is required!"
		}
		if reqData.ContentID == 0 {
			errors["content_id"] = "Content ID is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedResetAttempts", reqData)
		return c.Next()
	}
}

// ============ Question Bank Validators ============

// BankID validates the :bankId route param and stores it as an int local.
func BankID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("bankId"))
		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Question Bank ID!", nil)
		}
		c.Locals("bankID", id)
		return c.Next()
	}
}

// CreateQuestionBank validates question bank creation request
func CreateQuestionBank() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title string `json:"title"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuestionBank", reqData)
		return c.Next()
	}
}

// CreateQuestion validates a new question with its options
func CreateQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			QuestionBankID uint                          `json:"question_bank_id"`
			Text           string                        `json:"text"`
			Points         float64                       `json:"points"`
			Options        []courseModels.QuestionOption `json:"options"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Text = strings.TrimSpace(reqData.Text)

		if reqData.QuestionBankID == 0 {
			errors["question_bank_id"] = "Question bank ID is required!"
		}
		if reqData.Text == "" {
			errors["text"] = "Question text is required!"
		}
		if len(reqData.Options) < 2 {
			errors["options"] = "At least two options are required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}
