package courseValidator

import (
	"strings"

	"lms/middleware"
	"lms/progress"

	"github.com/gofiber/fiber/v2"
)

// ViewSignal validates a view progress report. Values are cumulative totals,
// so re-sending an old report is harmless downstream.
func ViewSignal() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			ProgressPercentage float64 `json:"progress_percentage"`
			TimeSpentMinutes   int     `json:"time_spent_minutes"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.ProgressPercentage < 0 || reqData.ProgressPercentage > 100 {
			errors["progress_percentage"] = "Progress percentage must be between 0 and 100!"
		}

		if reqData.TimeSpentMinutes < 0 {
			errors["time_spent_minutes"] = "Time spent cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedViewSignal", reqData)
		return c.Next()
	}
}

// QuizSubmission validates a quiz answer sheet
func QuizSubmission() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			AttemptKey string                `json:"attempt_key"`
			Answers    []progress.QuizAnswer `json:"answers"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.AttemptKey = strings.TrimSpace(reqData.AttemptKey)
		if len(reqData.AttemptKey) > 64 {
			errors["attempt_key"] = "Attempt key must be at most 64 characters!"
		}

		if len(reqData.Answers) == 0 {
			errors["answers"] = "At least one answer is required!"
		}
		for _, answer := range reqData.Answers {
			if answer.QuestionID == 0 {
				errors["answers"] = "Every answer needs a question ID!"
				break
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuizSubmission", reqData)
		return c.Next()
	}
}

// HomeworkSubmission validates an externally graded homework result
func HomeworkSubmission() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			AttemptKey string  `json:"attempt_key"`
			Score      float64 `json:"score"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.AttemptKey = strings.TrimSpace(reqData.AttemptKey)
		if len(reqData.AttemptKey) > 64 {
			errors["attempt_key"] = "Attempt key must be at most 64 characters!"
		}

		if reqData.Score < 0 || reqData.Score > 100 {
			errors["score"] = "Score must be between 0 and 100!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedHomeworkSubmission", reqData)
		return c.Next()
	}
}
