package controllers

import (
	"encoding/json"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// AdminCreateQuestionBank creates an empty shared question bank.
func AdminCreateQuestionBank(c *fiber.Ctx) error {
	body := c.Locals("validatedQuestionBank").(*struct {
		Title string `json:"title"`
	})

	bank := courseModels.QuestionBank{Title: body.Title}
	if err := database.Database.Db.Create(&bank).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question bank!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question bank created successfully!", bank)
}

// AdminAddQuestion appends a question to a bank.
func AdminAddQuestion(c *fiber.Ctx) error {
	body := c.Locals("validatedQuestion").(*struct {
		QuestionBankID uint                         `json:"question_bank_id"`
		Text           string                       `json:"text"`
		Points         float64                      `json:"points"`
		Options        []courseModels.QuestionOption `json:"options"`
	})

	var bank courseModels.QuestionBank
	err := database.Database.Db.Where("id = ? AND is_deleted = ?", body.QuestionBankID, false).
		First(&bank).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question bank not found!", nil)
	}

	correct := 0
	for _, opt := range body.Options {
		if opt.IsCorrect {
			correct++
		}
	}
	if correct == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Question needs at least one correct option!", nil)
	}

	points := body.Points
	if points <= 0 {
		points = 1
	}

	options, err := json.Marshal(body.Options)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid options payload!", nil)
	}

	question := courseModels.Question{
		QuestionBankID: bank.ID,
		Text:           body.Text,
		Points:         points,
		Options:        options,
	}
	if err := database.Database.Db.Create(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question added successfully!", question)
}

// AdminListQuestions returns all questions of a bank, correct flags included.
func AdminListQuestions(c *fiber.Ctx) error {
	bankID := c.Locals("bankID").(int)

	var bank courseModels.QuestionBank
	err := database.Database.Db.Where("id = ? AND is_deleted = ?", bankID, false).
		First(&bank).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question bank not found!", nil)
	}

	var questions []courseModels.Question
	err = database.Database.Db.Where("question_bank_id = ? AND is_deleted = ?", bankID, false).
		Order("id asc").Find(&questions).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch questions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Questions fetched successfully!", fiber.Map{
		"bank":      bank,
		"questions": questions,
	})
}
