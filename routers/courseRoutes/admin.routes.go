package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all admin catalog management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))

	// Course CRUD
	adminGroup.Post("/create", validators.CreateCourseAdmin(), controllers.AdminCreateCourse)
	adminGroup.Get("/list", validators.CourseList(), controllers.AdminGetAllCourses)
	adminGroup.Put("/:courseId", validators.CourseID(), validators.UpdateCourseAdmin(), controllers.AdminUpdateCourse)
	adminGroup.Delete("/:courseId", validators.CourseID(), controllers.AdminDeleteCourse)
	adminGroup.Post("/:courseId/publish", validators.CourseID(), controllers.AdminPublishCourse)
	adminGroup.Post("/:courseId/duplicate", validators.CourseID(), controllers.AdminDuplicateCourse)
	adminGroup.Get("/:courseId/stats", validators.CourseID(), controllers.AdminCourseStats)

	// Topic Management
	adminGroup.Post("/:courseId/topic", validators.CourseID(), validators.CreateTopic(), controllers.AdminCreateTopic)
	adminGroup.Get("/:courseId/topics", validators.CourseID(), controllers.AdminListTopics)
	adminGroup.Put("/:courseId/topic/:topicId",
		validators.CourseID(), validators.TopicID(), validators.UpdateTopic(), controllers.AdminUpdateTopic)
	adminGroup.Delete("/:courseId/topic/:topicId",
		validators.CourseID(), validators.TopicID(), controllers.AdminDeleteTopic)
	adminGroup.Post("/:courseId/topic/:topicId/duplicate",
		validators.CourseID(), validators.TopicID(), controllers.AdminDuplicateTopic)
	adminGroup.Get("/:courseId/topic/:topicId/stats",
		validators.CourseID(), validators.TopicID(), controllers.AdminTopicStats)

	// Content Management
	adminGroup.Post("/:courseId/topic/:topicId/content",
		validators.CourseID(), validators.TopicID(), validators.CreateContent(), controllers.AdminCreateContent)
	adminGroup.Get("/:courseId/topic/:topicId/content",
		validators.CourseID(), validators.TopicID(), controllers.AdminGetTopicContent)

	// Content endpoints (separate from course group for easier access)
	contentGroup := app.Group("/admin/content", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))
	contentGroup.Put("/:contentId", validators.ContentID(), validators.UpdateContent(), controllers.AdminUpdateContent)
	contentGroup.Delete("/:contentId", validators.ContentID(), controllers.AdminDeleteContent)
	contentGroup.Post("/:contentId/publish", validators.ContentID(), controllers.AdminPublishContent)
	contentGroup.Get("/:contentId/stats", validators.ContentID(), controllers.AdminContentStats)

	// Enrollment Management
	enrollGroup := app.Group("/admin/enrollment", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))
	enrollGroup.Post("/enroll", validators.AdminEnrollment(), controllers.AdminEnrollStudent)
	enrollGroup.Post("/unenroll", validators.AdminEnrollment(), controllers.AdminUnenrollStudent)

	// Progress Management
	progressGroup := app.Group("/admin/progress", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))
	progressGroup.Post("/reset", validators.ResetAttempts(), controllers.AdminResetAttempts)

	// Question Bank Management
	bankGroup := app.Group("/admin/question-bank", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))
	bankGroup.Post("/create", validators.CreateQuestionBank(), controllers.AdminCreateQuestionBank)
	bankGroup.Post("/question", validators.CreateQuestion(), controllers.AdminAddQuestion)
	bankGroup.Get("/:bankId/questions", validators.BankID(), controllers.AdminListQuestions)
}
