package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all student-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	userGroup := app.Group("/course", middleware.JWTMiddleware)

	// Catalog
	userGroup.Get("/list", validators.CourseList(), controllers.GetAllCourses)
	userGroup.Get("/enrollments", validators.EnrollmentList(), controllers.GetEnrollments)
	userGroup.Get("/:courseId", validators.CourseID(), controllers.GetCourseDetails)

	// Enrollment
	userGroup.Post("/:courseId/enroll", validators.CourseID(), controllers.EnrollInCourse)

	// Progress
	userGroup.Get("/:courseId/progress", validators.CourseID(), controllers.GetProgressSummary)
	userGroup.Post("/:courseId/content/:contentId/view",
		validators.CourseID(), validators.ContentID(), validators.ViewSignal(), controllers.RecordView)
	userGroup.Post("/:courseId/content/:contentId/quiz",
		validators.CourseID(), validators.ContentID(), validators.QuizSubmission(), controllers.SubmitQuiz)
	userGroup.Post("/:courseId/content/:contentId/homework",
		validators.CourseID(), validators.ContentID(), validators.HomeworkSubmission(), controllers.SubmitHomework)
}
