package sessionRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	courseValidator "lms/validators/course"
	sessionValidator "lms/validators/session"

	"github.com/gofiber/fiber/v2"
)

// SetupSessionRoutes sets up admin live-session management and the provider webhook
func SetupSessionRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/session", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))

	adminGroup.Post("/create", sessionValidator.CreateSession(), controllers.AdminCreateSession)
	adminGroup.Get("/course/:courseId", courseValidator.CourseID(), controllers.AdminListSessions)
	adminGroup.Post("/:sessionId/finalize", sessionValidator.SessionID(), controllers.AdminFinalizeSession)

	// Provider webhook, authenticated by shared token inside the controller
	app.Post("/webhook/session", sessionValidator.SessionEvent(), controllers.SessionWebhook)
}
