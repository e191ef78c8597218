package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"fortivault/config"
	"fortivault/controller"
	_ "fortivault/docs" // swagger docs
	"fortivault/pkg/logger"
	"fortivault/service"
)

// RegisterRoutes registers all HTTP routes and middleware.
func RegisterRoutes(
	e *echo.Echo,
	reportController *controller.ReportController,
	contactController *controller.ContactController,
	otpController *controller.OTPController,
	adminController *controller.AdminController,
	healthController *controller.HealthController,
	adminService service.AdminService,
	cfg *config.Config,
	log *logger.Logger,
) {
	e.Use(middleware.Recover())
	e.Use(CORSMiddleware())
	e.Use(RequestLoggerMiddleware(log))

	// System endpoints
	e.GET("/health", healthController.HealthCheck)
	e.GET("/", healthController.ServiceInfo)

	if cfg.Swagger.Enabled {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	v1 := e.Group("/api/v1")

	// Public intake endpoints
	v1.POST("/reports", reportController.Submit)
	v1.GET("/reports/:caseId/status", reportController.GetStatus)
	v1.POST("/contact", contactController.Submit)

	otpGroup := v1.Group("/otp")
	otpGroup.POST("/send", otpController.Send)
	otpGroup.POST("/verify", otpController.Verify)

	// Reviewer endpoints
	v1.POST("/admin/login", adminController.Login)

	adminGroup := v1.Group("/admin", AdminAuthMiddleware(adminService, log))
	adminGroup.GET("/cases", reportController.ListCases)
	adminGroup.GET("/cases/:caseId", reportController.GetCase)
}
