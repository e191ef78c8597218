package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"fortivault/pkg/logger"
	"fortivault/service"
)

// AdminAuthMiddleware guards the review endpoints with a bearer token issued
// by the admin login endpoint.
func AdminAuthMiddleware(adminService service.AdminService, log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Warnw("Missing or malformed Authorization header", "path", c.Request().URL.Path)
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error": "Unauthorized",
				})
			}

			claims, err := adminService.ValidateToken(authHeader[7:])
			if err != nil {
				log.Warnw("Invalid admin token", "path", c.Request().URL.Path, "error", err)
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error": "Invalid or expired token",
				})
			}

			c.Set("admin_email", claims.Email)
			c.Set("admin_id", claims.AdminID)
			return next(c)
		}
	}
}

// CORSMiddleware allows the marketing site front end to call the API.
func CORSMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("Access-Control-Allow-Origin", "*")
			c.Response().Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Response().Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
			c.Response().Header().Set("Access-Control-Allow-Credentials", "true")

			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusNoContent)
			}

			return next(c)
		}
	}
}

// RequestLoggerMiddleware logs every request with latency and status.
func RequestLoggerMiddleware(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			log.Infow("HTTP request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"remote_addr", c.RealIP(),
				"latency_ms", time.Since(start).Milliseconds(),
			)

			return err
		}
	}
}
