package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"fortivault/entity"
	"fortivault/pkg/logger"
	"fortivault/service"
	"fortivault/validator"
)

// AdminController handles reviewer authentication.
type AdminController struct {
	adminService service.AdminService
	validator    *validator.Validator
	logger       *logger.Logger
}

// NewAdminController creates a new admin controller instance.
func NewAdminController(adminService service.AdminService, v *validator.Validator, log *logger.Logger) *AdminController {
	return &AdminController{
		adminService: adminService,
		validator:    v,
		logger:       log,
	}
}

// Login authenticates a reviewer
// @Summary Admin login
// @Description Exchange credentials for a bearer token
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body entity.AdminLoginRequest true "Credentials"
// @Success 200 {object} entity.AdminLoginResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /admin/login [post]
func (c *AdminController) Login(ctx echo.Context) error {
	var req entity.AdminLoginRequest

	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "Email and password required",
		})
	}

	if err := c.validator.ValidateStruct(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": err.Error(),
		})
	}

	resp, err := c.adminService.Login(&req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return ctx.JSON(http.StatusUnauthorized, map[string]interface{}{
				"error": "Invalid credentials",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "Authentication failed",
		})
	}

	return ctx.JSON(http.StatusOK, resp)
}
