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

// ContactController handles contact-form HTTP requests.
type ContactController struct {
	contactService service.ContactService
	validator      *validator.Validator
	logger         *logger.Logger
}

// NewContactController creates a new contact controller instance.
func NewContactController(contactService service.ContactService, v *validator.Validator, log *logger.Logger) *ContactController {
	return &ContactController{
		contactService: contactService,
		validator:      v,
		logger:         log,
	}
}

// Submit handles a contact-form submission
// @Summary Submit contact enquiry
// @Description Validate and relay a general enquiry
// @Tags Contact
// @Accept json
// @Produce json
// @Param request body entity.ContactRequest true "Contact enquiry"
// @Success 201 {object} entity.ContactResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /contact [post]
func (c *ContactController) Submit(ctx echo.Context) error {
	var req entity.ContactRequest

	if err := ctx.Bind(&req); err != nil {
		c.logger.Warnw("Failed to bind contact request", "error", err)
		return ctx.JSON(http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "Invalid request format. Please ensure you are sending valid JSON.",
		})
	}

	if err := c.validator.ValidateStruct(&req); err != nil {
		c.logger.Warnw("Contact validation failed", "error", err)
		return ctx.JSON(http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
	}

	resp, err := c.contactService.Submit(ctx.Request().Context(), ctx.RealIP(), ctx.Request().UserAgent(), &req)
	if err != nil {
		if errors.Is(err, service.ErrRateLimited) {
			return tooManyRequests(ctx)
		}
		return ctx.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"success": false,
			"error":   "Unable to process your message at this time. Please try again in a few moments.",
		})
	}

	return ctx.JSON(http.StatusCreated, resp)
}
