package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"fortivault/entity"
	"fortivault/pkg/logger"
	"fortivault/service"
	"fortivault/validator"
	"fortivault/web3forms"
)

// ReportController handles fraud-report HTTP requests.
type ReportController struct {
	reportService service.ReportService
	validator     *validator.Validator
	logger        *logger.Logger
}

// NewReportController creates a new report controller instance.
func NewReportController(reportService service.ReportService, v *validator.Validator, log *logger.Logger) *ReportController {
	return &ReportController{
		reportService: reportService,
		validator:     v,
		logger:        log,
	}
}

// Submit handles a fraud-report submission
// @Summary Submit fraud report
// @Description Validate, relay, and store a fraud-report submission, returning a case reference
// @Tags Reports
// @Accept json
// @Produce json
// @Param request body entity.SubmitReportRequest true "Fraud report"
// @Success 201 {object} entity.SubmitReportResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /reports [post]
func (c *ReportController) Submit(ctx echo.Context) error {
	var req entity.SubmitReportRequest

	if err := ctx.Bind(&req); err != nil {
		c.logger.Warnw("Failed to bind report request", "error", err)
		return ctx.JSON(http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "Invalid request format. Please ensure you are sending valid JSON.",
		})
	}

	if err := c.validator.ValidateStruct(&req); err != nil {
		c.logger.Warnw("Report validation failed", "error", err)
		return ctx.JSON(http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
	}

	resp, err := c.reportService.Submit(ctx.Request().Context(), ctx.RealIP(), ctx.Request().UserAgent(), &req)
	if err != nil {
		return c.mapSubmitError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, resp)
}

// GetStatus returns the public status of a case
// @Summary Case status
// @Description Returns the review status for a case reference
// @Tags Reports
// @Produce json
// @Param caseId path string true "Case reference"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /reports/{caseId}/status [get]
func (c *ReportController) GetStatus(ctx echo.Context) error {
	report, err := c.reportService.GetCase(ctx.Param("caseId"))
	if err != nil {
		if errors.Is(err, service.ErrCaseNotFound) {
			return ctx.JSON(http.StatusNotFound, map[string]interface{}{
				"success": false,
				"error":   "No case found for that reference",
			})
		}
		return internalError(ctx)
	}

	// Public view: only the fields a submitter needs to track progress
	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"success":        true,
		"caseId":         report.CaseID,
		"status":         report.Status,
		"email_verified": report.EmailVerified,
		"created_at":     report.CreatedAt,
	})
}

// ListCases returns paginated submissions for review
// @Summary List cases
// @Description Paginated fraud-report submissions, newest first
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param search query string false "Search case ID or email"
// @Success 200 {object} entity.CaseListResponse
// @Failure 401 {object} map[string]interface{}
// @Router /admin/cases [get]
func (c *ReportController) ListCases(ctx echo.Context) error {
	page, _ := strconv.Atoi(ctx.QueryParam("page"))
	pageSize, _ := strconv.Atoi(ctx.QueryParam("page_size"))

	resp, err := c.reportService.ListCases(page, pageSize, ctx.QueryParam("search"))
	if err != nil {
		return internalError(ctx)
	}

	return ctx.JSON(http.StatusOK, resp)
}

// GetCase returns a full submission for review
// @Summary Get case
// @Description Full fraud-report submission by case reference
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param caseId path string true "Case reference"
// @Success 200 {object} entity.FraudReport
// @Failure 404 {object} map[string]interface{}
// @Router /admin/cases/{caseId} [get]
func (c *ReportController) GetCase(ctx echo.Context) error {
	report, err := c.reportService.GetCase(ctx.Param("caseId"))
	if err != nil {
		if errors.Is(err, service.ErrCaseNotFound) {
			return ctx.JSON(http.StatusNotFound, map[string]interface{}{
				"success": false,
				"error":   "No case found for that reference",
			})
		}
		return internalError(ctx)
	}

	return ctx.JSON(http.StatusOK, report)
}

func (c *ReportController) mapSubmitError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrRateLimited):
		return tooManyRequests(ctx)
	case errors.Is(err, web3forms.ErrUnauthorized):
		return ctx.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"success": false,
			"error":   "Server authentication failed. Please contact support.",
		})
	case errors.Is(err, web3forms.ErrThrottled):
		return ctx.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"success": false,
			"error":   "Too many submissions. Please wait a moment and try again.",
		})
	case errors.Is(err, web3forms.ErrUnavailable), errors.Is(err, web3forms.ErrRejected):
		return ctx.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"success": false,
			"error":   "Unable to process your submission at this time. Please try again in a few moments.",
		})
	default:
		return internalError(ctx)
	}
}

func tooManyRequests(ctx echo.Context) error {
	return ctx.JSON(http.StatusTooManyRequests, map[string]interface{}{
		"success": false,
		"error":   "Too many requests. Please try again later.",
	})
}

func internalError(ctx echo.Context) error {
	return ctx.JSON(http.StatusInternalServerError, map[string]interface{}{
		"success": false,
		"error":   "Internal server error. Please try again later.",
	})
}
