package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"fortivault/config"
	"fortivault/entity"
	"fortivault/pkg/logger"
	"fortivault/service"
	"fortivault/validator"
)

// OTPController handles OTP issuance and verification over HTTP. The session
// token travels as an http-only cookie, never in a response body.
type OTPController struct {
	otpService service.OTPService
	validator  *validator.Validator
	cfg        *config.Config
	logger     *logger.Logger
}

// NewOTPController creates a new OTP controller instance.
func NewOTPController(otpService service.OTPService, v *validator.Validator, cfg *config.Config, log *logger.Logger) *OTPController {
	return &OTPController{
		otpService: otpService,
		validator:  v,
		cfg:        cfg,
		logger:     log,
	}
}

// Send handles OTP issuance
// @Summary Send OTP
// @Description Generate a verification code, email it, and set the fv_otp session cookie
// @Tags OTP
// @Accept json
// @Produce json
// @Param request body entity.SendOTPRequest true "Send OTP Request"
// @Success 200 {object} entity.SendOTPResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /otp/send [post]
func (c *OTPController) Send(ctx echo.Context) error {
	var req entity.SendOTPRequest

	if err := ctx.Bind(&req); err != nil {
		c.logger.Warnw("Failed to bind OTP request", "error", err)
		return ctx.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "Email and case ID are required",
		})
	}

	if err := c.validator.ValidateStruct(&req); err != nil {
		c.logger.Warnw("OTP request validation failed", "error", err)
		return ctx.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": err.Error(),
		})
	}

	resp, token, err := c.otpService.SendOTP(ctx.Request().Context(), ctx.RealIP(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRateLimited):
			return ctx.JSON(http.StatusTooManyRequests, map[string]interface{}{
				"error": "Too many requests. Try again later.",
			})
		case errors.Is(err, service.ErrEmailDispatch):
			return ctx.JSON(http.StatusInternalServerError, map[string]interface{}{
				"error": "Failed to send OTP email",
			})
		default:
			return ctx.JSON(http.StatusInternalServerError, map[string]interface{}{
				"error": "Internal server error",
			})
		}
	}

	c.setSessionCookie(ctx, token, int(c.cfg.OTP.TTL.Seconds()))

	return ctx.JSON(http.StatusOK, resp)
}

// Verify handles OTP verification
// @Summary Verify OTP
// @Description Verify the submitted code against the fv_otp session cookie
// @Tags OTP
// @Accept json
// @Produce json
// @Param request body entity.VerifyOTPRequest true "Verify OTP Request"
// @Success 200 {object} entity.VerifyOTPResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /otp/verify [post]
func (c *OTPController) Verify(ctx echo.Context) error {
	var req entity.VerifyOTPRequest

	if err := ctx.Bind(&req); err != nil {
		c.logger.Warnw("Failed to bind verify request", "error", err)
		return ctx.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "Verification code is required",
		})
	}

	if err := c.validator.ValidateStruct(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Missing cookie verifies like any invalid token: same uniform rejection
	var token string
	if cookie, err := ctx.Cookie(c.cfg.OTP.CookieName); err == nil {
		token = cookie.Value
	}

	resp, err := c.otpService.VerifyOTP(ctx.Request().Context(), token, req.Code)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error": "Code invalid or expired. Please request a new one.",
		})
	}

	// Drop the cookie client-side; the token itself stays valid until expiry
	c.setSessionCookie(ctx, "", -1)

	return ctx.JSON(http.StatusOK, resp)
}

func (c *OTPController) setSessionCookie(ctx echo.Context, value string, maxAge int) {
	ctx.SetCookie(&http.Cookie{
		Name:     c.cfg.OTP.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}
