package service

import (
	"context"
	"fmt"

	"fortivault/config"
	"fortivault/entity"
	"fortivault/otptoken"
	"fortivault/pkg/logger"
	"fortivault/ratelimit"
	"fortivault/repository"
)

// OTPService issues and verifies email verification codes for submitted cases.
type OTPService interface {
	SendOTP(ctx context.Context, clientIP string, req *entity.SendOTPRequest) (*entity.SendOTPResponse, string, error)
	VerifyOTP(ctx context.Context, token, code string) (*entity.VerifyOTPResponse, error)
}

type otpService struct {
	tokens    *otptoken.Manager
	limiter   ratelimit.Store
	limitRule ratelimit.Config
	email     EmailService
	caseRepo  repository.CaseRepository
	cfg       *config.Config
	logger    *logger.Logger
}

// NewOTPService creates a new OTP service instance.
func NewOTPService(
	tokens *otptoken.Manager,
	limiter ratelimit.Store,
	email EmailService,
	caseRepo repository.CaseRepository,
	cfg *config.Config,
	log *logger.Logger,
) OTPService {
	return &otpService{
		tokens: tokens,
		limiter: limiter,
		limitRule: ratelimit.Config{
			MaxRequests: cfg.RateLimit.OTP.MaxRequests,
			Window:      cfg.RateLimit.OTP.Window,
		},
		email:    email,
		caseRepo: caseRepo,
		cfg:      cfg,
		logger:   log,
	}
}

// SendOTP generates a code, emails it, and returns the signed session token
// the controller hands back as a cookie. Requests are bucketed per IP+email so
// one address cannot burn another's budget.
func (s *otpService) SendOTP(ctx context.Context, clientIP string, req *entity.SendOTPRequest) (*entity.SendOTPResponse, string, error) {
	identifier := clientIP + ":" + req.Email
	if !s.limiter.Allow(identifier, s.limitRule) {
		s.logger.Warnw("OTP request rate limited", "identifier", identifier)
		return nil, "", ErrRateLimited
	}

	code, err := otptoken.GenerateCode(s.cfg.OTP.Length)
	if err != nil {
		s.logger.Errorw("Failed to generate OTP code", "error", err)
		return nil, "", fmt.Errorf("failed to generate code: %w", err)
	}

	if err := s.email.SendOTP(ctx, req.Email, code, req.CaseID); err != nil {
		s.logger.Errorw("Failed to send OTP email", "email", req.Email, "case_id", req.CaseID, "error", err)
		return nil, "", ErrEmailDispatch
	}

	token, err := s.tokens.CreateToken(req.Email, req.CaseID, code, s.cfg.OTP.TTL)
	if err != nil {
		s.logger.Errorw("Failed to create OTP session token", "case_id", req.CaseID, "error", err)
		return nil, "", fmt.Errorf("failed to create session token: %w", err)
	}

	s.logger.Infow("OTP issued", "email", req.Email, "case_id", req.CaseID, "ttl", s.cfg.OTP.TTL)

	resp := &entity.SendOTPResponse{
		Success: true,
		Message: "OTP sent successfully",
	}
	if !s.cfg.IsProduction() {
		resp.Code = code
	}

	return resp, token, nil
}

// VerifyOTP checks the session token and the submitted code. Every failure
// collapses to ErrCodeInvalid so callers learn nothing about which check
// rejected them. A successful verification marks the case's email verified;
// a failure to record that is logged but does not fail the verification.
func (s *otpService) VerifyOTP(_ context.Context, token, code string) (*entity.VerifyOTPResponse, error) {
	payload := s.tokens.VerifyToken(token)
	if payload == nil {
		return nil, ErrCodeInvalid
	}

	if !otptoken.VerifyHash(code, payload.Hash) {
		s.logger.Warnw("OTP code mismatch", "case_id", payload.CaseID)
		return nil, ErrCodeInvalid
	}

	if err := s.caseRepo.MarkEmailVerified(payload.CaseID, payload.Email); err != nil {
		s.logger.Warnw("Failed to record email verification", "case_id", payload.CaseID, "error", err)
	}

	s.logger.Infow("OTP verified", "email", payload.Email, "case_id", payload.CaseID)

	return &entity.VerifyOTPResponse{
		Success: true,
		CaseID:  payload.CaseID,
		Email:   payload.Email,
		Message: "Email verified successfully",
	}, nil
}
