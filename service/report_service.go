package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"fortivault/config"
	"fortivault/entity"
	"fortivault/pkg/logger"
	"fortivault/ratelimit"
	"fortivault/repository"
	"fortivault/web3forms"
)

// ReportService handles fraud-report submissions end to end.
type ReportService interface {
	Submit(ctx context.Context, clientIP, userAgent string, req *entity.SubmitReportRequest) (*entity.SubmitReportResponse, error)
	GetCase(caseID string) (*entity.FraudReport, error)
	ListCases(page, pageSize int, search string) (*entity.CaseListResponse, error)
}

type reportService struct {
	relay     *web3forms.Client
	caseRepo  repository.CaseRepository
	email     EmailService
	limiter   ratelimit.Store
	limitRule ratelimit.Config
	cfg       *config.Config
	logger    *logger.Logger
}

// NewReportService creates a new report service instance.
func NewReportService(
	relay *web3forms.Client,
	caseRepo repository.CaseRepository,
	email EmailService,
	limiter ratelimit.Store,
	cfg *config.Config,
	log *logger.Logger,
) ReportService {
	return &reportService{
		relay:    relay,
		caseRepo: caseRepo,
		email:    email,
		limiter:  limiter,
		limitRule: ratelimit.Config{
			MaxRequests: cfg.RateLimit.Report.MaxRequests,
			Window:      cfg.RateLimit.Report.Window,
		},
		cfg:    cfg,
		logger: log,
	}
}

// Submit rate-limits by client IP, relays the payload to the intake mailbox,
// stores the submission, and mails the case reference. The confirmation email
// is best-effort: the case exists once the row is written.
func (s *reportService) Submit(ctx context.Context, clientIP, userAgent string, req *entity.SubmitReportRequest) (*entity.SubmitReportResponse, error) {
	if !s.limiter.Allow(clientIP, s.limitRule) {
		s.logger.Warnw("Fraud report rate limited", "client_ip", clientIP)
		return nil, ErrRateLimited
	}

	caseID, err := entity.NewCaseID()
	if err != nil {
		return nil, err
	}

	if err := s.relaySubmission(ctx, caseID, clientIP, userAgent, req); err != nil {
		s.logger.Errorw("Failed to relay fraud report", "case_id", caseID, "error", err)
		return nil, err
	}

	report := &entity.FraudReport{
		CaseID:            caseID,
		FullName:          req.FullName,
		ContactEmail:      req.ContactEmail,
		ContactPhone:      req.ContactPhone,
		ScamType:          req.ScamType,
		Amount:            req.Amount,
		Currency:          req.Currency,
		Timeline:          req.Timeline,
		Description:       req.Description,
		TransactionHashes: req.TransactionHashes,
		BankReferences:    req.BankReferences,
		FilesCount:        req.FilesCount,
		ClientIP:          clientIP,
		UserAgent:         userAgent,
	}

	if _, err := s.caseRepo.Create(report); err != nil {
		s.logger.Errorw("Failed to store fraud report", "case_id", caseID, "error", err)
		return nil, fmt.Errorf("failed to store fraud report: %w", err)
	}

	// Confirmation mail must not block or fail the submission
	go func() {
		mailCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.email.SendCaseConfirmation(mailCtx, req.ContactEmail, caseID); err != nil {
			s.logger.Warnw("Failed to send case confirmation", "case_id", caseID, "error", err)
		}
	}()

	s.logger.Infow("Fraud report received", "case_id", caseID, "email", req.ContactEmail, "scam_type", req.ScamType)

	return &entity.SubmitReportResponse{
		Success:        true,
		CaseID:         caseID,
		Message:        "Fraud report received successfully. We will review your case shortly.",
		FilesProcessed: req.FilesCount,
	}, nil
}

func (s *reportService) relaySubmission(ctx context.Context, caseID, clientIP, userAgent string, req *entity.SubmitReportRequest) error {
	txHashes, err := json.Marshal(req.TransactionHashes)
	if err != nil {
		return fmt.Errorf("failed to encode transaction hashes: %w", err)
	}
	bankRefs, err := json.Marshal(req.BankReferences)
	if err != nil {
		return fmt.Errorf("failed to encode bank references: %w", err)
	}

	return s.relay.Submit(ctx, "fraud-report", map[string]string{
		"caseId":            caseID,
		"fullName":          req.FullName,
		"contactEmail":      req.ContactEmail,
		"contactPhone":      req.ContactPhone,
		"scamType":          req.ScamType,
		"amount":            req.Amount,
		"currency":          req.Currency,
		"timeline":          req.Timeline,
		"description":       req.Description,
		"transactionHashes": string(txHashes),
		"bankReferences":    string(bankRefs),
		"filesCount":        strconv.Itoa(req.FilesCount),
		"clientIp":          clientIP,
		"userAgent":         userAgent,
		"submittedAt":       time.Now().UTC().Format(time.RFC3339),
	})
}

// GetCase looks up a single submission by its case reference.
func (s *reportService) GetCase(caseID string) (*entity.FraudReport, error) {
	report, err := s.caseRepo.GetByCaseID(caseID)
	if err != nil {
		s.logger.Errorw("Failed to get case", "case_id", caseID, "error", err)
		return nil, fmt.Errorf("failed to get case: %w", err)
	}
	if report == nil {
		return nil, ErrCaseNotFound
	}
	return report, nil
}

// ListCases retrieves a page of submissions for review.
func (s *reportService) ListCases(page, pageSize int, search string) (*entity.CaseListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	cases, total, err := s.caseRepo.List(page, pageSize, search)
	if err != nil {
		s.logger.Errorw("Failed to list cases", "page", page, "error", err)
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}

	totalPages := (total + pageSize - 1) / pageSize

	return &entity.CaseListResponse{
		Cases:      cases,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}
