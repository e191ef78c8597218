package service

import (
	"context"
	"time"

	"fortivault/config"
	"fortivault/entity"
	"fortivault/pkg/logger"
	"fortivault/ratelimit"
	"fortivault/web3forms"
)

// ContactService relays general enquiries from the contact form.
type ContactService interface {
	Submit(ctx context.Context, clientIP, userAgent string, req *entity.ContactRequest) (*entity.ContactResponse, error)
}

type contactService struct {
	relay     *web3forms.Client
	limiter   ratelimit.Store
	limitRule ratelimit.Config
	logger    *logger.Logger
}

// NewContactService creates a new contact service instance.
func NewContactService(relay *web3forms.Client, limiter ratelimit.Store, cfg *config.Config, log *logger.Logger) ContactService {
	return &contactService{
		relay:   relay,
		limiter: limiter,
		limitRule: ratelimit.Config{
			MaxRequests: cfg.RateLimit.Contact.MaxRequests,
			Window:      cfg.RateLimit.Contact.Window,
		},
		logger: log,
	}
}

// Submit rate-limits by client IP and forwards the enquiry to the relay.
// Contact messages are not persisted; the relay mailbox is their system of
// record.
func (s *contactService) Submit(ctx context.Context, clientIP, userAgent string, req *entity.ContactRequest) (*entity.ContactResponse, error) {
	if !s.limiter.Allow(clientIP, s.limitRule) {
		s.logger.Warnw("Contact form rate limited", "client_ip", clientIP)
		return nil, ErrRateLimited
	}

	fields := map[string]string{
		"name":        req.Name,
		"email":       req.Email,
		"subject":     req.Subject,
		"message":     req.Message,
		"clientIp":    clientIP,
		"userAgent":   userAgent,
		"submittedAt": time.Now().UTC().Format(time.RFC3339),
	}
	if req.Phone != "" {
		fields["phone"] = req.Phone
	}

	if err := s.relay.Submit(ctx, "contact", fields); err != nil {
		s.logger.Errorw("Failed to relay contact enquiry", "email", req.Email, "error", err)
		return nil, err
	}

	s.logger.Infow("Contact enquiry relayed", "email", req.Email, "subject", req.Subject)

	return &entity.ContactResponse{
		Success: true,
		Message: "Your message has been received. We'll get back to you shortly.",
	}, nil
}
