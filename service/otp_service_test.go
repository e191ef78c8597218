package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fortivault/config"
	"fortivault/entity"
	"fortivault/otptoken"
	"fortivault/pkg/logger"
	"fortivault/ratelimit"
	"fortivault/repository"
)

type fakeEmailService struct {
	sentCode   string
	sentEmail  string
	sentCaseID string
	failSend   error
}

func (f *fakeEmailService) SendOTP(_ context.Context, email, code, caseID string) error {
	if f.failSend != nil {
		return f.failSend
	}
	f.sentEmail = email
	f.sentCode = code
	f.sentCaseID = caseID
	return nil
}

func (f *fakeEmailService) SendCaseConfirmation(_ context.Context, _, _ string) error {
	return nil
}

type fakeCaseRepository struct {
	repository.CaseRepository

	verifiedCaseID string
	verifiedEmail  string
	failVerify     error
}

func (f *fakeCaseRepository) MarkEmailVerified(caseID, email string) error {
	if f.failVerify != nil {
		return f.failVerify
	}
	f.verifiedCaseID = caseID
	f.verifiedEmail = email
	return nil
}

func testOTPConfig(env string) *config.Config {
	return &config.Config{
		Application: config.Application{Environment: env},
		OTP: config.OTP{
			Length: 6,
			TTL:    10 * time.Minute,
		},
		RateLimit: config.RateLimit{
			OTP: config.RateLimitRule{MaxRequests: 5, Window: 10 * time.Minute},
		},
	}
}

func newTestOTPService(t *testing.T, cfg *config.Config, email *fakeEmailService, cases *fakeCaseRepository) OTPService {
	t.Helper()
	tokens, err := otptoken.NewManager("test-signing-secret")
	require.NoError(t, err)
	return NewOTPService(tokens, ratelimit.NewMemoryStore(), email, cases, cfg, logger.NewNop())
}

func TestOTPService_SendAndVerify(t *testing.T) {
	email := &fakeEmailService{}
	cases := &fakeCaseRepository{}
	svc := newTestOTPService(t, testOTPConfig(config.EnvDevelopment), email, cases)

	resp, token, err := svc.SendOTP(context.Background(), "1.2.3.4", &entity.SendOTPRequest{
		Email:  "victim@example.com",
		CaseID: "CSRU-1A2B-CAFEBABE00112233",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.True(t, resp.Success)
	assert.Equal(t, "victim@example.com", email.sentEmail)
	assert.Len(t, email.sentCode, 6)

	verifyResp, err := svc.VerifyOTP(context.Background(), token, email.sentCode)
	require.NoError(t, err)
	assert.True(t, verifyResp.Success)
	assert.Equal(t, "CSRU-1A2B-CAFEBABE00112233", verifyResp.CaseID)
	assert.Equal(t, "victim@example.com", verifyResp.Email)

	assert.Equal(t, "CSRU-1A2B-CAFEBABE00112233", cases.verifiedCaseID)
	assert.Equal(t, "victim@example.com", cases.verifiedEmail)
}

func TestOTPService_SendOTP_RateLimited(t *testing.T) {
	email := &fakeEmailService{}
	svc := newTestOTPService(t, testOTPConfig(config.EnvDevelopment), email, &fakeCaseRepository{})

	req := &entity.SendOTPRequest{Email: "victim@example.com", CaseID: "CSRU-1"}
	for i := 0; i < 5; i++ {
		_, _, err := svc.SendOTP(context.Background(), "1.2.3.4", req)
		require.NoError(t, err, "request %d within the budget", i+1)
	}

	_, _, err := svc.SendOTP(context.Background(), "1.2.3.4", req)
	assert.ErrorIs(t, err, ErrRateLimited)

	// The budget is per IP+email, not global
	_, _, err = svc.SendOTP(context.Background(), "5.6.7.8", req)
	assert.NoError(t, err)
}

func TestOTPService_SendOTP_EmailFailure(t *testing.T) {
	email := &fakeEmailService{failSend: errors.New("resend unavailable")}
	svc := newTestOTPService(t, testOTPConfig(config.EnvDevelopment), email, &fakeCaseRepository{})

	_, token, err := svc.SendOTP(context.Background(), "1.2.3.4", &entity.SendOTPRequest{
		Email:  "victim@example.com",
		CaseID: "CSRU-1",
	})
	assert.ErrorIs(t, err, ErrEmailDispatch)
	assert.Empty(t, token)
}

func TestOTPService_SendOTP_CodeEchoOnlyInDevelopment(t *testing.T) {
	email := &fakeEmailService{}
	dev := newTestOTPService(t, testOTPConfig(config.EnvDevelopment), email, &fakeCaseRepository{})

	resp, _, err := dev.SendOTP(context.Background(), "1.2.3.4", &entity.SendOTPRequest{
		Email: "victim@example.com", CaseID: "CSRU-1",
	})
	require.NoError(t, err)
	assert.Equal(t, email.sentCode, resp.Code, "development responses echo the code")

	prod := newTestOTPService(t, testOTPConfig(config.EnvProduction), email, &fakeCaseRepository{})
	resp, _, err = prod.SendOTP(context.Background(), "1.2.3.4", &entity.SendOTPRequest{
		Email: "victim@example.com", CaseID: "CSRU-1",
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Code, "production responses never expose the code")
}

func TestOTPService_VerifyOTP_WrongCode(t *testing.T) {
	email := &fakeEmailService{}
	svc := newTestOTPService(t, testOTPConfig(config.EnvDevelopment), email, &fakeCaseRepository{})

	_, token, err := svc.SendOTP(context.Background(), "1.2.3.4", &entity.SendOTPRequest{
		Email: "victim@example.com", CaseID: "CSRU-1",
	})
	require.NoError(t, err)

	wrong := "000000"
	if email.sentCode == wrong {
		wrong = "000001"
	}

	_, err = svc.VerifyOTP(context.Background(), token, wrong)
	assert.ErrorIs(t, err, ErrCodeInvalid)
}

func TestOTPService_VerifyOTP_InvalidToken(t *testing.T) {
	svc := newTestOTPService(t, testOTPConfig(config.EnvDevelopment), &fakeEmailService{}, &fakeCaseRepository{})

	for _, token := range []string{"", "garbage", "body.sig"} {
		_, err := svc.VerifyOTP(context.Background(), token, "438219")
		assert.ErrorIs(t, err, ErrCodeInvalid)
	}
}

func TestOTPService_VerifyOTP_RepositoryFailureDoesNotBlock(t *testing.T) {
	email := &fakeEmailService{}
	cases := &fakeCaseRepository{failVerify: errors.New("db down")}
	svc := newTestOTPService(t, testOTPConfig(config.EnvDevelopment), email, cases)

	_, token, err := svc.SendOTP(context.Background(), "1.2.3.4", &entity.SendOTPRequest{
		Email: "victim@example.com", CaseID: "CSRU-1",
	})
	require.NoError(t, err)

	resp, err := svc.VerifyOTP(context.Background(), token, email.sentCode)
	require.NoError(t, err, "verification succeeds even when the status update fails")
	assert.True(t, resp.Success)
}
