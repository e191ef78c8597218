package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fortivault/entity"
)

func validReportRequest() entity.SubmitReportRequest {
	return entity.SubmitReportRequest{
		FullName:          "Jordan Smith",
		ContactEmail:      "jordan@example.com",
		ContactPhone:      "+1 (555) 123-4567",
		ScamType:          "crypto",
		Amount:            "12500.50",
		Currency:          "USD",
		Timeline:          "last-week",
		Description:       "Funds sent to a fraudulent investment platform.",
		TransactionHashes: []string{"0xabc123"},
		FilesCount:        2,
	}
}

func TestNew(t *testing.T) {
	v := New()
	assert.NotNil(t, v)
	assert.NotNil(t, v.validator)
}

func TestValidateStruct_NilInput(t *testing.T) {
	v := New()
	err := v.ValidateStruct(nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "input cannot be nil")
}

func TestValidateStruct_ReportRequest(t *testing.T) {
	v := New()

	testCases := []struct {
		name      string
		mutate    func(*entity.SubmitReportRequest)
		expectErr bool
		errorText string
	}{
		{
			name:   "valid with transaction hash",
			mutate: func(r *entity.SubmitReportRequest) {},
		},
		{
			name: "valid with bank reference only",
			mutate: func(r *entity.SubmitReportRequest) {
				r.TransactionHashes = nil
				r.BankReferences = []string{"REF-2024-0001"}
			},
		},
		{
			name: "missing full name",
			mutate: func(r *entity.SubmitReportRequest) {
				r.FullName = ""
			},
			expectErr: true,
			errorText: "fullName is required",
		},
		{
			name: "invalid email",
			mutate: func(r *entity.SubmitReportRequest) {
				r.ContactEmail = "not-an-email"
			},
			expectErr: true,
			errorText: "valid email address",
		},
		{
			name: "non-numeric amount",
			mutate: func(r *entity.SubmitReportRequest) {
				r.Amount = "a lot"
			},
			expectErr: true,
			errorText: "positive number",
		},
		{
			name: "zero amount",
			mutate: func(r *entity.SubmitReportRequest) {
				r.Amount = "0"
			},
			expectErr: true,
		},
		{
			name: "negative amount",
			mutate: func(r *entity.SubmitReportRequest) {
				r.Amount = "-50"
			},
			expectErr: true,
		},
		{
			name: "no transaction reference at all",
			mutate: func(r *entity.SubmitReportRequest) {
				r.TransactionHashes = nil
				r.BankReferences = nil
			},
			expectErr: true,
		},
		{
			name: "invalid phone",
			mutate: func(r *entity.SubmitReportRequest) {
				r.ContactPhone = "call me maybe"
			},
			expectErr: true,
			errorText: "valid phone number",
		},
		{
			name: "too-short phone",
			mutate: func(r *entity.SubmitReportRequest) {
				r.ContactPhone = "555-1234"
			},
			expectErr: true,
		},
		{
			name: "phone is optional",
			mutate: func(r *entity.SubmitReportRequest) {
				r.ContactPhone = ""
			},
		},
		{
			name: "missing description",
			mutate: func(r *entity.SubmitReportRequest) {
				r.Description = ""
			},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := validReportRequest()
			tc.mutate(&req)

			err := v.ValidateStruct(&req)
			if tc.expectErr {
				assert.Error(t, err)
				if tc.errorText != "" {
					assert.Contains(t, err.Error(), tc.errorText)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateStruct_ContactRequest(t *testing.T) {
	v := New()

	valid := entity.ContactRequest{
		Name:    "Jordan Smith",
		Email:   "jordan@example.com",
		Subject: "Question about my case",
		Message: "Hello, I'd like an update.",
	}
	assert.NoError(t, v.ValidateStruct(&valid))

	missingSubject := valid
	missingSubject.Subject = ""
	err := v.ValidateStruct(&missingSubject)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "subject is required")
}

func TestValidateStruct_OTPRequests(t *testing.T) {
	v := New()

	assert.NoError(t, v.ValidateStruct(&entity.SendOTPRequest{
		Email:  "victim@example.com",
		CaseID: "CSRU-1A2B3C-DEADBEEF",
	}))

	err := v.ValidateStruct(&entity.SendOTPRequest{Email: "victim@example.com"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "caseId is required")

	assert.NoError(t, v.ValidateStruct(&entity.VerifyOTPRequest{Code: "438219"}))

	err = v.ValidateStruct(&entity.VerifyOTPRequest{Code: "43a219"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "only digits")
}
