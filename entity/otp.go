package entity

// SendOTPRequest asks for a verification code bound to a submitted case.
type SendOTPRequest struct {
	Email  string `json:"email" validate:"required,email"`
	CaseID string `json:"caseId" validate:"required,max=64"`
}

// SendOTPResponse confirms dispatch. Code is echoed only outside production
// so local development does not need a working mailbox.
type SendOTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"otp,omitempty"`
}

// VerifyOTPRequest carries the code the submitter received by email. The
// session token itself arrives in the fv_otp cookie, not the body.
type VerifyOTPRequest struct {
	Code string `json:"code" validate:"required,numeric,min=4,max=10"`
}

// VerifyOTPResponse confirms the email/case binding was proven.
type VerifyOTPResponse struct {
	Success bool   `json:"success"`
	CaseID  string `json:"caseId"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
