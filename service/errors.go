package service

import "errors"

// Business outcomes the controllers translate to HTTP responses. Anything not
// listed here surfaces as a generic internal error with detail only in logs.
var (
	// ErrRateLimited means the caller exceeded an endpoint's request budget.
	ErrRateLimited = errors.New("too many requests")

	// ErrCodeInvalid collapses every OTP verification failure (bad signature,
	// expired, wrong code, missing cookie) into one indistinguishable outcome.
	ErrCodeInvalid = errors.New("code invalid or expired")

	// ErrEmailDispatch means the mail collaborator failed to deliver.
	ErrEmailDispatch = errors.New("failed to dispatch email")

	// ErrInvalidCredentials covers unknown accounts and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrCaseNotFound means no submission matches the given case reference.
	ErrCaseNotFound = errors.New("case not found")
)
