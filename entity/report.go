package entity

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Case status values as a report moves through review.
const (
	CaseStatusReceived  = "received"
	CaseStatusVerified  = "verified"
	CaseStatusReviewing = "reviewing"
	CaseStatusClosed    = "closed"
)

// FraudReport is a stored fraud-report submission.
type FraudReport struct {
	ID                string         `db:"id" json:"id"`
	CaseID            string         `db:"case_id" json:"case_id"`
	FullName          string         `db:"full_name" json:"full_name"`
	ContactEmail      string         `db:"contact_email" json:"contact_email"`
	ContactPhone      string         `db:"contact_phone" json:"contact_phone"`
	ScamType          string         `db:"scam_type" json:"scam_type"`
	Amount            string         `db:"amount" json:"amount"`
	Currency          string         `db:"currency" json:"currency"`
	Timeline          string         `db:"timeline" json:"timeline"`
	Description       string         `db:"description" json:"description"`
	TransactionHashes pq.StringArray `db:"transaction_hashes" json:"transaction_hashes"`
	BankReferences    pq.StringArray `db:"bank_references" json:"bank_references"`
	FilesCount        int            `db:"files_count" json:"files_count"`
	ClientIP          string         `db:"client_ip" json:"client_ip"`
	UserAgent         string         `db:"user_agent" json:"user_agent"`
	EmailVerified     bool           `db:"email_verified" json:"email_verified"`
	Status            string         `db:"status" json:"status"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	VerifiedAt        *time.Time     `db:"verified_at" json:"verified_at"`
}

// TableName returns the table name for the FraudReport entity.
func (FraudReport) TableName() string {
	return "fraud_reports"
}

// SubmitReportRequest is the wizard's final submission payload. At least one
// transaction hash or bank reference must accompany the report.
type SubmitReportRequest struct {
	FullName          string   `json:"fullName" validate:"required,max=200"`
	ContactEmail      string   `json:"contactEmail" validate:"required,email"`
	ContactPhone      string   `json:"contactPhone" validate:"omitempty,loose_phone"`
	ScamType          string   `json:"scamType" validate:"required,max=100"`
	Amount            string   `json:"amount" validate:"required,amount"`
	Currency          string   `json:"currency" validate:"required,max=20"`
	Timeline          string   `json:"timeline" validate:"required,max=200"`
	Description       string   `json:"description" validate:"required"`
	TransactionHashes []string `json:"transactionHashes" validate:"required_without=BankReferences"`
	BankReferences    []string `json:"bankReferences" validate:"required_without=TransactionHashes"`
	FilesCount        int      `json:"filesCount" validate:"gte=0"`
}

// SubmitReportResponse acknowledges a stored report.
type SubmitReportResponse struct {
	Success        bool   `json:"success"`
	CaseID         string `json:"caseId"`
	Message        string `json:"message"`
	FilesProcessed int    `json:"filesProcessed"`
}

// CaseListResponse is the paginated admin view over submissions.
type CaseListResponse struct {
	Cases      []FraudReport `json:"cases"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

// NewCaseID generates a submitter-facing case reference of the form
// CSRU-<hex millisecond timestamp>-<16 hex random>. The timestamp part keeps
// references roughly sortable; the random part makes them unguessable.
func NewCaseID() (string, error) {
	random := make([]byte, 8)
	if _, err := rand.Read(random); err != nil {
		return "", fmt.Errorf("failed to generate case id: %w", err)
	}

	timestamp := strings.ToUpper(fmt.Sprintf("%x", time.Now().UnixMilli()))
	return fmt.Sprintf("CSRU-%s-%s", timestamp, strings.ToUpper(hex.EncodeToString(random))), nil
}
