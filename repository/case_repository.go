package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"fortivault/entity"
)

// CaseRepository defines fraud-report persistence operations.
type CaseRepository interface {
	Create(report *entity.FraudReport) (*entity.FraudReport, error)
	GetByCaseID(caseID string) (*entity.FraudReport, error)
	MarkEmailVerified(caseID, email string) error
	List(page, pageSize int, search string) ([]entity.FraudReport, int, error)
}

type caseRepository struct {
	db *sqlx.DB
}

// NewCaseRepository creates a new case repository instance.
func NewCaseRepository(db *sqlx.DB) CaseRepository {
	return &caseRepository{
		db: db,
	}
}

// Create stores a new fraud report and returns the stored row.
func (r *caseRepository) Create(report *entity.FraudReport) (*entity.FraudReport, error) {
	query := `
		INSERT INTO fraud_reports (
			id, case_id, full_name, contact_email, contact_phone, scam_type,
			amount, currency, timeline, description, transaction_hashes,
			bank_references, files_count, client_ip, user_agent,
			email_verified, status, created_at
		)
		VALUES (
			:id, :case_id, :full_name, :contact_email, :contact_phone, :scam_type,
			:amount, :currency, :timeline, :description, :transaction_hashes,
			:bank_references, :files_count, :client_ip, :user_agent,
			:email_verified, :status, :created_at
		)
		RETURNING id, case_id, full_name, contact_email, contact_phone, scam_type,
			amount, currency, timeline, description, transaction_hashes,
			bank_references, files_count, client_ip, user_agent,
			email_verified, status, created_at, verified_at
	`

	report.ID = uuid.NewString()
	report.CreatedAt = time.Now()
	report.EmailVerified = false
	report.Status = entity.CaseStatusReceived

	rows, err := r.db.NamedQuery(query, report)
	if err != nil {
		return nil, fmt.Errorf("failed to create fraud report: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, fmt.Errorf("failed to get created fraud report")
	}

	var created entity.FraudReport
	if err := rows.StructScan(&created); err != nil {
		return nil, fmt.Errorf("failed to scan created fraud report: %w", err)
	}

	return &created, nil
}

// GetByCaseID retrieves a fraud report by its case reference.
func (r *caseRepository) GetByCaseID(caseID string) (*entity.FraudReport, error) {
	query := `
		SELECT id, case_id, full_name, contact_email, contact_phone, scam_type,
			amount, currency, timeline, description, transaction_hashes,
			bank_references, files_count, client_ip, user_agent,
			email_verified, status, created_at, verified_at
		FROM fraud_reports
		WHERE case_id = $1
	`

	var report entity.FraudReport
	err := r.db.Get(&report, query, caseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get fraud report: %w", err)
	}

	return &report, nil
}

// MarkEmailVerified records a successful OTP verification for a case. The
// email must match the stored contact address so a token issued for one case
// cannot verify another.
func (r *caseRepository) MarkEmailVerified(caseID, email string) error {
	query := `
		UPDATE fraud_reports
		SET email_verified = TRUE, verified_at = CURRENT_TIMESTAMP, status = $3
		WHERE case_id = $1 AND contact_email = $2 AND email_verified = FALSE
	`

	result, err := r.db.Exec(query, caseID, email, entity.CaseStatusVerified)
	if err != nil {
		return fmt.Errorf("failed to mark case verified: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("case not found or already verified")
	}

	return nil
}

// List retrieves paginated fraud reports, newest first, with optional search
// over case ID and contact email.
func (r *caseRepository) List(page, pageSize int, search string) ([]entity.FraudReport, int, error) {
	offset := (page - 1) * pageSize

	whereClause := ""
	args := []interface{}{}
	argIndex := 1

	if search != "" {
		whereClause = fmt.Sprintf("WHERE case_id ILIKE $%d OR contact_email ILIKE $%d", argIndex, argIndex)
		args = append(args, "%"+strings.ToLower(search)+"%")
		argIndex++
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM fraud_reports %s", whereClause)
	var total int
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count fraud reports: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT id, case_id, full_name, contact_email, contact_phone, scam_type,
			amount, currency, timeline, description, transaction_hashes,
			bank_references, files_count, client_ip, user_agent,
			email_verified, status, created_at, verified_at
		FROM fraud_reports
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIndex, argIndex+1)

	args = append(args, pageSize, offset)

	var reports []entity.FraudReport
	if err := r.db.Select(&reports, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list fraud reports: %w", err)
	}

	return reports, total, nil
}
