package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fortivault/entity"
)

var reportColumns = []string{
	"id", "case_id", "full_name", "contact_email", "contact_phone", "scam_type",
	"amount", "currency", "timeline", "description", "transaction_hashes",
	"bank_references", "files_count", "client_ip", "user_agent",
	"email_verified", "status", "created_at", "verified_at",
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func sampleReportRows(caseID string) *sqlmock.Rows {
	return sqlmock.NewRows(reportColumns).AddRow(
		"8a6f5a1e-0000-0000-0000-000000000001", caseID, "Jordan Smith",
		"jordan@example.com", "+15551234567", "crypto", "12500.50", "USD",
		"last-week", "Funds sent to a fraudulent platform.",
		"{0xabc123}", "{}", 2, "1.2.3.4", "test-agent",
		false, entity.CaseStatusReceived, time.Now(), nil,
	)
}

func TestCaseRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCaseRepository(db)

	mock.ExpectQuery("INSERT INTO fraud_reports").
		WillReturnRows(sampleReportRows("CSRU-1A2B-CAFEBABE00112233"))

	created, err := repo.Create(&entity.FraudReport{
		CaseID:            "CSRU-1A2B-CAFEBABE00112233",
		FullName:          "Jordan Smith",
		ContactEmail:      "jordan@example.com",
		ScamType:          "crypto",
		Amount:            "12500.50",
		Currency:          "USD",
		Timeline:          "last-week",
		Description:       "Funds sent to a fraudulent platform.",
		TransactionHashes: []string{"0xabc123"},
		FilesCount:        2,
	})

	require.NoError(t, err)
	assert.Equal(t, "CSRU-1A2B-CAFEBABE00112233", created.CaseID)
	assert.Equal(t, []string{"0xabc123"}, []string(created.TransactionHashes))
	assert.Equal(t, entity.CaseStatusReceived, created.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCaseRepository_GetByCaseID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCaseRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM fraud_reports").
		WithArgs("CSRU-FOUND").
		WillReturnRows(sampleReportRows("CSRU-FOUND"))

	report, err := repo.GetByCaseID("CSRU-FOUND")
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, "CSRU-FOUND", report.CaseID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCaseRepository_GetByCaseID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCaseRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM fraud_reports").
		WithArgs("CSRU-MISSING").
		WillReturnError(sql.ErrNoRows)

	report, err := repo.GetByCaseID("CSRU-MISSING")
	assert.NoError(t, err)
	assert.Nil(t, report)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCaseRepository_MarkEmailVerified(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCaseRepository(db)

	mock.ExpectExec("UPDATE fraud_reports").
		WithArgs("CSRU-1", "jordan@example.com", entity.CaseStatusVerified).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkEmailVerified("CSRU-1", "jordan@example.com")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCaseRepository_MarkEmailVerified_NoMatch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCaseRepository(db)

	mock.ExpectExec("UPDATE fraud_reports").
		WithArgs("CSRU-1", "wrong@example.com", entity.CaseStatusVerified).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkEmailVerified("CSRU-1", "wrong@example.com")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found or already verified")
}

func TestCaseRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCaseRepository(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM fraud_reports").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM fraud_reports").
		WithArgs(20, 0).
		WillReturnRows(sampleReportRows("CSRU-LIST-1"))

	reports, total, err := repo.List(1, 20, "")
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, reports, 1)
	assert.Equal(t, "CSRU-LIST-1", reports[0].CaseID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCaseRepository_List_WithSearch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCaseRepository(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM fraud_reports").
		WithArgs("%csru-x%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT (.+) FROM fraud_reports").
		WithArgs("%csru-x%", 20, 0).
		WillReturnRows(sqlmock.NewRows(reportColumns))

	reports, total, err := repo.List(1, 20, "CSRU-X")
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, reports)
	assert.NoError(t, mock.ExpectationsWereMet())
}
