package repository

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"fortivault/entity"
)

// AdminRepository defines staff-account data operations.
type AdminRepository interface {
	GetByEmail(email string) (*entity.AdminUser, error)
	UpdateLastLogin(id int) error
}

type adminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository creates a new admin repository instance.
func NewAdminRepository(db *sqlx.DB) AdminRepository {
	return &adminRepository{
		db: db,
	}
}

// GetByEmail retrieves an active admin account by email.
func (r *adminRepository) GetByEmail(email string) (*entity.AdminUser, error) {
	query := `
		SELECT id, email, password_hash, status, created_at, last_login_at
		FROM admin_users
		WHERE email = $1 AND status = 'active'
	`

	var admin entity.AdminUser
	err := r.db.Get(&admin, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}

	return &admin, nil
}

// UpdateLastLogin stamps a successful login.
func (r *adminRepository) UpdateLastLogin(id int) error {
	query := `
		UPDATE admin_users
		SET last_login_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return nil
}
