package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/lucabarbieri/gestionale/internal/models"
)

// RevenueAccountRepository handles revenue account database operations
type RevenueAccountRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRevenueAccountRepository creates a new revenue account repository
func NewRevenueAccountRepository(db *sql.DB, logger *zap.Logger) *RevenueAccountRepository {
	return &RevenueAccountRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new revenue account
func (r *RevenueAccountRepository) Create(account *models.RevenueAccount) error {
	query := `INSERT INTO revenue_accounts (code, description) VALUES (?, ?)`

	result, err := r.db.Exec(query, account.Code, account.Description)
	if err != nil {
		r.logger.Error("Failed to create revenue account", zap.Error(err))
		return fmt.Errorf("failed to create revenue account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	account.ID = id
	return nil
}

// GetByID retrieves a revenue account by ID
func (r *RevenueAccountRepository) GetByID(id int64) (*models.RevenueAccount, error) {
	query := `SELECT id, code, description, created_at FROM revenue_accounts WHERE id = ?`

	var account models.RevenueAccount
	err := r.db.QueryRow(query, id).Scan(
		&account.ID,
		&account.Code,
		&account.Description,
		&account.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("revenue account %d not found", id)
	}
	if err != nil {
		r.logger.Error("Failed to get revenue account", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get revenue account: %w", err)
	}
	return &account, nil
}

// List retrieves all revenue accounts ordered by code
func (r *RevenueAccountRepository) List() ([]*models.RevenueAccount, error) {
	query := `SELECT id, code, description, created_at FROM revenue_accounts ORDER BY code`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Failed to list revenue accounts", zap.Error(err))
		return nil, fmt.Errorf("failed to list revenue accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.RevenueAccount
	for rows.Next() {
		var account models.RevenueAccount
		if err := rows.Scan(&account.ID, &account.Code, &account.Description, &account.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan revenue account: %w", err)
		}
		accounts = append(accounts, &account)
	}
	return accounts, rows.Err()
}
