package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/lucabarbieri/gestionale/internal/models"
)

// IssuerRepository handles issuer database operations
type IssuerRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewIssuerRepository creates a new issuer repository
func NewIssuerRepository(db *sql.DB, logger *zap.Logger) *IssuerRepository {
	return &IssuerRepository{
		db:     db,
		logger: logger,
	}
}

const issuerColumns = `
	id, legal_name, vat_number, fiscal_code, address, postal_code, city,
	province, country, fiscal_regime, certified_email, iban, created_at
`

func scanIssuer(row interface{ Scan(...interface{}) error }) (*models.Issuer, error) {
	var issuer models.Issuer
	err := row.Scan(
		&issuer.ID,
		&issuer.LegalName,
		&issuer.VATNumber,
		&issuer.FiscalCode,
		&issuer.Address,
		&issuer.PostalCode,
		&issuer.City,
		&issuer.Province,
		&issuer.Country,
		&issuer.FiscalRegime,
		&issuer.CertifiedEmail,
		&issuer.IBAN,
		&issuer.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &issuer, nil
}

// Create creates a new issuer record
func (r *IssuerRepository) Create(issuer *models.Issuer) error {
	query := `
		INSERT INTO issuers (
			legal_name, vat_number, fiscal_code, address, postal_code, city,
			province, country, fiscal_regime, certified_email, iban
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		issuer.LegalName,
		issuer.VATNumber,
		issuer.FiscalCode,
		issuer.Address,
		issuer.PostalCode,
		issuer.City,
		issuer.Province,
		issuer.Country,
		issuer.FiscalRegime,
		issuer.CertifiedEmail,
		issuer.IBAN,
	)
	if err != nil {
		r.logger.Error("Failed to create issuer", zap.Error(err))
		return fmt.Errorf("failed to create issuer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	issuer.ID = id
	return nil
}

// GetByID retrieves an issuer by ID
func (r *IssuerRepository) GetByID(id int64) (*models.Issuer, error) {
	query := `SELECT ` + issuerColumns + ` FROM issuers WHERE id = ?`

	issuer, err := scanIssuer(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("issuer %d not found", id)
	}
	if err != nil {
		r.logger.Error("Failed to get issuer", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get issuer: %w", err)
	}
	return issuer, nil
}

// List retrieves all issuers ordered by legal name
func (r *IssuerRepository) List() ([]*models.Issuer, error) {
	query := `SELECT ` + issuerColumns + ` FROM issuers ORDER BY legal_name`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Failed to list issuers", zap.Error(err))
		return nil, fmt.Errorf("failed to list issuers: %w", err)
	}
	defer rows.Close()

	var issuers []*models.Issuer
	for rows.Next() {
		issuer, err := scanIssuer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issuer: %w", err)
		}
		issuers = append(issuers, issuer)
	}
	return issuers, rows.Err()
}

// Update updates an existing issuer record
func (r *IssuerRepository) Update(issuer *models.Issuer) error {
	query := `
		UPDATE issuers SET
			legal_name = ?, vat_number = ?, fiscal_code = ?, address = ?,
			postal_code = ?, city = ?, province = ?, country = ?,
			fiscal_regime = ?, certified_email = ?, iban = ?
		WHERE id = ?
	`

	_, err := r.db.Exec(query,
		issuer.LegalName,
		issuer.VATNumber,
		issuer.FiscalCode,
		issuer.Address,
		issuer.PostalCode,
		issuer.City,
		issuer.Province,
		issuer.Country,
		issuer.FiscalRegime,
		issuer.CertifiedEmail,
		issuer.IBAN,
		issuer.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update issuer", zap.Int64("id", issuer.ID), zap.Error(err))
		return fmt.Errorf("failed to update issuer: %w", err)
	}
	return nil
}
