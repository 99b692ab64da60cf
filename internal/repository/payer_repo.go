package repository

import (
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lucabarbieri/gestionale/internal/models"
)

// PayerRepository handles payer database operations
type PayerRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPayerRepository creates a new payer repository
func NewPayerRepository(db *sql.DB, logger *zap.Logger) *PayerRepository {
	return &PayerRepository{
		db:     db,
		logger: logger,
	}
}

const payerColumns = `
	id, legal_name, given_name, address, postal_code, city, province, country,
	vat_number, fiscal_code, split_payment, routing_code, certified_email,
	collection_method, mandate_active, mandate_iban, mandate_signature_date,
	mandate_reference, active, created_at, updated_at
`

func scanPayer(row interface{ Scan(...interface{}) error }) (*models.Payer, error) {
	var payer models.Payer
	var signatureDate sql.NullTime

	err := row.Scan(
		&payer.ID,
		&payer.LegalName,
		&payer.GivenName,
		&payer.Address,
		&payer.PostalCode,
		&payer.City,
		&payer.Province,
		&payer.Country,
		&payer.VATNumber,
		&payer.FiscalCode,
		&payer.SplitPayment,
		&payer.RoutingCode,
		&payer.CertifiedEmail,
		&payer.CollectionMethod,
		&payer.MandateActive,
		&payer.MandateIBAN,
		&signatureDate,
		&payer.MandateReference,
		&payer.Active,
		&payer.CreatedAt,
		&payer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if signatureDate.Valid {
		payer.MandateSignatureDate = &signatureDate.Time
	}
	return &payer, nil
}

// Create creates a new payer record
func (r *PayerRepository) Create(payer *models.Payer) error {
	query := `
		INSERT INTO payers (
			legal_name, given_name, address, postal_code, city, province,
			country, vat_number, fiscal_code, split_payment, routing_code,
			certified_email, collection_method, mandate_active, mandate_iban,
			mandate_signature_date, mandate_reference, active
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var signatureDate interface{}
	if payer.MandateSignatureDate != nil {
		signatureDate = payer.MandateSignatureDate.Format("2006-01-02")
	}

	result, err := r.db.Exec(query,
		payer.LegalName,
		payer.GivenName,
		payer.Address,
		payer.PostalCode,
		payer.City,
		payer.Province,
		payer.Country,
		payer.VATNumber,
		payer.FiscalCode,
		payer.SplitPayment,
		payer.RoutingCode,
		payer.CertifiedEmail,
		payer.CollectionMethod,
		payer.MandateActive,
		payer.MandateIBAN,
		signatureDate,
		payer.MandateReference,
		payer.Active,
	)
	if err != nil {
		r.logger.Error("Failed to create payer", zap.Error(err))
		return fmt.Errorf("failed to create payer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	payer.ID = id
	return nil
}

// GetByID retrieves a payer by ID
func (r *PayerRepository) GetByID(id int64) (*models.Payer, error) {
	query := `SELECT ` + payerColumns + ` FROM payers WHERE id = ?`

	payer, err := scanPayer(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("payer %d not found", id)
	}
	if err != nil {
		r.logger.Error("Failed to get payer", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get payer: %w", err)
	}
	return payer, nil
}

// GetByIDs retrieves multiple payers keyed by ID
func (r *PayerRepository) GetByIDs(ids []int64) (map[int64]*models.Payer, error) {
	payers := make(map[int64]*models.Payer, len(ids))
	for _, id := range ids {
		if _, ok := payers[id]; ok {
			continue
		}
		payer, err := r.GetByID(id)
		if err != nil {
			return nil, err
		}
		payers[id] = payer
	}
	return payers, nil
}

// List retrieves payers, optionally restricted to active ones
func (r *PayerRepository) List(activeOnly bool) ([]*models.Payer, error) {
	query := `SELECT ` + payerColumns + ` FROM payers`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY legal_name, given_name`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Failed to list payers", zap.Error(err))
		return nil, fmt.Errorf("failed to list payers: %w", err)
	}
	defer rows.Close()

	var payers []*models.Payer
	for rows.Next() {
		payer, err := scanPayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payer: %w", err)
		}
		payers = append(payers, payer)
	}
	return payers, rows.Err()
}

// Update updates an existing payer record
func (r *PayerRepository) Update(payer *models.Payer) error {
	query := `
		UPDATE payers SET
			legal_name = ?, given_name = ?, address = ?, postal_code = ?,
			city = ?, province = ?, country = ?, vat_number = ?,
			fiscal_code = ?, split_payment = ?, routing_code = ?,
			certified_email = ?, collection_method = ?, mandate_active = ?,
			mandate_iban = ?, mandate_signature_date = ?, mandate_reference = ?,
			active = ?, updated_at = ?
		WHERE id = ?
	`

	var signatureDate interface{}
	if payer.MandateSignatureDate != nil {
		signatureDate = payer.MandateSignatureDate.Format("2006-01-02")
	}

	_, err := r.db.Exec(query,
		payer.LegalName,
		payer.GivenName,
		payer.Address,
		payer.PostalCode,
		payer.City,
		payer.Province,
		payer.Country,
		payer.VATNumber,
		payer.FiscalCode,
		payer.SplitPayment,
		payer.RoutingCode,
		payer.CertifiedEmail,
		payer.CollectionMethod,
		payer.MandateActive,
		payer.MandateIBAN,
		signatureDate,
		payer.MandateReference,
		payer.Active,
		time.Now(),
		payer.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update payer", zap.Int64("id", payer.ID), zap.Error(err))
		return fmt.Errorf("failed to update payer: %w", err)
	}
	return nil
}
