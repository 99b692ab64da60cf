package repository

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/lucabarbieri/gestionale/internal/models"
)

// InvoiceRepository handles invoice database operations
type InvoiceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *sql.DB, logger *zap.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

const invoiceColumns = `
	id, number, year, issue_date, payer_id, issuer_id, total_net, total_vat,
	total, status, document_generated, document_filename, notes, created_at
`

func scanInvoice(row interface{ Scan(...interface{}) error }) (*models.Invoice, error) {
	var invoice models.Invoice
	var totalNet, totalVAT, total string

	err := row.Scan(
		&invoice.ID,
		&invoice.Number,
		&invoice.Year,
		&invoice.IssueDate,
		&invoice.PayerID,
		&invoice.IssuerID,
		&totalNet,
		&totalVAT,
		&total,
		&invoice.Status,
		&invoice.DocumentGenerated,
		&invoice.DocumentFilename,
		&invoice.Notes,
		&invoice.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if invoice.TotalNet, err = decimal.NewFromString(totalNet); err != nil {
		return nil, fmt.Errorf("invalid total_net %q: %w", totalNet, err)
	}
	if invoice.TotalVAT, err = decimal.NewFromString(totalVAT); err != nil {
		return nil, fmt.Errorf("invalid total_vat %q: %w", totalVAT, err)
	}
	if invoice.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("invalid total %q: %w", total, err)
	}
	return &invoice, nil
}

// NextNumber returns the next invoice number for an issuer and year:
// max(number)+1, or 1 when no invoice exists yet. Call inside the same
// transaction that inserts the invoice; the UNIQUE (number, year, issuer_id)
// constraint is the final arbiter under concurrency.
func (r *InvoiceRepository) NextNumber(tx *sql.Tx, issuerID int64, year int) (int, error) {
	query := `SELECT COALESCE(MAX(number), 0) + 1 FROM invoices WHERE issuer_id = ? AND year = ?`

	var next int
	var err error
	if tx != nil {
		err = tx.QueryRow(query, issuerID, year).Scan(&next)
	} else {
		err = r.db.QueryRow(query, issuerID, year).Scan(&next)
	}
	if err != nil {
		r.logger.Error("Failed to get next invoice number",
			zap.Int64("issuer_id", issuerID), zap.Int("year", year), zap.Error(err))
		return 0, fmt.Errorf("failed to get next invoice number: %w", err)
	}
	return next, nil
}

// Create creates a new invoice record
func (r *InvoiceRepository) Create(tx *sql.Tx, invoice *models.Invoice) error {
	query := `
		INSERT INTO invoices (
			number, year, issue_date, payer_id, issuer_id, total_net,
			total_vat, total, status, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	args := []interface{}{
		invoice.Number,
		invoice.Year,
		invoice.IssueDate.Format("2006-01-02"),
		invoice.PayerID,
		invoice.IssuerID,
		invoice.TotalNet.StringFixed(2),
		invoice.TotalVAT.StringFixed(2),
		invoice.Total.StringFixed(2),
		invoice.Status,
		invoice.Notes,
	}

	var result sql.Result
	var err error
	if tx != nil {
		result, err = tx.Exec(query, args...)
	} else {
		result, err = r.db.Exec(query, args...)
	}
	if err != nil {
		r.logger.Error("Failed to create invoice",
			zap.Int("number", invoice.Number), zap.Int("year", invoice.Year), zap.Error(err))
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	invoice.ID = id
	return nil
}

// GetByID retrieves an invoice by ID
func (r *InvoiceRepository) GetByID(id int64) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ?`

	invoice, err := scanInvoice(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("invoice %d not found", id)
	}
	if err != nil {
		r.logger.Error("Failed to get invoice", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return invoice, nil
}

// GetByIDs retrieves multiple invoices preserving the requested order
func (r *InvoiceRepository) GetByIDs(ids []int64) ([]*models.Invoice, error) {
	invoices := make([]*models.Invoice, 0, len(ids))
	for _, id := range ids {
		invoice, err := r.GetByID(id)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, nil
}

// ListByYear retrieves an issuer's invoices for a year ordered by number
func (r *InvoiceRepository) ListByYear(issuerID int64, year int) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE issuer_id = ? AND year = ? ORDER BY number`

	rows, err := r.db.Query(query, issuerID, year)
	if err != nil {
		r.logger.Error("Failed to list invoices", zap.Error(err))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}

// MarkDocumentGenerated records that the fiscal document for an invoice has
// been produced, together with its filename, and advances the status.
func (r *InvoiceRepository) MarkDocumentGenerated(id int64, filename string) error {
	query := `
		UPDATE invoices
		SET document_generated = 1, document_filename = ?, status = ?
		WHERE id = ?
	`

	_, err := r.db.Exec(query, filename, models.InvoiceStatusDocumentGenerated, id)
	if err != nil {
		r.logger.Error("Failed to mark document generated", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to mark document generated: %w", err)
	}
	return nil
}

// UpdateStatus updates the lifecycle status of an invoice
func (r *InvoiceRepository) UpdateStatus(id int64, status string) error {
	query := `UPDATE invoices SET status = ? WHERE id = ?`

	_, err := r.db.Exec(query, status, id)
	if err != nil {
		r.logger.Error("Failed to update invoice status", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to update invoice status: %w", err)
	}
	return nil
}
