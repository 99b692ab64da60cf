package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/lucabarbieri/gestionale/internal/datefilter"
	"github.com/lucabarbieri/gestionale/internal/models"
)

// LineItemRepository handles line item database operations
type LineItemRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLineItemRepository creates a new line item repository
func NewLineItemRepository(db *sql.DB, logger *zap.Logger) *LineItemRepository {
	return &LineItemRepository{
		db:     db,
		logger: logger,
	}
}

const lineItemColumns = `
	id, payer_id, revenue_account_id, issuer_id, invoice_id, periodicity,
	description, net_amount, vat_rate, period_start, period_end,
	collection_method, notes, created_at, updated_at
`

func scanLineItem(row interface{ Scan(...interface{}) error }) (*models.LineItem, error) {
	var item models.LineItem
	var invoiceID sql.NullInt64
	var netAmount string

	err := row.Scan(
		&item.ID,
		&item.PayerID,
		&item.RevenueAccountID,
		&item.IssuerID,
		&invoiceID,
		&item.Periodicity,
		&item.Description,
		&netAmount,
		&item.VATRate,
		&item.PeriodStart,
		&item.PeriodEnd,
		&item.CollectionMethod,
		&item.Notes,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if invoiceID.Valid {
		item.InvoiceID = &invoiceID.Int64
	}
	if item.NetAmount, err = decimal.NewFromString(netAmount); err != nil {
		return nil, fmt.Errorf("invalid net_amount %q: %w", netAmount, err)
	}
	return &item, nil
}

// Create creates a new line item record
func (r *LineItemRepository) Create(item *models.LineItem) error {
	query := `
		INSERT INTO line_items (
			payer_id, revenue_account_id, issuer_id, periodicity, description,
			net_amount, vat_rate, period_start, period_end, collection_method, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		item.PayerID,
		item.RevenueAccountID,
		item.IssuerID,
		item.Periodicity,
		item.Description,
		item.NetAmount.String(),
		item.VATRate,
		item.PeriodStart.Format("2006-01-02"),
		item.PeriodEnd.Format("2006-01-02"),
		item.CollectionMethod,
		item.Notes,
	)
	if err != nil {
		r.logger.Error("Failed to create line item", zap.Error(err))
		return fmt.Errorf("failed to create line item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	item.ID = id
	return nil
}

// GetByID retrieves a line item by ID
func (r *LineItemRepository) GetByID(id int64) (*models.LineItem, error) {
	query := `SELECT ` + lineItemColumns + ` FROM line_items WHERE id = ?`

	item, err := scanLineItem(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("line item %d not found", id)
	}
	if err != nil {
		r.logger.Error("Failed to get line item", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get line item: %w", err)
	}
	return item, nil
}

// GetByIDs retrieves multiple line items preserving the requested order
func (r *LineItemRepository) GetByIDs(ids []int64) ([]*models.LineItem, error) {
	items := make([]*models.LineItem, 0, len(ids))
	for _, id := range ids {
		item, err := r.GetByID(id)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// ListByInvoice retrieves the line items linked to an invoice in insertion order
func (r *LineItemRepository) ListByInvoice(invoiceID int64) ([]*models.LineItem, error) {
	query := `SELECT ` + lineItemColumns + ` FROM line_items WHERE invoice_id = ? ORDER BY id`
	return r.list(query, invoiceID)
}

// ListUnbilled retrieves line items not yet linked to an invoice, optionally
// restricted by a period-start date filter.
func (r *LineItemRepository) ListUnbilled(filter *datefilter.Filter) ([]*models.LineItem, error) {
	query := `SELECT ` + lineItemColumns + ` FROM line_items WHERE invoice_id IS NULL`
	var args []interface{}

	if filter != nil {
		clause, clauseArgs := filter.SQL("period_start")
		query += ` AND ` + clause
		args = append(args, clauseArgs...)
	}
	query += ` ORDER BY period_start, id`

	return r.list(query, args...)
}

// ListInvoicedByCollectionMethod retrieves invoiced line items with the given
// collection method, optionally restricted by a period-start date filter.
// Used to select direct-debit candidates.
func (r *LineItemRepository) ListInvoicedByCollectionMethod(method string, filter *datefilter.Filter) ([]*models.LineItem, error) {
	query := `SELECT ` + lineItemColumns + ` FROM line_items WHERE invoice_id IS NOT NULL AND collection_method = ?`
	args := []interface{}{method}

	if filter != nil {
		clause, clauseArgs := filter.SQL("period_start")
		query += ` AND ` + clause
		args = append(args, clauseArgs...)
	}
	query += ` ORDER BY payer_id, id`

	return r.list(query, args...)
}

// LinkToInvoice attaches line items to an invoice. Items already linked to
// another invoice are left untouched and reported as an error.
func (r *LineItemRepository) LinkToInvoice(tx *sql.Tx, itemIDs []int64, invoiceID int64) error {
	if len(itemIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(
		`UPDATE line_items SET invoice_id = ?, updated_at = ? WHERE id IN (%s) AND invoice_id IS NULL`,
		placeholders(len(itemIDs)))

	args := make([]interface{}, 0, len(itemIDs)+2)
	args = append(args, invoiceID, time.Now())
	for _, id := range itemIDs {
		args = append(args, id)
	}

	var result sql.Result
	var err error
	if tx != nil {
		result, err = tx.Exec(query, args...)
	} else {
		result, err = r.db.Exec(query, args...)
	}
	if err != nil {
		r.logger.Error("Failed to link line items", zap.Int64("invoice_id", invoiceID), zap.Error(err))
		return fmt.Errorf("failed to link line items: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected != int64(len(itemIDs)) {
		return fmt.Errorf("linked %d of %d line items: some are already invoiced", affected, len(itemIDs))
	}
	return nil
}

func (r *LineItemRepository) list(query string, args ...interface{}) ([]*models.LineItem, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("Failed to list line items", zap.Error(err))
		return nil, fmt.Errorf("failed to list line items: %w", err)
	}
	defer rows.Close()

	var items []*models.LineItem
	for rows.Next() {
		item, err := scanLineItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
