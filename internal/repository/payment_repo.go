package repository

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/lucabarbieri/gestionale/internal/models"
)

// PaymentRepository handles payment database operations
type PaymentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *sql.DB, logger *zap.Logger) *PaymentRepository {
	return &PaymentRepository{
		db:     db,
		logger: logger,
	}
}

const paymentColumns = `
	id, line_item_id, amount, payment_date, status, method, reference, notes, created_at
`

func scanPayment(row interface{ Scan(...interface{}) error }) (*models.Payment, error) {
	var payment models.Payment
	var amount string

	err := row.Scan(
		&payment.ID,
		&payment.LineItemID,
		&amount,
		&payment.PaymentDate,
		&payment.Status,
		&payment.Method,
		&payment.Reference,
		&payment.Notes,
		&payment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if payment.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return &payment, nil
}

// Create creates a new payment record
func (r *PaymentRepository) Create(tx *sql.Tx, payment *models.Payment) error {
	query := `
		INSERT INTO payments (line_item_id, amount, payment_date, status, method, reference, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	args := []interface{}{
		payment.LineItemID,
		payment.Amount.StringFixed(2),
		payment.PaymentDate.Format("2006-01-02"),
		payment.Status,
		payment.Method,
		payment.Reference,
		payment.Notes,
	}

	var result sql.Result
	var err error
	if tx != nil {
		result, err = tx.Exec(query, args...)
	} else {
		result, err = r.db.Exec(query, args...)
	}
	if err != nil {
		r.logger.Error("Failed to create payment", zap.Int64("line_item_id", payment.LineItemID), zap.Error(err))
		return fmt.Errorf("failed to create payment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	payment.ID = id
	return nil
}

// ListByLineItem retrieves all payments for a line item ordered by date
func (r *PaymentRepository) ListByLineItem(lineItemID int64) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE line_item_id = ? ORDER BY payment_date, id`

	rows, err := r.db.Query(query, lineItemID)
	if err != nil {
		r.logger.Error("Failed to list payments", zap.Int64("line_item_id", lineItemID), zap.Error(err))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

// ConfirmedTotalByLineItem returns the sum of confirmed payment amounts per
// line item, for the given line item ids.
func (r *PaymentRepository) ConfirmedTotalByLineItem(lineItemIDs []int64) (map[int64]decimal.Decimal, error) {
	totals := make(map[int64]decimal.Decimal, len(lineItemIDs))
	if len(lineItemIDs) == 0 {
		return totals, nil
	}

	query := `
		SELECT line_item_id, amount FROM payments
		WHERE status = ? AND line_item_id IN (` + placeholders(len(lineItemIDs)) + `)
	`
	args := make([]interface{}, 0, len(lineItemIDs)+1)
	args = append(args, models.PaymentStatusConfirmed)
	for _, id := range lineItemIDs {
		args = append(args, id)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("Failed to sum confirmed payments", zap.Error(err))
		return nil, fmt.Errorf("failed to sum confirmed payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var lineItemID int64
		var amountText string
		if err := rows.Scan(&lineItemID, &amountText); err != nil {
			return nil, fmt.Errorf("failed to scan payment amount: %w", err)
		}
		amount, err := decimal.NewFromString(amountText)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", amountText, err)
		}
		totals[lineItemID] = totals[lineItemID].Add(amount)
	}
	return totals, rows.Err()
}

// UpdateStatusByReference moves all pending payments with the given reference
// to the target status. Returns the number of payments updated.
func (r *PaymentRepository) UpdateStatusByReference(reference, status string) (int64, error) {
	query := `UPDATE payments SET status = ? WHERE reference = ? AND status = ?`

	result, err := r.db.Exec(query, status, reference, models.PaymentStatusPending)
	if err != nil {
		r.logger.Error("Failed to update payment status",
			zap.String("reference", reference), zap.String("status", status), zap.Error(err))
		return 0, fmt.Errorf("failed to update payment status: %w", err)
	}
	return result.RowsAffected()
}

func placeholders(n int) string {
	out := make([]byte, 0, n*2)
	for i := 0; i < n; i++ {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, '?')
	}
	return string(out)
}
