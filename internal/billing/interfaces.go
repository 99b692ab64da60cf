package billing

import (
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/lucabarbieri/gestionale/internal/datefilter"
	"github.com/lucabarbieri/gestionale/internal/models"
)

// Transactor runs a function inside a database transaction.
type Transactor interface {
	WithTransaction(fn func(tx *sql.Tx) error) error
}

// LineItemRepositoryInterface defines the line item operations billing needs
type LineItemRepositoryInterface interface {
	Create(item *models.LineItem) error
	GetByID(id int64) (*models.LineItem, error)
	GetByIDs(ids []int64) ([]*models.LineItem, error)
	ListByInvoice(invoiceID int64) ([]*models.LineItem, error)
	ListUnbilled(filter *datefilter.Filter) ([]*models.LineItem, error)
	ListInvoicedByCollectionMethod(method string, filter *datefilter.Filter) ([]*models.LineItem, error)
	LinkToInvoice(tx *sql.Tx, itemIDs []int64, invoiceID int64) error
}

// InvoiceRepositoryInterface defines the invoice operations billing needs
type InvoiceRepositoryInterface interface {
	NextNumber(tx *sql.Tx, issuerID int64, year int) (int, error)
	Create(tx *sql.Tx, invoice *models.Invoice) error
	GetByID(id int64) (*models.Invoice, error)
	GetByIDs(ids []int64) ([]*models.Invoice, error)
	ListByYear(issuerID int64, year int) ([]*models.Invoice, error)
	MarkDocumentGenerated(id int64, filename string) error
	UpdateStatus(id int64, status string) error
}

// PayerRepositoryInterface defines the payer operations billing needs
type PayerRepositoryInterface interface {
	GetByID(id int64) (*models.Payer, error)
	GetByIDs(ids []int64) (map[int64]*models.Payer, error)
}

// IssuerRepositoryInterface defines the issuer operations billing needs
type IssuerRepositoryInterface interface {
	GetByID(id int64) (*models.Issuer, error)
}

// PaymentRepositoryInterface defines the payment operations billing needs
type PaymentRepositoryInterface interface {
	Create(tx *sql.Tx, payment *models.Payment) error
	ListByLineItem(lineItemID int64) ([]*models.Payment, error)
	ConfirmedTotalByLineItem(lineItemIDs []int64) (map[int64]decimal.Decimal, error)
	UpdateStatusByReference(reference, status string) (int64, error)
}
