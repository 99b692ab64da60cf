package billing

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lucabarbieri/gestionale/internal/datefilter"
	"github.com/lucabarbieri/gestionale/internal/models"
)

// mockTransactor runs the function without a real transaction
type mockTransactor struct {
	err error
}

func (m *mockTransactor) WithTransaction(fn func(tx *sql.Tx) error) error {
	if m.err != nil {
		return m.err
	}
	return fn(nil)
}

// mockLineItemRepo implements LineItemRepositoryInterface for testing
type mockLineItemRepo struct {
	items     map[int64]*models.LineItem
	byInvoice map[int64][]*models.LineItem
	unbilled  []*models.LineItem
	invoiced  []*models.LineItem
	linked    map[int64][]int64 // invoice id -> item ids
	err       error
}

func newMockLineItemRepo() *mockLineItemRepo {
	return &mockLineItemRepo{
		items:     make(map[int64]*models.LineItem),
		byInvoice: make(map[int64][]*models.LineItem),
		linked:    make(map[int64][]int64),
	}
}

func (m *mockLineItemRepo) Create(item *models.LineItem) error {
	if m.err != nil {
		return m.err
	}
	item.ID = int64(len(m.items) + 1)
	m.items[item.ID] = item
	return nil
}

func (m *mockLineItemRepo) GetByID(id int64) (*models.LineItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	item, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("line item %d not found", id)
	}
	return item, nil
}

func (m *mockLineItemRepo) GetByIDs(ids []int64) ([]*models.LineItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	items := make([]*models.LineItem, 0, len(ids))
	for _, id := range ids {
		item, ok := m.items[id]
		if !ok {
			return nil, fmt.Errorf("line item %d not found", id)
		}
		items = append(items, item)
	}
	return items, nil
}

func (m *mockLineItemRepo) ListByInvoice(invoiceID int64) ([]*models.LineItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byInvoice[invoiceID], nil
}

func (m *mockLineItemRepo) ListUnbilled(filter *datefilter.Filter) ([]*models.LineItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.unbilled, nil
}

func (m *mockLineItemRepo) ListInvoicedByCollectionMethod(method string, filter *datefilter.Filter) ([]*models.LineItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.invoiced, nil
}

func (m *mockLineItemRepo) LinkToInvoice(tx *sql.Tx, itemIDs []int64, invoiceID int64) error {
	if m.err != nil {
		return m.err
	}
	m.linked[invoiceID] = append(m.linked[invoiceID], itemIDs...)
	return nil
}

// mockInvoiceRepo implements InvoiceRepositoryInterface for testing
type mockInvoiceRepo struct {
	invoices      map[int64]*models.Invoice
	nextNumber    int
	nextID        int64
	created       []*models.Invoice
	docFilename   map[int64]string
	statusUpdates map[int64]string
	createErr     error
}

func newMockInvoiceRepo() *mockInvoiceRepo {
	return &mockInvoiceRepo{
		invoices:      make(map[int64]*models.Invoice),
		nextNumber:    1,
		docFilename:   make(map[int64]string),
		statusUpdates: make(map[int64]string),
	}
}

func (m *mockInvoiceRepo) NextNumber(tx *sql.Tx, issuerID int64, year int) (int, error) {
	n := m.nextNumber
	m.nextNumber++
	return n, nil
}

func (m *mockInvoiceRepo) Create(tx *sql.Tx, invoice *models.Invoice) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	invoice.ID = m.nextID
	m.invoices[invoice.ID] = invoice
	m.created = append(m.created, invoice)
	return nil
}

func (m *mockInvoiceRepo) GetByID(id int64) (*models.Invoice, error) {
	invoice, ok := m.invoices[id]
	if !ok {
		return nil, fmt.Errorf("invoice %d not found", id)
	}
	return invoice, nil
}

func (m *mockInvoiceRepo) GetByIDs(ids []int64) ([]*models.Invoice, error) {
	invoices := make([]*models.Invoice, 0, len(ids))
	for _, id := range ids {
		invoice, err := m.GetByID(id)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, nil
}

func (m *mockInvoiceRepo) ListByYear(issuerID int64, year int) ([]*models.Invoice, error) {
	var invoices []*models.Invoice
	for _, invoice := range m.invoices {
		if invoice.IssuerID == issuerID && invoice.Year == year {
			invoices = append(invoices, invoice)
		}
	}
	return invoices, nil
}

func (m *mockInvoiceRepo) MarkDocumentGenerated(id int64, filename string) error {
	m.docFilename[id] = filename
	return nil
}

func (m *mockInvoiceRepo) UpdateStatus(id int64, status string) error {
	m.statusUpdates[id] = status
	if invoice, ok := m.invoices[id]; ok {
		invoice.Status = status
	}
	return nil
}

// mockIssuerRepo implements IssuerRepositoryInterface for testing
type mockIssuerRepo struct {
	issuers map[int64]*models.Issuer
}

func (m *mockIssuerRepo) GetByID(id int64) (*models.Issuer, error) {
	issuer, ok := m.issuers[id]
	if !ok {
		return nil, fmt.Errorf("issuer %d not found", id)
	}
	return issuer, nil
}

// mockPayerRepo implements PayerRepositoryInterface for testing
type mockPayerRepo struct {
	payers map[int64]*models.Payer
}

func (m *mockPayerRepo) GetByID(id int64) (*models.Payer, error) {
	payer, ok := m.payers[id]
	if !ok {
		return nil, fmt.Errorf("payer %d not found", id)
	}
	return payer, nil
}

func (m *mockPayerRepo) GetByIDs(ids []int64) (map[int64]*models.Payer, error) {
	payers := make(map[int64]*models.Payer, len(ids))
	for _, id := range ids {
		payer, err := m.GetByID(id)
		if err != nil {
			return nil, err
		}
		payers[id] = payer
	}
	return payers, nil
}

// mockPaymentRepo implements PaymentRepositoryInterface for testing
type mockPaymentRepo struct {
	created         []*models.Payment
	byLineItem      map[int64][]*models.Payment
	confirmedTotals map[int64]decimal.Decimal
	statusUpdates   map[string]string
	updatedRows     int64
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{
		byLineItem:      make(map[int64][]*models.Payment),
		confirmedTotals: make(map[int64]decimal.Decimal),
		statusUpdates:   make(map[string]string),
	}
}

func (m *mockPaymentRepo) ListByLineItem(lineItemID int64) ([]*models.Payment, error) {
	return m.byLineItem[lineItemID], nil
}

func (m *mockPaymentRepo) Create(tx *sql.Tx, payment *models.Payment) error {
	payment.ID = int64(len(m.created) + 1)
	m.created = append(m.created, payment)
	return nil
}

func (m *mockPaymentRepo) ConfirmedTotalByLineItem(lineItemIDs []int64) (map[int64]decimal.Decimal, error) {
	totals := make(map[int64]decimal.Decimal)
	for _, id := range lineItemIDs {
		if total, ok := m.confirmedTotals[id]; ok {
			totals[id] = total
		}
	}
	return totals, nil
}

func (m *mockPaymentRepo) UpdateStatusByReference(reference, status string) (int64, error) {
	m.statusUpdates[reference] = status
	return m.updatedRows, nil
}
