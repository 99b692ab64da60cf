// Package billing orchestrates invoice emission, fiscal document generation
// and direct-debit collection runs on top of the repositories.
package billing

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lucabarbieri/gestionale/internal/datefilter"
	"github.com/lucabarbieri/gestionale/internal/models"
	"github.com/lucabarbieri/gestionale/pkg/database"
)

// EmissionService turns selections of unbilled line items into numbered
// invoices. Numbering is monotonic and gapless per issuer and year; the
// number is claimed and the items linked in one transaction.
type EmissionService struct {
	tx        Transactor
	lineItems LineItemRepositoryInterface
	invoices  InvoiceRepositoryInterface
	issuers   IssuerRepositoryInterface
	logger    *zap.Logger
	now       func() time.Time
}

// NewEmissionService creates a new emission service
func NewEmissionService(
	tx Transactor,
	lineItems LineItemRepositoryInterface,
	invoices InvoiceRepositoryInterface,
	issuers IssuerRepositoryInterface,
	logger *zap.Logger,
) *EmissionService {
	return &EmissionService{
		tx:        tx,
		lineItems: lineItems,
		invoices:  invoices,
		issuers:   issuers,
		logger:    logger,
		now:       time.Now,
	}
}

// EmitInvoices creates one invoice per payer from the selected line items.
// All items must belong to the same issuer and must not be invoiced yet;
// otherwise the whole run is rejected and nothing is written.
func (s *EmissionService) EmitInvoices(itemIDs []int64, issueDate time.Time) ([]*models.Invoice, error) {
	if len(itemIDs) == 0 {
		return nil, ErrNoLineItems
	}

	items, err := s.lineItems.GetByIDs(itemIDs)
	if err != nil {
		return nil, err
	}

	if err := s.checkSingleIssuer(items); err != nil {
		return nil, err
	}
	if err := checkNotInvoiced(items); err != nil {
		return nil, err
	}

	if issueDate.IsZero() {
		issueDate = s.now()
	}
	year := issueDate.Year()
	issuerID := items[0].IssuerID

	// Group by payer preserving first-appearance order.
	var payerOrder []int64
	groups := make(map[int64][]*models.LineItem)
	for _, item := range items {
		if _, ok := groups[item.PayerID]; !ok {
			payerOrder = append(payerOrder, item.PayerID)
		}
		groups[item.PayerID] = append(groups[item.PayerID], item)
	}

	var invoices []*models.Invoice
	err = s.tx.WithTransaction(func(tx *sql.Tx) error {
		for _, payerID := range payerOrder {
			group := groups[payerID]

			number, err := s.invoices.NextNumber(tx, issuerID, year)
			if err != nil {
				return err
			}

			invoice := &models.Invoice{
				Number:    number,
				Year:      year,
				IssueDate: issueDate,
				PayerID:   payerID,
				IssuerID:  issuerID,
				Status:    models.InvoiceStatusIssued,
			}
			for _, item := range group {
				invoice.TotalNet = invoice.TotalNet.Add(item.NetRounded())
				invoice.TotalVAT = invoice.TotalVAT.Add(item.VATAmount())
				invoice.Total = invoice.Total.Add(item.GrossTotal())
			}

			if err := s.invoices.Create(tx, invoice); err != nil {
				if database.IsUniqueConstraintErr(err) {
					return fmt.Errorf("%w: %d/%d for issuer %d", ErrNumberConflict, number, year, issuerID)
				}
				return err
			}

			ids := make([]int64, 0, len(group))
			for _, item := range group {
				ids = append(ids, item.ID)
			}
			if err := s.lineItems.LinkToInvoice(tx, ids, invoice.ID); err != nil {
				return err
			}

			invoices = append(invoices, invoice)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, invoice := range invoices {
		s.logger.Info("Invoice emitted",
			zap.Int("number", invoice.Number),
			zap.Int("year", invoice.Year),
			zap.Int64("payer_id", invoice.PayerID),
			zap.String("total", invoice.Total.StringFixed(2)))
	}
	return invoices, nil
}

// CreateLineItem records a new unbilled line item. The VAT rate must be one
// of the admitted percentages; periodicity and collection method default to
// one-off and bank transfer.
func (s *EmissionService) CreateLineItem(item *models.LineItem) (*models.LineItem, error) {
	if !models.ValidVATRate(item.VATRate) {
		return nil, fmt.Errorf("%w: %d%%", ErrInvalidVATRate, item.VATRate)
	}
	if item.Periodicity == "" {
		item.Periodicity = models.PeriodicityOneOff
	}
	if item.CollectionMethod == "" {
		item.CollectionMethod = models.CollectionMethodTransfer
	}
	if err := s.lineItems.Create(item); err != nil {
		return nil, err
	}

	s.logger.Info("Line item created",
		zap.Int64("id", item.ID),
		zap.Int64("payer_id", item.PayerID),
		zap.String("net_amount", item.NetAmount.StringFixed(2)))
	return item, nil
}

// ListUnbilled returns the line items available for emission, optionally
// restricted by a period filter already parsed by the caller.
func (s *EmissionService) ListUnbilled(filter *datefilter.Filter) ([]*models.LineItem, error) {
	return s.lineItems.ListUnbilled(filter)
}

// RenewLineItem rolls a recurring line item into its next billing period:
// a fresh unbilled copy with the period shifted forward by one periodicity.
func (s *EmissionService) RenewLineItem(id int64) (*models.LineItem, error) {
	item, err := s.lineItems.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item.Periodicity == "" || item.Periodicity == models.PeriodicityOneOff {
		return nil, fmt.Errorf("%w: item %d is %q", ErrNotRecurring, id, item.Periodicity)
	}

	next := &models.LineItem{
		PayerID:          item.PayerID,
		RevenueAccountID: item.RevenueAccountID,
		IssuerID:         item.IssuerID,
		Periodicity:      item.Periodicity,
		Description:      item.Description,
		NetAmount:        item.NetAmount,
		VATRate:          item.VATRate,
		PeriodStart:      models.AddPeriod(item.PeriodStart, item.Periodicity),
		PeriodEnd:        models.AddPeriod(item.PeriodEnd, item.Periodicity),
		CollectionMethod: item.CollectionMethod,
	}
	if err := s.lineItems.Create(next); err != nil {
		return nil, err
	}

	s.logger.Info("Line item renewed",
		zap.Int64("source_id", item.ID),
		zap.Int64("new_id", next.ID),
		zap.String("period_start", next.PeriodStart.Format("2006-01-02")))
	return next, nil
}

func (s *EmissionService) checkSingleIssuer(items []*models.LineItem) error {
	seen := make(map[int64]bool)
	var issuerIDs []int64
	for _, item := range items {
		if !seen[item.IssuerID] {
			seen[item.IssuerID] = true
			issuerIDs = append(issuerIDs, item.IssuerID)
		}
	}
	if len(issuerIDs) <= 1 {
		return nil
	}

	sort.Slice(issuerIDs, func(i, j int) bool { return issuerIDs[i] < issuerIDs[j] })
	names := make([]string, 0, len(issuerIDs))
	for _, id := range issuerIDs {
		issuer, err := s.issuers.GetByID(id)
		if err != nil {
			names = append(names, fmt.Sprintf("#%d", id))
			continue
		}
		names = append(names, issuer.LegalName)
	}
	return fmt.Errorf("%w: %s", ErrMixedIssuers, strings.Join(names, ", "))
}

func checkNotInvoiced(items []*models.LineItem) error {
	var invoiced []string
	for _, item := range items {
		if item.Invoiced() {
			invoiced = append(invoiced, fmt.Sprintf("%d", item.ID))
		}
	}
	if len(invoiced) == 0 {
		return nil
	}
	return fmt.Errorf("%w: items %s", ErrAlreadyInvoiced, strings.Join(invoiced, ", "))
}
