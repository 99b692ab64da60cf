package billing

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/lucabarbieri/gestionale/internal/datefilter"
	"github.com/lucabarbieri/gestionale/internal/models"
	"github.com/lucabarbieri/gestionale/internal/sepa"
)

// CollectionService assembles SEPA direct-debit batches from invoiced line
// items with an outstanding balance, and tracks the resulting payments
// through their pending/confirmed/failed lifecycle.
type CollectionService struct {
	tx        Transactor
	lineItems LineItemRepositoryInterface
	payers    PayerRepositoryInterface
	issuers   IssuerRepositoryInterface
	payments  PaymentRepositoryInterface
	builder   *sepa.Builder
	outputDir string
	logger    *zap.Logger
}

// NewCollectionService creates a new collection service. outputDir may be
// empty to skip persisting batches to disk.
func NewCollectionService(
	tx Transactor,
	lineItems LineItemRepositoryInterface,
	payers PayerRepositoryInterface,
	issuers IssuerRepositoryInterface,
	payments PaymentRepositoryInterface,
	builder *sepa.Builder,
	outputDir string,
	logger *zap.Logger,
) *CollectionService {
	return &CollectionService{
		tx:        tx,
		lineItems: lineItems,
		payers:    payers,
		issuers:   issuers,
		payments:  payments,
		builder:   builder,
		outputDir: outputDir,
		logger:    logger,
	}
}

// GenerateBatch builds one direct-debit batch for the issuer's invoiced SDD
// line items still carrying an outstanding balance, optionally restricted by
// a period filter. A pending payment is recorded for every transaction in the
// batch, referenced by the batch filename, so the run can later be confirmed
// or marked unpaid as a whole.
func (s *CollectionService) GenerateBatch(issuerID int64, collectionDate time.Time, filter *datefilter.Filter) (*sepa.BatchResult, error) {
	issuer, err := s.issuers.GetByID(issuerID)
	if err != nil {
		return nil, err
	}

	items, err := s.lineItems.ListInvoicedByCollectionMethod(models.CollectionMethodSDD, filter)
	if err != nil {
		return nil, err
	}

	candidates, err := s.outstandingCandidates(issuerID, items)
	if err != nil {
		return nil, err
	}

	eligible, excluded, warnings := sepa.FilterEligible(candidates)
	if len(eligible) == 0 {
		if len(excluded) > 0 {
			return &sepa.BatchResult{Excluded: excluded, Warnings: warnings}, ErrNothingToCollect
		}
		return nil, ErrNothingToCollect
	}

	xmlData, filename, err := s.builder.Build(issuer, collectionDate, eligible)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTransaction(func(tx *sql.Tx) error {
		for _, item := range eligible {
			payment := &models.Payment{
				LineItemID:  item.LineItemID,
				Amount:      item.Amount.Round(2),
				PaymentDate: collectionDate,
				Status:      models.PaymentStatusPending,
				Method:      models.CollectionMethodSDD,
				Reference:   filename,
			}
			if err := s.payments.Create(tx, payment); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &sepa.BatchResult{
		XML:          xmlData,
		Filename:     filename,
		Transactions: eligible,
		Excluded:     excluded,
		Warnings:     warnings,
	}

	if s.outputDir != "" {
		if err := os.MkdirAll(s.outputDir, 0o755); err == nil {
			if err := os.WriteFile(filepath.Join(s.outputDir, filename), xmlData, 0o644); err != nil {
				s.logger.Warn("Failed to persist collection batch", zap.Error(err))
			}
		}
	}

	s.logger.Info("Collection batch created",
		zap.String("filename", filename),
		zap.Int("transactions", len(eligible)),
		zap.Int("excluded", len(excluded)),
		zap.Int("warnings", len(warnings)))
	return result, nil
}

// ListPayments returns the payments recorded against a line item.
func (s *CollectionService) ListPayments(lineItemID int64) ([]*models.Payment, error) {
	return s.payments.ListByLineItem(lineItemID)
}

// ConfirmBatch marks the pending payments of a collection run as confirmed.
func (s *CollectionService) ConfirmBatch(reference string) (int64, error) {
	return s.payments.UpdateStatusByReference(reference, models.PaymentStatusConfirmed)
}

// FailBatch marks the pending payments of a collection run as unpaid.
func (s *CollectionService) FailBatch(reference string) (int64, error) {
	return s.payments.UpdateStatusByReference(reference, models.PaymentStatusFailed)
}

// outstandingCandidates computes, per line item of the issuer, the gross
// amount still to collect: the item's gross total minus its confirmed
// payments. Items fully collected (or overpaid) are dropped.
func (s *CollectionService) outstandingCandidates(issuerID int64, items []*models.LineItem) ([]sepa.Candidate, error) {
	var issuerItems []*models.LineItem
	ids := make([]int64, 0, len(items))
	payerIDs := make([]int64, 0, len(items))
	for _, item := range items {
		if item.IssuerID != issuerID {
			continue
		}
		issuerItems = append(issuerItems, item)
		ids = append(ids, item.ID)
		payerIDs = append(payerIDs, item.PayerID)
	}
	if len(issuerItems) == 0 {
		return nil, nil
	}

	collected, err := s.payments.ConfirmedTotalByLineItem(ids)
	if err != nil {
		return nil, err
	}
	payersByID, err := s.payers.GetByIDs(payerIDs)
	if err != nil {
		return nil, err
	}

	var candidates []sepa.Candidate
	for _, item := range issuerItems {
		outstanding := item.GrossTotal().Sub(collected[item.ID])
		if !outstanding.IsPositive() {
			continue
		}
		payer, ok := payersByID[item.PayerID]
		if !ok {
			return nil, fmt.Errorf("payer %d not found", item.PayerID)
		}
		candidates = append(candidates, sepa.Candidate{
			LineItemID:  item.ID,
			Payer:       payer,
			Amount:      outstanding,
			Description: item.DocumentDescription(),
		})
	}
	return candidates, nil
}
