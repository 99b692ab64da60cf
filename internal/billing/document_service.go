package billing

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/lucabarbieri/gestionale/internal/archive"
	"github.com/lucabarbieri/gestionale/internal/fatturapa"
)

// GeneratedDocument is one successfully produced invoice document.
type GeneratedDocument struct {
	InvoiceID int64  `json:"invoice_id"`
	Filename  string `json:"filename"`
	XML       []byte `json:"-"`
}

// DocumentFailure is one invoice whose document could not be produced.
type DocumentFailure struct {
	InvoiceID int64  `json:"invoice_id"`
	Reason    string `json:"reason"`
}

// DocumentBundle is the outcome of a document generation run: the documents
// that were produced, zipped together, plus the per-invoice failures.
type DocumentBundle struct {
	ArchiveName string              `json:"archive_name"`
	Archive     []byte              `json:"-"`
	Generated   []GeneratedDocument `json:"generated"`
	Failed      []DocumentFailure   `json:"failed"`
}

// DocumentService produces electronic invoice documents and bundles them for
// download. A run is best-effort: invoices that fail validation are reported
// and the rest are still produced.
type DocumentService struct {
	invoices   InvoiceRepositoryInterface
	lineItems  LineItemRepositoryInterface
	issuers    IssuerRepositoryInterface
	payers     PayerRepositoryInterface
	serializer *fatturapa.Serializer
	outputDir  string
	logger     *zap.Logger
	now        func() time.Time
}

// NewDocumentService creates a new document service. outputDir may be empty
// to skip persisting documents to disk.
func NewDocumentService(
	invoices InvoiceRepositoryInterface,
	lineItems LineItemRepositoryInterface,
	issuers IssuerRepositoryInterface,
	payers PayerRepositoryInterface,
	serializer *fatturapa.Serializer,
	outputDir string,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		invoices:   invoices,
		lineItems:  lineItems,
		issuers:    issuers,
		payers:     payers,
		serializer: serializer,
		outputDir:  outputDir,
		logger:     logger,
		now:        time.Now,
	}
}

// GenerateInvoiceDocuments produces the electronic invoice document for each
// selected invoice and returns them zipped, in selection order. Invoices that
// cannot be rendered end up in the failure report without aborting the run.
func (s *DocumentService) GenerateInvoiceDocuments(invoiceIDs []int64) (*DocumentBundle, error) {
	if len(invoiceIDs) == 0 {
		return nil, ErrNoInvoices
	}

	invoices, err := s.invoices.GetByIDs(invoiceIDs)
	if err != nil {
		return nil, err
	}

	bundle := &DocumentBundle{
		ArchiveName: fmt.Sprintf("fatture_%s.zip", s.now().Format("2006-01-02")),
	}
	var entries []archive.Entry

	for _, invoice := range invoices {
		lines, err := s.lineItems.ListByInvoice(invoice.ID)
		if err != nil {
			bundle.Failed = append(bundle.Failed, DocumentFailure{InvoiceID: invoice.ID, Reason: err.Error()})
			continue
		}
		issuer, err := s.issuers.GetByID(invoice.IssuerID)
		if err != nil {
			bundle.Failed = append(bundle.Failed, DocumentFailure{InvoiceID: invoice.ID, Reason: err.Error()})
			continue
		}
		payer, err := s.payers.GetByID(invoice.PayerID)
		if err != nil {
			bundle.Failed = append(bundle.Failed, DocumentFailure{InvoiceID: invoice.ID, Reason: err.Error()})
			continue
		}

		xmlData, filename, err := s.serializer.Generate(invoice, lines, issuer, payer)
		if err != nil {
			s.logger.Warn("Invoice document generation failed",
				zap.Int64("invoice_id", invoice.ID), zap.Error(err))
			bundle.Failed = append(bundle.Failed, DocumentFailure{InvoiceID: invoice.ID, Reason: err.Error()})
			continue
		}

		if err := s.invoices.MarkDocumentGenerated(invoice.ID, filename); err != nil {
			bundle.Failed = append(bundle.Failed, DocumentFailure{InvoiceID: invoice.ID, Reason: err.Error()})
			continue
		}

		bundle.Generated = append(bundle.Generated, GeneratedDocument{
			InvoiceID: invoice.ID,
			Filename:  filename,
			XML:       xmlData,
		})
		entries = append(entries, archive.Entry{Name: filename, Data: xmlData})
	}

	if len(entries) > 0 {
		data, err := archive.Pack(entries)
		if err != nil {
			return nil, err
		}
		bundle.Archive = data

		if err := s.persist(bundle); err != nil {
			s.logger.Warn("Failed to persist generated documents", zap.Error(err))
		}
	}

	s.logger.Info("Document generation run complete",
		zap.Int("generated", len(bundle.Generated)),
		zap.Int("failed", len(bundle.Failed)))
	return bundle, nil
}

func (s *DocumentService) persist(bundle *DocumentBundle) error {
	if s.outputDir == "" {
		return nil
	}
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	for _, doc := range bundle.Generated {
		if err := os.WriteFile(filepath.Join(s.outputDir, doc.Filename), doc.XML, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", doc.Filename, err)
		}
	}
	return os.WriteFile(filepath.Join(s.outputDir, bundle.ArchiveName), bundle.Archive, 0o644)
}
