package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lucabarbieri/gestionale/internal/billing"
	"github.com/lucabarbieri/gestionale/internal/datefilter"
	"github.com/lucabarbieri/gestionale/internal/models"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	emission    *billing.EmissionService
	documents   *billing.DocumentService
	collections *billing.CollectionService
	invoices    billing.InvoiceRepositoryInterface
	leadDays    int
	logger      *zap.Logger
}

// NewHandlers creates a new Handlers instance. leadDays is the default gap
// between a collection request and its requested collection date.
func NewHandlers(
	emission *billing.EmissionService,
	documents *billing.DocumentService,
	collections *billing.CollectionService,
	invoices billing.InvoiceRepositoryInterface,
	leadDays int,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		emission:    emission,
		documents:   documents,
		collections: collections,
		invoices:    invoices,
		leadDays:    leadDays,
		logger:      logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// EmitInvoicesRequest represents the invoice emission request body
type EmitInvoicesRequest struct {
	LineItemIDs []int64 `json:"line_item_ids" binding:"required"`
	IssueDate   string  `json:"issue_date"`
}

// GenerateDocumentsRequest represents the document generation request body
type GenerateDocumentsRequest struct {
	InvoiceIDs []int64 `json:"invoice_ids" binding:"required"`
}

// CollectionRequest represents the collection batch request body
type CollectionRequest struct {
	IssuerID       int64  `json:"issuer_id" binding:"required"`
	CollectionDate string `json:"collection_date"`
	Period         string `json:"period"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// ListUnbilledLineItems handles GET /api/line-items/unbilled.
// The optional "period" query parameter is free text; an unparseable value
// falls back to no filtering.
func (h *Handlers) ListUnbilledLineItems(c *gin.Context) {
	filter := datefilter.Parse(c.Query("period"))

	items, err := h.emission.ListUnbilled(filter)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: items})
}

// CreateLineItem handles POST /api/line-items
func (h *Handlers) CreateLineItem(c *gin.Context) {
	var item models.LineItem
	if err := c.ShouldBindJSON(&item); err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}

	created, err := h.emission.CreateLineItem(&item)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, billing.ErrInvalidVATRate) {
			status = http.StatusUnprocessableEntity
		}
		h.fail(c, status, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: created})
}

// ListLineItemPayments handles GET /api/line-items/:id/payments
func (h *Handlers) ListLineItemPayments(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.fail(c, http.StatusBadRequest, fmt.Errorf("invalid line item id"))
		return
	}

	payments, err := h.collections.ListPayments(id)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: payments})
}

// RenewLineItem handles POST /api/line-items/:id/renew
func (h *Handlers) RenewLineItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.fail(c, http.StatusBadRequest, fmt.Errorf("invalid line item id"))
		return
	}

	item, err := h.emission.RenewLineItem(id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, billing.ErrNotRecurring) {
			status = http.StatusUnprocessableEntity
		}
		h.fail(c, status, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: item})
}

// ListInvoices handles GET /api/invoices
func (h *Handlers) ListInvoices(c *gin.Context) {
	var query struct {
		IssuerID int64 `form:"issuer_id" binding:"required"`
		Year     int   `form:"year"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}
	if query.Year == 0 {
		query.Year = time.Now().Year()
	}

	invoices, err := h.invoices.ListByYear(query.IssuerID, query.Year)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: invoices})
}

// EmitInvoices handles POST /api/invoices/emit
func (h *Handlers) EmitInvoices(c *gin.Context) {
	var req EmitInvoicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}

	var issueDate time.Time
	if req.IssueDate != "" {
		parsed, err := time.Parse("2006-01-02", req.IssueDate)
		if err != nil {
			h.fail(c, http.StatusBadRequest, fmt.Errorf("invalid issue_date: %w", err))
			return
		}
		issueDate = parsed
	}

	invoices, err := h.emission.EmitInvoices(req.LineItemIDs, issueDate)
	if err != nil {
		h.fail(c, emissionStatus(err), err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: invoices})
}

// GenerateInvoiceDocuments handles POST /api/invoices/documents.
// With ?download=true the zipped documents are returned instead of the
// JSON report.
func (h *Handlers) GenerateInvoiceDocuments(c *gin.Context) {
	var req GenerateDocumentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}

	bundle, err := h.documents.GenerateInvoiceDocuments(req.InvoiceIDs)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, billing.ErrNoInvoices) {
			status = http.StatusBadRequest
		}
		h.fail(c, status, err)
		return
	}

	if c.Query("download") == "true" && len(bundle.Archive) > 0 {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", bundle.ArchiveName))
		c.Data(http.StatusOK, "application/zip", bundle.Archive)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: bundle})
}

// UpdateInvoiceStatus handles POST /api/invoices/:id/status, moving an
// invoice through its transmission lifecycle after the document has been
// uploaded to the exchange system.
func (h *Handlers) UpdateInvoiceStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.fail(c, http.StatusBadRequest, fmt.Errorf("invalid invoice id"))
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}

	switch req.Status {
	case models.InvoiceStatusSent, models.InvoiceStatusAccepted, models.InvoiceStatusRejected:
	default:
		h.fail(c, http.StatusUnprocessableEntity, fmt.Errorf("status %q not admitted", req.Status))
		return
	}

	invoice, err := h.invoices.GetByID(id)
	if err != nil {
		h.fail(c, http.StatusNotFound, err)
		return
	}
	if err := h.invoices.UpdateStatus(id, req.Status); err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	invoice.Status = req.Status
	c.JSON(http.StatusOK, Response{Success: true, Data: invoice})
}

// GenerateCollectionBatch handles POST /api/collections.
// With ?download=true the batch XML is returned instead of the JSON report.
func (h *Handlers) GenerateCollectionBatch(c *gin.Context) {
	var req CollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}

	collectionDate := time.Now().AddDate(0, 0, h.leadDays)
	if req.CollectionDate != "" {
		parsed, err := time.Parse("2006-01-02", req.CollectionDate)
		if err != nil {
			h.fail(c, http.StatusBadRequest, fmt.Errorf("invalid collection_date: %w", err))
			return
		}
		collectionDate = parsed
	}

	result, err := h.collections.GenerateBatch(req.IssuerID, collectionDate, datefilter.Parse(req.Period))
	if err != nil {
		if errors.Is(err, billing.ErrNothingToCollect) {
			// The exclusion report still matters to the caller.
			c.JSON(http.StatusUnprocessableEntity, Response{Success: false, Error: err.Error(), Data: result})
			return
		}
		h.fail(c, http.StatusInternalServerError, err)
		return
	}

	if c.Query("download") == "true" {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
		c.Data(http.StatusOK, "application/xml", result.XML)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: result})
}

// ConfirmCollectionBatch handles POST /api/collections/:reference/confirm
func (h *Handlers) ConfirmCollectionBatch(c *gin.Context) {
	count, err := h.collections.ConfirmBatch(c.Param("reference"))
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{"updated": count}})
}

// FailCollectionBatch handles POST /api/collections/:reference/fail
func (h *Handlers) FailCollectionBatch(c *gin.Context) {
	count, err := h.collections.FailBatch(c.Param("reference"))
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{"updated": count}})
}

func (h *Handlers) fail(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.JSON(status, Response{Success: false, Error: err.Error()})
}

func emissionStatus(err error) int {
	switch {
	case errors.Is(err, billing.ErrNoLineItems),
		errors.Is(err, billing.ErrMixedIssuers),
		errors.Is(err, billing.ErrAlreadyInvoiced):
		return http.StatusUnprocessableEntity
	case errors.Is(err, billing.ErrNumberConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
