package repository_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lucabarbieri/gestionale/internal/models"
	"github.com/lucabarbieri/gestionale/internal/repository"
	"github.com/lucabarbieri/gestionale/pkg/database"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.New(database.Config{
		Path:         filepath.Join(t.TempDir(), "billing.db"),
		MaxOpenConns: 2,
		MaxIdleConns: 1,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrator := database.NewMigrator(db, logger)
	require.NoError(t, migrator.RunMigrations("../../migrations"))
	return db
}

func createTestIssuer(t *testing.T, db *database.DB) *models.Issuer {
	t.Helper()
	issuer := &models.Issuer{
		LegalName:  "Studio Bianchi SRL",
		VATNumber:  "01234567890",
		FiscalCode: "01234567890",
		Country:    "IT",
		IBAN:       "IT60X0542811101000000123456",
	}
	require.NoError(t, repository.NewIssuerRepository(db.DB, zap.NewNop()).Create(issuer))
	return issuer
}

func createTestPayer(t *testing.T, db *database.DB) *models.Payer {
	t.Helper()
	payer := &models.Payer{
		LegalName:        "Condominio Verdi",
		Country:          "IT",
		FiscalCode:       "97712345678",
		RoutingCode:      models.NullRoutingCode,
		CollectionMethod: models.CollectionMethodTransfer,
		Active:           true,
	}
	require.NoError(t, repository.NewPayerRepository(db.DB, zap.NewNop()).Create(payer))
	return payer
}

// TestIntegration_InvoiceNumbering walks an invoice through numbering and its
// transmission lifecycle on a real database, and checks that a duplicate
// number surfaces as a unique constraint violation.
func TestIntegration_InvoiceNumbering(t *testing.T) {
	db := openTestDB(t)
	invoices := repository.NewInvoiceRepository(db.DB, zap.NewNop())

	issuer := createTestIssuer(t, db)
	payer := createTestPayer(t, db)

	// 1. No invoices yet: the first number is 1
	next, err := invoices.NextNumber(nil, issuer.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	// 2. Create the first invoice of the year
	invoice := &models.Invoice{
		Number:    next,
		Year:      2026,
		IssueDate: time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
		PayerID:   payer.ID,
		IssuerID:  issuer.ID,
		TotalNet:  decimal.RequireFromString("100.00"),
		TotalVAT:  decimal.RequireFromString("22.00"),
		Total:     decimal.RequireFromString("122.00"),
		Status:    models.InvoiceStatusIssued,
	}
	require.NoError(t, invoices.Create(nil, invoice))
	assert.NotZero(t, invoice.ID)

	// 3. The sequence advances
	next, err = invoices.NextNumber(nil, issuer.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 2, next)

	// 4. Another year starts its own sequence
	next, err = invoices.NextNumber(nil, issuer.ID, 2027)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	// 5. Claiming an already taken number violates UNIQUE (number, year,
	// issuer_id) and is recognizable as such
	duplicate := &models.Invoice{
		Number:    invoice.Number,
		Year:      invoice.Year,
		IssueDate: invoice.IssueDate,
		PayerID:   payer.ID,
		IssuerID:  issuer.ID,
		Status:    models.InvoiceStatusIssued,
	}
	err = invoices.Create(nil, duplicate)
	require.Error(t, err)
	assert.True(t, database.IsUniqueConstraintErr(err))

	// 6. Move the invoice through its transmission lifecycle
	require.NoError(t, invoices.UpdateStatus(invoice.ID, models.InvoiceStatusSent))
	loaded, err := invoices.GetByID(invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusSent, loaded.Status)
	assert.True(t, loaded.Total.Equal(invoice.Total))

	require.NoError(t, invoices.UpdateStatus(invoice.ID, models.InvoiceStatusAccepted))
	loaded, err = invoices.GetByID(invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusAccepted, loaded.Status)
}

// TestIntegration_RevenueAccounts covers the revenue account registry against
// a real database, including the UNIQUE code constraint.
func TestIntegration_RevenueAccounts(t *testing.T) {
	db := openTestDB(t)
	accounts := repository.NewRevenueAccountRepository(db.DB, zap.NewNop())

	// 1. Create two accounts out of code order
	second := &models.RevenueAccount{Code: "705", Description: "Compensi straordinari"}
	require.NoError(t, accounts.Create(second))
	first := &models.RevenueAccount{Code: "700", Description: "Compensi ordinari"}
	require.NoError(t, accounts.Create(first))

	// 2. Round trip by id
	loaded, err := accounts.GetByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "700", loaded.Code)
	assert.Equal(t, "Compensi ordinari", loaded.Description)

	// 3. List is ordered by code
	listed, err := accounts.List()
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "700", listed[0].Code)
	assert.Equal(t, "705", listed[1].Code)

	// 4. Codes are unique
	err = accounts.Create(&models.RevenueAccount{Code: "700", Description: "Doppione"})
	require.Error(t, err)
	assert.True(t, database.IsUniqueConstraintErr(err))
}

// TestIntegration_PaymentsByLineItem records payments against a line item and
// reads them back in date order.
func TestIntegration_PaymentsByLineItem(t *testing.T) {
	db := openTestDB(t)
	accounts := repository.NewRevenueAccountRepository(db.DB, zap.NewNop())
	lineItems := repository.NewLineItemRepository(db.DB, zap.NewNop())
	payments := repository.NewPaymentRepository(db.DB, zap.NewNop())

	issuer := createTestIssuer(t, db)
	payer := createTestPayer(t, db)

	account := &models.RevenueAccount{Code: "700", Description: "Compensi ordinari"}
	require.NoError(t, accounts.Create(account))

	item := &models.LineItem{
		PayerID:          payer.ID,
		RevenueAccountID: account.ID,
		IssuerID:         issuer.ID,
		Periodicity:      models.PeriodicityMonthly,
		Description:      "Gestione ordinaria",
		NetAmount:        decimal.RequireFromString("100.00"),
		VATRate:          22,
		PeriodStart:      time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:        time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		CollectionMethod: models.CollectionMethodSDD,
	}
	require.NoError(t, lineItems.Create(item))

	// 1. Two payments on different dates, one still pending
	confirmed := &models.Payment{
		LineItemID:  item.ID,
		Amount:      decimal.RequireFromString("61.00"),
		PaymentDate: time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
		Status:      models.PaymentStatusConfirmed,
		Method:      models.CollectionMethodSDD,
		Reference:   "SDD_2026-03-06.xml",
	}
	require.NoError(t, payments.Create(nil, confirmed))

	pending := &models.Payment{
		LineItemID:  item.ID,
		Amount:      decimal.RequireFromString("61.00"),
		PaymentDate: time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC),
		Status:      models.PaymentStatusPending,
		Method:      models.CollectionMethodSDD,
		Reference:   "SDD_2026-02-06.xml",
	}
	require.NoError(t, payments.Create(nil, pending))

	// 2. Listed in payment date order regardless of insertion order
	listed, err := payments.ListByLineItem(item.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, pending.ID, listed[0].ID)
	assert.Equal(t, confirmed.ID, listed[1].ID)
	assert.Equal(t, "61.00", listed[0].Amount.StringFixed(2))

	// 3. Only confirmed payments count toward the collected total
	totals, err := payments.ConfirmedTotalByLineItem([]int64{item.ID})
	require.NoError(t, err)
	assert.Equal(t, "61.00", totals[item.ID].StringFixed(2))

	// 4. A line item with no payments lists empty
	listed, err = payments.ListByLineItem(item.ID + 99)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
