package fatturapa

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lucabarbieri/gestionale/internal/models"
)

func testIssuer() *models.Issuer {
	return &models.Issuer{
		ID:           1,
		LegalName:    "Studio Bianchi SRL",
		VATNumber:    "01234567890",
		FiscalCode:   "01234567890",
		Address:      "Via Roma 1",
		PostalCode:   "20100",
		City:         "Milano",
		Province:     "MI",
		Country:      "IT",
		FiscalRegime: models.FiscalRegimeOrdinary,
		IBAN:         "IT60 X054 2811 1010 0000 0123 456",
	}
}

func testPayer() *models.Payer {
	return &models.Payer{
		ID:          7,
		LegalName:   "Condominio Garibaldi",
		FiscalCode:  "91234567890",
		Address:     "Via Garibaldi 5",
		PostalCode:  "20121",
		City:        "Milano",
		Province:    "MI",
		Country:     "IT",
		RoutingCode: "0000000",
	}
}

func testInvoice(number int) *models.Invoice {
	return &models.Invoice{
		ID:        10,
		Number:    number,
		Year:      2026,
		IssueDate: time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		PayerID:   7,
		IssuerID:  1,
	}
}

func testLine(net string, rate int) *models.LineItem {
	return &models.LineItem{
		ID:          100,
		PayerID:     7,
		IssuerID:    1,
		Periodicity: models.PeriodicityOneOff,
		Description: "Amministrazione condominiale",
		NetAmount:   decimal.RequireFromString(net),
		VATRate:     rate,
		PeriodStart: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
	}
}

func generate(t *testing.T, inv *models.Invoice, lines []*models.LineItem, issuer *models.Issuer, payer *models.Payer) (string, string) {
	t.Helper()
	s := NewSerializer(zap.NewNop())
	out, filename, err := s.Generate(inv, lines, issuer, payer)
	require.NoError(t, err)
	return string(out), filename
}

func TestGenerate_SingleLine(t *testing.T) {
	xmlText, filename := generate(t, testInvoice(7), []*models.LineItem{testLine("100.00", 22)}, testIssuer(), testPayer())

	assert.Equal(t, "IT01234567890_00007.xml", filename)

	assert.Contains(t, xmlText, `versione="FPR12"`)
	assert.Contains(t, xmlText, `xmlns:p="http://ivaservizi.agenziaentrate.gov.it/docs/xsd/fatture/v1.2"`)
	assert.Contains(t, xmlText, "<ProgressivoInvio>00007</ProgressivoInvio>")
	assert.Contains(t, xmlText, "<FormatoTrasmissione>FPR12</FormatoTrasmissione>")
	assert.Contains(t, xmlText, "<CodiceDestinatario>0000000</CodiceDestinatario>")

	assert.Contains(t, xmlText, "<TipoDocumento>TD01</TipoDocumento>")
	assert.Contains(t, xmlText, "<Divisa>EUR</Divisa>")
	assert.Contains(t, xmlText, "<Data>2026-02-28</Data>")
	assert.Contains(t, xmlText, "<Numero>7</Numero>")

	assert.Contains(t, xmlText, "<NumeroLinea>1</NumeroLinea>")
	assert.Contains(t, xmlText, "<PrezzoUnitario>100.00</PrezzoUnitario>")
	assert.Contains(t, xmlText, "<PrezzoTotale>100.00</PrezzoTotale>")
	assert.Contains(t, xmlText, "<AliquotaIVA>22.00</AliquotaIVA>")

	assert.Contains(t, xmlText, "<ImponibileImporto>100.00</ImponibileImporto>")
	assert.Contains(t, xmlText, "<Imposta>22.00</Imposta>")
	assert.Contains(t, xmlText, "<EsigibilitaIVA>I</EsigibilitaIVA>")

	assert.Contains(t, xmlText, "<CondizioniPagamento>TP02</CondizioniPagamento>")
	assert.Contains(t, xmlText, "<ModalitaPagamento>MP05</ModalitaPagamento>")
	assert.Contains(t, xmlText, "<ImportoPagamento>122.00</ImportoPagamento>")
	assert.Contains(t, xmlText, "<IBAN>IT60X0542811101000000123456</IBAN>")
}

func TestGenerate_LineOrderPreserved(t *testing.T) {
	first := testLine("10.00", 22)
	first.Description = "Servizio B"
	second := testLine("20.00", 22)
	second.Description = "Servizio A"

	xmlText, _ := generate(t, testInvoice(1), []*models.LineItem{first, second}, testIssuer(), testPayer())

	// input order wins, no re-sorting by description
	posB := strings.Index(xmlText, "Servizio B")
	posA := strings.Index(xmlText, "Servizio A")
	require.Greater(t, posB, 0)
	require.Greater(t, posA, 0)
	assert.Less(t, posB, posA)
	assert.Contains(t, xmlText, "<NumeroLinea>2</NumeroLinea>")
}

func TestGenerate_VATSummaryPerRate(t *testing.T) {
	lines := []*models.LineItem{
		testLine("100.00", 22),
		testLine("50.00", 22),
		testLine("200.00", 10),
		testLine("30.00", 0),
	}

	xmlText, _ := generate(t, testInvoice(2), lines, testIssuer(), testPayer())

	// one summary row per distinct rate, ascending; look only at the
	// summary section, the detail lines keep their own order above it
	summaryStart := strings.Index(xmlText, "<DatiRiepilogo>")
	require.Greater(t, summaryStart, 0)
	summaryText := xmlText[summaryStart:]
	pos0 := strings.Index(summaryText, "<AliquotaIVA>0.00</AliquotaIVA>")
	pos10 := strings.Index(summaryText, "<AliquotaIVA>10.00</AliquotaIVA>")
	pos22 := strings.Index(summaryText, "<AliquotaIVA>22.00</AliquotaIVA>")
	require.GreaterOrEqual(t, pos0, 0)
	assert.Less(t, pos0, pos10)
	assert.Less(t, pos10, pos22)

	assert.Contains(t, xmlText, "<ImponibileImporto>150.00</ImponibileImporto>")
	assert.Contains(t, xmlText, "<Imposta>33.00</Imposta>")
	assert.Contains(t, xmlText, "<ImponibileImporto>200.00</ImponibileImporto>")
	assert.Contains(t, xmlText, "<Imposta>20.00</Imposta>")

	// the zero-rate row carries the exemption nature code
	assert.Contains(t, xmlText, "<Natura>N2.2</Natura>")
	assert.Equal(t, 1, strings.Count(xmlText, "<Natura>"))

	// 150*1.22 + 200*1.10 + 30 = 183 + 220 + 30
	assert.Contains(t, xmlText, "<ImportoPagamento>433.00</ImportoPagamento>")
}

func TestGenerate_SummaryTotalsSumRoundedLineValues(t *testing.T) {
	// per-line VAT: round(0.33*22%) = 0.07, three times -> 0.21,
	// not round(0.99*22%) = 0.22
	lines := []*models.LineItem{
		testLine("0.33", 22),
		testLine("0.33", 22),
		testLine("0.33", 22),
	}

	xmlText, _ := generate(t, testInvoice(3), lines, testIssuer(), testPayer())

	assert.Contains(t, xmlText, "<ImponibileImporto>0.99</ImponibileImporto>")
	assert.Contains(t, xmlText, "<Imposta>0.21</Imposta>")
	assert.Contains(t, xmlText, "<ImportoPagamento>1.20</ImportoPagamento>")
}

func TestGenerate_PeriodicitySuffixes(t *testing.T) {
	monthly := testLine("100.00", 22)
	monthly.Periodicity = models.PeriodicityMonthly
	quarterly := testLine("100.00", 22)
	quarterly.Periodicity = models.PeriodicityQuarterly
	quarterly.PeriodStart = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	semiannual := testLine("100.00", 22)
	semiannual.Periodicity = models.PeriodicitySemiAnnual
	semiannual.PeriodStart = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	annual := testLine("100.00", 22)
	annual.Periodicity = models.PeriodicityAnnual

	xmlText, _ := generate(t, testInvoice(4),
		[]*models.LineItem{monthly, quarterly, semiannual, annual}, testIssuer(), testPayer())

	assert.Contains(t, xmlText, "Amministrazione condominiale Febbraio 2026")
	assert.Contains(t, xmlText, "Amministrazione condominiale III trim. 2026")
	assert.Contains(t, xmlText, "Amministrazione condominiale II sem. 2026")
	assert.Contains(t, xmlText, "Amministrazione condominiale 2026</Descrizione>")
}

func TestGenerate_NaturalPersonVsLegalEntity(t *testing.T) {
	t.Run("legal entity uses denomination", func(t *testing.T) {
		xmlText, _ := generate(t, testInvoice(1), []*models.LineItem{testLine("100.00", 22)}, testIssuer(), testPayer())
		assert.Contains(t, xmlText, "<Denominazione>Condominio Garibaldi</Denominazione>")
		assert.NotContains(t, xmlText, "<Nome>")
	})

	t.Run("natural person uses given and family name", func(t *testing.T) {
		payer := testPayer()
		payer.LegalName = "Rossi"
		payer.GivenName = "Mario"
		payer.FiscalCode = "RSSMRA80A01F205X"

		xmlText, _ := generate(t, testInvoice(1), []*models.LineItem{testLine("100.00", 22)}, testIssuer(), payer)
		assert.Contains(t, xmlText, "<Nome>Mario</Nome>")
		assert.Contains(t, xmlText, "<Cognome>Rossi</Cognome>")
		// mutually exclusive with the issuer's own denomination still present
		assert.Equal(t, 1, strings.Count(xmlText, "<Denominazione>"))
	})
}

func TestGenerate_RecipientChannel(t *testing.T) {
	t.Run("certified email as fallback for null routing code", func(t *testing.T) {
		payer := testPayer()
		payer.CertifiedEmail = "condominio@pec.it"

		xmlText, _ := generate(t, testInvoice(1), []*models.LineItem{testLine("100.00", 22)}, testIssuer(), payer)
		assert.Contains(t, xmlText, "<PECDestinatario>condominio@pec.it</PECDestinatario>")
	})

	t.Run("real routing code suppresses certified email", func(t *testing.T) {
		payer := testPayer()
		payer.RoutingCode = "ABC1234"
		payer.CertifiedEmail = "condominio@pec.it"

		xmlText, _ := generate(t, testInvoice(1), []*models.LineItem{testLine("100.00", 22)}, testIssuer(), payer)
		assert.Contains(t, xmlText, "<CodiceDestinatario>ABC1234</CodiceDestinatario>")
		assert.NotContains(t, xmlText, "PECDestinatario")
	})
}

func TestGenerate_PayerAddressDefaults(t *testing.T) {
	payer := testPayer()
	payer.Address = ""
	payer.PostalCode = ""
	payer.City = ""
	payer.Province = ""

	xmlText, _ := generate(t, testInvoice(1), []*models.LineItem{testLine("100.00", 22)}, testIssuer(), payer)
	assert.Contains(t, xmlText, "<Indirizzo>N/D</Indirizzo>")
	assert.Contains(t, xmlText, "<CAP>00000</CAP>")
	assert.Contains(t, xmlText, "<Comune>N/D</Comune>")
}

func TestGenerate_SplitPayment(t *testing.T) {
	payer := testPayer()
	payer.SplitPayment = true

	xmlText, _ := generate(t, testInvoice(1), []*models.LineItem{testLine("100.00", 22)}, testIssuer(), payer)
	assert.Contains(t, xmlText, "<EsigibilitaIVA>S</EsigibilitaIVA>")
}

func TestGenerate_FlatRateRegime(t *testing.T) {
	issuer := testIssuer()
	issuer.FiscalRegime = models.FiscalRegimeFlatRate

	xmlText, _ := generate(t, testInvoice(1), []*models.LineItem{testLine("100.00", 22)}, issuer, testPayer())
	assert.Contains(t, xmlText, "<RegimeFiscale>RF19</RegimeFiscale>")
}

func TestGenerate_Preconditions(t *testing.T) {
	s := NewSerializer(zap.NewNop())
	line := testLine("100.00", 22)

	t.Run("empty line set", func(t *testing.T) {
		_, _, err := s.Generate(testInvoice(1), nil, testIssuer(), testPayer())
		assert.ErrorIs(t, err, ErrNoLineItems)
	})

	t.Run("missing issuer IBAN", func(t *testing.T) {
		issuer := testIssuer()
		issuer.IBAN = "   "
		_, _, err := s.Generate(testInvoice(1), []*models.LineItem{line}, issuer, testPayer())
		assert.ErrorIs(t, err, ErrMissingIssuerIBAN)
	})

	t.Run("missing issuer address", func(t *testing.T) {
		issuer := testIssuer()
		issuer.City = ""
		_, _, err := s.Generate(testInvoice(1), []*models.LineItem{line}, issuer, testPayer())
		assert.ErrorIs(t, err, ErrIncompleteIssuerOffice)
	})

	t.Run("payer without any tax id", func(t *testing.T) {
		payer := testPayer()
		payer.FiscalCode = ""
		payer.VATNumber = ""
		_, _, err := s.Generate(testInvoice(1), []*models.LineItem{line}, testIssuer(), payer)
		assert.ErrorIs(t, err, ErrMissingPayerTaxID)
	})
}
