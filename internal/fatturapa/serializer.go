// Package fatturapa renders invoices into the FatturaPA v1.2.2 electronic
// invoice XML format.
package fatturapa

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/lucabarbieri/gestionale/internal/models"
)

const (
	documentTypeInvoice = "TD01"
	currencyCode        = "EUR"
	paymentConditions   = "TP02" // full payment
	paymentMethod       = "MP05" // bank collection
	zeroRateNature      = "N2.2"
)

// regimeCodes maps the internal fiscal regime label to the external code set.
var regimeCodes = map[string]string{
	models.FiscalRegimeOrdinary:   "RF01",
	models.FiscalRegimeSimplified: "RF01",
	models.FiscalRegimeFlatRate:   "RF19",
}

// Serializer renders one invoice plus its line items into the electronic
// invoice XML document.
type Serializer struct {
	logger *zap.Logger
}

// NewSerializer creates a new Serializer
func NewSerializer(logger *zap.Logger) *Serializer {
	return &Serializer{logger: logger}
}

// Filename returns the mandated document filename for an invoice:
// IT<issuer VAT>_<number zero-padded to 5 digits>.xml
func Filename(issuerVAT string, number int) string {
	return fmt.Sprintf("IT%s_%05d.xml", issuerVAT, number)
}

// Generate renders the invoice document and returns the XML bytes and the
// mandated filename. Line items are emitted in the given order; callers must
// not expect any re-sorting.
func (s *Serializer) Generate(inv *models.Invoice, lines []*models.LineItem, issuer *models.Issuer, payer *models.Payer) ([]byte, string, error) {
	if err := validateInputs(lines, issuer, payer); err != nil {
		return nil, "", err
	}

	doc := &fatturaElettronica{
		XmlnsP:         Namespace,
		XmlnsXSI:       xsiNamespace,
		Versione:       FormatVersion,
		SchemaLocation: SchemaLocation,
		Header:         s.buildHeader(inv, issuer, payer),
		Body:           s.buildBody(inv, lines, issuer, payer),
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal invoice document: %w", err)
	}

	filename := Filename(issuer.VATNumber, inv.Number)
	s.logger.Info("Invoice document generated",
		zap.Int("number", inv.Number),
		zap.Int("year", inv.Year),
		zap.String("filename", filename),
		zap.Int("line_count", len(lines)))

	return append([]byte(xml.Header), out...), filename, nil
}

func validateInputs(lines []*models.LineItem, issuer *models.Issuer, payer *models.Payer) error {
	if len(lines) == 0 {
		return ErrNoLineItems
	}
	if issuer.VATNumber == "" {
		return ErrMissingIssuerVAT
	}
	if stripSpaces(issuer.IBAN) == "" {
		return ErrMissingIssuerIBAN
	}
	if issuer.Address == "" || issuer.PostalCode == "" || issuer.City == "" {
		return ErrIncompleteIssuerOffice
	}
	if payer.LegalName == "" {
		return ErrMissingPayerName
	}
	if payer.VATNumber == "" && payer.FiscalCode == "" {
		return ErrMissingPayerTaxID
	}
	return nil
}

func (s *Serializer) buildHeader(inv *models.Invoice, issuer *models.Issuer, payer *models.Payer) fatturaHeader {
	routingCode := payer.RoutingCode
	if routingCode == "" {
		routingCode = models.NullRoutingCode
	}

	trasm := datiTrasmissione{
		IdTrasmittente: idFiscale{
			IdPaese:  countryOrDefault(issuer.Country),
			IdCodice: issuer.VATNumber,
		},
		ProgressivoInvio:    fmt.Sprintf("%05d", inv.Number),
		FormatoTrasmissione: FormatVersion,
		CodiceDestinatario:  routingCode,
	}
	// Null routing code: the certified email is the fallback recipient channel.
	if payer.CertifiedEmail != "" && routingCode == models.NullRoutingCode {
		trasm.PECDestinatario = payer.CertifiedEmail
	}

	regime, ok := regimeCodes[issuer.FiscalRegime]
	if !ok {
		regime = regimeCodes[models.FiscalRegimeOrdinary]
	}

	ced := cedente{
		DatiAnagrafici: datiAnagraficiCedente{
			IdFiscaleIVA: idFiscale{
				IdPaese:  countryOrDefault(issuer.Country),
				IdCodice: issuer.VATNumber,
			},
			CodiceFiscale: issuer.FiscalCode,
			Anagrafica:    anagrafica{Denominazione: issuer.LegalName},
			RegimeFiscale: regime,
		},
		Sede: sede{
			Indirizzo: issuer.Address,
			CAP:       issuer.PostalCode,
			Comune:    issuer.City,
			Provincia: issuer.Province,
			Nazione:   countryOrDefault(issuer.Country),
		},
	}

	cess := cessionario{
		DatiAnagrafici: datiAnagraficiCessionario{
			CodiceFiscale: payer.FiscalCode,
			Anagrafica:    payerAnagrafica(payer),
		},
		Sede: sede{
			Indirizzo: textOrDefault(payer.Address, "N/D"),
			CAP:       textOrDefault(payer.PostalCode, "00000"),
			Comune:    textOrDefault(payer.City, "N/D"),
			Provincia: payer.Province,
			Nazione:   countryOrDefault(payer.Country),
		},
	}
	if payer.VATNumber != "" {
		cess.DatiAnagrafici.IdFiscaleIVA = &idFiscale{
			IdPaese:  countryOrDefault(payer.Country),
			IdCodice: payer.VATNumber,
		}
	}

	return fatturaHeader{
		DatiTrasmissione:       trasm,
		CedentePrestatore:      ced,
		CessionarioCommittente: cess,
	}
}

// payerAnagrafica emits a natural person (given + family name) when a given
// name is recorded, a legal-entity denomination otherwise. The two
// representations are mutually exclusive within one document.
func payerAnagrafica(payer *models.Payer) anagrafica {
	if payer.IsNaturalPerson() {
		return anagrafica{
			Nome:    payer.GivenName,
			Cognome: payer.LegalName,
		}
	}
	return anagrafica{Denominazione: payer.LegalName}
}

func (s *Serializer) buildBody(inv *models.Invoice, lines []*models.LineItem, issuer *models.Issuer, payer *models.Payer) fatturaBody {
	beni := datiBeniServizi{}

	// Per-rate accumulators over already-rounded per-line values, so that
	// summary totals always equal the sum of the emitted line values.
	type rateTotals struct {
		taxable decimal.Decimal
		tax     decimal.Decimal
	}
	summary := make(map[int]*rateTotals)
	paymentTotal := decimal.Zero

	for i, line := range lines {
		net := line.NetRounded()
		beni.DettaglioLinee = append(beni.DettaglioLinee, dettaglioLinea{
			NumeroLinea:    i + 1,
			Descrizione:    line.DocumentDescription(),
			PrezzoUnitario: net.StringFixed(2),
			PrezzoTotale:   net.StringFixed(2), // quantity is implicitly 1
			AliquotaIVA:    formatRate(line.VATRate),
		})

		totals, ok := summary[line.VATRate]
		if !ok {
			totals = &rateTotals{taxable: decimal.Zero, tax: decimal.Zero}
			summary[line.VATRate] = totals
		}
		totals.taxable = totals.taxable.Add(net)
		totals.tax = totals.tax.Add(line.VATAmount())
		paymentTotal = paymentTotal.Add(line.GrossTotal())
	}

	rates := make([]int, 0, len(summary))
	for rate := range summary {
		rates = append(rates, rate)
	}
	sort.Ints(rates)

	exigibility := "I"
	if payer.SplitPayment {
		exigibility = "S"
	}

	for _, rate := range rates {
		row := datiRiepilogo{
			AliquotaIVA:       formatRate(rate),
			ImponibileImporto: summary[rate].taxable.StringFixed(2),
			Imposta:           summary[rate].tax.StringFixed(2),
			EsigibilitaIVA:    exigibility,
		}
		if rate == 0 {
			row.Natura = zeroRateNature
		}
		beni.DatiRiepilogo = append(beni.DatiRiepilogo, row)
	}

	return fatturaBody{
		DatiGenerali: datiGenerali{
			DatiGeneraliDocumento: datiGeneraliDocumento{
				TipoDocumento: documentTypeInvoice,
				Divisa:        currencyCode,
				Data:          inv.IssueDate.Format("2006-01-02"),
				Numero:        fmt.Sprintf("%d", inv.Number),
			},
		},
		DatiBeniServizi: beni,
		DatiPagamento: datiPagamento{
			CondizioniPagamento: paymentConditions,
			DettaglioPagamento: dettaglioPagamento{
				ModalitaPagamento: paymentMethod,
				ImportoPagamento:  paymentTotal.StringFixed(2),
				IBAN:              stripSpaces(issuer.IBAN),
			},
		},
	}
}

func formatRate(rate int) string {
	return decimal.NewFromInt(int64(rate)).StringFixed(2)
}

func stripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

func textOrDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func countryOrDefault(country string) string {
	if country == "" {
		return "IT"
	}
	return country
}
