package fatturapa

import "encoding/xml"

// XML document model for FatturaPA v1.2.2 (transmission format FPR12).
// Field order matters: encoding/xml emits elements in declaration order and
// the receiving system validates element ordering.

const (
	// Namespace is the official electronic invoice namespace.
	Namespace = "http://ivaservizi.agenziaentrate.gov.it/docs/xsd/fatture/v1.2"

	xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"

	// SchemaLocation is the mandated schema-location attribute value.
	SchemaLocation = Namespace +
		" http://www.fatturapa.gov.it/export/fatturazione/sdi/fatturapa/" +
		"v1.2.2/Schema_del_file_FatturaPA_v1.2.2.xsd"

	// FormatVersion is the fixed transmission format code.
	FormatVersion = "FPR12"
)

type fatturaElettronica struct {
	XMLName        xml.Name `xml:"p:FatturaElettronica"`
	XmlnsP         string   `xml:"xmlns:p,attr"`
	XmlnsXSI       string   `xml:"xmlns:xsi,attr"`
	Versione       string   `xml:"versione,attr"`
	SchemaLocation string   `xml:"xsi:schemaLocation,attr"`

	Header fatturaHeader `xml:"FatturaElettronicaHeader"`
	Body   fatturaBody   `xml:"FatturaElettronicaBody"`
}

type fatturaHeader struct {
	DatiTrasmissione       datiTrasmissione `xml:"DatiTrasmissione"`
	CedentePrestatore      cedente          `xml:"CedentePrestatore"`
	CessionarioCommittente cessionario      `xml:"CessionarioCommittente"`
}

type idFiscale struct {
	IdPaese  string `xml:"IdPaese"`
	IdCodice string `xml:"IdCodice"`
}

type datiTrasmissione struct {
	IdTrasmittente      idFiscale `xml:"IdTrasmittente"`
	ProgressivoInvio    string    `xml:"ProgressivoInvio"`
	FormatoTrasmissione string    `xml:"FormatoTrasmissione"`
	CodiceDestinatario  string    `xml:"CodiceDestinatario"`
	PECDestinatario     string    `xml:"PECDestinatario,omitempty"`
}

type anagrafica struct {
	Denominazione string `xml:"Denominazione,omitempty"`
	Nome          string `xml:"Nome,omitempty"`
	Cognome       string `xml:"Cognome,omitempty"`
}

type cedente struct {
	DatiAnagrafici datiAnagraficiCedente `xml:"DatiAnagrafici"`
	Sede           sede                  `xml:"Sede"`
}

type datiAnagraficiCedente struct {
	IdFiscaleIVA  idFiscale  `xml:"IdFiscaleIVA"`
	CodiceFiscale string     `xml:"CodiceFiscale,omitempty"`
	Anagrafica    anagrafica `xml:"Anagrafica"`
	RegimeFiscale string     `xml:"RegimeFiscale"`
}

type cessionario struct {
	DatiAnagrafici datiAnagraficiCessionario `xml:"DatiAnagrafici"`
	Sede           sede                      `xml:"Sede"`
}

type datiAnagraficiCessionario struct {
	IdFiscaleIVA  *idFiscale `xml:"IdFiscaleIVA,omitempty"`
	CodiceFiscale string     `xml:"CodiceFiscale,omitempty"`
	Anagrafica    anagrafica `xml:"Anagrafica"`
}

type sede struct {
	Indirizzo string `xml:"Indirizzo"`
	CAP       string `xml:"CAP"`
	Comune    string `xml:"Comune"`
	Provincia string `xml:"Provincia,omitempty"`
	Nazione   string `xml:"Nazione"`
}

type fatturaBody struct {
	DatiGenerali    datiGenerali    `xml:"DatiGenerali"`
	DatiBeniServizi datiBeniServizi `xml:"DatiBeniServizi"`
	DatiPagamento   datiPagamento   `xml:"DatiPagamento"`
}

type datiGenerali struct {
	DatiGeneraliDocumento datiGeneraliDocumento `xml:"DatiGeneraliDocumento"`
}

type datiGeneraliDocumento struct {
	TipoDocumento string `xml:"TipoDocumento"`
	Divisa        string `xml:"Divisa"`
	Data          string `xml:"Data"`
	Numero        string `xml:"Numero"`
}

type datiBeniServizi struct {
	DettaglioLinee []dettaglioLinea `xml:"DettaglioLinee"`
	DatiRiepilogo  []datiRiepilogo  `xml:"DatiRiepilogo"`
}

type dettaglioLinea struct {
	NumeroLinea    int    `xml:"NumeroLinea"`
	Descrizione    string `xml:"Descrizione"`
	PrezzoUnitario string `xml:"PrezzoUnitario"`
	PrezzoTotale   string `xml:"PrezzoTotale"`
	AliquotaIVA    string `xml:"AliquotaIVA"`
}

type datiRiepilogo struct {
	AliquotaIVA       string `xml:"AliquotaIVA"`
	ImponibileImporto string `xml:"ImponibileImporto"`
	Imposta           string `xml:"Imposta"`
	EsigibilitaIVA    string `xml:"EsigibilitaIVA"`
	Natura            string `xml:"Natura,omitempty"`
}

type datiPagamento struct {
	CondizioniPagamento string             `xml:"CondizioniPagamento"`
	DettaglioPagamento  dettaglioPagamento `xml:"DettaglioPagamento"`
}

type dettaglioPagamento struct {
	ModalitaPagamento string `xml:"ModalitaPagamento"`
	ImportoPagamento  string `xml:"ImportoPagamento"`
	IBAN              string `xml:"IBAN"`
}
