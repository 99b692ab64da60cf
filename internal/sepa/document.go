package sepa

import "encoding/xml"

// XML document model for ISO 20022 pain.008.001.02 (customer direct debit
// initiation). Field order follows the schema's element sequence.

// Namespace is the pain.008.001.02 message namespace.
const Namespace = "urn:iso:std:iso:20022:tech:xsd:pain.008.001.02"

type document struct {
	XMLName           xml.Name      `xml:"Document"`
	Xmlns             string        `xml:"xmlns,attr"`
	CstmrDrctDbtInitn directDebitIn `xml:"CstmrDrctDbtInitn"`
}

type directDebitIn struct {
	GrpHdr groupHeader `xml:"GrpHdr"`
	PmtInf paymentInfo `xml:"PmtInf"`
}

type groupHeader struct {
	MsgId    string `xml:"MsgId"`
	CreDtTm  string `xml:"CreDtTm"`
	NbOfTxs  int    `xml:"NbOfTxs"`
	CtrlSum  string `xml:"CtrlSum"`
	InitgPty party  `xml:"InitgPty"`
}

type party struct {
	Nm string `xml:"Nm"`
}

type paymentInfo struct {
	PmtInfId     string        `xml:"PmtInfId"`
	PmtMtd       string        `xml:"PmtMtd"`
	BtchBookg    string        `xml:"BtchBookg"`
	NbOfTxs      int           `xml:"NbOfTxs"`
	CtrlSum      string        `xml:"CtrlSum"`
	PmtTpInf     paymentType   `xml:"PmtTpInf"`
	ReqdColltnDt string        `xml:"ReqdColltnDt"`
	Cdtr         creditor      `xml:"Cdtr"`
	CdtrAcct     account       `xml:"CdtrAcct"`
	CdtrAgt      agent         `xml:"CdtrAgt"`
	CdtrSchmeId  schemeId      `xml:"CdtrSchmeId"`
	DrctDbtTxInf []transaction `xml:"DrctDbtTxInf"`
}

type paymentType struct {
	SvcLvl    codeChoice `xml:"SvcLvl"`
	LclInstrm codeChoice `xml:"LclInstrm"`
	SeqTp     string     `xml:"SeqTp"`
}

type codeChoice struct {
	Cd string `xml:"Cd"`
}

type creditor struct {
	Nm      string        `xml:"Nm"`
	PstlAdr postalAddress `xml:"PstlAdr"`
}

type postalAddress struct {
	Ctry string `xml:"Ctry"`
}

type account struct {
	Id accountId `xml:"Id"`
}

type accountId struct {
	IBAN string `xml:"IBAN"`
}

type agent struct {
	FinInstnId finInstitution `xml:"FinInstnId"`
}

type finInstitution struct {
	BIC string `xml:"BIC"`
}

type schemeId struct {
	Id schemeIdChoice `xml:"Id"`
}

type schemeIdChoice struct {
	PrvtId privateId `xml:"PrvtId"`
}

type privateId struct {
	Othr otherId `xml:"Othr"`
}

type otherId struct {
	Id      string     `xml:"Id"`
	SchmeNm schemeName `xml:"SchmeNm"`
}

type schemeName struct {
	Prtry string `xml:"Prtry"`
}

type transaction struct {
	PmtId     paymentId        `xml:"PmtId"`
	InstdAmt  instructedAmount `xml:"InstdAmt"`
	DrctDbtTx directDebitTx    `xml:"DrctDbtTx"`
	DbtrAgt   agent            `xml:"DbtrAgt"`
	Dbtr      party            `xml:"Dbtr"`
	DbtrAcct  account          `xml:"DbtrAcct"`
	RmtInf    remittanceInfo   `xml:"RmtInf"`
}

type paymentId struct {
	EndToEndId string `xml:"EndToEndId"`
}

type instructedAmount struct {
	Ccy    string `xml:"Ccy,attr"`
	Amount string `xml:",chardata"`
}

type directDebitTx struct {
	MndtRltdInf mandateInfo `xml:"MndtRltdInf"`
}

type mandateInfo struct {
	MndtId    string `xml:"MndtId"`
	DtOfSgntr string `xml:"DtOfSgntr"`
}

type remittanceInfo struct {
	Ustrd string `xml:"Ustrd"`
}
