package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLineItemRounding(t *testing.T) {
	item := &LineItem{
		NetAmount: decimal.RequireFromString("0.335"),
		VATRate:   22,
	}

	// Half-up at 2 decimals, per line.
	assert.Equal(t, "0.34", item.NetRounded().StringFixed(2))
	assert.Equal(t, "0.07", item.VATAmount().StringFixed(2))
	assert.Equal(t, "0.41", item.GrossTotal().StringFixed(2))
}

func TestLineItemVATAmountRoundsBeforeAggregation(t *testing.T) {
	item := &LineItem{
		NetAmount: decimal.RequireFromString("0.33"),
		VATRate:   22,
	}

	// 0.33 * 22% = 0.0726, rounded at the line to 0.07.
	assert.Equal(t, "0.07", item.VATAmount().StringFixed(2))
	assert.Equal(t, "0.40", item.GrossTotal().StringFixed(2))
}

func TestDocumentDescription(t *testing.T) {
	item := &LineItem{
		Description: "Gestione contabile",
		Periodicity: PeriodicityMonthly,
		PeriodStart: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "Gestione contabile Febbraio 2026", item.DocumentDescription())

	oneOff := &LineItem{Description: "Pratica una tantum", Periodicity: PeriodicityOneOff}
	assert.Equal(t, "Pratica una tantum", oneOff.DocumentDescription())
}

func TestPayerDenomination(t *testing.T) {
	entity := &Payer{LegalName: "Condominio Verdi"}
	assert.False(t, entity.IsNaturalPerson())
	assert.Equal(t, "Condominio Verdi", entity.Denomination())

	person := &Payer{LegalName: "Rossi", GivenName: "Mario"}
	assert.True(t, person.IsNaturalPerson())
	assert.Equal(t, "Rossi Mario", person.Denomination())
}
