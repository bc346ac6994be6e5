package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantao-ops/internal/util"
)

func strPtr(s string) *string { return &s }

func TestSummarize(t *testing.T) {
	entries := []*FinanceEntry{
		{Type: FinanceIn, Category: strPtr("Mensalidade"), Total: "300.00", Date: "05/03/2025"},
		{Type: FinanceIn, Category: strPtr("Mensalidade"), Total: "150.50", Date: "12/03/2025"},
		{Type: FinanceOut, Category: strPtr("Material"), Total: "80.25", Date: "07/03/2025"},
		{Type: FinanceOut, Total: "10.00", Date: "08/03/2025"},
		{Type: FinanceIn, Total: "n/a", Date: "09/03/2025"},
		{Type: FinanceIn, Total: "1.00", Date: "2025-13-40"},
	}

	s := Summarize(entries, nil, nil)
	assert.Equal(t, 450.50, s.TotalIn)
	assert.Equal(t, 90.25, s.TotalOut)
	assert.Equal(t, 360.25, s.Balance)
	assert.Equal(t, 4, s.EntryCount)
	assert.Equal(t, 2, s.Skipped)

	require.Len(t, s.ByCategory, 3)
	assert.Equal(t, CategoryTotal{Category: "Mensalidade", Type: FinanceIn, Total: 450.50, Count: 2}, s.ByCategory[0])
	assert.Equal(t, CategoryTotal{Category: "Material", Type: FinanceOut, Total: 80.25, Count: 1}, s.ByCategory[1])
	assert.Equal(t, "Sem categoria", s.ByCategory[2].Category)
}

func TestSummarizeDateRange(t *testing.T) {
	entries := []*FinanceEntry{
		{Type: FinanceIn, Total: "100.00", Date: "28/02/2025"},
		{Type: FinanceIn, Total: "200.00", Date: "01/03/2025"},
		{Type: FinanceIn, Total: "300.00", Date: "31/03/2025"},
		{Type: FinanceIn, Total: "400.00", Date: "01/04/2025"},
	}
	from, err := util.ParseDate("2025-03-01")
	require.NoError(t, err)
	to, err := util.ParseDate("2025-03-31")
	require.NoError(t, err)

	s := Summarize(entries, &from, &to)
	assert.Equal(t, 500.0, s.TotalIn)
	assert.Equal(t, 2, s.EntryCount)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, nil, nil)
	assert.Zero(t, s.Balance)
	assert.NotNil(t, s.ByCategory)
}

func TestPrepareFinanceDerivesTotal(t *testing.T) {
	f := &FinanceEntry{Type: FinanceIn, Description: "Mensalidade", Quantity: "3", UnitPrice: "19,90", Date: "2025-03-10"}
	require.NoError(t, prepareFinance(f))
	assert.Equal(t, "59.70", f.Total)
	assert.Equal(t, "19.90", f.UnitPrice)
	assert.Equal(t, "10/03/2025", f.Date)
}

func TestPrepareFinanceDefaultsQuantity(t *testing.T) {
	f := &FinanceEntry{Type: FinanceOut, Description: "Luvas", UnitPrice: "25", Date: "10/03/2025"}
	require.NoError(t, prepareFinance(f))
	assert.Equal(t, "1", f.Quantity)
	assert.Equal(t, "25.00", f.Total)
}

func TestPrepareFinanceRejectsType(t *testing.T) {
	f := &FinanceEntry{Type: "Saida", Description: "x", UnitPrice: "1", Date: "10/03/2025"}
	var ve *ValidationError
	assert.ErrorAs(t, prepareFinance(f), &ve)
}
