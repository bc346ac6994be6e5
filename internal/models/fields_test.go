package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantao-ops/internal/util"
)

func TestColumnValueRejectsUnknownField(t *testing.T) {
	for _, entity := range []string{EntityStudent, EntityClass, EntityFinance} {
		for _, field := range []string{"id", "valor_total", "qtd_plantoes", "nome; DROP TABLE ci_financeiro", ""} {
			_, _, err := ColumnValue(entity, field, "x")
			var fe *InvalidFieldError
			require.ErrorAs(t, err, &fe, "entity=%s field=%q", entity, field)
			assert.Equal(t, field, fe.Field)
		}
	}
}

func TestColumnValueConversions(t *testing.T) {
	tests := []struct {
		name   string
		entity string
		field  string
		raw    interface{}
		want   interface{}
	}{
		{"text", EntityStudent, "telefone", "(11) 99999-0000", "(11) 99999-0000"},
		{"nullable text cleared", EntityStudent, "email", nil, nil},
		{"date normalized", EntityStudent, "data_nascimento", "1999-05-20", "20/05/1999"},
		{"status", EntityStudent, "status", "Em Onboarding", "Em Onboarding"},
		{"capacity from json number", EntityClass, "capacidade", float64(12), 12},
		{"class value formatted", EntityClass, "valor", "1.500,00", "1500.00"},
		{"quantity", EntityFinance, "quantidade", float64(3), "3"},
		{"unit price", EntityFinance, "valor_unitario", "49.9", "49.90"},
		{"finance type", EntityFinance, "tipo", "Saída", "Saída"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, v, err := ColumnValue(tt.entity, tt.field, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.field, col)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestColumnValueValidation(t *testing.T) {
	cases := []struct {
		entity, field string
		raw           interface{}
	}{
		{EntityStudent, "nome", ""},
		{EntityStudent, "status", "Ativa"},
		{EntityClass, "capacidade", "-1"},
		{EntityClass, "capacidade", "dez"},
		{EntityFinance, "quantidade", "abc"},
		{EntityFinance, "data_lancamento", nil},
		{EntityFinance, "tipo", "Saida"},
		{EntityStudent, "observacoes", map[string]string{}},
	}
	for _, c := range cases {
		_, _, err := ColumnValue(c.entity, c.field, c.raw)
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve, "entity=%s field=%s raw=%v", c.entity, c.field, c.raw)
	}
}

func TestRecomputeTotal(t *testing.T) {
	total, err := RecomputeTotal("quantidade", "4", "2", "25.00")
	require.NoError(t, err)
	assert.Equal(t, "100.00", total)

	total, err = RecomputeTotal("valor_unitario", "30.00", "2", "25.00")
	require.NoError(t, err)
	assert.Equal(t, "60.00", total)
}

func TestRecomputeTotalOrderIndependent(t *testing.T) {
	const qty, unit = "3", "19.90"
	direct := util.FormatAmount(util.MultiplyAmounts(3, 19.90))

	// quantity first, then unit price
	afterQty, err := RecomputeTotal("quantidade", qty, "1", "10.00")
	require.NoError(t, err)
	assert.Equal(t, "30.00", afterQty)
	final1, err := RecomputeTotal("valor_unitario", unit, qty, "10.00")
	require.NoError(t, err)

	// unit price first, then quantity
	_, err = RecomputeTotal("valor_unitario", unit, "1", "10.00")
	require.NoError(t, err)
	final2, err := RecomputeTotal("quantidade", qty, "1", unit)
	require.NoError(t, err)

	assert.Equal(t, direct, final1)
	assert.Equal(t, direct, final2)
}

func TestRecomputeTotalBadStoredValue(t *testing.T) {
	_, err := RecomputeTotal("quantidade", "2", "1", "n/a")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}
