package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"plantao-ops/internal/util"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindRequiredText
	kindDate
	kindRequiredDate
	kindInt
	kindAmount
	kindStatus
)

type fieldRule struct {
	kind     fieldKind
	validate func(string) error
}

// Entity names used by the generic field-update endpoints.
const (
	EntityStudent = "aluno"
	EntityClass   = "turma"
	EntityFinance = "lançamento"
)

var fieldRules = map[string]map[string]fieldRule{
	EntityStudent: {
		"nome":              {kind: kindRequiredText},
		"cpf":               {kind: kindText},
		"telefone":          {kind: kindText},
		"email":             {kind: kindText},
		"data_nascimento":   {kind: kindDate},
		"endereco":          {kind: kindText},
		"status":            {kind: kindStatus, validate: ValidateStudentStatus},
		"status_financeiro": {kind: kindText},
		"observacoes":       {kind: kindText},
	},
	EntityClass: {
		"nome":        {kind: kindRequiredText},
		"descricao":   {kind: kindText},
		"capacidade":  {kind: kindInt},
		"dias_semana": {kind: kindText},
		"horario":     {kind: kindText},
		"instrutor":   {kind: kindText},
		"valor":       {kind: kindAmount},
		"data_inicio": {kind: kindDate},
		"data_fim":    {kind: kindDate},
		"status":      {kind: kindStatus, validate: ValidateClassStatus},
	},
	EntityFinance: {
		"tipo":            {kind: kindStatus, validate: ValidateFinanceType},
		"descricao":       {kind: kindRequiredText},
		"categoria":       {kind: kindText},
		"id_turma":        {kind: kindText},
		"quantidade":      {kind: kindAmount},
		"valor_unitario":  {kind: kindAmount},
		"forma_pagamento": {kind: kindText},
		"data_lancamento": {kind: kindRequiredDate},
		"observacoes":     {kind: kindText},
	},
}

// AllowedFields returns the update allow-list for entity.
func AllowedFields(entity string) []string {
	rules := fieldRules[entity]
	fields := make([]string, 0, len(rules))
	for name := range rules {
		fields = append(fields, name)
	}
	return fields
}

// ColumnValue checks field against the entity allow-list and converts a JSON
// value into what gets stored in the column. The returned field name is
// always a key of the allow-list, never caller text.
func ColumnValue(entity, field string, raw interface{}) (string, interface{}, error) {
	rules, ok := fieldRules[entity]
	if !ok {
		return "", nil, &InvalidFieldError{Entity: entity, Field: field}
	}
	rule, ok := rules[field]
	if !ok {
		return "", nil, &InvalidFieldError{Entity: entity, Field: field}
	}

	text, isNull, err := asText(raw)
	if err != nil {
		return "", nil, &ValidationError{Field: field, Message: err.Error()}
	}
	if isNull || strings.TrimSpace(text) == "" {
		switch rule.kind {
		case kindText, kindDate:
			return field, nil, nil
		default:
			return "", nil, &ValidationError{Field: field}
		}
	}
	text = strings.TrimSpace(text)

	switch rule.kind {
	case kindDate, kindRequiredDate:
		d, err := util.NormalizeDate(text)
		if err != nil {
			return "", nil, &ValidationError{Field: field, Message: err.Error()}
		}
		return field, d, nil
	case kindInt:
		n, err := strconv.Atoi(text)
		if err != nil || n < 0 {
			return "", nil, &ValidationError{Field: field, Message: fmt.Sprintf("%s deve ser um inteiro não negativo", field)}
		}
		return field, n, nil
	case kindAmount:
		f, err := util.ParseAmount(text)
		if err != nil || f < 0 {
			return "", nil, &ValidationError{Field: field, Message: fmt.Sprintf("%s deve ser um valor numérico", field)}
		}
		if field == "quantidade" {
			return field, formatQuantity(f), nil
		}
		return field, util.FormatAmount(f), nil
	case kindStatus:
		if err := rule.validate(text); err != nil {
			return "", nil, err
		}
		return field, text, nil
	default:
		return field, text, nil
	}
}

// RecomputeTotal returns valor_total after field changed to newValue:
// new_value * stored unit price for quantidade, stored quantity * new_value
// for valor_unitario.
func RecomputeTotal(field, newValue, storedQuantity, storedUnitPrice string) (string, error) {
	v, err := util.ParseAmount(newValue)
	if err != nil {
		return "", &ValidationError{Field: field, Message: err.Error()}
	}
	var other string
	if field == "quantidade" {
		other = storedUnitPrice
	} else {
		other = storedQuantity
	}
	o, err := util.ParseAmount(other)
	if err != nil {
		return "", &ValidationError{Field: field, Message: fmt.Sprintf("valor armazenado inválido: %v", err)}
	}
	return util.FormatAmount(util.MultiplyAmounts(v, o)), nil
}

// AffectsTotal reports whether editing field changes valor_total.
func AffectsTotal(field string) bool {
	return field == "quantidade" || field == "valor_unitario"
}

func asText(raw interface{}) (string, bool, error) {
	switch v := raw.(type) {
	case nil:
		return "", true, nil
	case string:
		return v, false, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), false, nil
	case int:
		return strconv.Itoa(v), false, nil
	case bool:
		return strconv.FormatBool(v), false, nil
	default:
		return "", false, fmt.Errorf("tipo de valor não suportado: %T", raw)
	}
}

func formatQuantity(f float64) string {
	if f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
