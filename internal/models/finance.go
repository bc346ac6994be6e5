package models

import (
	"context"
	"database/sql"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"plantao-ops/internal/util"
)

const financeColumns = `id, tipo, descricao, categoria, id_turma, quantidade, valor_unitario,
	valor_total, forma_pagamento, data_lancamento, observacoes`

func scanFinance(row interface{ Scan(...interface{}) error }) (*FinanceEntry, error) {
	f := &FinanceEntry{}
	err := row.Scan(&f.ID, &f.Type, &f.Description, &f.Category, &f.ClassID, &f.Quantity,
		&f.UnitPrice, &f.Total, &f.PaymentMethod, &f.Date, &f.Notes)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *Repository) listFinance(ctx context.Context, where string, args ...interface{}) ([]*FinanceEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+financeColumns+` FROM ci_financeiro `+where+` ORDER BY data_lancamento, descricao`, args...)
	if err != nil {
		return nil, mapError("list finance", EntityFinance, "", err)
	}
	defer rows.Close()

	entries := []*FinanceEntry{}
	for rows.Next() {
		f, err := scanFinance(rows)
		if err != nil {
			return nil, mapError("scan finance", EntityFinance, "", err)
		}
		entries = append(entries, f)
	}
	return entries, mapError("iterate finance", EntityFinance, "", rows.Err())
}

func (r *Repository) ListFinance(ctx context.Context) ([]*FinanceEntry, error) {
	return r.listFinance(ctx, "")
}

func (r *Repository) FinanceByType(ctx context.Context, kind string) ([]*FinanceEntry, error) {
	if err := ValidateFinanceType(kind); err != nil {
		return nil, err
	}
	return r.listFinance(ctx, `WHERE tipo = $1`, kind)
}

func (r *Repository) GetFinance(ctx context.Context, id string) (*FinanceEntry, error) {
	return getFinance(ctx, r.db, id, false)
}

func getFinance(ctx context.Context, q querier, id string, forUpdate bool) (*FinanceEntry, error) {
	query := `SELECT ` + financeColumns + ` FROM ci_financeiro WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	f, err := scanFinance(q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError("get finance", EntityFinance, id, err)
	}
	return f, nil
}

// prepareFinance validates an entry and derives valor_total from its factors.
func prepareFinance(f *FinanceEntry) error {
	if err := ValidateFinanceType(f.Type); err != nil {
		return err
	}
	if err := required("descricao", f.Description); err != nil {
		return err
	}
	if err := required("data_lancamento", f.Date); err != nil {
		return err
	}
	d, err := util.NormalizeDate(f.Date)
	if err != nil {
		return &ValidationError{Field: "data_lancamento", Message: err.Error()}
	}
	f.Date = d

	if f.Quantity == "" {
		f.Quantity = "1"
	}
	_, qty, err := ColumnValue(EntityFinance, "quantidade", f.Quantity)
	if err != nil {
		return err
	}
	_, unit, err := ColumnValue(EntityFinance, "valor_unitario", f.UnitPrice)
	if err != nil {
		return err
	}
	f.Quantity = qty.(string)
	f.UnitPrice = unit.(string)
	total, err := RecomputeTotal("quantidade", f.Quantity, f.Quantity, f.UnitPrice)
	if err != nil {
		return err
	}
	f.Total = total
	if f.ClassID != nil && *f.ClassID == "" {
		f.ClassID = nil
	}
	return nil
}

func (r *Repository) CreateFinance(ctx context.Context, f *FinanceEntry) (*FinanceEntry, error) {
	if err := prepareFinance(f); err != nil {
		return nil, err
	}
	f.ID = uuid.New().String()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ci_financeiro (`+financeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, f.ID, f.Type, f.Description, f.Category, f.ClassID, f.Quantity, f.UnitPrice,
		f.Total, f.PaymentMethod, f.Date, f.Notes)
	if err != nil {
		return nil, mapError("create finance", EntityFinance, f.ID, err)
	}
	return f, nil
}

func (r *Repository) UpdateFinance(ctx context.Context, f *FinanceEntry) (*FinanceEntry, error) {
	if err := prepareFinance(f); err != nil {
		return nil, err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE ci_financeiro
		SET tipo = $1, descricao = $2, categoria = $3, id_turma = $4, quantidade = $5,
		    valor_unitario = $6, valor_total = $7, forma_pagamento = $8, data_lancamento = $9,
		    observacoes = $10
		WHERE id = $11
	`, f.Type, f.Description, f.Category, f.ClassID, f.Quantity, f.UnitPrice, f.Total,
		f.PaymentMethod, f.Date, f.Notes, f.ID)
	if err != nil {
		return nil, mapError("update finance", EntityFinance, f.ID, err)
	}
	if err := affectedOne(res, EntityFinance, f.ID); err != nil {
		return nil, err
	}
	return f, nil
}

// UpdateFinanceField sets one allow-listed column. Editing quantidade or
// valor_unitario rewrites valor_total from the other stored factor, with the
// row locked for the read-modify-write.
func (r *Repository) UpdateFinanceField(ctx context.Context, id, field string, value interface{}) (*FinanceEntry, error) {
	column, v, err := ColumnValue(EntityFinance, field, value)
	if err != nil {
		return nil, err
	}

	var entry *FinanceEntry
	err = r.WithTx(ctx, func(tx *sql.Tx) error {
		current, err := getFinance(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if _, err := updateColumn(ctx, tx, "ci_financeiro", "id", column, v, id); err != nil {
			return mapError("update finance field", EntityFinance, id, err)
		}
		if AffectsTotal(field) {
			total, err := RecomputeTotal(field, v.(string), current.Quantity, current.UnitPrice)
			if err != nil {
				return err
			}
			if _, err := updateColumn(ctx, tx, "ci_financeiro", "id", "valor_total", total, id); err != nil {
				return mapError("update finance total", EntityFinance, id, err)
			}
		}
		entry, err = getFinance(ctx, tx, id, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *Repository) DeleteFinance(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ci_financeiro WHERE id = $1`, id)
	if err != nil {
		return mapError("delete finance", EntityFinance, id, err)
	}
	return affectedOne(res, EntityFinance, id)
}

// FinanceSummary totals every entry whose data_lancamento falls in [from, to].
// Either bound may be nil.
func (r *Repository) FinanceSummary(ctx context.Context, from, to *time.Time) (*FinanceSummary, error) {
	entries, err := r.listFinance(ctx, "")
	if err != nil {
		return nil, err
	}
	summary := Summarize(entries, from, to)
	return &summary, nil
}

// Summarize aggregates finance entries in application code, since dates and
// amounts are stored as text. Rows whose date or total cannot be parsed are
// counted in Skipped and left out of the totals.
func Summarize(entries []*FinanceEntry, from, to *time.Time) FinanceSummary {
	s := FinanceSummary{ByCategory: []CategoryTotal{}}
	byKey := map[[2]string]*CategoryTotal{}

	for _, e := range entries {
		d, err := util.ParseDate(e.Date)
		if err != nil {
			s.Skipped++
			continue
		}
		if from != nil && d.Before(*from) {
			continue
		}
		if to != nil && d.After(*to) {
			continue
		}
		total, err := util.ParseAmount(e.Total)
		if err != nil {
			s.Skipped++
			continue
		}

		s.EntryCount++
		switch e.Type {
		case FinanceIn:
			s.TotalIn += total
		case FinanceOut:
			s.TotalOut += total
		}

		category := "Sem categoria"
		if e.Category != nil && *e.Category != "" {
			category = *e.Category
		}
		key := [2]string{category, e.Type}
		ct, ok := byKey[key]
		if !ok {
			ct = &CategoryTotal{Category: category, Type: e.Type}
			byKey[key] = ct
		}
		ct.Total += total
		ct.Count++
	}

	for _, ct := range byKey {
		ct.Total = roundCents(ct.Total)
		s.ByCategory = append(s.ByCategory, *ct)
	}
	sort.Slice(s.ByCategory, func(i, j int) bool {
		a, b := s.ByCategory[i], s.ByCategory[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Category < b.Category
	})

	s.TotalIn = roundCents(s.TotalIn)
	s.TotalOut = roundCents(s.TotalOut)
	s.Balance = roundCents(s.TotalIn - s.TotalOut)
	return s
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
