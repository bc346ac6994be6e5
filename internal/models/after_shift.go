package models

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"plantao-ops/internal/util"
)

const entityAfterShift = "formulário pós-plantão"

// Units are the uti values a post-shift form may carry.
var Units = []string{"1", "2", "3", "4", "5", "PA"}

var afterShiftColumns = `id_aluno, data_plantao, comparecimento, uti, ` +
	strings.Join(ProcedureColumns, ", ") + `, observacoes, data_criacao`

func scanAfterShift(row interface{ Scan(...interface{}) error }) (*AfterShiftForm, error) {
	f := &AfterShiftForm{}
	targets := []interface{}{&f.StudentID, &f.Date, &f.Attended, &f.Unit}
	targets = append(targets, f.ProcedureFlags.scanTargets()...)
	targets = append(targets, &f.Notes, &f.CreatedAt)
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	return f, nil
}

func validateUnit(unit *string) error {
	if unit == nil || *unit == "" {
		return nil
	}
	return oneOf("uti", *unit, Units)
}

func (r *Repository) ListAfterShift(ctx context.Context) ([]*AfterShiftForm, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+afterShiftColumns+` FROM lovable.pf_after ORDER BY data_plantao, id_aluno`)
	if err != nil {
		return nil, mapError("list after-shift forms", entityAfterShift, "", err)
	}
	defer rows.Close()

	forms := []*AfterShiftForm{}
	for rows.Next() {
		f, err := scanAfterShift(rows)
		if err != nil {
			return nil, mapError("scan after-shift form", entityAfterShift, "", err)
		}
		forms = append(forms, f)
	}
	return forms, mapError("iterate after-shift forms", entityAfterShift, "", rows.Err())
}

func (r *Repository) GetAfterShift(ctx context.Context, studentID, date string) (*AfterShiftForm, error) {
	d, err := util.NormalizeDate(date)
	if err != nil {
		return nil, &ValidationError{Field: "data_plantao", Message: err.Error()}
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+afterShiftColumns+` FROM lovable.pf_after WHERE id_aluno = $1 AND data_plantao = $2`, studentID, d)
	f, err := scanAfterShift(row)
	if err != nil {
		return nil, mapError("get after-shift form", entityAfterShift, shiftKey(studentID, d), err)
	}
	return f, nil
}

// RecordAfterShift stores the form and sets the parent shift to Realizado or
// Cancelado from the attendance flag, whatever its current status.
func (r *Repository) RecordAfterShift(ctx context.Context, f *AfterShiftForm) (*AfterShiftForm, error) {
	if err := required("id_aluno", f.StudentID); err != nil {
		return nil, err
	}
	if err := required("data_plantao", f.Date); err != nil {
		return nil, err
	}
	d, err := util.NormalizeDate(f.Date)
	if err != nil {
		return nil, &ValidationError{Field: "data_plantao", Message: err.Error()}
	}
	if err := validateUnit(f.Unit); err != nil {
		return nil, err
	}
	f.Date = d
	f.CreatedAt = util.TodayBR(r.now())

	placeholders := make([]string, 0, len(ProcedureColumns)+6)
	for i := 1; i <= len(ProcedureColumns)+6; i++ {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i))
	}
	args := []interface{}{f.StudentID, f.Date, f.Attended, f.Unit}
	for _, v := range f.Values() {
		args = append(args, v)
	}
	args = append(args, f.Notes, f.CreatedAt)

	err = r.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO lovable.pf_after (`+afterShiftColumns+`) VALUES (`+strings.Join(placeholders, ", ")+`)`, args...)
		if err != nil {
			return mapError("insert after-shift form", entityAfterShift, shiftKey(f.StudentID, d), err)
		}
		return writeShiftStatus(ctx, tx, f.StudentID, d, StatusForAttendance(f.Attended))
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// UpdateAfterShift replaces the form contents and writes the parent shift
// status again from the attendance flag.
func (r *Repository) UpdateAfterShift(ctx context.Context, f *AfterShiftForm) (*AfterShiftForm, error) {
	d, err := util.NormalizeDate(f.Date)
	if err != nil {
		return nil, &ValidationError{Field: "data_plantao", Message: err.Error()}
	}
	if err := validateUnit(f.Unit); err != nil {
		return nil, err
	}
	f.Date = d
	key := shiftKey(f.StudentID, d)

	sets := []string{"comparecimento = $1", "uti = $2"}
	args := []interface{}{f.Attended, f.Unit}
	for i, col := range ProcedureColumns {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+3))
	}
	for _, v := range f.Values() {
		args = append(args, v)
	}
	n := len(args)
	sets = append(sets, fmt.Sprintf("observacoes = $%d", n+1))
	args = append(args, f.Notes, f.StudentID, d)
	query := fmt.Sprintf(`UPDATE lovable.pf_after SET %s WHERE id_aluno = $%d AND data_plantao = $%d`,
		strings.Join(sets, ", "), n+2, n+3)

	err = r.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return mapError("update after-shift form", entityAfterShift, key, err)
		}
		if err := affectedOne(res, entityAfterShift, key); err != nil {
			return err
		}
		return writeShiftStatus(ctx, tx, f.StudentID, d, StatusForAttendance(f.Attended))
	})
	if err != nil {
		return nil, err
	}
	return r.GetAfterShift(ctx, f.StudentID, d)
}

// DeleteAfterShift removes the form and puts the parent shift back to Em Aberto.
func (r *Repository) DeleteAfterShift(ctx context.Context, studentID, date string) error {
	d, err := util.NormalizeDate(date)
	if err != nil {
		return &ValidationError{Field: "data_plantao", Message: err.Error()}
	}
	key := shiftKey(studentID, d)

	return r.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM lovable.pf_after WHERE id_aluno = $1 AND data_plantao = $2`, studentID, d)
		if err != nil {
			return mapError("delete after-shift form", entityAfterShift, key, err)
		}
		if err := affectedOne(res, entityAfterShift, key); err != nil {
			return err
		}
		return writeShiftStatus(ctx, tx, studentID, d, ShiftOpen)
	})
}

// writeShiftStatus requires the parent shift to exist.
func writeShiftStatus(ctx context.Context, q querier, studentID, date, status string) error {
	key := shiftKey(studentID, date)
	res, err := q.ExecContext(ctx, `UPDATE lovable.pf_plantoes SET status = $1 WHERE id_aluno = $2 AND data_plantao = $3`, status, studentID, date)
	if err != nil {
		return mapError("write shift status", entityShift, key, err)
	}
	return affectedOne(res, entityShift, key)
}
