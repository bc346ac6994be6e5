package models

import (
	"context"
	"database/sql"
	"fmt"

	"plantao-ops/internal/util"
)

const entityShift = "plantão"

const shiftColumns = `id_aluno, data_plantao, nome, telefone, status, observacoes, data_criacao`

func scanShift(row interface{ Scan(...interface{}) error }) (*Shift, error) {
	s := &Shift{}
	if err := row.Scan(&s.StudentID, &s.Date, &s.Name, &s.Phone, &s.Status, &s.Notes, &s.CreatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

// ShiftFilter narrows ListShifts. Empty fields are ignored.
type ShiftFilter struct {
	Date      string
	StudentID string
	Status    string
}

func (r *Repository) ListShifts(ctx context.Context, f ShiftFilter) ([]*Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM lovable.pf_plantoes WHERE 1=1`
	args := []interface{}{}
	argIndex := 1

	if f.Date != "" {
		d, err := util.NormalizeDate(f.Date)
		if err != nil {
			return nil, &ValidationError{Field: "date", Message: err.Error()}
		}
		query += fmt.Sprintf(" AND data_plantao = $%d", argIndex)
		args = append(args, d)
		argIndex++
	}
	if f.StudentID != "" {
		query += fmt.Sprintf(" AND id_aluno = $%d", argIndex)
		args = append(args, f.StudentID)
		argIndex++
	}
	if f.Status != "" {
		if err := ValidateShiftStatus(f.Status); err != nil {
			return nil, err
		}
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, f.Status)
	}
	query += " ORDER BY data_plantao, nome"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("list shifts", entityShift, "", err)
	}
	defer rows.Close()

	shifts := []*Shift{}
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, mapError("scan shift", entityShift, "", err)
		}
		shifts = append(shifts, s)
	}
	return shifts, mapError("iterate shifts", entityShift, "", rows.Err())
}

func (r *Repository) GetShift(ctx context.Context, studentID, date string) (*Shift, error) {
	d, err := util.NormalizeDate(date)
	if err != nil {
		return nil, &ValidationError{Field: "data_plantao", Message: err.Error()}
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+shiftColumns+` FROM lovable.pf_plantoes WHERE id_aluno = $1 AND data_plantao = $2`, studentID, d)
	s, err := scanShift(row)
	if err != nil {
		return nil, mapError("get shift", entityShift, shiftKey(studentID, d), err)
	}
	return s, nil
}

// CreateShift books studentID on date. The per-date advisory lock serializes
// the capacity count with the insert, and the counter increment commits with
// the row.
func (r *Repository) CreateShift(ctx context.Context, studentID, date string, notes *string) (*Shift, error) {
	if err := required("id_aluno", studentID); err != nil {
		return nil, err
	}
	if err := required("data_plantao", date); err != nil {
		return nil, err
	}
	d, err := util.NormalizeDate(date)
	if err != nil {
		return nil, &ValidationError{Field: "data_plantao", Message: err.Error()}
	}

	var shift *Shift
	err = r.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext('pf_plantoes:' || $1))`, d); err != nil {
			return mapError("lock shift date", entityShift, d, err)
		}

		student, err := getShiftStudent(ctx, tx, studentID)
		if err != nil {
			return err
		}

		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM lovable.pf_plantoes WHERE data_plantao = $1`, d).Scan(&count); err != nil {
			return mapError("count shifts", entityShift, d, err)
		}
		if count >= MaxShiftsPerDay {
			return &CapacityExceededError{Date: d, Limit: MaxShiftsPerDay}
		}

		name := student.Name
		shift = &Shift{
			StudentID: studentID,
			Date:      d,
			Name:      &name,
			Phone:     student.Phone,
			Status:    ShiftOpen,
			Notes:     notes,
			CreatedAt: util.TodayBR(r.now()),
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO lovable.pf_plantoes (`+shiftColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, shift.StudentID, shift.Date, shift.Name, shift.Phone, shift.Status, shift.Notes, shift.CreatedAt)
		if err != nil {
			return mapError("insert shift", entityShift, shiftKey(studentID, d), err)
		}

		if err := incrementCounter(ctx, tx, "qtd_plantoes", studentID); err != nil {
			return mapError("increment shift counter", entityShiftStudent, studentID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return shift, nil
}

// ShiftUpdate carries the optional fields of a manual shift edit.
type ShiftUpdate struct {
	Status *string
	Notes  *string
}

// UpdateShift applies a manual edit. Status changes go through ValidateShiftTransition.
func (r *Repository) UpdateShift(ctx context.Context, studentID, date string, u ShiftUpdate) (*Shift, error) {
	d, err := util.NormalizeDate(date)
	if err != nil {
		return nil, &ValidationError{Field: "data_plantao", Message: err.Error()}
	}
	key := shiftKey(studentID, d)

	var shift *Shift
	err = r.WithTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+shiftColumns+` FROM lovable.pf_plantoes WHERE id_aluno = $1 AND data_plantao = $2 FOR UPDATE`, studentID, d)
		current, err := scanShift(row)
		if err != nil {
			return mapError("get shift", entityShift, key, err)
		}

		if u.Status != nil {
			if err := ValidateShiftTransition(current.Status, *u.Status); err != nil {
				return err
			}
			current.Status = *u.Status
		}
		if u.Notes != nil {
			current.Notes = u.Notes
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE lovable.pf_plantoes SET status = $1, observacoes = $2
			WHERE id_aluno = $3 AND data_plantao = $4
		`, current.Status, current.Notes, studentID, d)
		if err != nil {
			return mapError("update shift", entityShift, key, err)
		}
		shift = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return shift, nil
}

// DeleteShift removes the booking and decrements qtd_plantoes, floored at zero.
func (r *Repository) DeleteShift(ctx context.Context, studentID, date string) error {
	d, err := util.NormalizeDate(date)
	if err != nil {
		return &ValidationError{Field: "data_plantao", Message: err.Error()}
	}
	key := shiftKey(studentID, d)

	return r.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM lovable.pf_plantoes WHERE id_aluno = $1 AND data_plantao = $2`, studentID, d)
		if err != nil {
			return mapError("delete shift", entityShift, key, err)
		}
		if err := affectedOne(res, entityShift, key); err != nil {
			return err
		}
		if err := decrementCounter(ctx, tx, "qtd_plantoes", studentID); err != nil {
			return mapError("decrement shift counter", entityShiftStudent, studentID, err)
		}
		return nil
	})
}

// CountShiftsOn returns how many shifts exist for date, any status.
func (r *Repository) CountShiftsOn(ctx context.Context, date string) (int, error) {
	d, err := util.NormalizeDate(date)
	if err != nil {
		return 0, &ValidationError{Field: "data_plantao", Message: err.Error()}
	}
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lovable.pf_plantoes WHERE data_plantao = $1`, d).Scan(&n); err != nil {
		return 0, mapError("count shifts", entityShift, d, err)
	}
	return n, nil
}

func shiftKey(studentID, date string) string {
	return studentID + " " + date
}
