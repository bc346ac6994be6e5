package models

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"plantao-ops/internal/util"
)

const entityShiftStudent = "aluno de plantão"

const shiftStudentColumns = `id_aluno, nome, telefone, email, status,
	COALESCE(qtd_plantoes, 0), COALESCE(qtd_tentativas, 0), data_cadastro`

func scanShiftStudent(row interface{ Scan(...interface{}) error }) (*ShiftStudent, error) {
	s := &ShiftStudent{}
	err := row.Scan(&s.ID, &s.Name, &s.Phone, &s.Email, &s.Status,
		&s.ShiftCount, &s.AttemptCount, &s.RegisteredAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *Repository) ListShiftStudents(ctx context.Context) ([]*ShiftStudent, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+shiftStudentColumns+` FROM lovable.pf_alunos ORDER BY nome`)
	if err != nil {
		return nil, mapError("list shift students", entityShiftStudent, "", err)
	}
	defer rows.Close()

	students := []*ShiftStudent{}
	for rows.Next() {
		s, err := scanShiftStudent(rows)
		if err != nil {
			return nil, mapError("scan shift student", entityShiftStudent, "", err)
		}
		students = append(students, s)
	}
	return students, mapError("iterate shift students", entityShiftStudent, "", rows.Err())
}

func (r *Repository) GetShiftStudent(ctx context.Context, id string) (*ShiftStudent, error) {
	return getShiftStudent(ctx, r.db, id)
}

func getShiftStudent(ctx context.Context, q querier, id string) (*ShiftStudent, error) {
	row := q.QueryRowContext(ctx, `SELECT `+shiftStudentColumns+` FROM lovable.pf_alunos WHERE id_aluno = $1`, id)
	s, err := scanShiftStudent(row)
	if err != nil {
		return nil, mapError("get shift student", entityShiftStudent, id, err)
	}
	return s, nil
}

// CreateShiftStudent registers a student in the shift program. Counters start at zero.
func (r *Repository) CreateShiftStudent(ctx context.Context, s *ShiftStudent) (*ShiftStudent, error) {
	if err := required("nome", s.Name); err != nil {
		return nil, err
	}
	if s.Status == "" {
		s.Status = StudentActive
	}
	if err := ValidateStudentStatus(s.Status); err != nil {
		return nil, err
	}
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	s.ShiftCount = 0
	s.AttemptCount = 0
	s.RegisteredAt = util.TodayBR(r.now())

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO lovable.pf_alunos (id_aluno, nome, telefone, email, status, qtd_plantoes, qtd_tentativas, data_cadastro)
		VALUES ($1, $2, $3, $4, $5, 0, 0, $6)
	`, s.ID, s.Name, s.Phone, s.Email, s.Status, s.RegisteredAt)
	if err != nil {
		return nil, mapError("create shift student", entityShiftStudent, s.ID, err)
	}
	return s, nil
}

// ReconcileCounters compares the stored qtd_plantoes/qtd_tentativas with live
// counts. With apply set, drifting rows are rewritten in the same transaction.
func (r *Repository) ReconcileCounters(ctx context.Context, apply bool) ([]CounterDrift, error) {
	drifts := []CounterDrift{}
	err := r.WithTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT a.id_aluno, a.nome,
			       COALESCE(a.qtd_plantoes, 0),
			       (SELECT COUNT(*) FROM lovable.pf_plantoes p WHERE p.id_aluno = a.id_aluno),
			       COALESCE(a.qtd_tentativas, 0),
			       (SELECT COUNT(*) FROM lovable.pf_tentativas t WHERE t.id_aluno = a.id_aluno)
			FROM lovable.pf_alunos a
			ORDER BY a.nome
			FOR UPDATE OF a
		`)
		if err != nil {
			return mapError("count counters", entityShiftStudent, "", err)
		}
		defer rows.Close()

		for rows.Next() {
			var d CounterDrift
			if err := rows.Scan(&d.StudentID, &d.Name, &d.StoredShifts, &d.ActualShifts,
				&d.StoredAttempt, &d.ActualAttempt); err != nil {
				return mapError("scan counters", entityShiftStudent, "", err)
			}
			if d.StoredShifts != d.ActualShifts || d.StoredAttempt != d.ActualAttempt {
				drifts = append(drifts, d)
			}
		}
		if err := rows.Err(); err != nil {
			return mapError("iterate counters", entityShiftStudent, "", err)
		}
		rows.Close()

		if !apply {
			return nil
		}
		for _, d := range drifts {
			_, err := tx.ExecContext(ctx, `
				UPDATE lovable.pf_alunos SET qtd_plantoes = $1, qtd_tentativas = $2 WHERE id_aluno = $3
			`, d.ActualShifts, d.ActualAttempt, d.StudentID)
			if err != nil {
				return mapError("repair counters", entityShiftStudent, d.StudentID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return drifts, nil
}

func incrementCounter(ctx context.Context, q querier, column, studentID string) error {
	_, err := q.ExecContext(ctx, `UPDATE lovable.pf_alunos SET `+column+` = COALESCE(`+column+`, 0) + 1 WHERE id_aluno = $1`, studentID)
	return err
}

// decrementCounter never takes a counter below zero.
func decrementCounter(ctx context.Context, q querier, column, studentID string) error {
	_, err := q.ExecContext(ctx, `UPDATE lovable.pf_alunos SET `+column+` = GREATEST(0, COALESCE(`+column+`, 0) - 1) WHERE id_aluno = $1`, studentID)
	return err
}
