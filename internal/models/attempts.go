package models

import (
	"context"
	"database/sql"
	"fmt"

	"plantao-ops/internal/util"
)

const entityAttempt = "tentativa"

const attemptColumns = `id_aluno, nome, telefone, data_tentativa, data_desejada, data_conseguida`

func scanAttempt(row interface{ Scan(...interface{}) error }) (*Attempt, error) {
	a := &Attempt{}
	if err := row.Scan(&a.StudentID, &a.Name, &a.Phone, &a.AttemptDate, &a.DesiredDate, &a.AchievedDate); err != nil {
		return nil, err
	}
	return a, nil
}

// ListAttempts returns every attempt, or only studentID's when it is set.
func (r *Repository) ListAttempts(ctx context.Context, studentID string) ([]*Attempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM lovable.pf_tentativas`
	args := []interface{}{}
	if studentID != "" {
		query += ` WHERE id_aluno = $1`
		args = append(args, studentID)
	}
	query += ` ORDER BY data_tentativa, nome`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("list attempts", entityAttempt, "", err)
	}
	defer rows.Close()

	attempts := []*Attempt{}
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, mapError("scan attempt", entityAttempt, "", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, mapError("iterate attempts", entityAttempt, "", rows.Err())
}

// CountAttempts is the live count, independent of qtd_tentativas.
func (r *Repository) CountAttempts(ctx context.Context, studentID string) (int, error) {
	if err := required("id_aluno", studentID); err != nil {
		return 0, err
	}
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lovable.pf_tentativas WHERE id_aluno = $1`, studentID).Scan(&n)
	if err != nil {
		return 0, mapError("count attempts", entityAttempt, studentID, err)
	}
	return n, nil
}

// CreateAttempt logs a booking that could not be made. data_tentativa is
// today on the clinic calendar.
func (r *Repository) CreateAttempt(ctx context.Context, studentID, desiredDate string, achievedDate *string) (*Attempt, error) {
	if err := required("id_aluno", studentID); err != nil {
		return nil, err
	}
	if err := required("data_desejada", desiredDate); err != nil {
		return nil, err
	}
	desired, err := util.NormalizeDate(desiredDate)
	if err != nil {
		return nil, &ValidationError{Field: "data_desejada", Message: err.Error()}
	}
	if err := normalizeOptionalDate("data_conseguida", &achievedDate); err != nil {
		return nil, err
	}

	var attempt *Attempt
	err = r.WithTx(ctx, func(tx *sql.Tx) error {
		student, err := getShiftStudent(ctx, tx, studentID)
		if err != nil {
			return err
		}
		name := student.Name
		attempt = &Attempt{
			StudentID:    studentID,
			Name:         &name,
			Phone:        student.Phone,
			AttemptDate:  util.TodayBR(r.now()),
			DesiredDate:  desired,
			AchievedDate: achievedDate,
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO lovable.pf_tentativas (`+attemptColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, attempt.StudentID, attempt.Name, attempt.Phone, attempt.AttemptDate, attempt.DesiredDate, attempt.AchievedDate)
		if err != nil {
			return mapError("insert attempt", entityAttempt, attemptKey(studentID, attempt.AttemptDate, desired), err)
		}
		if err := incrementCounter(ctx, tx, "qtd_tentativas", studentID); err != nil {
			return mapError("increment attempt counter", entityShiftStudent, studentID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return attempt, nil
}

// DeleteAttempt removes one attempt and decrements qtd_tentativas, floored at zero.
func (r *Repository) DeleteAttempt(ctx context.Context, studentID, attemptDate, desiredDate string) error {
	attempted, err := util.NormalizeDate(attemptDate)
	if err != nil {
		return &ValidationError{Field: "data_tentativa", Message: err.Error()}
	}
	desired, err := util.NormalizeDate(desiredDate)
	if err != nil {
		return &ValidationError{Field: "data_desejada", Message: err.Error()}
	}
	key := attemptKey(studentID, attempted, desired)

	return r.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			DELETE FROM lovable.pf_tentativas
			WHERE id_aluno = $1 AND data_tentativa = $2 AND data_desejada = $3
		`, studentID, attempted, desired)
		if err != nil {
			return mapError("delete attempt", entityAttempt, key, err)
		}
		if err := affectedOne(res, entityAttempt, key); err != nil {
			return err
		}
		if err := decrementCounter(ctx, tx, "qtd_tentativas", studentID); err != nil {
			return mapError("decrement attempt counter", entityShiftStudent, studentID, err)
		}
		return nil
	})
}

func attemptKey(studentID, attemptDate, desiredDate string) string {
	return fmt.Sprintf("%s %s→%s", studentID, attemptDate, desiredDate)
}
