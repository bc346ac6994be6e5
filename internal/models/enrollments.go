package models

import (
	"context"

	"github.com/google/uuid"

	"plantao-ops/internal/util"
)

const entityEnrollment = "matrícula"

const enrollmentDetailQuery = `
	SELECT m.id, m.id_aluno, m.id_turma, m.status, m.data_inscricao, m.observacoes,
	       COALESCE(a.nome, ''), COALESCE(t.nome, '')
	FROM ci_aluno_turma m
	LEFT JOIN ci_alunos_pacientes a ON a.id = m.id_aluno
	LEFT JOIN ci_turmas_tratamentos t ON t.id = m.id_turma
`

func scanEnrollmentDetail(row interface{ Scan(...interface{}) error }) (*EnrollmentDetail, error) {
	e := &EnrollmentDetail{}
	err := row.Scan(&e.ID, &e.StudentID, &e.ClassID, &e.Status, &e.EnrolledAt, &e.Notes,
		&e.StudentName, &e.ClassName)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *Repository) queryEnrollments(ctx context.Context, where string, args ...interface{}) ([]*EnrollmentDetail, error) {
	rows, err := r.db.QueryContext(ctx, enrollmentDetailQuery+where+` ORDER BY a.nome, t.nome`, args...)
	if err != nil {
		return nil, mapError("list enrollments", entityEnrollment, "", err)
	}
	defer rows.Close()

	out := []*EnrollmentDetail{}
	for rows.Next() {
		e, err := scanEnrollmentDetail(rows)
		if err != nil {
			return nil, mapError("scan enrollment", entityEnrollment, "", err)
		}
		out = append(out, e)
	}
	return out, mapError("iterate enrollments", entityEnrollment, "", rows.Err())
}

func (r *Repository) ListEnrollments(ctx context.Context) ([]*EnrollmentDetail, error) {
	return r.queryEnrollments(ctx, "")
}

func (r *Repository) EnrollmentsByStudent(ctx context.Context, studentID string) ([]*EnrollmentDetail, error) {
	return r.queryEnrollments(ctx, `WHERE m.id_aluno = $1`, studentID)
}

func (r *Repository) EnrollmentsByClass(ctx context.Context, classID string) ([]*EnrollmentDetail, error) {
	return r.queryEnrollments(ctx, `WHERE m.id_turma = $1`, classID)
}

func (r *Repository) GetEnrollment(ctx context.Context, id string) (*EnrollmentDetail, error) {
	e, err := scanEnrollmentDetail(r.db.QueryRowContext(ctx, enrollmentDetailQuery+`WHERE m.id = $1`, id))
	if err != nil {
		return nil, mapError("get enrollment", entityEnrollment, id, err)
	}
	return e, nil
}

// CreateEnrollment links a student to a class. A second enrollment of the same
// pair is a DuplicateError.
func (r *Repository) CreateEnrollment(ctx context.Context, e *Enrollment) (*EnrollmentDetail, error) {
	if err := required("id_aluno", e.StudentID); err != nil {
		return nil, err
	}
	if err := required("id_turma", e.ClassID); err != nil {
		return nil, err
	}
	if e.Status == "" {
		e.Status = EnrollmentEnrolled
	}
	if err := ValidateEnrollmentStatus(e.Status); err != nil {
		return nil, err
	}
	if _, err := r.GetStudent(ctx, e.StudentID); err != nil {
		return nil, err
	}
	if _, err := r.GetClass(ctx, e.ClassID); err != nil {
		return nil, err
	}
	e.ID = uuid.New().String()
	e.EnrolledAt = util.TodayBR(r.now())

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ci_aluno_turma (id, id_aluno, id_turma, status, data_inscricao, observacoes)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, e.ID, e.StudentID, e.ClassID, e.Status, e.EnrolledAt, e.Notes)
	if err != nil {
		return nil, mapError("create enrollment", entityEnrollment, e.ID, err)
	}
	return r.GetEnrollment(ctx, e.ID)
}

// UpdateEnrollment changes status and notes. The student/class pair is fixed.
func (r *Repository) UpdateEnrollment(ctx context.Context, id, status string, notes *string) (*EnrollmentDetail, error) {
	if err := ValidateEnrollmentStatus(status); err != nil {
		return nil, err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE ci_aluno_turma SET status = $1, observacoes = $2 WHERE id = $3`, status, notes, id)
	if err != nil {
		return nil, mapError("update enrollment", entityEnrollment, id, err)
	}
	if err := affectedOne(res, entityEnrollment, id); err != nil {
		return nil, err
	}
	return r.GetEnrollment(ctx, id)
}

func (r *Repository) DeleteEnrollment(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ci_aluno_turma WHERE id = $1`, id)
	if err != nil {
		return mapError("delete enrollment", entityEnrollment, id, err)
	}
	return affectedOne(res, entityEnrollment, id)
}
