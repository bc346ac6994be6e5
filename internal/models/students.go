package models

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"plantao-ops/internal/util"
)

const studentColumns = `id, nome, cpf, telefone, email, data_nascimento, endereco,
	status, status_financeiro, observacoes, data_cadastro`

func scanStudent(row interface{ Scan(...interface{}) error }) (*Student, error) {
	s := &Student{}
	err := row.Scan(&s.ID, &s.Name, &s.CPF, &s.Phone, &s.Email, &s.BirthDate, &s.Address,
		&s.Status, &s.FinancialStatus, &s.Notes, &s.RegisteredAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListStudents returns registrations, optionally filtered by status and by a
// name/CPF/phone search.
func (r *Repository) ListStudents(ctx context.Context, statusFilter, search string) ([]*Student, error) {
	query := `SELECT ` + studentColumns + ` FROM ci_alunos_pacientes WHERE 1=1`
	args := []interface{}{}
	argIndex := 1

	if statusFilter != "" {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, statusFilter)
		argIndex++
	}
	if search != "" {
		query += fmt.Sprintf(" AND (LOWER(nome) LIKE LOWER($%d) OR cpf LIKE $%d OR telefone LIKE $%d)", argIndex, argIndex, argIndex)
		args = append(args, "%"+search+"%")
	}
	query += " ORDER BY nome"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("list students", "aluno", "", err)
	}
	defer rows.Close()

	students := []*Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, mapError("scan student", "aluno", "", err)
		}
		students = append(students, s)
	}
	return students, mapError("iterate students", "aluno", "", rows.Err())
}

func (r *Repository) GetStudent(ctx context.Context, id string) (*Student, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+studentColumns+` FROM ci_alunos_pacientes WHERE id = $1`, id)
	s, err := scanStudent(row)
	if err != nil {
		return nil, mapError("get student", "aluno", id, err)
	}
	return s, nil
}

func (r *Repository) CreateStudent(ctx context.Context, s *Student) (*Student, error) {
	if err := required("nome", s.Name); err != nil {
		return nil, err
	}
	if s.Status == "" {
		s.Status = StudentOnboarding
	}
	if err := ValidateStudentStatus(s.Status); err != nil {
		return nil, err
	}
	if err := normalizeOptionalDate("data_nascimento", &s.BirthDate); err != nil {
		return nil, err
	}
	s.ID = uuid.New().String()
	s.RegisteredAt = util.TodayBR(r.now())

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ci_alunos_pacientes (`+studentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, s.ID, s.Name, s.CPF, s.Phone, s.Email, s.BirthDate, s.Address,
		s.Status, s.FinancialStatus, s.Notes, s.RegisteredAt)
	if err != nil {
		return nil, mapError("create student", "aluno", s.ID, err)
	}
	return s, nil
}

// UpdateStudent replaces every editable column of the registration.
func (r *Repository) UpdateStudent(ctx context.Context, s *Student) (*Student, error) {
	if err := required("nome", s.Name); err != nil {
		return nil, err
	}
	if err := ValidateStudentStatus(s.Status); err != nil {
		return nil, err
	}
	if err := normalizeOptionalDate("data_nascimento", &s.BirthDate); err != nil {
		return nil, err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE ci_alunos_pacientes
		SET nome = $1, cpf = $2, telefone = $3, email = $4, data_nascimento = $5,
		    endereco = $6, status = $7, status_financeiro = $8, observacoes = $9
		WHERE id = $10
	`, s.Name, s.CPF, s.Phone, s.Email, s.BirthDate, s.Address,
		s.Status, s.FinancialStatus, s.Notes, s.ID)
	if err != nil {
		return nil, mapError("update student", "aluno", s.ID, err)
	}
	if err := affectedOne(res, "aluno", s.ID); err != nil {
		return nil, err
	}
	return r.GetStudent(ctx, s.ID)
}

// UpdateStudentField sets one allow-listed column.
func (r *Repository) UpdateStudentField(ctx context.Context, id, field string, value interface{}) (*Student, error) {
	column, v, err := ColumnValue(EntityStudent, field, value)
	if err != nil {
		return nil, err
	}
	res, err := updateColumn(ctx, r.db, "ci_alunos_pacientes", "id", column, v, id)
	if err != nil {
		return nil, mapError("update student field", "aluno", id, err)
	}
	if err := affectedOne(res, "aluno", id); err != nil {
		return nil, err
	}
	return r.GetStudent(ctx, id)
}

func (r *Repository) DeleteStudent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ci_alunos_pacientes WHERE id = $1`, id)
	if err != nil {
		return mapError("delete student", "aluno", id, err)
	}
	return affectedOne(res, "aluno", id)
}

func normalizeOptionalDate(field string, value **string) error {
	if *value == nil || **value == "" {
		*value = nil
		return nil
	}
	d, err := util.NormalizeDate(**value)
	if err != nil {
		return &ValidationError{Field: field, Message: err.Error()}
	}
	*value = &d
	return nil
}
