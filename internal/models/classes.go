package models

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"plantao-ops/internal/util"
)

const classColumns = `id, nome, descricao, capacidade, dias_semana, horario, instrutor,
	valor, data_inicio, data_fim, status, data_cadastro`

func scanClass(row interface{ Scan(...interface{}) error }) (*Class, error) {
	c := &Class{}
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Capacity, &c.WeekDays, &c.Schedule,
		&c.Instructor, &c.Value, &c.StartDate, &c.EndDate, &c.Status, &c.RegisteredAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *Repository) ListClasses(ctx context.Context, statusFilter string) ([]*Class, error) {
	query := `SELECT ` + classColumns + ` FROM ci_turmas_tratamentos`
	args := []interface{}{}
	if statusFilter != "" {
		query += ` WHERE status = $1`
		args = append(args, statusFilter)
	}
	query += ` ORDER BY nome`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("list classes", EntityClass, "", err)
	}
	defer rows.Close()

	classes := []*Class{}
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, mapError("scan class", EntityClass, "", err)
		}
		classes = append(classes, c)
	}
	return classes, mapError("iterate classes", EntityClass, "", rows.Err())
}

func (r *Repository) GetClass(ctx context.Context, id string) (*Class, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+classColumns+` FROM ci_turmas_tratamentos WHERE id = $1`, id)
	c, err := scanClass(row)
	if err != nil {
		return nil, mapError("get class", EntityClass, id, err)
	}
	return c, nil
}

func prepareClass(c *Class) error {
	if err := required("nome", c.Name); err != nil {
		return err
	}
	if c.Status == "" {
		c.Status = ClassOpen
	}
	if err := ValidateClassStatus(c.Status); err != nil {
		return err
	}
	if c.Capacity < 0 {
		return &ValidationError{Field: "capacidade", Message: "capacidade deve ser um inteiro não negativo"}
	}
	if c.Value != nil && *c.Value != "" {
		v, err := util.ParseAmount(*c.Value)
		if err != nil {
			return &ValidationError{Field: "valor", Message: err.Error()}
		}
		formatted := util.FormatAmount(v)
		c.Value = &formatted
	}
	if err := normalizeOptionalDate("data_inicio", &c.StartDate); err != nil {
		return err
	}
	return normalizeOptionalDate("data_fim", &c.EndDate)
}

func (r *Repository) CreateClass(ctx context.Context, c *Class) (*Class, error) {
	if err := prepareClass(c); err != nil {
		return nil, err
	}
	c.ID = uuid.New().String()
	c.RegisteredAt = util.TodayBR(r.now())

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ci_turmas_tratamentos (`+classColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, c.ID, c.Name, c.Description, c.Capacity, c.WeekDays, c.Schedule, c.Instructor,
		c.Value, c.StartDate, c.EndDate, c.Status, c.RegisteredAt)
	if err != nil {
		return nil, mapError("create class", EntityClass, c.ID, err)
	}
	return c, nil
}

func (r *Repository) UpdateClass(ctx context.Context, c *Class) (*Class, error) {
	if err := prepareClass(c); err != nil {
		return nil, err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE ci_turmas_tratamentos
		SET nome = $1, descricao = $2, capacidade = $3, dias_semana = $4, horario = $5,
		    instrutor = $6, valor = $7, data_inicio = $8, data_fim = $9, status = $10
		WHERE id = $11
	`, c.Name, c.Description, c.Capacity, c.WeekDays, c.Schedule, c.Instructor,
		c.Value, c.StartDate, c.EndDate, c.Status, c.ID)
	if err != nil {
		return nil, mapError("update class", EntityClass, c.ID, err)
	}
	if err := affectedOne(res, EntityClass, c.ID); err != nil {
		return nil, err
	}
	return r.GetClass(ctx, c.ID)
}

func (r *Repository) UpdateClassField(ctx context.Context, id, field string, value interface{}) (*Class, error) {
	column, v, err := ColumnValue(EntityClass, field, value)
	if err != nil {
		return nil, err
	}
	res, err := updateColumn(ctx, r.db, "ci_turmas_tratamentos", "id", column, v, id)
	if err != nil {
		return nil, mapError("update class field", EntityClass, id, err)
	}
	if err := affectedOne(res, EntityClass, id); err != nil {
		return nil, err
	}
	return r.GetClass(ctx, id)
}

func (r *Repository) DeleteClass(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ci_turmas_tratamentos WHERE id = $1`, id)
	if err != nil {
		return mapError("delete class", EntityClass, id, err)
	}
	return affectedOne(res, EntityClass, id)
}

// ClassStudents lists the students enrolled in classID with their enrollment status.
func (r *Repository) ClassStudents(ctx context.Context, classID string) ([]*ClassStudent, error) {
	if _, err := r.GetClass(ctx, classID); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s, m.id, m.status
		FROM ci_aluno_turma m
		JOIN ci_alunos_pacientes a ON a.id = m.id_aluno
		WHERE m.id_turma = $1
		ORDER BY a.nome
	`, prefixed("a", studentColumns)), classID)
	if err != nil {
		return nil, mapError("list class students", EntityClass, classID, err)
	}
	defer rows.Close()

	out := []*ClassStudent{}
	for rows.Next() {
		cs := &ClassStudent{}
		s := &cs.Student
		err := rows.Scan(&s.ID, &s.Name, &s.CPF, &s.Phone, &s.Email, &s.BirthDate, &s.Address,
			&s.Status, &s.FinancialStatus, &s.Notes, &s.RegisteredAt, &cs.EnrollmentID, &cs.EnrollmentStatus)
		if err != nil {
			return nil, mapError("scan class student", EntityClass, classID, err)
		}
		out = append(out, cs)
	}
	return out, mapError("iterate class students", EntityClass, classID, rows.Err())
}

// ClassFinance lists the finance entries tied to classID.
func (r *Repository) ClassFinance(ctx context.Context, classID string) ([]*FinanceEntry, error) {
	if _, err := r.GetClass(ctx, classID); err != nil {
		return nil, err
	}
	return r.listFinance(ctx, `WHERE id_turma = $1`, classID)
}
