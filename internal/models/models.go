package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Student is a CRM registration row in ci_alunos_pacientes.
type Student struct {
	ID              string  `json:"id"`
	Name            string  `json:"nome"`
	CPF             *string `json:"cpf"`
	Phone           *string `json:"telefone"`
	Email           *string `json:"email"`
	BirthDate       *string `json:"data_nascimento"`
	Address         *string `json:"endereco"`
	Status          string  `json:"status"`
	FinancialStatus *string `json:"status_financeiro"`
	Notes           *string `json:"observacoes"`
	RegisteredAt    string  `json:"data_cadastro"`
}

// ShiftStudent is a lovable.pf_alunos row carrying the denormalized counters.
type ShiftStudent struct {
	ID           string  `json:"id_aluno"`
	Name         string  `json:"nome"`
	Phone        *string `json:"telefone"`
	Email        *string `json:"email"`
	Status       string  `json:"status"`
	ShiftCount   int     `json:"qtd_plantoes"`
	AttemptCount int     `json:"qtd_tentativas"`
	RegisteredAt string  `json:"data_cadastro"`
}

// Shift is one booking for one student on one date. Name and Phone are
// copied from the student when the row is created.
type Shift struct {
	StudentID string  `json:"id_aluno"`
	Date      string  `json:"data_plantao"`
	Name      *string `json:"nome"`
	Phone     *string `json:"telefone"`
	Status    string  `json:"status"`
	Notes     *string `json:"observacoes"`
	CreatedAt string  `json:"data_criacao"`
}

// Attempt records a booking that could not be made on the desired date.
type Attempt struct {
	StudentID    string  `json:"id_aluno"`
	Name         *string `json:"nome"`
	Phone        *string `json:"telefone"`
	AttemptDate  string  `json:"data_tentativa"`
	DesiredDate  string  `json:"data_desejada"`
	AchievedDate *string `json:"data_conseguida"`
}

// ProcedureFlags are the procedures checked off on a post-shift form.
type ProcedureFlags struct {
	PeripheralVenousAccess bool `json:"acesso_venoso_periferico"`
	CentralVenousAccess    bool `json:"acesso_venoso_central"`
	OrotrachealIntubation  bool `json:"intubacao_orotraqueal"`
	BladderCatheter        bool `json:"sondagem_vesical"`
	NasogastricTube        bool `json:"sondagem_nasogastrica"`
	ArterialBloodGas       bool `json:"gasometria_arterial"`
	LumbarPuncture         bool `json:"puncao_lombar"`
	Thoracentesis          bool `json:"toracocentese"`
	Paracentesis           bool `json:"paracentese"`
	ChestDrain             bool `json:"drenagem_toracica"`
	Suture                 bool `json:"sutura"`
	CPR                    bool `json:"rcp"`
	Cardioversion          bool `json:"cardioversao"`
	InvasiveBloodPressure  bool `json:"pressao_arterial_invasiva"`
	MechanicalVentilation  bool `json:"ventilacao_mecanica"`
	PatientAdmission       bool `json:"admissao_paciente"`
	ChartProgressNote      bool `json:"evolucao_prontuario"`
	MedicalPrescription    bool `json:"prescricao_medica"`
}

// ProcedureColumns lists the pf_after procedure columns in the order of Values.
var ProcedureColumns = []string{
	"acesso_venoso_periferico",
	"acesso_venoso_central",
	"intubacao_orotraqueal",
	"sondagem_vesical",
	"sondagem_nasogastrica",
	"gasometria_arterial",
	"puncao_lombar",
	"toracocentese",
	"paracentese",
	"drenagem_toracica",
	"sutura",
	"rcp",
	"cardioversao",
	"pressao_arterial_invasiva",
	"ventilacao_mecanica",
	"admissao_paciente",
	"evolucao_prontuario",
	"prescricao_medica",
}

// Values returns the flags in ProcedureColumns order.
func (p ProcedureFlags) Values() []bool {
	return []bool{
		p.PeripheralVenousAccess, p.CentralVenousAccess, p.OrotrachealIntubation,
		p.BladderCatheter, p.NasogastricTube, p.ArterialBloodGas, p.LumbarPuncture,
		p.Thoracentesis, p.Paracentesis, p.ChestDrain, p.Suture, p.CPR,
		p.Cardioversion, p.InvasiveBloodPressure, p.MechanicalVentilation,
		p.PatientAdmission, p.ChartProgressNote, p.MedicalPrescription,
	}
}

func (p *ProcedureFlags) scanTargets() []interface{} {
	return []interface{}{
		&p.PeripheralVenousAccess, &p.CentralVenousAccess, &p.OrotrachealIntubation,
		&p.BladderCatheter, &p.NasogastricTube, &p.ArterialBloodGas, &p.LumbarPuncture,
		&p.Thoracentesis, &p.Paracentesis, &p.ChestDrain, &p.Suture, &p.CPR,
		&p.Cardioversion, &p.InvasiveBloodPressure, &p.MechanicalVentilation,
		&p.PatientAdmission, &p.ChartProgressNote, &p.MedicalPrescription,
	}
}

// AfterShiftForm is the post-shift checklist for (student, date).
type AfterShiftForm struct {
	StudentID string  `json:"id_aluno"`
	Date      string  `json:"data_plantao"`
	Attended  bool    `json:"comparecimento"`
	Unit      *string `json:"uti"`
	ProcedureFlags
	Notes     *string `json:"observacoes"`
	CreatedAt string  `json:"data_criacao"`
}

// Class is a cohort in ci_turmas_tratamentos.
type Class struct {
	ID           string  `json:"id"`
	Name         string  `json:"nome"`
	Description  *string `json:"descricao"`
	Capacity     int     `json:"capacidade"`
	WeekDays     *string `json:"dias_semana"`
	Schedule     *string `json:"horario"`
	Instructor   *string `json:"instrutor"`
	Value        *string `json:"valor"`
	StartDate    *string `json:"data_inicio"`
	EndDate      *string `json:"data_fim"`
	Status       string  `json:"status"`
	RegisteredAt string  `json:"data_cadastro"`
}

type Enrollment struct {
	ID         string  `json:"id"`
	StudentID  string  `json:"id_aluno"`
	ClassID    string  `json:"id_turma"`
	Status     string  `json:"status"`
	EnrolledAt string  `json:"data_inscricao"`
	Notes      *string `json:"observacoes"`
}

// EnrollmentDetail is an enrollment joined with student and class names.
type EnrollmentDetail struct {
	Enrollment
	StudentName string `json:"nome_aluno"`
	ClassName   string `json:"nome_turma"`
}

// ClassStudent is a student listed under a class, with the enrollment status.
type ClassStudent struct {
	Student
	EnrollmentID     string `json:"id_matricula"`
	EnrollmentStatus string `json:"status_matricula"`
}

// FinanceEntry is an income or expense line. Amounts are stored as text.
type FinanceEntry struct {
	ID            string  `json:"id"`
	Type          string  `json:"tipo"`
	Description   string  `json:"descricao"`
	Category      *string `json:"categoria"`
	ClassID       *string `json:"id_turma"`
	Quantity      string  `json:"quantidade"`
	UnitPrice     string  `json:"valor_unitario"`
	Total         string  `json:"valor_total"`
	PaymentMethod *string `json:"forma_pagamento"`
	Date          string  `json:"data_lancamento"`
	Notes         *string `json:"observacoes"`
}

type CategoryTotal struct {
	Category string  `json:"categoria"`
	Type     string  `json:"tipo"`
	Total    float64 `json:"total"`
	Count    int     `json:"quantidade"`
}

type FinanceSummary struct {
	TotalIn    float64         `json:"total_entradas"`
	TotalOut   float64         `json:"total_saidas"`
	Balance    float64         `json:"saldo"`
	EntryCount int             `json:"total_lancamentos"`
	Skipped    int             `json:"lancamentos_invalidos"`
	ByCategory []CategoryTotal `json:"por_categoria"`
}

// Feedback is a post-shift survey row. Scores are free text in the table and
// are parsed by the analytics layer.
type Feedback struct {
	ID                    string  `json:"id"`
	StudentID             *string `json:"id_aluno"`
	Name                  *string `json:"nome"`
	ShiftDate             *string `json:"data_plantao"`
	AnsweredAt            *string `json:"data_resposta"`
	Unit                  *string `json:"uti"`
	Preceptor             *string `json:"preceptor"`
	OverallScore          *string `json:"nota_geral"`
	PreceptorScore        *string `json:"nota_preceptor"`
	OrganizationScore     *string `json:"nota_organizacao"`
	InfrastructureScore   *string `json:"nota_infraestrutura"`
	LearningScore         *string `json:"nota_aprendizado"`
	WelcomeScore          *string `json:"nota_acolhimento"`
	SupervisionScore      *string `json:"nota_supervisao"`
	NursingTeamScore      *string `json:"nota_equipe_enfermagem"`
	WorkloadScore         *string `json:"nota_carga_horaria"`
	SafetyScore           *string `json:"nota_seguranca"`
	SuppliesScore         *string `json:"nota_material"`
	RecommendationScore   *string `json:"nota_recomendacao"`
	UnitStructureScore    *string `json:"nota_estrutura_uti"`
	ProceduresPercentage  *string `json:"percentual_procedimentos"`
	Strengths             *string `json:"pontos_positivos"`
	Improvements          *string `json:"pontos_melhoria"`
	Comments              *string `json:"comentarios"`
	Suggestions           *string `json:"sugestoes"`
}

// CounterDrift is a pf_alunos row whose stored counters disagree with the live counts.
type CounterDrift struct {
	StudentID     string `json:"id_aluno"`
	Name          string `json:"nome"`
	StoredShifts  int    `json:"qtd_plantoes"`
	ActualShifts  int    `json:"plantoes_reais"`
	StoredAttempt int    `json:"qtd_tentativas"`
	ActualAttempt int    `json:"tentativas_reais"`
}
