package models

import "fmt"

// MaxShiftsPerDay is the daily booking cap across all students.
const MaxShiftsPerDay = 10

const (
	ShiftOpen      = "Em Aberto"
	ShiftDone      = "Realizado"
	ShiftCancelled = "Cancelado"
)

const (
	StudentActive     = "Ativo"
	StudentInactive   = "Inativo"
	StudentOnboarding = "Em Onboarding"
)

const (
	ClassOpen       = "Aberta"
	ClassInProgress = "Em Andamento"
	ClassFinished   = "Finalizada"
	ClassCancelled  = "Cancelada"
)

const (
	EnrollmentEnrolled  = "Inscrito"
	EnrollmentCompleted = "Concluído"
	EnrollmentDropped   = "Desistente"
)

const (
	FinanceIn  = "Entrada"
	FinanceOut = "Saída"
)

var (
	shiftStatuses      = []string{ShiftOpen, ShiftDone, ShiftCancelled}
	studentStatuses    = []string{StudentActive, StudentInactive, StudentOnboarding}
	classStatuses      = []string{ClassOpen, ClassInProgress, ClassFinished, ClassCancelled}
	enrollmentStatuses = []string{EnrollmentEnrolled, EnrollmentCompleted, EnrollmentDropped}
	financeTypes       = []string{FinanceIn, FinanceOut}
)

func oneOf(field, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("valor inválido para %s: %q", field, value),
	}
}

func ValidateShiftStatus(s string) error      { return oneOf("status", s, shiftStatuses) }
func ValidateStudentStatus(s string) error    { return oneOf("status", s, studentStatuses) }
func ValidateClassStatus(s string) error      { return oneOf("status", s, classStatuses) }
func ValidateEnrollmentStatus(s string) error { return oneOf("status", s, enrollmentStatuses) }
func ValidateFinanceType(s string) error      { return oneOf("tipo", s, financeTypes) }

// ValidateShiftTransition checks a manual status edit. Nothing returns a shift
// to Em Aberto by hand; only removing its post-shift form does that.
func ValidateShiftTransition(from, to string) error {
	if err := ValidateShiftStatus(to); err != nil {
		return err
	}
	if to == ShiftOpen && from != ShiftOpen {
		return &ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("plantão %s não pode voltar para %s", from, ShiftOpen),
		}
	}
	return nil
}

// StatusForAttendance is the shift status written back by a post-shift form.
func StatusForAttendance(attended bool) string {
	if attended {
		return ShiftDone
	}
	return ShiftCancelled
}
