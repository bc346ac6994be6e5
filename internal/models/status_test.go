package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateShiftTransition(t *testing.T) {
	tests := []struct {
		from, to string
		wantErr  bool
	}{
		{ShiftOpen, ShiftDone, false},
		{ShiftOpen, ShiftCancelled, false},
		{ShiftOpen, ShiftOpen, false},
		{ShiftDone, ShiftCancelled, false},
		{ShiftCancelled, ShiftDone, false},
		{ShiftDone, ShiftOpen, true},
		{ShiftCancelled, ShiftOpen, true},
		{ShiftOpen, "Pendente", true},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			err := ValidateShiftTransition(tt.from, tt.to)
			if tt.wantErr {
				var ve *ValidationError
				assert.ErrorAs(t, err, &ve)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStatusForAttendance(t *testing.T) {
	assert.Equal(t, ShiftDone, StatusForAttendance(true))
	assert.Equal(t, ShiftCancelled, StatusForAttendance(false))
}

func TestStatusSets(t *testing.T) {
	assert.NoError(t, ValidateStudentStatus(StudentOnboarding))
	assert.Error(t, ValidateStudentStatus("Ativa"))
	assert.NoError(t, ValidateClassStatus(ClassInProgress))
	assert.NoError(t, ValidateEnrollmentStatus(EnrollmentCompleted))
	assert.NoError(t, ValidateFinanceType(FinanceOut))
	assert.Error(t, ValidateFinanceType("Saida"))
}
