package handlers

import (
	"context"
	"time"

	"plantao-ops/internal/models"
)

// Store is the persistence surface the handlers use. *models.Repository
// implements it.
type Store interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	ListStudents(ctx context.Context, statusFilter, search string) ([]*models.Student, error)
	GetStudent(ctx context.Context, id string) (*models.Student, error)
	CreateStudent(ctx context.Context, s *models.Student) (*models.Student, error)
	UpdateStudent(ctx context.Context, s *models.Student) (*models.Student, error)
	UpdateStudentField(ctx context.Context, id, field string, value interface{}) (*models.Student, error)
	DeleteStudent(ctx context.Context, id string) error

	ListShiftStudents(ctx context.Context) ([]*models.ShiftStudent, error)
	GetShiftStudent(ctx context.Context, id string) (*models.ShiftStudent, error)
	CreateShiftStudent(ctx context.Context, s *models.ShiftStudent) (*models.ShiftStudent, error)
	ReconcileCounters(ctx context.Context, apply bool) ([]models.CounterDrift, error)

	ListClasses(ctx context.Context, statusFilter string) ([]*models.Class, error)
	GetClass(ctx context.Context, id string) (*models.Class, error)
	CreateClass(ctx context.Context, c *models.Class) (*models.Class, error)
	UpdateClass(ctx context.Context, c *models.Class) (*models.Class, error)
	UpdateClassField(ctx context.Context, id, field string, value interface{}) (*models.Class, error)
	DeleteClass(ctx context.Context, id string) error
	ClassStudents(ctx context.Context, classID string) ([]*models.ClassStudent, error)
	ClassFinance(ctx context.Context, classID string) ([]*models.FinanceEntry, error)

	ListEnrollments(ctx context.Context) ([]*models.EnrollmentDetail, error)
	EnrollmentsByStudent(ctx context.Context, studentID string) ([]*models.EnrollmentDetail, error)
	EnrollmentsByClass(ctx context.Context, classID string) ([]*models.EnrollmentDetail, error)
	GetEnrollment(ctx context.Context, id string) (*models.EnrollmentDetail, error)
	CreateEnrollment(ctx context.Context, e *models.Enrollment) (*models.EnrollmentDetail, error)
	UpdateEnrollment(ctx context.Context, id, status string, notes *string) (*models.EnrollmentDetail, error)
	DeleteEnrollment(ctx context.Context, id string) error

	ListFinance(ctx context.Context) ([]*models.FinanceEntry, error)
	FinanceByType(ctx context.Context, kind string) ([]*models.FinanceEntry, error)
	GetFinance(ctx context.Context, id string) (*models.FinanceEntry, error)
	CreateFinance(ctx context.Context, f *models.FinanceEntry) (*models.FinanceEntry, error)
	UpdateFinance(ctx context.Context, f *models.FinanceEntry) (*models.FinanceEntry, error)
	UpdateFinanceField(ctx context.Context, id, field string, value interface{}) (*models.FinanceEntry, error)
	DeleteFinance(ctx context.Context, id string) error
	FinanceSummary(ctx context.Context, from, to *time.Time) (*models.FinanceSummary, error)

	ListShifts(ctx context.Context, f models.ShiftFilter) ([]*models.Shift, error)
	CreateShift(ctx context.Context, studentID, date string, notes *string) (*models.Shift, error)
	UpdateShift(ctx context.Context, studentID, date string, u models.ShiftUpdate) (*models.Shift, error)
	DeleteShift(ctx context.Context, studentID, date string) error

	ListAttempts(ctx context.Context, studentID string) ([]*models.Attempt, error)
	CountAttempts(ctx context.Context, studentID string) (int, error)
	CreateAttempt(ctx context.Context, studentID, desiredDate string, achievedDate *string) (*models.Attempt, error)
	DeleteAttempt(ctx context.Context, studentID, attemptDate, desiredDate string) error

	ListAfterShift(ctx context.Context) ([]*models.AfterShiftForm, error)
	GetAfterShift(ctx context.Context, studentID, date string) (*models.AfterShiftForm, error)
	RecordAfterShift(ctx context.Context, f *models.AfterShiftForm) (*models.AfterShiftForm, error)
	UpdateAfterShift(ctx context.Context, f *models.AfterShiftForm) (*models.AfterShiftForm, error)
	DeleteAfterShift(ctx context.Context, studentID, date string) error

	ListFeedback(ctx context.Context) ([]*models.Feedback, error)
}

var _ Store = (*models.Repository)(nil)
