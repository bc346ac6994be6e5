// Seeder command for populating demo plantão data.
//
// SAFETY: This command ONLY runs when:
//   - APP_ENV=development
//   - --confirm flag is provided
//
// Usage:
//   APP_ENV=development go run ./cmd/seed --count 25 --days 14 --confirm
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"plantao-ops/internal/config"
	"plantao-ops/internal/db"
	"plantao-ops/internal/logging"
	"plantao-ops/internal/models"
	"plantao-ops/internal/util"
)

func main() {
	count := flag.Int("count", 25, "Number of shift students to seed")
	days := flag.Int("days", 14, "Number of past days to spread shifts over")
	confirm := flag.Bool("confirm", false, "Confirm seeding (required)")
	flag.Parse()

	cfg := config.Load()
	logger := logging.Must(cfg.Debug)
	defer logger.Sync()
	cfg.SetLogger(logger)
	log := logger.Sugar()

	if os.Getenv("APP_ENV") != "development" {
		log.Fatal("seeder can only run with APP_ENV=development")
	}
	if !*confirm {
		log.Fatalf("--confirm flag is required. Usage: APP_ENV=development go run ./cmd/seed --count %d --confirm", *count)
	}

	ctx := context.Background()
	if err := db.Connect(ctx, cfg.DatabaseURL); err != nil {
		log.Fatalw("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Do NOT run migrations - assume DB is already set up
	repo := models.NewRepository(db.DB)
	s := &seeder{ctx: ctx, repo: repo, log: log}

	ids := s.shiftStudents(*count)
	s.shifts(ids, *days)
	s.crm(ids)

	log.Infof("seeding complete: %d students, %d shifts (%d full days), %d attempts, %d forms",
		len(ids), s.shiftCount, s.fullDays, s.attemptCount, s.formCount)
}

type seeder struct {
	ctx  context.Context
	repo *models.Repository
	log  *zap.SugaredLogger

	shiftCount   int
	fullDays     int
	attemptCount int
	formCount    int
}

func (s *seeder) shiftStudents(n int) []string {
	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		phone := fmt.Sprintf("11 9000-00%02d", i)
		st, err := s.repo.CreateShiftStudent(s.ctx, &models.ShiftStudent{
			ID:    fmt.Sprintf("SEED%03d", i),
			Name:  fmt.Sprintf("Aluno Demo %02d", i),
			Phone: &phone,
		})
		if err != nil {
			var de *models.DuplicateError
			if errors.As(err, &de) {
				ids = append(ids, fmt.Sprintf("SEED%03d", i))
				continue
			}
			s.log.Warnw("failed to create shift student", "index", i, zap.Error(err))
			continue
		}
		ids = append(ids, st.ID)
	}
	return ids
}

// shifts books students round-robin over the past days. Bookings past the
// daily cap become attempts, like the booking screen does.
func (s *seeder) shifts(ids []string, days int) {
	if len(ids) == 0 {
		return
	}
	today := time.Now().In(util.ClinicZone)
	next := 0
	for d := days; d >= 1; d-- {
		date := util.FormatBRDate(today.AddDate(0, 0, -d))
		wanted := 6 + d%7
		for k := 0; k < wanted && k < len(ids); k++ {
			id := ids[next%len(ids)]
			next++
			_, err := s.repo.CreateShift(s.ctx, id, date, nil)
			var ce *models.CapacityExceededError
			switch {
			case err == nil:
				s.shiftCount++
				s.afterShift(id, date, next)
			case errors.As(err, &ce):
				s.attempt(id, date)
			default:
				s.log.Debugw("shift not booked", "student", id, "date", date, zap.Error(err))
			}
		}
		if n, err := s.repo.CountShiftsOn(s.ctx, date); err == nil && n >= models.MaxShiftsPerDay {
			s.fullDays++
		}
	}
}

func (s *seeder) attempt(id, date string) {
	if _, err := s.repo.CreateAttempt(s.ctx, id, date, nil); err != nil {
		s.log.Debugw("attempt not logged", "student", id, "date", date, zap.Error(err))
		return
	}
	s.attemptCount++
}

// afterShift fills a form for most shifts; roughly one in six is a no-show.
func (s *seeder) afterShift(id, date string, n int) {
	if n%5 == 0 {
		return
	}
	unit := models.Units[n%len(models.Units)]
	form := &models.AfterShiftForm{StudentID: id, Date: date, Attended: n%6 != 0, Unit: &unit}
	if form.Attended {
		form.PeripheralVenousAccess = true
		form.PatientAdmission = n%2 == 0
		form.ChartProgressNote = true
		form.Suture = n%3 == 0
		form.ArterialBloodGas = n%4 == 0
	}
	if _, err := s.repo.RecordAfterShift(s.ctx, form); err != nil {
		s.log.Debugw("form not recorded", "student", id, "date", date, zap.Error(err))
		return
	}
	s.formCount++
}

// crm creates one class with a few enrolled registrations and its finance entries.
func (s *seeder) crm(ids []string) {
	value := "450.00"
	class, err := s.repo.CreateClass(s.ctx, &models.Class{Name: "Turma Demo UTI", Capacity: 12, Value: &value})
	if err != nil {
		s.log.Warnw("failed to create class", zap.Error(err))
		return
	}
	enrolled := 0
	for i := 0; i < len(ids) && i < 5; i++ {
		st, err := s.repo.CreateStudent(s.ctx, &models.Student{Name: fmt.Sprintf("Aluno Demo %02d", i+1)})
		if err != nil {
			s.log.Warnw("failed to create student", zap.Error(err))
			continue
		}
		if _, err := s.repo.CreateEnrollment(s.ctx, &models.Enrollment{StudentID: st.ID, ClassID: class.ID}); err != nil {
			s.log.Warnw("failed to enroll student", zap.Error(err))
			continue
		}
		enrolled++
	}

	today := util.TodayBR(time.Now())
	category := "Mensalidade"
	entries := []*models.FinanceEntry{
		{Type: models.FinanceIn, Description: "Mensalidade Turma Demo", Category: &category, ClassID: &class.ID,
			Quantity: fmt.Sprint(enrolled), UnitPrice: value, Date: today},
		{Type: models.FinanceOut, Description: "Material descartável", Quantity: "3", UnitPrice: "19,90", Date: today},
	}
	for _, e := range entries {
		if _, err := s.repo.CreateFinance(s.ctx, e); err != nil {
			s.log.Warnw("failed to create finance entry", "descricao", e.Description, zap.Error(err))
		}
	}
}
