package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantao-ops/internal/models"
	"plantao-ops/internal/util"
)

func str(s string) *string { return &s }

func shift(student, date, status string) *models.Shift {
	return &models.Shift{StudentID: student, Date: date, Status: status}
}

func TestFunnelKeepsMixedCardinalities(t *testing.T) {
	in := Input{
		Students: []*models.ShiftStudent{{ID: "S1"}},
		Shifts: []*models.Shift{
			shift("S1", "10/03/2025", models.ShiftDone),
			shift("S1", "11/03/2025", models.ShiftDone),
			shift("S1", "12/03/2025", models.ShiftOpen),
		},
		Forms: []*models.AfterShiftForm{{StudentID: "S1"}, {StudentID: "S1"}},
	}
	stages := Funnel(in)
	require.Len(t, stages, 4)
	counts := []int{stages[0].Count, stages[1].Count, stages[2].Count, stages[3].Count}
	assert.Equal(t, []int{1, 3, 2, 2}, counts)
	assert.Equal(t, "alunos", stages[0].Unit)
	assert.Equal(t, "plantões", stages[1].Unit)
}

func TestRates(t *testing.T) {
	shifts := []*models.Shift{
		shift("S1", "10/03/2025", models.ShiftDone),
		shift("S2", "10/03/2025", models.ShiftDone),
		shift("S3", "10/03/2025", models.ShiftDone),
		shift("S4", "10/03/2025", models.ShiftOpen),
		shift("S5", "10/03/2025", models.ShiftCancelled),
	}
	assert.InDelta(t, 75.0, OccupancyRate(shifts), 1e-9)
	assert.InDelta(t, 20.0, CancellationRate(shifts), 1e-9)

	forms := []*models.AfterShiftForm{{Attended: true}, {Attended: false}, {Attended: true}, {Attended: true}}
	assert.InDelta(t, 25.0, AbsenteeismRate(forms), 1e-9)
}

func TestRatesEmptyDenominator(t *testing.T) {
	assert.Zero(t, OccupancyRate(nil))
	assert.Zero(t, OccupancyRate([]*models.Shift{shift("S1", "10/03/2025", models.ShiftCancelled)}))
	assert.Zero(t, CancellationRate(nil))
	assert.Zero(t, AbsenteeismRate(nil))
}

func TestAverageWaitDays(t *testing.T) {
	attempts := []*models.Attempt{
		{StudentID: "S1", DesiredDate: "10/03/2025", AchievedDate: str("15/03/2025")},
		{StudentID: "S2", DesiredDate: "20/03/2025", AchievedDate: str("2025-03-19")},
		{StudentID: "S3", DesiredDate: "20/03/2025"},
		{StudentID: "S4", DesiredDate: "sem data", AchievedDate: str("20/03/2025")},
	}
	avg, n := AverageWaitDays(attempts)
	assert.Equal(t, 2, n)
	assert.InDelta(t, 3.0, avg, 1e-9)

	avg, n = AverageWaitDays(attempts[:1])
	assert.Equal(t, 1, n)
	assert.InDelta(t, 5.0, avg, 1e-9)

	avg, n = AverageWaitDays(nil)
	assert.Zero(t, avg)
	assert.Zero(t, n)
}

func TestDemandSupply(t *testing.T) {
	shifts := []*models.Shift{
		shift("S1", "10/03/2025", models.ShiftDone),
		shift("S2", "11/03/2025", models.ShiftDone),
		shift("S3", "11/03/2025", models.ShiftCancelled),
		shift("S1", "02/01/2025", models.ShiftDone),
	}
	attempts := []*models.Attempt{
		{DesiredDate: "05/03/2025"},
		{DesiredDate: "01/04/2025"},
	}
	got := DemandSupply(shifts, attempts)
	assert.Equal(t, []MonthlyDemand{
		{Month: "2025-01", Realized: 1},
		{Month: "2025-03", Realized: 2, Attempts: 1},
		{Month: "2025-04", Attempts: 1},
	}, got)
}

func TestProcedureHeatmap(t *testing.T) {
	a := &models.AfterShiftForm{Unit: str("PA")}
	a.Suture = true
	a.CPR = true
	b := &models.AfterShiftForm{Unit: str("2")}
	b.Suture = true
	c := &models.AfterShiftForm{Unit: str("PA")}
	c.Suture = true
	unknown := &models.AfterShiftForm{Unit: str("9")}
	unknown.Suture = true

	h := ProcedureHeatmap([]*models.AfterShiftForm{a, b, c, unknown, {}})
	require.Len(t, h.Counts, 18)
	require.Len(t, h.Counts[0], 6)
	assert.Equal(t, 2, h.Count("sutura", "PA"))
	assert.Equal(t, 1, h.Count("sutura", "2"))
	assert.Equal(t, 1, h.Count("rcp", "PA"))
	assert.Equal(t, 0, h.Count("rcp", "2"))
	assert.Equal(t, 0, h.Count("sutura", "9"))
}

func TestSchedulingTrendWeekly(t *testing.T) {
	shifts := []*models.Shift{
		shift("S1", "10/03/2025", models.ShiftDone),      // Monday, week of Sun 09/03
		shift("S2", "15/03/2025", models.ShiftCancelled), // Saturday, same week
		shift("S3", "16/03/2025", models.ShiftOpen),      // Sunday, next week
		shift("S4", "01/05/2025", models.ShiftOpen),      // outside range
		shift("S5", "??", models.ShiftOpen),
	}
	from, _ := util.ParseDate("01/03/2025")
	to, _ := util.ParseDate("31/03/2025")
	opts := DefaultTrendOptions()
	opts.From, opts.To = &from, &to

	got := SchedulingTrend(shifts, opts)
	assert.Equal(t, []TrendBucket{
		{Key: "2025-03-09", Label: "09/03/2025", Total: 2, Cancelled: 1},
		{Key: "2025-03-16", Label: "16/03/2025", Total: 1},
	}, got)

	opts.WeekStart = time.Monday
	got = SchedulingTrend(shifts, opts)
	require.Len(t, got, 1)
	assert.Equal(t, "10/03/2025", got[0].Label)
	assert.Equal(t, 3, got[0].Total)
}

func TestSchedulingTrendMonthly(t *testing.T) {
	shifts := []*models.Shift{
		shift("S1", "10/03/2025", models.ShiftDone),
		shift("S2", "28/02/2025", models.ShiftCancelled),
		shift("S3", "31/03/2025", models.ShiftCancelled),
	}
	got := SchedulingTrend(shifts, TrendOptions{Granularity: ByMonth})
	assert.Equal(t, []TrendBucket{
		{Key: "2025-02", Label: "2025-02", Total: 1, Cancelled: 1},
		{Key: "2025-03", Label: "2025-03", Total: 2, Cancelled: 1},
	}, got)
}

func TestFirstShiftCohort(t *testing.T) {
	shifts := []*models.Shift{
		shift("S1", "10/03/2025", models.ShiftDone),
		shift("S1", "20/02/2025", models.ShiftDone),
		shift("S1", "01/01/2025", models.ShiftCancelled),
		shift("S2", "05/03/2025", models.ShiftDone),
		shift("S3", "05/03/2025", models.ShiftOpen),
	}
	assert.Equal(t, []CohortBucket{
		{Month: "2025-02", Students: 1},
		{Month: "2025-03", Students: 1},
	}, FirstShiftCohort(shifts))
}

func TestFeedbackAverages(t *testing.T) {
	feedback := []*models.Feedback{
		{OverallScore: str("8"), UnitStructureScore: str("4"), ProceduresPercentage: str("80")},
		{OverallScore: str("9,5"), UnitStructureScore: str("0"), ProceduresPercentage: str("100%")},
		{OverallScore: str("0"), UnitStructureScore: str("n/a")},
		{OverallScore: nil},
		{OverallScore: str("NaN"), LearningScore: str("Inf")},
		{OverallScore: str("-Infinity"), LearningScore: str("infinity")},
	}
	byField := map[string]FeedbackAverage{}
	for _, a := range FeedbackAverages(feedback) {
		byField[a.Field] = a
	}
	require.Len(t, byField, 14)

	assert.InDelta(t, 8.75, byField["nota_geral"].Average, 1e-9)
	assert.Equal(t, 2, byField["nota_geral"].Responses)
	assert.InDelta(t, 8.0, byField["nota_estrutura_uti"].Average, 1e-9)
	assert.Equal(t, 1, byField["nota_estrutura_uti"].Responses)
	assert.InDelta(t, 4.5, byField["percentual_procedimentos"].Average, 1e-9)
	assert.Zero(t, byField["nota_material"].Responses)
	assert.Zero(t, byField["nota_material"].Average)
	assert.Zero(t, byField["nota_aprendizado"].Responses)
}

func TestDashboardMarshalsWithNonNumericScores(t *testing.T) {
	in := Input{Feedback: []*models.Feedback{
		{OverallScore: str("8")},
		{OverallScore: str("NaN"), WelcomeScore: str("+Inf")},
	}}
	d := BuildDashboard(in, DefaultTrendOptions())
	_, err := json.Marshal(d)
	require.NoError(t, err)
	for _, a := range d.Feedback {
		if a.Field == "nota_geral" {
			assert.InDelta(t, 8.0, a.Average, 1e-9)
			assert.Equal(t, 1, a.Responses)
		}
	}
}

func TestBuildDashboardDoesNotMutateInput(t *testing.T) {
	shifts := []*models.Shift{
		shift("S2", "11/03/2025", models.ShiftDone),
		shift("S1", "10/03/2025", models.ShiftCancelled),
	}
	in := Input{
		Students: []*models.ShiftStudent{{ID: "S1"}, {ID: "S2"}},
		Shifts:   shifts,
		Attempts: []*models.Attempt{{StudentID: "S1", DesiredDate: "10/03/2025", AchievedDate: str("15/03/2025")}},
	}
	d := BuildDashboard(in, DefaultTrendOptions())

	assert.Equal(t, "S2", shifts[0].StudentID)
	assert.Equal(t, models.ShiftDone, shifts[0].Status)
	assert.InDelta(t, 5.0, d.AverageWaitDays, 1e-9)
	assert.Equal(t, 1, d.WaitSamples)
	assert.InDelta(t, 100.0, d.OccupancyRate, 1e-9)
	assert.InDelta(t, 50.0, d.CancellationRate, 1e-9)
	require.Len(t, d.Trend, 1)
	assert.Equal(t, 2, d.Trend[0].Total)
}
