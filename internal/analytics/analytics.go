// Package analytics derives dashboard figures from the raw collections the
// API returns. Every function is pure and leaves its inputs untouched.
package analytics

import (
	"sort"
	"strings"
	"time"

	"plantao-ops/internal/models"
	"plantao-ops/internal/util"
)

// Input is the set of collections a dashboard is computed from.
type Input struct {
	Students []*models.ShiftStudent
	Shifts   []*models.Shift
	Attempts []*models.Attempt
	Forms    []*models.AfterShiftForm
	Feedback []*models.Feedback
}

// FunnelStage is one step of the engagement funnel. Unit names what the
// count measures, since the stages do not share a cardinality.
type FunnelStage struct {
	Stage string `json:"etapa"`
	Unit  string `json:"unidade"`
	Count int    `json:"total"`
}

// Funnel returns students, booked shifts, realized shifts and post-shift forms
// in that order. The first stage counts students while the rest count rows,
// so a stage can exceed the one before it.
func Funnel(in Input) []FunnelStage {
	realized := 0
	for _, s := range in.Shifts {
		if s.Status == models.ShiftDone {
			realized++
		}
	}
	return []FunnelStage{
		{Stage: "Alunos", Unit: "alunos", Count: len(in.Students)},
		{Stage: "Plantões agendados", Unit: "plantões", Count: len(in.Shifts)},
		{Stage: "Plantões realizados", Unit: "plantões", Count: realized},
		{Stage: "Formulários pós-plantão", Unit: "formulários", Count: len(in.Forms)},
	}
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// OccupancyRate is realized / (realized + open) as a percentage.
func OccupancyRate(shifts []*models.Shift) float64 {
	realized, open := 0, 0
	for _, s := range shifts {
		switch s.Status {
		case models.ShiftDone:
			realized++
		case models.ShiftOpen:
			open++
		}
	}
	return percent(realized, realized+open)
}

// CancellationRate is cancelled / all shifts as a percentage.
func CancellationRate(shifts []*models.Shift) float64 {
	cancelled := 0
	for _, s := range shifts {
		if s.Status == models.ShiftCancelled {
			cancelled++
		}
	}
	return percent(cancelled, len(shifts))
}

// AbsenteeismRate is the share of post-shift forms without attendance.
func AbsenteeismRate(forms []*models.AfterShiftForm) float64 {
	absent := 0
	for _, f := range forms {
		if !f.Attended {
			absent++
		}
	}
	return percent(absent, len(forms))
}

// AverageWaitDays is the mean absolute day gap between desired and achieved
// date, over attempts where both dates parse. n is how many attempts counted.
func AverageWaitDays(attempts []*models.Attempt) (avg float64, n int) {
	total := 0
	for _, a := range attempts {
		if a.AchievedDate == nil {
			continue
		}
		desired, err := util.ParseDate(a.DesiredDate)
		if err != nil {
			continue
		}
		achieved, err := util.ParseDate(*a.AchievedDate)
		if err != nil {
			continue
		}
		total += util.DaysBetween(desired, achieved)
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return float64(total) / float64(n), n
}

// MonthlyDemand pairs realized shifts with attempts for one yyyy-mm month.
type MonthlyDemand struct {
	Month    string `json:"mes"`
	Realized int    `json:"realizados"`
	Attempts int    `json:"tentativas"`
}

// DemandSupply counts realized shifts by shift month and attempts by desired
// month, merged and sorted by month.
func DemandSupply(shifts []*models.Shift, attempts []*models.Attempt) []MonthlyDemand {
	byMonth := map[string]*MonthlyDemand{}
	bucket := func(month string) *MonthlyDemand {
		m, ok := byMonth[month]
		if !ok {
			m = &MonthlyDemand{Month: month}
			byMonth[month] = m
		}
		return m
	}

	for _, s := range shifts {
		if s.Status != models.ShiftDone {
			continue
		}
		if d, err := util.ParseDate(s.Date); err == nil {
			bucket(util.MonthKey(d)).Realized++
		}
	}
	for _, a := range attempts {
		if d, err := util.ParseDate(a.DesiredDate); err == nil {
			bucket(util.MonthKey(d)).Attempts++
		}
	}

	out := make([]MonthlyDemand, 0, len(byMonth))
	for _, m := range byMonth {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// Heatmap counts forms per procedure (rows, models.ProcedureColumns order)
// and unit (columns, models.Units order).
type Heatmap struct {
	Procedures []string `json:"procedimentos"`
	Units      []string `json:"utis"`
	Counts     [][]int  `json:"contagens"`
}

// Count returns the cell for procedure and unit, or 0 when either is unknown.
func (h Heatmap) Count(procedure, unit string) int {
	for i, p := range h.Procedures {
		if p != procedure {
			continue
		}
		for j, u := range h.Units {
			if u == unit {
				return h.Counts[i][j]
			}
		}
	}
	return 0
}

func ProcedureHeatmap(forms []*models.AfterShiftForm) Heatmap {
	h := Heatmap{
		Procedures: append([]string(nil), models.ProcedureColumns...),
		Units:      append([]string(nil), models.Units...),
		Counts:     make([][]int, len(models.ProcedureColumns)),
	}
	unitIndex := make(map[string]int, len(models.Units))
	for j, u := range models.Units {
		unitIndex[u] = j
	}
	for i := range h.Counts {
		h.Counts[i] = make([]int, len(models.Units))
	}

	for _, f := range forms {
		if f.Unit == nil {
			continue
		}
		j, ok := unitIndex[strings.TrimSpace(*f.Unit)]
		if !ok {
			continue
		}
		for i, set := range f.Values() {
			if set {
				h.Counts[i][j]++
			}
		}
	}
	return h
}

type Granularity string

const (
	ByWeek  Granularity = "week"
	ByMonth Granularity = "month"
)

// TrendOptions filters and buckets SchedulingTrend. Nil bounds are open.
type TrendOptions struct {
	From        *time.Time
	To          *time.Time
	Granularity Granularity
	WeekStart   time.Weekday
}

// DefaultTrendOptions buckets by week starting on Sunday, the pt-BR convention.
func DefaultTrendOptions() TrendOptions {
	return TrendOptions{Granularity: ByWeek, WeekStart: time.Sunday}
}

// TrendBucket is one week or month. Key sorts chronologically; Label is what
// the dashboard shows (dd/mm/yyyy of the week start, or yyyy-mm).
type TrendBucket struct {
	Key       string `json:"chave"`
	Label     string `json:"rotulo"`
	Total     int    `json:"total"`
	Cancelled int    `json:"cancelados"`
}

// SchedulingTrend groups every shift dated inside the range by week or month.
// Shifts with unparseable dates are skipped.
func SchedulingTrend(shifts []*models.Shift, opts TrendOptions) []TrendBucket {
	byKey := map[string]*TrendBucket{}
	for _, s := range shifts {
		d, err := util.ParseDate(s.Date)
		if err != nil {
			continue
		}
		if opts.From != nil && d.Before(*opts.From) {
			continue
		}
		if opts.To != nil && d.After(*opts.To) {
			continue
		}

		var key, label string
		if opts.Granularity == ByMonth {
			key = util.MonthKey(d)
			label = key
		} else {
			start := util.WeekStart(d, opts.WeekStart)
			key = start.Format("2006-01-02")
			label = util.FormatBRDate(start)
		}

		b, ok := byKey[key]
		if !ok {
			b = &TrendBucket{Key: key, Label: label}
			byKey[key] = b
		}
		b.Total++
		if s.Status == models.ShiftCancelled {
			b.Cancelled++
		}
	}

	out := make([]TrendBucket, 0, len(byKey))
	for _, b := range byKey {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// CohortBucket counts students whose first realized shift fell in Month.
type CohortBucket struct {
	Month    string `json:"mes"`
	Students int    `json:"alunos"`
}

func FirstShiftCohort(shifts []*models.Shift) []CohortBucket {
	first := map[string]time.Time{}
	for _, s := range shifts {
		if s.Status != models.ShiftDone {
			continue
		}
		d, err := util.ParseDate(s.Date)
		if err != nil {
			continue
		}
		if prev, ok := first[s.StudentID]; !ok || d.Before(prev) {
			first[s.StudentID] = d
		}
	}

	counts := map[string]int{}
	for _, d := range first {
		counts[util.MonthKey(d)]++
	}
	out := make([]CohortBucket, 0, len(counts))
	for month, n := range counts {
		out = append(out, CohortBucket{Month: month, Students: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
