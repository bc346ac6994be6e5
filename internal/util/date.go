package util

import (
	"fmt"
	"strings"
	"time"
)

// BRLayout is the dd/mm/yyyy layout every date column is stored in.
const BRLayout = "02/01/2006"

// ClinicZone is the clinic's civil calendar: a fixed UTC-3 offset,
// independent of the server's local timezone.
var ClinicZone = time.FixedZone("UTC-3", -3*60*60)

var inputLayouts = []string{BRLayout, "02-01-2006", "2006-01-02"}

// startOfDay truncates t to midnight in the clinic zone.
func startOfDay(t time.Time) time.Time {
	c := t.In(ClinicZone)
	return time.Date(c.Year(), c.Month(), c.Day(), 0, 0, 0, 0, ClinicZone)
}

// ParseBRDate parses a stored dd/mm/yyyy date at midnight in the clinic zone.
func ParseBRDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(BRLayout, strings.TrimSpace(s), ClinicZone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected dd/mm/yyyy", s)
	}
	return t, nil
}

// ParseDate accepts dd/mm/yyyy, dd-mm-yyyy or yyyy-mm-dd.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, s, ClinicZone); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// NormalizeDate converts any accepted input format to dd/mm/yyyy.
func NormalizeDate(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return FormatBRDate(t), nil
}

func FormatBRDate(t time.Time) string {
	return t.In(ClinicZone).Format(BRLayout)
}

// TodayBR returns today's date in the clinic zone as dd/mm/yyyy.
func TodayBR(now time.Time) string {
	return FormatBRDate(startOfDay(now))
}

// DaysBetween returns the absolute number of calendar days between a and b.
func DaysBetween(a, b time.Time) int {
	d := startOfDay(b).Sub(startOfDay(a))
	days := int(d.Round(24*time.Hour) / (24 * time.Hour))
	if days < 0 {
		return -days
	}
	return days
}

// MonthKey buckets t by calendar month as yyyy-mm.
func MonthKey(t time.Time) string {
	return t.In(ClinicZone).Format("2006-01")
}

// WeekStart returns midnight of the first day of t's week, where weeks begin on first.
func WeekStart(t time.Time, first time.Weekday) time.Time {
	d := startOfDay(t)
	offset := (int(d.Weekday()) - int(first) + 7) % 7
	return d.AddDate(0, 0, -offset)
}
