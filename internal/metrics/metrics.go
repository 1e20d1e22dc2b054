// Package metrics derives dashboard summary figures from a loaded patient
// table. Every function here is pure: the reference time is injected so
// results are reproducible.
package metrics

import (
	"sort"
	"strings"
	"time"

	"medinext-server/internal/models"
)

// Activity window widths, in days.
const (
	recentWindowDays      = 30
	activeWindowDays      = 180
	twelveMonthWindowDays = 365
)

// topConditionCount caps the condition frequency list.
const topConditionCount = 10

// AgeBucketLabels are the histogram labels in display order.
var AgeBucketLabels = []string{"0-18", "19-30", "31-45", "46-60", "61-75", "75+"}

// GlucoseCategoryLabels are the glucose bucket labels in display order.
var GlucoseCategoryLabels = []string{"Low", "Normal", "Pre-diabetes", "Diabetes", "High"}

// HemoglobinCategoryLabels are the hemoglobin bucket labels in display order.
var HemoglobinCategoryLabels = []string{"Low", "Normal", "High", "Very High"}

// BucketCount is one labeled histogram bar.
type BucketCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ConditionCount is one tokenized condition with its table-wide frequency.
type ConditionCount struct {
	Condition string `json:"condition"`
	Count     int    `json:"count"`
}

// MonthCount is the visit total for one calendar month (YYYY-MM).
type MonthCount struct {
	Month  string `json:"month"`
	Visits int    `json:"visits"`
}

// Summary carries every derived figure the dashboard renders: cards,
// distributions and risk counts. Averages are nil when no record carries a
// usable value; callers render nil as "N/A", never as zero.
type Summary struct {
	TotalPatients     int `json:"totalPatients"`
	FlaggedPatients   int `json:"flaggedPatients"`
	ActivePatients    int `json:"activePatients"`
	RecentVisits      int `json:"recentVisits"`
	TwelveMonthVisits int `json:"twelveMonthVisits"`

	CriticalAlerts       int `json:"criticalAlerts"`
	GuardrailViolations  int `json:"guardrailViolations"`
	HighGlucosePatients  int `json:"highGlucosePatients"`
	LowHemoglobinCount   int `json:"lowHemoglobinPatients"`
	DiabetesPatients     int `json:"diabetesPatients"`
	HypertensionPatients int `json:"hypertensionPatients"`

	AvgAge        *float64 `json:"avgAge"`
	AvgGlucose    *float64 `json:"avgGlucose"`
	AvgHemoglobin *float64 `json:"avgHemoglobin"`

	AgeDistribution        []BucketCount    `json:"ageDistribution"`
	GlucoseDistribution    []BucketCount    `json:"glucoseDistribution"`
	HemoglobinDistribution []BucketCount    `json:"hemoglobinDistribution"`
	GenderDistribution     []BucketCount    `json:"genderDistribution"`
	TopConditions          []ConditionCount `json:"topConditions"`
	VisitsByMonth          []MonthCount     `json:"visitsByMonth"`
}

// AgeAt computes calendar age: the year difference, minus one when the
// birthday has not yet occurred in the reference year.
func AgeAt(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// AgeOf returns the record's age at now, or nil when the birth date is
// unknown.
func AgeOf(p models.Patient, now time.Time) *int {
	if p.BirthDate == nil {
		return nil
	}
	age := AgeAt(*p.BirthDate, now)
	return &age
}

// IsCritical is the clinical-risk predicate: glucose above 200, hemoglobin
// below 12, or an upstream guardrail violation. Summary counts and the
// activity feed both go through this single function.
func IsCritical(p models.Patient) bool {
	if p.Glucose != nil && *p.Glucose > 200 {
		return true
	}
	if p.Hemoglobin != nil && *p.Hemoglobin < 12 {
		return true
	}
	return p.GuardrailViolation
}

// Compute derives the full dashboard summary from a table at the given
// reference time. An empty table yields zero counts and nil averages.
func Compute(table *models.Table, now time.Time) *Summary {
	s := &Summary{
		TotalPatients: table.Len(),
	}
	if table != nil {
		s.FlaggedPatients = table.Flagged
	}

	ageBuckets := make(map[string]int)
	glucoseBuckets := make(map[string]int)
	hemoglobinBuckets := make(map[string]int)

	genderOrder := make([]string, 0, 2)
	genderCounts := make(map[string]int)

	conditionOrder := make([]string, 0, 16)
	conditionCounts := make(map[string]int)

	visitMonths := make(map[string]int)

	var ageSum, glucoseSum, hemoglobinSum float64
	var ageN, glucoseN, hemoglobinN int

	rows := []models.Patient(nil)
	if table != nil {
		rows = table.Rows
	}
	for _, p := range rows {
		if age := AgeOf(p, now); age != nil {
			ageSum += float64(*age)
			ageN++
			ageBuckets[ageBucketLabel(*age)]++
		}
		if p.Glucose != nil {
			glucoseSum += *p.Glucose
			glucoseN++
			glucoseBuckets[glucoseCategory(*p.Glucose)]++
			if *p.Glucose > 126 {
				s.HighGlucosePatients++
			}
		}
		if p.Hemoglobin != nil {
			hemoglobinSum += *p.Hemoglobin
			hemoglobinN++
			hemoglobinBuckets[hemoglobinCategory(*p.Hemoglobin)]++
			if *p.Hemoglobin < 12 {
				s.LowHemoglobinCount++
			}
		}

		if p.LastVisit != nil {
			daysAgo := now.Sub(*p.LastVisit).Hours() / 24
			if daysAgo <= recentWindowDays {
				s.RecentVisits++
			}
			if daysAgo <= activeWindowDays {
				s.ActivePatients++
			}
			if daysAgo <= twelveMonthWindowDays {
				s.TwelveMonthVisits++
				visitMonths[p.LastVisit.Format("2006-01")]++
			}
		}

		if IsCritical(p) {
			s.CriticalAlerts++
		}
		if p.GuardrailViolation {
			s.GuardrailViolations++
		}
		lower := strings.ToLower(p.Conditions)
		if strings.Contains(lower, "diabetes") {
			s.DiabetesPatients++
		}
		if strings.Contains(lower, "hypertension") {
			s.HypertensionPatients++
		}

		if sex := string(p.Sex); sex != "" {
			if _, seen := genderCounts[sex]; !seen {
				genderOrder = append(genderOrder, sex)
			}
			genderCounts[sex]++
		}

		for _, token := range ConditionTokens(p.Conditions) {
			if _, seen := conditionCounts[token]; !seen {
				conditionOrder = append(conditionOrder, token)
			}
			conditionCounts[token]++
		}
	}

	s.AvgAge = mean(ageSum, ageN)
	s.AvgGlucose = mean(glucoseSum, glucoseN)
	s.AvgHemoglobin = mean(hemoglobinSum, hemoglobinN)

	s.AgeDistribution = orderedBuckets(AgeBucketLabels, ageBuckets)
	s.GlucoseDistribution = orderedBuckets(GlucoseCategoryLabels, glucoseBuckets)
	s.HemoglobinDistribution = orderedBuckets(HemoglobinCategoryLabels, hemoglobinBuckets)
	s.GenderDistribution = orderedBuckets(genderOrder, genderCounts)
	s.TopConditions = topConditions(conditionOrder, conditionCounts)
	s.VisitsByMonth = sortedMonths(visitMonths)

	return s
}

// ConditionTokens splits a comma-separated conditions cell into trimmed,
// non-empty tokens.
func ConditionTokens(conditions string) []string {
	if strings.TrimSpace(conditions) == "" {
		return nil
	}
	parts := strings.Split(conditions, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func ageBucketLabel(age int) string {
	switch {
	case age < 18:
		return "0-18"
	case age < 30:
		return "19-30"
	case age < 45:
		return "31-45"
	case age < 60:
		return "46-60"
	case age < 75:
		return "61-75"
	default:
		return "75+"
	}
}

func glucoseCategory(v float64) string {
	switch {
	case v < 70:
		return "Low"
	case v < 100:
		return "Normal"
	case v < 126:
		return "Pre-diabetes"
	case v < 200:
		return "Diabetes"
	default:
		return "High"
	}
}

func hemoglobinCategory(v float64) string {
	switch {
	case v < 12:
		return "Low"
	case v < 13:
		return "Normal"
	case v < 16:
		return "High"
	default:
		return "Very High"
	}
}

func mean(sum float64, n int) *float64 {
	if n == 0 {
		return nil
	}
	m := sum / float64(n)
	return &m
}

func orderedBuckets(labels []string, counts map[string]int) []BucketCount {
	out := make([]BucketCount, 0, len(labels))
	for _, label := range labels {
		out = append(out, BucketCount{Label: label, Count: counts[label]})
	}
	return out
}

// topConditions ranks by descending count; ties keep first-seen table order.
func topConditions(order []string, counts map[string]int) []ConditionCount {
	out := make([]ConditionCount, 0, len(order))
	for _, condition := range order {
		out = append(out, ConditionCount{Condition: condition, Count: counts[condition]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if len(out) > topConditionCount {
		out = out[:topConditionCount]
	}
	return out
}

func sortedMonths(counts map[string]int) []MonthCount {
	months := make([]string, 0, len(counts))
	for month := range counts {
		months = append(months, month)
	}
	sort.Strings(months)

	out := make([]MonthCount, 0, len(months))
	for _, month := range months {
		out = append(out, MonthCount{Month: month, Visits: counts[month]})
	}
	return out
}
