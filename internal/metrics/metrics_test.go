package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medinext-server/internal/models"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := date(year, month, day)
	return &d
}

func fptr(f float64) *float64 {
	return &f
}

func TestAgeAtBirthdayBoundary(t *testing.T) {
	birth := date(1990, time.March, 15)

	assert.Equal(t, 33, AgeAt(birth, date(2024, time.March, 14)))
	assert.Equal(t, 34, AgeAt(birth, date(2024, time.March, 15)))
	assert.Equal(t, 34, AgeAt(birth, date(2024, time.March, 16)))
	assert.Equal(t, 33, AgeAt(birth, date(2024, time.February, 20)))
	assert.Equal(t, 34, AgeAt(birth, date(2024, time.April, 1)))
}

func TestAgeOfNilBirthDate(t *testing.T) {
	assert.Nil(t, AgeOf(models.Patient{}, date(2024, time.January, 1)))

	p := models.Patient{BirthDate: datePtr(2000, time.June, 1)}
	age := AgeOf(p, date(2024, time.January, 1))
	require.NotNil(t, age)
	assert.Equal(t, 23, *age)
}

func TestAgeBucketSumMatchesKnownAges(t *testing.T) {
	now := date(2024, time.June, 1)
	table := &models.Table{Rows: []models.Patient{
		{PatientID: "P1", BirthDate: datePtr(2010, time.January, 1)}, // 14 -> 0-18
		{PatientID: "P2", BirthDate: datePtr(2000, time.January, 1)}, // 24 -> 19-30
		{PatientID: "P3", BirthDate: datePtr(1990, time.January, 1)}, // 34 -> 31-45
		{PatientID: "P4", BirthDate: datePtr(1950, time.January, 1)}, // 74 -> 61-75
		{PatientID: "P5", BirthDate: datePtr(1940, time.January, 1)}, // 84 -> 75+
		{PatientID: "P6"}, // unknown age, excluded from histogram
	}}

	s := Compute(table, now)

	sum := 0
	for _, bucket := range s.AgeDistribution {
		sum += bucket.Count
	}
	assert.Equal(t, 5, sum, "bucket counts must sum to records with known age")

	byLabel := make(map[string]int)
	for _, bucket := range s.AgeDistribution {
		byLabel[bucket.Label] = bucket.Count
	}
	assert.Equal(t, 1, byLabel["0-18"])
	assert.Equal(t, 1, byLabel["19-30"])
	assert.Equal(t, 1, byLabel["31-45"])
	assert.Equal(t, 0, byLabel["46-60"])
	assert.Equal(t, 1, byLabel["61-75"])
	assert.Equal(t, 1, byLabel["75+"])
}

func TestAgeBucketBoundariesAreHalfOpen(t *testing.T) {
	assert.Equal(t, "0-18", ageBucketLabel(17))
	assert.Equal(t, "19-30", ageBucketLabel(18))
	assert.Equal(t, "19-30", ageBucketLabel(29))
	assert.Equal(t, "31-45", ageBucketLabel(30))
	assert.Equal(t, "46-60", ageBucketLabel(45))
	assert.Equal(t, "61-75", ageBucketLabel(60))
	assert.Equal(t, "75+", ageBucketLabel(75))
	assert.Equal(t, "75+", ageBucketLabel(101))
}

func TestGlucoseCategories(t *testing.T) {
	assert.Equal(t, "Low", glucoseCategory(69.9))
	assert.Equal(t, "Normal", glucoseCategory(70))
	assert.Equal(t, "Normal", glucoseCategory(99.9))
	assert.Equal(t, "Pre-diabetes", glucoseCategory(100))
	assert.Equal(t, "Diabetes", glucoseCategory(126))
	assert.Equal(t, "Diabetes", glucoseCategory(199.9))
	assert.Equal(t, "High", glucoseCategory(200))
	assert.Equal(t, "High", glucoseCategory(250))
}

func TestHemoglobinCategories(t *testing.T) {
	assert.Equal(t, "Low", hemoglobinCategory(11.9))
	assert.Equal(t, "Normal", hemoglobinCategory(12))
	assert.Equal(t, "High", hemoglobinCategory(13))
	assert.Equal(t, "High", hemoglobinCategory(15.9))
	assert.Equal(t, "Very High", hemoglobinCategory(16))
}

func TestIsCriticalMonotonicInGuardrailFlag(t *testing.T) {
	p := models.Patient{
		PatientID:  "P1",
		Glucose:    fptr(95),
		Hemoglobin: fptr(14),
	}
	assert.False(t, IsCritical(p))

	p.GuardrailViolation = true
	assert.True(t, IsCritical(p), "flipping the flag on must never un-flag a record")
}

func TestCriticalAlertNoDoubleCounting(t *testing.T) {
	now := date(2024, time.February, 1)
	table := &models.Table{Rows: []models.Patient{
		{PatientID: "P1", Glucose: fptr(95), Hemoglobin: fptr(14)},
		{PatientID: "P2", Glucose: fptr(110), Hemoglobin: fptr(13)},
		{PatientID: "P3", Glucose: fptr(250), Hemoglobin: fptr(11), GuardrailViolation: true},
		{PatientID: "P4", Glucose: fptr(88), Hemoglobin: fptr(15)},
		{PatientID: "P5", Glucose: fptr(100), Hemoglobin: fptr(13.5)},
	}}

	s := Compute(table, now)
	assert.Equal(t, 1, s.CriticalAlerts, "one record meeting all three conditions counts once")
}

func TestComputeAveragesSkipNulls(t *testing.T) {
	now := date(2024, time.June, 1)
	table := &models.Table{Rows: []models.Patient{
		{PatientID: "P1", Glucose: fptr(100), Hemoglobin: fptr(12)},
		{PatientID: "P2", Glucose: fptr(140)},
		{PatientID: "P3"},
	}}

	s := Compute(table, now)

	require.NotNil(t, s.AvgGlucose)
	assert.InDelta(t, 120, *s.AvgGlucose, 1e-9)
	require.NotNil(t, s.AvgHemoglobin)
	assert.InDelta(t, 12, *s.AvgHemoglobin, 1e-9)
	assert.Nil(t, s.AvgAge, "all birth dates unknown yields nil, not zero")
}

func TestComputeEmptyTable(t *testing.T) {
	s := Compute(&models.Table{}, date(2024, time.June, 1))

	assert.Zero(t, s.TotalPatients)
	assert.Zero(t, s.CriticalAlerts)
	assert.Zero(t, s.ActivePatients)
	assert.Nil(t, s.AvgAge)
	assert.Nil(t, s.AvgGlucose)
	assert.Nil(t, s.AvgHemoglobin)
}

func TestConditionTokens(t *testing.T) {
	assert.Equal(t, []string{"Hypertension", "Type 2 Diabetes"}, ConditionTokens("Hypertension, Type 2 Diabetes"))
	assert.Equal(t, []string{"Asthma"}, ConditionTokens("  Asthma  "))
	assert.Nil(t, ConditionTokens(""))
	assert.Nil(t, ConditionTokens("   "))
	assert.Equal(t, []string{"A", "B"}, ConditionTokens("A,,B,"))
}

func TestTopConditionsTieBreakByFirstSeen(t *testing.T) {
	now := date(2024, time.June, 1)
	table := &models.Table{Rows: []models.Patient{
		{PatientID: "P1", Conditions: "Asthma"},
		{PatientID: "P2", Conditions: "Hypertension, Asthma"},
		{PatientID: "P3", Conditions: "Hypertension"},
		{PatientID: "P4", Conditions: "Arthritis"},
	}}

	s := Compute(table, now)

	require.Len(t, s.TopConditions, 3)
	assert.Equal(t, ConditionCount{Condition: "Asthma", Count: 2}, s.TopConditions[0])
	assert.Equal(t, ConditionCount{Condition: "Hypertension", Count: 2}, s.TopConditions[1])
	assert.Equal(t, ConditionCount{Condition: "Arthritis", Count: 1}, s.TopConditions[2])
}

func TestTopConditionsCapsAtTen(t *testing.T) {
	now := date(2024, time.June, 1)
	rows := make([]models.Patient, 0, 12)
	conditions := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"}
	for i, c := range conditions {
		rows = append(rows, models.Patient{PatientID: string(rune('A' + i)), Conditions: c})
	}

	s := Compute(&models.Table{Rows: rows}, now)
	assert.Len(t, s.TopConditions, 10)
}

func TestActivityWindows(t *testing.T) {
	now := date(2024, time.June, 30)
	table := &models.Table{Rows: []models.Patient{
		{PatientID: "P1", LastVisit: datePtr(2024, time.June, 20)},    // recent, active, 12mo
		{PatientID: "P2", LastVisit: datePtr(2024, time.March, 1)},    // active, 12mo
		{PatientID: "P3", LastVisit: datePtr(2023, time.August, 1)},   // 12mo only
		{PatientID: "P4", LastVisit: datePtr(2022, time.January, 1)},  // none
		{PatientID: "P5"},                                             // null never counts
	}}

	s := Compute(table, now)

	assert.Equal(t, 1, s.RecentVisits)
	assert.Equal(t, 2, s.ActivePatients)
	assert.Equal(t, 3, s.TwelveMonthVisits)
}

func TestComputeConditionSubstringCounts(t *testing.T) {
	now := date(2024, time.June, 1)
	table := &models.Table{Rows: []models.Patient{
		{PatientID: "P1", Conditions: "Type 2 Diabetes", GuardrailViolation: true},
		{PatientID: "P2", Conditions: "Hypertension"},
		{PatientID: "P3", Conditions: "diabetes, hypertension"},
		{PatientID: "P4", Conditions: "Asthma"},
	}}

	s := Compute(table, now)

	assert.Equal(t, 2, s.DiabetesPatients)
	assert.Equal(t, 2, s.HypertensionPatients)
	assert.Equal(t, 1, s.GuardrailViolations)
}

func TestVisitsByMonthSorted(t *testing.T) {
	now := date(2024, time.June, 30)
	table := &models.Table{Rows: []models.Patient{
		{PatientID: "P1", LastVisit: datePtr(2024, time.March, 5)},
		{PatientID: "P2", LastVisit: datePtr(2024, time.January, 10)},
		{PatientID: "P3", LastVisit: datePtr(2024, time.March, 20)},
	}}

	s := Compute(table, now)

	require.Len(t, s.VisitsByMonth, 2)
	assert.Equal(t, MonthCount{Month: "2024-01", Visits: 1}, s.VisitsByMonth[0])
	assert.Equal(t, MonthCount{Month: "2024-03", Visits: 2}, s.VisitsByMonth[1])
}
