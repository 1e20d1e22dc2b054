package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *time.Time
	}{
		{"iso", "1990-03-15", datePtr(1990, time.March, 15)},
		{"day-month-name", "15-Mar-1990", datePtr(1990, time.March, 15)},
		{"us-slash", "03/15/1990", datePtr(1990, time.March, 15)},
		{"iso-with-time", "1990-03-15 10:30:00", timePtr(1990, time.March, 15, 10, 30)},
		{"whitespace", "  1990-03-15  ", datePtr(1990, time.March, 15)},
		{"empty", "", nil},
		{"garbage", "not-a-date", nil},
		{"partial", "1990-03", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, got.Equal(*tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseFloat(t *testing.T) {
	got := ParseFloat("14.2")
	require.NotNil(t, got)
	assert.InDelta(t, 14.2, *got, 1e-9)

	assert.Nil(t, ParseFloat(""))
	assert.Nil(t, ParseFloat("abc"))
	assert.Nil(t, ParseFloat("12,5"))

	zero := ParseFloat("0")
	require.NotNil(t, zero)
	assert.Equal(t, 0.0, *zero)
}

func TestParseBool(t *testing.T) {
	truthy := []string{"true", "TRUE", "True", "t", "yes", "Yes", "y", "1"}
	for _, s := range truthy {
		assert.True(t, ParseBool(s), "expected %q to be true", s)
	}

	falsy := []string{"false", "FALSE", "no", "n", "0", "", "maybe", "nan"}
	for _, s := range falsy {
		assert.False(t, ParseBool(s), "expected %q to be false", s)
	}
}

func TestSampleTable(t *testing.T) {
	table := SampleTable()

	require.Equal(t, 5, table.Len())
	assert.Zero(t, table.Flagged)

	ids := make([]string, 0, 5)
	for _, p := range table.Rows {
		ids = append(ids, p.PatientID)
		assert.True(t, p.Valid)
		assert.NotNil(t, p.BirthDate)
		assert.NotNil(t, p.LastVisit)
		assert.NotNil(t, p.Glucose)
		assert.NotNil(t, p.Hemoglobin)
	}
	assert.Equal(t, []string{"P001", "P002", "P003", "P004", "P005"}, ids)

	p, ok := table.FindByID("P002")
	require.True(t, ok)
	assert.True(t, p.GuardrailViolation)

	_, ok = table.FindByID("P999")
	assert.False(t, ok)
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func timePtr(year int, month time.Month, day, hour, minute int) *time.Time {
	d := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
	return &d
}
