package metrics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"medinext-server/internal/models"
)

// Feed entry types.
const (
	EntryTypeAlert         = "alert"
	EntryTypeLabResult     = "lab_result"
	EntryTypeAppointment   = "appointment"
	EntryTypePrescription  = "prescription"
	EntryTypeQuestionnaire = "questionnaire"
)

// Feed entry priorities.
const (
	PriorityCritical = "critical"
	PriorityNormal   = "normal"
)

// DefaultFeedLimit caps the activity feed length.
const DefaultFeedLimit = 10

// Entry is one line of the recent-activity feed.
type Entry struct {
	Time     string `json:"time"`
	Activity string `json:"activity"`
	Type     string `json:"type"`
	Priority string `json:"priority"`
}

// Feed derives activity entries from records visited within the recent
// window. Alert entries are classified through the same critical predicate
// the summary counts use; routine entries come from conditions and
// medications. Entries are ordered most recent first and capped at limit.
func Feed(table *models.Table, now time.Time, limit int) []Entry {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}

	type timedEntry struct {
		visit time.Time
		entry Entry
	}
	entries := make([]timedEntry, 0, 32)

	add := func(p models.Patient, activity, entryType, priority string) {
		entries = append(entries, timedEntry{
			visit: *p.LastVisit,
			entry: Entry{
				Time:     relativeTime(*p.LastVisit, now),
				Activity: activity,
				Type:     entryType,
				Priority: priority,
			},
		})
	}

	rows := []models.Patient(nil)
	if table != nil {
		rows = table.Rows
	}
	for _, p := range rows {
		if p.LastVisit == nil {
			continue
		}
		if now.Sub(*p.LastVisit).Hours()/24 > recentWindowDays {
			continue
		}

		if IsCritical(p) {
			if p.Glucose != nil && *p.Glucose > 200 {
				add(p, fmt.Sprintf("Critical: High glucose level (%.1f mg/dL) detected for %s", *p.Glucose, p.Name),
					EntryTypeAlert, PriorityCritical)
			}
			if p.Hemoglobin != nil && *p.Hemoglobin < 12 {
				add(p, fmt.Sprintf("Alert: Low hemoglobin (%.1f g/dL) for %s", *p.Hemoglobin, p.Name),
					EntryTypeAlert, PriorityCritical)
			}
			if p.GuardrailViolation {
				add(p, fmt.Sprintf("Guardrail violation detected for %s", p.Name),
					EntryTypeAlert, PriorityCritical)
			}
		}

		for _, token := range ConditionTokens(p.Conditions) {
			switch {
			case containsFold(token, "diabetes"):
				add(p, fmt.Sprintf("Diabetes management review completed for %s", p.Name),
					EntryTypeQuestionnaire, PriorityNormal)
			case containsFold(token, "hypertension"):
				add(p, fmt.Sprintf("Blood pressure monitoring scheduled for %s", p.Name),
					EntryTypeAppointment, PriorityNormal)
			}
		}

		if p.Glucose != nil && *p.Glucose > 126 {
			add(p, fmt.Sprintf("Lab results: Elevated glucose levels for %s", p.Name),
				EntryTypeLabResult, PriorityNormal)
		}
		if p.Medications != "" && !equalsFold(p.Medications, "none") {
			add(p, fmt.Sprintf("Prescription review completed for %s", p.Name),
				EntryTypePrescription, PriorityNormal)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].visit.After(entries[j].visit)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.entry)
	}
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}

func equalsFold(s, other string) bool {
	return strings.EqualFold(strings.TrimSpace(s), other)
}

func relativeTime(visit, now time.Time) string {
	hours := int(now.Sub(visit).Hours())
	if hours < 0 {
		hours = 0
	}
	if hours < 24 {
		return fmt.Sprintf("%d hours ago", hours)
	}
	return fmt.Sprintf("%d days ago", hours/24)
}
