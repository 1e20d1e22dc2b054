// Package query filters and paginates a loaded patient table. Both
// operations are pure: they never mutate the input table, and pagination
// state is owned entirely by the caller.
package query

import (
	"strconv"
	"strings"

	"medinext-server/internal/models"
)

// DefaultPageSize is used when the caller supplies a non-positive size.
const DefaultPageSize = 10

// Page is one slice of a (possibly filtered) table, with enough envelope
// for the caller to render pagination controls.
type Page struct {
	Rows       []models.Patient `json:"rows"`
	PageNumber int              `json:"pageNumber"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
	TotalRows  int              `json:"totalRows"`
}

// Search returns the records whose patient_id, name, conditions,
// medications, glucose (rendered as text) or ssn contains the term,
// case-insensitively. Any single field matching is enough. An empty or
// whitespace-only term returns the table unchanged.
func Search(table *models.Table, term string) *models.Table {
	term = strings.TrimSpace(term)
	if term == "" || table == nil {
		return table
	}
	needle := strings.ToLower(term)

	out := &models.Table{Rows: make([]models.Patient, 0, len(table.Rows))}
	for _, p := range table.Rows {
		if matches(p, needle) {
			out.Rows = append(out.Rows, p)
			if !p.Valid {
				out.Flagged++
			}
		}
	}
	return out
}

func matches(p models.Patient, needle string) bool {
	fields := []string{
		p.PatientID,
		p.Name,
		p.Conditions,
		p.Medications,
		glucoseText(p.Glucose),
		p.SSN,
	}
	for _, field := range fields {
		if field != "" && strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func glucoseText(glucose *float64) string {
	if glucose == nil {
		return ""
	}
	return strconv.FormatFloat(*glucose, 'f', -1, 64)
}

// Paginate slices the table deterministically. The page number is clamped
// into [1, totalPages] first, so an out-of-range request returns the last
// page instead of failing, and totalPages is never below one.
func Paginate(table *models.Table, pageNumber, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total := table.Len()
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageNumber > totalPages {
		pageNumber = totalPages
	}

	start := (pageNumber - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	rows := []models.Patient{}
	if table != nil {
		rows = table.Rows[start:end]
	}

	return Page{
		Rows:       rows,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalRows:  total,
	}
}
