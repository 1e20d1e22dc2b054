package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medinext-server/internal/config"
	"medinext-server/internal/metrics"
	"medinext-server/internal/models"
	"medinext-server/internal/query"
	"medinext-server/internal/store"
	"medinext-server/internal/utils"
)

// displayDateLayout is how the patient table renders dates.
const displayDateLayout = "02-Jan-2006"

// PatientHandler serves the searchable, paginated patient table and the
// single-patient detail view.
type PatientHandler struct {
	Store  *store.Store
	Config *config.Config
	Logger *zap.Logger
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(st *store.Store, cfg *config.Config, logger *zap.Logger) *PatientHandler {
	return &PatientHandler{Store: st, Config: cfg, Logger: logger}
}

// PatientRow is the table-view shape of one record: dates formatted for
// display, blank optional fields rendered as empty strings.
type PatientRow struct {
	PatientID         string   `json:"patientId"`
	Name              string   `json:"name"`
	Gender            string   `json:"gender"`
	BirthDate         string   `json:"birthDate"`
	LastVisit         string   `json:"lastVisit"`
	MedicalConditions string   `json:"medicalConditions"`
	Medications       string   `json:"medications"`
	Glucose           *float64 `json:"glucose"`
	Hemoglobin        *float64 `json:"hemoglobin"`
	PhoneNumber       string   `json:"phoneNumber"`
	SSN               string   `json:"ssn"`
}

// PatientDetail is the detail-view shape: the table row plus address, age
// and risk flags.
type PatientDetail struct {
	PatientRow
	Address            string `json:"address"`
	Age                *int   `json:"age"`
	GuardrailViolation bool   `json:"guardrailViolationFlag"`
	Critical           bool   `json:"critical"`
}

// ListPatients handles the patient table: free-text search across the
// fixed field list, then deterministic pagination over the filtered rows.
func (h *PatientHandler) ListPatients(c *gin.Context) {
	pageNumber := 1
	if raw := c.Query("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.BadRequest(c, "page must be an integer")
			return
		}
		pageNumber = parsed
	}

	pageSize := query.DefaultPageSize
	if raw := c.Query("page_size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			utils.BadRequest(c, "page_size must be a positive integer")
			return
		}
		pageSize = parsed
	}

	d := loadDataset(h.Store, h.Config.DataFile, h.Logger)
	filtered := query.Search(d.Table, c.Query("search"))
	page := query.Paginate(filtered, pageNumber, pageSize)

	rows := make([]PatientRow, 0, len(page.Rows))
	for _, p := range page.Rows {
		rows = append(rows, toRow(p))
	}

	utils.Success(c, "Patients retrieved", gin.H{
		"rows":       rows,
		"pageNumber": page.PageNumber,
		"pageSize":   page.PageSize,
		"totalPages": page.TotalPages,
		"totalRows":  page.TotalRows,
		"dataSource": d.Source,
		"banner":     d.Banner,
	})
}

// GetPatientByID handles the patient detail view.
func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	d := loadDataset(h.Store, h.Config.DataFile, h.Logger)

	p, ok := d.Table.FindByID(c.Param("id"))
	if !ok {
		utils.NotFound(c, "Patient not found")
		return
	}

	utils.Success(c, "Patient retrieved", gin.H{
		"patient":    toDetail(p, time.Now()),
		"dataSource": d.Source,
		"banner":     d.Banner,
	})
}

func toRow(p models.Patient) PatientRow {
	return PatientRow{
		PatientID:         p.PatientID,
		Name:              p.Name,
		Gender:            string(p.Sex),
		BirthDate:         formatDate(p.BirthDate),
		LastVisit:         formatDate(p.LastVisit),
		MedicalConditions: p.Conditions,
		Medications:       p.Medications,
		Glucose:           p.Glucose,
		Hemoglobin:        p.Hemoglobin,
		PhoneNumber:       p.PhoneNumber,
		SSN:               p.SSN,
	}
}

func toDetail(p models.Patient, now time.Time) PatientDetail {
	return PatientDetail{
		PatientRow:         toRow(p),
		Address:            p.Address,
		Age:                metrics.AgeOf(p, now),
		GuardrailViolation: p.GuardrailViolation,
		Critical:           metrics.IsCritical(p),
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format(displayDateLayout)
}
