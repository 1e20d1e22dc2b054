package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"medinext-server/internal/models"
)

// RequiredColumns is the exact, case-sensitive header contract of the
// patient dataset. Extra columns are ignored.
var RequiredColumns = []string{
	"patient_id",
	"name",
	"sex",
	"birth_date",
	"address",
	"last_visit",
	"conditions",
	"medications",
	"hemoglobin",
	"glucose",
	"ssn",
	"phone_number",
	"guardrail_violation_flag",
}

// SchemaError reports every required column missing from the header,
// not just the first one found.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// LoadError wraps a file-level read failure with the offending path.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Store loads patient tables from flat files. Loaded tables are cached by
// file modification time, so the per-request reload the dashboard performs
// only touches disk when the dataset actually changed.
type Store struct {
	logger *zap.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	modTime time.Time
	size    int64
	table   *models.Table
}

// New creates a Store.
func New(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		logger: logger,
		cache:  make(map[string]cacheEntry),
	}
}

// Load reads the dataset at path and returns it as an immutable table.
// The file is never written to. Failures are either a *LoadError (file
// absent or unreadable) or a *SchemaError (required columns missing);
// individual malformed cells degrade to nil and are not errors.
func (s *Store) Load(path string) (*models.Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	s.mu.Lock()
	if entry, ok := s.cache[path]; ok && entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
		s.mu.Unlock()
		return entry.table, nil
	}
	s.mu.Unlock()

	var header []string
	var rows [][]string
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		header, rows, err = readXLSX(path)
	} else {
		header, rows, err = readCSV(path)
	}
	if err != nil {
		return nil, err
	}

	table, err := buildTable(header, rows)
	if err != nil {
		return nil, err
	}

	if table.Flagged > 0 {
		s.logger.Warn("dataset rows missing critical fields",
			zap.String("path", path),
			zap.Int("flagged", table.Flagged),
		)
	}
	s.logger.Info("dataset loaded",
		zap.String("path", path),
		zap.Int("rows", table.Len()),
	)

	s.mu.Lock()
	s.cache[path] = cacheEntry{modTime: info.ModTime(), size: info.Size(), table: table}
	s.mu.Unlock()

	return table, nil
}

func readCSV(path string) ([]string, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, &LoadError{Path: path, Err: err}
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, &LoadError{Path: path, Err: errors.New("empty csv")}
		}
		return nil, nil, &LoadError{Path: path, Err: fmt.Errorf("read header: %w", err)}
	}

	rows := make([][]string, 0, 256)
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, &LoadError{Path: path, Err: fmt.Errorf("read row: %w", err)}
		}
		rows = append(rows, record)
	}

	return header, rows, nil
}

func readXLSX(path string) ([]string, [][]string, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, &LoadError{Path: path, Err: err}
	}
	defer file.Close()

	all, err := file.GetRows(file.GetSheetName(0))
	if err != nil {
		return nil, nil, &LoadError{Path: path, Err: err}
	}
	if len(all) == 0 {
		return nil, nil, &LoadError{Path: path, Err: errors.New("empty sheet")}
	}

	return all[0], all[1:], nil
}

func buildTable(header []string, rows [][]string) (*models.Table, error) {
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	table := &models.Table{Rows: make([]models.Patient, 0, len(rows))}
	for _, record := range rows {
		cell := func(col string) string {
			i := index[col]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		p := models.Patient{
			PatientID:          cell("patient_id"),
			Name:               cell("name"),
			Sex:                models.Sex(cell("sex")),
			BirthDate:          models.ParseDate(cell("birth_date")),
			Address:            cell("address"),
			LastVisit:          models.ParseDate(cell("last_visit")),
			Conditions:         cell("conditions"),
			Medications:        cell("medications"),
			Hemoglobin:         models.ParseFloat(cell("hemoglobin")),
			Glucose:            models.ParseFloat(cell("glucose")),
			SSN:                cell("ssn"),
			PhoneNumber:        cell("phone_number"),
			GuardrailViolation: models.ParseBool(cell("guardrail_violation_flag")),
		}
		p.Valid = p.PatientID != "" && p.Name != ""
		if !p.Valid {
			table.Flagged++
		}

		table.Rows = append(table.Rows, p)
	}

	return table, nil
}
