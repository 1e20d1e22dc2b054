package handlers

import (
	"fmt"

	"go.uber.org/zap"

	"medinext-server/internal/models"
	"medinext-server/internal/store"
)

// Dataset source markers surfaced to the UI.
const (
	SourceFile   = "file"
	SourceSample = "sample"
)

// dataset is a loaded table plus the provenance fields every
// dataset-backed response carries.
type dataset struct {
	Table  *models.Table
	Source string
	Banner string
}

// loadDataset loads the configured data file, falling back to the fixed
// sample table when the file is absent or structurally invalid. The page
// must stay renderable; load failures become a banner, not an error
// response.
func loadDataset(st *store.Store, path string, logger *zap.Logger) dataset {
	table, err := st.Load(path)
	if err != nil {
		logger.Warn("primary dataset unavailable, serving sample data",
			zap.String("path", path),
			zap.Error(err),
		)
		return dataset{
			Table:  models.SampleTable(),
			Source: SourceSample,
			Banner: fmt.Sprintf("Could not load patient data (%v). Showing sample data.", err),
		}
	}

	d := dataset{Table: table, Source: SourceFile}
	if table.Flagged > 0 {
		d.Banner = fmt.Sprintf("%d patients have missing critical information", table.Flagged)
	}
	return d
}
