package app

import (
	"fmt"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/rollbook/internal/ingest"
	"github.com/shrimpsizemoose/rollbook/internal/models"
)

// ImportAssessments upserts a sheet of manual inputs into the store ahead of
// a run.
func (s *Service) ImportAssessments(t models.Table) (int, error) {
	if s.Store == nil {
		return 0, fmt.Errorf("no assessment store configured, set [assessments] dsn")
	}

	rows, err := ingest.Assessments(t)
	if err != nil {
		return 0, err
	}
	for _, a := range rows {
		if err := s.Store.UpsertAssessment(a); err != nil {
			return 0, fmt.Errorf("failed to import %s/%s: %w", a.Class, a.StudentNo, err)
		}
	}

	logger.Info.Printf("Imported %d assessments", len(rows))
	return len(rows), nil
}
