package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/shrimpsizemoose/rollbook/internal/models"
)

// AssessmentStore holds the manually entered inputs (absences, report and
// final status, progress counts, penalties) keyed by (class, student_no).
type AssessmentStore interface {
	Close() error
	ApplyMigrations(dir string) error

	ListAssessments() ([]models.Assessment, error)
	UpsertAssessment(a models.Assessment) error
}

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB *sqlx.DB
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from a directory in name order,
// translating dialect if needed
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

func (s *BaseStore) ListAssessments() ([]models.Assessment, error) {
	var out []models.Assessment
	err := s.DB.Select(&out, `
		SELECT
			class,
			student_no,
			absent_full,
			report_status,
			paiza_done,
			site_requirements_done,
			site_requirements_total,
			final_status,
			attitude_penalty
		FROM assessments
		ORDER BY class, student_no
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	return out, nil
}

func (s *BaseStore) UpsertAssessment(a models.Assessment) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("invalid assessment: %w", err)
	}

	_, err := s.DB.NamedExec(`
		INSERT INTO assessments (
			class, student_no, absent_full, report_status, paiza_done,
			site_requirements_done, site_requirements_total, final_status, attitude_penalty
		)
		VALUES (
			:class, :student_no, :absent_full, :report_status, :paiza_done,
			:site_requirements_done, :site_requirements_total, :final_status, :attitude_penalty
		)
		ON CONFLICT(class, student_no) DO UPDATE SET
		absent_full = excluded.absent_full,
		report_status = excluded.report_status,
		paiza_done = excluded.paiza_done,
		site_requirements_done = excluded.site_requirements_done,
		site_requirements_total = excluded.site_requirements_total,
		final_status = excluded.final_status,
		attitude_penalty = excluded.attitude_penalty,
		updated_at = CURRENT_TIMESTAMP
	`, a)
	if err != nil {
		return fmt.Errorf("failed to upsert assessment: %w", err)
	}
	return nil
}
