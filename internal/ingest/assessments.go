package ingest

import (
	"fmt"
	"strconv"

	"github.com/shrimpsizemoose/rollbook/internal/models"
	"github.com/shrimpsizemoose/rollbook/internal/textnorm"
)

// Assessments reads a sheet of manually entered inputs. class and student_no
// are required columns; every other column is optional and blank cells stay
// unset so the configured defaults apply.
func Assessments(t models.Table) ([]models.Assessment, error) {
	classIdx, noIdx := t.Index("class"), t.Index("student_no")
	if classIdx < 0 || noIdx < 0 {
		return nil, fmt.Errorf("assessment sheet needs class and student_no columns")
	}
	col := func(name string) int { return t.Index(name) }
	absentIdx := col("absent_full")
	reportIdx := col("report_status")
	paizaIdx := col("paiza_done")
	siteDoneIdx := col("site_requirements_done")
	siteTotalIdx := col("site_requirements_total")
	finalIdx := col("final_status")
	penaltyIdx := col("attitude_penalty")

	var out []models.Assessment
	for i, row := range t.Rows {
		line := i + 2
		a := models.Assessment{
			Class:     textnorm.Normalize(models.Cell(row, classIdx)),
			StudentNo: textnorm.Normalize(models.Cell(row, noIdx)),
		}
		if a.Class == "" || a.StudentNo == "" {
			continue
		}

		var err error
		if a.AbsentFull, err = optionalInt(row, absentIdx); err != nil {
			return nil, fmt.Errorf("row %d: absent_full: %w", line, err)
		}
		if a.PaizaDone, err = optionalFloat(row, paizaIdx); err != nil {
			return nil, fmt.Errorf("row %d: paiza_done: %w", line, err)
		}
		if a.SiteRequirementsDone, err = optionalFloat(row, siteDoneIdx); err != nil {
			return nil, fmt.Errorf("row %d: site_requirements_done: %w", line, err)
		}
		if a.SiteRequirementsTotal, err = optionalFloat(row, siteTotalIdx); err != nil {
			return nil, fmt.Errorf("row %d: site_requirements_total: %w", line, err)
		}
		if a.AttitudePenalty, err = optionalFloat(row, penaltyIdx); err != nil {
			return nil, fmt.Errorf("row %d: attitude_penalty: %w", line, err)
		}
		a.ReportStatus = optionalString(row, reportIdx)
		a.FinalStatus = optionalString(row, finalIdx)

		out = append(out, a)
	}
	return out, nil
}

func optionalString(row []string, idx int) *string {
	s := textnorm.Normalize(models.Cell(row, idx))
	if s == "" {
		return nil
	}
	return &s
}

func optionalFloat(row []string, idx int) (*float64, error) {
	s := textnorm.Normalize(models.Cell(row, idx))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	return &v, nil
}

func optionalInt(row []string, idx int) (*int, error) {
	f, err := optionalFloat(row, idx)
	if err != nil || f == nil {
		return nil, err
	}
	v := int(*f)
	if float64(v) != *f {
		return nil, fmt.Errorf("invalid whole number %v", *f)
	}
	return &v, nil
}
