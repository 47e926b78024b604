package models

import "github.com/go-playground/validator/v10"

// Assessment holds the manually entered inputs for one student. Nil fields
// fall back to the configured defaults.
type Assessment struct {
	Class                 string   `db:"class" json:"class" validate:"required"`
	StudentNo             string   `db:"student_no" json:"student_no" validate:"required"`
	AbsentFull            *int     `db:"absent_full" json:"absent_full"`
	ReportStatus          *string  `db:"report_status" json:"report_status"`
	PaizaDone             *float64 `db:"paiza_done" json:"paiza_done"`
	SiteRequirementsDone  *float64 `db:"site_requirements_done" json:"site_requirements_done"`
	SiteRequirementsTotal *float64 `db:"site_requirements_total" json:"site_requirements_total"`
	FinalStatus           *string  `db:"final_status" json:"final_status"`
	AttitudePenalty       *float64 `db:"attitude_penalty" json:"attitude_penalty"`
}

func (a *Assessment) Validate() error {
	validate := validator.New()
	return validate.Struct(a)
}

func (a Assessment) Identity() Identity {
	return Identity{Class: a.Class, StudentNo: a.StudentNo}
}

// Inputs are the resolved manual fields fed to the grader.
type Inputs struct {
	AbsentFull            int     `json:"absent_full"`
	ReportStatus          string  `json:"report_status"`
	PaizaDone             float64 `json:"paiza_done"`
	SiteRequirementsDone  float64 `json:"site_requirements_done"`
	SiteRequirementsTotal float64 `json:"site_requirements_total"`
	FinalStatus           string  `json:"final_status"`
	AttitudePenalty       float64 `json:"attitude_penalty"`
}

// Apply overlays the non-nil fields of a onto base.
func (a Assessment) Apply(base Inputs) Inputs {
	out := base
	if a.AbsentFull != nil {
		out.AbsentFull = *a.AbsentFull
	}
	if a.ReportStatus != nil {
		out.ReportStatus = *a.ReportStatus
	}
	if a.PaizaDone != nil {
		out.PaizaDone = *a.PaizaDone
	}
	if a.SiteRequirementsDone != nil {
		out.SiteRequirementsDone = *a.SiteRequirementsDone
	}
	if a.SiteRequirementsTotal != nil {
		out.SiteRequirementsTotal = *a.SiteRequirementsTotal
	}
	if a.FinalStatus != nil {
		out.FinalStatus = *a.FinalStatus
	}
	if a.AttitudePenalty != nil {
		out.AttitudePenalty = *a.AttitudePenalty
	}
	return out
}
