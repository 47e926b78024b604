package models

type GradeInput struct {
	Entry EnrichedEntry
	Inputs
}

// GradeRecord is one grade book row.
type GradeRecord struct {
	EnrichedEntry
	Inputs

	Attended         int     `json:"attended"`
	AttendanceRate   float64 `json:"attendance_rate"`
	AttendancePoints float64 `json:"attendance_points"`
	ReportPoints     float64 `json:"report_points"`
	PaizaPoints      float64 `json:"paiza_points"`
	SitePoints       float64 `json:"site_points"`
	FormPoints       float64 `json:"form_points"`
	FinalPoints      float64 `json:"final_points"`
	LearningRaw      float64 `json:"learning_points_raw"`
	LearningPoints   float64 `json:"learning_points"`
	Total            float64 `json:"total"`
	Grade            string  `json:"grade"`
	AttendanceGate   string  `json:"attendance_gate"`
	FinalJudgement   string  `json:"final_judgement"`
	SummaryLine      string  `json:"summary_line"`
}
