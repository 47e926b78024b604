// Package export hands the enriched roster and the grade book to output
// sinks as two named tables.
package export

import (
	"context"

	"github.com/shrimpsizemoose/rollbook/internal/gradebook"
	"github.com/shrimpsizemoose/rollbook/internal/models"
)

const (
	RosterSheet    = "Roster"
	GradeBookSheet = "GradeBook"
)

type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

type Exporter interface {
	Export(ctx context.Context, sheets []Sheet) error
}

var rosterHeader = []string{
	"class", "timetable", "time", "student_no", "name", "email", "form_submit_count",
}

var gradeBookHeader = append(append([]string{}, rosterHeader...),
	"absent_full",
	"report_status",
	"paiza_done",
	"site_requirements_done",
	"site_requirements_total",
	"final_status",
	"attitude_penalty",
	"attended",
	"attendance_rate",
	"attendance_points",
	"report_points",
	"paiza_points",
	"site_points",
	"form_points",
	"final_points",
	"learning_points_raw",
	"learning_points",
	"total",
	"grade",
	"attendance_gate",
	"final_judgement",
	"summary_line",
)

func rosterRow(e models.EnrichedEntry) []any {
	return []any{e.Class, e.Timetable, e.Time, e.StudentNo, e.Name, e.Email, e.FormSubmitCount}
}

// Sheets lays out a run result as the Roster and GradeBook tables.
func Sheets(res gradebook.Result) []Sheet {
	roster := Sheet{Name: RosterSheet, Header: rosterHeader}
	for _, e := range res.Roster {
		roster.Rows = append(roster.Rows, rosterRow(e))
	}

	book := Sheet{Name: GradeBookSheet, Header: gradeBookHeader}
	for _, r := range res.GradeBook {
		book.Rows = append(book.Rows, append(rosterRow(r.EnrichedEntry),
			r.AbsentFull,
			r.ReportStatus,
			r.PaizaDone,
			r.SiteRequirementsDone,
			r.SiteRequirementsTotal,
			r.FinalStatus,
			r.AttitudePenalty,
			r.Attended,
			r.AttendanceRate,
			r.AttendancePoints,
			r.ReportPoints,
			r.PaizaPoints,
			r.SitePoints,
			r.FormPoints,
			r.FinalPoints,
			r.LearningRaw,
			r.LearningPoints,
			r.Total,
			r.Grade,
			r.AttendanceGate,
			r.FinalJudgement,
			r.SummaryLine,
		))
	}

	return []Sheet{roster, book}
}
