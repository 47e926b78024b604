package scoring

import (
	"fmt"
	"math"

	"github.com/shrimpsizemoose/rollbook/internal/models"
)

// PaizaTarget is the number of paiza exercises that earns full credit.
const PaizaTarget = 27

const (
	GateOK           = "OK"
	GateInsufficient = "insufficient attendance"

	JudgementPass           = "pass"
	JudgementFail           = "fail"
	JudgementFailAttendance = "fail (insufficient attendance)"
)

type Attendance struct {
	TotalSessions int     `toml:"total_sessions" validate:"gt=0"`
	MaxPoints     float64 `toml:"max_points" validate:"gte=0"`
	GateRate      float64 `toml:"gate_rate" validate:"gte=0,lte=1"`
}

type Weights struct {
	Paiza float64 `toml:"paiza" validate:"gte=0"`
	Site  float64 `toml:"site" validate:"gte=0"`
	Form  float64 `toml:"form" validate:"gte=0"`
}

type Boundaries struct {
	S float64 `toml:"S" validate:"gt=0,gtefield=A"`
	A float64 `toml:"A" validate:"gtefield=B"`
	B float64 `toml:"B" validate:"gtefield=C"`
	C float64 `toml:"C"`
}

type Grader struct {
	Attendance Attendance
	Weights    Weights
	Boundaries Boundaries
}

func NewGrader(attendance Attendance, weights Weights, boundaries Boundaries) *Grader {
	return &Grader{
		Attendance: attendance,
		Weights:    weights,
		Boundaries: boundaries,
	}
}

// round1 rounds half to even at one decimal.
func round1(x float64) float64 {
	return math.RoundToEven(x*10) / 10
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(x, hi))
}

func GradeLetter(score float64, b Boundaries) string {
	switch {
	case score >= b.S:
		return "S"
	case score >= b.A:
		return "A"
	case score >= b.B:
		return "B"
	case score >= b.C:
		return "C"
	default:
		return "D"
	}
}

// Score computes every derived grade book field for one student. Out-of-range
// inputs are clipped, never rejected.
func (g *Grader) Score(in models.GradeInput) models.GradeRecord {
	rec := models.GradeRecord{EnrichedEntry: in.Entry, Inputs: in.Inputs}
	total := g.Attendance.TotalSessions

	rec.Attended = min(max(total-in.AbsentFull, 0), max(total, 0))
	if total > 0 {
		rec.AttendanceRate = float64(rec.Attended) / float64(total)
	}
	rec.AttendancePoints = round1(rec.AttendanceRate * g.Attendance.MaxPoints)

	rec.ReportPoints = ReportPoints(in.ReportStatus)
	rec.PaizaPoints = round1(clamp(in.PaizaDone, 0, PaizaTarget) / PaizaTarget * g.Weights.Paiza)
	rec.SitePoints = round1(math.Max(in.SiteRequirementsDone, 0) / math.Max(in.SiteRequirementsTotal, 1) * g.Weights.Site)
	if total > 0 {
		submitted := min(max(in.Entry.FormSubmitCount, 0), total)
		rec.FormPoints = round1(float64(submitted) / float64(total) * g.Weights.Form)
	}
	rec.FinalPoints = FinalPoints(in.FinalStatus)

	rec.LearningRaw = round1(rec.ReportPoints + rec.PaizaPoints + rec.SitePoints + rec.FormPoints + rec.FinalPoints)
	rec.LearningPoints = round1(math.Max(rec.LearningRaw-in.AttitudePenalty, 0))

	rec.Total = round1(rec.AttendancePoints + rec.LearningPoints)
	rec.Grade = GradeLetter(rec.Total, g.Boundaries)

	rec.AttendanceGate = GateOK
	switch {
	case rec.AttendanceRate < g.Attendance.GateRate:
		rec.AttendanceGate = GateInsufficient
		rec.FinalJudgement = JudgementFailAttendance
	case rec.Total >= g.Boundaries.C:
		rec.FinalJudgement = JudgementPass
	default:
		rec.FinalJudgement = JudgementFail
	}

	rec.SummaryLine = SummaryLine(rec)
	return rec
}

// SummaryLine is the one-line result sent to students.
func SummaryLine(rec models.GradeRecord) string {
	pct := int(math.RoundToEven(rec.AttendanceRate * 100))
	return fmt.Sprintf("Result: %.1f pts (%s) attendance: %d%% judgement: %s",
		rec.Total, rec.Grade, pct, rec.FinalJudgement)
}
