package scoring

import "github.com/shrimpsizemoose/rollbook/internal/textnorm"

// Report and final-assignment statuses as entered by instructors. Unknown
// statuses score unknownStatusPoints.
const (
	ReportComplete     = "完全完成"
	ReportPartialError = "一部間違い"
	ReportDataError    = "データ間違い"
	ReportBlank        = "未記入"
	ReportMissing      = "未提出"

	FinalMissing   = "未提出"
	FinalSubmitted = "提出"
	FinalGood      = "良い"

	unknownStatusPoints = 0
)

var reportTable = map[string]float64{
	ReportComplete:     20,
	ReportPartialError: 15,
	ReportDataError:    10,
	ReportBlank:        5,
	ReportMissing:      0,
}

var finalTable = map[string]float64{
	FinalMissing:   0,
	FinalSubmitted: 5,
	FinalGood:      10,
}

func lookup(table map[string]float64, status string) float64 {
	if p, ok := table[textnorm.Normalize(status)]; ok {
		return p
	}
	return unknownStatusPoints
}

func ReportPoints(status string) float64 {
	return lookup(reportTable, status)
}

func FinalPoints(status string) float64 {
	return lookup(finalTable, status)
}
