package matching

import (
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/shrimpsizemoose/rollbook/internal/textnorm"
)

// maxExcelSerial is 9999-12-31 23:59:59, the last date Excel can store.
const maxExcelSerial = 2958465.99999

// DefaultLayouts cover Google Forms exports, ISO timestamps and the
// m/d/yy rendering excelize uses for date cells.
var DefaultLayouts = []string{
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"1/2/06 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"2006/1/2",
	"2006-01-02",
}

type TimestampParser struct {
	Layouts  []string
	Location *time.Location
}

func NewTimestampParser(layouts []string, loc *time.Location) TimestampParser {
	if len(layouts) == 0 {
		layouts = DefaultLayouts
	}
	if loc == nil {
		loc = time.UTC
	}
	return TimestampParser{Layouts: layouts, Location: loc}
}

// Parse reads a cell as a wall-clock time in p.Location. A bare positive
// number up to the last Excel date is taken as an Excel serial date. Values
// carrying their own offset are converted to p.Location, so slot resolution
// and calendar days see the same clock.
func (p TimestampParser) Parse(raw string) (time.Time, bool) {
	s := textnorm.Normalize(raw)
	if s == "" {
		return time.Time{}, false
	}
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	layouts := p.Layouts
	if len(layouts) == 0 {
		layouts = DefaultLayouts
	}

	for _, layout := range layouts {
		if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ts.In(loc), true
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial <= maxExcelSerial {
		wall, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(wall.Year(), wall.Month(), wall.Day(),
			wall.Hour(), wall.Minute(), wall.Second(), 0, loc), true
	}
	return time.Time{}, false
}
