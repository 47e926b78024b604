// Package timeslot derives weekly class windows from the roster and maps
// submission timestamps onto them.
package timeslot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/rollbook/internal/models"
	"github.com/shrimpsizemoose/rollbook/internal/textnorm"
)

// Weekdays maps the leading character of a timetable code to Monday=0..Sunday=6.
const Weekdays = "月火水木金土日"

type triple struct {
	class, timetable, time string
}

// BuildSlots returns one slot per distinct (class, timetable, time) triple, in
// first-occurrence order. That order breaks ties between overlapping slots.
// Rows whose weekday or time range cannot be parsed yield no slot.
func BuildSlots(entries []models.RosterEntry) []models.TimeSlot {
	seen := make(map[triple]bool)
	var slots []models.TimeSlot
	for _, e := range entries {
		k := triple{
			class:     textnorm.Normalize(e.Class),
			timetable: textnorm.Normalize(e.Timetable),
			time:      textnorm.Normalize(e.Time),
		}
		if seen[k] {
			continue
		}
		seen[k] = true

		if k.class == "" {
			continue
		}
		wd, ok := ParseWeekday(k.timetable)
		if !ok {
			logger.Debug.Printf("Skipping slot for class %q: unknown weekday in %q", k.class, k.timetable)
			continue
		}
		start, end, err := ParseRange(k.time)
		if err != nil {
			logger.Debug.Printf("Skipping slot for class %q: %v", k.class, err)
			continue
		}
		slots = append(slots, models.TimeSlot{
			Weekday:     wd,
			StartMinute: start,
			EndMinute:   end,
			Class:       k.class,
		})
	}
	return slots
}

func ParseWeekday(timetable string) (int, bool) {
	for _, r := range timetable {
		i := 0
		for _, w := range Weekdays {
			if w == r {
				return i, true
			}
			i++
		}
		return 0, false
	}
	return 0, false
}

// ParseRange parses "H:MM-H:MM" into minutes of day. The window is half-open.
func ParseRange(s string) (int, int, error) {
	left, right, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, fmt.Errorf("time range %q has no separator", s)
	}
	start, err := parseClock(left)
	if err != nil {
		return 0, 0, fmt.Errorf("time range %q: %w", s, err)
	}
	end, err := parseClock(right)
	if err != nil {
		return 0, 0, fmt.Errorf("time range %q: %w", s, err)
	}
	if end <= start {
		return 0, 0, fmt.Errorf("time range %q ends before it starts", s)
	}
	return start, end, nil
}

func parseClock(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(m) != 2 {
		return 0, fmt.Errorf("bad clock %q", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("bad hour in %q", s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("bad minute in %q", s)
	}
	return hour*60 + minute, nil
}

// Resolve returns the class of the first slot containing ts, or "" when no
// slot matches. Weekday and minute are taken in ts's own location.
func Resolve(ts time.Time, slots []models.TimeSlot) string {
	if ts.IsZero() {
		return ""
	}
	wd := (int(ts.Weekday()) + 6) % 7
	minute := ts.Hour()*60 + ts.Minute()
	for _, s := range slots {
		if s.Weekday == wd && s.StartMinute <= minute && minute < s.EndMinute {
			return s.Class
		}
	}
	return ""
}

type Overlap struct {
	First, Second models.TimeSlot
}

func (o Overlap) String() string {
	return fmt.Sprintf("%s and %s share %s %s",
		o.First.Class, o.Second.Class,
		string([]rune(Weekdays)[o.First.Weekday]),
		clockRange(max(o.First.StartMinute, o.Second.StartMinute), min(o.First.EndMinute, o.Second.EndMinute)),
	)
}

func clockRange(start, end int) string {
	return fmt.Sprintf("%d:%02d-%d:%02d", start/60, start%60, end/60, end%60)
}

// FindOverlaps lists pairs of slots of different classes whose windows
// intersect on the same weekday. First is always the earlier-defined slot,
// which is the one Resolve picks.
func FindOverlaps(slots []models.TimeSlot) []Overlap {
	var out []Overlap
	for i := range slots {
		for j := i + 1; j < len(slots); j++ {
			a, b := slots[i], slots[j]
			if a.Class == b.Class || a.Weekday != b.Weekday {
				continue
			}
			if a.StartMinute < b.EndMinute && b.StartMinute < a.EndMinute {
				out = append(out, Overlap{First: a, Second: b})
			}
		}
	}
	return out
}
