package models

type Identity struct {
	Class     string
	StudentNo string
}

type RosterEntry struct {
	Class     string `json:"class"`
	Timetable string `json:"timetable"`
	Time      string `json:"time"`
	StudentNo string `json:"student_no"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

func (r RosterEntry) Identity() Identity {
	return Identity{Class: r.Class, StudentNo: r.StudentNo}
}

// EnrichedEntry is a roster row after the form data was merged in.
type EnrichedEntry struct {
	RosterEntry
	FormSubmitCount int `json:"form_submit_count"`
}

// TimeSlot is a weekly window during which a class meets.
// Weekday runs Monday=0 .. Sunday=6.
type TimeSlot struct {
	Weekday     int
	StartMinute int
	EndMinute   int
	Class       string
}
