package models

import "time"

// Submission is a form row that resolved to an identity and a timestamp.
type Submission struct {
	Row       int
	Class     string
	StudentNo string
	Contact   string
	Timestamp time.Time
}

func (s Submission) Identity() Identity {
	return Identity{Class: s.Class, StudentNo: s.StudentNo}
}

type ContactRecord struct {
	Class     string `json:"class"`
	StudentNo string `json:"student_no"`
	Contact   string `json:"contact"`
}

type SubmissionCount struct {
	Class     string `json:"class"`
	StudentNo string `json:"student_no"`
	Count     int    `json:"form_submit_count"`
}
