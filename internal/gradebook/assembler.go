// Package gradebook merges reconciled form data into the roster and scores
// every roster row.
package gradebook

import (
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/rollbook/internal/models"
)

type Scorer interface {
	Score(in models.GradeInput) models.GradeRecord
}

type Result struct {
	Roster    []models.EnrichedEntry
	GradeBook []models.GradeRecord
}

// Enrich attaches the latest contact and the submission count to each roster
// entry. Identities without form data get an empty contact and a zero count.
func Enrich(entries []models.RosterEntry, contacts []models.ContactRecord, counts []models.SubmissionCount) []models.EnrichedEntry {
	contactOf := make(map[models.Identity]string, len(contacts))
	for _, c := range contacts {
		contactOf[models.Identity{Class: c.Class, StudentNo: c.StudentNo}] = c.Contact
	}
	countOf := make(map[models.Identity]int, len(counts))
	for _, c := range counts {
		countOf[models.Identity{Class: c.Class, StudentNo: c.StudentNo}] = c.Count
	}

	out := make([]models.EnrichedEntry, len(entries))
	for i, e := range entries {
		e.Email = contactOf[e.Identity()]
		out[i] = models.EnrichedEntry{
			RosterEntry:     e,
			FormSubmitCount: countOf[e.Identity()],
		}
	}
	return out
}

type Assembler struct {
	Scorer   Scorer
	Defaults models.Inputs
}

// Assemble produces the enriched roster and one grade record per roster
// entry, in roster order. Manual inputs come from assessments when present
// for the identity, otherwise from Defaults.
func (a *Assembler) Assemble(
	entries []models.RosterEntry,
	contacts []models.ContactRecord,
	counts []models.SubmissionCount,
	assessments []models.Assessment,
) Result {
	enriched := Enrich(entries, contacts, counts)

	manual := make(map[models.Identity]models.Assessment, len(assessments))
	for _, as := range assessments {
		manual[as.Identity()] = as
	}

	book := make([]models.GradeRecord, len(enriched))
	matched := 0
	for i, e := range enriched {
		inputs := a.Defaults
		if as, ok := manual[e.Identity()]; ok {
			inputs = as.Apply(inputs)
			matched++
		}
		book[i] = a.Scorer.Score(models.GradeInput{Entry: e, Inputs: inputs})
	}

	if orphans := len(manual) - matched; orphans > 0 {
		logger.Debug.Printf("%d assessments do not match any roster entry", orphans)
	}

	return Result{Roster: enriched, GradeBook: book}
}
