// Package aggregate reduces scoped submissions to one contact and one
// submission count per identity.
package aggregate

import (
	"cmp"
	"slices"
	"sort"
	"time"

	"github.com/shrimpsizemoose/rollbook/internal/models"
)

func byIdentity(a, b models.Identity) int {
	if c := cmp.Compare(a.Class, b.Class); c != 0 {
		return c
	}
	return cmp.Compare(a.StudentNo, b.StudentNo)
}

// LatestContact returns the contact of the chronologically last submission
// per identity. Submissions with equal timestamps keep their input order, so
// the later row wins the tie.
func LatestContact(subs []models.Submission) []models.ContactRecord {
	withContact := make([]models.Submission, 0, len(subs))
	for _, s := range subs {
		if s.Contact != "" {
			withContact = append(withContact, s)
		}
	}
	sort.SliceStable(withContact, func(i, j int) bool {
		return withContact[i].Timestamp.Before(withContact[j].Timestamp)
	})

	latest := make(map[models.Identity]string)
	for _, s := range withContact {
		latest[s.Identity()] = s.Contact
	}

	out := make([]models.ContactRecord, 0, len(latest))
	for id, contact := range latest {
		out = append(out, models.ContactRecord{Class: id.Class, StudentNo: id.StudentNo, Contact: contact})
	}
	slices.SortFunc(out, func(a, b models.ContactRecord) int {
		return byIdentity(
			models.Identity{Class: a.Class, StudentNo: a.StudentNo},
			models.Identity{Class: b.Class, StudentNo: b.StudentNo},
		)
	})
	return out
}

type dayKey struct {
	id   models.Identity
	date string
}

// CountSubmissions counts distinct calendar days (in loc) with at least one
// submission per identity, capped at totalSessions. Re-submitting on the
// same day earns nothing extra.
func CountSubmissions(subs []models.Submission, totalSessions int, loc *time.Location) []models.SubmissionCount {
	if loc == nil {
		loc = time.UTC
	}

	days := make(map[dayKey]bool)
	counts := make(map[models.Identity]int)
	for _, s := range subs {
		k := dayKey{id: s.Identity(), date: s.Timestamp.In(loc).Format(time.DateOnly)}
		if days[k] {
			continue
		}
		days[k] = true
		counts[k.id]++
	}

	out := make([]models.SubmissionCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, models.SubmissionCount{
			Class:     id.Class,
			StudentNo: id.StudentNo,
			Count:     min(n, max(totalSessions, 0)),
		})
	}
	slices.SortFunc(out, func(a, b models.SubmissionCount) int {
		return byIdentity(
			models.Identity{Class: a.Class, StudentNo: a.StudentNo},
			models.Identity{Class: b.Class, StudentNo: b.StudentNo},
		)
	})
	return out
}
