package matching

import (
	"fmt"
	"time"

	"github.com/shrimpsizemoose/rollbook/internal/models"
	"github.com/shrimpsizemoose/rollbook/internal/textnorm"
	"github.com/shrimpsizemoose/rollbook/internal/timeslot"
)

const (
	PolicyExplicit = "explicit"
	PolicyInferred = "inferred"
)

// ClassFunc yields the class a form row belongs to, or "".
type ClassFunc func(row []string, ts time.Time) string

// Policy decides which class a submission counts toward. The student number
// always comes from the form itself.
type Policy interface {
	Name() string
	Bind(form models.Table) (ClassFunc, error)
}

// ExplicitKey reads the class straight from a form column.
type ExplicitKey struct {
	ClassColumn string
}

func (p ExplicitKey) Name() string { return PolicyExplicit }

func (p ExplicitKey) Bind(form models.Table) (ClassFunc, error) {
	idx := form.Index(p.ClassColumn)
	if p.ClassColumn == "" || idx < 0 {
		return nil, &MissingColumnsError{Missing: []string{p.ClassColumn}}
	}
	return func(row []string, _ time.Time) string {
		return textnorm.Normalize(models.Cell(row, idx))
	}, nil
}

// InferredTime picks the class whose weekly slot contains the timestamp.
type InferredTime struct {
	Slots []models.TimeSlot
}

func (p InferredTime) Name() string { return PolicyInferred }

func (p InferredTime) Bind(models.Table) (ClassFunc, error) {
	slots := p.Slots
	return func(_ []string, ts time.Time) string {
		return timeslot.Resolve(ts, slots)
	}, nil
}

func NewPolicy(name, classColumn string, slots []models.TimeSlot) (Policy, error) {
	switch name {
	case PolicyExplicit:
		return ExplicitKey{ClassColumn: classColumn}, nil
	case PolicyInferred, "":
		return InferredTime{Slots: slots}, nil
	default:
		return nil, fmt.Errorf("unknown matching policy %q", name)
	}
}
