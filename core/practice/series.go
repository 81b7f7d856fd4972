package practice

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Scope says whether an edit/delete targets a single instance or every
// instance in its series.
type Scope string

const (
	ScopeThisOnly    Scope = "this"
	ScopeAllInSeries Scope = "series"
)

var errInvalidScope = errors.New("invalid scope")

// ParseScope parses a scope query value; an empty value defaults to ThisOnly.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeThisOnly:
		return ScopeThisOnly, nil
	case ScopeAllInSeries:
		return ScopeAllInSeries, nil
	}
	return "", errInvalidScope
}

// ScopeDecision is the outcome of resolving whether a scope choice is needed.
type ScopeDecision int

const (
	// DecisionSingle: the operation proceeds as a single-instance operation,
	// no user choice required.
	DecisionSingle ScopeDecision = iota
	// DecisionRequiresChoice: the caller must pick ThisOnly or AllInSeries.
	DecisionRequiresChoice
)

// ResolveScope decides whether operating on prac needs a scope choice.
// A practice with no series id, or a "series" whose membership has shrunk
// to one, behaves exactly like a plain instance.
func ResolveScope(prac Practice, siblingCount int) ScopeDecision {
	if prac.SeriesID == "" || siblingCount <= 1 {
		return DecisionSingle
	}
	return DecisionRequiresChoice
}

// Materialize builds one Practice per expanded date, combining each date with
// the form's time-of-day and carrying identical initial activities (stamped
// with fresh ids per instance). When more than one practice results, all of
// them share a newly generated series id; a single-date expansion gets none.
func Materialize(np NewPractice, dates []time.Time) ([]Practice, error) {
	tod, err := time.Parse("15:04", np.StartTime)
	if err != nil {
		return nil, errors.Wrap(err, "parsing start time")
	}
	offset := time.Duration(tod.Hour())*time.Hour + time.Duration(tod.Minute())*time.Minute

	var seriesID string
	if len(dates) > 1 {
		seriesID = uuid.New().String()
	}

	now := time.Now().UTC()
	practices := make([]Practice, 0, len(dates))
	for _, date := range dates {
		prac := Practice{
			ID:        uuid.New().String(),
			SeriesID:  seriesID,
			Name:      np.Name,
			StartTime: StartOfDay(date).Add(offset),
			CreatedAt: now,
			UpdatedAt: now,
		}
		prac.EndTime = prac.StartTime // no activities yet
		for _, na := range np.Activities {
			prac.Activities = append(prac.Activities, Activity{
				ID:       uuid.New().String(),
				Name:     na.Name,
				Duration: na.Duration,
				Notes:    na.Notes,
				Tags:     na.Tags,
			})
		}
		prac.Recompute()
		practices = append(practices, prac)
	}
	return practices, nil
}
