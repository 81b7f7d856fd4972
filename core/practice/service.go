package practice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/mazoezi/core"
)

var (
	// errors
	ErrNotFound         = errors.New("practice not found")
	ErrActivityNotFound = errors.New("activity not found")
)

type (
	Repository interface {
		// CreatePractices persists a batch of practices; a series expansion is
		// one batch so sql-backed implementations can keep it atomic.
		CreatePractices(ctx context.Context, practices []Practice) ([]Practice, error)
		// QueryPractices applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Practice.Name.
		QueryPractices(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Practice, error)
		GetPractice(ctx context.Context, id string) (Practice, error)
		QueryPracticesBySeriesID(ctx context.Context, seriesID string) ([]Practice, error)
		UpdatePractice(ctx context.Context, prac Practice) (Practice, error)
		DeletePracticesByID(ctx context.Context, ids ...string) (int, error)
		// DeletePracticesBySeriesID removes every practice sharing seriesID in
		// one atomic write.
		DeletePracticesBySeriesID(ctx context.Context, seriesID string) (int, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateSchedule expands the recurrence specification and persists one
// practice instance per resulting date.
func (svc *Service) CreateSchedule(ctx context.Context, np NewPractice) ([]Practice, error) {
	dates := Expand(np.Spec())
	if len(dates) == 0 {
		return nil, core.NewValidationError(nil, core.FieldError{
			Field: "schedule",
			Error: "the schedule produces no practice dates",
		})
	}
	practices, err := Materialize(np, dates)
	if err != nil {
		return nil, err
	}
	return svc.repo.CreatePractices(ctx, practices)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Practice, error) {
	return svc.repo.QueryPractices(ctx, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Practice, error) {
	return svc.repo.GetPractice(ctx, id)
}

// SiblingCount reports how many practices (including prac itself) share its
// series id; a practice without one counts as its own sibling.
func (svc *Service) SiblingCount(ctx context.Context, prac Practice) (int, error) {
	if prac.SeriesID == "" {
		return 1, nil
	}
	siblings, err := svc.repo.QueryPracticesBySeriesID(ctx, prac.SeriesID)
	if err != nil {
		return 0, errors.Wrap(err, "querying series siblings")
	}
	return len(siblings), nil
}

// Update applies changes to the practice the caller is viewing. AllInSeries
// currently mutates only that representative instance: field changes do not
// propagate to siblings. Propagation would be a separate, explicitly tested
// code path.
func (svc *Service) Update(ctx context.Context, id string, up UpdatePractice, scope Scope) (Practice, error) {
	prac, err := svc.repo.GetPractice(ctx, id)
	if err != nil {
		return Practice{}, err
	}
	_ = scope // resolved at the API layer; kept in the signature for the propagate-to-all path

	prac.Name = up.Name
	if !up.StartTime.IsZero() && !up.StartTime.Equal(prac.StartTime) {
		newStart := up.StartTime.UTC()
		if len(prac.Activities) == 0 {
			// keep the stored duration stable: shift the end along with the start
			prac.EndTime = prac.EndTime.Add(newStart.Sub(prac.StartTime))
		}
		prac.StartTime = newStart
		prac.Recompute()
	}
	prac.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdatePractice(ctx, prac)
}

// Delete removes the practice, or its whole series under ScopeAllInSeries.
// If the series has no other members left by operation time, the delete
// silently degrades to a single-instance delete.
func (svc *Service) Delete(ctx context.Context, id string, scope Scope) error {
	prac, err := svc.repo.GetPractice(ctx, id)
	if err != nil {
		return err
	}

	if scope == ScopeAllInSeries && prac.SeriesID != "" {
		siblings, err := svc.repo.QueryPracticesBySeriesID(ctx, prac.SeriesID)
		if err != nil {
			return errors.Wrap(err, "querying series siblings")
		}
		if len(siblings) > 1 {
			_, err = svc.repo.DeletePracticesBySeriesID(ctx, prac.SeriesID)
			return errors.Wrap(err, "deleting series")
		}
	}

	_, err = svc.repo.DeletePracticesByID(ctx, id)
	return errors.Wrap(err, "deleting practice")
}

// AddActivity appends an activity to the practice and recomputes its timeline
// before the persistence write.
func (svc *Service) AddActivity(ctx context.Context, practiceID string, na NewActivity) (Practice, error) {
	prac, err := svc.repo.GetPractice(ctx, practiceID)
	if err != nil {
		return Practice{}, err
	}

	prac.Activities = append(prac.Activities, Activity{
		ID:       uuid.New().String(),
		Name:     na.Name,
		Duration: na.Duration,
		Notes:    na.Notes,
		Tags:     na.Tags,
	})
	prac.Recompute()
	prac.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdatePractice(ctx, prac)
}

// UpdateActivity edits one activity (resize, rename, notes, tags) and
// recomputes the timeline.
func (svc *Service) UpdateActivity(ctx context.Context, practiceID, activityID string, ua UpdateActivity) (Practice, error) {
	prac, err := svc.repo.GetPractice(ctx, practiceID)
	if err != nil {
		return Practice{}, err
	}

	idx := activityIndex(prac.Activities, activityID)
	if idx < 0 {
		return Practice{}, ErrActivityNotFound
	}
	act := &prac.Activities[idx]
	if ua.Name != "" {
		act.Name = ua.Name
	}
	if ua.Duration != 0 {
		act.Duration = ua.Duration
	}
	if ua.Notes != nil {
		act.Notes = *ua.Notes
	}
	if ua.Tags != nil {
		act.Tags = ua.Tags
	}
	prac.Recompute()
	prac.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdatePractice(ctx, prac)
}

// RemoveActivity drops one activity and recomputes the timeline. Removing the
// last activity keeps the practice's stored end time and duration.
func (svc *Service) RemoveActivity(ctx context.Context, practiceID, activityID string) (Practice, error) {
	prac, err := svc.repo.GetPractice(ctx, practiceID)
	if err != nil {
		return Practice{}, err
	}

	idx := activityIndex(prac.Activities, activityID)
	if idx < 0 {
		return Practice{}, ErrActivityNotFound
	}
	prac.Activities = append(prac.Activities[:idx], prac.Activities[idx+1:]...)
	prac.Recompute()
	prac.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdatePractice(ctx, prac)
}

// MoveActivity applies a completed drag-reorder and recomputes the timeline.
func (svc *Service) MoveActivity(ctx context.Context, practiceID string, from, to int) (Practice, error) {
	prac, err := svc.repo.GetPractice(ctx, practiceID)
	if err != nil {
		return Practice{}, err
	}

	prac.Activities = MoveActivity(prac.Activities, from, to)
	prac.Recompute()
	prac.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdatePractice(ctx, prac)
}

func activityIndex(acts []Activity, id string) int {
	for i, act := range acts {
		if act.ID == id {
			return i
		}
	}
	return -1
}
