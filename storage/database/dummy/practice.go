package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/mazoezi/core"
	"github.com/trezcool/mazoezi/core/practice"
)

type practiceRepository struct {
	db *practiceTable
}

var _ practice.Repository = (*practiceRepository)(nil) // interface compliance check

func NewPracticeRepository(db *DB) practice.Repository {
	return &practiceRepository{db: db.practice}
}

// clone deep-copies a practice so callers never share slices with the table.
func clone(prac practice.Practice) practice.Practice {
	cpy := prac
	if prac.Activities != nil {
		cpy.Activities = make([]practice.Activity, len(prac.Activities))
		copy(cpy.Activities, prac.Activities)
		for i, act := range cpy.Activities {
			if act.Tags != nil {
				cpy.Activities[i].Tags = append([]string(nil), act.Tags...)
			}
		}
	}
	return cpy
}

func (repo *practiceRepository) query() []practice.Practice {
	practices := make([]practice.Practice, 0, len(repo.db.table))
	for _, prac := range repo.db.table {
		practices = append(practices, clone(*prac))
	}
	sort.Slice(practices, func(i, j int) bool { return practices[i].StartTime.Before(practices[j].StartTime) })
	return practices
}

func (repo *practiceRepository) CreatePractices(ctx context.Context, practices []practice.Practice) ([]practice.Practice, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	created := make([]practice.Practice, 0, len(practices))
	for _, prac := range practices {
		if prac.ID == "" {
			prac.ID = uuid.New().String()
		}
		cpy := clone(prac)
		repo.db.table[prac.ID] = &cpy
		created = append(created, prac)
	}
	return created, nil
}

func (repo *practiceRepository) QueryPractices(ctx context.Context, filter *practice.QueryFilter, ordering []core.DBOrdering) ([]practice.Practice, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	practices := repo.query()
	if filter == nil || filter.IsEmpty() {
		return practices, nil
	}

	if filter.Search != "" {
		var filtered []practice.Practice
		for _, p := range practices {
			if strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
				filtered = append(filtered, p)
			}
		}
		practices = filtered
	}
	if practices != nil && filter.SeriesID != "" {
		var filtered []practice.Practice
		for _, p := range practices {
			if p.SeriesID == filter.SeriesID {
				filtered = append(filtered, p)
			}
		}
		practices = filtered
	}
	if practices != nil && !filter.From.IsZero() {
		var filtered []practice.Practice
		fromUTC := filter.From.UTC()
		for _, p := range practices {
			if p.StartTime.Equal(fromUTC) || p.StartTime.After(fromUTC) {
				filtered = append(filtered, p)
			}
		}
		practices = filtered
	}
	if practices != nil && !filter.To.IsZero() {
		var filtered []practice.Practice
		toUTC := filter.To.UTC()
		for _, p := range practices {
			if p.StartTime.Before(toUTC) || p.StartTime.Equal(toUTC) {
				filtered = append(filtered, p)
			}
		}
		practices = filtered
	}

	return practices, nil
}

func (repo *practiceRepository) GetPractice(ctx context.Context, id string) (practice.Practice, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if id != "" {
		if prac, ok := repo.db.table[id]; ok {
			return clone(*prac), nil
		}
	}
	return practice.Practice{}, practice.ErrNotFound
}

func (repo *practiceRepository) QueryPracticesBySeriesID(ctx context.Context, seriesID string) ([]practice.Practice, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var practices []practice.Practice
	if seriesID == "" {
		return practices, nil
	}
	for _, prac := range repo.query() {
		if prac.SeriesID == seriesID {
			practices = append(practices, prac)
		}
	}
	return practices, nil
}

func (repo *practiceRepository) UpdatePractice(ctx context.Context, prac practice.Practice) (practice.Practice, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[prac.ID]; !ok {
		return practice.Practice{}, practice.ErrNotFound
	}
	cpy := clone(prac)
	repo.db.table[prac.ID] = &cpy
	return prac, nil
}

func (repo *practiceRepository) DeletePracticesByID(ctx context.Context, ids ...string) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var cnt int
	for _, id := range ids {
		if _, ok := repo.db.table[id]; ok {
			delete(repo.db.table, id)
			cnt++
		}
	}
	return cnt, nil
}

func (repo *practiceRepository) DeletePracticesBySeriesID(ctx context.Context, seriesID string) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var cnt int
	if seriesID == "" {
		return cnt, nil
	}
	for id, prac := range repo.db.table {
		if prac.SeriesID == seriesID {
			delete(repo.db.table, id)
			cnt++
		}
	}
	return cnt, nil
}
