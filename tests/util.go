package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/mazoezi/core/practice"
)

func CreatePractice(
	t *testing.T,
	repo practice.Repository,
	name string,
	start time.Time,
	seriesID string,
	activities ...practice.Activity,
) practice.Practice {
	tstamp := time.Now().UTC()
	prac := practice.Practice{
		ID:         uuid.New().String(),
		SeriesID:   seriesID,
		Name:       name,
		StartTime:  start.UTC(),
		EndTime:    start.UTC(),
		Activities: activities,
		CreatedAt:  tstamp,
		UpdatedAt:  tstamp,
	}
	for i := range prac.Activities {
		if prac.Activities[i].ID == "" {
			prac.Activities[i].ID = uuid.New().String()
		}
	}
	prac.Recompute()

	created, err := repo.CreatePractices(context.Background(), []practice.Practice{prac})
	if err != nil {
		t.Fatalf("createPractice() failed: %v", err)
	}
	return created[0]
}
