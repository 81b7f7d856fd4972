package practice

import (
	"math"
	"time"
)

// TimelineResult is the outcome of laying activities out sequentially.
type TimelineResult struct {
	Activities []Activity
	EndTime    time.Time
	Duration   int // minutes
}

// BuildTimeline computes each activity's start/end time by folding durations
// sequentially from the practice start time. Activities keep their input
// order; consecutive activities always abut (activity[i].EndTime ==
// activity[i+1].StartTime).
//
// It is a pure function of its two inputs: idempotent, drift-free, and safe
// to call after every mutation. The input slice is not modified.
func BuildTimeline(start time.Time, activities []Activity) TimelineResult {
	acts := make([]Activity, len(activities))
	copy(acts, activities)

	cursor := start
	for i := range acts {
		acts[i].StartTime = cursor
		acts[i].EndTime = cursor.Add(time.Duration(acts[i].Duration) * time.Minute)
		cursor = acts[i].EndTime
	}
	return TimelineResult{
		Activities: acts,
		EndTime:    cursor,
		Duration:   int(math.Round(cursor.Sub(start).Minutes())),
	}
}

// MoveActivity returns a copy of activities with the element at `from` moved
// to `to`, shifting the elements in between. Out-of-range indices are clamped
// so a sloppy drag can never corrupt the sequence. Identity travels with the
// activity, not with its slot; callers recompute the timeline afterwards.
func MoveActivity(activities []Activity, from, to int) []Activity {
	acts := make([]Activity, len(activities))
	copy(acts, activities)

	n := len(acts)
	if n < 2 {
		return acts
	}
	from = clampIndex(from, n)
	to = clampIndex(to, n)
	if from == to {
		return acts
	}

	moved := acts[from]
	if from < to {
		copy(acts[from:to], acts[from+1:to+1])
	} else {
		copy(acts[to+1:from+1], acts[to:from])
	}
	acts[to] = moved
	return acts
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
