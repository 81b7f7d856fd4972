package practice

import (
	"testing"
	"time"
)

func TestParseScope(t *testing.T) {
	tests := []struct {
		raw     string
		want    Scope
		wantErr error
	}{
		{raw: "", want: ScopeThisOnly},
		{raw: "this", want: ScopeThisOnly},
		{raw: "series", want: ScopeAllInSeries},
		{raw: "all", wantErr: errInvalidScope},
		{raw: "Series", wantErr: errInvalidScope},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			scope, err := ParseScope(tt.raw)
			if err != tt.wantErr {
				t.Fatalf("ParseScope(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if err == nil && scope != tt.want {
				t.Errorf("ParseScope(%q) = %v, want %v", tt.raw, scope, tt.want)
			}
		})
	}
}

func TestResolveScope(t *testing.T) {
	tests := []struct {
		name         string
		prac         Practice
		siblingCount int
		want         ScopeDecision
	}{
		{name: "no series", prac: Practice{}, siblingCount: 1, want: DecisionSingle},
		{name: "series shrunk to one", prac: Practice{SeriesID: "s"}, siblingCount: 1, want: DecisionSingle},
		{name: "series with siblings", prac: Practice{SeriesID: "s"}, siblingCount: 3, want: DecisionRequiresChoice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveScope(tt.prac, tt.siblingCount); got != tt.want {
				t.Errorf("ResolveScope() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMaterialize(t *testing.T) {
	np := NewPractice{
		Name:      "Morning Skate",
		StartTime: "06:30",
		Activities: []NewActivity{
			{Name: "Warmup", Duration: 15},
			{Name: "Drills", Duration: 45},
		},
	}
	dates := []time.Time{date(2024, 1, 1), date(2024, 1, 3), date(2024, 1, 8)}

	practices, err := Materialize(np, dates)
	if err != nil {
		t.Fatalf("Materialize() failed: %v", err)
	}
	if len(practices) != len(dates) {
		t.Fatalf("Materialize() returned %d practices, want %d", len(practices), len(dates))
	}

	seriesID := practices[0].SeriesID
	if seriesID == "" {
		t.Error("expected a series id on a multi-date expansion")
	}

	seenActIDs := make(map[string]bool)
	for i, prac := range practices {
		if prac.ID == "" {
			t.Errorf("practice[%d] has no id", i)
		}
		if prac.SeriesID != seriesID {
			t.Errorf("practice[%d].SeriesID = %s, want %s", i, prac.SeriesID, seriesID)
		}
		if prac.Name != np.Name {
			t.Errorf("practice[%d].Name = %s, want %s", i, prac.Name, np.Name)
		}

		wantStart := dates[i].Add(6*time.Hour + 30*time.Minute)
		if !prac.StartTime.Equal(wantStart) {
			t.Errorf("practice[%d].StartTime = %v, want %v", i, prac.StartTime, wantStart)
		}
		if !prac.EndTime.Equal(wantStart.Add(60 * time.Minute)) {
			t.Errorf("practice[%d].EndTime = %v, want %v", i, prac.EndTime, wantStart.Add(60*time.Minute))
		}
		if prac.Duration != 60 {
			t.Errorf("practice[%d].Duration = %d, want 60", i, prac.Duration)
		}

		if len(prac.Activities) != len(np.Activities) {
			t.Fatalf("practice[%d] has %d activities, want %d", i, len(prac.Activities), len(np.Activities))
		}
		for _, act := range prac.Activities {
			if act.ID == "" {
				t.Errorf("practice[%d] activity %q has no id", i, act.Name)
			}
			if seenActIDs[act.ID] {
				t.Errorf("activity id %s shared across instances", act.ID)
			}
			seenActIDs[act.ID] = true
		}
	}
}

func TestMaterialize_singleDate(t *testing.T) {
	np := NewPractice{Name: "Tryouts", StartTime: "18:00"}

	practices, err := Materialize(np, []time.Time{date(2024, 1, 5)})
	if err != nil {
		t.Fatalf("Materialize() failed: %v", err)
	}
	if len(practices) != 1 {
		t.Fatalf("Materialize() returned %d practices, want 1", len(practices))
	}
	prac := practices[0]
	if prac.SeriesID != "" {
		t.Errorf("SeriesID = %s, want none on a single-date expansion", prac.SeriesID)
	}
	// no activities yet: the practice starts and ends at the same instant
	if !prac.EndTime.Equal(prac.StartTime) {
		t.Errorf("EndTime = %v, want %v", prac.EndTime, prac.StartTime)
	}
	if prac.Duration != 0 {
		t.Errorf("Duration = %d, want 0", prac.Duration)
	}
}

func TestMaterialize_badStartTime(t *testing.T) {
	np := NewPractice{Name: "Tryouts", StartTime: "6pm"}
	if _, err := Materialize(np, []time.Time{date(2024, 1, 5)}); err == nil {
		t.Error("Materialize() expected an error for a malformed start time")
	}
}
