package practice

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/mazoezi/core"
)

// Schedule types
const (
	ScheduleSingle   = "single"
	ScheduleMultiple = "multiple"
)

// Repeat patterns
const (
	RepeatDaily  = "daily"
	RepeatWeekly = "weekly"
)

// Activity duration bounds (minutes); enforced by the input layer.
const (
	MinActivityDuration = 1
	MaxActivityDuration = 180
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday maps a lowercase weekday name to its time.Weekday.
func ParseWeekday(day string) (time.Weekday, bool) {
	wd, ok := weekdays[core.CleanString(day, true /* lower */)]
	return wd, ok
}

// Activity is one named, timed block within a Practice (e.g. a drill).
// StartTime/EndTime are derived by Recompute and are never authoritative on their own.
type Activity struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Duration  int       `json:"duration"` // minutes
	Notes     string    `json:"notes,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	StartTime time.Time `json:"start_time"` // UTC; derived
	EndTime   time.Time `json:"end_time"`   // UTC; derived
}

// Practice is one scheduled practice session with an ordered list of activities.
type Practice struct {
	ID         string     `json:"id"`
	SeriesID   string     `json:"series_id,omitempty"`
	Name       string     `json:"name"`
	StartTime  time.Time  `json:"start_time"` // UTC
	EndTime    time.Time  `json:"end_time"`   // UTC; derived
	Duration   int        `json:"duration"`   // minutes; derived
	Activities []Activity `json:"activities"`
	CreatedAt  time.Time  `json:"created_at"` // UTC
	UpdatedAt  time.Time  `json:"updated_at"` // UTC
}

// Recompute lays the activity timeline out again from the practice start time.
// An empty activity list is a structural no-op: the previously stored
// EndTime/Duration survive instead of collapsing to a zero-length practice.
func (p *Practice) Recompute() {
	if len(p.Activities) == 0 {
		return
	}
	res := BuildTimeline(p.StartTime, p.Activities)
	p.Activities = res.Activities
	p.EndTime = res.EndTime
	p.Duration = res.Duration
}

// ScheduleSpec is the transient recurrence specification a creation form submits.
// It only lives until it is expanded into concrete Practice instances.
type ScheduleSpec struct {
	ScheduleType  string    // single | multiple
	RepeatPattern string    // daily | weekly; meaningful for multiple only
	StartDate     time.Time // civil date
	EndDate       time.Time // civil date; multiple only
	PracticeDays  []string  // weekday names; weekly only
}

// NewPractice contains information needed to schedule one or many practices.
type NewPractice struct {
	Name          string        `json:"name" validate:"required"`
	ScheduleType  string        `json:"schedule_type" validate:"required,oneof=single multiple"`
	RepeatPattern string        `json:"repeat_pattern" validate:"omitempty,oneof=daily weekly"`
	StartDate     time.Time     `json:"start_date" validate:"required"`
	EndDate       time.Time     `json:"end_date"`
	StartTime     string        `json:"start_time" validate:"required,timeofday"`
	PracticeDays  []string      `json:"practice_days" validate:"omitempty,practicedays"`
	Activities    []NewActivity `json:"activities" validate:"omitempty,dive"`
}

func (np *NewPractice) Validate(validate *validator.Validate) error {
	np.Name = core.CleanString(np.Name)
	np.ScheduleType = core.CleanString(np.ScheduleType, true /* lower */)
	np.RepeatPattern = core.CleanString(np.RepeatPattern, true /* lower */)
	np.StartTime = core.CleanString(np.StartTime)
	for i, day := range np.PracticeDays {
		np.PracticeDays[i] = core.CleanString(day, true /* lower */)
	}
	return validate.Struct(np)
}

// Spec extracts the recurrence specification to be expanded.
func (np NewPractice) Spec() ScheduleSpec {
	return ScheduleSpec{
		ScheduleType:  np.ScheduleType,
		RepeatPattern: np.RepeatPattern,
		StartDate:     np.StartDate,
		EndDate:       np.EndDate,
		PracticeDays:  np.PracticeDays,
	}
}

// NewActivity contains information needed to add an Activity to a practice.
type NewActivity struct {
	Name     string   `json:"name" validate:"required"`
	Duration int      `json:"duration" validate:"required,min=1,max=180"`
	Notes    string   `json:"notes"`
	Tags     []string `json:"tags"`
}

func (na *NewActivity) Validate(validate *validator.Validate) error {
	na.Name = core.CleanString(na.Name)
	return validate.Struct(na)
}

// UpdatePractice defines what information may be provided to modify an existing Practice.
// A zero StartTime leaves the practice where it is; a new one reschedules it.
type UpdatePractice struct {
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
}

func (up *UpdatePractice) Validate(origPrac Practice, validate *validator.Validate) error {
	name := core.CleanString(up.Name)
	if name != "" {
		up.Name = name
	} else {
		up.Name = origPrac.Name
	}
	return validate.Struct(up)
}

// UpdateActivity defines what information may be provided to modify an Activity.
// A zero Duration leaves the current duration untouched.
type UpdateActivity struct {
	Name     string   `json:"name"`
	Duration int      `json:"duration" validate:"omitempty,min=1,max=180"`
	Notes    *string  `json:"notes"`
	Tags     []string `json:"tags"`
}

func (ua *UpdateActivity) Validate(validate *validator.Validate) error {
	ua.Name = core.CleanString(ua.Name)
	return validate.Struct(ua)
}

type QueryFilter struct {
	Search   string    `query:"search"`
	SeriesID string    `query:"series_id"`
	From     time.Time `query:"from"`
	To       time.Time `query:"to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.SeriesID == "" && qf.From.IsZero() && qf.To.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.SeriesID = core.CleanString(qf.SeriesID)
}
