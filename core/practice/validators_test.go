package practice

import (
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/mazoezi/core"
)

func newTestValidator() *validator.Validate {
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate
}

func fieldErrs(t *testing.T, err error) map[string]string {
	if err == nil {
		return nil
	}
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		t.Fatalf("error = %v, want validator.ValidationErrors", err)
	}
	flds := make(map[string]string, len(vErrs))
	for _, vErr := range vErrs {
		flds[vErr.Field()] = vErr.Tag()
	}
	return flds
}

func TestNewPracticeValidate(t *testing.T) {
	validate := newTestValidator()

	valid := func() NewPractice {
		return NewPractice{
			Name:          "Evening Practice",
			ScheduleType:  ScheduleMultiple,
			RepeatPattern: RepeatWeekly,
			StartDate:     date(2024, 1, 1),
			EndDate:       date(2024, 1, 14),
			StartTime:     "17:00",
			PracticeDays:  []string{"monday", "wednesday"},
		}
	}

	tests := []struct {
		name     string
		mut      func(np *NewPractice)
		wantFlds map[string]string
	}{
		{name: "valid weekly", mut: func(np *NewPractice) {}},
		{
			name: "valid single needs no recurrence fields",
			mut: func(np *NewPractice) {
				np.ScheduleType = ScheduleSingle
				np.RepeatPattern = ""
				np.EndDate = time.Time{}
				np.PracticeDays = nil
			},
		},
		{
			name: "valid daily",
			mut: func(np *NewPractice) {
				np.RepeatPattern = RepeatDaily
				np.PracticeDays = nil
			},
		},
		{
			name:     "missing name",
			mut:      func(np *NewPractice) { np.Name = " " },
			wantFlds: map[string]string{"name": "required"},
		},
		{
			name:     "bad schedule type",
			mut:      func(np *NewPractice) { np.ScheduleType = "sometimes" },
			wantFlds: map[string]string{"schedule_type": "oneof"},
		},
		{
			name:     "bad start time",
			mut:      func(np *NewPractice) { np.StartTime = "5pm" },
			wantFlds: map[string]string{"start_time": "timeofday"},
		},
		{
			name:     "bad start time hour",
			mut:      func(np *NewPractice) { np.StartTime = "25:00" },
			wantFlds: map[string]string{"start_time": "timeofday"},
		},
		{
			name:     "unknown practice day",
			mut:      func(np *NewPractice) { np.PracticeDays = []string{"monday", "someday"} },
			wantFlds: map[string]string{"practice_days": "practicedays"},
		},
		{
			name:     "multiple without repeat pattern",
			mut:      func(np *NewPractice) { np.RepeatPattern = "" },
			wantFlds: map[string]string{"repeat_pattern": "repeatrequired"},
		},
		{
			name:     "multiple without end date",
			mut:      func(np *NewPractice) { np.EndDate = time.Time{} },
			wantFlds: map[string]string{"end_date": "required"},
		},
		{
			name:     "end date before start date",
			mut:      func(np *NewPractice) { np.EndDate = date(2023, 12, 25) },
			wantFlds: map[string]string{"end_date": "enddate"},
		},
		{
			name: "end date same day is fine",
			mut: func(np *NewPractice) {
				np.EndDate = np.StartDate
			},
		},
		{
			name:     "weekly without practice days",
			mut:      func(np *NewPractice) { np.PracticeDays = nil },
			wantFlds: map[string]string{"practice_days": "daysrequired"},
		},
		{
			name: "bad activity duration",
			mut: func(np *NewPractice) {
				np.Activities = []NewActivity{{Name: "Marathon", Duration: 200}}
			},
			wantFlds: map[string]string{"duration": "max"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			np := valid()
			tt.mut(&np)

			err := np.Validate(validate)
			flds := fieldErrs(t, err)

			if len(tt.wantFlds) == 0 {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() expected an error")
			}
			for fld, tag := range tt.wantFlds {
				if gotTag, ok := flds[fld]; !ok || gotTag != tag {
					t.Errorf("missing field error %s=%s; got %v", fld, tag, flds)
				}
			}
		})
	}
}

func TestNewPracticeValidate_cleansInput(t *testing.T) {
	validate := newTestValidator()

	np := NewPractice{
		Name:          "  Evening Practice ",
		ScheduleType:  " Multiple ",
		RepeatPattern: "Weekly",
		StartDate:     date(2024, 1, 1),
		EndDate:       date(2024, 1, 14),
		StartTime:     " 17:00 ",
		PracticeDays:  []string{" Monday", "WEDNESDAY "},
	}
	if err := np.Validate(validate); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if np.Name != "Evening Practice" {
		t.Errorf("Name = %q", np.Name)
	}
	if np.ScheduleType != ScheduleMultiple || np.RepeatPattern != RepeatWeekly {
		t.Errorf("schedule fields not lowered: %q %q", np.ScheduleType, np.RepeatPattern)
	}
	if np.PracticeDays[0] != "monday" || np.PracticeDays[1] != "wednesday" {
		t.Errorf("PracticeDays not cleaned: %v", np.PracticeDays)
	}
}

func TestUpdatePracticeValidate(t *testing.T) {
	validate := newTestValidator()
	orig := Practice{Name: "Original"}

	// blank name falls back to the current one
	up := UpdatePractice{Name: "  "}
	if err := up.Validate(orig, validate); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if up.Name != "Original" {
		t.Errorf("Name = %q, want Original", up.Name)
	}

	up = UpdatePractice{Name: " Renamed "}
	if err := up.Validate(orig, validate); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if up.Name != "Renamed" {
		t.Errorf("Name = %q, want Renamed", up.Name)
	}
}

func TestNewActivityValidate(t *testing.T) {
	validate := newTestValidator()

	tests := []struct {
		name     string
		na       NewActivity
		wantFlds map[string]string
	}{
		{name: "valid", na: NewActivity{Name: "Warmup", Duration: 15}},
		{name: "missing name", na: NewActivity{Duration: 15}, wantFlds: map[string]string{"name": "required"}},
		{name: "missing duration", na: NewActivity{Name: "Warmup"}, wantFlds: map[string]string{"duration": "required"}},
		{name: "duration too long", na: NewActivity{Name: "Warmup", Duration: 181}, wantFlds: map[string]string{"duration": "max"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.na.Validate(validate)
			flds := fieldErrs(t, err)
			if len(tt.wantFlds) == 0 {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			for fld, tag := range tt.wantFlds {
				if gotTag, ok := flds[fld]; !ok || gotTag != tag {
					t.Errorf("missing field error %s=%s; got %v", fld, tag, flds)
				}
			}
		})
	}
}
