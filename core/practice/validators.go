package practice

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/mazoezi/core"
)

var (
	requiredTag = "required"

	timeOfDayTag  = "timeofday"
	timeOfDayText = "must be a time of day in 24h HH:MM format"

	practiceDaysTag  = "practicedays"
	practiceDaysText = "invalid practice days"

	endDateTag  = "enddate"
	endDateText = "end date must not be before start date"

	repeatRequiredTag  = "repeatrequired"
	repeatRequiredText = "this field is required for a multiple-practice schedule"

	daysRequiredTag  = "daysrequired"
	daysRequiredText = "select at least one practice day for a weekly schedule"
)

// InitValidators registers the practice domain validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(timeOfDayTag, timeOfDayValidation)
	core.RegisterCustomTranslation(validate, translator, timeOfDayTag, timeOfDayText)

	_ = validate.RegisterValidation(practiceDaysTag, practiceDaysValidation)
	core.RegisterCustomTranslation(validate, translator, practiceDaysTag, practiceDaysText)

	validate.RegisterStructValidation(schedStructValidation, NewPractice{})
	core.RegisterCustomTranslation(validate, translator, endDateTag, endDateText)
	core.RegisterCustomTranslation(validate, translator, repeatRequiredTag, repeatRequiredText)
	core.RegisterCustomTranslation(validate, translator, daysRequiredTag, daysRequiredText)
}

// Custom Validators

// timeOfDayValidation accepts 24h wall-clock times ("09:00", "17:45").
func timeOfDayValidation(fl validator.FieldLevel) bool {
	_, err := time.Parse("15:04", fl.Field().String())
	return err == nil
}

// practiceDaysValidation checks that all provided days are weekday names.
func practiceDaysValidation(fl validator.FieldLevel) bool {
	days, ok := fl.Field().Interface().([]string)
	if !ok {
		return false
	}
	for _, day := range days {
		if _, ok := ParseWeekday(day); !ok {
			return false
		}
	}
	return true
}

// schedStructValidation enforces the recurrence rules that depend on the
// schedule type: a multiple-practice schedule needs a repeat pattern and a
// sane date range, and a weekly one needs at least one selected weekday.
func schedStructValidation(sl validator.StructLevel) {
	np, ok := sl.Current().Interface().(NewPractice)
	if !ok || np.ScheduleType != ScheduleMultiple {
		return
	}

	if np.RepeatPattern == "" {
		sl.ReportError(np.RepeatPattern, "repeat_pattern", "RepeatPattern", repeatRequiredTag, "")
	}
	if np.EndDate.IsZero() {
		sl.ReportError(np.EndDate, "end_date", "EndDate", requiredTag, "")
	} else if EndOfDay(np.EndDate).Before(StartOfDay(np.StartDate)) {
		sl.ReportError(np.EndDate, "end_date", "EndDate", endDateTag, "")
	}
	if np.RepeatPattern == RepeatWeekly && len(np.PracticeDays) == 0 {
		sl.ReportError(np.PracticeDays, "practice_days", "PracticeDays", daysRequiredTag, "")
	}
}
