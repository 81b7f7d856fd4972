package calendarsvc

import (
	"fmt"
	"strings"

	ics "github.com/arran4/golang-ical"

	"github.com/trezcool/mazoezi/core/practice"
)

// BuildCalendar serializes practices into an iCalendar feed; one VEVENT per
// practice instance, with the activity rundown in the description so the feed
// is useful on its own in any calendar client.
func BuildCalendar(appName string, practices []practice.Practice) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//" + appName + "//EN")

	for _, prac := range practices {
		event := cal.AddEvent(prac.ID)
		event.SetCreatedTime(prac.CreatedAt)
		event.SetModifiedAt(prac.UpdatedAt)
		event.SetStartAt(prac.StartTime)
		event.SetEndAt(prac.EndTime)
		event.SetSummary(prac.Name)
		if desc := describeActivities(prac.Activities); desc != "" {
			event.SetDescription(desc)
		}
	}
	return cal.Serialize()
}

func describeActivities(acts []practice.Activity) string {
	if len(acts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(acts))
	for _, act := range acts {
		lines = append(lines, fmt.Sprintf("%s - %s: %s (%dmin)",
			act.StartTime.Format("15:04"), act.EndTime.Format("15:04"), act.Name, act.Duration))
	}
	return strings.Join(lines, "\n")
}
