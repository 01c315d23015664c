package parser

import (
	"strings"

	"github.com/hatamisg/rutin/internal/calendar"
	"github.com/hatamisg/rutin/internal/errors"
	"github.com/hatamisg/rutin/internal/model"
)

// scheduleAliases maps shorthand schedule names to weekday lists.
var scheduleAliases = map[string][]int{
	"daily":    {calendar.Sunday, calendar.Monday, calendar.Tuesday, calendar.Wednesday, calendar.Thursday, calendar.Friday, calendar.Saturday},
	"everyday": {calendar.Sunday, calendar.Monday, calendar.Tuesday, calendar.Wednesday, calendar.Thursday, calendar.Friday, calendar.Saturday},
	"all":      {calendar.Sunday, calendar.Monday, calendar.Tuesday, calendar.Wednesday, calendar.Thursday, calendar.Friday, calendar.Saturday},
	"weekdays": {calendar.Monday, calendar.Tuesday, calendar.Wednesday, calendar.Thursday, calendar.Friday},
	"weekends": {calendar.Saturday, calendar.Sunday},
}

// ParseSchedule parses a comma-separated schedule expression into a weekday
// set. Accepts short day names ("mon,wed,fri"), full names ("monday"), or
// the aliases "daily", "weekdays", and "weekends".
func ParseSchedule(input string) (model.WeekdaySet, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return model.WeekdaySet{}, errors.ErrEmptySchedule
	}

	if alias, ok := scheduleAliases[input]; ok {
		return model.NewWeekdaySet(alias...)
	}

	var days []int
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		day, err := model.ParseWeekday(part)
		if err != nil {
			return model.WeekdaySet{}, errors.NewUserErrorWithField(
				"schedule", part,
				"unknown weekday",
				"Use day names like 'mon,wed,fri', or 'daily', 'weekdays', 'weekends'.",
			)
		}
		days = append(days, day)
	}

	set, err := model.NewWeekdaySet(days...)
	if err != nil {
		return model.WeekdaySet{}, err
	}
	if set.IsEmpty() {
		return model.WeekdaySet{}, errors.ErrEmptySchedule
	}
	return set, nil
}
