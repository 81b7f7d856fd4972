package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/trezcool/mazoezi/core/practice"
)

var expandOut io.Writer = os.Stdout // mockable

// expand previews the concrete practice dates a schedule specification
// produces, without touching the database.
func (cli *commandLine) expand(args []string) error {
	expandCmd := flag.NewFlagSet("expand", flag.ExitOnError)
	schedType := expandCmd.String("type", practice.ScheduleMultiple, "Schedule type: single or multiple.")
	pattern := expandCmd.String("pattern", practice.RepeatDaily, "Repeat pattern: daily or weekly.")
	start := expandCmd.String("start", "", "Start date (YYYY-MM-DD).")
	end := expandCmd.String("end", "", "End date (YYYY-MM-DD); inclusive.")
	days := expandCmd.String("days", "", "Comma-separated weekday names; weekly pattern only.")

	if err := expandCmd.Parse(args); err != nil {
		return err
	}
	if *start == "" {
		expandCmd.Usage()
		return errHelp
	}

	spec := practice.ScheduleSpec{
		ScheduleType:  *schedType,
		RepeatPattern: *pattern,
	}
	var err error
	if spec.StartDate, err = time.Parse("2006-01-02", *start); err != nil {
		return fmt.Errorf("invalid start date %q", *start)
	}
	if *end != "" {
		if spec.EndDate, err = time.Parse("2006-01-02", *end); err != nil {
			return fmt.Errorf("invalid end date %q", *end)
		}
	}
	if *days != "" {
		spec.PracticeDays = strings.Split(*days, ",")
	}

	dates := practice.Expand(spec)
	fmt.Fprintf(expandOut, "%d practice(s)\n", len(dates))
	for _, date := range dates {
		fmt.Fprintln(expandOut, date.Format("Mon 2006-01-02"))
	}
	return nil
}
