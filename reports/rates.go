// Package reports computes attendance statistics and read views over a
// snapshot of the school state. Nothing here mutates or persists.
package reports

import (
	"math"

	"attendance-server-go/models"
)

// percent returns present/total as a whole percent, 0 when total is 0.
func percent(present, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(present) / float64(total) * 100))
}

// percentOneDecimal returns present/total as a percent with one decimal, 0 when total is 0.
func percentOneDecimal(present, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(present)/float64(total)*1000) / 10
}

// tally counts the records accepted by keep.
func tally(records []models.AttendanceRecord, keep func(models.AttendanceRecord) bool) (present, total int) {
	for _, r := range records {
		if !keep(r) {
			continue
		}
		total++
		if r.IsPresent() {
			present++
		}
	}
	return present, total
}

// classOf maps student IDs to their class.
func classOf(c models.Collections) map[string]string {
	m := make(map[string]string, len(c.Students))
	for _, s := range c.Students {
		m[s.ID] = s.Class
	}
	return m
}

func classTally(c models.Collections, students map[string]string, class string) (present, total int) {
	return tally(c.Attendance, func(r models.AttendanceRecord) bool {
		cl, ok := students[r.StudentID]
		return ok && cl == class
	})
}

// ClassAttendanceRate is the whole percent of present records among the records of
// the students of a class.
func ClassAttendanceRate(c models.Collections, class string) int {
	return percent(classTally(c, classOf(c), class))
}

// OverallAttendanceRate is the whole percent of present records among all records.
func OverallAttendanceRate(c models.Collections) int {
	return percent(tally(c.Attendance, func(models.AttendanceRecord) bool { return true }))
}
