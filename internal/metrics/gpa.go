// Package metrics holds the pure calculators behind the dashboard figures: GPA,
// mood trend, quiz scores, college matching and task status. Nothing here does I/O
// or keeps state between calls.
package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/nextgen-hub/studenthub/internal"
)

// gradePoints maps letter grades onto the 4.0 scale.
var gradePoints = map[string]float64{
	"A+": 4.0, "A": 4.0, "A-": 3.7,
	"B+": 3.3, "B": 3.0, "B-": 2.7,
	"C+": 2.3, "C": 2.0, "C-": 1.7,
	"D+": 1.3, "D": 1.0, "F": 0.0,
}

// Grades lists the recognized letter grades, best first.
var Grades = []string{"A+", "A", "A-", "B+", "B", "B-", "C+", "C", "C-", "D+", "D", "F"}

// GradePoints returns the 4.0-scale value of a letter grade.
func GradePoints(grade string) (float64, bool) {
	p, ok := gradePoints[grade]
	return p, ok
}

// ComputeGPA returns the credit-weighted grade point average of courses.
// Unrecognized grades count as 0.0 points and negative credit hours as zero,
// so the result always lies in [0, 4].
func ComputeGPA(courses []internal.Course) float64 {
	var totalPoints, totalCredits float64
	for _, c := range courses {
		credits := clampCredits(c.CreditHours)
		points, _ := GradePoints(c.Grade)
		totalPoints += points * credits
		totalCredits += credits
	}
	if totalCredits <= 0 {
		return 0
	}
	return totalPoints / totalCredits
}

// TotalCredits sums the (non-negative) credit hours of courses.
func TotalCredits(courses []internal.Course) float64 {
	var total float64
	for _, c := range courses {
		total += clampCredits(c.CreditHours)
	}
	return total
}

// RoundGPA rounds a GPA to two decimals for display.
func RoundGPA(gpa float64) float64 {
	f, _ := decimal.NewFromFloat(gpa).Round(2).Float64()
	return f
}

// FormatGPA renders a GPA with exactly two decimals, e.g. "3.75".
func FormatGPA(gpa float64) string {
	return decimal.NewFromFloat(gpa).StringFixed(2)
}

func clampCredits(h float64) float64 {
	if h < 0 {
		return 0
	}
	return h
}
