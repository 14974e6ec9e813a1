package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nextgen-hub/studenthub/internal"
)

func course(grade string, credits float64) internal.Course {
	return internal.Course{Name: grade + " course", Grade: grade, CreditHours: credits}
}

func TestComputeGPA(t *testing.T) {
	tests := []struct {
		name    string
		courses []internal.Course
		want    float64
	}{
		{name: "no courses", courses: nil, want: 0},
		{name: "zero credits", courses: []internal.Course{course("A", 0), course("B", 0)}, want: 0},
		{name: "weighted", courses: []internal.Course{course("A", 3), course("B", 1)}, want: 3.75},
		{name: "single F", courses: []internal.Course{course("F", 4)}, want: 0},
		{name: "A plus caps at four", courses: []internal.Course{course("A+", 3), course("A", 3)}, want: 4.0},
		{name: "unknown grade counts zero points", courses: []internal.Course{course("A", 1), course("P", 1)}, want: 2.0},
		{name: "negative credits ignored", courses: []internal.Course{course("B", 2), course("F", -5)}, want: 3.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ComputeGPA(tt.courses), 1e-9)
		})
	}
}

func TestComputeGPA_OrderIndependent(t *testing.T) {
	courses := []internal.Course{course("A-", 3), course("C+", 4), course("B", 2), course("D", 1)}
	reversed := make([]internal.Course, len(courses))
	for i, c := range courses {
		reversed[len(courses)-1-i] = c
	}
	assert.InDelta(t, ComputeGPA(courses), ComputeGPA(reversed), 1e-12)
}

func TestGradePoints(t *testing.T) {
	for _, g := range Grades {
		_, ok := GradePoints(g)
		assert.True(t, ok, g)
	}
	p, ok := GradePoints("B-")
	assert.True(t, ok)
	assert.Equal(t, 2.7, p)

	_, ok = GradePoints("E")
	assert.False(t, ok)
}

func TestRoundAndFormatGPA(t *testing.T) {
	assert.Equal(t, 3.46, RoundGPA(3.456))
	assert.Equal(t, 3.33, RoundGPA(10.0/3.0))
	assert.Equal(t, "3.75", FormatGPA(3.75))
	assert.Equal(t, "0.00", FormatGPA(0))
}

func TestTotalCredits(t *testing.T) {
	assert.Equal(t, 4.5, TotalCredits([]internal.Course{course("A", 3), course("B", 1.5), course("C", -1)}))
}
