package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nextgen-hub/studenthub/internal"
	"github.com/nextgen-hub/studenthub/internal/metrics"
	"github.com/nextgen-hub/studenthub/internal/notify"
	"github.com/nextgen-hub/studenthub/internal/storage"
)

type CourseRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Grade       string  `json:"grade" validate:"required,oneof=A+ A A- B+ B B- C+ C C- D+ D F"`
	CreditHours float64 `json:"credit_hours" validate:"required,gt=0,lte=30"`
	Semester    string  `json:"semester" validate:"required,oneof=Fall Spring Summer Winter"`
	Year        int     `json:"year" validate:"required,gte=1900,lte=2200"`
}

func ValidateCourseRequest(body *CourseRequest) error {
	return validateStruct(body)
}

// GPASummary is the figure set shown above the course list.
type GPASummary struct {
	GPA          float64 `json:"gpa"`
	Display      string  `json:"gpa_display"`
	TotalCredits float64 `json:"total_credits"`
}

func SummarizeCourses(courses []internal.Course) GPASummary {
	gpa := metrics.ComputeGPA(courses)
	return GPASummary{
		GPA:          metrics.RoundGPA(gpa),
		Display:      metrics.FormatGPA(gpa),
		TotalCredits: metrics.TotalCredits(courses),
	}
}

func CreateCourse(ctx context.Context, repo storage.CourseRepository, pub notify.Publisher, user *internal.User, body *CourseRequest) (*internal.Course, error) {
	course := &internal.Course{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Name:        body.Name,
		Grade:       body.Grade,
		CreditHours: body.CreditHours,
		Semester:    body.Semester,
		Year:        body.Year,
		CreatedAt:   time.Now(),
	}
	if err := repo.SaveCourse(ctx, course); err != nil {
		return nil, err
	}
	publish(pub, TableCourses, notify.OpInsert, user.ID, course.ID)
	return course, nil
}

func DeleteCourse(ctx context.Context, repo storage.CourseRepository, pub notify.Publisher, user *internal.User, id string) error {
	if err := repo.DeleteCourse(ctx, user.ID, id); err != nil {
		return err
	}
	publish(pub, TableCourses, notify.OpDelete, user.ID, id)
	return nil
}

// GPAStore is what recording a snapshot needs.
type GPAStore interface {
	storage.CourseRepository
	storage.GPARepository
}

// RecordGPASnapshot computes the GPA over all of the user's courses and stores
// it for (semester, year) unless that term already has a snapshot. Existing
// snapshots are never overwritten.
func RecordGPASnapshot(ctx context.Context, repo GPAStore, pub notify.Publisher, user *internal.User, semester string, year int) (*internal.GPASnapshot, bool, error) {
	courses, err := repo.ListCourses(ctx, user.ID)
	if err != nil {
		return nil, false, err
	}
	gpa := metrics.ComputeGPA(courses)
	snap := &internal.GPASnapshot{
		ID:            uuid.NewString(),
		UserID:        user.ID,
		GPA:           gpa,
		CumulativeGPA: gpa,
		Semester:      semester,
		Year:          year,
		CalculatedAt:  time.Now(),
	}
	inserted, err := repo.InsertGPASnapshotIfAbsent(ctx, snap)
	if err != nil {
		return nil, false, err
	}
	if inserted {
		publish(pub, TableGPAHistory, notify.OpInsert, user.ID, snap.ID)
	}
	return snap, inserted, nil
}
