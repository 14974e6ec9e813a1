package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/nextgen-hub/studenthub/internal"
	"github.com/nextgen-hub/studenthub/internal/metrics"
	"github.com/nextgen-hub/studenthub/internal/notify"
	"github.com/nextgen-hub/studenthub/internal/storage"
)

// CollegeMatch is a college as listed to a student. MeetsGPA is omitted when the
// student has no courses yet.
type CollegeMatch struct {
	internal.College
	MeetsGPA *bool `json:"meets_gpa,omitempty"`
}

// ParseCollegeFilter builds a filter from raw query values. An empty minGPA
// disables the GPA criterion.
func ParseCollegeFilter(search, state, minGPA string) (metrics.CollegeFilter, error) {
	f := metrics.CollegeFilter{Search: strings.TrimSpace(search), State: strings.TrimSpace(state)}
	if minGPA = strings.TrimSpace(minGPA); minGPA != "" {
		v, err := strconv.ParseFloat(minGPA, 64)
		if err != nil || v < 0 || v > 4 {
			return f, errors.Wrapf(internal.ErrInvalid, "min_gpa %q must be a number between 0 and 4", minGPA)
		}
		f.MinGPA = &v
	}
	return f, nil
}

// SearchColleges filters the catalogue and, when studentGPA is known, marks each
// college with whether the student reaches its stated minimum.
func SearchColleges(ctx context.Context, repo storage.CollegeRepository, f metrics.CollegeFilter, studentGPA *float64) ([]CollegeMatch, error) {
	colleges, err := repo.ListColleges(ctx)
	if err != nil {
		return nil, err
	}
	filtered := metrics.FilterColleges(colleges, f)
	out := make([]CollegeMatch, len(filtered))
	for i, c := range filtered {
		out[i] = CollegeMatch{College: c}
		if studentGPA != nil {
			meets := metrics.MeetsGPARequirement(c, *studentGPA)
			out[i].MeetsGPA = &meets
		}
	}
	return out, nil
}

// StudentGPA returns the user's current GPA, or nil when they have no courses.
func StudentGPA(ctx context.Context, repo storage.CourseRepository, user *internal.User) (*float64, error) {
	courses, err := repo.ListCourses(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, nil
	}
	gpa := metrics.ComputeGPA(courses)
	return &gpa, nil
}

type SaveCollegeRequest struct {
	CollegeID string `json:"college_id" validate:"required"`
}

func ValidateSaveCollegeRequest(body *SaveCollegeRequest) error {
	return validateStruct(body)
}

func SaveCollege(ctx context.Context, repo storage.CollegeRepository, pub notify.Publisher, user *internal.User, body *SaveCollegeRequest) (*internal.SavedCollege, error) {
	college, err := repo.GetCollege(ctx, body.CollegeID)
	if err != nil {
		return nil, err
	}
	saved := &internal.SavedCollege{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CollegeID: college.ID,
		CreatedAt: time.Now(),
	}
	if err := repo.SaveCollegeForUser(ctx, saved); err != nil {
		return nil, err
	}
	saved.College = college
	publish(pub, TableSavedColleges, notify.OpInsert, user.ID, saved.ID)
	return saved, nil
}

func RemoveSavedCollege(ctx context.Context, repo storage.CollegeRepository, pub notify.Publisher, user *internal.User, id string) error {
	if err := repo.RemoveSavedCollege(ctx, user.ID, id); err != nil {
		return err
	}
	publish(pub, TableSavedColleges, notify.OpDelete, user.ID, id)
	return nil
}
