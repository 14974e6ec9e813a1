package metrics

import (
	"strings"

	"github.com/nextgen-hub/studenthub/internal"
)

// CollegeFilter narrows the college list. Zero values disable a criterion.
type CollegeFilter struct {
	Search string
	State  string
	MinGPA *float64
}

// FilterColleges returns the colleges matching f, in input order. A college
// without a stated GPA requirement is never excluded by MinGPA.
func FilterColleges(colleges []internal.College, f CollegeFilter) []internal.College {
	search := strings.ToLower(f.Search)
	out := make([]internal.College, 0, len(colleges))
	for _, c := range colleges {
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) {
			continue
		}
		if f.State != "" && c.State != f.State {
			continue
		}
		if f.MinGPA != nil && c.GPARequirement != nil && *c.GPARequirement < *f.MinGPA {
			continue
		}
		out = append(out, c)
	}
	return out
}

// MeetsGPARequirement reports whether studentGPA reaches the college's stated
// minimum. It is a display hint only.
func MeetsGPARequirement(c internal.College, studentGPA float64) bool {
	req := 0.0
	if c.GPARequirement != nil {
		req = *c.GPARequirement
	}
	return studentGPA >= req
}
