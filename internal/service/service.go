// Package service validates requests and coordinates repositories, calculators
// and change notifications. Handlers call into it; it never touches gin.
package service

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/nextgen-hub/studenthub/internal"
	"github.com/nextgen-hub/studenthub/internal/notify"
)

var validate = validator.New()

// Table names carried on change notifications.
const (
	TableCourses        = "courses"
	TableGPAHistory     = "gpa_history"
	TableMoodEntries    = "mood_entries"
	TableJournalEntries = "journal_entries"
	TableQuizResults    = "quiz_results"
	TableSavedColleges  = "saved_colleges"
	TableTasks          = "tasks"
)

// validateStruct runs the struct tags and marks failures as internal.ErrInvalid.
func validateStruct(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return errors.Wrap(internal.ErrInvalid, err.Error())
	}
	return nil
}

func publish(pub notify.Publisher, table string, op notify.Op, userID, recordID string) {
	if pub == nil {
		return
	}
	pub.Publish(notify.Change{Table: table, Op: op, UserID: userID, RecordID: recordID})
}
