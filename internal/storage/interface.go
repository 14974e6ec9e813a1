package storage

import (
	"context"

	"github.com/nextgen-hub/studenthub/internal"
)

type CourseRepository interface {
	SaveCourse(ctx context.Context, course *internal.Course) error
	ListCourses(ctx context.Context, userID string) ([]internal.Course, error)
	DeleteCourse(ctx context.Context, userID, id string) error
}

type GPARepository interface {
	// InsertGPASnapshotIfAbsent stores snap unless the user already has a snapshot
	// for the same semester and year. It reports whether a row was written.
	InsertGPASnapshotIfAbsent(ctx context.Context, snap *internal.GPASnapshot) (bool, error)
	// ListGPASnapshots returns the user's snapshots oldest first.
	ListGPASnapshots(ctx context.Context, userID string) ([]internal.GPASnapshot, error)
}

type MoodRepository interface {
	SaveMoodEntry(ctx context.Context, entry *internal.MoodEntry) error
	// ListMoodEntries returns at most limit entries, newest first.
	ListMoodEntries(ctx context.Context, userID string, limit int) ([]internal.MoodEntry, error)
}

type JournalRepository interface {
	SaveJournalEntry(ctx context.Context, entry *internal.JournalEntry) error
	UpdateJournalEntry(ctx context.Context, entry *internal.JournalEntry) error
	GetJournalEntry(ctx context.Context, userID, id string) (*internal.JournalEntry, error)
	DeleteJournalEntry(ctx context.Context, userID, id string) error
	ListJournalEntries(ctx context.Context, userID string, limit int) ([]internal.JournalEntry, error)
}

type QuizRepository interface {
	SaveQuizCategory(ctx context.Context, cat *internal.QuizCategory) error
	ListQuizCategories(ctx context.Context) ([]internal.QuizCategory, error)
	SaveQuizQuestion(ctx context.Context, q *internal.QuizQuestion) error
	// GetQuizQuestions returns up to limit questions of a category in a stable
	// order. limit <= 0 returns all of them.
	GetQuizQuestions(ctx context.Context, categoryID string, limit int) ([]internal.QuizQuestion, error)
	InsertQuizResult(ctx context.Context, attempt *internal.QuizAttempt) error
	// ListQuizResults returns the user's attempts, most recent first.
	ListQuizResults(ctx context.Context, userID string, limit int) ([]internal.QuizAttempt, error)
}

type CollegeRepository interface {
	SaveCollege(ctx context.Context, c *internal.College) error
	// ListColleges returns all colleges ordered by name.
	ListColleges(ctx context.Context) ([]internal.College, error)
	GetCollege(ctx context.Context, id string) (*internal.College, error)
	// SaveCollegeForUser returns internal.ErrConflict if the college is already saved.
	SaveCollegeForUser(ctx context.Context, saved *internal.SavedCollege) error
	RemoveSavedCollege(ctx context.Context, userID, id string) error
	ListSavedColleges(ctx context.Context, userID string) ([]internal.SavedCollege, error)
}

type TaskRepository interface {
	SaveTask(ctx context.Context, task *internal.Task) error
	UpdateTask(ctx context.Context, task *internal.Task) error
	GetTask(ctx context.Context, userID, id string) (*internal.Task, error)
	DeleteTask(ctx context.Context, userID, id string) error
	ListTasks(ctx context.Context, userID string) ([]internal.Task, error)
}

// Store bundles every repository behind one backend.
type Store interface {
	CourseRepository
	GPARepository
	MoodRepository
	JournalRepository
	QuizRepository
	CollegeRepository
	TaskRepository
	Close() error
}
