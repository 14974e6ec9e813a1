package internal

import "time"

type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Semesters a course or GPA snapshot can belong to.
const (
	SemesterFall   = "Fall"
	SemesterSpring = "Spring"
	SemesterSummer = "Summer"
	SemesterWinter = "Winter"
)

type Course struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Grade       string    `json:"grade"` // A+ .. F
	CreditHours float64   `json:"credit_hours"`
	Semester    string    `json:"semester"`
	Year        int       `json:"year"`
	CreatedAt   time.Time `json:"created_at"`
}

// GPASnapshot is written once per (user, semester, year) and never overwritten.
type GPASnapshot struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	GPA           float64   `json:"gpa"`
	CumulativeGPA float64   `json:"cumulative_gpa"`
	Semester      string    `json:"semester"`
	Year          int       `json:"year"`
	CalculatedAt  time.Time `json:"calculated_at"`
}

// Mood labels, best to worst.
const (
	MoodAmazing  = "amazing"
	MoodGood     = "good"
	MoodOkay     = "okay"
	MoodBad      = "bad"
	MoodTerrible = "terrible"
)

type MoodEntry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Mood       string    `json:"mood"`
	Note       string    `json:"note,omitempty"`
	Activities []string  `json:"activities,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type JournalEntry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Tags       []string  `json:"tags,omitempty"`
	MoodBefore string    `json:"mood_before,omitempty"`
	MoodAfter  string    `json:"mood_after,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type QuizCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type QuizQuestion struct {
	ID            string   `json:"id"`
	CategoryID    string   `json:"category_id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// QuizAttempt is the persisted outcome of a finished quiz. Append-only.
type QuizAttempt struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	CategoryID     string    `json:"category_id"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Answers        []int     `json:"answers"`
	TimeTaken      int       `json:"time_taken"` // seconds
	CompletedAt    time.Time `json:"completed_at"`
}

type College struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Location       string   `json:"location,omitempty"`
	State          string   `json:"state,omitempty"`
	GPARequirement *float64 `json:"gpa_requirement,omitempty"`
	SATRequirement *int     `json:"sat_requirement,omitempty"`
	Majors         []string `json:"majors,omitempty"`
}

type SavedCollege struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CollegeID string    `json:"college_id"`
	College   *College  `json:"college,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Task statuses. TaskOverdue is derived and never stored.
const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
	TaskOverdue    = "overdue"
)

type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    string     `json:"priority"` // low, medium, high
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
