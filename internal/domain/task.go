package domain

import "time"

// Category is the fixed set of task categories.
type Category string

const (
	CategoryGeneral  Category = "General"
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryStudy    Category = "Study"
	CategoryHealth   Category = "Health"
)

// Categories lists every valid category.
var Categories = []Category{
	CategoryGeneral,
	CategoryWork,
	CategoryPersonal,
	CategoryStudy,
	CategoryHealth,
}

// ParseCategory maps a form value to a Category. An empty value defaults to
// General; anything outside the fixed set is rejected.
func ParseCategory(s string) (Category, bool) {
	if s == "" {
		return CategoryGeneral, true
	}
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

type Task struct {
	ID        int64      `db:"id" json:"id"`
	UserID    int64      `db:"user_id" json:"user_id"`
	Text      string     `db:"task" json:"task"`
	Category  Category   `db:"category" json:"category"`
	IsDone    bool       `db:"is_done" json:"is_done"`
	DueDate   *time.Time `db:"due_date" json:"due_date,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`

	// Due-date badges computed at listing time, never stored.
	IsOverdue bool `db:"-" json:"overdue"`
	IsDueSoon bool `db:"-" json:"due_soon"`
}

// Overdue reports whether the task's due date has passed.
func (t *Task) Overdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now)
}

// DueSoon reports whether the task is due within the next 24 hours.
func (t *Task) DueSoon(now time.Time) bool {
	if t.DueDate == nil || t.DueDate.Before(now) {
		return false
	}
	return t.DueDate.Sub(now) < 24*time.Hour
}

// Progress returns the completion percentage, rounded to the nearest integer.
// Zero tasks means zero percent.
func Progress(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(float64(done)/float64(total)*100 + 0.5)
}

// Progress color bands.
const (
	ProgressRed   = "#f44336"
	ProgressAmber = "#ff9800"
	ProgressGreen = "#4caf50"
)

// ProgressColor maps a completion percentage to its color band.
func ProgressColor(percent int) string {
	switch {
	case percent >= 80:
		return ProgressGreen
	case percent >= 50:
		return ProgressAmber
	default:
		return ProgressRed
	}
}
