package service

import (
	"context"
	"strings"
	"time"

	"task_manager/internal/domain"
	"task_manager/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Accepted due date layouts. The first matches the datetime-local form input
// the original UI submitted.
var dueDateLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
}

// TaskService performs validated task CRUD scoped to the owning user. Callers
// must have authenticated and passed CSRF verification before any mutating
// method here runs.
type TaskService struct {
	tasks *repository.TaskRepository
	audit *AuditService
}

func NewTaskService(db *pgxpool.Pool) *TaskService {
	return &TaskService{
		tasks: repository.NewTaskRepository(db),
		audit: NewAuditService(db),
	}
}

// Create validates fields and inserts a task for userID.
func (s *TaskService) Create(ctx context.Context, userID int64, text, category, dueDate string) (*domain.Task, error) {
	text, cat, due, err := validateTaskFields(text, category, dueDate)
	if err != nil {
		return nil, err
	}

	t := &domain.Task{
		UserID:   userID,
		Text:     text,
		Category: cat,
		DueDate:  due,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Edit updates text, category and due date of a task owned by userID. A
// missing task and a task owned by someone else are both authorization
// failures.
func (s *TaskService) Edit(ctx context.Context, userID, id int64, text, category, dueDate string) (*domain.Task, error) {
	t, err := s.loadOwned(ctx, userID, id, "edit")
	if err != nil {
		return nil, err
	}

	text, cat, due, err := validateTaskFields(text, category, dueDate)
	if err != nil {
		return nil, err
	}

	t.Text = text
	t.Category = cat
	t.DueDate = due
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Toggle sets the completion flag of a task owned by userID.
func (s *TaskService) Toggle(ctx context.Context, userID, id int64, done bool) (*domain.Task, error) {
	t, err := s.loadOwned(ctx, userID, id, "toggle")
	if err != nil {
		return nil, err
	}

	if err := s.tasks.SetDone(ctx, id, userID, done); err != nil {
		return nil, err
	}
	t.IsDone = done
	return t, nil
}

// Delete removes a task owned by userID.
func (s *TaskService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.loadOwned(ctx, userID, id, "delete"); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, id, userID)
}

// Listing is the result of a filtered task query plus the user's overall
// summary counts and the progress of the listed set.
type Listing struct {
	Tasks   []*domain.Task `json:"tasks"`
	Total   int64          `json:"total"`
	Done    int64          `json:"done"`
	Pending int64          `json:"pending"`
	Percent int            `json:"percent"`
	Color   string         `json:"color"`
}

// List returns the user's tasks narrowed by the filter, newest first.
func (s *TaskService) List(ctx context.Context, userID int64, f repository.TaskFilter) (*Listing, error) {
	tasks, err := s.tasks.List(ctx, userID, f)
	if err != nil {
		return nil, err
	}

	total, done, err := s.tasks.CountSummary(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Due-date badges apply to open tasks only; completing a task clears them.
	now := time.Now()
	listedDone := 0
	for _, t := range tasks {
		if t.IsDone {
			listedDone++
			continue
		}
		t.IsOverdue = t.Overdue(now)
		t.IsDueSoon = t.DueSoon(now)
	}
	percent := domain.Progress(listedDone, len(tasks))

	return &Listing{
		Tasks:   tasks,
		Total:   total,
		Done:    done,
		Pending: total - done,
		Percent: percent,
		Color:   domain.ProgressColor(percent),
	}, nil
}

func (s *TaskService) loadOwned(ctx context.Context, userID, id int64, op string) (*domain.Task, error) {
	t, err := s.tasks.GetByOwner(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		s.audit.LogForbidden(ctx, userID, id, op)
		return nil, domain.ErrNotAuthorized
	}
	return t, nil
}

func validateTaskFields(text, category, dueDate string) (string, domain.Category, *time.Time, error) {
	var violations []string

	text = strings.TrimSpace(text)
	if text == "" {
		violations = append(violations, "Task cannot be empty")
	}

	cat, ok := domain.ParseCategory(category)
	if !ok {
		violations = append(violations, "Invalid category")
	}

	var due *time.Time
	if strings.TrimSpace(dueDate) != "" {
		parsed, ok := parseDueDate(strings.TrimSpace(dueDate))
		if !ok {
			violations = append(violations, "Invalid date format")
		} else {
			due = &parsed
		}
	}

	if len(violations) > 0 {
		return "", "", nil, &domain.ValidationError{Violations: violations}
	}
	return text, cat, due, nil
}

func parseDueDate(s string) (time.Time, bool) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
