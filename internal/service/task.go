package service

import (
	"context"
	"errors"
	"time"

	"github.com/BuzzLyutic/tarefas-api/internal/model"
	"github.com/BuzzLyutic/tarefas-api/internal/repo"
)

var (
	ErrValidation = errors.New("validation error")
)

type TaskService struct {
	repo repo.TaskRepository
}

func NewTaskService(repo repo.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) GetByID(ctx context.Context, id int64) (model.Task, error) {
	return s.repo.Get(ctx, id)
}

func (s *TaskService) GetAll(ctx context.Context) ([]model.Task, error) {
	return s.repo.List(ctx, model.TaskFilter{})
}

// GetByTitle ищет по вхождению подстроки в titulo. Пустой результат - не ошибка.
func (s *TaskService) GetByTitle(ctx context.Context, title string) ([]model.Task, error) {
	return s.repo.List(ctx, model.TaskFilter{TitleContains: &title})
}

// GetByDate сравнивает только календарный день, время суток не учитывается
func (s *TaskService) GetByDate(ctx context.Context, date time.Time) ([]model.Task, error) {
	return s.repo.List(ctx, model.TaskFilter{DueOn: &date})
}

func (s *TaskService) GetByStatus(ctx context.Context, status model.Status) ([]model.Task, error) {
	return s.repo.List(ctx, model.TaskFilter{Status: &status})
}

func (s *TaskService) Create(ctx context.Context, t model.Task) (model.Task, error) {
	if err := s.validate(t); err != nil { // Без даты ничего не сохраняем
		return t, err
	}

	t.ID = 0 // id назначает хранилище
	return s.repo.Create(ctx, t)
}

// Update сначала проверяет существование, затем дату.
// Перезаписываются titulo, descricao и data; статус остается прежним.
func (s *TaskService) Update(ctx context.Context, id int64, t model.Task) (model.Task, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return t, err
	}

	if err := s.validate(t); err != nil {
		return t, err
	}

	existing.Title = t.Title
	existing.Description = t.Description
	existing.DueDate = t.DueDate
	return s.repo.Update(ctx, existing)
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *TaskService) validate(t model.Task) error {
	if !t.HasDate() {
		return ErrValidation
	}
	return nil
}
