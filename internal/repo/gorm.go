package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/BuzzLyutic/tarefas-api/internal/model"
)

// GormTaskRepo хранит задачи через ORM. Работает с postgres и sqlite.
type GormTaskRepo struct {
	db *gorm.DB
}

func NewGormTaskRepo(db *gorm.DB) *GormTaskRepo {
	return &GormTaskRepo{db: db}
}

// AutoMigrate создает таблицу tarefas, если ее еще нет
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Task{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (r *GormTaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	t.ID = 0
	t.DueDate = t.DueDate.UTC()
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return t, fmt.Errorf("failed to create task: %w", err)
	}
	return t, nil
}

func (r *GormTaskRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	var t model.Task
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return t, ErrorNotFound
		}
		return t, fmt.Errorf("failed to find task: %w", err)
	}
	t.DueDate = t.DueDate.UTC()
	return t, nil
}

func (r *GormTaskRepo) List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	query := r.db.WithContext(ctx).Model(&model.Task{})

	if filter.TitleContains != nil {
		query = query.Where(r.containsClause(), *filter.TitleContains)
	}
	if filter.DueOn != nil {
		start, end := model.DayRange(*filter.DueOn)
		query = query.Where("data >= ? AND data < ?", start, end)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", int(*filter.Status))
	}

	tasks := make([]model.Task, 0)
	if err := query.Order("id").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	for i := range tasks {
		tasks[i].DueDate = tasks[i].DueDate.UTC()
	}
	return tasks, nil
}

// Update перезаписывает только titulo, descricao и data. Статус не меняется.
func (r *GormTaskRepo) Update(ctx context.Context, t model.Task) (model.Task, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("id = ?", t.ID).
		Updates(map[string]any{
			"titulo":    t.Title,
			"descricao": t.Description,
			"data":      t.DueDate.UTC(),
		})
	if err := result.Error; err != nil {
		return t, fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return t, ErrorNotFound
	}
	return r.Get(ctx, t.ID)
}

// Delete удаляет запись физически (без soft delete)
func (r *GormTaskRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrorNotFound
	}
	return nil
}

// containsClause - регистрозависимый поиск подстроки для текущего диалекта
func (r *GormTaskRepo) containsClause() string {
	if r.db.Dialector.Name() == "sqlite" {
		return "instr(titulo, ?) > 0"
	}
	return "strpos(titulo, ?) > 0"
}
