package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BuzzLyutic/tarefas-api/internal/model"
	"github.com/BuzzLyutic/tarefas-api/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTaskRepository - мок репозитория
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, t model.Task) (model.Task, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) Get(ctx context.Context, id int64) (model.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, t model.Task) (model.Task, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var jan1 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestTaskService_Create(t *testing.T) {
	tests := []struct {
		name      string
		task      model.Task
		setupMock func(*MockTaskRepository)
		wantErr   error
	}{
		{
			name: "successful creation",
			task: model.Task{
				Title:   "Buy milk",
				DueDate: jan1,
			},
			setupMock: func(m *MockTaskRepository) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(t model.Task) bool {
					return t.Title == "Buy milk" && t.DueDate.Equal(jan1)
				})).Return(model.Task{
					ID:      1,
					Title:   "Buy milk",
					DueDate: jan1,
				}, nil)
			},
		},
		{
			name: "client id is ignored",
			task: model.Task{
				ID:      77,
				Title:   "Buy milk",
				DueDate: jan1,
				Status:  model.StatusFinalizado,
			},
			setupMock: func(m *MockTaskRepository) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(t model.Task) bool {
					return t.ID == 0 && t.Status == model.StatusFinalizado
				})).Return(model.Task{ID: 1, Title: "Buy milk", DueDate: jan1, Status: model.StatusFinalizado}, nil)
			},
		},
		{
			name: "validation error - sentinel date",
			task: model.Task{
				Title: "No date",
			},
			setupMock: func(m *MockTaskRepository) {},
			wantErr:   ErrValidation,
		},
		{
			name: "repository failure",
			task: model.Task{
				Title:   "Broken",
				DueDate: jan1,
			},
			setupMock: func(m *MockTaskRepository) {
				m.On("Create", mock.Anything, mock.Anything).Return(model.Task{}, errors.New("connection refused"))
			},
			wantErr: errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			tt.setupMock(mockRepo)

			service := NewTaskService(mockRepo)
			result, err := service.Create(context.Background(), tt.task)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr.Error(), err.Error())
			} else {
				require.NoError(t, err)
				assert.NotZero(t, result.ID)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_Queries(t *testing.T) {
	found := []model.Task{{ID: 1, Title: "Buy milk", DueDate: jan1}}

	t.Run("get all uses empty filter", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("List", mock.Anything, model.TaskFilter{}).Return(found, nil)

		tasks, err := NewTaskService(mockRepo).GetAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, found, tasks)
		mockRepo.AssertExpectations(t)
	})

	t.Run("by title", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("List", mock.Anything, mock.MatchedBy(func(f model.TaskFilter) bool {
			return f.TitleContains != nil && *f.TitleContains == "milk" && f.DueOn == nil && f.Status == nil
		})).Return(found, nil)

		tasks, err := NewTaskService(mockRepo).GetByTitle(context.Background(), "milk")
		require.NoError(t, err)
		assert.Len(t, tasks, 1)
		mockRepo.AssertExpectations(t)
	})

	t.Run("by date", func(t *testing.T) {
		day := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)
		mockRepo := new(MockTaskRepository)
		mockRepo.On("List", mock.Anything, mock.MatchedBy(func(f model.TaskFilter) bool {
			return f.DueOn != nil && f.DueOn.Equal(day) && f.TitleContains == nil
		})).Return(found, nil)

		tasks, err := NewTaskService(mockRepo).GetByDate(context.Background(), day)
		require.NoError(t, err)
		assert.Len(t, tasks, 1)
		mockRepo.AssertExpectations(t)
	})

	t.Run("by status", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("List", mock.Anything, mock.MatchedBy(func(f model.TaskFilter) bool {
			return f.Status != nil && *f.Status == model.StatusFinalizado
		})).Return([]model.Task{}, nil)

		tasks, err := NewTaskService(mockRepo).GetByStatus(context.Background(), model.StatusFinalizado)
		require.NoError(t, err)
		assert.Empty(t, tasks)
		mockRepo.AssertExpectations(t)
	})
}

func TestTaskService_Update(t *testing.T) {
	stored := model.Task{ID: 1, Title: "Buy milk", Description: "2L", DueDate: jan1, Status: model.StatusFinalizado}
	jan2 := jan1.AddDate(0, 0, 1)

	t.Run("overwrites title, description and date but keeps status", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Get", mock.Anything, int64(1)).Return(stored, nil)
		mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(t model.Task) bool {
			return t.ID == 1 &&
				t.Title == "Buy bread" &&
				t.Description == "" &&
				t.DueDate.Equal(jan2) &&
				t.Status == model.StatusFinalizado
		})).Return(model.Task{ID: 1, Title: "Buy bread", DueDate: jan2, Status: model.StatusFinalizado}, nil)

		service := NewTaskService(mockRepo)
		result, err := service.Update(context.Background(), 1, model.Task{
			Title:   "Buy bread",
			DueDate: jan2,
			Status:  model.StatusPendente,
		})

		require.NoError(t, err)
		assert.Equal(t, "Buy bread", result.Title)
		assert.Equal(t, model.StatusFinalizado, result.Status)
		mockRepo.AssertExpectations(t)
	})

	t.Run("not found is checked before the date", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Get", mock.Anything, int64(99)).Return(model.Task{}, repo.ErrorNotFound)

		service := NewTaskService(mockRepo)
		_, err := service.Update(context.Background(), 99, model.Task{Title: "No date"})

		assert.ErrorIs(t, err, repo.ErrorNotFound)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("sentinel date on existing task", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Get", mock.Anything, int64(1)).Return(stored, nil)

		service := NewTaskService(mockRepo)
		_, err := service.Update(context.Background(), 1, model.Task{Title: "No date"})

		assert.ErrorIs(t, err, ErrValidation)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})
}

func TestTaskService_Delete(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockRepo.On("Delete", mock.Anything, int64(1)).Return(nil)
	mockRepo.On("Delete", mock.Anything, int64(2)).Return(repo.ErrorNotFound)

	service := NewTaskService(mockRepo)

	require.NoError(t, service.Delete(context.Background(), 1))
	assert.ErrorIs(t, service.Delete(context.Background(), 2), repo.ErrorNotFound)
	mockRepo.AssertExpectations(t)
}

func TestTaskService_Validate(t *testing.T) {
	service := &TaskService{}

	tests := []struct {
		name    string
		task    model.Task
		wantErr bool
	}{
		{
			name:    "valid task",
			task:    model.Task{Title: "Valid", DueDate: jan1},
			wantErr: false,
		},
		{
			name:    "empty title is allowed",
			task:    model.Task{DueDate: jan1},
			wantErr: false,
		},
		{
			name:    "sentinel date",
			task:    model.Task{Title: "Task"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.validate(tt.task)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
