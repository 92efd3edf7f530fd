package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/tarefas-api/internal/model"
	"github.com/BuzzLyutic/tarefas-api/internal/repo"
	"github.com/BuzzLyutic/tarefas-api/internal/service"
	"github.com/BuzzLyutic/tarefas-api/pkg/respond"
)

const (
	msgEmptyDate = "A data da tarefa não pode ser vazia"
	msgInvalidID = "id inválido"
)

type TaskHandler struct {
	service *service.TaskService
	logger  *zap.Logger
}

func NewTaskHandler(srv *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service: srv,
		logger:  logger,
	}
}

// GetByID - GET /Tarefa/{id}
func (h *TaskHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	task, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

// GetAll - GET /Tarefa/ObterTodos
func (h *TaskHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.GetAll(r.Context())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, tasks)
}

// GetByTitle - GET /Tarefa/ObterPorTitulo?titulo=
// Пустой результат отдается как 404, в отличие от поиска по дате и статусу.
func (h *TaskHandler) GetByTitle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if !query.Has("titulo") {
		respond.Error(w, r, http.StatusBadRequest, "titulo é obrigatório")
		return
	}

	tasks, err := h.service.GetByTitle(r.Context(), query.Get("titulo"))
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	if len(tasks) == 0 {
		respond.Status(w, r, http.StatusNotFound)
		return
	}
	respond.JSON(w, r, http.StatusOK, tasks)
}

// GetByDate - GET /Tarefa/ObterPorData?data=
func (h *TaskHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	date, err := model.ParseDate(r.URL.Query().Get("data"))
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := h.service.GetByDate(r.Context(), date)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, tasks)
}

// GetByStatus - GET /Tarefa/ObterPorStatus?status=
func (h *TaskHandler) GetByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := model.ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := h.service.GetByStatus(r.Context(), status)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, tasks)
}

// Create - POST /Tarefa
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeTask(w, r)
	if !ok {
		return
	}

	task, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/Tarefa/%d", task.ID))
	respond.JSON(w, r, http.StatusCreated, task)
}

// Update - PUT /Tarefa/{id}. Отвечает 200 без тела.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeTask(w, r)
	if !ok {
		return
	}

	if _, err := h.service.Update(r.Context(), id, req); err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.Status(w, r, http.StatusOK)
}

// Delete - DELETE /Tarefa/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.Status(w, r, http.StatusNoContent)
}

func (h *TaskHandler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, msgInvalidID)
		return 0, false
	}
	return id, true
}

func (h *TaskHandler) decodeTask(w http.ResponseWriter, r *http.Request) (model.Task, bool) {
	var req model.Task

	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, "empty request body")
		return req, false
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return req, false
	}
	return req, true
}

func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repo.ErrorNotFound):
		respond.Status(w, r, http.StatusNotFound)
	case errors.Is(err, service.ErrValidation):
		respond.Error(w, r, http.StatusBadRequest, msgEmptyDate)
	default:
		h.logger.Error("internal error", zap.Error(err), zap.String("path", r.URL.Path))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}
