package handler

import (
	taskapp "github.com/estatecrm/backend/internal/application/task"
	"github.com/gin-gonic/gin"
)

// TaskHandler handles task endpoints
type TaskHandler struct {
	BaseHandler
	taskService *taskapp.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *taskapp.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Create creates a new task
// POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	var req taskapp.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.taskService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// List returns tasks visible to the actor
// GET /tasks
func (h *TaskHandler) List(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	var filter taskapp.TaskListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	tasks, total, err := h.taskService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, tasks, total, filter.Page, filter.PageSize)
}

// GetOverdue returns tasks past their due date
// GET /tasks/overdue
func (h *TaskHandler) GetOverdue(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	var filter taskapp.TaskListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	tasks, err := h.taskService.GetOverdue(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tasks)
}

// GetByID returns a single task
// GET /tasks/:id
func (h *TaskHandler) GetByID(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	resp, err := h.taskService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update updates a task's details
// PUT /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req taskapp.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.taskService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Assign assigns a task to a user, or clears the assignment
// POST /tasks/:id/assign
func (h *TaskHandler) Assign(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req taskapp.AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.taskService.Assign(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// BulkAssign assigns several tasks to one user
// POST /tasks/bulk-assign
func (h *TaskHandler) BulkAssign(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	var req taskapp.BulkAssignTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.taskService.BulkAssign(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Start moves a pending task to in progress
// POST /tasks/:id/start
func (h *TaskHandler) Start(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	resp, err := h.taskService.Start(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Complete finishes a task
// POST /tasks/:id/complete
func (h *TaskHandler) Complete(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req taskapp.CompleteTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.taskService.Complete(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Cancel cancels a task
// POST /tasks/:id/cancel
func (h *TaskHandler) Cancel(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	resp, err := h.taskService.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes a task
// DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
