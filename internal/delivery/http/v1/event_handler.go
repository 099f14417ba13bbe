package v1

import (
	"net/http"

	"go-interview-scheduler/internal/delivery/http/response"
	"go-interview-scheduler/internal/domain"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	eventUC domain.EventUsecase
}

func NewEventHandler(public, protected *gin.RouterGroup, eventUC domain.EventUsecase) {
	handler := &EventHandler{eventUC: eventUC}

	public.GET("/events/public/:token", handler.GetPublic)

	events := protected.Group("/events")
	{
		events.POST("", handler.Create)
		events.GET("", handler.List)
		events.GET("/:id", handler.Get)
		events.PUT("/:id", handler.Update)
	}
}

type QuestionRequest struct {
	Key      string `json:"key" binding:"required,max=64"`
	Label    string `json:"label" binding:"required,max=200"`
	Required bool   `json:"required"`
}

type EventRequest struct {
	Title           string            `json:"title" binding:"required,max=200"`
	Description     *string           `json:"description"`
	DurationMinutes int               `json:"duration_minutes" binding:"required,min=1,max=1440"`
	IsActive        *bool             `json:"is_active"`
	IsDefault       *bool             `json:"is_default"`
	Questions       []QuestionRequest `json:"questions" binding:"omitempty,dive"`
}

func (r EventRequest) input() domain.EventInput {
	questions := make([]domain.EventQuestion, 0, len(r.Questions))
	for _, q := range r.Questions {
		questions = append(questions, domain.EventQuestion{Key: q.Key, Label: q.Label, Required: q.Required})
	}
	return domain.EventInput{
		Title:           r.Title,
		Description:     r.Description,
		DurationMinutes: r.DurationMinutes,
		IsActive:        r.IsActive,
		IsDefault:       r.IsDefault,
		Questions:       questions,
	}
}

// Create godoc
// @Summary      Create an event definition
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        event  body      EventRequest  true  "Event"
// @Success      201    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Router       /events [post]
// @Security     BearerAuth
func (h *EventHandler) Create(c *gin.Context) {
	var req EventRequest
	if !bindJSON(c, &req) {
		return
	}

	event, err := h.eventUC.CreateEvent(c.Request.Context(), currentUserID(c), req.input())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Event created", event)
}

// List godoc
// @Summary      List own event definitions
// @Tags         events
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /events [get]
// @Security     BearerAuth
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.eventUC.ListEvents(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Event list", events)
}

// Get godoc
// @Summary      Get an own event definition
// @Tags         events
// @Produce      json
// @Param        id   path      int  true  "Event ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /events/{id} [get]
// @Security     BearerAuth
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	event, err := h.eventUC.GetEvent(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Event details", event)
}

// Update godoc
// @Summary      Update an event definition
// @Description  duration_minutes can only grow.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        id     path      int           true  "Event ID"
// @Param        event  body      EventRequest  true  "Event"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /events/{id} [put]
// @Security     BearerAuth
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req EventRequest
	if !bindJSON(c, &req) {
		return
	}

	event, err := h.eventUC.UpdateEvent(c.Request.Context(), currentUserID(c), id, req.input())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Event updated", event)
}

// GetPublic godoc
// @Summary      Get an active event by share token (public)
// @Tags         events
// @Produce      json
// @Param        token  path      string  true  "Share token"
// @Success      200    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /events/public/{token} [get]
func (h *EventHandler) GetPublic(c *gin.Context) {
	event, err := h.eventUC.GetPublicEvent(c.Request.Context(), c.Param("token"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Event details", event)
}
