package v1

import (
	"net/http"

	"go-interview-scheduler/internal/delivery/http/response"
	"go-interview-scheduler/internal/domain"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	availabilityUC domain.AvailabilityUsecase
}

func NewAvailabilityHandler(public, protected *gin.RouterGroup, availabilityUC domain.AvailabilityUsecase, slotLimiter gin.HandlerFunc) {
	handler := &AvailabilityHandler{availabilityUC: availabilityUC}

	// Anonymous discovery through the share token
	public.GET("/availability/public/:token/slots", slotLimiter, handler.FindSlots)

	availability := protected.Group("/availability")
	{
		availability.POST("", handler.CreateProfile)
		availability.GET("", handler.ListProfiles)
		availability.GET("/:id", handler.GetProfile)
		availability.PUT("/:id", handler.UpdateProfile)
		availability.DELETE("/:id", handler.DeleteProfile)

		availability.POST("/:id/windows", handler.AddWindow)
		availability.PUT("/windows/:windowId", handler.UpdateWindow)
		availability.DELETE("/windows/:windowId", handler.DeleteWindow)

		availability.PUT("/:id/events/:eventId", handler.LinkEvent)
		availability.DELETE("/:id/events/:eventId", handler.UnlinkEvent)
	}
}

type ProfileRequest struct {
	Title    string `json:"title" binding:"required,max=200"`
	Timezone string `json:"timezone" binding:"omitempty,iana_tz"`
}

type WindowRequest struct {
	StartTime    string  `json:"start_time" binding:"required,time_of_day"`
	EndTime      string  `json:"end_time" binding:"required,time_of_day"`
	Weekday      *int    `json:"weekday" binding:"omitempty,weekday"`
	SpecificDate *string `json:"specific_date" binding:"omitempty,civil_date"`
}

func (r WindowRequest) input() domain.WindowInput {
	return domain.WindowInput{
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		Weekday:      r.Weekday,
		SpecificDate: r.SpecificDate,
	}
}

// CreateProfile godoc
// @Summary      Create availability profile
// @Tags         availability
// @Accept       json
// @Produce      json
// @Param        profile  body      ProfileRequest  true  "Profile"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /availability [post]
// @Security     BearerAuth
func (h *AvailabilityHandler) CreateProfile(c *gin.Context) {
	var req ProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.availabilityUC.CreateProfile(c.Request.Context(), currentUserID(c), domain.ProfileInput{
		Title:    req.Title,
		Timezone: req.Timezone,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Availability created", profile)
}

// ListProfiles godoc
// @Summary      List own availability profiles
// @Tags         availability
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /availability [get]
// @Security     BearerAuth
func (h *AvailabilityHandler) ListProfiles(c *gin.Context) {
	profiles, err := h.availabilityUC.ListProfiles(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Availability list", profiles)
}

// GetProfile godoc
// @Summary      Get availability profile with windows
// @Tags         availability
// @Produce      json
// @Param        id   path      int  true  "Profile ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /availability/{id} [get]
// @Security     BearerAuth
func (h *AvailabilityHandler) GetProfile(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	detail, err := h.availabilityUC.GetProfile(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Availability details", detail)
}

// UpdateProfile godoc
// @Summary      Update availability profile
// @Description  Changing the timezone keeps the civil time of every window.
// @Tags         availability
// @Accept       json
// @Produce      json
// @Param        id       path      int             true  "Profile ID"
// @Param        profile  body      ProfileRequest  true  "Profile"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /availability/{id} [put]
// @Security     BearerAuth
func (h *AvailabilityHandler) UpdateProfile(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req ProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.availabilityUC.UpdateProfile(c.Request.Context(), currentUserID(c), id, domain.ProfileInput{
		Title:    req.Title,
		Timezone: req.Timezone,
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Availability updated", profile)
}

// DeleteProfile godoc
// @Summary      Delete availability profile and its windows
// @Tags         availability
// @Produce      json
// @Param        id   path      int  true  "Profile ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /availability/{id} [delete]
// @Security     BearerAuth
func (h *AvailabilityHandler) DeleteProfile(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.availabilityUC.DeleteProfile(c.Request.Context(), currentUserID(c), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Availability deleted", nil)
}

// AddWindow godoc
// @Summary      Add a time window
// @Description  Exactly one of weekday or specific_date must be set. end_time before start_time is an overnight window.
// @Tags         availability
// @Accept       json
// @Produce      json
// @Param        id      path      int            true  "Profile ID"
// @Param        window  body      WindowRequest  true  "Window"
// @Success      201     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Router       /availability/{id}/windows [post]
// @Security     BearerAuth
func (h *AvailabilityHandler) AddWindow(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req WindowRequest
	if !bindJSON(c, &req) {
		return
	}

	window, err := h.availabilityUC.AddWindow(c.Request.Context(), currentUserID(c), id, req.input())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Window added", window)
}

// UpdateWindow godoc
// @Summary      Update a time window
// @Tags         availability
// @Accept       json
// @Produce      json
// @Param        windowId  path      int            true  "Window ID"
// @Param        window    body      WindowRequest  true  "Window"
// @Success      200       {object}  response.Response
// @Failure      400       {object}  response.Response
// @Failure      404       {object}  response.Response
// @Router       /availability/windows/{windowId} [put]
// @Security     BearerAuth
func (h *AvailabilityHandler) UpdateWindow(c *gin.Context) {
	windowID, ok := paramID(c, "windowId")
	if !ok {
		return
	}
	var req WindowRequest
	if !bindJSON(c, &req) {
		return
	}

	window, err := h.availabilityUC.UpdateWindow(c.Request.Context(), currentUserID(c), windowID, req.input())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Window updated", window)
}

// DeleteWindow godoc
// @Summary      Delete a time window
// @Tags         availability
// @Produce      json
// @Param        windowId  path      int  true  "Window ID"
// @Success      200       {object}  response.Response
// @Failure      404       {object}  response.Response
// @Router       /availability/windows/{windowId} [delete]
// @Security     BearerAuth
func (h *AvailabilityHandler) DeleteWindow(c *gin.Context) {
	windowID, ok := paramID(c, "windowId")
	if !ok {
		return
	}
	if err := h.availabilityUC.DeleteWindow(c.Request.Context(), currentUserID(c), windowID); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Window deleted", nil)
}

// LinkEvent godoc
// @Summary      Offer an event type on this availability
// @Tags         availability
// @Produce      json
// @Param        id       path      int  true  "Profile ID"
// @Param        eventId  path      int  true  "Event ID"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /availability/{id}/events/{eventId} [put]
// @Security     BearerAuth
func (h *AvailabilityHandler) LinkEvent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	eventID, ok := paramID(c, "eventId")
	if !ok {
		return
	}
	if err := h.availabilityUC.LinkEvent(c.Request.Context(), currentUserID(c), id, eventID); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Event linked", nil)
}

// UnlinkEvent godoc
// @Summary      Stop offering an event type on this availability
// @Tags         availability
// @Produce      json
// @Param        id       path      int  true  "Profile ID"
// @Param        eventId  path      int  true  "Event ID"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /availability/{id}/events/{eventId} [delete]
// @Security     BearerAuth
func (h *AvailabilityHandler) UnlinkEvent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	eventID, ok := paramID(c, "eventId")
	if !ok {
		return
	}
	if err := h.availabilityUC.UnlinkEvent(c.Request.Context(), currentUserID(c), id, eventID); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Event unlinked", nil)
}

// FindSlots godoc
// @Summary      List bookable slots for a date (public)
// @Description  Slots are expressed in the requested timezone, else the caller's stored preference, else the profile timezone.
// @Tags         availability
// @Produce      json
// @Param        token     path      string  true   "Share token"
// @Param        date      query     string  true   "DD-MM-YYYY"
// @Param        timezone  query     string  false  "IANA timezone"
// @Success      200       {object}  response.Response
// @Failure      400       {object}  response.Response
// @Failure      404       {object}  response.Response
// @Failure      429       {object}  response.Response
// @Router       /availability/public/{token}/slots [get]
func (h *AvailabilityHandler) FindSlots(c *gin.Context) {
	listing, err := h.availabilityUC.FindSlots(
		c.Request.Context(),
		c.Param("token"),
		c.Query("date"),
		c.Query("timezone"),
		currentUserID(c),
	)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Available slots", listing)
}
