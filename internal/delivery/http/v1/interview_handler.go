package v1

import (
	"fmt"
	"net/http"
	"time"

	"go-interview-scheduler/internal/delivery/http/response"
	"go-interview-scheduler/internal/domain"

	"github.com/gin-gonic/gin"
)

type InterviewHandler struct {
	schedulingUC domain.SchedulingUsecase
}

func NewInterviewHandler(protected *gin.RouterGroup, schedulingUC domain.SchedulingUsecase, bookingLimiter gin.HandlerFunc) {
	handler := &InterviewHandler{schedulingUC: schedulingUC}

	protected.POST("/availability/:id/book", bookingLimiter, handler.Book)

	interviews := protected.Group("/interviews")
	{
		interviews.GET("", handler.List)
		interviews.GET("/export", handler.Export)
		interviews.GET("/:id", handler.Get)
		interviews.PUT("/:id/reschedule", bookingLimiter, handler.Reschedule)
		interviews.POST("/:id/end", handler.End)
		interviews.GET("/:id/recordings", handler.Recordings)
		interviews.POST("/rooms/:roomId/token", handler.JoinToken)
	}
}

type BookingRequest struct {
	Date          string            `json:"date" binding:"required,civil_date"`
	StartTime     string            `json:"start_time" binding:"required,time_of_day"`
	EndTime       string            `json:"end_time" binding:"required,time_of_day"`
	Timezone      string            `json:"timezone" binding:"omitempty,iana_tz"`
	EventID       *int64            `json:"event_id" binding:"omitempty,gt=0"`
	ApplicationID *int64            `json:"application_id" binding:"omitempty,gt=0"`
	Answers       map[string]string `json:"answers"`
}

func (r BookingRequest) input() domain.BookingInput {
	return domain.BookingInput{
		Date:          r.Date,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Timezone:      r.Timezone,
		EventID:       r.EventID,
		ApplicationID: r.ApplicationID,
		Answers:       r.Answers,
	}
}

// Book godoc
// @Summary      Book a slot on an availability profile
// @Description  Times are civil times in timezone (default: the caller's preference). end_time before start_time ends on the next day.
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        id       path      int             true  "Profile ID"
// @Param        booking  body      BookingRequest  true  "Booking"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      502      {object}  response.Response
// @Router       /availability/{id}/book [post]
// @Security     BearerAuth
func (h *InterviewHandler) Book(c *gin.Context) {
	profileID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req BookingRequest
	if !bindJSON(c, &req) {
		return
	}

	interview, err := h.schedulingUC.BookSlot(c.Request.Context(), profileID, req.input(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Interview scheduled", interview)
}

// Reschedule godoc
// @Summary      Move an interview to a new time
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        id       path      int             true  "Interview ID"
// @Param        booking  body      BookingRequest  true  "New time"
// @Success      200      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /interviews/{id}/reschedule [put]
// @Security     BearerAuth
func (h *InterviewHandler) Reschedule(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req BookingRequest
	if !bindJSON(c, &req) {
		return
	}

	interview, err := h.schedulingUC.Reschedule(c.Request.Context(), id, req.input(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interview rescheduled", interview)
}

// End godoc
// @Summary      End an interview call (organiser only)
// @Tags         interviews
// @Produce      json
// @Param        id   path      int  true  "Interview ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /interviews/{id}/end [post]
// @Security     BearerAuth
func (h *InterviewHandler) End(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	interview, err := h.schedulingUC.EndCall(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interview ended", interview)
}

// JoinToken godoc
// @Summary      Issue a room join token
// @Tags         interviews
// @Produce      json
// @Param        roomId  path      string  true  "Room ID"
// @Success      200     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Router       /interviews/rooms/{roomId}/token [post]
// @Security     BearerAuth
func (h *InterviewHandler) JoinToken(c *gin.Context) {
	token, err := h.schedulingUC.IssueJoinToken(c.Request.Context(), c.Param("roomId"), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Join token issued", token)
}

// Get godoc
// @Summary      Get interview details
// @Tags         interviews
// @Produce      json
// @Param        id   path      int  true  "Interview ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /interviews/{id} [get]
// @Security     BearerAuth
func (h *InterviewHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	detail, err := h.schedulingUC.GetScheduledEventDetail(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interview details", detail)
}

// List godoc
// @Summary      List own interviews
// @Tags         interviews
// @Produce      json
// @Param        status  query     string  false  "all, upcoming or completed"
// @Success      200     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Router       /interviews [get]
// @Security     BearerAuth
func (h *InterviewHandler) List(c *gin.Context) {
	interviews, err := h.schedulingUC.ListInterviews(c.Request.Context(), currentUserID(c), c.Query("status"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interview list", interviews)
}

// Recordings godoc
// @Summary      List room recordings of an interview
// @Tags         interviews
// @Produce      json
// @Param        id   path      int  true  "Interview ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /interviews/{id}/recordings [get]
// @Security     BearerAuth
func (h *InterviewHandler) Recordings(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	recordings, err := h.schedulingUC.ListRecordings(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Recordings", recordings)
}

// Export godoc
// @Summary      Export own interviews as xlsx
// @Tags         interviews
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Router       /interviews/export [get]
// @Security     BearerAuth
func (h *InterviewHandler) Export(c *gin.Context) {
	data, contentType, err := h.schedulingUC.ExportInterviews(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}

	filename := fmt.Sprintf("interviews-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
