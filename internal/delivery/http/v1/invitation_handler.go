package v1

import (
	"net/http"

	"go-interview-scheduler/internal/delivery/http/response"
	"go-interview-scheduler/internal/domain"

	"github.com/gin-gonic/gin"
)

type InvitationHandler struct {
	invitationUC domain.InvitationUsecase
}

func NewInvitationHandler(public, protected *gin.RouterGroup, invitationUC domain.InvitationUsecase) {
	handler := &InvitationHandler{invitationUC: invitationUC}

	public.GET("/invitations/public/:token", handler.GetByToken)

	protected.POST("/events/:id/invitations", handler.Invite)
	protected.GET("/events/:id/invitations", handler.ListSent)
	protected.GET("/invitations/received", handler.ListReceived)
	protected.POST("/invitations/:id/respond", handler.Respond)
}

type InviteRequest struct {
	// Email address or user id
	Invitee string `json:"invitee" binding:"required,max=320"`
}

type RespondRequest struct {
	Status string `json:"status" binding:"required,oneof=accepted declined"`
}

// Invite godoc
// @Summary      Invite someone to an event
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Param        id          path      int            true  "Event ID"
// @Param        invitation  body      InviteRequest  true  "Invitee"
// @Success      201         {object}  response.Response
// @Failure      400         {object}  response.Response
// @Failure      404         {object}  response.Response
// @Router       /events/{id}/invitations [post]
// @Security     BearerAuth
func (h *InvitationHandler) Invite(c *gin.Context) {
	eventID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req InviteRequest
	if !bindJSON(c, &req) {
		return
	}

	invitation, err := h.invitationUC.Invite(c.Request.Context(), eventID, currentUserID(c), req.Invitee)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Invitation sent", invitation)
}

// ListSent godoc
// @Summary      List invitations sent for an event
// @Tags         invitations
// @Produce      json
// @Param        id   path      int  true  "Event ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /events/{id}/invitations [get]
// @Security     BearerAuth
func (h *InvitationHandler) ListSent(c *gin.Context) {
	eventID, ok := paramID(c, "id")
	if !ok {
		return
	}
	invitations, err := h.invitationUC.ListSent(c.Request.Context(), currentUserID(c), eventID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Invitations", invitations)
}

// ListReceived godoc
// @Summary      List invitations addressed to me
// @Tags         invitations
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /invitations/received [get]
// @Security     BearerAuth
func (h *InvitationHandler) ListReceived(c *gin.Context) {
	invitations, err := h.invitationUC.ListReceived(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Invitations", invitations)
}

// Respond godoc
// @Summary      Accept or decline an invitation
// @Description  Accepting while another invitation is already accepted marks this one invalid.
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Param        id      path      int             true  "Invitation ID"
// @Param        answer  body      RespondRequest  true  "Answer"
// @Success      200     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Router       /invitations/{id}/respond [post]
// @Security     BearerAuth
func (h *InvitationHandler) Respond(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req RespondRequest
	if !bindJSON(c, &req) {
		return
	}

	invitation, err := h.invitationUC.Respond(c.Request.Context(), id, req.Status, currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Invitation "+invitation.Status, invitation)
}

// GetByToken godoc
// @Summary      Look up an invitation by token (public)
// @Tags         invitations
// @Produce      json
// @Param        token  path      string  true  "Invitation token"
// @Success      200    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /invitations/public/{token} [get]
func (h *InvitationHandler) GetByToken(c *gin.Context) {
	detail, err := h.invitationUC.GetByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Invitation details", detail)
}
