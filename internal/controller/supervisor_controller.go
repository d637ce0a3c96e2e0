package controller

import (
	"errors"
	"fmt"
	"net/http"

	"praktikmaal_backend/internal/service"
	"praktikmaal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SupervisorController struct {
	SupervisorService *service.SupervisorService
}

func NewSupervisorController(supervisorService *service.SupervisorService) *SupervisorController {
	return &SupervisorController{SupervisorService: supervisorService}
}

type GrantRequest struct {
	Code string `json:"code" binding:"required"`
}

// Grant godoc
// @Summary Redeem a one-time code for a supervisor session
// @Tags supervisor
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body GrantRequest true "one-time code"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/supervisor/grant [post]
func (c *SupervisorController) Grant(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req GrantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.SupervisorService.Grant(ctx.Request.Context(), claims.UserID, req.Code)
	if err != nil {
		if errors.Is(err, util.ErrSupervisorCodeInvalid) {
			util.BadRequest(ctx, "Koden er ugyldig eller allerede brugt.")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"expiresAt": session.ExpiresAt})
}

// Revoke godoc
// @Summary End the supervisor session immediately
// @Tags supervisor
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/supervisor/grant [delete]
func (c *SupervisorController) Revoke(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	if err := c.SupervisorService.Revoke(ctx.Request.Context(), claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Overview godoc
// @Summary Every user's goals, grouped by owner
// @Tags supervisor
// @Security BearerAuth
// @Produce json
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/supervisor/overview [get]
func (c *SupervisorController) Overview(ctx *gin.Context) {
	entries, err := c.SupervisorService.Overview(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// DownloadAttachment godoc
// @Summary Download any goal's attachment
// @Tags supervisor
// @Security BearerAuth
// @Param id path string true "goal id"
// @Success 200 {file} binary
// @Failure 404 {object} util.Response
// @Router /api/supervisor/goals/{id}/attachment [get]
func (c *SupervisorController) DownloadAttachment(ctx *gin.Context) {
	attachment, data, err := c.SupervisorService.AttachmentFor(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrGoalNotFound):
			util.Error(ctx, 404, "Målet blev ikke fundet.")
		case errors.Is(err, util.ErrNoAttachment):
			util.Error(ctx, 404, "Målet har ingen vedhæftet fil.")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.Name))
	ctx.Data(http.StatusOK, attachment.Type, data)
}
