package controller

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"praktikmaal_backend/internal/model"
	"praktikmaal_backend/internal/service"
	"praktikmaal_backend/internal/util"
	"praktikmaal_backend/internal/view"

	"github.com/gin-gonic/gin"
)

type GoalController struct {
	GoalService *service.GoalService
}

func NewGoalController(goalService *service.GoalService) *GoalController {
	return &GoalController{GoalService: goalService}
}

// List godoc
// @Summary The signed-in user's goals, newest first
// @Tags goals
// @Security BearerAuth
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/goals [get]
func (c *GoalController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	goals, activeID, err := c.GoalService.Snapshot(ctx.Request.Context(), claims.UserID)
	if err != nil {
		goalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"goals": goals, "activeId": activeID})
}

// Create godoc
// @Summary Create a goal, optionally with a PDF attachment
// @Tags goals
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Param title formData string true "goal title"
// @Param description formData string false "goal description"
// @Param color formData string false "tab color, hex"
// @Param confirmOversize formData bool false "accept a file over the soft size cap"
// @Param file formData file false "PDF attachment"
// @Success 201 {object} util.Response{data=model.Goal}
// @Failure 400 {object} util.Response
// @Failure 413 {object} util.Response
// @Router /api/goals [post]
func (c *GoalController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	upload, err := formUpload(ctx)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if upload != nil {
		defer upload.close()
	}

	req := service.SubmitGoalRequest{
		Title:           ctx.PostForm("title"),
		Description:     ctx.PostForm("description"),
		Color:           ctx.PostForm("color"),
		ConfirmOversize: ctx.PostForm("confirmOversize") == "true",
	}
	if upload != nil {
		req.File = &upload.AttachmentUpload
	}

	goal, err := c.GoalService.SubmitNewGoal(ctx.Request.Context(), claims.UserID, req)
	if err != nil {
		goalError(ctx, err)
		return
	}

	util.Created(ctx, goal)
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ChangeStatus godoc
// @Summary Set the goal's traffic-light status
// @Tags goals
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "goal id"
// @Param body body StatusRequest true "red, yellow or green"
// @Success 200 {object} util.Response{data=model.Goal}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/goals/{id}/status [patch]
func (c *GoalController) ChangeStatus(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req StatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	goal, err := c.GoalService.ChangeStatus(ctx.Request.Context(), claims.UserID, ctx.Param("id"), model.GoalStatus(req.Status))
	if err != nil {
		goalError(ctx, err)
		return
	}
	util.Success(ctx, goal)
}

type ReflectionRequest struct {
	Reflection string `json:"reflection"`
}

// EditReflection godoc
// @Summary Replace the goal's reflection text
// @Tags goals
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "goal id"
// @Param body body ReflectionRequest true "reflection text, may be empty"
// @Success 200 {object} util.Response{data=model.Goal}
// @Failure 404 {object} util.Response
// @Router /api/goals/{id}/reflection [patch]
func (c *GoalController) EditReflection(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req ReflectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	goal, err := c.GoalService.EditReflection(ctx.Request.Context(), claims.UserID, ctx.Param("id"), req.Reflection)
	if err != nil {
		goalError(ctx, err)
		return
	}
	util.Success(ctx, goal)
}

// Edit godoc
// @Summary Update a goal's title, description, color and attachment
// @Description The attachment is replaced only when a new file is supplied,
// @Description and removed only when removeAttachment is set.
// @Tags goals
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Param id path string true "goal id"
// @Success 200 {object} util.Response{data=model.Goal}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/goals/{id} [put]
func (c *GoalController) Edit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := ctx.Param("id")

	upload, err := formUpload(ctx)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if upload != nil {
		defer upload.close()
	}

	req := service.EditGoalRequest{
		Title:            ctx.PostForm("title"),
		Description:      ctx.PostForm("description"),
		Color:            ctx.PostForm("color"),
		ConfirmOversize:  ctx.PostForm("confirmOversize") == "true",
		RemoveAttachment: ctx.PostForm("removeAttachment") == "true",
	}
	if upload != nil {
		req.File = &upload.AttachmentUpload
	}

	goal, err := c.GoalService.EditGoal(ctx.Request.Context(), claims.UserID, id, req)
	if err != nil {
		goalError(ctx, err)
		return
	}
	util.Success(ctx, goal)
}

// RemoveAttachment godoc
// @Summary Remove the goal's attachment
// @Tags goals
// @Security BearerAuth
// @Param id path string true "goal id"
// @Success 200 {object} util.Response{data=model.Goal}
// @Failure 404 {object} util.Response
// @Router /api/goals/{id}/attachment [delete]
func (c *GoalController) RemoveAttachment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	goal, err := c.GoalService.RemoveAttachment(ctx.Request.Context(), claims.UserID, ctx.Param("id"))
	if err != nil {
		goalError(ctx, err)
		return
	}
	util.Success(ctx, goal)
}

// DownloadAttachment godoc
// @Summary Download the goal's attachment
// @Tags goals
// @Security BearerAuth
// @Param id path string true "goal id"
// @Success 200 {file} binary
// @Failure 404 {object} util.Response
// @Router /api/goals/{id}/attachment [get]
func (c *GoalController) DownloadAttachment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	goal, err := c.GoalService.Goal(ctx.Request.Context(), claims.UserID, ctx.Param("id"))
	if err != nil {
		goalError(ctx, err)
		return
	}
	attachment := goal.Attachment()
	if attachment == nil {
		util.Error(ctx, 404, "Målet har ingen vedhæftet fil.")
		return
	}

	data, err := util.DecodeAttachment(attachment)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.Name))
	ctx.Data(http.StatusOK, attachment.Type, data)
}

// Delete godoc
// @Summary Delete a goal
// @Tags goals
// @Security BearerAuth
// @Param id path string true "goal id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/goals/{id} [delete]
func (c *GoalController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	if err := c.GoalService.DeleteGoal(ctx.Request.Context(), claims.UserID, ctx.Param("id")); err != nil {
		goalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ClearAll godoc
// @Summary Delete every goal for the signed-in user
// @Tags goals
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/goals [delete]
func (c *GoalController) ClearAll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	if err := c.GoalService.ClearAll(ctx.Request.Context(), claims.UserID); err != nil {
		goalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Activate godoc
// @Summary Select a goal as the active tab
// @Tags goals
// @Security BearerAuth
// @Param id path string true "goal id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/goals/{id}/activate [post]
func (c *GoalController) Activate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	if err := c.GoalService.Activate(ctx.Request.Context(), claims.UserID, ctx.Param("id")); err != nil {
		goalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// View godoc
// @Summary Render-ready projection of the goal tab strip and active panel
// @Tags goals
// @Security BearerAuth
// @Produce json
// @Success 200 {object} util.Response{data=view.View}
// @Router /api/view [get]
func (c *GoalController) View(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	goals, activeID, err := c.GoalService.Snapshot(ctx.Request.Context(), claims.UserID)
	if err != nil {
		goalError(ctx, err)
		return
	}
	util.Success(ctx, view.Render(goals, activeID))
}

type TabKeyRequest struct {
	FocusedID string `json:"focusedId"`
	Key       string `json:"key" binding:"required"`
}

// TabKey godoc
// @Summary Resolve a keyboard event on the tab strip to an activation
// @Tags goals
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body TabKeyRequest true "focused tab and key"
// @Success 200 {object} util.Response
// @Router /api/view/tabkey [post]
func (c *GoalController) TabKey(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req TabKeyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	goals, _, err := c.GoalService.Snapshot(ctx.Request.Context(), claims.UserID)
	if err != nil {
		goalError(ctx, err)
		return
	}
	targetID, ok := view.HandleTabKey(goals, req.FocusedID, req.Key)
	if !ok {
		util.Success(ctx, gin.H{"activated": false})
		return
	}

	if err := c.GoalService.Activate(ctx.Request.Context(), claims.UserID, targetID); err != nil {
		goalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"activated": true, "activeId": targetID})
}

type openedUpload struct {
	service.AttachmentUpload
	file multipart.File
}

func (u *openedUpload) close() {
	u.file.Close()
}

// formUpload extracts the optional "file" part. A missing part is not an
// error. The content is sniffed server-side; only PDFs are accepted.
func formUpload(ctx *gin.Context) (*openedUpload, error) {
	header, err := ctx.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, util.ErrAttachmentRead
	}

	mimeType, err := util.ValidateMimeType(file, []string{util.MimePDF})
	if err != nil {
		file.Close()
		return nil, util.ErrNotPDF
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, util.ErrAttachmentRead
	}

	return &openedUpload{
		AttachmentUpload: service.AttachmentUpload{
			Name:     header.Filename,
			MimeType: mimeType,
			Size:     header.Size,
			Reader:   file,
		},
		file: file,
	}, nil
}

// goalError maps service errors onto HTTP responses with the messages the
// frontend shows verbatim.
func goalError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrTitleRequired):
		util.BadRequest(ctx, util.ErrTitleRequired.Error())
	case errors.Is(err, util.ErrInvalidStatus):
		util.BadRequest(ctx, "Ugyldig status.")
	case errors.Is(err, util.ErrGoalNotFound):
		util.Error(ctx, 404, "Målet blev ikke fundet.")
	case errors.Is(err, util.ErrOversizeUnconfirmed):
		ctx.JSON(http.StatusRequestEntityTooLarge, util.Response{
			Code:    http.StatusRequestEntityTooLarge,
			Message: "Filen er større end 4 MB og kan være svær at gemme lokalt. Fortsæt?",
			Data:    gin.H{"needsConfirmation": true},
		})
	case errors.Is(err, util.ErrAttachmentRead):
		util.BadRequest(ctx, util.ErrAttachmentRead.Error())
	case errors.Is(err, util.ErrStoreUnavailable):
		util.ServiceUnavailable(ctx, "Kunne ikke hente data. Prøv igen senere.")
	default:
		util.LogInternalError(ctx, err)
	}
}
