package controller

import (
	"errors"

	"praktikmaal_backend/internal/service"
	"praktikmaal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	Gate        *service.SessionGate
}

func NewAuthController(authService *service.AuthService, gate *service.SessionGate) *AuthController {
	return &AuthController{AuthService: authService, Gate: gate}
}

// Register godoc
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.RegisterRequest true "registration payload"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.Register(ctx.Request.Context(), req)
	if err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.Error(ctx, 409, "E-mailadressen er allerede registreret.")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"id": user.ID})
}

// Login godoc
// @Summary Sign in and receive a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.LoginRequest true "credentials"
// @Success 200 {object} util.Response{data=service.LoginResponse}
// @Failure 401 {object} util.Response
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req service.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.AuthService.Login(ctx.Request.Context(), req)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Error(ctx, 401, "Forkert e-mail eller adgangskode.")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, resp)
}

// Logout godoc
// @Summary Sign out
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	c.AuthService.Logout(claims.UserID)
	util.Success(ctx, nil)
}

// SessionState godoc
// @Summary Current authentication phase for the signed-in user
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/session [get]
func (c *AuthController) SessionState(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	util.Success(ctx, gin.H{"state": c.Gate.State(claims.UserID)})
}

// Profile godoc
// @Summary The signed-in user's profile
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/profile [get]
func (c *AuthController) Profile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	user, err := c.AuthService.Profile(ctx.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword godoc
// @Summary Request a password reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body ForgotPasswordRequest true "registered address"
// @Success 200 {object} util.Response
// @Router /api/password/forgot [post]
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req ForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.ForgotPassword(ctx.Request.Context(), req.Email); err != nil {
		if errors.Is(err, util.ErrStoreUnavailable) {
			util.ServiceUnavailable(ctx, "Nulstilling af adgangskode er ikke tilgængelig lige nu.")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"message": "Hvis adressen er registreret, er der sendt et nulstillingslink."})
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// ResetPassword godoc
// @Summary Complete a password reset with a one-time token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body ResetPasswordRequest true "token and new password"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/password/reset [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.AuthService.ResetPassword(ctx.Request.Context(), req.Token, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrResetTokenInvalid):
			util.BadRequest(ctx, "Linket er udløbet eller allerede brugt.")
		case errors.Is(err, util.ErrStoreUnavailable):
			util.ServiceUnavailable(ctx, "Nulstilling af adgangskode er ikke tilgængelig lige nu.")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"message": "Adgangskoden er ændret."})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// ChangePassword godoc
// @Summary Change password for the signed-in user
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body ChangePasswordRequest true "current and new password"
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/password/change [post]
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.AuthService.ChangePassword(ctx.Request.Context(), claims.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Error(ctx, 401, "Den nuværende adgangskode er forkert.")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"message": "Adgangskoden er ændret."})
}
