package controller

import (
	"errors"

	"cquest_backend/internal/service"
	"cquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	userService    *service.UserService
	storageService *service.StorageService
}

func NewUserController(userService *service.UserService, storageService *service.StorageService) *UserController {
	return &UserController{userService: userService, storageService: storageService}
}

// Me godoc
// @Summary Get the authenticated user's account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/users/me [get]
func (ctrl *UserController) Me(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	user, err := ctrl.userService.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, user)
}

// UpdateMe godoc
// @Summary Update profile fields
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.UpdateProfileInput true "Profile fields"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/users/me [put]
func (ctrl *UserController) UpdateMe(c *gin.Context) {
	var input service.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	claims := util.GetUserFromContext(c)
	user, err := ctrl.userService.UpdateProfile(claims.UserID, input)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, user)
}

// ChangePassword godoc
// @Summary Change the account password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.ChangePasswordInput true "Old and new password"
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/users/me/password [put]
func (ctrl *UserController) ChangePassword(c *gin.Context) {
	var input service.ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	claims := util.GetUserFromContext(c)
	if err := ctrl.userService.ChangePassword(claims.UserID, input); err != nil {
		if errors.Is(err, util.ErrInvalidLogin) {
			util.Unauthorized(c, "old password is incorrect")
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, nil)
}

// UploadAvatar godoc
// @Summary Upload a profile avatar
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} util.Response
// @Router /api/users/me/avatar [post]
func (ctrl *UserController) UploadAvatar(c *gin.Context) {
	file, err := c.FormFile("avatar")
	if err != nil {
		util.BadRequest(c, "avatar file is required")
		return
	}

	objectName, err := ctrl.storageService.Upload(c.Request.Context(), file, "avatars")
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	url, err := ctrl.storageService.URL(c.Request.Context(), objectName)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}

	claims := util.GetUserFromContext(c)
	user, err := ctrl.userService.UpdateProfile(claims.UserID, service.UpdateProfileInput{Avatar: url})
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, gin.H{"avatar": user.Avatar})
}
