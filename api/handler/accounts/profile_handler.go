package accounts

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harane/toolshed/api/common"
	"github.com/harane/toolshed/api/middleware"
	"github.com/harane/toolshed/database/models"
	"github.com/harane/toolshed/internal/auth"
)

type profileRequestBody struct {
	FullName    string `json:"full_name"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
}

type profileResponse struct {
	Username    string `json:"username"`
	FullName    string `json:"full_name"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

func profileView(user *models.User) profileResponse {
	return profileResponse{
		Username:    user.Username,
		FullName:    user.DisplayName,
		Address:     user.Address,
		PhoneNumber: user.PhoneNumber,
	}
}

// GetProfileHandlerFunc 获取当前用户资料
func (h *Handler) GetProfileHandlerFunc(context *gin.Context) {
	userID, ok := middleware.CurrentUserID(context)
	if !ok {
		common.RespondError(context, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := h.accountService.GetProfile(userID)
	if err != nil {
		common.RespondError(context, http.StatusInternalServerError, "Internal server error")
		return
	}

	common.RespondSuccess(context, profileView(user))
}

// UpdateProfileHandlerFunc 更新当前用户资料
func (h *Handler) UpdateProfileHandlerFunc(context *gin.Context) {
	userID, ok := middleware.CurrentUserID(context)
	if !ok {
		common.RespondError(context, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req profileRequestBody
	if err := context.ShouldBindJSON(&req); err != nil {
		common.RespondError(context, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.accountService.UpdateProfile(userID, auth.ProfileInput{
		DisplayName: req.FullName,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		if auth.IsValidationError(err) {
			common.RespondError(context, http.StatusBadRequest, err.Error())
			return
		}
		common.RespondError(context, http.StatusInternalServerError, "Internal server error")
		return
	}

	common.RespondSuccessMessage(context, "Profile updated", profileView(user))
}
