package handler

import (
	"github.com/gin-gonic/gin"

	"ai-author-api/internal/application/profile"
	"ai-author-api/internal/interfaces/http/dto"
)

// ProfileHandler 风格画像处理器
type ProfileHandler struct {
	profiles *profile.Service
}

// NewProfileHandler 创建画像处理器
func NewProfileHandler(profiles *profile.Service) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// ComputeProfile 重新计算画像
// @Summary 重新计算 owner 的风格画像
// @Tags Profiles
// @Produce json
// @Param oid path string true "Owner ID"
// @Success 200 {object} dto.Response[dto.ProfileResponse]
// @Failure 422 {object} dto.ErrorResponse
// @Router /v1/owners/{oid}/profile/compute [post]
func (h *ProfileHandler) ComputeProfile(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := dto.BindOwnerID(c)

	prof, err := h.profiles.Compute(ctx, ownerID)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, dto.ToProfileResponse(prof))
}

// GetProfile 获取最新画像
// @Summary 获取 owner 的最新风格画像
// @Tags Profiles
// @Produce json
// @Param oid path string true "Owner ID"
// @Success 200 {object} dto.Response[dto.ProfileResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/owners/{oid}/profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := dto.BindOwnerID(c)

	prof, err := h.profiles.Latest(ctx, ownerID)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, dto.ToProfileResponse(prof))
}
