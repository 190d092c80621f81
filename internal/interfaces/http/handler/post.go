package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ai-author-api/internal/application/export"
	"ai-author-api/internal/application/generation"
	"ai-author-api/internal/domain/entity"
	"ai-author-api/internal/domain/repository"
	"ai-author-api/internal/interfaces/http/dto"
)

// PostHandler 生成内容处理器
type PostHandler struct {
	generator *generation.Service
}

// NewPostHandler 创建内容处理器
func NewPostHandler(generator *generation.Service) *PostHandler {
	return &PostHandler{generator: generator}
}

// GetPost 获取内容详情
// @Summary 获取生成内容详情
// @Tags Posts
// @Produce json
// @Param pid path string true "内容 ID"
// @Param owner_id query string true "Owner ID"
// @Success 200 {object} dto.Response[dto.PostResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/posts/{pid} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	ctx := c.Request.Context()
	postID := dto.BindPostID(c)
	ownerID := c.Query("owner_id")

	post, err := h.generator.GetPost(ctx, ownerID, postID)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, dto.ToPostResponse(post, true))
}

// ExportPost 导出内容
// @Summary 按指定格式导出生成内容
// @Tags Posts
// @Produce plain
// @Param pid path string true "内容 ID"
// @Param owner_id query string true "Owner ID"
// @Param format query string true "导出格式 markdown|json"
// @Success 200 {string} string "渲染结果"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/posts/{pid}/export [get]
func (h *PostHandler) ExportPost(c *gin.Context) {
	ctx := c.Request.Context()
	postID := dto.BindPostID(c)
	ownerID := c.Query("owner_id")

	post, err := h.generator.GetPost(ctx, ownerID, postID)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	format := entity.ExportFormat(c.DefaultQuery("format", string(post.Format)))
	rendered, err := export.Export(post, format)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	c.Data(http.StatusOK, export.ContentType(format), rendered)
}

// ListPosts 获取内容列表
// @Summary 获取 owner 的生成内容列表
// @Tags Posts
// @Produce json
// @Param oid path string true "Owner ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Success 200 {object} dto.Response[dto.PostListResponse]
// @Router /v1/owners/{oid}/posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := dto.BindOwnerID(c)
	pageReq := dto.BindPage(c)

	result, err := h.generator.ListPosts(ctx, ownerID, repository.NewPagination(pageReq.Page, pageReq.PageSize))
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	resp := dto.ToPostListResponse(result.Items)
	meta := dto.NewPageMeta(pageReq.Page, pageReq.PageSize, int(result.Total))
	dto.SuccessWithPage(c, resp, meta)
}
