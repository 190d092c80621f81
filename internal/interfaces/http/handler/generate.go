package handler

import (
	"github.com/gin-gonic/gin"

	"ai-author-api/internal/application/generation"
	"ai-author-api/internal/interfaces/http/dto"
)

// GenerateHandler 内容生成处理器
type GenerateHandler struct {
	generator *generation.Service
	jobs      *generation.JobService
}

// NewGenerateHandler 创建生成处理器
func NewGenerateHandler(generator *generation.Service, jobs *generation.JobService) *GenerateHandler {
	return &GenerateHandler{
		generator: generator,
		jobs:      jobs,
	}
}

// Generate 同步生成内容
// @Summary 以 owner 的风格同步生成内容
// @Tags Generation
// @Accept json
// @Produce json
// @Param body body dto.GenerateRequest true "生成请求"
// @Success 201 {object} dto.Response[dto.PostResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 504 {object} dto.ErrorResponse
// @Router /v1/generate [post]
func (h *GenerateHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	post, err := h.generator.Generate(ctx, req.ToGenerationInput())
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Created(c, dto.ToPostResponse(post, true))
}

// GenerateAsync 异步生成内容
// @Summary 创建异步生成任务
// @Tags Generation
// @Accept json
// @Produce json
// @Param body body dto.GenerateRequest true "生成请求"
// @Success 202 {object} dto.Response[dto.JobResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/generate/async [post]
func (h *GenerateHandler) GenerateAsync(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	job, err := h.jobs.Submit(ctx, req.ToGenerationInput())
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Accepted(c, dto.ToJobResponse(job))
}
