package handler

import (
	"github.com/gin-gonic/gin"

	"ai-author-api/internal/application/generation"
	"ai-author-api/internal/domain/repository"
	"ai-author-api/internal/interfaces/http/dto"
)

// JobHandler 异步任务处理器
type JobHandler struct {
	jobs *generation.JobService
}

// NewJobHandler 创建任务处理器
func NewJobHandler(jobs *generation.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// GetJob 查询任务状态
// @Summary 查询异步生成任务状态
// @Tags Jobs
// @Produce json
// @Param jid path string true "任务 ID"
// @Param owner_id query string true "Owner ID"
// @Success 200 {object} dto.Response[dto.JobResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/jobs/{jid} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	ctx := c.Request.Context()
	jobID := dto.BindJobID(c)
	ownerID := c.Query("owner_id")

	job, err := h.jobs.GetJob(ctx, ownerID, jobID)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, dto.ToJobResponse(job))
}

// ListJobs 获取任务列表
// @Summary 获取 owner 的任务列表
// @Tags Jobs
// @Produce json
// @Param oid path string true "Owner ID"
// @Success 200 {object} dto.Response[dto.JobListResponse]
// @Router /v1/owners/{oid}/jobs [get]
func (h *JobHandler) ListJobs(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := dto.BindOwnerID(c)
	pageReq := dto.BindPage(c)

	result, err := h.jobs.ListJobs(ctx, ownerID, repository.NewPagination(pageReq.Page, pageReq.PageSize))
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	resp := dto.ToJobListResponse(result.Items)
	meta := dto.NewPageMeta(pageReq.Page, pageReq.PageSize, int(result.Total))
	dto.SuccessWithPage(c, resp, meta)
}
