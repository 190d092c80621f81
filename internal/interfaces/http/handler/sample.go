package handler

import (
	"github.com/gin-gonic/gin"

	"ai-author-api/internal/application/sample"
	"ai-author-api/internal/domain/repository"
	"ai-author-api/internal/interfaces/http/dto"
)

// SampleHandler 写作样本处理器
type SampleHandler struct {
	samples *sample.Service
}

// NewSampleHandler 创建样本处理器
func NewSampleHandler(samples *sample.Service) *SampleHandler {
	return &SampleHandler{samples: samples}
}

// AddSample 登记样本
// @Summary 登记写作样本
// @Tags Samples
// @Accept json
// @Produce json
// @Param oid path string true "Owner ID"
// @Param body body dto.AddSampleRequest true "样本内容"
// @Success 201 {object} dto.Response[dto.SampleResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/owners/{oid}/samples [post]
func (h *SampleHandler) AddSample(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := dto.BindOwnerID(c)

	var req dto.AddSampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	smp, err := h.samples.Add(ctx, ownerID, req.Text)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Created(c, dto.ToSampleResponse(smp, false))
}

// ListSamples 获取样本列表
// @Summary 获取 owner 的样本列表
// @Tags Samples
// @Produce json
// @Param oid path string true "Owner ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Success 200 {object} dto.Response[dto.SampleListResponse]
// @Router /v1/owners/{oid}/samples [get]
func (h *SampleHandler) ListSamples(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := dto.BindOwnerID(c)
	pageReq := dto.BindPage(c)

	result, err := h.samples.List(ctx, ownerID, repository.NewPagination(pageReq.Page, pageReq.PageSize))
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	resp := dto.ToSampleListResponse(result.Items)
	meta := dto.NewPageMeta(pageReq.Page, pageReq.PageSize, int(result.Total))
	dto.SuccessWithPage(c, resp, meta)
}

// GetSample 获取样本详情
// @Summary 获取样本详情（含原文）
// @Tags Samples
// @Produce json
// @Param oid path string true "Owner ID"
// @Param sid path string true "样本 ID"
// @Success 200 {object} dto.Response[dto.SampleResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/owners/{oid}/samples/{sid} [get]
func (h *SampleHandler) GetSample(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := dto.BindOwnerID(c)
	sampleID := dto.BindSampleID(c)

	smp, err := h.samples.Get(ctx, ownerID, sampleID)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, dto.ToSampleResponse(smp, true))
}

// DeleteSample 删除样本
// @Summary 删除样本及其向量分块
// @Tags Samples
// @Param sid path string true "样本 ID"
// @Param owner_id query string false "Owner ID（提供时校验归属）"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/samples/{sid} [delete]
func (h *SampleHandler) DeleteSample(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := dto.BindOwnerID(c)
	if ownerID == "" {
		ownerID = c.Query("owner_id")
	}
	sampleID := dto.BindSampleID(c)

	if err := h.samples.Delete(ctx, ownerID, sampleID); err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.NoContent(c)
}
