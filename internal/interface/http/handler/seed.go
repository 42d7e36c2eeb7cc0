package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/querylab/internal/application/seeding"
	apperrors "github.com/xiebiao/querylab/pkg/errors"
	"github.com/xiebiao/querylab/pkg/response"
)

// SeedHandler 数据填充处理器
type SeedHandler struct {
	populate *seeding.PopulateUseCase
}

// NewSeedHandler 创建数据填充处理器
func NewSeedHandler(populate *seeding.PopulateUseCase) *SeedHandler {
	return &SeedHandler{populate: populate}
}

// Populate 清空并重建测试数据
// 注意:该操作删库重建,只用于演示环境
// @Summary      重建测试数据
// @Description  清空全部业务表后按指定数量生成新数据,请求体省略时使用默认数量
// @Tags         管理
// @Accept       json
// @Produce      json
// @Param        request body seeding.PopulateRequest false "生成数量与随机种子"
// @Success      200 {object} response.Response{data=seeding.PopulateResult}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "ISBN冲突"
// @Router       /api/v1/admin/seed [post]
func (h *SeedHandler) Populate(c *gin.Context) {
	var req seeding.PopulateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, apperrors.ErrBindError)
			return
		}
	}

	if req.Authors < 0 || req.Books < 0 || req.Orders < 0 {
		response.Error(c, apperrors.ErrInvalidParams)
		return
	}

	result, err := h.populate.Execute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
