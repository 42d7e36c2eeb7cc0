package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/xiebiao/querylab/pkg/errors"
)

// Response 统一响应结构
// 设计说明：
// 1. Code是业务错误码（非HTTP状态码），方便客户端判断错误类型
// 2. Message是用户友好的提示信息
// 3. Data是业务数据，成功时返回，失败时为null
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应（Code=0表示成功）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	rows, err := useCase.Execute(...)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	// 内部错误挂到gin的错误链上，由日志中间件统一输出
	if appErr.Err != nil {
		_ = c.Error(appErr.Err)
	}

	c.JSON(http.StatusOK, Response{
		Code:    appErr.Code,
		Message: appErr.Message,
		Data:    nil,
	})
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// =========================================
// 报表响应结构
// =========================================

// ReportData 报表数据封装
// 除数据行外附带本次查询的访问策略与SQL查询次数，
// 方便对比lazy/batched两种策略的开销差异。
type ReportData struct {
	Strategy   string      `json:"strategy"`             // lazy | batched
	QueryCount int64       `json:"query_count"`          // 本次报表执行的SQL语句数
	FromCache  bool        `json:"from_cache,omitempty"` // 是否来自Redis缓存(仅batched月度营收)
	Rows       interface{} `json:"rows"`                 // 报表行
	Total      int         `json:"total"`                // 行数
}

// SuccessWithReport 报表成功响应
func SuccessWithReport(c *gin.Context, strategy string, queryCount int64, rows interface{}, total int) {
	Success(c, &ReportData{
		Strategy:   strategy,
		QueryCount: queryCount,
		Rows:       rows,
		Total:      total,
	})
}
