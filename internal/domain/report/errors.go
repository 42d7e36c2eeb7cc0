package report

import (
	apperrors "github.com/xiebiao/querylab/pkg/errors"
)

// 报表领域错误定义
var (
	// ErrInvalidStrategy 查询策略非法
	ErrInvalidStrategy = apperrors.New(apperrors.ErrCodeInvalidStrategy, "查询策略非法(仅支持lazy/batched)")

	// ErrInvalidLimit 行数上限非法
	ErrInvalidLimit = apperrors.New(apperrors.ErrCodeInvalidParams, "行数上限必须大于0")
)
