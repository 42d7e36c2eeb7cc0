// Package middleware 提供HTTP中间件(日志、CORS)
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/xiebiao/querylab/pkg/logger"
	"github.com/xiebiao/querylab/pkg/metrics"
)

// Logger 请求日志中间件
// 设计说明:
// 1. 每个请求生成唯一request_id,写入响应头X-Request-ID,
//    排查问题时按request_id串起整条链路
// 2. 日志级别按状态码分档:5xx→error,4xx→warn,其余→info
// 3. handler挂到gin错误链上的内部错误(c.Error)在这里统一输出,
//    业务响应体里只有脱敏后的错误码和提示
// 4. 顺带上报Prometheus的HTTP请求数/耗时指标,
//    path用路由模板(c.FullPath)而不是原始URL,避免标签基数爆炸
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path // 未匹配到路由(404)
		}

		var e *zerolog.Event
		switch {
		case status >= 500:
			e = logger.L().Error()
		case status >= 400:
			e = logger.L().Warn()
		default:
			e = logger.L().Info()
		}

		if len(c.Errors) > 0 {
			e = e.Str("errors", c.Errors.String())
		}

		e.Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http请求")

		if latency > 3*time.Second {
			logger.L().Warn().
				Str("request_id", requestID).
				Str("path", c.Request.URL.Path).
				Dur("latency", latency).
				Msg("慢请求")
		}

		if metrics.HTTPRequestsTotal != nil {
			metrics.HTTPRequestsTotal.
				WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
			metrics.HTTPRequestDuration.
				WithLabelValues(c.Request.Method, path).Observe(latency.Seconds())
		}
	}
}

// Recovery panic恢复中间件
// gin自带的Recovery输出到stdout,这里换成结构化日志
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.L().Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Msg("handler panic")
		c.AbortWithStatusJSON(500, gin.H{
			"code":    50000,
			"message": "系统内部错误",
		})
	})
}
