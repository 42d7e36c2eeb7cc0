// Package metrics 提供基于Prometheus的指标收集
//
// 核心指标围绕报表查询展开：
//   - report_sql_queries_total: 每个报表、每种策略执行的SQL语句总数
//     （lazy策略随行数线性增长，batched策略应保持常数，差异一目了然）
//   - report_duration_seconds: 报表生成耗时分布
//   - http_requests_total / http_request_duration_seconds: HTTP层通用指标
//
// 使用方式：
//
//	metrics.InitMetrics()
//	http.Handle("/metrics", promhttp.Handler())
//	metrics.ReportSQLQueries.WithLabelValues("books", "lazy").Add(float64(n))
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path、status（200/500）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// 报表业务指标

	// ReportRequestsTotal 报表请求总数（Counter）
	// 标签：report（books/authors/...）、strategy（lazy/batched）
	ReportRequestsTotal *prometheus.CounterVec

	// ReportSQLQueries 报表执行的SQL语句总数（Counter）
	// 标签：report、strategy
	// 对比同一report下lazy与batched的取值即可量化N+1问题的代价
	ReportSQLQueries *prometheus.CounterVec

	// ReportDuration 报表生成耗时（Histogram）
	// 标签：report、strategy
	ReportDuration *prometheus.HistogramVec

	// SeedRunsTotal 数据填充执行总数（Counter）
	// 标签：result（success/failure）
	SeedRunsTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
// 必须在程序启动时调用一次，用于注册所有指标到全局Registry
func InitMetrics() {
	// 防止重复初始化
	if initialized {
		return
	}
	initialized = true

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	ReportRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_requests_total",
			Help: "报表请求总数",
		},
		[]string{"report", "strategy"},
	)

	ReportSQLQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_sql_queries_total",
			Help: "报表执行的SQL语句总数",
		},
		[]string{"report", "strategy"},
	)

	ReportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "report_duration_seconds",
			Help:    "报表生成耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"report", "strategy"},
	)

	SeedRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seed_runs_total",
			Help: "数据填充执行总数",
		},
		[]string{"result"},
	)
}

// ObserveReport 记录一次报表执行（请求数、SQL数、耗时一次性上报）
func ObserveReport(report, strategy string, sqlQueries int64, seconds float64) {
	if !initialized {
		return
	}
	ReportRequestsTotal.WithLabelValues(report, strategy).Inc()
	ReportSQLQueries.WithLabelValues(report, strategy).Add(float64(sqlQueries))
	ReportDuration.WithLabelValues(report, strategy).Observe(seconds)
}
