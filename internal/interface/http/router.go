// Package http HTTP路由装配
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xiebiao/querylab/internal/infrastructure/config"
	"github.com/xiebiao/querylab/internal/interface/http/handler"
	"github.com/xiebiao/querylab/internal/interface/http/middleware"
)

// NewRouter 装配gin路由
func NewRouter(cfg *config.Config, reportHandler *handler.ReportHandler, seedHandler *handler.SeedHandler) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.Server.CORSAllowOrigins))

	// 健康检查与Prometheus指标
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		reports := v1.Group("/reports")
		{
			reports.GET("/books", reportHandler.BookListing)
			reports.GET("/authors", reportHandler.AuthorListing)
			reports.GET("/books-with-reviews", reportHandler.BooksWithReviews)
			reports.GET("/author-stats", reportHandler.AuthorStats)
			reports.GET("/monthly-revenue", reportHandler.MonthlyRevenue)
		}

		admin := v1.Group("/admin")
		{
			admin.POST("/seed", seedHandler.Populate)
		}
	}

	return r
}
