// Package handler HTTP处理器
//
// 处理器只做三件事:取参数、调用用例、写响应;
// 业务规则在用例与领域层,SQL细节在infrastructure层
package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/querylab/internal/application/reporting"
	"github.com/xiebiao/querylab/pkg/response"
)

// ReportHandler 报表处理器
// 所有报表共用strategy查询参数(lazy|batched,缺省batched),
// 响应中附带本次执行的SQL语句数,两种策略的开销差异一目了然
type ReportHandler struct {
	bookListing      *reporting.BookListingUseCase
	authorListing    *reporting.AuthorListingUseCase
	booksWithReviews *reporting.BooksWithReviewsUseCase
	authorStats      *reporting.AuthorStatsUseCase
	monthlyRevenue   *reporting.MonthlyRevenueUseCase
}

// NewReportHandler 创建报表处理器
func NewReportHandler(
	bookListing *reporting.BookListingUseCase,
	authorListing *reporting.AuthorListingUseCase,
	booksWithReviews *reporting.BooksWithReviewsUseCase,
	authorStats *reporting.AuthorStatsUseCase,
	monthlyRevenue *reporting.MonthlyRevenueUseCase,
) *ReportHandler {
	return &ReportHandler{
		bookListing:      bookListing,
		authorListing:    authorListing,
		booksWithReviews: booksWithReviews,
		authorStats:      authorStats,
		monthlyRevenue:   monthlyRevenue,
	}
}

// BookListing 图书列表报表
// @Summary      图书列表报表
// @Description  图书及其作者、出版社、分类,lazy策略逐行补查关联,batched策略常数次查询
// @Tags         报表
// @Produce      json
// @Param        strategy query string false "查询策略" Enums(lazy, batched) default(batched)
// @Success      200 {object} response.Response{data=response.ReportData}
// @Failure      400 {object} response.Response "策略非法"
// @Router       /api/v1/reports/books [get]
func (h *ReportHandler) BookListing(c *gin.Context) {
	result, err := h.bookListing.Execute(c.Request.Context(), c.Query("strategy"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithReport(c, string(result.Strategy), result.QueryCount, result.Rows, len(result.Rows))
}

// AuthorListing 作者列表报表
// @Summary      作者列表报表
// @Description  作者及其关联用户、名下图书与图书数
// @Tags         报表
// @Produce      json
// @Param        strategy query string false "查询策略" Enums(lazy, batched) default(batched)
// @Success      200 {object} response.Response{data=response.ReportData}
// @Failure      400 {object} response.Response "策略非法"
// @Router       /api/v1/reports/authors [get]
func (h *ReportHandler) AuthorListing(c *gin.Context) {
	result, err := h.authorListing.Execute(c.Request.Context(), c.Query("strategy"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithReport(c, string(result.Strategy), result.QueryCount, result.Rows, len(result.Rows))
}

// BooksWithReviews 带评论的图书报表
// @Summary      带评论的图书报表
// @Description  图书及其全部评论,每条评论带评论者信息
// @Tags         报表
// @Produce      json
// @Param        strategy query string false "查询策略" Enums(lazy, batched) default(batched)
// @Success      200 {object} response.Response{data=response.ReportData}
// @Failure      400 {object} response.Response "策略非法"
// @Router       /api/v1/reports/books-with-reviews [get]
func (h *ReportHandler) BooksWithReviews(c *gin.Context) {
	result, err := h.booksWithReviews.Execute(c.Request.Context(), c.Query("strategy"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithReport(c, string(result.Strategy), result.QueryCount, result.Rows, len(result.Rows))
}

// AuthorStats 作者统计报表
// @Summary      作者统计报表
// @Description  每位作者的图书数与平均评分,无评论时平均评分为null
// @Tags         报表
// @Produce      json
// @Param        strategy query string false "查询策略" Enums(lazy, batched) default(batched)
// @Success      200 {object} response.Response{data=response.ReportData}
// @Failure      400 {object} response.Response "策略非法"
// @Router       /api/v1/reports/author-stats [get]
func (h *ReportHandler) AuthorStats(c *gin.Context) {
	result, err := h.authorStats.Execute(c.Request.Context(), c.Query("strategy"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithReport(c, string(result.Strategy), result.QueryCount, result.Rows, len(result.Rows))
}

// MonthlyRevenue 月度营收报表
// batched结果可能来自Redis缓存,响应from_cache=true且query_count=0
// @Summary      月度营收报表
// @Description  按(客户,月份)汇总已完成订单的营收、订单数、客单价与回头客占比
// @Tags         报表
// @Produce      json
// @Param        strategy query string false "查询策略" Enums(lazy, batched) default(batched)
// @Success      200 {object} response.Response{data=response.ReportData}
// @Failure      400 {object} response.Response "策略非法"
// @Router       /api/v1/reports/monthly-revenue [get]
func (h *ReportHandler) MonthlyRevenue(c *gin.Context) {
	result, err := h.monthlyRevenue.Execute(c.Request.Context(), c.Query("strategy"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &response.ReportData{
		Strategy:   string(result.Strategy),
		QueryCount: result.QueryCount,
		FromCache:  result.FromCache,
		Rows:       result.Rows,
		Total:      len(result.Rows),
	})
}
