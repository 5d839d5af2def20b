package handler

import (
	"errors"
	"log"
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/period"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
}

func NewStatisticsHandler(statisticsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	statsGroup := router.Group("/stats/revenue")
	statsGroup.Use(middleware.RequireRole(model.RoleAdmin, model.RoleStaff))
	{
		statsGroup.GET("/summary", h.GetRevenueSummary)
		statsGroup.GET("/by-payment-method", h.GetRevenueByPaymentMethod)
		statsGroup.GET("/orders/by-status", h.GetOrdersByStatus)
		statsGroup.GET("/orders/by-payment-status", h.GetOrdersByPaymentStatus)
		statsGroup.GET("/orders/financials", h.GetOrderFinancials)
	}
}

// bindPeriod parses the shared period/startDate/endDate query parameters.
func bindPeriod(c *gin.Context) (period.Query, bool) {
	var q period.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid query parameters: "+err.Error()))
		return period.Query{}, false
	}
	return q, true
}

// writeStatsError maps resolver failures to 400 and store failures to 500.
func writeStatsError(c *gin.Context, err error) {
	if errors.Is(err, period.ErrInvalidRange) {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	log.Printf("statistics query failed: %v", err)
	c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to compute statistics"))
}

// GetRevenueSummary returns revenue totals for the requested window
// @Summary      Revenue summary
// @Description  Total revenue, order count and average order value over the resolved period
// @Tags         statistics
// @Produce      json
// @Param        period     query string false "daily|weekly|monthly|yearly|custom"
// @Param        startDate  query string false "YYYY-MM-DD (required with period=custom)"
// @Param        endDate    query string false "YYYY-MM-DD (required with period=custom)"
// @Success      200 {object} response.Response{data=service.RevenueSummaryResponse}
// @Failure      400 {object} response.Response
// @Failure      500 {object} response.Response
// @Security     BearerAuth
// @Router       /stats/revenue/summary [get]
func (h *StatisticsHandler) GetRevenueSummary(c *gin.Context) {
	q, ok := bindPeriod(c)
	if !ok {
		return
	}

	summary, err := h.statisticsService.RevenueSummary(c.Request.Context(), q)
	if err != nil {
		writeStatsError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// GetRevenueByPaymentMethod returns revenue grouped by payment method
// @Summary      Revenue by payment method
// @Description  Revenue and order count per payment method; every method appears even with zero orders
// @Tags         statistics
// @Produce      json
// @Param        period     query string false "daily|weekly|monthly|yearly|custom"
// @Param        startDate  query string false "YYYY-MM-DD (required with period=custom)"
// @Param        endDate    query string false "YYYY-MM-DD (required with period=custom)"
// @Success      200 {object} response.Response{data=service.RevenueByPaymentMethodResponse}
// @Failure      400 {object} response.Response
// @Failure      500 {object} response.Response
// @Security     BearerAuth
// @Router       /stats/revenue/by-payment-method [get]
func (h *StatisticsHandler) GetRevenueByPaymentMethod(c *gin.Context) {
	q, ok := bindPeriod(c)
	if !ok {
		return
	}

	breakdown, err := h.statisticsService.RevenueByPaymentMethod(c.Request.Context(), q)
	if err != nil {
		writeStatsError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, breakdown))
}

// GetOrdersByStatus returns order totals grouped by order status
// @Summary      Orders by status
// @Description  Order count and value per order status over all orders in the window
// @Tags         statistics
// @Produce      json
// @Param        period     query string false "daily|weekly|monthly|yearly|custom"
// @Param        startDate  query string false "YYYY-MM-DD (required with period=custom)"
// @Param        endDate    query string false "YYYY-MM-DD (required with period=custom)"
// @Success      200 {object} response.Response{data=service.OrdersByStatusResponse}
// @Failure      400 {object} response.Response
// @Failure      500 {object} response.Response
// @Security     BearerAuth
// @Router       /stats/revenue/orders/by-status [get]
func (h *StatisticsHandler) GetOrdersByStatus(c *gin.Context) {
	q, ok := bindPeriod(c)
	if !ok {
		return
	}

	breakdown, err := h.statisticsService.OrdersByStatus(c.Request.Context(), q)
	if err != nil {
		writeStatsError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, breakdown))
}

// GetOrdersByPaymentStatus returns order totals grouped by payment status
// @Summary      Orders by payment status
// @Description  Order count and value per payment status over all orders in the window
// @Tags         statistics
// @Produce      json
// @Param        period     query string false "daily|weekly|monthly|yearly|custom"
// @Param        startDate  query string false "YYYY-MM-DD (required with period=custom)"
// @Param        endDate    query string false "YYYY-MM-DD (required with period=custom)"
// @Success      200 {object} response.Response{data=service.OrdersByPaymentStatusResponse}
// @Failure      400 {object} response.Response
// @Failure      500 {object} response.Response
// @Security     BearerAuth
// @Router       /stats/revenue/orders/by-payment-status [get]
func (h *StatisticsHandler) GetOrdersByPaymentStatus(c *gin.Context) {
	q, ok := bindPeriod(c)
	if !ok {
		return
	}

	breakdown, err := h.statisticsService.OrdersByPaymentStatus(c.Request.Context(), q)
	if err != nil {
		writeStatsError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, breakdown))
}

// GetOrderFinancials returns shipping and discount totals
// @Summary      Order financials
// @Description  Total shipping fees and discount amounts over revenue-contributing orders
// @Tags         statistics
// @Produce      json
// @Param        period     query string false "daily|weekly|monthly|yearly|custom"
// @Param        startDate  query string false "YYYY-MM-DD (required with period=custom)"
// @Param        endDate    query string false "YYYY-MM-DD (required with period=custom)"
// @Success      200 {object} response.Response{data=service.OrderFinancialsResponse}
// @Failure      400 {object} response.Response
// @Failure      500 {object} response.Response
// @Security     BearerAuth
// @Router       /stats/revenue/orders/financials [get]
func (h *StatisticsHandler) GetOrderFinancials(c *gin.Context) {
	q, ok := bindPeriod(c)
	if !ok {
		return
	}

	financials, err := h.statisticsService.OrderFinancials(c.Request.Context(), q)
	if err != nil {
		writeStatsError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, financials))
}
