package handler

import (
	"errors"
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Customer surface
	orders := router.Group("/orders")
	orders.Use(middleware.RequireRole(model.RoleAdmin, model.RoleStaff, model.RoleCustomer))
	{
		orders.POST("", h.PlaceOrder)
		orders.GET("/my", h.ListMyOrders)
		orders.GET("/:id", h.GetOrder)
	}

	// Staff/admin management
	manage := router.Group("/orders")
	manage.Use(middleware.RequireRole(model.RoleAdmin, model.RoleStaff))
	{
		manage.GET("", h.ListOrders)
		manage.PATCH("/:id/status", h.UpdateStatus)
		manage.PATCH("/:id/payment-status", h.UpdatePaymentStatus)
	}
}

func writeOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrProductUnavailable),
		errors.Is(err, service.ErrVoucherNotFound),
		errors.Is(err, service.ErrVoucherInactive),
		errors.Is(err, service.ErrVoucherNotYet),
		errors.Is(err, service.ErrVoucherExpired),
		errors.Is(err, service.ErrVoucherExhausted),
		errors.Is(err, service.ErrVoucherMinOrder):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
	}
}

// PlaceOrder handles POST /orders
// @Summary      Place an order
// @Description  Creates an order from cart items, applying stock checks and an optional voucher
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  service.PlaceOrderRequest  true  "Order Payload"
// @Success      201  {object}  response.Response{data=model.Order}
// @Failure      400  {object}  response.Response
// @Router       /orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	var req service.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), userID, req)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// GetOrder handles GET /orders/:id — owners see their own orders, staff see all
// @Summary      Get order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Order ID"
// @Success      200  {object}  response.Response{data=model.Order}
// @Failure      404  {object}  response.Response
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid order ID"))
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	role := middleware.CurrentUserRole(c)
	if role == model.RoleCustomer {
		userID, _ := middleware.CurrentUserID(c)
		if order.UserID != userID {
			c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied"))
			return
		}
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// ListMyOrders handles GET /orders/my for the authenticated customer
// @Summary      List own orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        page   query  int  false  "Page number (default 1)"
// @Param        limit  query  int  false  "Items per page (default 20)"
// @Success      200  {object}  response.Response{data=[]model.Order}
// @Router       /orders/my [get]
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	params := pagination.Parse(c)
	filter := repository.OrderFilter{UserID: &userID}

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), filter, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, orders, params.Page, params.Limit, total))
}

// ListOrders handles GET /orders with status filters (staff/admin)
// @Summary      List all orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        page            query  int     false  "Page number (default 1)"
// @Param        limit           query  int     false  "Items per page (default 20)"
// @Param        status          query  string  false  "Order status filter"
// @Param        paymentStatus   query  string  false  "Payment status filter"
// @Param        paymentMethod   query  string  false  "Payment method filter"
// @Success      200  {object}  response.Response{data=[]model.Order}
// @Router       /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	params := pagination.Parse(c)
	filter := repository.OrderFilter{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("paymentStatus"),
		PaymentMethod: c.Query("paymentMethod"),
	}

	if filter.Status != "" && !model.IsValidOrderStatus(filter.Status) {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Unknown order status"))
		return
	}
	if filter.PaymentStatus != "" && !model.IsValidPaymentStatus(filter.PaymentStatus) {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Unknown payment status"))
		return
	}
	if filter.PaymentMethod != "" && !model.IsValidPaymentMethod(filter.PaymentMethod) {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Unknown payment method"))
		return
	}

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), filter, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, orders, params.Page, params.Limit, total))
}

// UpdateStatus handles PATCH /orders/:id/status
// @Summary      Update order status
// @Description  Moves an order along its lifecycle; canceling restocks items
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                            true  "Order ID"
// @Param        payload  body  service.UpdateOrderStatusRequest  true  "Status Payload"
// @Success      200  {object}  response.Response{data=model.Order}
// @Failure      409  {object}  response.Response
// @Router       /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid order ID"))
		return
	}

	var req service.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), actorIDFromContext(c), id, req)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// UpdatePaymentStatus handles PATCH /orders/:id/payment-status
// @Summary      Update payment status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                              true  "Order ID"
// @Param        payload  body  service.UpdatePaymentStatusRequest  true  "Payment Status Payload"
// @Success      200  {object}  response.Response{data=model.Order}
// @Failure      404  {object}  response.Response
// @Router       /orders/{id}/payment-status [patch]
func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid order ID"))
		return
	}

	var req service.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.UpdatePaymentStatus(c.Request.Context(), actorIDFromContext(c), id, req)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}
