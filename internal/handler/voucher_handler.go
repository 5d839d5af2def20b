package handler

import (
	"errors"
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type VoucherHandler struct {
	voucherService service.VoucherService
}

func NewVoucherHandler(voucherService service.VoucherService) *VoucherHandler {
	return &VoucherHandler{voucherService: voucherService}
}

func (h *VoucherHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Authenticated customers can check a code against their cart
	router.GET("/vouchers/validate",
		middleware.RequireRole(model.RoleAdmin, model.RoleStaff, model.RoleCustomer),
		h.ValidateVoucher)

	manage := router.Group("/vouchers")
	manage.Use(middleware.RequireRole(model.RoleAdmin, model.RoleStaff))
	{
		manage.GET("", h.ListVouchers)
		manage.GET("/:id", h.GetVoucher)
		manage.POST("", h.CreateVoucher)
		manage.PUT("/:id", h.UpdateVoucher)
		manage.DELETE("/:id", h.DeleteVoucher)
	}
}

// ValidateVoucher handles GET /vouchers/validate?code=X&subtotal=Y
// @Summary      Validate voucher code
// @Description  Checks a code against a prospective subtotal and returns the discount it grants
// @Tags         vouchers
// @Produce      json
// @Security     BearerAuth
// @Param        code      query  string  true  "Voucher code"
// @Param        subtotal  query  string  true  "Cart subtotal"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /vouchers/validate [get]
func (h *VoucherHandler) ValidateVoucher(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "code is required"))
		return
	}

	subtotal, err := decimal.NewFromString(c.DefaultQuery("subtotal", "0"))
	if err != nil || subtotal.IsNegative() {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "subtotal must be a non-negative decimal"))
		return
	}

	voucher, discount, err := h.voucherService.ValidateCode(c.Request.Context(), code, subtotal)
	if err != nil {
		if errors.Is(err, service.ErrVoucherNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"code":     voucher.Code,
		"type":     voucher.Type,
		"discount": discount,
	}))
}

// ListVouchers handles GET /vouchers
// @Summary      List vouchers
// @Tags         vouchers
// @Produce      json
// @Security     BearerAuth
// @Param        page   query  int  false  "Page number (default 1)"
// @Param        limit  query  int  false  "Items per page (default 20)"
// @Success      200  {object}  response.Response{data=[]model.Voucher}
// @Router       /vouchers [get]
func (h *VoucherHandler) ListVouchers(c *gin.Context) {
	params := pagination.Parse(c)

	vouchers, total, err := h.voucherService.ListVouchers(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, vouchers, params.Page, params.Limit, total))
}

// GetVoucher handles GET /vouchers/:id
// @Summary      Get voucher
// @Tags         vouchers
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Voucher ID"
// @Success      200  {object}  response.Response{data=model.Voucher}
// @Failure      404  {object}  response.Response
// @Router       /vouchers/{id} [get]
func (h *VoucherHandler) GetVoucher(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid voucher ID"))
		return
	}

	voucher, err := h.voucherService.GetVoucherByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Voucher not found"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, voucher))
}

// CreateVoucher handles POST /vouchers
// @Summary      Create voucher
// @Tags         vouchers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  service.CreateVoucherRequest  true  "Voucher Payload"
// @Success      201  {object}  response.Response{data=model.Voucher}
// @Failure      400  {object}  response.Response
// @Router       /vouchers [post]
func (h *VoucherHandler) CreateVoucher(c *gin.Context) {
	var req service.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	voucher, err := h.voucherService.CreateVoucher(c.Request.Context(), actorIDFromContext(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, voucher))
}

// UpdateVoucher handles PUT /vouchers/:id
// @Summary      Update voucher
// @Tags         vouchers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                        true  "Voucher ID"
// @Param        payload  body  service.UpdateVoucherRequest  true  "Update Payload"
// @Success      200  {object}  response.Response{data=model.Voucher}
// @Failure      400  {object}  response.Response
// @Router       /vouchers/{id} [put]
func (h *VoucherHandler) UpdateVoucher(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid voucher ID"))
		return
	}

	var req service.UpdateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	voucher, err := h.voucherService.UpdateVoucher(c.Request.Context(), actorIDFromContext(c), id, req)
	if err != nil {
		if errors.Is(err, service.ErrVoucherNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, voucher))
}

// DeleteVoucher handles DELETE /vouchers/:id
// @Summary      Delete voucher
// @Tags         vouchers
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Voucher ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /vouchers/{id} [delete]
func (h *VoucherHandler) DeleteVoucher(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid voucher ID"))
		return
	}

	if err := h.voucherService.DeleteVoucher(c.Request.Context(), actorIDFromContext(c), id); err != nil {
		if errors.Is(err, service.ErrVoucherNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "voucher deleted"}))
}
