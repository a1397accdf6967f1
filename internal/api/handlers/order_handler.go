package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/stockflow/internal/domain"
	"github.com/andresuchdata/stockflow/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrder stores a customer order and returns it with its ID and total.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var order domain.CustomerOrder
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order", "details": err.Error()})
		return
	}

	created, err := h.orderService.Create(c.Request.Context(), &order)
	if err != nil {
		respondError(c, "failed to create order", err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "failed to fetch order", err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.List(c.Request.Context())
	if err != nil {
		respondError(c, "failed to fetch orders", err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) ListByStatus(c *gin.Context) {
	orders, err := h.orderService.ListByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		respondError(c, "failed to fetch orders", err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) ListByCustomerName(c *gin.Context) {
	orders, err := h.orderService.ListByCustomerName(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, "failed to fetch orders", err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) ListByCustomerEmail(c *gin.Context) {
	orders, err := h.orderService.ListByCustomerEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, "failed to fetch orders", err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	if err := h.orderService.UpdateStatus(c.Request.Context(), id, c.Param("status")); err != nil {
		respondError(c, "failed to update order status", err)
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "failed to fetch order", err)
		return
	}

	c.JSON(http.StatusOK, order)
}
