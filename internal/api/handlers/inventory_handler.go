package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/stockflow/internal/domain"
	"github.com/andresuchdata/stockflow/internal/service"
)

type InventoryHandler struct {
	service *service.InventoryService
}

func NewInventoryHandler(service *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

func (h *InventoryHandler) ListMaterials(c *gin.Context) {
	materials, err := h.service.ListMaterials(c.Request.Context())
	if err != nil {
		respondError(c, "failed to fetch materials", err)
		return
	}

	c.JSON(http.StatusOK, materials)
}

func (h *InventoryHandler) GetMaterial(c *gin.Context) {
	material, err := h.service.GetMaterial(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "failed to fetch material", err)
		return
	}

	c.JSON(http.StatusOK, material)
}

func (h *InventoryHandler) GetQuantity(c *gin.Context) {
	id := c.Param("id")
	qty, err := h.service.GetQuantity(c.Request.Context(), id)
	if err != nil {
		respondError(c, "failed to fetch quantity", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"material_id": id,
		"quantity":    qty,
	})
}

func (h *InventoryHandler) GetQuantities(c *gin.Context) {
	quantities, err := h.service.GetQuantities(c.Request.Context())
	if err != nil {
		respondError(c, "failed to fetch quantities", err)
		return
	}

	c.JSON(http.StatusOK, quantities)
}

func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var adj domain.StockAdjustment
	if err := c.ShouldBindJSON(&adj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid adjustment", "details": err.Error()})
		return
	}

	qty, err := h.service.AdjustStock(c.Request.Context(), adj)
	if err != nil {
		respondError(c, "failed to adjust stock", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"material_id": adj.MaterialID,
		"quantity":    qty,
	})
}

// GetHealth reports each material against the reorder point.
func (h *InventoryHandler) GetHealth(c *gin.Context) {
	health, err := h.service.Health(c.Request.Context())
	if err != nil {
		respondError(c, "failed to assess stock", err)
		return
	}

	c.JSON(http.StatusOK, health)
}
