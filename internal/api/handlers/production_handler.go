package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/stockflow/internal/service"
)

type ProductionHandler struct {
	service *service.ProductionService
}

func NewProductionHandler(service *service.ProductionService) *ProductionHandler {
	return &ProductionHandler{service: service}
}

type productionParams struct {
	clothingType string
	size         string
	quantity     int
}

func parseProductionParams(c *gin.Context) (productionParams, bool) {
	qty, err := strconv.Atoi(c.Param("quantity"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quantity", "details": err.Error()})
		return productionParams{}, false
	}
	return productionParams{
		clothingType: c.Param("type"),
		size:         c.Param("size"),
		quantity:     qty,
	}, true
}

func (h *ProductionHandler) MaterialsNeeded(c *gin.Context) {
	p, ok := parseProductionParams(c)
	if !ok {
		return
	}

	need, err := h.service.MaterialsNeeded(c.Request.Context(), p.clothingType, p.size, p.quantity)
	if err != nil {
		respondError(c, "failed to calculate materials", err)
		return
	}

	c.JSON(http.StatusOK, need)
}

func (h *ProductionHandler) CheckAvailability(c *gin.Context) {
	p, ok := parseProductionParams(c)
	if !ok {
		return
	}

	available, err := h.service.CheckAvailability(c.Request.Context(), p.clothingType, p.size, p.quantity)
	if err != nil {
		respondError(c, "failed to check availability", err)
		return
	}

	all := true
	for _, ok := range available {
		all = all && ok
	}
	c.JSON(http.StatusOK, gin.H{
		"available": all,
		"materials": available,
	})
}

func (h *ProductionHandler) Process(c *gin.Context) {
	p, ok := parseProductionParams(c)
	if !ok {
		return
	}

	consumed, err := h.service.Process(c.Request.Context(), p.clothingType, p.size, p.quantity)
	if err != nil {
		respondError(c, "failed to process order", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "order processed",
		"consumed": consumed,
	})
}
