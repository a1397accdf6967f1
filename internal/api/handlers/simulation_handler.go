package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/stockflow/internal/export"
	"github.com/andresuchdata/stockflow/internal/service"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxBodyBytes    = 4 << 20
)

type SimulationHandler struct {
	simulations   *service.SimulationService
	purchaseNotes *service.PurchaseNoteService
}

func NewSimulationHandler(simulations *service.SimulationService, purchaseNotes *service.PurchaseNoteService) *SimulationHandler {
	return &SimulationHandler{simulations: simulations, purchaseNotes: purchaseNotes}
}

// bindSimulationRequest accepts a JSON SimulationRequest or a plain-text body
// with one order line per day; for text bodies ?commit=true commits.
func bindSimulationRequest(c *gin.Context) (service.SimulationRequest, error) {
	var req service.SimulationRequest
	if strings.HasPrefix(c.ContentType(), "application/json") {
		if err := c.ShouldBindJSON(&req); err != nil {
			return req, err
		}
		return req, nil
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		return req, err
	}
	text := strings.ReplaceAll(string(body), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text != "" {
		req.Lines = strings.Split(text, "\n")
	}
	req.Commit, _ = strconv.ParseBool(c.DefaultQuery("commit", "false"))
	return req, nil
}

// Simulate runs the posted order lines. ?format=xlsx returns a workbook
// instead of JSON.
func (h *SimulationHandler) Simulate(c *gin.Context) {
	req, err := bindSimulationRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid simulation request", "details": err.Error()})
		return
	}

	result, err := h.simulations.Run(c.Request.Context(), req)
	if err != nil {
		respondError(c, "simulation failed", err)
		return
	}

	if c.Query("format") == "xlsx" {
		var buf bytes.Buffer
		if err := export.WriteSimulation(&buf, result); err != nil {
			respondError(c, "failed to export simulation", err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="simulation.xlsx"`)
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  result,
		"summary": result.Summary(),
	})
}

type purchaseNoteRequest struct {
	Materials map[string]float64 `json:"materials"`
	Lines     []string           `json:"lines"`
}

// CreatePurchaseNote renders a PDF for explicit material quantities, or for
// everything a dry run of lines would reorder.
func (h *SimulationHandler) CreatePurchaseNote(c *gin.Context) {
	var req purchaseNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid purchase note request", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	var (
		note *service.PurchaseNote
		err  error
	)
	switch {
	case len(req.Materials) > 0:
		note, err = h.purchaseNotes.Create(ctx, req.Materials)
	case len(req.Lines) > 0:
		result, runErr := h.simulations.Run(ctx, service.SimulationRequest{Lines: req.Lines})
		if runErr != nil {
			respondError(c, "simulation failed", runErr)
			return
		}
		note, err = h.purchaseNotes.FromSimulation(ctx, result)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "materials or lines are required"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to build purchase note", "details": err.Error()})
		return
	}

	c.Header("X-Purchase-Note-Number", note.Note.Number)
	if note.Key != "" {
		c.Header("X-Object-Key", note.Key)
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, note.Note.Number))
	c.Data(http.StatusOK, "application/pdf", note.PDF)
}
