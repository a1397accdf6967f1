package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/stockflow/internal/drive"
)

// DriveHandler lists the order files waiting in the configured Drive folder.
type DriveHandler struct {
	source   drive.FileSource
	folderID string
}

func NewDriveHandler(source drive.FileSource, folderID string) *DriveHandler {
	return &DriveHandler{source: source, folderID: folderID}
}

func (h *DriveHandler) ListFiles(c *gin.Context) {
	folderID := c.DefaultQuery("folder_id", h.folderID)
	files, err := h.source.ListFiles(c.Request.Context(), folderID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to list drive files", "details": err.Error()})
		return
	}
	if files == nil {
		files = []*drive.File{}
	}

	c.JSON(http.StatusOK, gin.H{
		"folder_id": folderID,
		"files":     files,
	})
}
