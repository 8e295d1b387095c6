package handlers

import (
	"net/http"
	"strconv"

	"world-events/internal/auth"
	"world-events/internal/repository"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	repo *repository.Repository
}

func NewLedgerHandler(repo *repository.Repository) *LedgerHandler {
	return &LedgerHandler{repo: repo}
}

// GetMyEntries returns the caller's transaction history, newest first
func (h *LedgerHandler) GetMyEntries(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, total, err := h.repo.GetUserLedgerEntries(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transaction history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
		"total":   total,
	})
}
