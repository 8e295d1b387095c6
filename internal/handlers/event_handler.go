package handlers

import (
	"net/http"
	"strconv"

	"world-events/internal/auth"
	"world-events/internal/models"
	"world-events/internal/repository"
	"world-events/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventHandler struct {
	eventService *services.EventService
	repo         *repository.Repository
}

func NewEventHandler(eventService *services.EventService, repo *repository.Repository) *EventHandler {
	return &EventHandler{eventService: eventService, repo: repo}
}

// GetEvents returns events with optional title search and status filter
func (h *EventHandler) GetEvents(c *gin.Context) {
	search := c.Query("search")
	status := models.EventStatus(c.Query("status"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	events, total, err := h.eventService.ListEvents(c.Request.Context(), search, status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	summaries := make([]models.EventSummary, 0, len(events))
	for _, event := range events {
		summaries = append(summaries, models.EventSummary{
			Event:             event,
			FundingPercentage: event.FundingPercentage(),
			RemainingAmount:   event.RemainingAmount(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summaries,
		"total":   total,
	})
}

// GetEventByID returns a single event with modifiers, contributions and funding progress
func (h *EventHandler) GetEventByID(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	event, err := h.eventService.GetEventByID(c.Request.Context(), eventID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": models.EventSummary{
			Event:             event,
			FundingPercentage: event.FundingPercentage(),
			RemainingAmount:   event.RemainingAmount(),
		},
	})
}

// CreateEvent creates a new pending event from catalog selections
func (h *EventHandler) CreateEvent(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.eventService.CreateEvent(c.Request.Context(), user, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}
	if !result.OK {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": result.Message})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": result.Message,
		"data":    result.Event,
	})
}

// Contribute adds currency to a pending event
func (h *EventHandler) Contribute(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var req models.ContributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.eventService.Contribute(c.Request.Context(), eventID, req.Amount, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to contribute"})
		return
	}
	if !result.OK {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": result.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   result.Message,
		"amount":    result.Amount,
		"activated": result.Activated,
	})
}

// CancelEvent cancels the caller's own pending event and refunds contributions
func (h *EventHandler) CancelEvent(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	result, err := h.eventService.CancelEvent(c.Request.Context(), eventID, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel event"})
		return
	}
	if !result.OK {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": result.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": result.Message})
}

// GetSuggestions returns the creation-form catalog: sandbox entries filtered
// against current world values, zone entries, and the caller's weekly quota
func (h *EventHandler) GetSuggestions(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	sandbox, err := h.eventService.FilteredSandboxSuggestions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build suggestions"})
		return
	}

	remaining, err := h.eventService.WeeklyEventsRemaining(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check weekly limit"})
		return
	}

	balance, err := h.eventService.UserBalance(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch balance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"sandbox":          sandbox,
		"zone":             h.eventService.ZoneSuggestions(),
		"weekly_remaining": remaining,
		"balance":          balance,
	})
}

// GetActiveZones returns currently enabled zones with their overrides
func (h *EventHandler) GetActiveZones(c *gin.Context) {
	zones, err := h.repo.GetEnabledZones(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch zones"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    zones,
		"count":   len(zones),
	})
}

// currentUser loads the authenticated user or writes an error response
func (h *EventHandler) currentUser(c *gin.Context) (*models.User, bool) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}

	user, err := h.repo.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return nil, false
	}
	return user, true
}
