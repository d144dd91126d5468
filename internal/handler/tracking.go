package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"parcel/internal/service"
)

// TrackingHandler handles HTTP requests for the tracking feed.
type TrackingHandler struct {
	trackingService *service.TrackingService
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(trackingService *service.TrackingService) *TrackingHandler {
	return &TrackingHandler{trackingService: trackingService}
}

// AppendRequest is the HTTP request body for a tracking event.
type AppendRequest struct {
	TrackingID string `json:"trackingId"`
	ParcelID   string `json:"parcelId"`
	Status     string `json:"status"`
	Location   string `json:"location"`
}

// TrackingEventResponse is the HTTP response for tracking events.
type TrackingEventResponse struct {
	ID         string    `json:"id"`
	TrackingID string    `json:"trackingId"`
	ParcelID   string    `json:"parcelId"`
	Status     string    `json:"status"`
	Location   string    `json:"location"`
	Time       time.Time `json:"time"`
}

// Append handles POST /tracking
func (h *TrackingHandler) Append(c *gin.Context) {
	var req AppendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	event, err := h.trackingService.Append(c.Request.Context(), service.AppendRequest{
		TrackingID: req.TrackingID,
		ParcelID:   req.ParcelID,
		Status:     req.Status,
		Location:   req.Location,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, gin.H{"insertedId": event.ID})
}

// Feed handles GET /parcels/:id/tracking
func (h *TrackingHandler) Feed(c *gin.Context) {
	events, err := h.trackingService.Feed(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TrackingEventResponse, 0, len(events))
	for _, e := range events {
		response = append(response, TrackingEventResponse{
			ID:         e.ID,
			TrackingID: e.TrackingID,
			ParcelID:   e.ParcelID,
			Status:     e.Status,
			Location:   e.Location,
			Time:       e.RecordedAt,
		})
	}

	respondJSON(c, http.StatusOK, response)
}
