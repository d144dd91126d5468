package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"parcel/internal/domain"
	"parcel/internal/service"
)

// RiderHandler handles HTTP requests for riders.
type RiderHandler struct {
	riderService *service.RiderService
}

// NewRiderHandler creates a new RiderHandler.
func NewRiderHandler(riderService *service.RiderService) *RiderHandler {
	return &RiderHandler{riderService: riderService}
}

// ApplyRequest is the HTTP request body for a rider application.
type ApplyRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	District string `json:"district"`
}

// RiderResponse is the HTTP response for rider data.
type RiderResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	District  string    `json:"district"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toRiderResponse(r *domain.Rider) RiderResponse {
	return RiderResponse{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		District:  r.District,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
	}
}

// Apply handles POST /riders
func (h *RiderHandler) Apply(c *gin.Context) {
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	rider, err := h.riderService.Apply(c.Request.Context(), service.ApplyRequest{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		District: req.District,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRiderResponse(rider))
}

// Available handles GET /riders/available?district=
func (h *RiderHandler) Available(c *gin.Context) {
	riders, err := h.riderService.ListAvailable(c.Request.Context(), c.Query("district"))
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondRiders(c, riders)
}

// Pending handles GET /riders/pending
func (h *RiderHandler) Pending(c *gin.Context) {
	riders, err := h.riderService.ListPending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondRiders(c, riders)
}

// Active handles GET /riders/active
func (h *RiderHandler) Active(c *gin.Context) {
	riders, err := h.riderService.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondRiders(c, riders)
}

func (h *RiderHandler) respondRiders(c *gin.Context, riders []*domain.Rider) {
	response := make([]RiderResponse, 0, len(riders))
	for _, r := range riders {
		response = append(response, toRiderResponse(r))
	}
	respondJSON(c, http.StatusOK, response)
}

// UpdateStatusRequest is the HTTP request body for an approval decision.
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Email  string `json:"email"`
}

// UpdateStatus handles PATCH /riders/:id/status. The response reports the
// promotion outcome alongside the status write, so an approval whose
// promotion matched no user is visible to the caller.
func (h *RiderHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.riderService.Decide(c.Request.Context(), service.DecideRequest{
		RiderID: c.Param("id"),
		Status:  req.Status,
		Email:   req.Email,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"matchedCount":  result.Matched,
		"promotedCount": result.Promoted,
	})
}

// AssignRequest is the HTTP request body for assigning a rider to a parcel.
type AssignRequest struct {
	ParcelID   string `json:"parcelId"`
	RiderID    string `json:"riderId"`
	RiderEmail string `json:"riderEmail"`
}

// Assign handles POST /riders/assign-rider
func (h *RiderHandler) Assign(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.ParcelID == "" || req.RiderID == "" || req.RiderEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Parcel ID, Rider ID, and Email are required"})
		return
	}

	matched, err := h.riderService.AssignRider(c.Request.Context(), req.ParcelID, req.RiderID, req.RiderEmail)
	if err != nil {
		if mapErrorToHTTPStatus(err) == http.StatusNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "Parcel not found or not updated"})
			return
		}
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"message":       "Rider assigned successfully",
		"modifiedCount": matched,
	})
}
