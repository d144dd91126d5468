package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"parcel/internal/domain"
	"parcel/internal/middleware"
	"parcel/internal/repository"
	"parcel/internal/service"
)

// ParcelHandler handles HTTP requests for parcels.
type ParcelHandler struct {
	parcelService *service.ParcelService
}

// NewParcelHandler creates a new ParcelHandler.
func NewParcelHandler(parcelService *service.ParcelService) *ParcelHandler {
	return &ParcelHandler{parcelService: parcelService}
}

// CreateParcelRequest is the HTTP request body for creating a parcel.
// Cost and status fields are not accepted from the caller.
type CreateParcelRequest struct {
	Type            string `json:"type"`
	SenderName      string `json:"sender_name"`
	SenderEmail     string `json:"sender_email"`
	ReceiverName    string `json:"receiver_name"`
	ReceiverContact string `json:"receiver_contact"`
}

// ParcelResponse is the HTTP response for parcel data.
type ParcelResponse struct {
	ID                 string    `json:"id"`
	Type               string    `json:"type"`
	SenderName         string    `json:"sender_name"`
	SenderEmail        string    `json:"sender_email"`
	ReceiverName       string    `json:"receiver_name"`
	ReceiverContact    string    `json:"receiver_contact"`
	Cost               float64   `json:"cost"`
	TrackingID         string    `json:"tracking_id"`
	DeliveryStatus     string    `json:"delivery_status"`
	PaymentStatus      string    `json:"payment_status"`
	AssignedRider      string    `json:"assignedRider,omitempty"`
	AssignedRiderEmail string    `json:"assignedRiderEmail,omitempty"`
	CreationDate       time.Time `json:"creation_date"`
}

func toParcelResponse(p *domain.Parcel) ParcelResponse {
	return ParcelResponse{
		ID:                 p.ID,
		Type:               p.Type,
		SenderName:         p.SenderName,
		SenderEmail:        p.SenderEmail,
		ReceiverName:       p.ReceiverName,
		ReceiverContact:    p.ReceiverContact,
		Cost:               p.Cost,
		TrackingID:         p.TrackingID,
		DeliveryStatus:     string(p.DeliveryStatus),
		PaymentStatus:      string(p.PaymentStatus),
		AssignedRider:      p.AssignedRiderID,
		AssignedRiderEmail: p.AssignedRiderEmail,
		CreationDate:       p.CreatedAt,
	}
}

// Create handles POST /parcels
func (h *ParcelHandler) Create(c *gin.Context) {
	var req CreateParcelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	parcel, err := h.parcelService.Create(c.Request.Context(), service.CreateParcelRequest{
		Type:            req.Type,
		SenderName:      req.SenderName,
		SenderEmail:     req.SenderEmail,
		ReceiverName:    req.ReceiverName,
		ReceiverContact: req.ReceiverContact,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toParcelResponse(parcel))
}

// List handles GET /parcels. The unfiltered form is open for
// administrative listing; an owner-scoped listing is only served to the
// owner itself, so one caller can never page through another identity's
// parcels by varying the query.
func (h *ParcelHandler) List(c *gin.Context) {
	ownerEmail := c.Query("userEmail")

	if ownerEmail != "" {
		caller := middleware.CallerEmail(c)
		if caller == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized access"})
			return
		}
		if caller != ownerEmail {
			c.JSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
			return
		}
	}

	filter := repository.ParcelFilter{
		SenderEmail:    ownerEmail,
		PaymentStatus:  domain.PaymentStatus(c.Query("payment_status")),
		DeliveryStatus: domain.DeliveryStatus(c.Query("delivery_status")),
	}

	parcels, err := h.parcelService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]ParcelResponse, 0, len(parcels))
	for _, p := range parcels {
		response = append(response, toParcelResponse(p))
	}

	respondJSON(c, http.StatusOK, response)
}

// Get handles GET /parcels/:id
func (h *ParcelHandler) Get(c *gin.Context) {
	parcel, err := h.parcelService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toParcelResponse(parcel))
}

// Delete handles DELETE /parcels/:id. The deleted count is echoed so the
// caller can tell "applied" from "no matching record"; zero is not an
// error.
func (h *ParcelHandler) Delete(c *gin.Context) {
	deleted, err := h.parcelService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"deletedCount": deleted})
}
