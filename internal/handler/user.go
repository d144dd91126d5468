package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"parcel/internal/service"
)

// UserHandler handles HTTP requests for the user directory.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRequest is the HTTP request body for user registration.
type RegisterRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserResponse is the HTTP response for directory entries. Only
// non-sensitive fields are projected.
type UserResponse struct {
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Register handles POST /users. Registration is an idempotent
// upsert-by-email: the duplicate case is a success, not a conflict.
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.userService.Register(c.Request.Context(), service.RegisterRequest{
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if !result.Inserted {
		respondJSON(c, http.StatusOK, gin.H{
			"message":  "user already exists",
			"inserted": false,
		})
		return
	}

	respondJSON(c, http.StatusCreated, gin.H{
		"inserted":   true,
		"insertedId": result.InsertedID,
	})
}

// GetRole handles GET /users/:email/role. Unknown emails resolve to the
// default role rather than an error.
func (h *UserHandler) GetRole(c *gin.Context) {
	role, err := h.userService.GetRole(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"role": string(role)})
}

// Search handles GET /users/search?email=
func (h *UserHandler) Search(c *gin.Context) {
	users, err := h.userService.Search(c.Request.Context(), c.Query("email"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]UserResponse, 0, len(users))
	for _, u := range users {
		response = append(response, UserResponse{
			Email:     u.Email,
			Role:      string(u.Role),
			CreatedAt: u.CreatedAt,
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// UpdateRoleRequest is the HTTP request body for a role grant.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateRole handles PATCH /users/:id/role
func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	matched, err := h.userService.UpdateRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"message":      "User role updated to '" + req.Role + "'",
		"matchedCount": matched,
	})
}
