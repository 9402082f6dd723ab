package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/mingle/internal/service"
	"github.com/d60-Lab/mingle/pkg/response"
)

type registerRequest struct {
	FirstName      string   `json:"firstName" binding:"required,max=50"`
	LastName       string   `json:"lastName" binding:"required,max=50"`
	Username       string   `json:"username" binding:"required,min=3,max=30,handle"`
	Email          string   `json:"email" binding:"required,email"`
	Password       string   `json:"password" binding:"required,min=6"`
	Bio            string   `json:"bio" binding:"max=500"`
	Interests      []string `json:"interests" binding:"required,min=1"`
	ProfilePicture string   `json:"profilePicture"`
}

// Register creates an account and returns a bearer token.
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param request body registerRequest true "registration"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, token, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		Bio:            req.Bio,
		Interests:      req.Interests,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"token": token, "user": user})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges credentials for a bearer token.
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "credentials"
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"token": token, "user": user})
}
