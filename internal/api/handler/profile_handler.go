package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/mingle/internal/middleware"
	"github.com/d60-Lab/mingle/internal/service"
	"github.com/d60-Lab/mingle/pkg/response"
)

// GetProfile returns a public profile by handle.
// @Summary Get profile by username
// @Tags profile
// @Param username path string true "username"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/profile/{username} [get]
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.profileService.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"user": user})
}

type updateProfileRequest struct {
	FirstName      string   `json:"firstName" binding:"required,max=50"`
	LastName       string   `json:"lastName" binding:"required,max=50"`
	Username       string   `json:"username"`
	Bio            string   `json:"bio" binding:"max=500"`
	Interests      []string `json:"interests" binding:"required,min=1"`
	ProfilePicture string   `json:"profilePicture"`
}

// UpdateProfile mutates the caller's own profile.
// @Summary Update profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body updateProfileRequest true "profile fields"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/profile [patch]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user := middleware.CurrentUser(c)
	updated, err := h.profileService.Update(c.Request.Context(), user.ID, service.UpdateProfileInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Username:       req.Username,
		Bio:            req.Bio,
		Interests:      req.Interests,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"user": updated})
}

// UploadProfilePicture stores a new avatar in the blob store.
// @Summary Upload profile picture
// @Tags profile
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param image formData file true "avatar image"
// @Success 200 {object} map[string]any
// @Router /api/profile/picture [post]
func (h *Handler) UploadProfilePicture(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "No file uploaded")
		return
	}
	ref, err := h.saveUpload(fh)
	if err != nil {
		response.Error(c, err)
		return
	}
	user := middleware.CurrentUser(c)
	updated, err := h.profileService.SetPicture(c.Request.Context(), user.ID, ref)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"profilePicture": updated.ProfilePicture})
}
