package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/mingle/internal/middleware"
	"github.com/d60-Lab/mingle/pkg/response"
)

// FollowUser makes the caller follow :userId and notifies the followee.
// @Summary Follow user
// @Tags follows
// @Security BearerAuth
// @Param userId path string true "user id to follow"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/follow/{userId} [post]
func (h *Handler) FollowUser(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.followService.Follow(c.Request.Context(), user, c.Param("userId")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{})
}

// UnfollowUser removes an existing follow edge.
// @Summary Unfollow user
// @Tags follows
// @Security BearerAuth
// @Param userId path string true "user id to unfollow"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/follow/{userId} [delete]
func (h *Handler) UnfollowUser(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.followService.Unfollow(c.Request.Context(), user, c.Param("userId")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{})
}

// GetFollowers lists the caller's followers, most recent first.
// @Summary Followers
// @Tags follows
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router /api/follow/followers [get]
func (h *Handler) GetFollowers(c *gin.Context) {
	user := middleware.CurrentUser(c)
	followers, err := h.followService.Followers(c.Request.Context(), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"followers": followers})
}

// GetFollowing lists who the caller follows, most recent first.
// @Summary Following
// @Tags follows
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router /api/follow/following [get]
func (h *Handler) GetFollowing(c *gin.Context) {
	user := middleware.CurrentUser(c)
	following, err := h.followService.Following(c.Request.Context(), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"following": following})
}

// CheckFollowing reports whether the caller follows :userId.
// @Summary Check follow
// @Tags follows
// @Security BearerAuth
// @Param userId path string true "user id"
// @Success 200 {object} map[string]any
// @Router /api/follow/check/{userId} [get]
func (h *Handler) CheckFollowing(c *gin.Context) {
	user := middleware.CurrentUser(c)
	following, err := h.followService.IsFollowing(c.Request.Context(), user.ID, c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"isFollowing": following})
}
