package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/mingle/pkg/response"
)

// SearchUsers finds users by name or username substring (case-insensitive).
// @Summary Search users
// @Tags search
// @Param q query string true "query"
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(10)
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/search/users [get]
func (h *Handler) SearchUsers(c *gin.Context) {
	page, limit := pageParams(c, 10)
	users, pg, err := h.searchService.Users(c.Request.Context(), c.Query("q"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"users": users, "pagination": pg.Envelope("totalUsers")})
}

// SearchPosts finds posts by text substring (case-insensitive).
// @Summary Search posts
// @Tags search
// @Param q query string true "query"
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(10)
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/search/posts [get]
func (h *Handler) SearchPosts(c *gin.Context) {
	page, limit := pageParams(c, 10)
	posts, pg, err := h.searchService.Posts(c.Request.Context(), c.Query("q"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"posts": posts, "pagination": pg.Envelope("totalPosts")})
}

// SearchGlobal runs both searches and returns a few of each.
// @Summary Combined search
// @Tags search
// @Param q query string true "query"
// @Param limit query int false "per-entity fetch size" default(5)
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/search [get]
func (h *Handler) SearchGlobal(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	result, err := h.searchService.Global(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"results": result})
}
