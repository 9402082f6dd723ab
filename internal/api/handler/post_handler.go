package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/mingle/internal/middleware"
	"github.com/d60-Lab/mingle/pkg/response"
)

func pageParams(c *gin.Context, defaultLimit int) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	return page, limit
}

// CreatePost accepts JSON or multipart (text + optional image file).
// @Summary Create post
// @Tags posts
// @Accept json
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param text formData string true "post text, 1-280 chars"
// @Param image formData file false "attached image"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req struct {
		Text string `form:"text" json:"text"`
	}
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	image := ""
	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		ref, err := h.saveUpload(fh)
		if err != nil {
			response.Error(c, err)
			return
		}
		image = ref
	}

	user := middleware.CurrentUser(c)
	post, err := h.postService.Create(c.Request.Context(), user, req.Text, image)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"post": post})
}

// GetFeedPosts lists all posts, newest first.
// @Summary Feed
// @Tags posts
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(10)
// @Success 200 {object} map[string]any
// @Router /api/posts [get]
func (h *Handler) GetFeedPosts(c *gin.Context) {
	page, limit := pageParams(c, 10)
	posts, pg, err := h.postService.Feed(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"posts": posts, "pagination": pg.Envelope("totalPosts")})
}

// GetPost returns one post with comments populated.
// @Summary Get post
// @Tags posts
// @Param id path string true "post id"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	post, err := h.postService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"post": post})
}

// DeletePost removes the caller's own post and its image blob.
// @Summary Delete post
// @Tags posts
// @Security BearerAuth
// @Param id path string true "post id"
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Router /api/posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.postService.Delete(c.Request.Context(), c.Param("id"), user); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{})
}

// GetUserPosts lists one user's posts by username.
// @Summary User posts
// @Tags posts
// @Param username path string true "username"
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(10)
// @Success 200 {object} map[string]any
// @Router /api/posts/users/{username}/posts [get]
func (h *Handler) GetUserPosts(c *gin.Context) {
	page, limit := pageParams(c, 10)
	posts, pg, err := h.postService.ListByUsername(c.Request.Context(), c.Param("username"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"posts": posts, "pagination": pg.Envelope("totalPosts")})
}

// LikePost records a like; liking twice is an error, not a no-op.
// @Summary Like post
// @Tags posts
// @Security BearerAuth
// @Param id path string true "post id"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/posts/{id}/like [post]
func (h *Handler) LikePost(c *gin.Context) {
	user := middleware.CurrentUser(c)
	post, err := h.postService.Like(c.Request.Context(), c.Param("id"), user)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"post": post})
}

// UnlikePost removes a like; unliking a not-liked post is an error.
// @Summary Unlike post
// @Tags posts
// @Security BearerAuth
// @Param id path string true "post id"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/posts/{id}/like [delete]
func (h *Handler) UnlikePost(c *gin.Context) {
	user := middleware.CurrentUser(c)
	post, err := h.postService.Unlike(c.Request.Context(), c.Param("id"), user)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"post": post})
}

type commentRequest struct {
	Text string `json:"text"`
}

// AddComment appends a comment and broadcasts newComment.
// @Summary Comment on post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "post id"
// @Param request body commentRequest true "comment text, 1-500 chars"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/posts/{id}/comments [post]
func (h *Handler) AddComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user := middleware.CurrentUser(c)
	comment, err := h.postService.AddComment(c.Request.Context(), c.Param("id"), user, req.Text)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"comment": comment})
}

// GetComments pages a post's comments, newest first.
// @Summary List comments
// @Tags posts
// @Param id path string true "post id"
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(10)
// @Success 200 {object} map[string]any
// @Router /api/posts/{id}/comments [get]
func (h *Handler) GetComments(c *gin.Context) {
	page, limit := pageParams(c, 10)
	comments, pg, err := h.postService.Comments(c.Request.Context(), c.Param("id"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"comments": comments, "pagination": pg.Envelope("totalComments")})
}

// DeleteComment is allowed to the comment author or the post owner.
// @Summary Delete comment
// @Tags posts
// @Security BearerAuth
// @Param id path string true "post id"
// @Param commentId path string true "comment id"
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Router /api/posts/{id}/comments/{commentId} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.postService.DeleteComment(c.Request.Context(), c.Param("id"), c.Param("commentId"), user); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{})
}
