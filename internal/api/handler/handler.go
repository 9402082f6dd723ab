package handler

import (
	"mime/multipart"
	"path/filepath"

	"github.com/d60-Lab/mingle/internal/realtime"
	"github.com/d60-Lab/mingle/internal/service"
	"github.com/d60-Lab/mingle/pkg/blob"
)

// Handler 聚合全部 HTTP 入口
type Handler struct {
	authService    service.AuthService
	profileService service.ProfileService
	postService    service.PostService
	followService  service.FollowService
	chatService    service.ChatService
	searchService  service.SearchService
	blobs          blob.Store
	hub            *realtime.Hub
}

func New(
	authService service.AuthService,
	profileService service.ProfileService,
	postService service.PostService,
	followService service.FollowService,
	chatService service.ChatService,
	searchService service.SearchService,
	blobs blob.Store,
	hub *realtime.Hub,
) *Handler {
	return &Handler{
		authService:    authService,
		profileService: profileService,
		postService:    postService,
		followService:  followService,
		chatService:    chatService,
		searchService:  searchService,
		blobs:          blobs,
		hub:            hub,
	}
}

// saveUpload stores one multipart file in the blob store and returns its
// public URL.
func (h *Handler) saveUpload(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	ref, err := h.blobs.Save(f, filepath.Ext(fh.Filename))
	if err != nil {
		return "", err
	}
	return h.blobs.URL(ref), nil
}
