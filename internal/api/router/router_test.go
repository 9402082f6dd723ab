package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/mingle/internal/api/handler"
	"github.com/d60-Lab/mingle/internal/config"
	"github.com/d60-Lab/mingle/internal/database"
	"github.com/d60-Lab/mingle/internal/realtime"
	"github.com/d60-Lab/mingle/internal/repository"
	"github.com/d60-Lab/mingle/internal/service"
	"github.com/d60-Lab/mingle/pkg/blob"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	followRepo := repository.NewFollowRepository(db)
	chatRepo := repository.NewChatRepository(db)

	hub := realtime.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	blobs, err := blob.NewDiskStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	authService := service.NewAuthService(userRepo, "test-secret", time.Hour)
	h := handler.New(
		authService,
		service.NewProfileService(userRepo),
		service.NewPostService(postRepo, userRepo, blobs, hub),
		service.NewFollowService(followRepo, userRepo, nil, hub),
		service.NewChatService(chatRepo, userRepo, hub),
		service.NewSearchService(userRepo, postRepo),
		blobs,
		hub,
	)

	cfg := &config.Config{
		Server:    config.ServerConfig{Mode: "release"},
		Uploads:   config.UploadsConfig{Dir: t.TempDir(), BaseURL: "/uploads"},
		RateLimit: config.RateLimitConfig{RPS: 1000, Burst: 1000},
	}
	ts := httptest.NewServer(New(cfg, h, authService))
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func register(t *testing.T, ts *httptest.Server, username string) string {
	t.Helper()
	resp, out := doJSON(t, http.MethodPost, ts.URL+"/api/auth/register", "", map[string]any{
		"firstName": "Test",
		"lastName":  "User",
		"username":  username,
		"email":     username + "@example.com",
		"password":  "secret123",
		"interests": []string{"go"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "register %s: %v", username, out)
	data := out["data"].(map[string]any)
	return data["token"].(string)
}

func TestRegisterLoginFlow(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "alice")

	resp, out := doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["success"])
	data := out["data"].(map[string]any)
	assert.NotEmpty(t, data["token"])

	resp, out = doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", out["msg"])
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	ts := newTestServer(t)

	resp, out := doJSON(t, http.MethodPost, ts.URL+"/api/posts", "", map[string]any{"text": "hi"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "No token, authorization denied", out["msg"])

	resp, out = doJSON(t, http.MethodPost, ts.URL+"/api/posts", "garbage", map[string]any{"text": "hi"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Token is not valid", out["msg"])
}

func TestPostLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	aliceToken := register(t, ts, "alice")
	bobToken := register(t, ts, "bob")

	resp, out := doJSON(t, http.MethodPost, ts.URL+"/api/posts", aliceToken, map[string]any{"text": "hello world"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	post := out["data"].(map[string]any)["post"].(map[string]any)
	postID := post["id"].(string)

	resp, out = doJSON(t, http.MethodPost, ts.URL+"/api/posts/"+postID+"/like", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, out = doJSON(t, http.MethodPost, ts.URL+"/api/posts/"+postID+"/like", bobToken, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Post already liked", out["msg"])

	resp, out = doJSON(t, http.MethodPost, ts.URL+"/api/posts/"+postID+"/comments", bobToken, map[string]any{"text": "nice"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Bob cannot delete Alice's post.
	resp, out = doJSON(t, http.MethodDelete, ts.URL+"/api/posts/"+postID, bobToken, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/posts/"+postID, aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/posts/"+postID, "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFeedPaginationEnvelope(t *testing.T) {
	ts := newTestServer(t)
	token := register(t, ts, "alice")

	for i := 0; i < 12; i++ {
		resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/posts", token, map[string]any{"text": fmt.Sprintf("post %d", i)})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, out := doJSON(t, http.MethodGet, ts.URL+"/api/posts?page=1&limit=10", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := out["data"].(map[string]any)
	assert.Len(t, data["posts"], 10)
	pg := data["pagination"].(map[string]any)
	assert.Equal(t, float64(1), pg["currentPage"])
	assert.Equal(t, float64(2), pg["totalPages"])
	assert.Equal(t, float64(12), pg["totalPosts"])
	assert.Equal(t, true, pg["hasNextPage"])
	assert.Equal(t, false, pg["hasPrevPage"])
}

func TestChatFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	aliceToken := register(t, ts, "alice")
	bobToken := register(t, ts, "bob")

	// Bob's id via his own profile.
	resp, out := doJSON(t, http.MethodGet, ts.URL+"/api/profile/bob", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	bobID := out["data"].(map[string]any)["user"].(map[string]any)["id"].(string)

	resp, out = doJSON(t, http.MethodGet, ts.URL+"/api/chats/user/"+bobID, aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	chatID := out["data"].(map[string]any)["chat"].(map[string]any)["id"].(string)

	resp, out = doJSON(t, http.MethodPost, ts.URL+"/api/chats/"+chatID+"/message", aliceToken, map[string]any{"text": "hi bob"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, out = doJSON(t, http.MethodGet, ts.URL+"/api/chats/"+chatID+"/messages", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := out["data"].(map[string]any)
	assert.Len(t, data["messages"], 1)
	assert.Equal(t, false, data["hasMore"])

	resp, out = doJSON(t, http.MethodGet, ts.URL+"/api/chats", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	chats := out["data"].(map[string]any)["chats"].([]any)
	require.Len(t, chats, 1)
	assert.Equal(t, float64(1), chats[0].(map[string]any)["unreadCount"])
}

func TestFollowFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	aliceToken := register(t, ts, "alice")
	register(t, ts, "bob")

	resp, out := doJSON(t, http.MethodGet, ts.URL+"/api/profile/bob", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	bobID := out["data"].(map[string]any)["user"].(map[string]any)["id"].(string)

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/follow/"+bobID, aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, out = doJSON(t, http.MethodPost, ts.URL+"/api/follow/"+bobID, aliceToken, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Already following this user", out["msg"])

	resp, out = doJSON(t, http.MethodGet, ts.URL+"/api/follow/check/"+bobID, aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["data"].(map[string]any)["isFollowing"])

	resp, out = doJSON(t, http.MethodGet, ts.URL+"/api/follow/following", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, out["data"].(map[string]any)["following"], 1)

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/follow/"+bobID, aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/follow/"+bobID, aliceToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSearchOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	token := register(t, ts, "gopher")

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/posts", token, map[string]any{"text": "gopher things"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, out := doJSON(t, http.MethodGet, ts.URL+"/api/search?q=GOPHER", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	results := out["data"].(map[string]any)["results"].(map[string]any)
	assert.Len(t, results["users"], 1)
	assert.Len(t, results["posts"], 1)
	assert.Equal(t, float64(2), results["totalResults"])

	resp, out = doJSON(t, http.MethodGet, ts.URL+"/api/search/users?q=", "", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Search query is required", out["msg"])
}
