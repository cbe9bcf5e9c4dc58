package app

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	"groupchat/internal/config"
)

type apiClient struct {
	t       *testing.T
	handler http.Handler
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	cfg.Database.Driver = "memory"
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour
	require.NoError(t, cfg.Validate())

	a, err := New(cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return &apiClient{t: t, handler: a.Handler()}
}

func (c *apiClient) do(method, path, token string, body any) (int, map[string]any) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, r)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

// signUp registers a user and returns its id and token.
func (c *apiClient) signUp(name, email string) (string, string) {
	c.t.Helper()
	code, body := c.do(http.MethodPost, "/user/sign-up", "", map[string]string{
		"name": name, "email": email, "password": "pw-" + name,
	})
	require.Equal(c.t, http.StatusCreated, code, body)
	id := body["data"].(map[string]any)["id"].(string)

	code, body = c.do(http.MethodPost, "/user/sign-in", "", map[string]string{"email": email, "password": "pw-" + name})
	require.Equal(c.t, http.StatusOK, code, body)
	return id, body["token"].(string)
}

func TestAPI_Accounts(t *testing.T) {
	req := require.New(t)
	api := newAPI(t)
	api.signUp("Ann", "ann@example.com")

	code, body := api.do(http.MethodPost, "/user/sign-up", "", map[string]string{"name": "Ann", "email": "ANN@example.com", "password": "x"})
	req.Equal(http.StatusBadRequest, code)
	req.Equal(false, body["success"])

	code, _ = api.do(http.MethodPost, "/user/sign-up", "", map[string]string{"email": "b@example.com"})
	req.Equal(http.StatusBadRequest, code)

	code, _ = api.do(http.MethodPost, "/user/sign-in", "", map[string]string{"email": "nobody@example.com", "password": "x"})
	req.Equal(http.StatusNotFound, code)

	code, _ = api.do(http.MethodPost, "/user/sign-in", "", map[string]string{"email": "ann@example.com", "password": "wrong"})
	req.Equal(http.StatusUnauthorized, code)

	code, _ = api.do(http.MethodGet, "/healthz", "", nil)
	req.Equal(http.StatusOK, code)
}

func TestAPI_ChatRoutesRequireAuth(t *testing.T) {
	req := require.New(t)
	api := newAPI(t)

	code, body := api.do(http.MethodGet, "/chat/get-all-group", "", nil)
	req.Equal(http.StatusUnauthorized, code)
	req.Equal("authentication required", body["message"])

	code, _ = api.do(http.MethodGet, "/chat/get-all-group", "garbage", nil)
	req.Equal(http.StatusUnauthorized, code)
}

func TestAPI_PrivateChat(t *testing.T) {
	req := require.New(t)
	api := newAPI(t)
	annID, annTok := api.signUp("Ann", "ann@example.com")
	benID, benTok := api.signUp("Ben", "ben@example.com")

	code, body := api.do(http.MethodPost, "/chat/post-messages", annTok, map[string]string{"receiverUser": benID, "content": "hi Ben"})
	req.Equal(http.StatusCreated, code, body)
	code, _ = api.do(http.MethodPost, "/chat/post-messages", benTok, map[string]string{"receiverUser": annID, "content": "hi Ann"})
	req.Equal(http.StatusCreated, code)

	code, _ = api.do(http.MethodPost, "/chat/post-messages", annTok, map[string]string{"receiverUser": "ghost", "content": "?"})
	req.Equal(http.StatusNotFound, code)

	code, body = api.do(http.MethodGet, "/chat/get-messages?receiverUser="+annID, benTok, nil)
	req.Equal(http.StatusOK, code)
	history := body["chatData"].([]any)
	req.Len(history, 2)
	req.Equal("hi Ben", history[0].(map[string]any)["content"])
	req.Equal("Ann", history[0].(map[string]any)["sender"].(map[string]any)["name"])

	code, body = api.do(http.MethodGet, "/chat/get-private-chat", annTok, nil)
	req.Equal(http.StatusOK, code)
	req.Len(body["data"].([]any), 1)
}

func TestAPI_GroupLifecycle(t *testing.T) {
	req := require.New(t)
	api := newAPI(t)
	annID, annTok := api.signUp("Ann", "ann@example.com")
	benID, benTok := api.signUp("Ben", "ben@example.com")
	cidID, cidTok := api.signUp("Cid", "cid@example.com")
	danID, _ := api.signUp("Dan", "dan@example.com")

	code, _ := api.do(http.MethodPost, "/chat/create-group", annTok, map[string]any{"groupName": "big", "memberIds": []string{benID, cidID, danID}})
	req.Equal(http.StatusBadRequest, code)

	code, body := api.do(http.MethodPost, "/chat/create-group", annTok, map[string]any{"groupName": "trip", "memberIds": []string{benID, benID, annID}})
	req.Equal(http.StatusCreated, code, body)
	groupID := body["data"].(map[string]any)["id"].(string)
	req.Len(body["data"].(map[string]any)["members"].([]any), 2)

	code, _ = api.do(http.MethodPost, "/chat/post-message-group", benTok, map[string]string{"groupId": groupID, "content": "hello"})
	req.Equal(http.StatusCreated, code)
	code, _ = api.do(http.MethodPost, "/chat/post-message-group", cidTok, map[string]string{"groupId": groupID, "content": "me too"})
	req.Equal(http.StatusForbidden, code)

	code, body = api.do(http.MethodGet, "/chat/get-message-group?groupId="+groupID, annTok, nil)
	req.Equal(http.StatusOK, code)
	req.Len(body["data"].([]any), 1)

	code, _ = api.do(http.MethodGet, "/chat/get-message-group?groupId=nope", annTok, nil)
	req.Equal(http.StatusNotFound, code)
	code, _ = api.do(http.MethodGet, "/chat/get-message-group?groupId="+groupID, cidTok, nil)
	req.Equal(http.StatusForbidden, code)

	code, body = api.do(http.MethodPost, "/chat/get-group", benTok, map[string]string{"groupId": groupID})
	req.Equal(http.StatusOK, code)
	req.Equal(annID, body["groupData"].(map[string]any)["admin"].(map[string]any)["id"])

	code, body = api.do(http.MethodGet, "/chat/get-all-group", benTok, nil)
	req.Equal(http.StatusOK, code)
	req.Len(body["data"].([]any), 1)

	code, _ = api.do(http.MethodPost, "/chat/remove-group-member", benTok, map[string]string{"groupId": groupID, "userId": annID})
	req.Equal(http.StatusForbidden, code)
	code, _ = api.do(http.MethodPost, "/chat/remove-group-member", annTok, map[string]string{"groupId": groupID, "userId": annID})
	req.Equal(http.StatusBadRequest, code)
	code, _ = api.do(http.MethodPost, "/chat/remove-group-member", annTok, map[string]string{"groupId": groupID, "userId": benID})
	req.Equal(http.StatusOK, code)

	code, _ = api.do(http.MethodGet, "/chat/get-message-group?groupId="+groupID, benTok, nil)
	req.Equal(http.StatusForbidden, code)
	code, body = api.do(http.MethodGet, "/chat/get-all-group", benTok, nil)
	req.Equal(http.StatusOK, code)
	req.Empty(body["data"].([]any))
}

func TestSwaggerDocumentsEveryAPIRoute(t *testing.T) {
	req := require.New(t)
	cfg := config.Default()
	cfg.Database.Driver = "memory"
	cfg.Auth.JWTSecret = "test-secret"
	a, err := New(cfg, slog.New(slog.DiscardHandler))
	req.NoError(err)
	t.Cleanup(func() { _ = a.Close() })

	raw, err := swag.ReadDoc()
	req.NoError(err)
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	req.NoError(json.Unmarshal([]byte(raw), &doc))

	var checked int
	for _, route := range a.router.Routes() {
		if !strings.HasPrefix(route.Path, "/chat/") && !strings.HasPrefix(route.Path, "/user/") {
			continue
		}
		checked++
		_, ok := doc.Paths[route.Path][strings.ToLower(route.Method)]
		req.True(ok, "%s %s is not in the swagger doc", route.Method, route.Path)
	}
	req.Equal(11, checked)
}
