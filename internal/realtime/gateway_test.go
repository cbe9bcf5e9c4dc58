package realtime_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"groupchat/internal/apperrors"
	"groupchat/internal/models"
	"groupchat/internal/realtime"
	"groupchat/internal/services"
)

type gatewayFixture struct {
	*fixture
	auth    services.AuthService
	gateway *realtime.Gateway
	server  *httptest.Server
}

func newGatewayFixture(t *testing.T, origins ...string) *gatewayFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	log := slog.New(slog.DiscardHandler)
	auth := services.NewAuthService("test-secret", time.Hour)
	users := services.NewUserService(f.store.Users(), nil, auth, log)

	gw := realtime.NewGateway(users, f.hub, f.dispatcher, realtime.NewOriginPolicy(origins, log), realtime.ConnConfig{
		SendBuffer: 16,
		RateLimit:  1000,
		RateBurst:  1000,
	}, log)

	r := gin.New()
	r.GET("/ws", gw.Handle)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = gw.Shutdown(ctx)
		srv.Close()
	})
	return &gatewayFixture{fixture: f, auth: auth, gateway: gw, server: srv}
}

func (g *gatewayFixture) token(t *testing.T, userID, name string) string {
	t.Helper()
	tok, err := g.auth.Issue(userID, name)
	require.NoError(t, err)
	return tok
}

func (g *gatewayFixture) dial(t *testing.T, query string, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(g.server.URL, "http") + "/ws" + query
	ws, resp, err := websocket.DefaultDialer.Dial(url, header)
	if ws != nil {
		t.Cleanup(func() { _ = ws.Close() })
	}
	return ws, resp, err
}

func readEnvelope(t *testing.T, ws *websocket.Conn) models.Envelope {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := ws.ReadMessage()
	require.NoError(t, err)
	var env models.Envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return env
}

func TestGateway_RejectsBeforeUpgrade(t *testing.T) {
	g := newGatewayFixture(t)
	g.user(t, "a", "Ann")

	cases := []struct {
		name   string
		query  string
		header http.Header
		want   string
	}{
		{"no token", "", nil, apperrors.ErrAuthRequired.Error()},
		{"garbage token", "?token=not-a-jwt", nil, apperrors.ErrInvalidToken.Error()},
		{"unknown user", "?token=" + g.token(t, "ghost", "Ghost"), nil, apperrors.ErrUnknownUser.Error()},
		{"bad bearer header", "", http.Header{"Authorization": {"Bearer nope"}}, apperrors.ErrInvalidToken.Error()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)
			_, resp, err := g.dial(t, tc.query, tc.header)
			req.ErrorIs(err, websocket.ErrBadHandshake)
			req.NotNil(resp)
			defer resp.Body.Close()
			req.Equal(http.StatusUnauthorized, resp.StatusCode)

			var body map[string]any
			req.NoError(json.NewDecoder(resp.Body).Decode(&body))
			req.Equal(tc.want, body["message"])
		})
	}
	require.Zero(t, g.hub.Registry().Len())
}

func TestGateway_Admit(t *testing.T) {
	req := require.New(t)
	g := newGatewayFixture(t)
	g.user(t, "a", "Ann")
	ctx := context.Background()

	_, err := g.gateway.Admit(ctx, "")
	req.ErrorIs(err, apperrors.ErrAuthRequired)

	id, err := g.gateway.Admit(ctx, g.token(t, "a", "Ann"))
	req.NoError(err)
	req.Equal(models.Identity{UserID: "a", Name: "Ann"}, *id)
}

func TestGateway_PrivateRoundTrip(t *testing.T) {
	req := require.New(t)
	g := newGatewayFixture(t)
	g.user(t, "a", "Ann")
	g.user(t, "b", "Ben")

	wsA, _, err := g.dial(t, "?token="+g.token(t, "a", "Ann"), nil)
	req.NoError(err)
	wsB, _, err := g.dial(t, "", http.Header{"Authorization": {"Bearer " + g.token(t, "b", "Ben")}})
	req.NoError(err)
	req.Eventually(func() bool { return g.hub.Registry().Len() == 2 }, 2*time.Second, 10*time.Millisecond)

	req.NoError(wsA.WriteMessage(websocket.TextMessage, []byte(`{"event":"sendMessage","data":{"receiverId":"b","content":"ping"}}`)))

	got := readEnvelope(t, wsB)
	req.Equal(models.EventNewMessage, got.Event)
	var msg models.PrivateMessage
	req.NoError(json.Unmarshal(got.Data, &msg))
	req.Equal("ping", msg.Content)
	req.Equal("Ann", msg.SenderName)

	confirm := readEnvelope(t, wsA)
	req.Equal(models.EventMessageSentConfirmation, confirm.Event)
}

func TestGateway_DisconnectUnbinds(t *testing.T) {
	req := require.New(t)
	g := newGatewayFixture(t)
	g.user(t, "a", "Ann")
	g.group(t, "g1", "a")

	ws, _, err := g.dial(t, "?token="+g.token(t, "a", "Ann"), nil)
	req.NoError(err)
	req.NoError(ws.WriteMessage(websocket.TextMessage, []byte(`{"event":"joinGroup","data":{"groupId":"g1"}}`)))
	req.Equal(models.EventGroupJoined, readEnvelope(t, ws).Event)
	req.Len(g.hub.Rooms().Subscribers("g1"), 1)

	req.NoError(ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	_ = ws.Close()

	req.Eventually(func() bool {
		return g.hub.Registry().Len() == 0 && len(g.hub.Rooms().Subscribers("g1")) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGateway_OriginPolicy(t *testing.T) {
	req := require.New(t)
	g := newGatewayFixture(t, "https://chat.example.com")
	g.user(t, "a", "Ann")
	tok := "?token=" + g.token(t, "a", "Ann")

	_, resp, err := g.dial(t, tok, http.Header{"Origin": {"https://evil.example.com"}})
	req.ErrorIs(err, websocket.ErrBadHandshake)
	req.Equal(http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	_, _, err = g.dial(t, tok, http.Header{"Origin": {"https://CHAT.example.com"}})
	req.NoError(err)
}

func TestGateway_ShutdownClosesConnections(t *testing.T) {
	req := require.New(t)
	g := newGatewayFixture(t)
	g.user(t, "a", "Ann")

	ws, _, err := g.dial(t, "?token="+g.token(t, "a", "Ann"), nil)
	req.NoError(err)
	req.Eventually(func() bool { return g.hub.Registry().Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req.NoError(g.gateway.Shutdown(ctx))
	req.Zero(g.hub.Registry().Len())

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = ws.ReadMessage()
	req.True(websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestGateway_RefusesConnectionsAfterShutdown(t *testing.T) {
	req := require.New(t)
	g := newGatewayFixture(t)
	g.user(t, "a", "Ann")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req.NoError(g.gateway.Shutdown(ctx))

	ws, _, err := g.dial(t, "?token="+g.token(t, "a", "Ann"), nil)
	req.NoError(err)
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = ws.ReadMessage()
	req.True(websocket.IsCloseError(err, websocket.CloseTryAgainLater), "got %v", err)
	req.Zero(g.hub.Registry().Len())
}

func TestGateway_ShutdownWaitsForConnectionsAdmittedConcurrently(t *testing.T) {
	req := require.New(t)
	g := newGatewayFixture(t)
	users := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	url := "ws" + strings.TrimPrefix(g.server.URL, "http") + "/ws?token="

	var wg sync.WaitGroup
	for _, id := range users {
		g.user(t, id, "user "+id)
		tok := g.token(t, id, "user "+id)
		wg.Add(1)
		go func() {
			defer wg.Done()
			ws, _, err := websocket.DefaultDialer.Dial(url+tok, nil)
			if err == nil {
				t.Cleanup(func() { _ = ws.Close() })
			}
		}()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req.NoError(g.gateway.Shutdown(ctx))
	wg.Wait()

	// everything admitted before Shutdown has been drained, everything after refused
	req.Zero(g.hub.Registry().Len())
}
