package realtime

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"groupchat/internal/apperrors"
	"groupchat/internal/models"
	"groupchat/internal/utils"
)

// Authenticator resolves an identity token to a live user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Identity, error)
}

// Gateway admits websocket connections and runs them until they close.
type Gateway struct {
	auth       Authenticator
	hub        *Hub
	dispatcher *Dispatcher
	upgrader   websocket.Upgrader
	cfg        ConnConfig
	log        *slog.Logger

	// base is cancelled by Shutdown; every connection context derives from it.
	base   context.Context
	cancel context.CancelFunc

	// mu orders wg.Add against Shutdown's Wait.
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewGateway(auth Authenticator, hub *Hub, dispatcher *Dispatcher, origins *OriginPolicy, cfg ConnConfig, log *slog.Logger) *Gateway {
	base, cancel := context.WithCancel(context.Background())
	return &Gateway{
		auth:       auth,
		hub:        hub,
		dispatcher: dispatcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     origins.Check,
		},
		cfg:    cfg.withDefaults(),
		log:    log.With(slog.String("component", "gateway")),
		base:   base,
		cancel: cancel,
	}
}

// Admit checks a connection's token before the upgrade. It returns
// ErrAuthRequired, ErrInvalidToken, ErrUnknownUser or a wrapped ErrInternal.
func (g *Gateway) Admit(ctx context.Context, token string) (*models.Identity, error) {
	if token == "" {
		return nil, apperrors.ErrAuthRequired
	}
	return g.auth.Authenticate(ctx, token)
}

// Handle is the gin handler for the websocket endpoint. Rejected connections
// get a plain HTTP error and are never upgraded.
func (g *Gateway) Handle(c *gin.Context) {
	identity, err := g.Admit(c.Request.Context(), utils.TokenFromRequest(c.Request))
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, apperrors.ErrInternal) {
			status = http.StatusInternalServerError
			g.log.Error("admission failed", slog.Any("error", err))
		} else {
			g.log.Debug("connection refused", slog.String("remote", c.ClientIP()), slog.Any("error", err))
		}
		c.AbortWithStatusJSON(status, gin.H{"success": false, "message": apperrors.PublicMessage(err)})
		return
	}

	ws, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already written the HTTP error
		g.log.Info("websocket upgrade failed", slog.String("userID", identity.UserID), slog.Any("error", err))
		return
	}

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		_ = ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "server shutting down"), time.Now().Add(g.cfg.WriteWait))
		_ = ws.Close()
		return
	}
	g.wg.Add(1)
	g.mu.Unlock()

	go g.serve(NewConn(ws, *identity, g.cfg, g.log))
}

func (g *Gateway) serve(conn *Conn) {
	defer g.wg.Done()

	g.hub.Connect(conn)
	defer g.hub.Disconnect(conn)

	conn.Serve(g.base, func(ctx context.Context, raw []byte) {
		g.dispatcher.Dispatch(ctx, conn, raw)
	})
}

// Shutdown closes every live connection and waits for their goroutines, or
// for ctx to expire.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
	g.cancel()
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
