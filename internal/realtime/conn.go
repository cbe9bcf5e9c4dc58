package realtime

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"groupchat/internal/models"
)

var (
	ErrConnClosed   = errors.New("connection closed")
	ErrSlowConsumer = errors.New("send buffer full")
)

// ConnConfig tunes a single websocket connection.
type ConnConfig struct {
	SendBuffer     int
	MaxMessageSize int64
	WriteWait      time.Duration
	PongWait       time.Duration
	PingInterval   time.Duration
	// RateLimit is inbound events per second; zero disables limiting.
	RateLimit float64
	RateBurst int
}

func DefaultConnConfig() ConnConfig {
	return ConnConfig{
		SendBuffer:     256,
		MaxMessageSize: 64 << 10,
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingInterval:   54 * time.Second,
		RateLimit:      10,
		RateBurst:      20,
	}
}

func (c ConnConfig) withDefaults() ConnConfig {
	d := DefaultConnConfig()
	if c.SendBuffer <= 0 {
		c.SendBuffer = d.SendBuffer
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = d.MaxMessageSize
	}
	if c.WriteWait <= 0 {
		c.WriteWait = d.WriteWait
	}
	if c.PongWait <= 0 {
		c.PongWait = d.PongWait
	}
	if c.PingInterval <= 0 || c.PingInterval >= c.PongWait {
		c.PingInterval = c.PongWait * 9 / 10
	}
	if c.RateBurst <= 0 {
		c.RateBurst = d.RateBurst
	}
	return c
}

// Conn is a Peer backed by a gorilla websocket. One goroutine reads, one
// writes; Push only ever enqueues.
type Conn struct {
	id       string
	identity models.Identity
	ws       *websocket.Conn
	cfg      ConnConfig
	limiter  *rate.Limiter
	log      *slog.Logger

	mu     sync.Mutex
	closed bool
	send   chan []byte
}

func NewConn(ws *websocket.Conn, identity models.Identity, cfg ConnConfig, log *slog.Logger) *Conn {
	cfg = cfg.withDefaults()
	id := uuid.NewString()
	c := &Conn{
		id:       id,
		identity: identity,
		ws:       ws,
		cfg:      cfg,
		send:     make(chan []byte, cfg.SendBuffer),
		log:      log.With(slog.String("connID", id), slog.String("userID", identity.UserID)),
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}
	return c
}

func (c *Conn) ID() string                { return c.id }
func (c *Conn) Identity() models.Identity { return c.identity }

// Push encodes ev and queues it for the write pump. A full buffer closes the
// connection instead of blocking the caller.
func (c *Conn) Push(ev models.Event) error {
	frame, err := models.NewEnvelope(ev)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- frame:
		return nil
	default:
		c.log.Warn("slow consumer, closing", slog.String("event", ev.EventName()))
		c.closeLocked()
		return ErrSlowConsumer
	}
}

// Close stops the write pump, which sends a close frame and releases the socket.
func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Conn) closeLocked() {
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// Serve runs both pumps and returns once the read side is done and the
// writer has exited. handle is called serially, in receipt order.
func (c *Conn) Serve(ctx context.Context, handle func(ctx context.Context, raw []byte)) {
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		c.writePump(ctx)
	}()

	c.readPump(ctx, handle)
	c.Close()
	<-writerDone
}

func (c *Conn) readPump(ctx context.Context, handle func(ctx context.Context, raw []byte)) {
	c.ws.SetReadLimit(c.cfg.MaxMessageSize)
	if err := c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongWait)); err != nil {
		c.log.Debug("set read deadline", slog.Any("error", err))
	}
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			c.logReadError(err)
			return
		}
		if c.limiter != nil && !c.limiter.Allow() {
			c.log.Info("rate limit exceeded, dropping event")
			_ = c.Push(models.SendMessageError{Message: "rate limit exceeded"})
			continue
		}
		handle(ctx, raw)
	}
}

func (c *Conn) writePump(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		if err := c.ws.Close(); err != nil && !isClosedConnError(err) {
			c.log.Debug("close socket", slog.Any("error", err))
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				if !isClosedConnError(err) {
					c.log.Warn("write failed", slog.Any("error", err))
				}
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		}
	}
}

func (c *Conn) logReadError(err error) {
	switch {
	case errors.Is(err, websocket.ErrReadLimit):
		c.log.Info("inbound frame too large", slog.Int64("limit", c.cfg.MaxMessageSize))
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived):
		c.log.Debug("client disconnected")
	case errors.Is(err, io.EOF), isClosedConnError(err):
		c.log.Debug("connection closed")
	case websocket.IsUnexpectedCloseError(err, websocket.CloseAbnormalClosure):
		c.log.Warn("unexpected close", slog.Any("error", err))
	default:
		c.log.Debug("read ended", slog.Any("error", err))
	}
}

func isClosedConnError(err error) bool {
	if errors.Is(err, net.ErrClosed) || errors.Is(err, websocket.ErrCloseSent) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
