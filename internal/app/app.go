package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	_ "groupchat/docs"
	"groupchat/internal/authz"
	"groupchat/internal/config"
	"groupchat/internal/handlers"
	"groupchat/internal/middleware"
	"groupchat/internal/realtime"
	"groupchat/internal/repositories"
	"groupchat/internal/repositories/memory"
	"groupchat/internal/routes"
	"groupchat/internal/services"
)

type stores struct {
	users    repositories.UserRepository
	messages repositories.MessageRepository
	groups   repositories.GroupRepository
}

// App is the wired server: HTTP API plus websocket gateway over one store.
type App struct {
	cfg     *config.Config
	log     *slog.Logger
	db      *sql.DB
	router  *gin.Engine
	gateway *realtime.Gateway
	hub     *realtime.Hub
}

// New opens the configured store, applies migrations for Postgres and wires
// every component.
func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	var st stores
	switch cfg.Database.Driver {
	case "memory":
		mem := memory.NewStore()
		st = stores{users: mem.Users(), messages: mem.Messages(), groups: mem.Groups()}
		log.Warn("using in-memory store, data is lost on exit")
	default:
		db, err := OpenPostgres(cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		if err := repositories.RunMigrations(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		a.db = db
		st = stores{
			users:    repositories.NewUserRepository(db),
			messages: repositories.NewMessageRepository(db),
			groups:   repositories.NewGroupRepository(db),
		}
	}

	a.wire(st)
	return a, nil
}

func (a *App) wire(st stores) {
	cfg := a.cfg

	authService := services.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	var emailService services.EmailService
	if cfg.Email.Enabled() {
		emailService = services.NewEmailService(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
		)
	}
	userService := services.NewUserService(st.users, emailService, authService, a.log)

	authorizer := authz.NewMembershipAuthorizer(st.users, st.groups)
	a.hub = realtime.NewHub(authorizer, a.log)

	delivery := services.NewDeliveryService(st.messages, authorizer, a.hub, cfg.Chat.MaxContentLength, a.log)
	chatService := services.NewChatService(st.messages, authorizer)
	groupService := services.NewGroupService(st.groups, st.users, st.messages, authorizer, a.hub, cfg.Chat.MaxGroupSize, a.log)

	dispatcher := realtime.NewDispatcher(delivery, a.hub.Rooms(), a.log)
	a.gateway = realtime.NewGateway(
		userService,
		a.hub,
		dispatcher,
		realtime.NewOriginPolicy(cfg.Server.AllowedOrigins, a.log),
		realtime.ConnConfig{
			SendBuffer:     cfg.Realtime.SendBuffer,
			MaxMessageSize: cfg.Realtime.MaxMessageSize,
			WriteWait:      cfg.Realtime.WriteWait,
			PongWait:       cfg.Realtime.PongWait,
			PingInterval:   cfg.Realtime.PingInterval,
			RateLimit:      cfg.Realtime.RateLimit,
			RateBurst:      cfg.Realtime.RateBurst,
		},
		a.log,
	)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	a.router = routes.SetupRoutes(
		router,
		userService,
		handlers.NewUserHandler(userService, a.log),
		handlers.NewChatHandler(chatService, delivery, a.log),
		handlers.NewGroupHandler(groupService, delivery, a.log),
		a.gateway.Handle,
		a.log,
	)
}

func (a *App) Handler() http.Handler { return a.router }

// Run serves until ctx is cancelled, then drains websocket connections and
// stops the HTTP server within the configured shutdown timeout.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(a.cfg.Server.Port),
		Handler: a.router,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server listening", slog.String("addr", srv.Addr), slog.String("store", a.cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	// hijacked websocket conns are invisible to srv.Shutdown
	if err := a.gateway.Shutdown(shutdownCtx); err != nil {
		a.log.Warn("websocket drain incomplete", slog.Any("error", err))
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// OpenPostgres opens and pings a lib/pq connection pool.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}
