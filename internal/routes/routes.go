package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"groupchat/internal/handlers"
	"groupchat/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	auth middleware.Authenticator,
	userHandler *handlers.UserHandler,
	chatHandler *handlers.ChatHandler,
	groupHandler *handlers.GroupHandler,
	wsHandler gin.HandlerFunc,
	log *slog.Logger,
) *gin.Engine {

	// ---- public
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	user := r.Group("/user")
	{
		user.POST("/sign-up", userHandler.SignUp)
		user.POST("/sign-in", userHandler.SignIn)
	}

	// the websocket endpoint does its own token admission before upgrading
	r.GET("/ws", wsHandler)

	// ---- protected
	chat := r.Group("/chat", middleware.AuthMiddleware(auth, log))
	{
		chat.GET("/get-messages", chatHandler.GetMessages)
		chat.GET("/get-private-chat", chatHandler.ListPartners)
		chat.POST("/post-messages", chatHandler.SendMessage)

		chat.POST("/create-group", groupHandler.CreateGroup)
		chat.GET("/get-all-group", groupHandler.ListGroups)
		chat.POST("/post-message-group", groupHandler.SendMessage)
		chat.GET("/get-message-group", groupHandler.GetMessages)
		chat.POST("/remove-group-member", groupHandler.RemoveMember)
		chat.POST("/get-group", groupHandler.GetGroup)
	}

	return r
}
