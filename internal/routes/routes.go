package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/wiremail/wiremail-backend/internal/handler"
	"github.com/wiremail/wiremail-backend/internal/middleware"
	"github.com/wiremail/wiremail-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	authHandler *handler.AuthHandler,
	mailboxHandler *handler.MailboxHandler,
	directoryHandler *handler.DirectoryHandler,
	wsHandler *handler.WSHandler,
	jwtManager *jwt.Manager,
) {
	api := router.Group("/api/v1")

	// Authentication (no auth required)
	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)

	// Mailbox
	messages := api.Group("/messages", middleware.JWTAuth(jwtManager))
	messages.GET("", mailboxHandler.List)
	messages.POST("", mailboxHandler.Send)
	messages.GET("/:id", mailboxHandler.Get)
	messages.GET("/:id/reply", mailboxHandler.ReplyDraft)
	messages.PATCH("/:id/read", mailboxHandler.SetRead)
	messages.PATCH("/:id/star", mailboxHandler.SetStarred)

	// Recipient directory
	dir := api.Group("/directory", middleware.JWTAuth(jwtManager))
	dir.GET("/reachable", directoryHandler.Reachable)
	dir.GET("/suggest", directoryHandler.Suggest)

	// Live mailbox stream (token via query param)
	router.GET("/ws", middleware.JWTAuth(jwtManager), wsHandler.Connect)
}
