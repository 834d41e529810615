package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskflow/backend/api/handler"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Task    *apiHandler.TaskHandler
	User    *apiHandler.UserHandler
	Chatbot *apiHandler.ChatbotHandler
	Health  *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)
	r.POST("/api/v1/auth/logout", handlers.Auth.Logout)

	// Channel webhook: the external messaging adapter delivers messages here
	// on behalf of its users, outside the browser session flow.
	r.POST("/api/v1/channel/webhook", handlers.Chatbot.ChannelWebhook)

	// Protected routes
	r.POST("/api/v1/chatbot", authMiddleware(handlers.Chatbot.Interpret))

	r.GET("/api/v1/users", authMiddleware(handlers.User.List))
	r.GET("/api/v1/users/me", authMiddleware(handlers.User.Me))

	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.GetTasks))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.CreateTask))
	r.PUT("/api/v1/tasks/{id}", authMiddleware(handlers.Task.UpdateTask))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))

	return r
}
