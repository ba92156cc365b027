package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/cybertodo/backend/api/handler"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Todo    *apiHandler.TodoHandler
	Profile *apiHandler.ProfileHandler
	Health  *apiHandler.HealthHandler
}

func New(handlers Handlers, sessionAuth func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)
	r.GET("/api/docs/", apiHandler.Docs)

	// Account routes
	r.POST("/register", handlers.Auth.Register)
	r.POST("/login", handlers.Auth.Login)
	r.GET("/logout", handlers.Auth.Logout)

	// Session-protected routes
	r.GET("/api/todos", sessionAuth(handlers.Todo.List))
	r.POST("/api/todos", sessionAuth(handlers.Todo.Create))
	r.GET("/api/todos/{id}", sessionAuth(handlers.Todo.Get))
	r.PUT("/api/todos/{id}", sessionAuth(handlers.Todo.Update))
	r.DELETE("/api/todos/{id}", sessionAuth(handlers.Todo.Delete))
	r.PATCH("/api/todos/{id}/toggle", sessionAuth(handlers.Todo.Toggle))
	r.GET("/api/stats", sessionAuth(handlers.Todo.Stats))
	r.GET("/api/users/profile", sessionAuth(handlers.Profile.GetProfile))

	return r
}
