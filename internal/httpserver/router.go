// Package httpserver assembles the gin engine, middleware and route table.
package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"teamboard/internal/handler"
	"teamboard/internal/session"
)

type Router struct {
	Engine *gin.Engine
}

type Handlers struct {
	Auth    *handler.AuthHandler
	Team    *handler.TeamHandler
	Project *handler.ProjectHandler
	Task    *handler.TaskHandler
	File    *handler.FileHandler
	User    *handler.UserHandler
}

// NewRouter wires the route table. db may be nil (demo mode runs on the
// in-memory store); readiness then only covers what is configured.
func NewRouter(h Handlers, sessions *session.Store, db *pgxpool.Pool, rdb *redis.Client) *Router {
	r := gin.Default()
	r.Use(MetricsMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if db != nil {
			if err := db.Ping(ctx); err != nil {
				c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
				return
			}
		}
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				c.JSON(500, gin.H{"status": "redis_not_ready", "error": err.Error()})
				return
			}
		}
		c.JSON(200, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	r.POST("/api/auth/register", h.Auth.Register)
	r.POST("/api/auth/login", h.Auth.Login)

	// Protected
	auth := r.Group("/api")
	auth.Use(AuthMiddleware(sessions))
	{
		auth.POST("/auth/logout", h.Auth.Logout)
		auth.GET("/auth/me", h.Auth.Me)

		auth.GET("/users", h.User.List)
		auth.DELETE("/users/:id", h.User.Delete)
		auth.PUT("/users/me", h.User.UpdateProfile)
		auth.PUT("/users/me/password", h.User.UpdatePassword)

		auth.GET("/teams", h.Team.List)
		auth.POST("/teams", h.Team.Create)
		auth.GET("/teams/:id", h.Team.Get)
		auth.PUT("/teams/:id", h.Team.Update)
		auth.DELETE("/teams/:id", h.Team.Delete)
		auth.GET("/teams/:id/members", h.Team.Members)
		auth.POST("/teams/:id/members", h.Team.AddMember)
		auth.DELETE("/teams/:id/members/:userId", h.Team.RemoveMember)
		auth.GET("/teams/:id/messages", h.Team.Messages)
		auth.POST("/teams/:id/messages", h.Team.PostMessage)
		auth.DELETE("/messages/:id", h.Team.DeleteMessage)

		auth.GET("/projects", h.Project.List)
		auth.POST("/projects", h.Project.Create)
		auth.GET("/projects/:id", h.Project.Get)
		auth.PUT("/projects/:id", h.Project.Update)
		auth.DELETE("/projects/:id", h.Project.Delete)
		auth.GET("/projects/:id/files", h.Project.Files)

		auth.GET("/tasks", h.Task.List)
		auth.POST("/tasks", h.Task.Create)
		auth.GET("/tasks/:id", h.Task.Get)
		auth.PUT("/tasks/:id", h.Task.Update)
		auth.PUT("/tasks/:id/status", h.Task.Move)
		auth.DELETE("/tasks/:id", h.Task.Delete)
		auth.GET("/tasks/:id/comments", h.Task.Comments)
		auth.POST("/tasks/:id/comments", h.Task.PostComment)
		auth.GET("/tasks/:id/files", h.Task.Files)
		auth.DELETE("/comments/:id", h.Task.DeleteComment)

		auth.POST("/files", h.File.Upload)
		auth.DELETE("/files/:id", h.File.Delete)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
