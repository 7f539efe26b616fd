package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/disciplinehub/backend/api/handler"
)

type Handlers struct {
	Auth        *apiHandler.AuthHandler
	Task        *apiHandler.TaskHandler
	Progression *apiHandler.ProgressionHandler
	Challenge   *apiHandler.ChallengeHandler
	Health      *apiHandler.HealthHandler
}

type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

func New(handlers Handlers, auth Middleware, optionalAuth Middleware) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)

	// Tasks
	r.GET("/api/v1/tasks", auth(handlers.Task.GetTasks))
	r.POST("/api/v1/tasks", auth(handlers.Task.CreateTask))
	r.POST("/api/v1/tasks/{id}/toggle", auth(handlers.Task.ToggleTask))
	r.DELETE("/api/v1/tasks/{id}", auth(handlers.Task.DeleteTask))

	// Progression
	r.GET("/api/v1/stats", auth(handlers.Progression.GetStats))
	r.GET("/api/v1/leaderboard", auth(handlers.Progression.GetLeaderboard))
	r.GET("/api/v1/activity", auth(handlers.Progression.GetActivity))

	// Focus sessions
	r.POST("/api/v1/focus-sessions", auth(handlers.Progression.RecordFocusSession))
	r.GET("/api/v1/focus-sessions", auth(handlers.Progression.ListFocusSessions))
	r.DELETE("/api/v1/focus-sessions/{id}", auth(handlers.Progression.DeleteFocusSession))
	r.GET("/api/v1/focus/weekly", auth(handlers.Progression.GetWeeklyFocus))
	r.GET("/api/v1/focus/daily", auth(handlers.Progression.GetDailyFocus))

	// Challenges. Token routes are public so a shared link works without an
	// account; acceptors without a valid token become guests.
	r.POST("/api/v1/challenges", auth(handlers.Challenge.CreateChallenge))
	r.GET("/api/v1/challenges", auth(handlers.Challenge.ListChallenges))
	r.GET("/api/v1/challenges/token/{token}", handlers.Challenge.GetByToken)
	r.POST("/api/v1/challenges/token/{token}/accept", optionalAuth(handlers.Challenge.AcceptChallenge))
	r.POST("/api/v1/challenges/{id}/check", auth(handlers.Challenge.CheckCompletion))

	return r
}
