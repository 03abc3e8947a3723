package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/huddle14/huddle/internal/api/handler"
	"github.com/huddle14/huddle/internal/api/middleware"
	"github.com/huddle14/huddle/internal/auth"
	"github.com/huddle14/huddle/internal/invite"
	"github.com/huddle14/huddle/internal/project"
	"github.com/huddle14/huddle/internal/team"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	AuthService    *auth.Service
	TeamService    *team.Service
	InviteService  *invite.Service
	ProjectService *project.Service
	DBPinger       handler.DBPinger
	Version        string
	Recorder       middleware.HTTPRecorder
	MetricsHandler http.Handler
	RateLimiter    *middleware.RateLimiter
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	if deps.Recorder != nil {
		r.Use(middleware.Metrics(deps.Recorder))
	}

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	authHandler := handler.NewAuthHandler(deps.AuthService)
	r.Post("/auth/github", authHandler.Login)

	teamHandler := handler.NewTeamHandler(deps.TeamService)
	inviteHandler := handler.NewInviteHandler(deps.InviteService)
	projectHandler := handler.NewProjectHandler(deps.ProjectService)
	taskHandler := handler.NewTaskHandler(deps.ProjectService)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(deps.AuthService))
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware())
		}

		r.Get("/invites", inviteHandler.ListForCaller)
		r.Patch("/invites/{inviteID}/accept", inviteHandler.Accept)
		r.Patch("/invites/{inviteID}/reject", inviteHandler.Reject)

		r.Route("/teams", func(r chi.Router) {
			r.Post("/", teamHandler.Create)
			r.Get("/", teamHandler.List)

			r.Route("/{teamID}", func(r chi.Router) {
				r.Get("/", teamHandler.Get)
				r.Delete("/", teamHandler.Delete)
				r.Get("/members", teamHandler.ListMembers)

				r.Route("/invites", func(r chi.Router) {
					r.Post("/", inviteHandler.Create)
					r.Get("/", inviteHandler.ListForTeam)
					r.Delete("/{inviteID}", inviteHandler.Delete)
				})

				r.Route("/projects", func(r chi.Router) {
					r.Post("/", projectHandler.Create)
					r.Get("/", projectHandler.List)

					r.Route("/{projectID}", func(r chi.Router) {
						r.Get("/", projectHandler.Get)
						r.Put("/", projectHandler.Update)

						r.Route("/tasks", func(r chi.Router) {
							r.Post("/", taskHandler.Create)
							r.Get("/", taskHandler.List)

							r.Route("/{taskID}", func(r chi.Router) {
								r.Get("/", taskHandler.Get)
								r.Put("/", taskHandler.Update)
								r.Delete("/", taskHandler.Delete)

								r.Route("/subtasks", func(r chi.Router) {
									r.Post("/", taskHandler.CreateSubTasks)
									r.Get("/", taskHandler.ListSubTasks)
									r.Patch("/{subTaskID}", taskHandler.UpdateSubTask)
									r.Delete("/{subTaskID}", taskHandler.DeleteSubTask)
								})
							})
						})
					})
				})
			})
		})
	})

	return r
}
