package api

import (
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/go-chi/chi/v5"

	"github.com/swifttasks/swifttasks/internal/api/handler"
	"github.com/swifttasks/swifttasks/internal/api/middleware"
	"github.com/swifttasks/swifttasks/internal/auth"
	"github.com/swifttasks/swifttasks/internal/content"
	"github.com/swifttasks/swifttasks/internal/membership"
	"github.com/swifttasks/swifttasks/internal/notification"
	"github.com/swifttasks/swifttasks/internal/team"
	"github.com/swifttasks/swifttasks/internal/user"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	DBPinger      handler.DBPinger
	Version       string
	AuthService   *auth.Service
	Membership    *membership.Service
	Users         user.Repository
	Invites       team.InviteRepository
	Contents      content.Repository
	Notifications notification.Repository
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	authHandler := handler.NewAuthHandler(deps.AuthService)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	meHandler := handler.NewMeHandler(deps.Membership)
	teamHandler := handler.NewTeamHandler(deps.Membership, deps.Users)
	inviteHandler := handler.NewInviteHandler(deps.Membership, deps.Invites)
	todoListHandler := handler.NewTodoListHandler(deps.Contents)
	projectHandler := handler.NewProjectHandler(deps.Contents)
	boardHandler := handler.NewBoardHandler(deps.Contents)
	docSpaceHandler := handler.NewDocSpaceHandler(deps.Contents)
	notificationHandler := handler.NewNotificationHandler(deps.Notifications)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(deps.AuthService))

		r.Get("/me", meHandler.Me)
		r.Get("/me/summary", meHandler.Summary)

		r.Route("/teams", func(r chi.Router) {
			r.Post("/", teamHandler.Create)
			r.Delete("/", teamHandler.Delete)
			r.Post("/leave", teamHandler.Leave)
			r.Post("/transfer", teamHandler.Transfer)
			r.Get("/members", teamHandler.Members)

			r.Route("/invites", func(r chi.Router) {
				r.Post("/", inviteHandler.Create)
				r.Get("/", inviteHandler.List)
				r.Post("/{code}/resend", inviteHandler.Resend)
				r.Delete("/{code}", inviteHandler.Revoke)
			})
		})

		r.Post("/invites/{code}/accept", inviteHandler.Accept)

		r.Route("/todolists", func(r chi.Router) {
			r.Post("/", todoListHandler.Create)
			r.Get("/", todoListHandler.List)
			r.Patch("/{id}", todoListHandler.Update)
			r.Delete("/{id}", todoListHandler.Delete)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Post("/", projectHandler.Create)
			r.Get("/", projectHandler.List)
			r.Get("/{id}", projectHandler.Get)
			r.Patch("/{id}", projectHandler.Update)
			r.Delete("/{id}", projectHandler.Delete)
			r.Post("/{id}/boards", boardHandler.CreateBoard)
			r.Get("/{id}/boards", boardHandler.ListBoards)
		})

		r.Route("/boards", func(r chi.Router) {
			r.Get("/{id}", boardHandler.GetBoard)
			r.Post("/{id}/columns", boardHandler.CreateColumn)
			r.Post("/{id}/columns/reorder", boardHandler.ReorderColumns)
		})

		r.Route("/columns", func(r chi.Router) {
			r.Post("/{id}/items", boardHandler.CreateItem)
			r.Post("/{id}/items/reorder", boardHandler.ReorderItems)
		})

		r.Route("/items", func(r chi.Router) {
			r.Patch("/{id}", boardHandler.UpdateItem)
			r.Delete("/{id}", boardHandler.DeleteItem)
		})

		r.Route("/docspaces", func(r chi.Router) {
			r.Post("/", docSpaceHandler.Create)
			r.Get("/", docSpaceHandler.List)
			r.Get("/{id}", docSpaceHandler.Get)
			r.Delete("/{id}", docSpaceHandler.Delete)
			r.Post("/{id}/pages", docSpaceHandler.CreatePage)
		})

		r.Route("/pages", func(r chi.Router) {
			r.Patch("/{id}", docSpaceHandler.UpdatePage)
			r.Delete("/{id}", docSpaceHandler.DeletePage)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", notificationHandler.List)
			r.Post("/{id}/read", notificationHandler.MarkRead)
			r.Delete("/{id}", notificationHandler.Delete)
		})
	})

	return r
}
