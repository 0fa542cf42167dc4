package routes

import (
	"matchnight/handlers"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

func SetupRoutes(
	router *chi.Mux,
	accountHandler *handlers.AccountHandler,
	sessionHandler *handlers.SessionHandler,
	matchHandler *handlers.MatchHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	groupHandler *handlers.GroupHandler,
	inviteHandler *handlers.InviteHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Account-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler())

	router.Route("/accounts", func(r chi.Router) {
		r.Post("/", accountHandler.CreateAccount)
		r.Get("/{accountID}", accountHandler.GetAccount)
	})

	router.Route("/sessions", func(r chi.Router) {
		r.Post("/", sessionHandler.CreateSession)
		r.Post("/join", sessionHandler.JoinByCode)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", sessionHandler.GetSession)
			r.Post("/end", sessionHandler.EndSession)
			r.Post("/players", sessionHandler.AddPlayer)

			r.Get("/matches", matchHandler.ListSessionMatches)
			r.Post("/matches", matchHandler.CreateMatch)

			r.Get("/leaderboard/players", leaderboardHandler.SessionPlayerLeaderboard)
			r.Get("/leaderboard/pairs", leaderboardHandler.SessionPairLeaderboard)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", matchHandler.GetMatch)
		r.Delete("/{matchID}", matchHandler.DeleteMatch)
	})

	router.Route("/groups", func(r chi.Router) {
		r.Post("/", groupHandler.CreateGroup)

		r.Route("/{groupID}", func(r chi.Router) {
			r.Get("/", groupHandler.GetGroup)

			r.Get("/sessions", groupHandler.ListGroupSessions)
			r.Post("/sessions", groupHandler.CreateGroupSession)
			r.Get("/sessions/breakdown", leaderboardHandler.GroupSessionBreakdown)

			r.Get("/leaderboard/players", leaderboardHandler.GroupPlayerLeaderboard)
			r.Get("/leaderboard/pairs", leaderboardHandler.GroupPairLeaderboard)

			r.Post("/invites", inviteHandler.CreateInvite)
			r.Get("/invites", inviteHandler.ListGroupInvites)
			r.Delete("/invites/{inviteID}", inviteHandler.DeleteInvite)
		})
	})

	router.Route("/invites", func(r chi.Router) {
		r.Get("/{token}", inviteHandler.GetInviteByToken)
		r.Post("/{token}/accept", inviteHandler.AcceptInvite)
	})
}
