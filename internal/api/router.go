package api

import (
	"log/slog"
	"net/http"
	"time"

	"cp_arena/internal/api/handler"
	"cp_arena/internal/app/service"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	tokenAuth *jwtauth.JWTAuth,
	authService *service.AuthService,
	contestService *service.ContestService,
	participationService *service.ParticipationService,
	gradingService *service.GradingService,
	sessionService *service.SessionService,
	badgeService *service.BadgeService,
) http.Handler {
	r := chi.NewRouter()

	logger := httplog.NewLogger("cp-arena", httplog.Options{
		LogLevel:         slog.LevelInfo,
		Concise:          true,
		MessageFieldName: "message",
	})

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           3000,
	}))

	// Verifies a bearer token when present and puts claims in context; the
	// Authenticator on the authoring routes decides whether one is required.
	r.Use(jwtauth.Verifier(tokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		v1.Group(func(publicAuth chi.Router) {
			authHandler.RegisterRoutes(publicAuth)
		})

		contestHandler := handler.NewContestHandler(contestService)
		sessionHandler := handler.NewSessionHandler(sessionService)
		v1.Route("/contests", func(contests chi.Router) {
			contestHandler.RegisterRoutes(contests)
			contests.Route("/{contestID}", func(perContest chi.Router) {
				contestHandler.RegisterContestRoutes(perContest)
				sessionHandler.RegisterRoutes(perContest)
			})
		})

		participationHandler := handler.NewParticipationHandler(participationService)
		v1.Route("/participation", participationHandler.RegisterRoutes)

		executeHandler := handler.NewExecuteHandler(gradingService)
		v1.Route("/execute", executeHandler.RegisterRoutes)

		badgeHandler := handler.NewBadgeHandler(badgeService)
		v1.Route("/badges", badgeHandler.RegisterRoutes)
	})

	return r
}
