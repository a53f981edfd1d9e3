package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/shiftlink/shiftlink-backend-go/internal/config"
	"github.com/shiftlink/shiftlink-backend-go/internal/handler/http/middleware"
	"github.com/shiftlink/shiftlink-backend-go/internal/pkg/jwt"
)

func NewRouter(cfg *config.Config, jwtService jwt.Service, shiftHandler ShiftHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "shiftlink-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", shiftHandler.List)
				r.Get("/{shiftID}", shiftHandler.Get)

				// Workers punch their own shifts
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireWorker)
					r.Post("/{shiftID}/clock-in", shiftHandler.ClockIn)
					r.Post("/{shiftID}/clock-out", shiftHandler.ClockOut)
				})

				// Businesses schedule and settle
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireBusiness)
					r.Post("/", shiftHandler.Schedule)
					r.Post("/{shiftID}/complete", shiftHandler.Complete)
					r.Patch("/{shiftID}/hours", shiftHandler.AdjustHours)
				})
			})
		})
	})
	return r
}
