package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/majkus1/time-and-leave-management-app-sub000/internal/handler/http/middleware"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/pkg/jwt"
)

func NewRouter(
	JWTService jwt.Service,
	timerHandler TimerHandler,
	qrScanHandler QRScanHandler,
	reportHandler ReportHandler,
	env string,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "worktime-ledger"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
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
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/timer", func(r chi.Router) {
				r.Post("/start", timerHandler.Start)
				r.Post("/pause", timerHandler.PauseResume)
				r.Post("/overtime", timerHandler.ToggleOvertime)
				r.Post("/split", timerHandler.Split)
				r.Post("/stop", timerHandler.Stop)
				r.Put("/label", timerHandler.UpdateLabel)
				r.Get("/active", timerHandler.GetActive)
				r.Get("/can-start", timerHandler.CanStart)
			})

			r.Route("/sessions", func(r chi.Router) {
				r.Delete("/{id}", timerHandler.DeleteSession)
			})

			r.Route("/workdays", func(r chi.Router) {
				r.Put("/manual", timerHandler.UpsertManualEntry)
			})

			r.Route("/qr", func(r chi.Router) {
				r.Post("/scan", qrScanHandler.Scan)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/sessions", reportHandler.Sessions)
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	return r
}
