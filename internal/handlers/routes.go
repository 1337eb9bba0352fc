package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/scriptink/writofest-api/internal/auth"
	"github.com/scriptink/writofest-api/internal/logging"
)

const livenessMessage = "WritoFest Backend is running!"

// RouteOptions wires the handlers into the router. Admin, Auth and Metrics
// are optional.
type RouteOptions struct {
	Logger       *slog.Logger
	CORSOrigins  []string
	Registration *RegistrationHandler
	Admin        *AdminHandler
	Auth         *auth.AuthHandler
	Metrics      http.Handler
}

func RegisterRoutes(r *chi.Mux, opts RouteOptions) huma.API {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(logger))
	r.Use(middleware.Recoverer)
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Initialize Huma API
	config := huma.DefaultConfig("WritoFest Registration API", "1.0.0")
	// Keep response bodies to {success, message, data}: no $schema links.
	config.CreateHooks = nil
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.TokenCookie,
		},
	}
	api := humachi.New(r, config)

	// Public routes
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(livenessMessage))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics)
	}

	huma.Register(api, huma.Operation{
		OperationID:      "register",
		Method:           http.MethodPost,
		Path:             "/register",
		Summary:          "Submit or update a registration",
		DefaultStatus:    http.StatusCreated,
		Errors:           []int{http.StatusBadRequest, http.StatusForbidden, http.StatusConflict, http.StatusInternalServerError},
		SkipValidateBody: true,
		Middlewares:      huma.Middlewares{opts.Registration.RejectWhenClosed(api)},
	}, opts.Registration.HandleRegister)

	if opts.Auth == nil {
		return api
	}

	// Auth routes
	r.Get("/auth/discord/login", opts.Auth.HandleLogin)
	r.Get("/auth/discord/callback", opts.Auth.HandleCallback)

	if opts.Admin == nil {
		return api
	}

	// Protected routes
	security := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
	}
	huma.Get(api, "/admin/registrations", opts.Admin.HandleList, security)
	huma.Get(api, "/admin/registrations/{usn}", opts.Admin.HandleGet, security)
	r.With(opts.Auth.AuthMiddleware).Get("/admin/registrations.csv", opts.Admin.HandleExportCSV)

	return api
}
