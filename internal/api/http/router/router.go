package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/placedir/places-server/internal/api/http/handler"
	"github.com/placedir/places-server/internal/api/http/middleware"
	"github.com/placedir/places-server/internal/apperror"
	"github.com/placedir/places-server/internal/logger"
	"github.com/placedir/places-server/internal/model"
	"github.com/placedir/places-server/internal/service"
)

// Router wires handlers and middleware into the HTTP route tree.
type Router struct {
	authService  *service.Auth
	placeService *service.Place
	storage      model.Storage
	tokenManager model.TokenManager
	corsOrigins  []string
	logger       *logger.Logger
}

// New creates a new Router instance.
func New(
	authService *service.Auth,
	placeService *service.Place,
	storage model.Storage,
	tokenManager model.TokenManager,
	corsOrigins []string,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:  authService,
		placeService: placeService,
		storage:      storage,
		tokenManager: tokenManager,
		corsOrigins:  corsOrigins,
		logger:       logger,
	}
}

// Register builds the route tree with logging, CORS and the credential gate
// on mutating place routes.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenManager, r.logger)

	authHandler := handler.NewAuth(r.authService, r.storage, r.logger)
	placeHandler := handler.NewPlace(r.placeService, r.storage, r.logger)

	mux := chi.NewRouter()
	mux.Use(logging.Handle)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: r.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"},
		MaxAge:         86400,
	}))

	mux.Route("/api/places", func(pr chi.Router) {
		pr.Get("/{pid}", placeHandler.GetPlace)
		pr.Get("/user/{uid}", placeHandler.ListUserPlaces)

		pr.Group(func(pr chi.Router) {
			pr.Use(authenticate.Handle)
			pr.Post("/", placeHandler.CreatePlace)
			pr.Patch("/{pid}", placeHandler.UpdatePlace)
			pr.Delete("/{pid}", placeHandler.DeletePlace)
		})
	})

	mux.Route("/api/users", func(ur chi.Router) {
		ur.Get("/", authHandler.ListUsers)
		ur.Post("/signup", authHandler.Signup)
		ur.Post("/login", authHandler.Login)
	})

	mux.Get("/uploads/images/{key}", placeHandler.ServeImage)

	mux.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		handler.WriteError(w, apperror.NotFound("could not find this route"))
	})

	return mux
}
