package handler

import (
	"net/http"

	"spec-summarizer/internal/domain"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// RouterDeps are the collaborators the router wires into handlers.
type RouterDeps struct {
	Summarizer     domain.SummarizerService
	Sessions       domain.SessionStore
	Logger         domain.Logger
	MaxFileSize    int64
	AllowedOrigins []string
}

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(deps RouterDeps) http.Handler {
	router := mux.NewRouter()
	router.Use(RequestLogger(deps.Logger))

	// Health check endpoint (no session required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "spec-summarizer"})
	}).Methods(http.MethodGet)

	sessionMiddleware := SessionMiddleware(deps.Sessions, deps.Logger)

	// JSON API
	apiHandler := NewAPIHandler(deps.Summarizer, deps.Sessions, deps.Logger, deps.MaxFileSize)
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(sessionMiddleware)
	api.HandleFunc("/upload", apiHandler.Upload).Methods(http.MethodPost)
	api.HandleFunc("/session", apiHandler.GetSession).Methods(http.MethodGet)
	api.HandleFunc("/session", apiHandler.DeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/extraction", apiHandler.GetExtraction).Methods(http.MethodGet)
	api.HandleFunc("/summarize", apiHandler.Summarize).Methods(http.MethodPost)
	api.HandleFunc("/review/approve", apiHandler.Approve).Methods(http.MethodPost)
	api.HandleFunc("/review/flag", apiHandler.Flag).Methods(http.MethodPost)

	// HTML page
	pageHandler := NewPageHandler(deps.Summarizer, deps.Sessions, deps.Logger, deps.MaxFileSize)
	page := router.PathPrefix("/").Subrouter()
	page.Use(sessionMiddleware)
	page.HandleFunc("/", pageHandler.Index).Methods(http.MethodGet)
	page.HandleFunc("/upload", pageHandler.Upload).Methods(http.MethodPost)
	page.HandleFunc("/summarize", pageHandler.Summarize).Methods(http.MethodPost)
	page.HandleFunc("/approve", pageHandler.Approve).Methods(http.MethodPost)
	page.HandleFunc("/flag", pageHandler.Flag).Methods(http.MethodPost)

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: deps.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-CSRF-Token",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
