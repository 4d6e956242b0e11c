package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(
	presentationHandler *PresentationHandler,
	extractionHandler *ExtractionHandler,
	infoHandler *InfoHandler,
	requestMiddleware func(http.Handler) http.Handler,
	allowedOrigins []string,
) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", infoHandler.Home).Methods(http.MethodGet)
	router.HandleFunc("/health", infoHandler.Health).Methods(http.MethodGet)
	router.HandleFunc("/templates", infoHandler.ListTemplates).Methods(http.MethodGet)

	router.HandleFunc("/generate", presentationHandler.Generate).Methods(http.MethodPost)
	router.HandleFunc("/extract_text", extractionHandler.ExtractText).Methods(http.MethodPost)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			RequestIDHeader,
		},
		ExposedHeaders: []string{
			"Content-Disposition",
			RequestIDHeader,
		},
		MaxAge: 300, // Maximum value not ignored by any of major browsers
	})

	var handler http.Handler = router
	if requestMiddleware != nil {
		handler = requestMiddleware(handler)
	}
	return c.Handler(handler)
}
