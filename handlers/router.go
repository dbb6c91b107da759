package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"SafeEduBackend/middleware"
	"SafeEduBackend/models"
)

type RouterOptions struct {
	AllowedOrigins []string
	// RateLimiter is optional; nil disables limiting.
	RateLimiter *middleware.RateLimiter
}

// NewRouter builds the full HTTP handler: routes, auth, role guards,
// request logging, panic recovery, rate limiting and CORS.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	router := mux.NewRouter()
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// Public routes
	router.HandleFunc("/api/health", h.Health).Methods("GET")
	router.HandleFunc("/api/auth/register", h.Register).Methods("POST")
	router.HandleFunc("/api/auth/login", h.Login).Methods("POST")

	// Protected routes
	api := router.PathPrefix("/api").Subrouter()
	api.Use(h.tokens.AuthMiddleware)

	api.HandleFunc("/auth/logout", h.Logout).Methods("POST")
	api.HandleFunc("/auth/me", h.GetMe).Methods("GET")

	// Course catalog and questions
	api.HandleFunc("/courses", h.ListCourses).Methods("GET")
	api.Handle("/courses", adminOnly(http.HandlerFunc(h.CreateCourse))).Methods("POST")
	api.HandleFunc("/courses/{id}", h.GetCourse).Methods("GET")
	api.HandleFunc("/courses/{courseId}/assessments", h.ListAssessments).Methods("GET")
	api.Handle("/courses/{courseId}/assessments", adminOnly(http.HandlerFunc(h.CreateQuestion))).Methods("POST")

	// Notice board
	api.HandleFunc("/notices", h.ListNotices).Methods("GET")
	api.Handle("/notices", adminOnly(http.HandlerFunc(h.CreateNotice))).Methods("POST")
	api.HandleFunc("/notices/{id}", h.GetNotice).Methods("GET")
	api.Handle("/notices/{id}", adminOnly(http.HandlerFunc(h.UpdateNotice))).Methods("PUT")
	api.Handle("/notices/{id}", adminOnly(http.HandlerFunc(h.DeleteNotice))).Methods("DELETE")

	// Per-user records (self or admin)
	users := api.PathPrefix("/users/{userId}").Subrouter()
	users.Use(middleware.SelfOrAdmin)
	users.HandleFunc("/progress", h.ListProgress).Methods("GET")
	users.HandleFunc("/progress/{courseId}", h.GetProgress).Methods("GET")
	users.HandleFunc("/progress/{courseId}", h.UpsertProgress).Methods("PUT")
	users.HandleFunc("/assessments/{courseId}", h.SubmitAssessment).Methods("POST")
	users.HandleFunc("/assessments/{courseId}", h.ListAttempts).Methods("GET")
	users.HandleFunc("/certificates", h.ListCertificates).Methods("GET")

	var handler http.Handler = router
	if opts.RateLimiter != nil {
		handler = opts.RateLimiter.Middleware(handler)
	}
	handler = middleware.LoggingMiddleware(h.log)(handler)
	handler = middleware.RecoveryMiddleware(h.log)(handler)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-CSRF-Token",
		},
		ExposedHeaders: []string{
			"Link",
			"Retry-After",
		},
		AllowCredentials: true,
		MaxAge:           300,
	})

	return corsHandler.Handler(handler)
}
