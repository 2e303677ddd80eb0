package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/grouplib/library-api/internal/api"
	apimiddleware "github.com/grouplib/library-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	bookHandler := api.NewBookHandler(app.bookService)
	userHandler := api.NewUserHandler(app.userService)

	r.Route("/api/v1", func(r chi.Router) {
		// Book catalogue and lending
		r.Post("/books", bookHandler.RegisterBook)
		r.Post("/books/loan", bookHandler.LoanBook)
		r.Put("/books/return", bookHandler.ReturnBook)
		r.Get("/books/loan", bookHandler.GetLoanCount)
		r.Get("/books/stat", bookHandler.GetStatistics)

		// User management
		r.Post("/users", userHandler.RegisterUser)
		r.Get("/users", userHandler.ListUsers)
		r.Put("/users", userHandler.RenameUser)
		r.Delete("/users", userHandler.DeleteUser)
		r.Get("/users/loan", userHandler.GetLoanHistories)
	})

	// Liveness check, verifies the database is reachable.
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		if err := app.db.PingContext(ctx); err != nil {
			app.logger.Error("health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
