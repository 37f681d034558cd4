package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"expense-api/internal/auth"
	"expense-api/internal/config"
	"expense-api/internal/handlers"
	"expense-api/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	tokens := auth.NewTokenManager([]byte(cfg.JWTSecret), cfg.TokenTTL)
	h := handlers.NewHandlers(db, tokens)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      setupRouter(h),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server running on http://localhost:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// setupRouter wires all routes. Expense routes require a valid bearer token.
func setupRouter(h *handlers.Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/login", h.Login)

	mux.Handle("GET /api/expenses", h.AuthMiddleware(http.HandlerFunc(h.ListExpenses)))
	mux.Handle("GET /api/expenses/summary", h.AuthMiddleware(http.HandlerFunc(h.Summary)))
	mux.Handle("POST /api/expenses", h.AuthMiddleware(http.HandlerFunc(h.CreateExpense)))
	mux.Handle("PUT /api/expenses/{id}", h.AuthMiddleware(http.HandlerFunc(h.UpdateExpense)))
	mux.Handle("DELETE /api/expenses/{id}", h.AuthMiddleware(http.HandlerFunc(h.DeleteExpense)))

	return mux
}
